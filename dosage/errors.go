package dosage

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/giygas/antimalarial-dosage/catalog"
)

// ErrUnknownProduct matches any *UnknownProductError through errors.Is
var ErrUnknownProduct = errors.New("unknown product")

// UnknownProductError reports a product id absent from the catalog
type UnknownProductError struct {
	ID catalog.ProductID
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product %q", string(e.ID))
}

func (e *UnknownProductError) Is(target error) bool {
	return target == ErrUnknownProduct
}

// OutOfRangeError reports a weight outside the product's valid domain.
// Min and Max are the closed domain bounds in kg. Uncovered is set when the
// weight lies inside the domain but no half-open band contains it, as with
// the upper bound of a tablet domain.
type OutOfRangeError struct {
	Weight    float64
	Min       float64
	Max       float64
	Uncovered bool
}

func (e *OutOfRangeError) Error() string {
	if e.Uncovered {
		return fmt.Sprintf("no weight band covers %g kg (bands cover %g kg up to but excluding %g kg)", e.Weight, e.Min, e.Max)
	}
	return fmt.Sprintf("weight %g kg is outside the valid range %g-%g kg", e.Weight, e.Min, e.Max)
}

// InvalidInputError reports a malformed weight or route
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ParseWeight parses a user-supplied weight in kg. It accepts a decimal
// comma and surrounding spaces but rejects empty, NaN and infinite input.
func ParseWeight(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &InvalidInputError{Field: "weight", Value: raw, Reason: "weight is required"}
	}
	s = strings.Replace(s, ",", ".", 1)

	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &InvalidInputError{Field: "weight", Value: raw, Reason: "not a number"}
	}
	if err := checkWeight(w); err != nil {
		return 0, err
	}
	return w, nil
}

func checkWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return &InvalidInputError{Field: "weight", Value: strconv.FormatFloat(w, 'g', -1, 64), Reason: "not a finite number"}
	}
	return nil
}
