// Package catalog holds the antimalarial product reference data used by the
// dosage engine: tablet weight-band tables and injectable vial strengths.
// A Catalog is immutable once built and safe for concurrent reads.
package catalog

import (
	"errors"
	"fmt"
)

// ProductID identifies a product in the catalog
type ProductID string

const (
	DArtepp ProductID = "dartepp"
	Argesun ProductID = "argesun"
	Artesun ProductID = "artesun"
)

// ChildWeightThreshold is the weight (kg) below which the child formula applies
const ChildWeightThreshold = 20.0

// ErrProductNotFound is returned when an id has no product in the catalog
var ErrProductNotFound = errors.New("product not found")

// LocalizedText maps a language code (en, zh, fr) to a display string
type LocalizedText map[string]string

// In returns the text for lang, falling back to English and then to any value
func (t LocalizedText) In(lang string) string {
	if v, ok := t[lang]; ok && v != "" {
		return v
	}
	if v, ok := t["en"]; ok {
		return v
	}
	for _, v := range t {
		return v
	}
	return ""
}

// WeightRange is a half-open band [Min, Max) in kg mapped to a tablet count
type WeightRange struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count float64 `json:"count"`
}

// Contains reports whether weight falls inside [Min, Max)
func (r WeightRange) Contains(weight float64) bool {
	return weight >= r.Min && weight < r.Max
}

// Specification is one strength pairing of a tablet type with its band table
type Specification struct {
	Dosage       string        `json:"dosage"`
	WeightRanges []WeightRange `json:"weightRanges"`
}

// TabletType groups specifications under one presentation (dispersible, regular)
type TabletType struct {
	Name           LocalizedText   `json:"name"`
	Specifications []Specification `json:"specifications"`
}

// DosageFormula holds the mg/kg rates on each side of ChildWeightThreshold
type DosageFormula struct {
	Child float64 `json:"child"`
	Adult float64 `json:"adult"`
}

// RateFor returns the mg/kg rate for weight and whether the child branch was used
func (f DosageFormula) RateFor(weight float64) (float64, bool) {
	if weight < ChildWeightThreshold {
		return f.Child, true
	}
	return f.Adult, false
}

// Strength is a vial denomination with its fixed reconstitution and dilution volumes (ml)
type Strength struct {
	Mg                  int     `json:"mg"`
	SolventVolume       float64 `json:"solventVolume,omitempty"`
	VialSize            string  `json:"vialSize,omitempty"`
	AmpouleSize         string  `json:"ampouleSize,omitempty"`
	BicarbonateVolume   float64 `json:"bicarbonateVolume,omitempty"`
	SalineVolume        float64 `json:"salineVolume,omitempty"`
	IMSalineVolume      float64 `json:"imSalineVolume,omitempty"`
	AfterReconstitution float64 `json:"afterReconstitution,omitempty"`
	AfterDilutionIV     float64 `json:"afterDilutionIV,omitempty"`
	AfterDilutionIM     float64 `json:"afterDilutionIM,omitempty"`
}

// Concentrations holds the final mg/ml concentration for each injection route
type Concentrations struct {
	IV float64 `json:"iv"`
	IM float64 `json:"im"`
}

// SchemeKind tags the dosing scheme of a product
type SchemeKind string

const (
	SchemeTablet SchemeKind = "tablet"
	SchemeVial   SchemeKind = "vial"
)

// SolventKind distinguishes single-solvent from dual-solvent injectables
type SolventKind string

const (
	SingleSolvent SolventKind = "single"
	DualSolvent   SolventKind = "dual"
)

// Scheme is implemented by *TabletScheme and *VialScheme
type Scheme interface {
	Kind() SchemeKind
	// WeightDomain returns the closed interval of accepted weights in kg
	WeightDomain() (min, max float64)
}

// TabletScheme doses by weight bands over typed tablet specifications
type TabletScheme struct {
	Types     []TabletType
	MinWeight float64
	MaxWeight float64
}

func (s *TabletScheme) Kind() SchemeKind { return SchemeTablet }

func (s *TabletScheme) WeightDomain() (float64, float64) { return s.MinWeight, s.MaxWeight }

// VialScheme doses by mg/kg and fills the dose from vial strengths
type VialScheme struct {
	Formula   DosageFormula
	Strengths []Strength
	Solvent   SolventKind
	// Concentration is the fixed final mg/ml of single-solvent products
	Concentration float64
	// Concentrations is set for dual-solvent products only
	Concentrations *Concentrations
	MinWeight      float64
	MaxWeight      float64
}

func (s *VialScheme) Kind() SchemeKind { return SchemeVial }

func (s *VialScheme) WeightDomain() (float64, float64) { return s.MinWeight, s.MaxWeight }

// StrengthFor returns the strength with the given mg denomination
func (s *VialScheme) StrengthFor(mg int) (Strength, bool) {
	for _, st := range s.Strengths {
		if st.Mg == mg {
			return st, true
		}
	}
	return Strength{}, false
}

// Product is one catalog entry
type Product struct {
	ID          ProductID
	Name        string
	Description LocalizedText
	Scheme      Scheme
}

// Catalog is an immutable, ordered set of products
type Catalog struct {
	products map[ProductID]*Product
	order    []ProductID
}

// New builds a catalog from products, rejecting duplicates and scheme-less entries
func New(products ...*Product) (*Catalog, error) {
	c := &Catalog{
		products: make(map[ProductID]*Product, len(products)),
		order:    make([]ProductID, 0, len(products)),
	}

	for _, p := range products {
		if p == nil {
			return nil, fmt.Errorf("nil product")
		}
		if p.ID == "" {
			return nil, fmt.Errorf("product %q has an empty id", p.Name)
		}
		if p.Scheme == nil {
			return nil, fmt.Errorf("product %s has no dosing scheme", p.ID)
		}
		if _, exists := c.products[p.ID]; exists {
			return nil, fmt.Errorf("duplicate product id %s", p.ID)
		}
		c.products[p.ID] = p
		c.order = append(c.order, p.ID)
	}

	return c, nil
}

// Get returns the product for id
func (c *Catalog) Get(id ProductID) (*Product, error) {
	if c != nil {
		if p, ok := c.products[id]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

// Products returns all products in catalog order
func (c *Catalog) Products() []*Product {
	if c == nil {
		return nil
	}
	out := make([]*Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

// Len returns the number of products
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}
