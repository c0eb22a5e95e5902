package render

import (
	"math"

	"github.com/giygas/antimalarial-dosage/catalog"
)

// weightStep is the resolution of the weight widget in kg. It also keeps
// vial plans away from a zero dose.
const weightStep = 0.1

// ClampWeight applies the input policy of the weight widget: the weight is
// clipped to the product domain, vial products never go below 0.1 kg, and
// tablet products stop one step below the upper bound, which no half-open
// band contains. NaN passes through so that the engine reports it as
// invalid input.
func ClampWeight(weight float64, s catalog.Scheme) float64 {
	if math.IsNaN(weight) || s == nil {
		return weight
	}

	lo, hi := s.WeightDomain()
	switch s.Kind() {
	case catalog.SchemeVial:
		if lo < weightStep {
			lo = weightStep
		}
	case catalog.SchemeTablet:
		if hi-weightStep >= lo {
			hi = math.Round((hi-weightStep)*10) / 10
		}
	}

	return math.Min(math.Max(weight, lo), hi)
}
