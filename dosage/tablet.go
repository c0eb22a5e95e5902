package dosage

import (
	"github.com/giygas/antimalarial-dosage/catalog"
)

// TabletRangeResolver resolves weight-banded tablet products
type TabletRangeResolver struct {
	product *catalog.Product
	scheme  *catalog.TabletScheme
}

// NewTabletRangeResolver returns a resolver for a product with a tablet scheme
func NewTabletRangeResolver(p *catalog.Product, s *catalog.TabletScheme) *TabletRangeResolver {
	return &TabletRangeResolver{product: p, scheme: s}
}

// Resolve scans types and specifications in catalog order and keeps, per
// specification, the first band containing weight. Specifications without a
// matching band contribute nothing. Route is ignored.
func (r *TabletRangeResolver) Resolve(weight float64, _ Route) (*Plan, error) {
	lines := r.Lines(weight)
	if lines == nil {
		min, max := r.scheme.WeightDomain()
		return nil, &OutOfRangeError{
			Weight:    weight,
			Min:       min,
			Max:       max,
			Uncovered: weight >= min && weight <= max,
		}
	}

	return &Plan{
		ProductID: r.product.ID,
		Kind:      catalog.SchemeTablet,
		Weight:    weight,
		Tablet:    &TabletPlan{Dosages: lines},
	}, nil
}

// Lines returns the matching plan lines, or nil when weight is outside the
// domain or no band contains it
func (r *TabletRangeResolver) Lines(weight float64) []TabletDosage {
	if weight < r.scheme.MinWeight || weight > r.scheme.MaxWeight {
		return nil
	}

	var lines []TabletDosage
	for _, tabletType := range r.scheme.Types {
		for _, spec := range tabletType.Specifications {
			for _, band := range spec.WeightRanges {
				if band.Contains(weight) {
					lines = append(lines, TabletDosage{
						Type:          tabletType.Name,
						Specification: spec.Dosage,
						Count:         band.Count,
					})
					break
				}
			}
		}
	}
	return lines
}
