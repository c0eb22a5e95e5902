package dosage

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/giygas/antimalarial-dosage/catalog"
)

var (
	// consolidated combinations must still deliver this share of the dose
	consolidationFloor = decimal.RequireFromString("0.95")

	childIVFloor = decimal.NewFromInt(2)
	adultIVFloor = decimal.NewFromInt(7)
	childIMFloor = decimal.NewFromInt(1)
	adultIMFloor = decimal.NewFromInt(4)
)

// VialCombinationOptimizer resolves injectable products dosed in mg/kg
type VialCombinationOptimizer struct {
	product *catalog.Product
	scheme  *catalog.VialScheme
	// strengths in descending mg order
	strengths []int
}

// NewVialCombinationOptimizer returns an optimizer for a product with a vial scheme
func NewVialCombinationOptimizer(p *catalog.Product, s *catalog.VialScheme) *VialCombinationOptimizer {
	strengths := make([]int, 0, len(s.Strengths))
	for _, st := range s.Strengths {
		strengths = append(strengths, st.Mg)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(strengths)))

	return &VialCombinationOptimizer{product: p, scheme: s, strengths: strengths}
}

// Resolve computes the target dose, picks the vial combination and derives
// the volumes for route. Single-solvent products ignore route; dual-solvent
// products default to IV.
func (o *VialCombinationOptimizer) Resolve(weight float64, route Route) (*Plan, error) {
	if weight < o.scheme.MinWeight || weight > o.scheme.MaxWeight {
		return nil, &OutOfRangeError{Weight: weight, Min: o.scheme.MinWeight, Max: o.scheme.MaxWeight}
	}

	rate, child := o.scheme.Formula.RateFor(weight)
	dose := decimal.NewFromFloat(weight).Mul(decimal.NewFromFloat(rate))

	greedy := o.Greedy(dose)
	combination := greedy
	consolidated := false
	if candidate := o.Consolidate(greedy); candidate != nil && len(candidate) < len(greedy) {
		if decimal.NewFromInt(int64(sumMg(candidate))).GreaterThanOrEqual(dose.Mul(consolidationFloor)) {
			combination = candidate
			consolidated = true
		}
	}

	delivered := sumMg(combination)
	vp := &VialPlan{
		TotalDoseMg:      dose.InexactFloat64(),
		PerKgRate:        rate,
		IsChild:          child,
		StrengthCounts:   countStrengths(combination),
		Combination:      combination,
		TotalMgDelivered: delivered,
		Consolidated:     consolidated,
		Alternatives:     o.Alternatives(combination, dose),
	}

	switch o.scheme.Solvent {
	case catalog.DualSolvent:
		if err := o.dualSolventVolumes(vp, dose, route); err != nil {
			return nil, err
		}
	default:
		o.singleSolventVolumes(vp, dose)
	}

	return &Plan{
		ProductID: o.product.ID,
		Kind:      catalog.SchemeVial,
		Weight:    weight,
		Vial:      vp,
	}, nil
}

// Greedy fills dose from the largest strength down and over-fills any
// remainder with one vial of the smallest strength. The result is sorted
// descending and never delivers less than dose.
func (o *VialCombinationOptimizer) Greedy(dose decimal.Decimal) []int {
	combination := []int{}
	if len(o.strengths) == 0 {
		return combination
	}

	remaining := dose
	for _, mg := range o.strengths {
		m := decimal.NewFromInt(int64(mg))
		n := remaining.Div(m).Floor().IntPart()
		for i := int64(0); i < n; i++ {
			combination = append(combination, mg)
		}
		remaining = remaining.Sub(m.Mul(decimal.NewFromInt(n)))
	}

	if remaining.IsPositive() {
		combination = append(combination, o.strengths[len(o.strengths)-1])
	}
	return combination
}

// Consolidate applies the first matching replacement rule once:
// 4×smallest, then 2×smallest, then 2×second smallest, each replaced by the
// strength of the combined mg when the catalog carries it. It returns nil
// when no rule applies. The pass is not repeated, so a combination can keep
// a consolidatable pair of a larger strength.
func (o *VialCombinationOptimizer) Consolidate(combination []int) []int {
	if len(o.strengths) == 0 {
		return nil
	}

	counts := countStrengths(combination)
	smallest := o.strengths[len(o.strengths)-1]

	type rule struct {
		mg    int
		group int
	}
	rules := []rule{{smallest, 4}, {smallest, 2}}
	if len(o.strengths) > 1 {
		rules = append(rules, rule{o.strengths[len(o.strengths)-2], 2})
	}

	for _, r := range rules {
		if counts[r.mg] < r.group || !o.hasStrength(r.mg*r.group) {
			continue
		}

		out := make([]int, 0, len(combination))
		for _, mg := range combination {
			if mg != r.mg {
				out = append(out, mg)
			}
		}
		for i := 0; i < counts[r.mg]/r.group; i++ {
			out = append(out, r.mg*r.group)
		}
		for i := 0; i < counts[r.mg]%r.group; i++ {
			out = append(out, r.mg)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(out)))
		return out
	}
	return nil
}

func (o *VialCombinationOptimizer) hasStrength(mg int) bool {
	for _, s := range o.strengths {
		if s == mg {
			return true
		}
	}
	return false
}

func (o *VialCombinationOptimizer) singleSolventVolumes(vp *VialPlan, dose decimal.Decimal) {
	reconstitution := decimal.Zero
	for _, mg := range vp.Combination {
		if st, ok := o.scheme.StrengthFor(mg); ok {
			reconstitution = reconstitution.Add(decimal.NewFromFloat(st.SolventVolume))
		}
	}

	concentration := decimal.NewFromFloat(o.scheme.Concentration)
	vp.ReconstitutionVolume = floatPtr(reconstitution.InexactFloat64())
	vp.InjectionVolume = floatPtr(dose.Div(concentration).InexactFloat64())
	vp.Concentration = o.scheme.Concentration
	vp.Route = RouteBoth
}

func (o *VialCombinationOptimizer) dualSolventVolumes(vp *VialPlan, dose decimal.Decimal, route Route) error {
	if route == RouteDefault {
		route = RouteIV
	}

	var concentration float64
	switch route {
	case RouteIV:
		concentration = o.scheme.Concentrations.IV
	case RouteIM:
		concentration = o.scheme.Concentrations.IM
	default:
		return &InvalidInputError{Field: "route", Value: string(route), Reason: "must be iv or im"}
	}

	bicarbonate := decimal.Zero
	saline := decimal.Zero
	for _, mg := range vp.Combination {
		st, ok := o.scheme.StrengthFor(mg)
		if !ok {
			continue
		}
		bicarbonate = bicarbonate.Add(decimal.NewFromFloat(st.BicarbonateVolume))
		if route == RouteIV {
			saline = saline.Add(decimal.NewFromFloat(st.SalineVolume))
		} else {
			saline = saline.Add(decimal.NewFromFloat(st.IMSalineVolume))
		}
	}

	exact := dose.Div(decimal.NewFromFloat(concentration))

	vp.BicarbonateVolume = floatPtr(bicarbonate.Round(1).InexactFloat64())
	vp.SalineVolume = floatPtr(saline.Round(1).InexactFloat64())
	vp.ExactInjectionVolume = floatPtr(exact.Round(2).InexactFloat64())
	vp.RoundedInjectionVolume = floatPtr(ClinicalRound(exact, route, vp.IsChild).Round(2).InexactFloat64())
	vp.Concentration = concentration
	vp.Route = route
	return nil
}

// ClinicalRound raises small injection volumes to the minimum volume that is
// practical to draw for the route and age group. Larger volumes pass through.
func ClinicalRound(exact decimal.Decimal, route Route, child bool) decimal.Decimal {
	switch {
	case route == RouteIV && child:
		if exact.LessThanOrEqual(childIVFloor) {
			return childIVFloor
		}
	case route == RouteIV:
		if exact.LessThanOrEqual(adultIVFloor) {
			return adultIVFloor
		}
	case child:
		if exact.LessThan(childIMFloor) {
			return childIMFloor
		}
	default:
		if exact.LessThanOrEqual(adultIMFloor) {
			return adultIMFloor
		}
	}
	return exact
}
