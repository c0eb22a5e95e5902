package dosage

import (
	"sort"

	"github.com/giygas/antimalarial-dosage/catalog"
)

// Plan is the tagged result of a computation. Exactly one of Tablet and
// Vial is set, matching Kind.
type Plan struct {
	ProductID catalog.ProductID  `json:"productId"`
	Kind      catalog.SchemeKind `json:"kind"`
	Weight    float64            `json:"weight"`
	Tablet    *TabletPlan        `json:"tablet,omitempty"`
	Vial      *VialPlan          `json:"vial,omitempty"`
}

// TabletPlan lists every specification whose band contains the weight
type TabletPlan struct {
	Dosages []TabletDosage `json:"dosages"`
}

// TabletDosage is one plan line. Count may be fractional (half tablets).
type TabletDosage struct {
	Type          catalog.LocalizedText `json:"type"`
	Specification string                `json:"specification"`
	Count         float64               `json:"count"`
}

// VialPlan is the chosen vial combination and the volumes derived from it.
// Volume fields are nil when they do not apply to the product's solvent kind.
type VialPlan struct {
	TotalDoseMg      float64     `json:"totalDoseMg"`
	PerKgRate        float64     `json:"perKgRate"`
	IsChild          bool        `json:"isChild"`
	StrengthCounts   map[int]int `json:"strengthCounts"`
	Combination      []int       `json:"combination"`
	TotalMgDelivered int         `json:"totalMgDelivered"`
	Consolidated     bool        `json:"consolidated"`

	ReconstitutionVolume   *float64 `json:"reconstitutionVolume,omitempty"`
	InjectionVolume        *float64 `json:"injectionVolume,omitempty"`
	BicarbonateVolume      *float64 `json:"bicarbonateVolume,omitempty"`
	SalineVolume           *float64 `json:"salineVolume,omitempty"`
	ExactInjectionVolume   *float64 `json:"exactInjectionVolume,omitempty"`
	RoundedInjectionVolume *float64 `json:"roundedInjectionVolume,omitempty"`

	Concentration float64       `json:"concentration"`
	Route         Route         `json:"route"`
	Alternatives  []Alternative `json:"alternatives,omitempty"`
}

// Alternative is a single-strength combination delivering a comparable dose
type Alternative struct {
	Mg      int `json:"mg"`
	Count   int `json:"count"`
	TotalMg int `json:"totalMg"`
}

// StrengthLine is one (denomination, vial count) pair
type StrengthLine struct {
	Mg    int
	Count int
}

// Lines returns StrengthCounts ordered by descending mg
func (v *VialPlan) Lines() []StrengthLine {
	lines := make([]StrengthLine, 0, len(v.StrengthCounts))
	for mg, n := range v.StrengthCounts {
		lines = append(lines, StrengthLine{Mg: mg, Count: n})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Mg > lines[j].Mg })
	return lines
}

// VialCount returns the number of vials in the combination
func (v *VialPlan) VialCount() int {
	return len(v.Combination)
}

func countStrengths(combination []int) map[int]int {
	counts := make(map[int]int, len(combination))
	for _, mg := range combination {
		counts[mg]++
	}
	return counts
}

func sumMg(combination []int) int {
	total := 0
	for _, mg := range combination {
		total += mg
	}
	return total
}

func floatPtr(f float64) *float64 {
	return &f
}
