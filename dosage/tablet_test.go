package dosage

import (
	"errors"
	"strings"
	"testing"

	"github.com/giygas/antimalarial-dosage/catalog"
)

func darteppResolver(t *testing.T) *TabletRangeResolver {
	t.Helper()
	p, err := catalog.Default().Get(catalog.DArtepp)
	if err != nil {
		t.Fatalf("Failed to get dartepp: %v", err)
	}
	return NewTabletRangeResolver(p, p.Scheme.(*catalog.TabletScheme))
}

type tabletLine struct {
	typeName string
	spec     string
	count    float64
}

func linesOf(dosages []TabletDosage) []tabletLine {
	out := make([]tabletLine, 0, len(dosages))
	for _, d := range dosages {
		out = append(out, tabletLine{d.Type.In("en"), d.Specification, d.Count})
	}
	return out
}

func TestTabletResolverBands(t *testing.T) {
	r := darteppResolver(t)

	tests := []struct {
		name     string
		weight   float64
		expected []tabletLine
	}{
		{
			name:   "domain minimum",
			weight: 5,
			expected: []tabletLine{
				{"D-ARTEPP Dispersible", "20mg/120mg", 1},
			},
		},
		{
			name:   "just below a band maximum",
			weight: 7.99,
			expected: []tabletLine{
				{"D-ARTEPP Dispersible", "20mg/120mg", 1},
			},
		},
		{
			name:   "band maximum belongs to the next band",
			weight: 8,
			expected: []tabletLine{
				{"D-ARTEPP Dispersible", "30mg/180mg", 1},
			},
		},
		{
			name:   "below the adult tablet bands",
			weight: 16.9,
			expected: []tabletLine{
				{"D-ARTEPP Dispersible", "20mg/120mg", 2},
				{"D-ARTEPP Dispersible", "40mg/240mg", 1},
			},
		},
		{
			name:   "overlapping specifications are all returned",
			weight: 17,
			expected: []tabletLine{
				{"D-ARTEPP Dispersible", "20mg/120mg", 3},
				{"D-ARTEPP Dispersible", "30mg/180mg", 2},
				{"D-ARTEPP", "40mg/240mg", 1.5},
				{"D-ARTEPP", "60mg/360mg", 1},
			},
		},
		{
			name:   "fractional counts are preserved",
			weight: 40,
			expected: []tabletLine{
				{"D-ARTEPP Dispersible", "20mg/120mg", 6},
				{"D-ARTEPP Dispersible", "30mg/180mg", 4},
				{"D-ARTEPP Dispersible", "40mg/240mg", 3},
				{"D-ARTEPP", "40mg/240mg", 3},
				{"D-ARTEPP", "60mg/360mg", 2},
				{"D-ARTEPP", "80mg/480mg", 1.5},
			},
		},
		{
			name:   "last band",
			weight: 99.9,
			expected: []tabletLine{
				{"D-ARTEPP Dispersible", "20mg/120mg", 10},
				{"D-ARTEPP Dispersible", "40mg/240mg", 5},
				{"D-ARTEPP", "40mg/240mg", 5},
				{"D-ARTEPP", "80mg/480mg", 2.5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := r.Resolve(tt.weight, RouteDefault)
			if err != nil {
				t.Fatalf("Resolve(%g) returned error: %v", tt.weight, err)
			}
			if plan.Kind != catalog.SchemeTablet || plan.Tablet == nil || plan.Vial != nil {
				t.Fatalf("Expected a tablet plan, got %+v", plan)
			}

			got := linesOf(plan.Tablet.Dosages)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d lines, got %d: %+v", len(tt.expected), len(got), got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Line %d: expected %+v, got %+v", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestTabletResolverCoversDomain(t *testing.T) {
	r := darteppResolver(t)

	for i := 50; i < 1000; i++ {
		weight := float64(i) / 10
		if lines := r.Lines(weight); len(lines) == 0 {
			t.Errorf("No specification matched %g kg", weight)
		}
	}
}

func TestTabletResolverOutOfDomain(t *testing.T) {
	r := darteppResolver(t)

	for _, weight := range []float64{0, 3, 4.99, 100, 100.5} {
		_, err := r.Resolve(weight, RouteDefault)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Errorf("Expected OutOfRangeError for %g, got %v", weight, err)
			continue
		}
		if oor.Min != 5 || oor.Max != 100 {
			t.Errorf("Expected domain 5-100, got %g-%g", oor.Min, oor.Max)
		}
		if want := weight == 100; oor.Uncovered != want {
			t.Errorf("%g kg: expected Uncovered=%v, got %v", weight, want, oor.Uncovered)
		}
		if weight == 100 && strings.Contains(oor.Error(), "outside the valid range") {
			t.Errorf("Upper bound message should not claim it is outside the range: %q", oor.Error())
		}
	}
}

func TestTabletResolverLocalizedTypeNames(t *testing.T) {
	lines := darteppResolver(t).Lines(20)
	if len(lines) == 0 {
		t.Fatal("Expected lines at 20 kg")
	}
	if got := lines[0].Type.In("zh"); got != "D-ARTEPP 分散片" {
		t.Errorf("Expected Chinese type name, got %q", got)
	}
}
