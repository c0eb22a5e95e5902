package dosage

import (
	"errors"
	"math"
	"testing"

	"github.com/giygas/antimalarial-dosage/catalog"
)

func TestEngineDispatchesByScheme(t *testing.T) {
	engine := NewEngine(catalog.Default())

	tests := []struct {
		id     catalog.ProductID
		weight float64
		kind   catalog.SchemeKind
	}{
		{catalog.DArtepp, 20, catalog.SchemeTablet},
		{catalog.Argesun, 35, catalog.SchemeVial},
		{catalog.Artesun, 20, catalog.SchemeVial},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			plan, err := engine.Compute(tt.weight, tt.id, RouteDefault)
			if err != nil {
				t.Fatalf("Compute returned error: %v", err)
			}
			if plan.Kind != tt.kind {
				t.Errorf("Expected kind %s, got %s", tt.kind, plan.Kind)
			}
			if plan.ProductID != tt.id || plan.Weight != tt.weight {
				t.Errorf("Expected plan for %s at %g, got %s at %g", tt.id, tt.weight, plan.ProductID, plan.Weight)
			}
		})
	}
}

func TestEngineOutOfRange(t *testing.T) {
	engine := NewEngine(catalog.Default())

	tests := []struct {
		name     string
		id       catalog.ProductID
		weight   float64
		min, max float64
	}{
		{"tablet below domain", catalog.DArtepp, 3, 5, 100},
		{"tablet above domain", catalog.DArtepp, 100.1, 5, 100},
		{"tablet upper bound has no band", catalog.DArtepp, 100, 5, 100},
		{"vial negative", catalog.Argesun, -1, 0, 100},
		{"vial above domain", catalog.Artesun, 101, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Compute(tt.weight, tt.id, RouteDefault)
			var oor *OutOfRangeError
			if !errors.As(err, &oor) {
				t.Fatalf("Expected OutOfRangeError, got %v", err)
			}
			if oor.Min != tt.min || oor.Max != tt.max || oor.Weight != tt.weight {
				t.Errorf("Expected {%g %g %g}, got %+v", tt.weight, tt.min, tt.max, oor)
			}
		})
	}
}

func TestEngineDomainEdgesAccepted(t *testing.T) {
	engine := NewEngine(catalog.Default())

	for _, c := range []struct {
		id     catalog.ProductID
		weight float64
	}{
		{catalog.DArtepp, 5},
		{catalog.Argesun, 0},
		{catalog.Argesun, 100},
		{catalog.Artesun, 0},
		{catalog.Artesun, 100},
	} {
		if _, err := engine.Compute(c.weight, c.id, RouteDefault); err != nil {
			t.Errorf("%s at %g kg: unexpected error %v", c.id, c.weight, err)
		}
	}
}

func TestEngineUnknownProduct(t *testing.T) {
	engine := NewEngine(catalog.Default())

	_, err := engine.Compute(20, "nonexistent", RouteDefault)
	if !errors.Is(err, ErrUnknownProduct) {
		t.Fatalf("Expected ErrUnknownProduct, got %v", err)
	}
	var upe *UnknownProductError
	if !errors.As(err, &upe) || upe.ID != "nonexistent" {
		t.Errorf("Expected UnknownProductError for nonexistent, got %v", err)
	}
}

func TestEngineInvalidInput(t *testing.T) {
	engine := NewEngine(catalog.Default())

	for _, weight := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := engine.Compute(weight, catalog.Argesun, RouteDefault)
		var iie *InvalidInputError
		if !errors.As(err, &iie) || iie.Field != "weight" {
			t.Errorf("Expected invalid weight error for %v, got %v", weight, err)
		}
	}

	_, err := engine.Compute(20, catalog.Artesun, Route("sc"))
	var iie *InvalidInputError
	if !errors.As(err, &iie) || iie.Field != "route" {
		t.Errorf("Expected invalid route error, got %v", err)
	}
}

func TestEngineIsPure(t *testing.T) {
	engine := NewEngine(catalog.Default())

	first, err := engine.Compute(35, catalog.Argesun, RouteDefault)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Compute(80, catalog.Artesun, RouteIM); err != nil {
		t.Fatal(err)
	}
	second, err := engine.Compute(35, catalog.Argesun, RouteDefault)
	if err != nil {
		t.Fatal(err)
	}

	if first.Vial.TotalMgDelivered != second.Vial.TotalMgDelivered || *first.Vial.InjectionVolume != *second.Vial.InjectionVolume {
		t.Errorf("Expected identical plans for identical input, got %+v and %+v", first.Vial, second.Vial)
	}
}

func TestNewResolverRejectsUnknownScheme(t *testing.T) {
	if _, err := NewResolver(&catalog.Product{ID: "odd", Scheme: fakeScheme{}}); err == nil {
		t.Error("Expected error for an unsupported scheme")
	}
}

type fakeScheme struct{}

func (fakeScheme) Kind() catalog.SchemeKind        { return "fake" }
func (fakeScheme) WeightDomain() (float64, float64) { return 0, 1 }

func TestParseWeight(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{"35", 35, false},
		{" 20.5 ", 20.5, false},
		{"20,5", 20.5, false},
		{"0", 0, false},
		{"-3", -3, false},
		{"", 0, true},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"1e400", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeight(tt.input)
			if tt.wantErr {
				var iie *InvalidInputError
				if !errors.As(err, &iie) {
					t.Errorf("Expected InvalidInputError for %q, got %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %g, got %g", tt.expected, got)
			}
		})
	}
}

func TestParseRoute(t *testing.T) {
	tests := []struct {
		input    string
		expected Route
		wantErr  bool
	}{
		{"", RouteDefault, false},
		{"iv", RouteIV, false},
		{"IM", RouteIM, false},
		{" iv ", RouteIV, false},
		{"both", RouteDefault, true},
		{"oral", RouteDefault, true},
	}

	for _, tt := range tests {
		got, err := ParseRoute(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRoute(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseRoute(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	oor := &OutOfRangeError{Weight: 3, Min: 5, Max: 100}
	if oor.Error() != "weight 3 kg is outside the valid range 5-100 kg" {
		t.Errorf("Unexpected message %q", oor.Error())
	}

	uncovered := &OutOfRangeError{Weight: 100, Min: 5, Max: 100, Uncovered: true}
	if uncovered.Error() != "no weight band covers 100 kg (bands cover 5 kg up to but excluding 100 kg)" {
		t.Errorf("Unexpected message %q", uncovered.Error())
	}
	upe := &UnknownProductError{ID: "x"}
	if upe.Error() != `unknown product "x"` {
		t.Errorf("Unexpected message %q", upe.Error())
	}
}
