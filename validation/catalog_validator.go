// Package validation checks catalog integrity before a snapshot is served and
// validates identifiers supplied by clients.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/giygas/antimalarial-dosage/catalog"
	"github.com/giygas/antimalarial-dosage/config"
	"github.com/giygas/antimalarial-dosage/interfaces"
)

// Product ids are short lowercase slugs
var productIDRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,31}$`)

// CatalogValidatorImpl implements the interfaces.CatalogValidator interface
type CatalogValidatorImpl struct{}

// NewCatalogValidator creates a new catalog validator
func NewCatalogValidator() interfaces.CatalogValidator {
	return &CatalogValidatorImpl{}
}

// ValidateCatalog rejects empty catalogs and catalogs with overlapping bands
// or non-positive values. Coverage gaps are reported but not fatal.
func (v *CatalogValidatorImpl) ValidateCatalog(c *catalog.Catalog) error {
	if c == nil || c.Len() == 0 {
		return fmt.Errorf("catalog is empty")
	}

	report := v.ReportCatalogQuality(c)
	if len(report.OverlappingBands) > 0 {
		return fmt.Errorf("catalog has %d overlapping bands, first: %s", len(report.OverlappingBands), report.OverlappingBands[0])
	}
	if len(report.InvalidEntries) > 0 {
		return fmt.Errorf("catalog has %d invalid entries, first: %s", len(report.InvalidEntries), report.InvalidEntries[0])
	}
	return nil
}

// ReportCatalogQuality inspects every product and collects all findings
func (v *CatalogValidatorImpl) ReportCatalogQuality(c *catalog.Catalog) *interfaces.CatalogQualityReport {
	report := &interfaces.CatalogQualityReport{
		ProductCount:     c.Len(),
		OverlappingBands: []string{},
		UncoveredWeights: map[catalog.ProductID][]float64{},
		InvalidEntries:   []string{},
	}

	for _, p := range c.Products() {
		min, max := p.Scheme.WeightDomain()
		if min < 0 || min >= max {
			report.InvalidEntries = append(report.InvalidEntries,
				fmt.Sprintf("%s: invalid weight domain %g-%g", p.ID, min, max))
		}

		switch s := p.Scheme.(type) {
		case *catalog.TabletScheme:
			v.checkTablets(p.ID, s, report)
		case *catalog.VialScheme:
			v.checkVials(p.ID, s, report)
		}
	}

	return report
}

func (v *CatalogValidatorImpl) checkTablets(id catalog.ProductID, s *catalog.TabletScheme, report *interfaces.CatalogQualityReport) {
	if len(s.Types) == 0 {
		report.InvalidEntries = append(report.InvalidEntries, fmt.Sprintf("%s: no tablet types", id))
		return
	}

	for _, tt := range s.Types {
		for _, spec := range tt.Specifications {
			where := fmt.Sprintf("%s/%s/%s", id, tt.Name.In("en"), spec.Dosage)

			bands := make([]catalog.WeightRange, len(spec.WeightRanges))
			copy(bands, spec.WeightRanges)
			sort.Slice(bands, func(i, j int) bool { return bands[i].Min < bands[j].Min })

			for i, b := range bands {
				if b.Min >= b.Max {
					report.InvalidEntries = append(report.InvalidEntries,
						fmt.Sprintf("%s: empty band [%g,%g)", where, b.Min, b.Max))
				}
				if b.Count <= 0 {
					report.InvalidEntries = append(report.InvalidEntries,
						fmt.Sprintf("%s: non-positive count %g in [%g,%g)", where, b.Count, b.Min, b.Max))
				}
				if i > 0 && b.Min < bands[i-1].Max {
					report.OverlappingBands = append(report.OverlappingBands,
						fmt.Sprintf("%s: [%g,%g) overlaps [%g,%g)", where, bands[i-1].Min, bands[i-1].Max, b.Min, b.Max))
				}
			}
		}
	}

	if gaps := uncoveredWeights(s); len(gaps) > 0 {
		report.UncoveredWeights[id] = gaps
	}
}

// uncoveredWeights scans [min, max) in steps of 0.1 kg for weights no band covers
func uncoveredWeights(s *catalog.TabletScheme) []float64 {
	var gaps []float64
	start := int(math.Round(s.MinWeight * 10))
	end := int(math.Round(s.MaxWeight * 10))

	for i := start; i < end; i++ {
		w := float64(i) / 10
		if !covered(s, w) {
			gaps = append(gaps, w)
		}
	}
	return gaps
}

func covered(s *catalog.TabletScheme, weight float64) bool {
	for _, tt := range s.Types {
		for _, spec := range tt.Specifications {
			for _, b := range spec.WeightRanges {
				if b.Contains(weight) {
					return true
				}
			}
		}
	}
	return false
}

func (v *CatalogValidatorImpl) checkVials(id catalog.ProductID, s *catalog.VialScheme, report *interfaces.CatalogQualityReport) {
	if s.Formula.Child <= 0 || s.Formula.Adult <= 0 {
		report.InvalidEntries = append(report.InvalidEntries,
			fmt.Sprintf("%s: dosage formula rates must be positive, got child %g adult %g", id, s.Formula.Child, s.Formula.Adult))
	}

	if len(s.Strengths) == 0 {
		report.InvalidEntries = append(report.InvalidEntries, fmt.Sprintf("%s: no strengths", id))
	}

	seen := make(map[int]bool, len(s.Strengths))
	for _, st := range s.Strengths {
		if st.Mg <= 0 {
			report.InvalidEntries = append(report.InvalidEntries, fmt.Sprintf("%s: non-positive strength %d mg", id, st.Mg))
		}
		if seen[st.Mg] {
			report.InvalidEntries = append(report.InvalidEntries, fmt.Sprintf("%s: duplicate strength %d mg", id, st.Mg))
		}
		seen[st.Mg] = true

		for _, vol := range []float64{st.SolventVolume, st.BicarbonateVolume, st.SalineVolume, st.IMSalineVolume} {
			if vol < 0 {
				report.InvalidEntries = append(report.InvalidEntries,
					fmt.Sprintf("%s: negative volume for %d mg strength", id, st.Mg))
				break
			}
		}
	}

	switch s.Solvent {
	case catalog.DualSolvent:
		if s.Concentrations == nil || s.Concentrations.IV <= 0 || s.Concentrations.IM <= 0 {
			report.InvalidEntries = append(report.InvalidEntries, fmt.Sprintf("%s: dual solvent needs positive iv and im concentrations", id))
		}
	default:
		if s.Concentration <= 0 {
			report.InvalidEntries = append(report.InvalidEntries, fmt.Sprintf("%s: concentration must be positive", id))
		}
	}
}

// ValidateProductID normalizes and checks a product id from a URL
func (v *CatalogValidatorImpl) ValidateProductID(input string) (catalog.ProductID, error) {
	id := strings.ToLower(strings.TrimSpace(input))
	if id == "" {
		return "", fmt.Errorf("product id cannot be empty")
	}
	if !productIDRegex.MatchString(id) {
		return "", fmt.Errorf("product id contains invalid characters")
	}
	return catalog.ProductID(id), nil
}

// ValidateLanguage accepts a BCP 47 tag whose base language is supported and
// returns that base ("zh-CN" gives "zh")
func (v *CatalogValidatorImpl) ValidateLanguage(input string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(input))
	if err != nil {
		return "", fmt.Errorf("invalid language tag %q: %w", input, err)
	}

	base, _ := tag.Base()
	for _, supported := range config.SupportedLanguages {
		if base.String() == supported {
			return supported, nil
		}
	}
	return "", fmt.Errorf("language %q is not supported, use one of %v", input, config.SupportedLanguages)
}
