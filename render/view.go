package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"

	"github.com/giygas/antimalarial-dosage/catalog"
	"github.com/giygas/antimalarial-dosage/dosage"
)

// View is a localized, display-ready rendition of a plan or a problem.
// Exactly one of the plan fields and Problem is meaningful.
type View struct {
	Lang        string
	ProductID   string
	ProductName string
	Title       string
	Subtitle    string
	Weight      string
	WeightLabel string
	RouteBadge  string

	PlanHeading string
	Selection   string
	Lines       []Line
	Facts       []Fact

	NotesHeading      string
	Notes             []string
	InstructionsLabel string
	Instructions      string

	Problem *Problem
}

// Line is one tablet specification or vial strength of the plan
type Line struct {
	Name   string
	Detail string
	Badge  string
	Extra  []string
}

// Fact is a headline volume
type Fact struct {
	Label string
	Value string
	Note  string
}

// Problem is the localized rendition of a computation error
type Problem struct {
	Title   string
	Message string
}

// PlanView builds the view of plan for product p in lang
func (l *Localizer) PlanView(p *catalog.Product, plan *dosage.Plan, lang string) *View {
	pr := l.Printer(lang)

	v := &View{
		Lang:              lang,
		ProductID:         string(p.ID),
		ProductName:       p.Name,
		Title:             pr.Sprintf(msgDosageTitle, p.Name, fixed(plan.Weight, 1)),
		Weight:            fixed(plan.Weight, 1) + " kg",
		WeightLabel:       pr.Sprintf(msgPatientWeight),
		InstructionsLabel: pr.Sprintf(msgInstructionsLabel),
		Instructions:      pr.Sprintf(msgPleaseFollow),
	}

	switch {
	case plan.Tablet != nil:
		tabletView(pr, v, p, plan.Tablet, lang)
	case plan.Vial != nil:
		vialView(pr, v, p, plan.Vial)
	}

	return v
}

func tabletView(pr *message.Printer, v *View, p *catalog.Product, tp *dosage.TabletPlan, lang string) {
	v.Subtitle = pr.Sprintf(msgTabletSubtitle, p.Name)
	v.PlanHeading = pr.Sprintf(msgRecommendedPlan)

	for _, d := range tp.Dosages {
		count := shortest(d.Count)
		v.Lines = append(v.Lines, Line{
			Name:   d.Type.In(lang),
			Detail: d.Specification,
			Badge:  pr.Sprintf(msgTabletCount, count),
			Extra:  []string{pr.Sprintf(msgTakeDaily, count)},
		})
	}
}

func vialView(pr *message.Printer, v *View, p *catalog.Product, vp *dosage.VialPlan) {
	scheme, _ := p.Scheme.(*catalog.VialScheme)
	v.PlanHeading = pr.Sprintf(msgSelectStrength)

	for _, line := range vp.Lines() {
		l := Line{
			Name:  fmt.Sprintf("%s %dmg", p.Name, line.Mg),
			Badge: pr.Sprintf(msgVialCount, line.Count),
		}

		var st catalog.Strength
		if scheme != nil {
			st, _ = scheme.StrengthFor(line.Mg)
		}

		if vp.Route == dosage.RouteBoth {
			l.Detail = pr.Sprintf(msgReconstitution, shortest(st.SolventVolume))
		} else {
			saline := st.SalineVolume
			if vp.Route == dosage.RouteIM {
				saline = st.IMSalineVolume
			}
			l.Detail = pr.Sprintf(msgBicarbonatePer, shortest(st.BicarbonateVolume))
			l.Extra = append(l.Extra, pr.Sprintf(msgSalinePer, shortest(saline)))
		}

		// a row never offers its own strength as an alternative
		var alternatives []string
		for _, alt := range vp.Alternatives {
			if alt.Mg != line.Mg {
				alternatives = append(alternatives, fmt.Sprintf("%d × %dmg", alt.Count, alt.Mg))
			}
		}
		if len(alternatives) > 0 {
			l.Extra = append(l.Extra, pr.Sprintf(msgAlternatives, strings.Join(alternatives, ", ")))
		}
		v.Lines = append(v.Lines, l)
	}

	concentration := shortest(vp.Concentration)

	if vp.Route == dosage.RouteBoth {
		v.Subtitle = pr.Sprintf(msgSingleSubtitle, p.Name)
		v.RouteBadge = pr.Sprintf(msgRouteBoth)
		v.Facts = []Fact{
			{
				Label: pr.Sprintf(msgSolutionVolume),
				Value: pr.Sprintf(msgVolumeUnit, shortest(deref(vp.ReconstitutionVolume))),
				Note:  pr.Sprintf(msgBicarbonateArg),
			},
			{
				Label: pr.Sprintf(msgInjectionVolume),
				Value: pr.Sprintf(msgVolumeUnit, fixed(deref(vp.InjectionVolume), 1)),
				Note:  pr.Sprintf(msgFinalConc, concentration),
			},
		}
		v.NotesHeading = pr.Sprintf(msgImportantNotes)
		v.Notes = []string{
			pr.Sprintf(msgSameVolumeNote, concentration),
			pr.Sprintf(msgUseWithinHour),
		}
		return
	}

	v.Subtitle = pr.Sprintf(msgDualSubtitle, p.Name)
	routeDesc := pr.Sprintf(msgIVRouteDesc)
	v.RouteBadge = pr.Sprintf(msgRouteIV)
	if vp.Route == dosage.RouteIM {
		routeDesc = pr.Sprintf(msgIMRouteDesc)
		v.RouteBadge = pr.Sprintf(msgRouteIM)
	}

	mgs := make([]string, 0, len(vp.Combination))
	for _, mg := range vp.Combination {
		mgs = append(mgs, fmt.Sprintf("%dmg", mg))
	}
	v.Selection = pr.Sprintf(msgOptimalSelection, strings.Join(mgs, " + "))

	v.Facts = []Fact{
		{
			Label: pr.Sprintf(msgBicarbonateVolume),
			Value: pr.Sprintf(msgVolumeUnit, shortest(deref(vp.BicarbonateVolume))),
			Note:  pr.Sprintf(msgUseAllBicarbonate),
		},
		{
			Label: pr.Sprintf(msgSalineVolume),
			Value: pr.Sprintf(msgVolumeUnit, shortest(deref(vp.SalineVolume))),
			Note:  pr.Sprintf(msgRemoveAir),
		},
		{
			Label: pr.Sprintf(msgPatientInjection),
			Value: pr.Sprintf(msgVolumeUnit, shortest(deref(vp.RoundedInjectionVolume))),
			Note: routeDesc + " · " +
				pr.Sprintf(msgCalculatedVolume, fixed(deref(vp.ExactInjectionVolume), 2)),
		},
	}
	v.NotesHeading = pr.Sprintf(msgImportantNotes)
	v.Notes = []string{
		pr.Sprintf(msgUseAllBicarbonate),
		pr.Sprintf(msgRemoveAir),
		pr.Sprintf(msgUseWithinHour),
	}
}

// ProblemView builds the view of a computation error. p may be nil when
// the product itself is unknown.
func (l *Localizer) ProblemView(p *catalog.Product, err error, lang string) *View {
	pr := l.Printer(lang)
	v := &View{
		Lang:    lang,
		Problem: l.Problem(err, lang),
	}
	if p != nil {
		v.ProductID = string(p.ID)
		v.ProductName = p.Name
		v.Title = p.Name
	}
	v.InstructionsLabel = pr.Sprintf(msgInstructionsLabel)
	v.Instructions = pr.Sprintf(msgPleaseFollow)
	return v
}

// Problem maps each dosage error kind to a distinct localized message
func (l *Localizer) Problem(err error, lang string) *Problem {
	pr := l.Printer(lang)

	var outOfRange *dosage.OutOfRangeError
	var unknown *dosage.UnknownProductError
	var invalid *dosage.InvalidInputError

	switch {
	case errors.As(err, &outOfRange):
		return &Problem{
			Title:   pr.Sprintf(msgWeightOutOfRange),
			Message: pr.Sprintf(msgCheckWeight, shortest(outOfRange.Min), shortest(outOfRange.Max)),
		}
	case errors.As(err, &unknown):
		return &Problem{
			Title:   pr.Sprintf(msgSelectProduct),
			Message: pr.Sprintf(msgUnknownProduct, string(unknown.ID)),
		}
	case errors.As(err, &invalid) && invalid.Field == "route":
		return &Problem{
			Title:   pr.Sprintf(msgInvalidRoute),
			Message: pr.Sprintf(msgInvalidRoute),
		}
	case errors.As(err, &invalid):
		return &Problem{
			Title:   pr.Sprintf(msgSelectWeight),
			Message: pr.Sprintf(msgInvalidWeight),
		}
	default:
		return &Problem{
			Title:   pr.Sprintf(msgUnexpected),
			Message: pr.Sprintf(msgUnexpected),
		}
	}
}

// fixed formats f with exactly places decimals
func fixed(f float64, places int32) string {
	return decimal.NewFromFloat(f).StringFixed(places)
}

// shortest formats f without trailing zeros: 6, 4.5, 17.76
func shortest(f float64) string {
	return decimal.NewFromFloat(f).String()
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
