package dosage

import "strings"

// Route is the injection route of a vial plan
type Route string

const (
	// RouteDefault lets the product pick: IV for dual-solvent injectables
	RouteDefault Route = ""
	RouteIV      Route = "iv"
	RouteIM      Route = "im"
	// RouteBoth marks plans whose volumes do not depend on the route
	RouteBoth Route = "both"
)

// ParseRoute accepts "", "iv" and "im" in any case
func ParseRoute(raw string) (Route, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return RouteDefault, nil
	case "iv":
		return RouteIV, nil
	case "im":
		return RouteIM, nil
	}
	return RouteDefault, &InvalidInputError{Field: "route", Value: raw, Reason: "must be iv or im"}
}

func (r Route) String() string {
	return string(r)
}
