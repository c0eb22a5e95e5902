// Package dosage turns a patient weight, a product and an injection route
// into a dispensable plan: tablet lines for banded tablet products, or a vial
// combination with reconstitution and injection volumes for injectables.
//
// Computation is a pure function of its arguments and the catalog snapshot
// it runs against. Weights are never clamped here; callers that want to clip
// input to the product domain do so before calling Compute.
package dosage

import (
	"errors"
	"fmt"

	"github.com/giygas/antimalarial-dosage/catalog"
)

// Resolver computes a plan for one product
type Resolver interface {
	Resolve(weight float64, route Route) (*Plan, error)
}

// Compile-time checks
var (
	_ Resolver = (*TabletRangeResolver)(nil)
	_ Resolver = (*VialCombinationOptimizer)(nil)
)

// NewResolver selects the resolver matching the product's scheme
func NewResolver(p *catalog.Product) (Resolver, error) {
	switch s := p.Scheme.(type) {
	case *catalog.TabletScheme:
		return NewTabletRangeResolver(p, s), nil
	case *catalog.VialScheme:
		return NewVialCombinationOptimizer(p, s), nil
	default:
		return nil, fmt.Errorf("product %s has unsupported scheme %T", p.ID, p.Scheme)
	}
}

// Engine computes plans against one immutable catalog
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine returns an engine bound to c
func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Catalog returns the catalog the engine reads
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Compute returns the plan for weight kg of product id. Errors are one of
// *InvalidInputError, *UnknownProductError or *OutOfRangeError.
func (e *Engine) Compute(weight float64, id catalog.ProductID, route Route) (*Plan, error) {
	if err := checkWeight(weight); err != nil {
		return nil, err
	}

	product, err := e.catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, &UnknownProductError{ID: id}
		}
		return nil, err
	}

	min, max := product.Scheme.WeightDomain()
	if weight < min || weight > max {
		return nil, &OutOfRangeError{Weight: weight, Min: min, Max: max}
	}

	resolver, err := NewResolver(product)
	if err != nil {
		return nil, err
	}
	return resolver.Resolve(weight, route)
}
