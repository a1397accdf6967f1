package materials

import (
	"fmt"
	"maps"
	"sort"

	"github.com/andresuchdata/stockflow/internal/domain"
)

// Requirements maps a material key to a required quantity.
// The zero value (nil) is the empty requirement.
type Requirements map[string]float64

// Add returns the pointwise sum of r and other; neither input is modified.
func (r Requirements) Add(other Requirements) Requirements {
	out := make(Requirements, len(r)+len(other))
	for m, q := range r {
		out[m] += q
	}
	for m, q := range other {
		out[m] += q
	}
	return out
}

// Scale returns r with every quantity multiplied by k.
func (r Requirements) Scale(k float64) Requirements {
	out := make(Requirements, len(r))
	for m, q := range r {
		out[m] = q * k
	}
	return out
}

// Clone returns a copy of r.
func (r Requirements) Clone() Requirements {
	if r == nil {
		return Requirements{}
	}
	return maps.Clone(r)
}

// Keys returns the material keys in sorted order.
func (r Requirements) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Calculator converts orders into material requirements.
type Calculator struct {
	catalog *Catalog
}

// NewCalculator creates a calculator over an immutable catalogue.
func NewCalculator(catalog *Catalog) *Calculator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Calculator{catalog: catalog}
}

// Catalog returns the catalogue the calculator reads from.
func (c *Calculator) Catalog() *Catalog {
	return c.catalog
}

// Calculate computes base × quantity × size multiplier for every material of
// the order's clothing type.
func (c *Calculator) Calculate(order domain.Order) (Requirements, error) {
	return c.CalculateFor(order.ClothingType, order.Size, order.Quantity)
}

// CalculateFor is Calculate for a (type, size, quantity) triple.
func (c *Calculator) CalculateFor(clothingType, size string, quantity int) (Requirements, error) {
	perUnit, err := c.catalog.Coefficients(clothingType, size)
	if err != nil {
		return nil, err
	}
	req := make(Requirements, len(perUnit))
	for material, coef := range perUnit {
		req[material] = coef * float64(quantity)
	}
	return req, nil
}

// Aggregate sums the requirements of several orders. It stops at the first
// order whose clothing type is unknown.
func (c *Calculator) Aggregate(orders []domain.Order) (Requirements, error) {
	total := Requirements{}
	for i, o := range orders {
		req, err := c.Calculate(o)
		if err != nil {
			return nil, fmt.Errorf("order %d (%d %s %s): %w", i+1, o.Quantity, o.ClothingType, o.Size, err)
		}
		total = total.Add(req)
	}
	return total, nil
}
