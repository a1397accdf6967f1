package materials

import (
	"maps"
	"sort"

	"github.com/andresuchdata/stockflow/internal/domain"
)

// SizeMultipliers maps a size code to the factor applied to base coefficients.
type SizeMultipliers map[string]float64

// DefaultSizeMultipliers returns the standard XS..XL table.
func DefaultSizeMultipliers() SizeMultipliers {
	return SizeMultipliers{"XS": 0.5, "S": 0.75, "M": 1.0, "L": 1.5, "XL": 2.0}
}

// Multiplier returns the factor for size, or 1.0 when the size is unknown.
func (m SizeMultipliers) Multiplier(size string) float64 {
	if v, ok := m[size]; ok {
		return v
	}
	return 1.0
}

// Catalog is an immutable table of clothing-type base coefficients.
type Catalog struct {
	types       map[string]map[string]float64
	multipliers SizeMultipliers
}

// NewCatalog copies the given clothing types into a read-only catalogue.
// A nil multipliers table means DefaultSizeMultipliers.
func NewCatalog(types []domain.ClothingType, multipliers SizeMultipliers) *Catalog {
	if multipliers == nil {
		multipliers = DefaultSizeMultipliers()
	}
	c := &Catalog{
		types:       make(map[string]map[string]float64, len(types)),
		multipliers: maps.Clone(multipliers),
	}
	for _, ct := range types {
		c.types[ct.ID] = maps.Clone(ct.BaseMaterials)
	}
	return c
}

// DefaultCatalog is the catalogue built from domain.DefaultClothingTypes.
func DefaultCatalog() *Catalog {
	return NewCatalog(domain.DefaultClothingTypes(), nil)
}

// Base returns a copy of the base coefficients of a clothing type.
func (c *Catalog) Base(typeKey string) (map[string]float64, error) {
	base, ok := c.types[typeKey]
	if !ok {
		return nil, &domain.UnknownClothingTypeError{Type: typeKey}
	}
	return maps.Clone(base), nil
}

// Coefficients returns per-garment material usage for a type in a size.
func (c *Catalog) Coefficients(typeKey, size string) (map[string]float64, error) {
	base, ok := c.types[typeKey]
	if !ok {
		return nil, &domain.UnknownClothingTypeError{Type: typeKey}
	}
	mult := c.multipliers.Multiplier(size)
	out := make(map[string]float64, len(base))
	for material, coef := range base {
		out[material] = coef * mult
	}
	return out, nil
}

// Types lists the known clothing-type keys, sorted.
func (c *Catalog) Types() []string {
	keys := make([]string, 0, len(c.types))
	for k := range c.types {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Multipliers returns a copy of the size table.
func (c *Catalog) Multipliers() SizeMultipliers {
	return maps.Clone(c.multipliers)
}

// ExpandSizes fills ct.Sizes from ct.BaseMaterials for every known size.
func ExpandSizes(ct *domain.ClothingType, multipliers SizeMultipliers) {
	if multipliers == nil {
		multipliers = DefaultSizeMultipliers()
	}
	ct.Sizes = make(map[string]map[string]float64, len(multipliers))
	for size, mult := range multipliers {
		row := make(map[string]float64, len(ct.BaseMaterials))
		for material, coef := range ct.BaseMaterials {
			row[material] = coef * mult
		}
		ct.Sizes[size] = row
	}
}
