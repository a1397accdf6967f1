package repository

import (
	"maps"

	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/materials"
)

// CoefficientsFor returns the per-garment usage of ct in size. A stored size
// row wins; otherwise the base row is scaled by the default size multiplier.
func CoefficientsFor(ct *domain.ClothingType, size string) map[string]float64 {
	if row, ok := ct.Sizes[size]; ok {
		return maps.Clone(row)
	}
	mult := materials.DefaultSizeMultipliers().Multiplier(size)
	out := make(map[string]float64, len(ct.BaseMaterials))
	for m, coef := range ct.BaseMaterials {
		out[m] = coef * mult
	}
	return out
}

// CloneClothingType deep-copies the coefficient maps of ct.
func CloneClothingType(ct domain.ClothingType) domain.ClothingType {
	out := ct
	out.BaseMaterials = maps.Clone(ct.BaseMaterials)
	if ct.Sizes != nil {
		out.Sizes = make(map[string]map[string]float64, len(ct.Sizes))
		for size, row := range ct.Sizes {
			out.Sizes[size] = maps.Clone(row)
		}
	}
	return out
}
