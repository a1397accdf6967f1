// Package memory implements the repositories on in-process maps, for tests
// and offline runs.
package memory

import (
	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/repository"
)

// NewStore returns a store seeded with the default catalogue.
func NewStore() *repository.Store {
	return &repository.Store{
		Materials:     NewMaterialRepository(domain.DefaultMaterials()...),
		ClothingTypes: NewClothingTypeRepository(domain.DefaultClothingTypes()...),
		Orders:        NewOrderRepository(),
	}
}
