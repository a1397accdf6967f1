package domain

import "github.com/shopspring/decimal"

// Material keys used by the default catalogue.
const (
	MaterialFabric    = "fabric"
	MaterialCotton    = "cotton"
	MaterialThread    = "thread"
	MaterialPolyester = "polyester"
)

// DefaultInitialStock is the on-hand quantity every default material starts with.
const DefaultInitialStock = 2200.0

// DefaultMaterials returns the seed materials with their unit prices.
func DefaultMaterials() []Material {
	return []Material{
		{ID: MaterialFabric, Name: "Fabric", QuantityAvailable: DefaultInitialStock, PricePerUnit: decimal.RequireFromString("7.00")},
		{ID: MaterialCotton, Name: "Cotton", QuantityAvailable: DefaultInitialStock, PricePerUnit: decimal.RequireFromString("5.50")},
		{ID: MaterialThread, Name: "Thread", QuantityAvailable: DefaultInitialStock, PricePerUnit: decimal.RequireFromString("4.50")},
		{ID: MaterialPolyester, Name: "Polyester", QuantityAvailable: DefaultInitialStock, PricePerUnit: decimal.RequireFromString("10.00")},
	}
}

// DefaultClothingTypes returns the seed clothing types. Only BaseMaterials is
// filled; per-size tables are derived by the materials package.
func DefaultClothingTypes() []ClothingType {
	return []ClothingType{
		{
			ID:   "Tshirt",
			Name: "T-shirt",
			BaseMaterials: map[string]float64{
				MaterialFabric: 1.0, MaterialCotton: 0.8, MaterialThread: 0.4, MaterialPolyester: 1.0,
			},
			ProductionTimeMinutes: 45,
		},
		{
			ID:   "Shorts",
			Name: "Shorts",
			BaseMaterials: map[string]float64{
				MaterialFabric: 0.8, MaterialCotton: 0.7, MaterialThread: 0.4, MaterialPolyester: 1.4,
			},
			ProductionTimeMinutes: 60,
		},
		{
			ID:   "Sweater",
			Name: "Sweater",
			BaseMaterials: map[string]float64{
				MaterialFabric: 0.5, MaterialCotton: 0.35, MaterialThread: 0.5, MaterialPolyester: 1.15,
			},
			ProductionTimeMinutes: 90,
		},
		{
			ID:   "Pants",
			Name: "Pants",
			BaseMaterials: map[string]float64{
				MaterialFabric: 1.2, MaterialCotton: 0.95, MaterialThread: 0.35, MaterialPolyester: 1.5,
			},
			ProductionTimeMinutes: 75,
		},
	}
}
