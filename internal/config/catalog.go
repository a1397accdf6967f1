package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/materials"
)

// Catalog is the reference data a simulation runs against.
type Catalog struct {
	Materials       []domain.Material
	ClothingTypes   []domain.ClothingType
	SizeMultipliers map[string]float64
}

// DefaultCatalog returns the built-in materials and clothing types.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Materials:     domain.DefaultMaterials(),
		ClothingTypes: domain.DefaultClothingTypes(),
	}
}

// InitialStock returns material → on-hand quantity of the catalogue.
func (c *Catalog) InitialStock() map[string]float64 {
	out := make(map[string]float64, len(c.Materials))
	for _, m := range c.Materials {
		out[m.ID] = m.QuantityAvailable
	}
	return out
}

type catalogFile struct {
	Materials []struct {
		ID       string  `mapstructure:"id"`
		Name     string  `mapstructure:"name"`
		Quantity float64 `mapstructure:"quantity"`
		Price    string  `mapstructure:"price"`
	} `mapstructure:"materials"`
	ClothingTypes []struct {
		ID                    string             `mapstructure:"id"`
		Name                  string             `mapstructure:"name"`
		Materials             map[string]float64 `mapstructure:"materials"`
		ProductionTimeMinutes int                `mapstructure:"production_time_minutes"`
	} `mapstructure:"clothing_types"`
	SizeMultipliers map[string]float64 `mapstructure:"size_multipliers"`
}

// LoadCatalogFile reads a YAML, JSON or TOML catalogue. Viper lower-cases
// map keys, so size codes are upper-cased back and material keys are
// expected in lower case.
func LoadCatalogFile(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var raw catalogFile
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if len(raw.ClothingTypes) == 0 {
		return nil, fmt.Errorf("catalog %s: no clothing types", path)
	}

	cat := &Catalog{}
	for _, m := range raw.Materials {
		price := decimal.Zero
		if m.Price != "" {
			p, err := decimal.NewFromString(m.Price)
			if err != nil {
				return nil, fmt.Errorf("catalog %s: material %q price: %w", path, m.ID, err)
			}
			price = p
		}
		name := m.Name
		if name == "" {
			name = m.ID
		}
		cat.Materials = append(cat.Materials, domain.Material{
			ID:                m.ID,
			Name:              name,
			QuantityAvailable: m.Quantity,
			PricePerUnit:      price,
		})
	}
	for _, ct := range raw.ClothingTypes {
		if ct.ID == "" {
			return nil, fmt.Errorf("catalog %s: clothing type without id", path)
		}
		cat.ClothingTypes = append(cat.ClothingTypes, domain.ClothingType{
			ID:                    ct.ID,
			Name:                  ct.Name,
			BaseMaterials:         ct.Materials,
			ProductionTimeMinutes: ct.ProductionTimeMinutes,
		})
	}
	if len(raw.SizeMultipliers) > 0 {
		cat.SizeMultipliers = make(map[string]float64, len(raw.SizeMultipliers))
		for size, mult := range raw.SizeMultipliers {
			cat.SizeMultipliers[strings.ToUpper(size)] = mult
		}
		for i := range cat.ClothingTypes {
			materials.ExpandSizes(&cat.ClothingTypes[i], cat.SizeMultipliers)
		}
	}
	return cat, nil
}
