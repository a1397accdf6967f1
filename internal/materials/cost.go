package materials

import (
	"github.com/shopspring/decimal"

	"github.com/andresuchdata/stockflow/internal/domain"
)

// PriceTable holds per-unit material prices.
type PriceTable map[string]decimal.Decimal

// PricesFromMaterials builds a price table from material records.
func PricesFromMaterials(ms []domain.Material) PriceTable {
	prices := make(PriceTable, len(ms))
	for _, m := range ms {
		prices[m.ID] = m.PricePerUnit
	}
	return prices
}

// Price returns the unit price of a material, zero when unknown.
func (p PriceTable) Price(material string) decimal.Decimal {
	if v, ok := p[material]; ok {
		return v
	}
	return decimal.Zero
}

// Cost returns Σ quantity × unit price over the requirement.
func (p PriceTable) Cost(req Requirements) decimal.Decimal {
	total := decimal.Zero
	for _, material := range req.Keys() {
		total = total.Add(decimal.NewFromFloat(req[material]).Mul(p.Price(material)))
	}
	return total
}
