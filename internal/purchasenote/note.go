// Package purchasenote turns aggregated material quantities into a supplier
// purchase note and renders it as PDF.
package purchasenote

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresuchdata/stockflow/internal/materials"
)

// Header carries the parties printed at the top of a note.
type Header struct {
	Company         string `json:"company"`
	Supplier        string `json:"supplier"`
	SupplierAddress string `json:"supplier_address,omitempty"`
}

// Line is one material row of a note.
type Line struct {
	Material  string          `json:"material"`
	Quantity  float64         `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Note is a purchase note ready to render.
type Note struct {
	Number   string          `json:"number"`
	IssuedAt time.Time       `json:"issued_at"`
	Header   Header          `json:"header"`
	Lines    []Line          `json:"lines"`
	Total    decimal.Decimal `json:"total"`
}

// NewNumber returns a note number of the form PN-YYYYMMDD-XXXXXXXX.
func NewNumber(issuedAt time.Time) string {
	return fmt.Sprintf("PN-%s-%s", issuedAt.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}

// Build prices every positive quantity and sums the note. Quantities are
// rounded up to whole units, lines are sorted by material.
func Build(number string, issuedAt time.Time, header Header, quantities map[string]float64, prices materials.PriceTable) (Note, error) {
	if number == "" {
		return Note{}, fmt.Errorf("purchase note number is required")
	}

	keys := make([]string, 0, len(quantities))
	for m, q := range quantities {
		if q > 0 {
			keys = append(keys, m)
		}
	}
	if len(keys) == 0 {
		return Note{}, fmt.Errorf("purchase note %s has no materials to order", number)
	}
	sort.Strings(keys)

	note := Note{
		Number:   number,
		IssuedAt: issuedAt,
		Header:   header,
		Total:    decimal.Zero,
	}
	for _, m := range keys {
		qty := math.Ceil(quantities[m])
		price := prices.Price(m)
		subtotal := price.Mul(decimal.NewFromFloat(qty)).Round(2)
		note.Lines = append(note.Lines, Line{
			Material:  m,
			Quantity:  qty,
			UnitPrice: price,
			Subtotal:  subtotal,
		})
		note.Total = note.Total.Add(subtotal)
	}
	return note, nil
}
