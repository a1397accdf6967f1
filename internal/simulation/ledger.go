package simulation

import (
	"maps"
	"sort"

	"github.com/andresuchdata/stockflow/internal/materials"
)

// Ledger is the quantity on hand per material. Values are never clamped, so
// a ledger may go negative when demand exceeds stock.
type Ledger map[string]float64

// NewLedger copies the initial quantities into a fresh ledger.
func NewLedger(initial map[string]float64) Ledger {
	l := make(Ledger, len(initial))
	maps.Copy(l, initial)
	return l
}

// Clone returns a copy of the ledger.
func (l Ledger) Clone() Ledger {
	return NewLedger(l)
}

// Receive adds every quantity in the delivery to the ledger.
func (l Ledger) Receive(delivery map[string]float64) {
	for m, q := range delivery {
		l[m] += q
	}
}

// Consume subtracts a requirement from the ledger.
func (l Ledger) Consume(req materials.Requirements) {
	for m, q := range req {
		l[m] -= q
	}
}

// Keys returns the materials in sorted order.
func (l Ledger) Keys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
