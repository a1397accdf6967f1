package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockflow/internal/materials"
	"github.com/andresuchdata/stockflow/internal/metrics"
	"github.com/andresuchdata/stockflow/internal/purchasenote"
	"github.com/andresuchdata/stockflow/internal/repository"
	"github.com/andresuchdata/stockflow/internal/simulation"
	"github.com/andresuchdata/stockflow/internal/storage"
)

// PurchaseNote is a rendered note and, when uploaded, its object key.
type PurchaseNote struct {
	Note purchasenote.Note
	PDF  []byte
	Key  string
}

// PurchaseNoteService prices material quantities and renders supplier notes.
type PurchaseNoteService struct {
	materials repository.MaterialRepository
	header    purchasenote.Header
	storage   storage.ObjectStorage
	prefix    string
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewPurchaseNoteService builds the service. A nil store skips uploads.
func NewPurchaseNoteService(ms repository.MaterialRepository, header purchasenote.Header, store storage.ObjectStorage, prefix string, m *metrics.Metrics) *PurchaseNoteService {
	return &PurchaseNoteService{
		materials: ms,
		header:    header,
		storage:   store,
		prefix:    strings.Trim(prefix, "/"),
		metrics:   m,
		now:       time.Now,
	}
}

// FromSimulation builds a note for everything a run reordered.
func (s *PurchaseNoteService) FromSimulation(ctx context.Context, result *simulation.Result) (*PurchaseNote, error) {
	if result == nil {
		return nil, fmt.Errorf("no simulation result")
	}
	return s.Create(ctx, result.ReorderTotals())
}

// Create builds, renders and optionally uploads a note for quantities.
func (s *PurchaseNoteService) Create(ctx context.Context, quantities map[string]float64) (*PurchaseNote, error) {
	ms, err := s.materials.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}

	issued := s.now().UTC()
	number := purchasenote.NewNumber(issued)

	note, err := purchasenote.Build(number, issued, s.header, quantities, materials.PricesFromMaterials(ms))
	if err != nil {
		return nil, err
	}
	pdf, err := purchasenote.RenderBytes(note)
	if err != nil {
		return nil, fmt.Errorf("render purchase note: %w", err)
	}
	s.metrics.ObservePurchaseNote()

	out := &PurchaseNote{Note: note, PDF: pdf}
	if s.storage != nil {
		key := path.Join(s.prefix, number+".pdf")
		if err := s.storage.UploadObject(ctx, key, pdf, "application/pdf"); err != nil {
			return nil, fmt.Errorf("upload purchase note: %w", err)
		}
		out.Key = key
	}

	log.Info().
		Str("number", number).
		Int("lines", len(note.Lines)).
		Str("total", note.Total.StringFixed(2)).
		Str("key", out.Key).
		Msg("purchase note: created")
	return out, nil
}
