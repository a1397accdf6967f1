package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockflow/internal/domain"
)

// Seed upserts the catalogue into store.
func Seed(ctx context.Context, store *Store, ms []domain.Material, types []domain.ClothingType) error {
	for i := range ms {
		if err := store.Materials.Upsert(ctx, &ms[i]); err != nil {
			return fmt.Errorf("seed material %s: %w", ms[i].ID, err)
		}
	}
	for i := range types {
		if err := store.ClothingTypes.Upsert(ctx, &types[i]); err != nil {
			return fmt.Errorf("seed clothing type %s: %w", types[i].ID, err)
		}
	}
	log.Info().Int("materials", len(ms)).Int("clothing_types", len(types)).Msg("repository: catalog seeded")
	return nil
}
