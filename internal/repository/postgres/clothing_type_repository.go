package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/materials"
	"github.com/andresuchdata/stockflow/internal/repository"
)

type clothingTypeRepository struct {
	db *DB
}

func NewClothingTypeRepository(db *DB) repository.ClothingTypeRepository {
	return &clothingTypeRepository{db: db}
}

// clothingTypeRow mirrors the table; coefficient maps live in JSONB columns.
type clothingTypeRow struct {
	ID                    string `db:"id"`
	Name                  string `db:"name"`
	BaseMaterials         []byte `db:"base_materials"`
	Sizes                 []byte `db:"sizes"`
	ProductionTimeMinutes int    `db:"production_time_minutes"`
}

func (row clothingTypeRow) toDomain() (domain.ClothingType, error) {
	ct := domain.ClothingType{
		ID:                    row.ID,
		Name:                  row.Name,
		ProductionTimeMinutes: row.ProductionTimeMinutes,
	}
	if err := json.Unmarshal(row.BaseMaterials, &ct.BaseMaterials); err != nil {
		return ct, fmt.Errorf("decode base materials of %q: %w", row.ID, err)
	}
	if err := json.Unmarshal(row.Sizes, &ct.Sizes); err != nil {
		return ct, fmt.Errorf("decode sizes of %q: %w", row.ID, err)
	}
	return ct, nil
}

const clothingTypeColumns = `id, name, base_materials, sizes, production_time_minutes`

func (r *clothingTypeRepository) Get(ctx context.Context, id string) (*domain.ClothingType, error) {
	var row clothingTypeRow
	if err := r.db.GetContext(ctx, &row,
		`SELECT `+clothingTypeColumns+` FROM clothing_types WHERE id = $1`, id); err != nil {
		return nil, notFound("clothing type", id, err)
	}
	ct, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

func (r *clothingTypeRepository) List(ctx context.Context) ([]domain.ClothingType, error) {
	var rows []clothingTypeRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT `+clothingTypeColumns+` FROM clothing_types ORDER BY id`); err != nil {
		return nil, fmt.Errorf("error listing clothing types: %w", err)
	}

	out := make([]domain.ClothingType, 0, len(rows))
	for _, row := range rows {
		ct, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, nil
}

func (r *clothingTypeRepository) Upsert(ctx context.Context, ct *domain.ClothingType) error {
	stored := repository.CloneClothingType(*ct)
	if len(stored.Sizes) == 0 {
		materials.ExpandSizes(&stored, nil)
	}

	base, err := json.Marshal(stored.BaseMaterials)
	if err != nil {
		return fmt.Errorf("encode base materials: %w", err)
	}
	sizes, err := json.Marshal(stored.Sizes)
	if err != nil {
		return fmt.Errorf("encode sizes: %w", err)
	}

	query := `
		INSERT INTO clothing_types (id, name, base_materials, sizes, production_time_minutes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			base_materials = EXCLUDED.base_materials,
			sizes = EXCLUDED.sizes,
			production_time_minutes = EXCLUDED.production_time_minutes
	`
	if _, err := r.db.ExecContext(ctx, query,
		stored.ID, stored.Name, string(base), string(sizes), stored.ProductionTimeMinutes); err != nil {
		return fmt.Errorf("failed to upsert clothing type %q: %w", ct.ID, err)
	}
	return nil
}

func (r *clothingTypeRepository) GetMaterialCoefficients(ctx context.Context, typeID, size string) (map[string]float64, error) {
	ct, err := r.Get(ctx, typeID)
	if err != nil {
		return nil, err
	}
	return repository.CoefficientsFor(ct, size), nil
}
