package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/repository"
)

type materialRepository struct {
	db *DB
}

func NewMaterialRepository(db *DB) repository.MaterialRepository {
	return &materialRepository{db: db}
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %q: %w", kind, id, domain.ErrNotFound)
	}
	return fmt.Errorf("get %s %q: %w", kind, id, err)
}

func (r *materialRepository) Get(ctx context.Context, id string) (*domain.Material, error) {
	query := `
		SELECT id, name, quantity_available, price_per_unit, updated_at
		FROM materials
		WHERE id = $1
	`

	var m domain.Material
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, notFound("material", id, err)
	}
	return &m, nil
}

func (r *materialRepository) List(ctx context.Context) ([]domain.Material, error) {
	query := `
		SELECT id, name, quantity_available, price_per_unit, updated_at
		FROM materials
		ORDER BY id
	`

	var ms []domain.Material
	if err := r.db.SelectContext(ctx, &ms, query); err != nil {
		return nil, fmt.Errorf("error listing materials: %w", err)
	}
	return ms, nil
}

func (r *materialRepository) Upsert(ctx context.Context, m *domain.Material) error {
	query := `
		INSERT INTO materials (id, name, quantity_available, price_per_unit, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			quantity_available = EXCLUDED.quantity_available,
			price_per_unit = EXCLUDED.price_per_unit,
			updated_at = NOW()
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(ctx, query, m.ID, m.Name, m.QuantityAvailable, m.PricePerUnit).Scan(&m.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert material %q: %w", m.ID, err)
	}
	return nil
}

func (r *materialRepository) GetStock(ctx context.Context, id string) (float64, error) {
	var qty float64
	err := r.db.GetContext(ctx, &qty, `SELECT quantity_available FROM materials WHERE id = $1`, id)
	if err != nil {
		return 0, notFound("material", id, err)
	}
	return qty, nil
}

func (r *materialRepository) SetStock(ctx context.Context, id string, quantity float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE materials SET quantity_available = $2, updated_at = NOW() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("failed to set stock of %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("material %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

// AdjustStock locks the row so concurrent adjustments serialise.
func (r *materialRepository) AdjustStock(ctx context.Context, id string, delta float64) (float64, error) {
	var next float64
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var current float64
		if err := tx.GetContext(ctx, &current,
			`SELECT quantity_available FROM materials WHERE id = $1 FOR UPDATE`, id); err != nil {
			return notFound("material", id, err)
		}

		next = current + delta
		if next < 0 {
			next = current
			return fmt.Errorf("material %q has %.2f, adjustment %.2f: %w",
				id, current, delta, domain.ErrInsufficientStock)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE materials SET quantity_available = $2, updated_at = NOW() WHERE id = $1`, id, next); err != nil {
			return fmt.Errorf("failed to adjust stock of %q: %w", id, err)
		}
		return nil
	})
	return next, err
}

func (r *materialRepository) Quantities(ctx context.Context) (map[string]float64, error) {
	rows := []struct {
		ID       string  `db:"id"`
		Quantity float64 `db:"quantity_available"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, quantity_available FROM materials`); err != nil {
		return nil, fmt.Errorf("error listing quantities: %w", err)
	}

	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Quantity
	}
	return out, nil
}
