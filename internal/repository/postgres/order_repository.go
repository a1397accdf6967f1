package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/repository"
)

type orderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

type orderRow struct {
	ID               string          `db:"id"`
	CreatedAt        time.Time       `db:"created_at"`
	Customer         []byte          `db:"customer"`
	Items            []byte          `db:"items"`
	Status           string          `db:"status"`
	TotalValue       decimal.Decimal `db:"total_value"`
	DeliveryDeadline *time.Time      `db:"delivery_deadline"`
	Notes            string          `db:"notes"`
}

func (row orderRow) toDomain() (domain.CustomerOrder, error) {
	o := domain.CustomerOrder{
		ID:               row.ID,
		CreatedAt:        row.CreatedAt,
		Status:           row.Status,
		TotalValue:       row.TotalValue,
		DeliveryDeadline: row.DeliveryDeadline,
		Notes:            row.Notes,
	}
	if err := json.Unmarshal(row.Customer, &o.Customer); err != nil {
		return o, fmt.Errorf("decode customer of order %q: %w", row.ID, err)
	}
	if err := json.Unmarshal(row.Items, &o.Items); err != nil {
		return o, fmt.Errorf("decode items of order %q: %w", row.ID, err)
	}
	return o, nil
}

const orderColumns = `id, created_at, customer, items, status, total_value, delivery_deadline, notes`

func (r *orderRepository) Upsert(ctx context.Context, o *domain.CustomerOrder) error {
	customer, err := json.Marshal(o.Customer)
	if err != nil {
		return fmt.Errorf("encode customer: %w", err)
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	query := `
		INSERT INTO customer_orders (
			id, created_at, customer_name, customer_email, customer, items,
			status, total_value, delivery_deadline, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id)
		DO UPDATE SET
			customer_name = EXCLUDED.customer_name,
			customer_email = EXCLUDED.customer_email,
			customer = EXCLUDED.customer,
			items = EXCLUDED.items,
			status = EXCLUDED.status,
			total_value = EXCLUDED.total_value,
			delivery_deadline = EXCLUDED.delivery_deadline,
			notes = EXCLUDED.notes
	`
	_, err = r.db.ExecContext(ctx, query,
		o.ID,
		o.CreatedAt,
		o.Customer.Name,
		strings.ToLower(o.Customer.Email),
		string(customer),
		string(items),
		o.Status,
		o.TotalValue,
		o.DeliveryDeadline,
		o.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert order %q: %w", o.ID, err)
	}
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (*domain.CustomerOrder, error) {
	var row orderRow
	if err := r.db.GetContext(ctx, &row,
		`SELECT `+orderColumns+` FROM customer_orders WHERE id = $1`, id); err != nil {
		return nil, notFound("order", id, err)
	}
	o, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) list(ctx context.Context, where string, args ...interface{}) ([]domain.CustomerOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM customer_orders`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY created_at DESC, id`

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error listing orders: %w", err)
	}

	out := make([]domain.CustomerOrder, 0, len(rows))
	for _, row := range rows {
		o, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *orderRepository) List(ctx context.Context) ([]domain.CustomerOrder, error) {
	return r.list(ctx, "")
}

func (r *orderRepository) ListByStatus(ctx context.Context, status string) ([]domain.CustomerOrder, error) {
	return r.list(ctx, `status = $1`, status)
}

func (r *orderRepository) ListByCustomerName(ctx context.Context, name string) ([]domain.CustomerOrder, error) {
	return r.list(ctx, `customer_name ILIKE $1`, "%"+escapeLike(name)+"%")
}

func (r *orderRepository) ListByCustomerEmail(ctx context.Context, email string) ([]domain.CustomerOrder, error) {
	return r.list(ctx, `LOWER(customer_email) = $1`, strings.ToLower(email))
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE customer_orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update status of %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
