// Package item persists shop items in the SQL catalog.
package item

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/nearby/internal/db/sqldb"
	"github.com/kailas-cloud/nearby/internal/domain"
	domitem "github.com/kailas-cloud/nearby/internal/domain/item"
)

const columns = `id, shop_id, name, price, description, note, created_at, updated_at`

// Repo implements the item repositories of the usecases.
type Repo struct {
	db *sqldb.DB
}

// New creates an item repository.
func New(db *sqldb.DB) *Repo {
	return &Repo{db: db}
}

// Create inserts an item.
func (r *Repo) Create(ctx context.Context, it domitem.Item) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO items (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		it.ID(), it.ShopID(), it.Name(), it.Price(), it.Description(), it.Note(), it.CreatedAt(), it.UpdatedAt(),
	)
	if sqldb.IsUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	return nil
}

// Get returns an item by ID.
func (r *Repo) Get(ctx context.Context, id string) (domitem.Item, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+columns+` FROM items WHERE id = ?`), id)
	return scanItem(row)
}

// Update overwrites price, description, note and updated_at.
func (r *Repo) Update(ctx context.Context, it domitem.Item) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE items SET price = ?, description = ?, note = ?, updated_at = ? WHERE id = ?`),
		it.Price(), it.Description(), it.Note(), it.UpdatedAt(), it.ID(),
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("updating item: %w", err)
	} else if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByShop returns a shop's items ordered by name.
func (r *Repo) ListByShop(ctx context.Context, shopID string) ([]domitem.Item, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(
		`SELECT `+columns+` FROM items WHERE shop_id = ? ORDER BY name, id`), shopID)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var out []domitem.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (domitem.Item, error) {
	var (
		id, shopID, name, description, note string
		price                               decimal.Decimal
		createdAt, updatedAt                int64
	)
	err := row.Scan(&id, &shopID, &name, &price, &description, &note, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domitem.Item{}, domain.ErrNotFound
	}
	if err != nil {
		return domitem.Item{}, fmt.Errorf("scanning item: %w", err)
	}
	return domitem.Reconstruct(id, shopID, name, price, description, note, createdAt, updatedAt), nil
}
