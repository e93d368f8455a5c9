// Package inventory persists inventory records in the SQL catalog.
package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kailas-cloud/nearby/internal/db/sqldb"
	"github.com/kailas-cloud/nearby/internal/domain"
	dominv "github.com/kailas-cloud/nearby/internal/domain/inventory"
)

const columns = `id, shop_id, item_id, quantity, min_quantity, max_quantity, updated_at`

// Repo implements the inventory repositories of the usecases.
type Repo struct {
	db *sqldb.DB
}

// New creates an inventory repository.
func New(db *sqldb.DB) *Repo {
	return &Repo{db: db}
}

// Create inserts a record; one record per (shop, item).
func (r *Repo) Create(ctx context.Context, rec dominv.Record) error {
	t := rec.Thresholds()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO inventory (id, shop_id, item_id, quantity, min_quantity, max_quantity, status, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID(), rec.ShopID(), rec.ItemID(), rec.Quantity(),
		nullInt(t.Min), nullInt(t.Max), string(rec.Status()), rec.UpdatedAt(),
	)
	if sqldb.IsUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("inserting inventory: %w", err)
	}
	return nil
}

// Get returns a record by ID.
func (r *Repo) Get(ctx context.Context, id string) (dominv.Record, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+columns+` FROM inventory WHERE id = ?`), id)
	return scanRecord(row)
}

// GetByItem returns the record of an item in a shop.
func (r *Repo) GetByItem(ctx context.Context, shopID, itemID string) (dominv.Record, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT `+columns+` FROM inventory WHERE shop_id = ? AND item_id = ?`), shopID, itemID)
	return scanRecord(row)
}

// Modify reads the record, applies change and writes the result in one
// transaction, so concurrent deltas on the same record never overwrite each
// other. An error from change aborts without writing.
func (r *Repo) Modify(
	ctx context.Context, id string, change func(dominv.Record) (dominv.Record, error),
) (dominv.Record, error) {
	var out dominv.Record
	err := r.db.InTx(ctx, func(tx *sql.Tx) error {
		cur, err := scanRecord(tx.QueryRowContext(ctx, r.db.Rebind(
			`SELECT `+columns+` FROM inventory WHERE id = ?`+r.db.ForUpdate()), id))
		if err != nil {
			return err
		}
		next, err := change(cur)
		if err != nil {
			return err
		}
		if err := r.update(ctx, tx, next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return dominv.Record{}, err //nolint:wrapcheck // domain errors pass through
	}
	return out, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *Repo) update(ctx context.Context, ex execer, rec dominv.Record) error {
	t := rec.Thresholds()
	res, err := ex.ExecContext(ctx, r.db.Rebind(
		`UPDATE inventory SET quantity = ?, min_quantity = ?, max_quantity = ?, status = ?, updated_at = ?
		 WHERE id = ?`),
		rec.Quantity(), nullInt(t.Min), nullInt(t.Max), string(rec.Status()), rec.UpdatedAt(), rec.ID(),
	)
	if err != nil {
		return fmt.Errorf("updating inventory: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("updating inventory: %w", err)
	} else if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByShop returns every record of a shop.
func (r *Repo) ListByShop(ctx context.Context, shopID string) ([]dominv.Record, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(
		`SELECT `+columns+` FROM inventory WHERE shop_id = ? ORDER BY item_id`), shopID)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	defer rows.Close()

	var out []dominv.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRecord ignores the stored status column; Reconstruct re-derives it.
func scanRecord(row scanner) (dominv.Record, error) {
	var (
		id, shopID, itemID string
		quantity           int
		lo, hi             sql.NullInt64
		updatedAt          int64
	)
	err := row.Scan(&id, &shopID, &itemID, &quantity, &lo, &hi, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return dominv.Record{}, domain.ErrNotFound
	}
	if err != nil {
		return dominv.Record{}, fmt.Errorf("scanning inventory: %w", err)
	}
	t := dominv.Thresholds{Min: intPtr(lo), Max: intPtr(hi)}
	return dominv.Reconstruct(id, shopID, itemID, quantity, t, updatedAt), nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
