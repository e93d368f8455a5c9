// Package shop persists shops in the SQL catalog.
package shop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/nearby/internal/db/sqldb"
	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
)

const columns = `id, owner_id, name, full_name, address, contact, description, note,
	category, city, lat, lon, is_open, created_at, updated_at`

// Repo implements the shop repositories of the usecases.
type Repo struct {
	db *sqldb.DB
}

// New creates a shop repository.
func New(db *sqldb.DB) *Repo {
	return &Repo{db: db}
}

// Create inserts a shop; a second shop for the same owner is ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, s domshop.Shop) error {
	p := s.Profile()
	lat, lon := nullCoords(p.Location)
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO shops (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		s.ID(), s.OwnerID(), p.Name, p.FullName, p.Address, p.Contact, p.Description, p.Note,
		p.Category, p.City, lat, lon, s.IsOpen(), s.CreatedAt(), s.UpdatedAt(),
	)
	if sqldb.IsUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("inserting shop: %w", err)
	}
	return nil
}

// Get returns a shop by ID.
func (r *Repo) Get(ctx context.Context, id string) (domshop.Shop, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+columns+` FROM shops WHERE id = ?`), id)
	return scanShop(row)
}

// GetByOwner returns the shop owned by ownerID.
func (r *Repo) GetByOwner(ctx context.Context, ownerID string) (domshop.Shop, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+columns+` FROM shops WHERE owner_id = ?`), ownerID)
	return scanShop(row)
}

// Update overwrites the mutable columns of an existing shop.
func (r *Repo) Update(ctx context.Context, s domshop.Shop) error {
	p := s.Profile()
	lat, lon := nullCoords(p.Location)
	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE shops SET name = ?, full_name = ?, address = ?, contact = ?, description = ?, note = ?,
		        category = ?, city = ?, lat = ?, lon = ?, is_open = ?, updated_at = ?
		 WHERE id = ?`),
		p.Name, p.FullName, p.Address, p.Contact, p.Description, p.Note,
		p.Category, p.City, lat, lon, s.IsOpen(), s.UpdatedAt(), s.ID(),
	)
	if err != nil {
		return fmt.Errorf("updating shop: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating shop: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns shops matching f, oldest first.
func (r *Repo) List(ctx context.Context, f domshop.Filter) ([]domshop.Shop, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.City != "" {
		where = append(where, "LOWER(city) = LOWER(?)")
		args = append(args, f.City)
	}
	if f.OpenOnly {
		where = append(where, "is_open = ?")
		args = append(args, true)
	}

	q := `SELECT ` + columns + ` FROM shops`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at, id`
	if f.Limit > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("listing shops: %w", err)
	}
	defer rows.Close()

	var out []domshop.Shop
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListIDs returns every shop ID.
func (r *Repo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM shops ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing shop ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning shop id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountByCategory returns the number of shops per category.
func (r *Repo) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM shops GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("counting categories: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			cat string
			n   int
		)
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		counts[cat] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanShop(row scanner) (domshop.Shop, error) {
	var (
		id, ownerID          string
		p                    domshop.Profile
		lat, lon             sql.NullFloat64
		isOpen               bool
		createdAt, updatedAt int64
	)
	err := row.Scan(&id, &ownerID, &p.Name, &p.FullName, &p.Address, &p.Contact, &p.Description, &p.Note,
		&p.Category, &p.City, &lat, &lon, &isOpen, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domshop.Shop{}, domain.ErrNotFound
	}
	if err != nil {
		return domshop.Shop{}, fmt.Errorf("scanning shop: %w", err)
	}
	if lat.Valid && lon.Valid {
		p.Location = &geo.Point{Lat: lat.Float64, Lon: lon.Float64}
	}
	return domshop.Reconstruct(id, ownerID, p, isOpen, createdAt, updatedAt), nil
}

func nullCoords(p *geo.Point) (lat, lon sql.NullFloat64) {
	if p == nil {
		return lat, lon
	}
	return sql.NullFloat64{Float64: p.Lat, Valid: true}, sql.NullFloat64{Float64: p.Lon, Valid: true}
}
