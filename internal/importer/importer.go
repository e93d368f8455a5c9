// Package importer seeds the shop catalog from FSQ OS Places parquet files.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
	"github.com/kailas-cloud/nearby/internal/domain/identity"
	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
)

const (
	batchSize = 1000
	// OwnerPrefix namespaces owner IDs of imported shops.
	OwnerPrefix = "fsq:"
	// FullName is the contact name recorded on imported shops.
	FullName = "Foursquare Places"
)

// PlaceRow is the subset of the FSQ OS Places schema the importer reads.
type PlaceRow struct {
	FSQPlaceID     string   `parquet:"fsq_place_id"`
	Name           string   `parquet:"name"`
	Latitude       *float64 `parquet:"latitude"`
	Longitude      *float64 `parquet:"longitude"`
	Address        *string  `parquet:"address"`
	Locality       *string  `parquet:"locality"`
	CategoryLabels []string `parquet:"fsq_category_labels,list"`
	DateClosed     *string  `parquet:"date_closed"`
}

// ShopCreator registers a shop for an owner.
type ShopCreator interface {
	Create(ctx context.Context, id identity.Identity, p domshop.Profile) (domshop.Shop, error)
}

// Stats counts import outcomes.
type Stats struct {
	Read    int `json:"read"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Importer turns place rows into shops. Each place becomes a shop owned by
// "fsq:<place id>", so re-running an import skips places already present.
type Importer struct {
	shops  ShopCreator
	logger *zap.Logger
}

// New creates an Importer.
func New(shops ShopCreator, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{shops: shops, logger: logger}
}

// ImportDir imports every *.parquet file in dir in name order.
// maxRows = 0 means no limit.
func (im *Importer) ImportDir(ctx context.Context, dir string, maxRows int) (Stats, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.parquet"))
	if err != nil {
		return Stats{}, fmt.Errorf("glob parquet files: %w", err)
	}
	if len(files) == 0 {
		return Stats{}, fmt.Errorf("no parquet files found in %s", dir)
	}
	sort.Strings(files)

	var total Stats
	for _, f := range files {
		remaining := 0
		if maxRows > 0 {
			remaining = maxRows - total.Read
			if remaining <= 0 {
				break
			}
		}
		st, err := im.ImportFile(ctx, f, remaining)
		total.Read += st.Read
		total.Created += st.Created
		total.Skipped += st.Skipped
		total.Failed += st.Failed
		if err != nil {
			return total, fmt.Errorf("import %s: %w", filepath.Base(f), err)
		}
	}
	return total, nil
}

// ImportFile streams one parquet file. maxRows = 0 means no limit.
func (im *Importer) ImportFile(ctx context.Context, path string, maxRows int) (Stats, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Stats{}, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return Stats{}, fmt.Errorf("stat: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return Stats{}, fmt.Errorf("open parquet: %w", err)
	}

	cols := resolveColumns(pf.Schema())
	if cols.id < 0 || cols.name < 0 {
		return Stats{}, fmt.Errorf("%s: fsq_place_id and name columns are required", filepath.Base(path))
	}

	var st Stats
	buf := make([]parquet.Row, batchSize)
	for _, rg := range pf.RowGroups() {
		rows := parquet.NewRowGroupReader(rg)
		for {
			if err := ctx.Err(); err != nil {
				return st, err
			}
			n, readErr := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				if maxRows > 0 && st.Read >= maxRows {
					return st, nil
				}
				st.Read++
				place := cols.decode(buf[i])
				im.importRow(ctx, &place, &st)
			}
			if errors.Is(readErr, io.EOF) {
				break
			}
			if readErr != nil {
				return st, fmt.Errorf("read rows: %w", readErr)
			}
		}
	}

	im.logger.Info("Parquet file imported",
		zap.String("file", filepath.Base(path)),
		zap.Int("read", st.Read),
		zap.Int("created", st.Created),
		zap.Int("skipped", st.Skipped),
		zap.Int("failed", st.Failed),
	)
	return st, nil
}

// columns holds leaf column indexes; -1 when absent from the file.
type columns struct {
	id, name, lat, lon, address, locality, labels, closed int
}

// resolveColumns reads indexes by name. Nullable nested columns in the FSQ
// schema break struct reconstruction, so rows are decoded by column index.
func resolveColumns(schema *parquet.Schema) columns {
	c := columns{-1, -1, -1, -1, -1, -1, -1, -1}
	for i, path := range schema.Columns() {
		if len(path) == 0 {
			continue
		}
		switch path[0] {
		case "fsq_place_id":
			c.id = i
		case "name":
			c.name = i
		case "latitude":
			c.lat = i
		case "longitude":
			c.lon = i
		case "address":
			c.address = i
		case "locality":
			c.locality = i
		case "fsq_category_labels":
			c.labels = i
		case "date_closed":
			c.closed = i
		}
	}
	return c
}

func (c columns) decode(row parquet.Row) PlaceRow {
	var p PlaceRow
	for _, v := range row {
		if v.IsNull() {
			continue
		}
		switch v.Column() {
		case c.id:
			p.FSQPlaceID = v.String()
		case c.name:
			p.Name = v.String()
		case c.lat:
			f := v.Double()
			p.Latitude = &f
		case c.lon:
			f := v.Double()
			p.Longitude = &f
		case c.address:
			s := v.String()
			p.Address = &s
		case c.locality:
			s := v.String()
			p.Locality = &s
		case c.labels:
			p.CategoryLabels = append(p.CategoryLabels, v.String())
		case c.closed:
			s := v.String()
			p.DateClosed = &s
		}
	}
	return p
}

func (im *Importer) importRow(ctx context.Context, row *PlaceRow, st *Stats) {
	profile, ok := ToProfile(row)
	if !ok {
		st.Skipped++
		return
	}

	owner := identity.Identity{OwnerID: OwnerPrefix + row.FSQPlaceID, Role: identity.RoleVendor}
	_, err := im.shops.Create(ctx, owner, profile)
	switch {
	case err == nil:
		st.Created++
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidLocation):
		im.logger.Debug("Place skipped", zap.String("fsq_place_id", row.FSQPlaceID), zap.Error(err))
		st.Skipped++
	default:
		im.logger.Warn("Place import failed", zap.String("fsq_place_id", row.FSQPlaceID), zap.Error(err))
		st.Failed++
	}
}

// ToProfile maps a place to a shop profile. Closed places and places
// without an ID, a name or coordinates are rejected.
func ToProfile(row *PlaceRow) (domshop.Profile, bool) {
	if row.FSQPlaceID == "" || strings.TrimSpace(row.Name) == "" {
		return domshop.Profile{}, false
	}
	if row.Latitude == nil || row.Longitude == nil {
		return domshop.Profile{}, false
	}
	if row.DateClosed != nil && *row.DateClosed != "" {
		return domshop.Profile{}, false
	}

	street := deref(row.Address)
	locality := deref(row.Locality)
	parts := make([]string, 0, 2)
	for _, v := range []string{street, locality} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return domshop.Profile{}, false
	}

	return domshop.Profile{
		Name:        row.Name,
		FullName:    FullName,
		Address:     strings.Join(parts, ", "),
		Description: strings.Join(row.CategoryLabels, "; "),
		City:        locality,
		Location:    &geo.Point{Lat: *row.Latitude, Lon: *row.Longitude},
	}, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
