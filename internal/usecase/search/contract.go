package search

import (
	"context"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
	"github.com/kailas-cloud/nearby/internal/domain/projection"
)

// Repository reads projected shop entries around a point.
type Repository interface {
	WithinRadius(ctx context.Context, origin geo.Point, radiusKm float64, pageSize int) ([]projection.Entry, error)
}

// Recorder observes search outcomes.
type Recorder interface {
	RecordSearch(op, status string, results int)
}
