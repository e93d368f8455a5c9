package indexer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearby/internal/domain/projection"
	"github.com/kailas-cloud/nearby/internal/metrics"
)

// InstrumentedProjection wraps Projection with write metrics and debug logging.
type InstrumentedProjection struct {
	inner  Projection
	logger *zap.Logger
}

// NewInstrumentedProjection wraps a projection writer with observability.
func NewInstrumentedProjection(inner Projection, logger *zap.Logger) *InstrumentedProjection {
	return &InstrumentedProjection{inner: inner, logger: logger}
}

// EnsureIndex delegates to the inner projection.
func (p *InstrumentedProjection) EnsureIndex(ctx context.Context) error {
	return p.inner.EnsureIndex(ctx) //nolint:wrapcheck // decorator
}

// Upsert writes an entry and records the outcome.
func (p *InstrumentedProjection) Upsert(ctx context.Context, e projection.Entry) error {
	start := time.Now()
	err := p.inner.Upsert(ctx, e)
	p.observe("upsert", e.ShopID(), start, err, zap.Int("terms", len(e.Terms())))
	return err //nolint:wrapcheck // decorator
}

// Delete removes an entry and records the outcome.
func (p *InstrumentedProjection) Delete(ctx context.Context, shopID string) error {
	start := time.Now()
	err := p.inner.Delete(ctx, shopID)
	p.observe("delete", shopID, start, err)
	return err //nolint:wrapcheck // decorator
}

// ListShopIDs delegates to the inner projection.
func (p *InstrumentedProjection) ListShopIDs(ctx context.Context) ([]string, error) {
	return p.inner.ListShopIDs(ctx) //nolint:wrapcheck // decorator
}

func (p *InstrumentedProjection) observe(op, shopID string, start time.Time, err error, extra ...zap.Field) {
	d := time.Since(start)
	metrics.RecordProjectionWrite(op, err, d)
	if err != nil {
		p.logger.Error("Projection write failed",
			zap.String("op", op),
			zap.String("shop_id", shopID),
			zap.Duration("duration", d),
			zap.Error(err),
		)
		return
	}
	p.logger.Debug("Projection write completed",
		append([]zap.Field{
			zap.String("op", op),
			zap.String("shop_id", shopID),
			zap.Duration("duration", d),
		}, extra...)...,
	)
}
