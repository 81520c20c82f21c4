package listing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/nayzak/internal/metrics"
	"github.com/erazemk/nayzak/internal/store"
)

// viewTimeout bounds a single detached increment.
const viewTimeout = 5 * time.Second

// ViewCounter records listing views in the background. Increments are
// best-effort: failures are logged and counted but never reported to the
// reader that triggered them.
type ViewCounter struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

// NewViewCounter returns a counter writing to db.
func NewViewCounter(db *sqlx.DB, m *metrics.Metrics) *ViewCounter {
	return &ViewCounter{db: db, metrics: m}
}

// Record increments the views of a published listing without blocking the
// caller. The increment outlives ctx's cancellation but keeps its values.
func (v *ViewCounter) Record(ctx context.Context, id string) {
	v.wg.Add(1)
	go func() {
		defer v.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), viewTimeout)
		defer cancel()

		if err := store.IncrementViews(ctx, v.db, id); err != nil {
			slog.Warn("failed to record view", "listing", id, "error", err)
			v.metrics.ViewFailed()
			return
		}
		v.metrics.Viewed()
	}()
}

// Wait blocks until every recorded increment has finished.
func (v *ViewCounter) Wait() {
	v.wg.Wait()
}
