// Package health reduces the watch-list and the backend's firing alerts to
// a single verdict.
package health

import (
	"context"

	"go.uber.org/zap"

	"github.com/0x234/clusterhealthz/internal/promsource"
	"github.com/0x234/clusterhealthz/internal/watchlist"
)

// Verdict is the outcome of one evaluation cycle.
type Verdict string

const (
	// Healthy means none of the watched alerts are firing.
	Healthy Verdict = "healthy"
	// Unhealthy means at least one watched alert is firing.
	Unhealthy Verdict = "unhealthy"
	// BackendUnreachable means the firing set could not be obtained.
	// Consumers treat it as unhealthy; it stays distinguishable for
	// diagnostics.
	BackendUnreachable Verdict = "backend_unreachable"
)

// Result carries the verdict of one evaluation plus the detail operators
// want: which watched alerts matched, or why the backend query failed.
type Result struct {
	Verdict Verdict
	Matched []string // watched alerts currently firing, in watch-list order
	Err     error    // set only for BackendUnreachable
}

// AlertSource yields the set of alert names currently firing.
type AlertSource interface {
	FiringAlerts(ctx context.Context) (promsource.FiringSet, error)
}

// Evaluator computes health verdicts. Evaluation is a pure reduction over
// one watch-list snapshot and one fresh firing set: any watched alert
// firing flips the verdict to Unhealthy, with no thresholds or severity
// weighting.
type Evaluator struct {
	store  *watchlist.Store
	source AlertSource
	logger *zap.Logger
}

// NewEvaluator creates an Evaluator reading snapshots from store and firing
// alerts from source.
func NewEvaluator(store *watchlist.Store, source AlertSource, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		store:  store,
		source: source,
		logger: logger,
	}
}

// Evaluate runs one evaluation cycle. The watch-list snapshot is taken once
// up front, so a reload that completes mid-cycle does not affect this
// evaluation.
func (e *Evaluator) Evaluate(ctx context.Context) Result {
	snapshot := e.store.Current()

	firing, err := e.source.FiringAlerts(ctx)
	if err != nil {
		// Subtype detail is logged by the source client.
		return Result{Verdict: BackendUnreachable, Err: err}
	}

	matched := snapshot.Matches(firing)
	if len(matched) == 0 {
		e.logger.Debug("no watched alerts firing",
			zap.Int("firing_total", len(firing)),
			zap.Int("watched", snapshot.Len()),
		)
		return Result{Verdict: Healthy}
	}

	e.logger.Warn("watched alert condition detected",
		zap.Strings("matched", matched),
		zap.Int("firing_total", len(firing)),
	)
	return Result{Verdict: Unhealthy, Matched: matched}
}
