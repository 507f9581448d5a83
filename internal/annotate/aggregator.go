package annotate

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// aggregator consumes completions one at a time. It owns the sink, the
// progress counter and the run statistics, so none of them need locking.
type aggregator struct {
	sink     Sink
	total    int
	progress ProgressFunc
	metrics  *Metrics
	logger   *zap.SugaredLogger
	stats    Stats
}

func newAggregator(sink Sink, total int, progress ProgressFunc, metrics *Metrics, logger *zap.SugaredLogger) *aggregator {
	return &aggregator{
		sink:     sink,
		total:    total,
		progress: progress,
		metrics:  metrics,
		logger:   logger,
		stats:    Stats{Submitted: total},
	}
}

// consume handles completions until the channel is closed or ctx is done.
// A sink failure ends the run.
func (a *aggregator) consume(ctx context.Context, completions <-chan Result) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-completions:
			if !ok {
				return nil
			}
			if err := a.handle(res); err != nil {
				return err
			}
		}
	}
}

func (a *aggregator) handle(res Result) error {
	if res.OK() {
		rec := res.Record
		if err := a.sink.Append(rec.Features, rec.Estimated, rec.Actual); err != nil {
			return fmt.Errorf("failed to write annotated row %d: %w", res.Task.Row.Line, err)
		}
		a.metrics.rows.Inc()
		a.stats.Succeeded++
	} else {
		a.stats.Failed++
		a.logger.Warnw("query failed",
			"line", res.Task.Row.Line,
			"query", res.Task.Row.SQL,
			"error", res.Err)
	}

	a.stats.Completed++
	if a.progress != nil {
		a.progress(a.stats.Completed, a.total)
	}
	return nil
}

// LogProgress returns a ProgressFunc that logs roughly every step percent of
// the run, and always on the last task.
func LogProgress(logger *zap.SugaredLogger, step int) ProgressFunc {
	if step < 1 {
		step = 1
	}
	last := -1
	return func(done, total int) {
		pct := 100
		if total > 0 {
			pct = done * 100 / total
		}
		if done != total && pct/step == last {
			return
		}
		last = pct / step
		logger.Infow("annotation progress", "done", done, "total", total, "percent", pct)
	}
}
