// Package annotate labels a query corpus with the optimizer's estimated and
// the measured row count of every query.
//
// Tasks run on a fixed-width worker pool, each on its own short-lived
// database connection, and complete in arbitrary order. Completions flow
// through a single channel to one aggregator goroutine, which is the only
// code touching the output store and the progress counter.
package annotate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tordrt/cardgen/internal/db"
	"github.com/tordrt/cardgen/internal/records"
)

// Task is one corpus row submitted for annotation
type Task struct {
	Index int
	Row   records.CorpusRow
}

// Record is a labeled training example
type Record struct {
	Features  []string
	Estimated int64
	Actual    int64
}

// Result is the outcome of a task: a record on success, an error otherwise
type Result struct {
	Task   Task
	Record *Record
	Err    error
}

// OK reports whether the task produced a record
func (r Result) OK() bool {
	return r.Err == nil && r.Record != nil
}

// Sink receives annotated rows. Append must not return before the row is
// durable.
type Sink interface {
	Append(features []string, estimated, actual int64) error
}

// ProgressFunc observes the progress counter after every completed task
type ProgressFunc func(done, total int)

// Config controls the worker pool
type Config struct {
	// MaxConcurrency bounds simultaneously running tasks, and therefore
	// simultaneously open database connections.
	MaxConcurrency int
	// Metrics receives task outcomes and latencies. Nil keeps them
	// unregistered.
	Metrics *Metrics
}

// Stats summarizes an annotation run
type Stats struct {
	RunID     string
	Submitted int
	Completed int
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Driver fans corpus rows out to a bounded pool of workers
type Driver struct {
	connector db.Connector
	cfg       Config
	logger    *zap.SugaredLogger
}

// NewDriver creates an annotation driver
func NewDriver(connector db.Connector, cfg Config, logger *zap.SugaredLogger) (*Driver, error) {
	if connector == nil {
		return nil, fmt.Errorf("a database connector is required")
	}
	if cfg.MaxConcurrency < 1 {
		return nil, fmt.Errorf("max concurrency must be at least 1, got %d", cfg.MaxConcurrency)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics(nil)
	}
	return &Driver{connector: connector, cfg: cfg, logger: logger}, nil
}

// Run annotates every row and appends the successful ones to sink in
// completion order. Failed tasks are logged and dropped. Run returns once
// every task has completed, or with the context's error when ctx is
// cancelled first; rows already appended stay valid either way.
func (d *Driver) Run(ctx context.Context, rows []records.CorpusRow, sink Sink, progress ProgressFunc) (*Stats, error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := d.logger.With("run_id", runID)

	agg := newAggregator(sink, len(rows), progress, d.cfg.Metrics, logger)
	agg.stats.RunID = runID

	// Every task is queued up front; workers drain the queue.
	tasks := make(chan Task, len(rows))
	for i, row := range rows {
		tasks <- Task{Index: i, Row: row}
	}
	close(tasks)

	workers := min(d.cfg.MaxConcurrency, len(rows))
	logger.Infow("starting annotation", "tasks", len(rows), "workers", workers)

	completions := make(chan Result, workers)
	g, gctx := errgroup.WithContext(ctx)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return d.work(gctx, tasks, completions, logger)
		})
	}
	go func() {
		wg.Wait()
		close(completions)
	}()

	g.Go(func() error {
		return agg.consume(gctx, completions)
	})

	err := g.Wait()
	agg.stats.Duration = time.Since(started)
	stats := agg.stats

	logger.Infow("annotation finished",
		"submitted", stats.Submitted,
		"completed", stats.Completed,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"duration", stats.Duration)

	return &stats, err
}

// work runs tasks until the queue is drained or ctx is done
func (d *Driver) work(ctx context.Context, tasks <-chan Task, completions chan<- Result, logger *zap.SugaredLogger) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		task, ok := <-tasks
		if !ok {
			return nil
		}

		res := d.observe(ctx, task, logger)
		if err := ctx.Err(); err != nil {
			// Abandoned mid-flight; the run is over.
			return err
		}

		select {
		case completions <- res:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// observe runs a task and records its outcome
func (d *Driver) observe(ctx context.Context, task Task, logger *zap.SugaredLogger) Result {
	m := d.cfg.Metrics
	start := time.Now()

	m.inFlight.Inc()
	res, outcome := d.annotate(ctx, task, logger)
	m.inFlight.Dec()

	if ctx.Err() != nil {
		outcome = outcomeInterrupted
	}
	m.tasks.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return res
}

// annotate runs one task on its own connection. The connection is closed on
// every path.
func (d *Driver) annotate(ctx context.Context, task Task, logger *zap.SugaredLogger) (Result, string) {
	conn, err := d.connector.Connect(ctx)
	if err != nil {
		return Result{Task: task, Err: err}, outcomeConnect
	}
	defer func() {
		if cerr := conn.Close(ctx); cerr != nil {
			logger.Debugw("failed to close connection", "task", task.Index, "error", cerr)
		}
	}()

	plan, err := conn.ExplainAnalyze(ctx, task.Row.SQL)
	if err != nil {
		return Result{Task: task, Err: fmt.Errorf("failed to execute query: %w", err)}, outcomeQuery
	}

	estimated, actual, err := db.ParsePlan(plan)
	if err != nil {
		return Result{Task: task, Err: fmt.Errorf("failed to parse plan: %w", err)}, outcomePlanFormat
	}

	return Result{
		Task: task,
		Record: &Record{
			Features:  task.Row.Features,
			Estimated: estimated,
			Actual:    actual,
		},
	}, outcomeSuccess
}
