package querygen

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/tordrt/cardgen/internal/schema"
)

// BuilderConfig controls corpus generation
type BuilderConfig struct {
	// Target is the number of distinct queries to collect.
	Target int
	// MaxDepth bounds the join chain length drawn for each attempt.
	MaxDepth int
	// MaxAttempts caps generation attempts. Zero means twice Target.
	MaxAttempts int
}

// Result summarizes a corpus generation run
type Result struct {
	Admitted   int
	Attempts   int
	Duplicates int
	Shortfall  int
}

// Builder drives the generator until a corpus of distinct queries is collected
type Builder struct {
	graph  *schema.Graph
	gen    *Generator
	rng    *rand.Rand
	cfg    BuilderConfig
	logger *zap.SugaredLogger
}

// NewBuilder creates a corpus builder. The generator shares rng, so a fixed
// seed reproduces the same corpus.
func NewBuilder(g *schema.Graph, rng *rand.Rand, cfg BuilderConfig, logger *zap.SugaredLogger) (*Builder, error) {
	if cfg.Target < 0 {
		return nil, fmt.Errorf("target corpus size must not be negative, got %d", cfg.Target)
	}
	if cfg.MaxDepth < 1 {
		return nil, fmt.Errorf("max join depth must be at least 1, got %d", cfg.MaxDepth)
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 2 * cfg.Target
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Builder{
		graph:  g,
		gen:    NewGenerator(g, rng),
		rng:    rng,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Build generates queries and hands every newly seen one to emit, in
// admission order. It stops after Target admissions, after MaxAttempts
// attempts, or when ctx is done; running out of attempts is reported as a
// shortfall rather than an error.
func (b *Builder) Build(ctx context.Context, emit func(*Query) error) (*Result, error) {
	res := &Result{}
	seen := make(map[string]struct{}, b.cfg.Target)
	relations := b.graph.Relations()

	for res.Admitted < b.cfg.Target && res.Attempts < b.cfg.MaxAttempts {
		if err := ctx.Err(); err != nil {
			res.Shortfall = b.cfg.Target - res.Admitted
			return res, err
		}
		res.Attempts++

		start := relations[b.rng.IntN(len(relations))]
		depth := b.rng.IntN(b.cfg.MaxDepth) + 1
		q, err := b.gen.Generate(start, depth)
		if err != nil {
			return res, fmt.Errorf("failed to generate query: %w", err)
		}

		if _, dup := seen[q.SQL]; dup {
			res.Duplicates++
			continue
		}
		seen[q.SQL] = struct{}{}

		if err := emit(q); err != nil {
			return res, fmt.Errorf("failed to persist query: %w", err)
		}
		res.Admitted++
	}

	res.Shortfall = b.cfg.Target - res.Admitted
	if res.Shortfall > 0 {
		b.logger.Warnw("attempt budget exhausted before reaching target",
			"target", b.cfg.Target,
			"admitted", res.Admitted,
			"attempts", res.Attempts,
			"shortfall", res.Shortfall)
	}
	return res, nil
}
