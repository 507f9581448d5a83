package querygen

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tordrt/cardgen/internal/schema"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func chainGraph(t *testing.T) *schema.Graph {
	t.Helper()
	g, err := schema.NewGraph([]schema.Table{
		{Name: "orders", Relations: []schema.Relation{
			{TargetTable: "customer", SourceColumn: "o_custkey", TargetColumn: "c_custkey"},
		}},
		{Name: "customer", Relations: []schema.Relation{
			{TargetTable: "nation", SourceColumn: "c_nationkey", TargetColumn: "n_nationkey"},
		}},
		{Name: "nation"},
	})
	require.NoError(t, err)
	return g
}

func TestGenerateChain(t *testing.T) {
	gen := NewGenerator(chainGraph(t), newRand(1))

	tests := []struct {
		name      string
		start     string
		depth     int
		wantChain []string
		wantSQL   string
	}{
		{
			name:      "full walk",
			start:     "orders",
			depth:     3,
			wantChain: []string{"orders", "customer", "nation"},
			wantSQL:   "SELECT * FROM orders JOIN customer ON o_custkey = c_custkey JOIN nation ON c_nationkey = n_nationkey",
		},
		{
			name:      "single relation",
			start:     "orders",
			depth:     1,
			wantChain: []string{"orders"},
			wantSQL:   "SELECT * FROM orders",
		},
		{
			name:      "walk stops at relation without foreign keys",
			start:     "customer",
			depth:     5,
			wantChain: []string{"customer", "nation"},
			wantSQL:   "SELECT * FROM customer JOIN nation ON c_nationkey = n_nationkey",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := gen.Generate(tt.start, tt.depth)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChain, q.Chain)
			assert.Equal(t, tt.wantSQL, q.SQL)
			assert.Equal(t, len(tt.wantChain), q.Features.SetBits())
			assert.Empty(t, q.Predicates)
		})
	}
}

func TestGenerateErrors(t *testing.T) {
	gen := NewGenerator(chainGraph(t), newRand(1))

	_, err := gen.Generate("orders", 0)
	assert.Error(t, err)

	_, err = gen.Generate("lineitem", 2)
	assert.Error(t, err)
}

func TestGenerateProperties(t *testing.T) {
	g := schema.TPCH()
	gen := NewGenerator(g, newRand(42))
	rng := newRand(7)

	for i := 0; i < 2000; i++ {
		start := g.Relations()[rng.IntN(len(g.Relations()))]
		depth := rng.IntN(8) + 1

		q, err := gen.Generate(start, depth)
		require.NoError(t, err)

		require.NotEmpty(t, q.Chain)
		assert.Equal(t, start, q.Chain[0])
		assert.LessOrEqual(t, len(q.Chain), depth)
		if len(q.Chain) < depth {
			assert.Empty(t, g.Edges(q.Chain[len(q.Chain)-1]), "walk stopped early at %s", q.Chain[len(q.Chain)-1])
		}
		assert.Len(t, q.Joins, len(q.Chain)-1)
		assert.Equal(t, len(q.Chain), q.Features.SetBits())
		assert.Equal(t, len(q.Chain)-1, strings.Count(q.SQL, " JOIN "))
		assert.True(t, strings.HasPrefix(q.SQL, "SELECT * FROM "+start))

		for _, p := range q.Predicates {
			assert.GreaterOrEqual(t, p.Value, p.Column.Low)
			assert.LessOrEqual(t, p.Value, p.Column.High)
			assert.GreaterOrEqual(t, p.Selectivity, 0.0)
			assert.LessOrEqual(t, p.Selectivity, 1.0)
			assert.Contains(t, q.SQL, p.Clause())
			assert.Equal(t, p.Selectivity, q.Features.Predicates[g.ColumnIndex(p.Column.Column)])
		}

		withPredicates := 0
		for _, rel := range q.Chain {
			if len(g.Predicates(rel)) > 0 {
				withPredicates++
			}
		}
		assert.Len(t, q.Predicates, withPredicates)
		assert.Equal(t, withPredicates > 0, strings.Contains(q.SQL, " WHERE "))
	}
}

func TestSelectivityComplement(t *testing.T) {
	col := schema.PredicateColumn{Column: "x", Low: 0, High: 100}

	tests := []struct {
		name  string
		col   schema.PredicateColumn
		value float64
		want  float64
	}{
		{name: "quarter of range", col: col, value: 25, want: 0.75},
		{name: "low bound", col: col, value: 0, want: 1},
		{name: "high bound", col: col, value: 100, want: 0},
		{name: "rounded to four places", col: col, value: 33.333333, want: 0.6667},
		{name: "negative range", col: schema.PredicateColumn{Column: "y", Low: -917.75, High: 9561.95}, value: -917.75, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectivityComplement(tt.col, tt.value))
		})
	}
}

func TestFeatureFields(t *testing.T) {
	fv := FeatureVector{
		Relations:  []int{1, 0, 1},
		Predicates: []float64{0.75, 0, 1},
	}
	assert.Equal(t, []string{"1", "0", "1", "0.75", "0", "1"}, fv.Fields())
	assert.Equal(t, 2, fv.SetBits())
}

func TestBuilderDeduplicates(t *testing.T) {
	b, err := NewBuilder(schema.TPCH(), newRand(3), BuilderConfig{Target: 500, MaxDepth: 8}, zap.NewNop().Sugar())
	require.NoError(t, err)

	seen := make(map[string]bool)
	res, err := b.Build(context.Background(), func(q *Query) error {
		assert.False(t, seen[q.SQL], "duplicate query %s", q.SQL)
		seen[q.SQL] = true
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 500, res.Admitted)
	assert.Equal(t, 0, res.Shortfall)
	assert.Len(t, seen, 500)
	assert.Equal(t, res.Admitted+res.Duplicates, res.Attempts)
}

func TestBuilderReproducible(t *testing.T) {
	collect := func() []string {
		b, err := NewBuilder(schema.TPCH(), newRand(11), BuilderConfig{Target: 50, MaxDepth: 4}, nil)
		require.NoError(t, err)
		var out []string
		_, err = b.Build(context.Background(), func(q *Query) error {
			out = append(out, q.SQL)
			return nil
		})
		require.NoError(t, err)
		return out
	}
	assert.Equal(t, collect(), collect())
}

func TestBuilderShortfall(t *testing.T) {
	g := schema.MustGraph([]schema.Table{{Name: "solo"}})
	b, err := NewBuilder(g, newRand(5), BuilderConfig{Target: 5, MaxDepth: 3, MaxAttempts: 10}, zap.NewNop().Sugar())
	require.NoError(t, err)

	var got []string
	res, err := b.Build(context.Background(), func(q *Query) error {
		got = append(got, q.SQL)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT * FROM solo"}, got)
	assert.Equal(t, 1, res.Admitted)
	assert.Equal(t, 10, res.Attempts)
	assert.Equal(t, 9, res.Duplicates)
	assert.Equal(t, 4, res.Shortfall)
}

func TestBuilderStopsOnEmitError(t *testing.T) {
	b, err := NewBuilder(schema.TPCH(), newRand(5), BuilderConfig{Target: 10, MaxDepth: 3}, nil)
	require.NoError(t, err)

	boom := errors.New("disk full")
	res, err := b.Build(context.Background(), func(*Query) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, res.Admitted)
}

func TestBuilderCancelled(t *testing.T) {
	b, err := NewBuilder(schema.TPCH(), newRand(5), BuilderConfig{Target: 10, MaxDepth: 3}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := b.Build(ctx, func(*Query) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 10, res.Shortfall)
}

func TestNewBuilderValidation(t *testing.T) {
	_, err := NewBuilder(schema.TPCH(), newRand(1), BuilderConfig{Target: 10, MaxDepth: 0}, nil)
	assert.Error(t, err)

	_, err = NewBuilder(schema.TPCH(), newRand(1), BuilderConfig{Target: -1, MaxDepth: 2}, nil)
	assert.Error(t, err)
}
