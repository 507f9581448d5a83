// Package querygen synthesizes join queries with range predicates by random
// walks over a schema graph, and builds deduplicated corpora from them.
package querygen

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/tordrt/cardgen/internal/schema"
)

// Predicate is a range predicate bound on one relation of a query
type Predicate struct {
	Table       string
	Column      schema.PredicateColumn
	Value       float64
	Selectivity float64
}

// Clause renders the predicate as a SQL condition
func (p Predicate) Clause() string {
	return fmt.Sprintf("%s >= %0.2f", p.Column.Column, p.Value)
}

// Query is one generated query with its encoding
type Query struct {
	SQL        string
	Chain      []string
	Joins      []string
	Predicates []Predicate
	Features   FeatureVector
}

// Generator turns random walks over the graph into queries
type Generator struct {
	graph *schema.Graph
	rng   *rand.Rand
}

// NewGenerator creates a generator drawing from rng.
// A Generator is not safe for concurrent use.
func NewGenerator(g *schema.Graph, rng *rand.Rand) *Generator {
	return &Generator{graph: g, rng: rng}
}

// Generate builds a query whose join chain starts at start and holds at most
// nRels relations. The chain is shorter when the walk reaches a relation
// without outgoing foreign keys.
func (g *Generator) Generate(start string, nRels int) (*Query, error) {
	if nRels < 1 {
		return nil, fmt.Errorf("join depth must be at least 1, got %d", nRels)
	}
	if _, ok := g.graph.Table(start); !ok {
		return nil, fmt.Errorf("unknown relation %s", start)
	}

	chain, joins := g.walk(start, nRels)

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(chain[0])
	for i, cond := range joins {
		fmt.Fprintf(&sb, " JOIN %s ON %s", chain[i+1], cond)
	}

	preds := g.bindPredicates(chain)
	if len(preds) > 0 {
		where := make([]string, len(preds))
		for i, p := range preds {
			where[i] = p.Clause()
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	return &Query{
		SQL:        sb.String(),
		Chain:      chain,
		Joins:      joins,
		Predicates: preds,
		Features:   Encode(g.graph, chain, preds),
	}, nil
}

// walk follows uniformly chosen foreign key edges. Relations are not checked
// for repetition; the graph is validated acyclic when it is built.
func (g *Generator) walk(start string, nRels int) (chain, joins []string) {
	chain = []string{start}
	for len(chain) < nRels {
		edges := g.graph.Edges(chain[len(chain)-1])
		if len(edges) == 0 {
			break
		}
		fk := edges[g.rng.IntN(len(edges))]
		chain = append(chain, fk.TargetTable)
		joins = append(joins, fk.JoinCondition())
	}
	return chain, joins
}

func (g *Generator) bindPredicates(chain []string) []Predicate {
	var preds []Predicate
	for _, rel := range chain {
		cols := g.graph.Predicates(rel)
		if len(cols) == 0 {
			continue
		}
		col := cols[g.rng.IntN(len(cols))]
		value := col.Low + g.rng.Float64()*col.Width()
		preds = append(preds, Predicate{
			Table:       rel,
			Column:      col,
			Value:       value,
			Selectivity: SelectivityComplement(col, value),
		})
	}
	return preds
}
