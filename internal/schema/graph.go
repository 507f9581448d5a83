// Package schema describes the foreign-key join graph queries are generated
// from: relations, the edges between them and the columns that may carry a
// range predicate.
//
// A Graph is immutable once built. The lexicographic orderings it exposes
// (Relations, PredicateColumns) define the layout of every feature vector
// encoded against it, so a corpus must be consumed with the same graph it was
// generated with.
package schema

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

var (
	// ErrEmptyGraph is returned when a graph has no tables.
	ErrEmptyGraph = errors.New("schema graph has no tables")
	// ErrCycle is returned when the foreign-key edges form a cycle.
	ErrCycle = errors.New("foreign key graph contains a cycle")
)

// Graph is a validated, read-only join graph
type Graph struct {
	tables      []Table
	tableIndex  map[string]int
	relations   []string
	columns     []string
	columnIndex map[string]int
}

// NewGraph validates the tables and builds a graph from them.
// The input slice is copied; later changes to it do not affect the graph.
func NewGraph(tables []Table) (*Graph, error) {
	g := &Graph{
		tables:      make([]Table, len(tables)),
		tableIndex:  make(map[string]int, len(tables)),
		columnIndex: make(map[string]int),
	}

	for i, t := range tables {
		g.tables[i] = t.clone()
	}
	sort.Slice(g.tables, func(i, j int) bool {
		return g.tables[i].Name < g.tables[j].Name
	})

	if err := g.validate(); err != nil {
		return nil, err
	}

	for i, t := range g.tables {
		g.tableIndex[t.Name] = i
		g.relations = append(g.relations, t.Name)
		for _, p := range t.Predicates {
			g.columns = append(g.columns, p.Column)
		}
	}
	sort.Strings(g.columns)
	for i, c := range g.columns {
		g.columnIndex[c] = i
	}

	return g, nil
}

// MustGraph is like NewGraph but panics on an invalid graph.
// It is meant for graphs compiled into the binary.
func MustGraph(tables []Table) *Graph {
	g, err := NewGraph(tables)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Graph) validate() error {
	if len(g.tables) == 0 {
		return ErrEmptyGraph
	}

	names := make(map[string]bool, len(g.tables))
	for _, t := range g.tables {
		if t.Name == "" {
			return fmt.Errorf("table with empty name")
		}
		if names[t.Name] {
			return fmt.Errorf("duplicate table %s", t.Name)
		}
		names[t.Name] = true
	}

	seenColumns := make(map[string]string)
	for _, t := range g.tables {
		for _, rel := range t.Relations {
			if !names[rel.TargetTable] {
				return fmt.Errorf("table %s references unknown table %s", t.Name, rel.TargetTable)
			}
			if rel.SourceColumn == "" || rel.TargetColumn == "" {
				return fmt.Errorf("relation %s -> %s is missing a join column", t.Name, rel.TargetTable)
			}
		}
		for _, p := range t.Predicates {
			if p.Column == "" {
				return fmt.Errorf("table %s has a predicate with empty column name", t.Name)
			}
			if owner, ok := seenColumns[p.Column]; ok {
				return fmt.Errorf("predicate column %s declared on both %s and %s", p.Column, owner, t.Name)
			}
			seenColumns[p.Column] = t.Name
			if !(p.High > p.Low) {
				return fmt.Errorf("predicate column %s.%s has empty range [%g, %g]", t.Name, p.Column, p.Low, p.High)
			}
		}
	}

	return g.checkAcyclic()
}

// checkAcyclic runs a depth-first search over the edges and fails on the
// first back edge, self references included.
func (g *Graph) checkAcyclic() error {
	const (
		unvisited = iota
		visiting
		done
	)

	edges := make(map[string][]string, len(g.tables))
	for _, t := range g.tables {
		for _, rel := range t.Relations {
			edges[t.Name] = append(edges[t.Name], rel.TargetTable)
		}
	}

	state := make(map[string]int, len(g.tables))
	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case visiting:
			return fmt.Errorf("%w: %v", ErrCycle, append(path, name))
		case done:
			return nil
		}
		state[name] = visiting
		for _, next := range edges[name] {
			if err := visit(next, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for _, t := range g.tables {
		if err := visit(t.Name, nil); err != nil {
			return err
		}
	}
	return nil
}

// Tables returns a copy of the tables sorted by name
func (g *Graph) Tables() []Table {
	tables := make([]Table, len(g.tables))
	for i, t := range g.tables {
		tables[i] = t.clone()
	}
	return tables
}

// Table looks up a copy of a table by name
func (g *Graph) Table(name string) (Table, bool) {
	i, ok := g.tableIndex[name]
	if !ok {
		return Table{}, false
	}
	return g.tables[i].clone(), true
}

// Relations returns all relation names in lexicographic order. The result is
// a copy; reordering it does not change the feature layout.
func (g *Graph) Relations() []string {
	return slices.Clone(g.relations)
}

// PredicateColumns returns all predicate column names in lexicographic order.
// The result is a copy.
func (g *Graph) PredicateColumns() []string {
	return slices.Clone(g.columns)
}

// RelationIndex returns the position of a relation in Relations, or -1
func (g *Graph) RelationIndex(name string) int {
	if i, ok := g.tableIndex[name]; ok {
		return i
	}
	return -1
}

// ColumnIndex returns the position of a column in PredicateColumns, or -1
func (g *Graph) ColumnIndex(column string) int {
	if i, ok := g.columnIndex[column]; ok {
		return i
	}
	return -1
}

// Edges returns the outgoing foreign key edges of a relation
func (g *Graph) Edges(name string) []Relation {
	i, ok := g.tableIndex[name]
	if !ok {
		return nil
	}
	return slices.Clone(g.tables[i].Relations)
}

// Predicates returns the predicate columns of a relation
func (g *Graph) Predicates(name string) []PredicateColumn {
	i, ok := g.tableIndex[name]
	if !ok {
		return nil
	}
	return slices.Clone(g.tables[i].Predicates)
}

// FeatureWidth is the number of fields in an encoded feature vector
func (g *Graph) FeatureWidth() int {
	return len(g.relations) + len(g.columns)
}
