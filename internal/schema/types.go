package schema

import "slices"

// Table represents a relation of the join graph
type Table struct {
	Name       string            `yaml:"name"`
	Relations  []Relation        `yaml:"relations,omitempty"`
	Predicates []PredicateColumn `yaml:"predicates,omitempty"`

	// Columns and PrimaryKey are only populated by the database extractors.
	Columns    []Column `yaml:"-"`
	PrimaryKey []string `yaml:"-"`
}

// Column represents a table column
type Column struct {
	Name     string
	Type     string
	Nullable bool
}

// Relation represents a foreign key edge to another table
type Relation struct {
	TargetTable  string `yaml:"table"`
	SourceColumn string `yaml:"source_column"`
	TargetColumn string `yaml:"target_column"`
}

// JoinCondition renders the edge as an equi-join condition
func (r Relation) JoinCondition() string {
	return r.SourceColumn + " = " + r.TargetColumn
}

// PredicateColumn is a column eligible for a range predicate.
// Low and High are inclusive bounds of the column's values.
type PredicateColumn struct {
	Column string  `yaml:"column"`
	Low    float64 `yaml:"low"`
	High   float64 `yaml:"high"`
}

// Width returns the size of the column's value range
func (p PredicateColumn) Width() float64 {
	return p.High - p.Low
}

// File is the on-disk layout of a schema graph
type File struct {
	Tables []Table `yaml:"tables"`
}

// clone copies the table along with its slices
func (t Table) clone() Table {
	t.PrimaryKey = slices.Clone(t.PrimaryKey)
	t.Columns = slices.Clone(t.Columns)
	t.Relations = slices.Clone(t.Relations)
	t.Predicates = slices.Clone(t.Predicates)
	return t
}
