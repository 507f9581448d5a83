package querygen

import (
	"math"
	"strconv"

	"github.com/tordrt/cardgen/internal/schema"
)

// FeatureVector is the numeric encoding of a generated query.
//
// Relations holds one flag per relation of the graph and Predicates one
// selectivity complement per predicate column, both in the graph's
// lexicographic order.
type FeatureVector struct {
	Relations  []int
	Predicates []float64
}

// Encode builds the feature vector of a join chain and its predicates
func Encode(g *schema.Graph, chain []string, preds []Predicate) FeatureVector {
	fv := FeatureVector{
		Relations:  make([]int, len(g.Relations())),
		Predicates: make([]float64, len(g.PredicateColumns())),
	}
	for _, rel := range chain {
		if i := g.RelationIndex(rel); i >= 0 {
			fv.Relations[i] = 1
		}
	}
	for _, p := range preds {
		if i := g.ColumnIndex(p.Column.Column); i >= 0 {
			fv.Predicates[i] = p.Selectivity
		}
	}
	return fv
}

// Fields flattens the vector into record fields, relation flags first
func (fv FeatureVector) Fields() []string {
	fields := make([]string, 0, len(fv.Relations)+len(fv.Predicates))
	for _, flag := range fv.Relations {
		fields = append(fields, strconv.Itoa(flag))
	}
	for _, v := range fv.Predicates {
		fields = append(fields, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return fields
}

// SetBits counts the relations flagged as participating
func (fv FeatureVector) SetBits() int {
	n := 0
	for _, flag := range fv.Relations {
		n += flag
	}
	return n
}

// SelectivityComplement is the fraction of the column's range at or above
// value, rounded to four decimal places.
func SelectivityComplement(p schema.PredicateColumn, value float64) float64 {
	frac := 1 - (value-p.Low)/p.Width()
	frac = math.Round(frac*1e4) / 1e4
	return math.Min(1, math.Max(0, frac))
}
