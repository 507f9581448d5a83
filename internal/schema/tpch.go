package schema

// TPCH returns the built-in TPC-H join graph.
//
// Edges follow the benchmark's foreign keys in the direction queries are
// generated (fact to dimension). Primary key columns are not predicate
// candidates; the ranges are the value bounds of a scale factor 1 dataset.
func TPCH() *Graph {
	return MustGraph(tpchTables())
}

func tpchTables() []Table {
	return []Table{
		{
			Name: "customer",
			Relations: []Relation{
				{TargetTable: "nation", SourceColumn: "c_nationkey", TargetColumn: "n_nationkey"},
			},
			Predicates: []PredicateColumn{
				{Column: "c_acctbal", Low: -917.75, High: 9561.95},
			},
		},
		{
			Name: "lineitem",
			Relations: []Relation{
				{TargetTable: "orders", SourceColumn: "l_orderkey", TargetColumn: "o_orderkey"},
				{TargetTable: "partsupp", SourceColumn: "l_partkey", TargetColumn: "ps_partkey"},
			},
			Predicates: []PredicateColumn{
				{Column: "l_quantity", Low: 1.00, High: 50.00},
				{Column: "l_extendedprice", Low: 951.02, High: 101646.50},
				{Column: "l_discount", Low: 0.00, High: 0.10},
				{Column: "l_tax", Low: 0.00, High: 0.08},
			},
		},
		{
			Name: "nation",
			Relations: []Relation{
				{TargetTable: "region", SourceColumn: "n_regionkey", TargetColumn: "r_regionkey"},
			},
		},
		{
			Name: "orders",
			Relations: []Relation{
				{TargetTable: "customer", SourceColumn: "o_custkey", TargetColumn: "c_custkey"},
			},
			Predicates: []PredicateColumn{
				{Column: "o_custkey", Low: 1, High: 149999},
				{Column: "o_totalprice", Low: 882.72, High: 490359.88},
			},
		},
		{
			Name: "part",
			Predicates: []PredicateColumn{
				{Column: "p_retailprice", Low: 901.00, High: 2098.99},
			},
		},
		{
			Name: "partsupp",
			Relations: []Relation{
				{TargetTable: "part", SourceColumn: "ps_partkey", TargetColumn: "p_partkey"},
				{TargetTable: "supplier", SourceColumn: "ps_suppkey", TargetColumn: "s_suppkey"},
			},
			Predicates: []PredicateColumn{
				{Column: "ps_availqty", Low: 1, High: 9999},
				{Column: "ps_supplycost", Low: 1.00, High: 1000.00},
			},
		},
		{
			Name: "region",
		},
		{
			Name: "supplier",
			Relations: []Relation{
				{TargetTable: "nation", SourceColumn: "s_nationkey", TargetColumn: "n_nationkey"},
			},
			Predicates: []PredicateColumn{
				{Column: "s_acctbal", Low: -966.20, High: 9915.24},
			},
		},
	}
}
