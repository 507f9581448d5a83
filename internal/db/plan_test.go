package db

import (
	"errors"
	"testing"
)

func TestParsePlan(t *testing.T) {
	tests := []struct {
		name          string
		plan          string
		wantEstimated int64
		wantActual    int64
		wantErr       bool
	}{
		{
			name:          "minimal plan",
			plan:          "... cost=1.2 rows=500 ... rows=480 ...",
			wantEstimated: 500,
			wantActual:    480,
		},
		{
			name:          "mysql tree",
			plan:          "-> Nested loop inner join  (cost=2.95 rows=3) (actual time=0.052..0.073 rows=5 loops=1)\n    -> Table scan on orders  (cost=0.55 rows=3) (actual time=0.024..0.031 rows=3 loops=1)\n",
			wantEstimated: 3,
			wantActual:    5,
		},
		{
			name:          "postgres node",
			plan:          "Hash Join  (cost=1.09..2.38 rows=25 width=220) (actual time=0.050..0.070 rows=24 loops=1)",
			wantEstimated: 25,
			wantActual:    24,
		},
		{
			name:          "mysql exponent estimate",
			plan:          "-> Filter: (l_quantity >= 10.00)  (cost=612345 rows=2e+6) (actual time=0.1..900 rows=4800123 loops=1)",
			wantEstimated: 2000000,
			wantActual:    4800123,
		},
		{
			name:          "mysql fractional rows",
			plan:          "-> Index lookup on c using PRIMARY  (cost=0.25 rows=0.5) (actual time=0.002..0.002 rows=1 loops=3)",
			wantEstimated: 1,
			wantActual:    1,
		},
		{
			name:          "first matching line wins",
			plan:          "-> Limit (cost=10 rows=7) (actual rows=6)\n-> Scan (cost=1 rows=100) (actual rows=99)",
			wantEstimated: 7,
			wantActual:    6,
		},
		{
			name:    "estimate without actual on the same line",
			plan:    "Seq Scan on t  (cost=0.00..35.50 rows=2550 width=4)\nPlanning Time: rows=3",
			wantErr: true,
		},
		{
			name:    "no cost marker",
			plan:    "rows=1 rows=2",
			wantErr: true,
		},
		{
			name:    "empty plan",
			plan:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, act, err := ParsePlan(tt.plan)
			if tt.wantErr {
				if !errors.Is(err, ErrPlanFormat) {
					t.Errorf("ParsePlan() error = %v, want ErrPlanFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePlan() unexpected error: %v", err)
			}
			if est != tt.wantEstimated {
				t.Errorf("ParsePlan() estimated = %d, want %d", est, tt.wantEstimated)
			}
			if act != tt.wantActual {
				t.Errorf("ParsePlan() actual = %d, want %d", act, tt.wantActual)
			}
		})
	}
}
