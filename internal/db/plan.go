package db

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// ErrPlanFormat is returned when plan text carries no row estimates
var ErrPlanFormat = errors.New("unrecognized plan format")

// planRows matches the first plan line reporting both the optimizer's
// estimate and the measured row count, as printed by both PostgreSQL and
// MySQL: "(cost=... rows=<estimated> ...) (actual ... rows=<actual> ...)".
// MySQL prints large or averaged counts as "1e+6" or "0.5".
var planRows = regexp.MustCompile(`cost=[^\n]*? rows=(\d+(?:\.\d+)?(?:e[+-]?\d+)?)[^\n]*? rows=(\d+(?:\.\d+)?(?:e[+-]?\d+)?)`)

// ParsePlan extracts the estimated and actual row counts of the top plan node
func ParsePlan(plan string) (estimated, actual int64, err error) {
	m := planRows.FindStringSubmatch(plan)
	if m == nil {
		return 0, 0, ErrPlanFormat
	}

	estimated, err = parseRowCount(m[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: estimated rows: %v", ErrPlanFormat, err)
	}
	actual, err = parseRowCount(m[2])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: actual rows: %v", ErrPlanFormat, err)
	}
	return estimated, actual, nil
}

func parseRowCount(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f > math.MaxInt64 {
		return 0, fmt.Errorf("row count %s out of range", s)
	}
	return int64(math.Round(f)), nil
}
