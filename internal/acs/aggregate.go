package acs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/NREL/bamcensus/internal/geoid"
)

// Aggregation selects how values collapse when rows roll up to a coarser
// geography.
type Aggregation int

const (
	// Sum adds the values of the contributing rows.
	Sum Aggregation = iota
	// Mean averages the values of the contributing rows. An empty group
	// averages to zero.
	Mean
)

func (a Aggregation) String() string {
	switch a {
	case Sum:
		return "sum"
	case Mean:
		return "mean"
	default:
		return fmt.Sprintf("aggregation(%d)", int(a))
	}
}

// ParseAggregation reads an aggregation name from config or the CLI.
func ParseAggregation(s string) (Aggregation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sum":
		return Sum, nil
	case "mean", "avg", "average":
		return Mean, nil
	default:
		return 0, eris.Errorf("acs: unknown aggregation %q, want sum or mean", s)
	}
}

// apply folds a group of values into one.
func (a Aggregation) apply(vals []float64) float64 {
	switch a {
	case Mean:
		if len(vals) == 0 {
			return 0
		}
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return sum / float64(len(vals))
	default:
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return sum
	}
}

// NonNumericAggregationError reports an aggregation requested over a column
// whose values do not coerce to numbers.
type NonNumericAggregationError struct {
	Column string
	cause  error
}

func (e *NonNumericAggregationError) Error() string {
	return fmt.Sprintf("acs: cannot aggregate non-numeric column %s: %v", e.Column, e.cause)
}

func (e *NonNumericAggregationError) Unwrap() error { return e.cause }

// truncateErrorCap bounds how many distinct truncation failures a batch error
// reports before eliding the rest.
const truncateErrorCap = 5

// Aggregate rolls rows up to the target geography level and collapses each
// group's values with the given aggregation. Rows already at the target
// level pass through unchanged. Rows whose geoid cannot truncate to the
// target are reported together in a single error; a row with a non-numeric
// value fails the whole aggregation, naming the offending column.
func Aggregate(rows []Row, target geoid.GeoidType, agg Aggregation) ([]Row, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	if rows[0].Geoid.Type() == target {
		return rows, nil
	}

	type groupKey struct {
		g    geoid.Geoid
		name string
	}
	groups := make(map[groupKey][]float64)
	var geoids []geoid.Geoid
	seenGeoid := make(map[geoid.Geoid]bool)
	var names []string
	seenName := make(map[string]bool)
	var truncErrs []string
	seenErr := make(map[string]bool)
	failedRows := 0

	for _, row := range rows {
		g, err := geoid.Truncate(row.Geoid, target)
		if err != nil {
			failedRows++
			msg := err.Error()
			if !seenErr[msg] {
				seenErr[msg] = true
				if len(truncErrs) < truncateErrorCap {
					truncErrs = append(truncErrs, msg)
				}
			}
			continue
		}
		if !seenGeoid[g] {
			seenGeoid[g] = true
			geoids = append(geoids, g)
		}
		for _, v := range row.Values {
			f, err := v.Float64()
			if err != nil {
				return nil, &NonNumericAggregationError{Column: v.Name, cause: err}
			}
			if !seenName[v.Name] {
				seenName[v.Name] = true
				names = append(names, v.Name)
			}
			key := groupKey{g: g, name: v.Name}
			groups[key] = append(groups[key], f)
		}
	}

	if len(truncErrs) > 0 {
		elided := len(seenErr) - len(truncErrs)
		msg := strings.Join(truncErrs, "; ")
		if elided > 0 {
			msg = fmt.Sprintf("%s; and %d more", msg, elided)
		}
		return nil, eris.Errorf("acs: %d rows failed to truncate to %s: %s", failedRows, target, msg)
	}

	sort.Slice(geoids, func(i, j int) bool { return geoids[i].String() < geoids[j].String() })
	out := make([]Row, 0, len(geoids))
	for _, g := range geoids {
		values := make([]Value, 0, len(names))
		for _, name := range names {
			vals, ok := groups[groupKey{g: g, name: name}]
			if !ok {
				continue
			}
			values = append(values, Value{
				Name: name,
				Raw:  formatFloat(agg.apply(vals)),
			})
		}
		out = append(out, Row{Geoid: g, Values: values})
	}
	return out, nil
}

func formatFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", f), "0"), ".")
}
