package chart

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/plotter"

	"datachat/internal/dataset"
)

const (
	maxBarGroups = 30
	maxPieGroups = 12
)

func columnOf(tbl *dataset.Table, name string) (*dataset.Column, error) {
	col, ok := tbl.Column(name)
	if !ok {
		return nil, fmt.Errorf("column %q does not exist", name)
	}
	return col, nil
}

func numberColumnOf(tbl *dataset.Table, name string) (*dataset.Column, error) {
	col, err := columnOf(tbl, name)
	if err != nil {
		return nil, err
	}
	if col.Kind != dataset.KindNumber {
		return nil, fmt.Errorf("column %q is not numeric", name)
	}
	return col, nil
}

// groupSeries groups rows by the raw value of x and reduces y down to one
// value per group. With no y column the group row counts are used. Groups
// keep first-appearance order; when there are more than maxGroups the
// largest by magnitude are kept.
func groupSeries(tbl *dataset.Table, x, y, agg string, maxGroups int) ([]string, []float64, error) {
	xc, err := columnOf(tbl, x)
	if err != nil {
		return nil, nil, err
	}
	var yc *dataset.Column
	if y != "" {
		if yc, err = numberColumnOf(tbl, y); err != nil {
			return nil, nil, err
		}
	}

	var order []string
	grouped := make(map[string][]float64)
	counts := make(map[string]int)
	for i := 0; i < tbl.Rows(); i++ {
		label := strings.TrimSpace(xc.Raw[i])
		if dataset.IsMissing(label) {
			continue
		}
		if yc != nil && !yc.Valid[i] {
			continue
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
		if yc != nil {
			grouped[label] = append(grouped[label], yc.Floats[i])
		}
	}
	if len(order) == 0 {
		return nil, nil, fmt.Errorf("column %q has no usable values", x)
	}

	values := make([]float64, len(order))
	for i, label := range order {
		if yc == nil {
			values[i] = float64(counts[label])
			continue
		}
		values[i] = aggregateValues(grouped[label], agg)
	}
	return capGroups(order, values, maxGroups)
}

func aggregateValues(vals []float64, agg string) float64 {
	switch agg {
	case AggCount:
		return float64(len(vals))
	case AggSum:
		var total float64
		for _, v := range vals {
			total += v
		}
		return total
	case AggMin:
		best := vals[0]
		for _, v := range vals[1:] {
			if v < best {
				best = v
			}
		}
		return best
	case AggMax:
		best := vals[0]
		for _, v := range vals[1:] {
			if v > best {
				best = v
			}
		}
		return best
	case AggMedian:
		sorted := make([]float64, len(vals))
		copy(sorted, vals)
		sort.Float64s(sorted)
		return stat.Quantile(0.5, stat.Empirical, sorted, nil)
	default: // mean
		return stat.Mean(vals, nil)
	}
}

// capGroups keeps the maxGroups largest values by magnitude, preserving the
// original label order among the survivors.
func capGroups(labels []string, values []float64, maxGroups int) ([]string, []float64, error) {
	if len(labels) <= maxGroups {
		return labels, values, nil
	}
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return math.Abs(values[idx[a]]) > math.Abs(values[idx[b]])
	})
	keep := make(map[int]bool, maxGroups)
	for _, i := range idx[:maxGroups] {
		keep[i] = true
	}
	outLabels := make([]string, 0, maxGroups)
	outValues := make([]float64, 0, maxGroups)
	for i := range labels {
		if keep[i] {
			outLabels = append(outLabels, labels[i])
			outValues = append(outValues, values[i])
		}
	}
	return outLabels, outValues, nil
}

// numericPairs aligns two number columns on rows where both are valid.
func numericPairs(tbl *dataset.Table, x, y string) (plotter.XYs, error) {
	xc, err := numberColumnOf(tbl, x)
	if err != nil {
		return nil, err
	}
	yc, err := numberColumnOf(tbl, y)
	if err != nil {
		return nil, err
	}
	var xys plotter.XYs
	for i := 0; i < tbl.Rows(); i++ {
		if !xc.Valid[i] || !yc.Valid[i] {
			continue
		}
		xys = append(xys, plotter.XY{X: xc.Floats[i], Y: yc.Floats[i]})
	}
	if len(xys) == 0 {
		return nil, fmt.Errorf("columns %q and %q have no overlapping values", x, y)
	}
	return xys, nil
}

// datePairs aligns a date column (as unix seconds) with a number column.
func datePairs(tbl *dataset.Table, x, y string) (plotter.XYs, error) {
	xc, err := columnOf(tbl, x)
	if err != nil {
		return nil, err
	}
	if xc.Kind != dataset.KindDate || xc.DateLayout == "" {
		return nil, fmt.Errorf("column %q is not a date column", x)
	}
	yc, err := numberColumnOf(tbl, y)
	if err != nil {
		return nil, err
	}
	var xys plotter.XYs
	for i := 0; i < tbl.Rows(); i++ {
		raw := strings.TrimSpace(xc.Raw[i])
		if dataset.IsMissing(raw) || !yc.Valid[i] {
			continue
		}
		ts, err := time.Parse(xc.DateLayout, raw)
		if err != nil {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(ts.Unix()), Y: yc.Floats[i]})
	}
	if len(xys) == 0 {
		return nil, fmt.Errorf("columns %q and %q have no overlapping values", x, y)
	}
	return xys, nil
}

// correlationMatrix computes pairwise correlations between all number
// columns, aligning each pair on rows valid in both.
func correlationMatrix(tbl *dataset.Table) ([]string, [][]float64, error) {
	names := tbl.NumericColumns()
	if len(names) < 2 {
		return nil, nil, fmt.Errorf("correlation heatmap requires at least 2 numeric columns, dataset has %d", len(names))
	}
	cols := make([]*dataset.Column, len(names))
	for i, name := range names {
		col, _ := tbl.Column(name)
		cols[i] = col
	}
	z := make([][]float64, len(names))
	for i := range z {
		z[i] = make([]float64, len(names))
		z[i][i] = 1
		for j := 0; j < i; j++ {
			c := pairCorrelation(cols[i], cols[j])
			z[i][j] = c
			z[j][i] = c
		}
	}
	return names, z, nil
}

func pairCorrelation(a, b *dataset.Column) float64 {
	var xs, ys []float64
	for i := range a.Valid {
		if a.Valid[i] && b.Valid[i] {
			xs = append(xs, a.Floats[i])
			ys = append(ys, b.Floats[i])
		}
	}
	if len(xs) < 2 {
		return 0
	}
	c := stat.Correlation(xs, ys, nil)
	if math.IsNaN(c) {
		return 0
	}
	return c
}
