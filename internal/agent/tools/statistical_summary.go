package tools

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"datachat/internal/agent"
	"datachat/internal/dataset"
)

const StatisticalSummaryName = "statistical_summary"

// StatisticalSummaryTool computes descriptive statistics and pairwise
// correlations for the numeric columns of the dataset. Pure read.
type StatisticalSummaryTool struct {
	tbl *dataset.Table
}

// NewStatisticalSummaryTool creates a statistical summary tool bound to a table.
func NewStatisticalSummaryTool(tbl *dataset.Table) agent.Tool {
	return &StatisticalSummaryTool{tbl: tbl}
}

func (t *StatisticalSummaryTool) Name() string {
	return StatisticalSummaryName
}

func (t *StatisticalSummaryTool) Description() string {
	return "Get descriptive statistics (count, mean, std, min, quartiles, max, skewness, kurtosis) and pairwise correlations for numeric columns. Optionally restrict to a subset of columns."
}

func (t *StatisticalSummaryTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"columns": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Column names to summarize. Omit to summarize every numeric column.",
			},
		},
	}
}

func (t *StatisticalSummaryTool) Execute(_ context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	requested, err := stringSlice(params, "columns")
	if err != nil {
		return errResult(err.Error()), nil
	}

	names := t.tbl.NumericColumns()
	if len(requested) > 0 {
		names = nil
		for _, name := range requested {
			col, ok := t.tbl.Column(name)
			if !ok {
				return errResult(fmt.Sprintf("column %q does not exist", name)), nil
			}
			if col.Kind == dataset.KindNumber {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return errResult("no numeric columns found"), nil
	}

	describe := make(map[string]interface{}, len(names))
	skewness := make(map[string]interface{}, len(names))
	kurtosis := make(map[string]interface{}, len(names))
	for _, name := range names {
		values, _ := t.tbl.Numeric(name)
		describe[name] = describeColumn(values)
		if len(values) > 2 {
			if v, ok := finite(stat.Skew(values, nil)); ok {
				skewness[name] = v
			}
			if v, ok := finite(stat.ExKurtosis(values, nil)); ok {
				kurtosis[name] = v
			}
		}
	}

	result := map[string]interface{}{
		"describe": describe,
		"skewness": skewness,
		"kurtosis": kurtosis,
	}
	if len(names) >= 2 {
		result["correlations"] = correlations(t.tbl, names)
	}
	return result, nil
}

// describeColumn mirrors the count/mean/std/min/quartiles/max block of a
// pandas describe() for one numeric column.
func describeColumn(values []float64) map[string]interface{} {
	out := map[string]interface{}{"count": len(values)}
	if len(values) == 0 {
		return out
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	out["mean"] = round4(stat.Mean(values, nil))
	if len(values) > 1 {
		out["std"] = round4(stat.StdDev(values, nil))
	} else {
		out["std"] = 0.0
	}
	out["min"] = floats.Min(sorted)
	out["25%"] = round4(stat.Quantile(0.25, stat.Empirical, sorted, nil))
	out["50%"] = round4(stat.Quantile(0.5, stat.Empirical, sorted, nil))
	out["75%"] = round4(stat.Quantile(0.75, stat.Empirical, sorted, nil))
	out["max"] = floats.Max(sorted)
	return out
}

// correlations builds the pairwise Pearson matrix over rows where both
// columns hold valid values.
func correlations(tbl *dataset.Table, names []string) map[string]interface{} {
	matrix := make(map[string]interface{}, len(names))
	for _, a := range names {
		row := make(map[string]interface{}, len(names))
		for _, b := range names {
			if a == b {
				row[b] = 1.0
				continue
			}
			// NaN (constant or disjoint columns) is not representable in
			// JSON; report null instead.
			if v, ok := finite(alignedCorrelation(tbl, a, b)); ok {
				row[b] = v
			} else {
				row[b] = nil
			}
		}
		matrix[a] = row
	}
	return matrix
}

func alignedCorrelation(tbl *dataset.Table, a, b string) float64 {
	colA, _ := tbl.Column(a)
	colB, _ := tbl.Column(b)
	var xs, ys []float64
	for i := range colA.Floats {
		if colA.Valid[i] && colB.Valid[i] {
			xs = append(xs, colA.Floats[i])
			ys = append(ys, colB.Floats[i])
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// finite rounds v to four decimals, rejecting NaN and infinities.
func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return round4(v), true
}
