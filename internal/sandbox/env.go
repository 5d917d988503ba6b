package sandbox

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"datachat/internal/dataset"
)

// Frame is the dataset wrapper exposed to expressions as df.
type Frame struct {
	t *dataset.Table
}

func (f *Frame) Rows() int         { return f.t.Rows() }
func (f *Frame) Cols() int         { return f.t.Cols() }
func (f *Frame) Columns() []string { return f.t.ColumnNames() }

// Kind returns the inferred kind of a column, or the empty string when the
// column does not exist.
func (f *Frame) Kind(name string) string {
	col, ok := f.t.Column(name)
	if !ok {
		return ""
	}
	return string(col.Kind)
}

// Col returns the numeric values of a column with missing cells dropped.
func (f *Frame) Col(name string) ([]float64, error) {
	values, ok := f.t.Numeric(name)
	if !ok {
		return nil, fmt.Errorf("column %q does not exist or is not numeric", name)
	}
	return values, nil
}

// Raw returns the raw string cells of a column.
func (f *Frame) Raw(name string) ([]string, error) {
	col, ok := f.t.Column(name)
	if !ok {
		return nil, fmt.Errorf("column %q does not exist", name)
	}
	out := make([]string, len(col.Raw))
	copy(out, col.Raw)
	return out, nil
}

// Head returns the first n rows as typed records.
func (f *Frame) Head(n int) []map[string]any {
	return f.t.Preview(n)
}

// buildEnv assembles the full expression environment: the df frame plus a
// small numeric library backed by gonum.
func buildEnv(tbl *dataset.Table) map[string]any {
	return map[string]any{
		"df": &Frame{t: tbl},
		"mean": func(v any) (float64, error) {
			xs, err := toFloats(v)
			if err != nil {
				return 0, err
			}
			return stat.Mean(xs, nil), nil
		},
		"median": func(v any) (float64, error) {
			xs, err := toFloats(v)
			if err != nil {
				return 0, err
			}
			return quantileOf(xs, 0.5)
		},
		"std": func(v any) (float64, error) {
			xs, err := toFloats(v)
			if err != nil {
				return 0, err
			}
			return stat.StdDev(xs, nil), nil
		},
		"variance": func(v any) (float64, error) {
			xs, err := toFloats(v)
			if err != nil {
				return 0, err
			}
			return stat.Variance(xs, nil), nil
		},
		"min": func(v any) (float64, error) {
			xs, err := toFloats(v)
			if err != nil {
				return 0, err
			}
			return extremum(xs, func(a, b float64) bool { return a < b })
		},
		"max": func(v any) (float64, error) {
			xs, err := toFloats(v)
			if err != nil {
				return 0, err
			}
			return extremum(xs, func(a, b float64) bool { return a > b })
		},
		"sum": func(v any) (float64, error) {
			xs, err := toFloats(v)
			if err != nil {
				return 0, err
			}
			var total float64
			for _, x := range xs {
				total += x
			}
			return total, nil
		},
		"quantile": func(v any, p float64) (float64, error) {
			xs, err := toFloats(v)
			if err != nil {
				return 0, err
			}
			if p < 0 || p > 1 {
				return 0, fmt.Errorf("quantile p must be within [0, 1], got %v", p)
			}
			return quantileOf(xs, p)
		},
		"corr": func(a, b any) (float64, error) {
			xs, err := toFloats(a)
			if err != nil {
				return 0, err
			}
			ys, err := toFloats(b)
			if err != nil {
				return 0, err
			}
			if len(xs) != len(ys) {
				return 0, fmt.Errorf("corr requires series of equal length, got %d and %d", len(xs), len(ys))
			}
			if len(xs) < 2 {
				return 0, fmt.Errorf("corr requires at least 2 values")
			}
			return stat.Correlation(xs, ys, nil), nil
		},
		"count": func(v any) (int, error) {
			switch val := v.(type) {
			case []float64:
				return len(val), nil
			case []string:
				return len(val), nil
			case []any:
				return len(val), nil
			case []map[string]any:
				return len(val), nil
			case string:
				return len(val), nil
			default:
				return 0, fmt.Errorf("count expects a series or string, got %T", v)
			}
		},
		"unique": func(v any) ([]any, error) {
			return uniqueOf(v)
		},
		"abs": func(x float64) float64 {
			return math.Abs(x)
		},
		"round": func(x float64) float64 {
			return math.Round(x)
		},
		"sorted": func(v any) ([]float64, error) {
			xs, err := toFloats(v)
			if err != nil {
				return nil, err
			}
			out := make([]float64, len(xs))
			copy(out, xs)
			sort.Float64s(out)
			return out, nil
		},
	}
}

// toFloats coerces interpreter values into a float slice.
func toFloats(v any) ([]float64, error) {
	switch val := v.(type) {
	case []float64:
		if len(val) == 0 {
			return nil, fmt.Errorf("series is empty")
		}
		return val, nil
	case []any:
		if len(val) == 0 {
			return nil, fmt.Errorf("series is empty")
		}
		xs := make([]float64, 0, len(val))
		for i, item := range val {
			switch n := item.(type) {
			case float64:
				xs = append(xs, n)
			case int:
				xs = append(xs, float64(n))
			case int64:
				xs = append(xs, float64(n))
			default:
				return nil, fmt.Errorf("element %d is not numeric (%T)", i, item)
			}
		}
		return xs, nil
	case []int:
		xs := make([]float64, len(val))
		for i, n := range val {
			xs[i] = float64(n)
		}
		return xs, nil
	case float64:
		return []float64{val}, nil
	case int:
		return []float64{float64(val)}, nil
	default:
		return nil, fmt.Errorf("expected a numeric series, got %T", v)
	}
}

func quantileOf(xs []float64, p float64) (float64, error) {
	if len(xs) == 0 {
		return 0, fmt.Errorf("series is empty")
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil), nil
}

func extremum(xs []float64, better func(a, b float64) bool) (float64, error) {
	if len(xs) == 0 {
		return 0, fmt.Errorf("series is empty")
	}
	best := xs[0]
	for _, x := range xs[1:] {
		if better(x, best) {
			best = x
		}
	}
	return best, nil
}

func uniqueOf(v any) ([]any, error) {
	appendUnique := func(out []any, seen map[any]struct{}, item any) []any {
		if _, ok := seen[item]; ok {
			return out
		}
		seen[item] = struct{}{}
		return append(out, item)
	}
	seen := make(map[any]struct{})
	var out []any
	switch val := v.(type) {
	case []float64:
		for _, x := range val {
			out = appendUnique(out, seen, x)
		}
	case []string:
		for _, s := range val {
			out = appendUnique(out, seen, s)
		}
	case []any:
		for _, item := range val {
			switch item.(type) {
			case string, float64, int, int64, bool:
				out = appendUnique(out, seen, item)
			default:
				return nil, fmt.Errorf("unique supports scalar elements only, got %T", item)
			}
		}
	default:
		return nil, fmt.Errorf("unique expects a series, got %T", v)
	}
	return out, nil
}
