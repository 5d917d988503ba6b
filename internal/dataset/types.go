package dataset

import (
	"math"
	"time"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumber Kind = "number"
	KindString Kind = "string"
	KindDate   Kind = "date"
	KindBool   Kind = "bool"
)

// Column is one column of an uploaded table. Raw always holds the original
// cells; Floats/Valid are populated for number columns only, aligned by row.
type Column struct {
	Name       string
	Kind       Kind
	Raw        []string
	Floats     []float64
	Valid      []bool
	Missing    int
	DateLayout string // set for date columns
}

// Table is the in-memory dataset parsed from an uploaded CSV. Tables are
// immutable after Parse; concurrent readers need no locking.
type Table struct {
	Filename   string
	UploadedAt time.Time
	Columns    []Column

	rows   int
	byName map[string]int
}

// Shape is the dataset dimensions as reported to clients and to the model.
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// Summary is the cached upload-time description of a table.
type Summary struct {
	Shape         Shape             `json:"shape"`
	Columns       []string          `json:"columns"`
	ColumnKinds   map[string]string `json:"column_kinds"`
	MissingValues map[string]int    `json:"missing_values"`
	TotalMissing  int               `json:"total_missing"`
	MemoryUsageMB float64           `json:"memory_usage_mb"`
}

// Rows returns the number of data rows.
func (t *Table) Rows() int {
	return t.rows
}

// Cols returns the number of columns.
func (t *Table) Cols() int {
	return len(t.Columns)
}

// ColumnNames returns the column names in file order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by its normalized name.
func (t *Table) Column(name string) (*Column, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return &t.Columns[idx], true
}

// NumericColumns returns the names of number columns in file order.
func (t *Table) NumericColumns() []string {
	var names []string
	for _, c := range t.Columns {
		if c.Kind == KindNumber {
			names = append(names, c.Name)
		}
	}
	return names
}

// Numeric returns the valid (non-missing, parseable) values of a number
// column, in row order. ok is false for unknown or non-number columns.
func (t *Table) Numeric(name string) ([]float64, bool) {
	col, ok := t.Column(name)
	if !ok || col.Kind != KindNumber {
		return nil, false
	}
	vals := make([]float64, 0, len(col.Floats))
	for i, v := range col.Floats {
		if col.Valid[i] {
			vals = append(vals, v)
		}
	}
	return vals, true
}

// Summary builds the client-facing description of the table.
func (t *Table) Summary() Summary {
	kinds := make(map[string]string, len(t.Columns))
	missing := make(map[string]int, len(t.Columns))
	total := 0
	for _, c := range t.Columns {
		kinds[c.Name] = string(c.Kind)
		missing[c.Name] = c.Missing
		total += c.Missing
	}
	return Summary{
		Shape:         Shape{Rows: t.rows, Columns: len(t.Columns)},
		Columns:       t.ColumnNames(),
		ColumnKinds:   kinds,
		MissingValues: missing,
		TotalMissing:  total,
		MemoryUsageMB: t.MemoryUsageMB(),
	}
}

// Preview returns up to limit leading rows as JSON-friendly records.
// Number cells become float64, missing cells become nil, everything else
// stays a string.
func (t *Table) Preview(limit int) []map[string]any {
	n := t.rows
	if limit < n {
		n = limit
	}
	if n < 0 {
		n = 0
	}
	out := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		row := make(map[string]any, len(t.Columns))
		for _, c := range t.Columns {
			row[c.Name] = cellValue(&c, i)
		}
		out[i] = row
	}
	return out
}

// MemoryUsageMB approximates the in-memory footprint of the table.
func (t *Table) MemoryUsageMB() float64 {
	var bytes int
	for _, c := range t.Columns {
		for _, s := range c.Raw {
			bytes += len(s) + 16 // string header overhead
		}
		bytes += 8 * len(c.Floats)
		bytes += len(c.Valid)
	}
	mb := float64(bytes) / (1024 * 1024)
	return math.Round(mb*100) / 100
}

func cellValue(c *Column, row int) any {
	if isMissingToken(c.Raw[row]) {
		return nil
	}
	if c.Kind == KindNumber {
		if c.Valid[row] {
			return c.Floats[row]
		}
		return nil
	}
	return c.Raw[row]
}
