package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// Parse reads a CSV stream into a Table. The first row is the header;
// ragged rows and empty files are parse failures. Column kinds are inferred
// from the data before the table is returned, so a returned Table is always
// fully usable.
func Parse(filename string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	names := normalizeHeader(header)
	if len(names) == 0 {
		return nil, fmt.Errorf("CSV header has no columns")
	}

	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = Column{Name: name, Kind: KindString}
	}

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV row %d: %w", rows+2, err)
		}
		for i := range cols {
			cols[i].Raw = append(cols[i].Raw, strings.TrimSpace(record[i]))
		}
		rows++
	}
	if rows == 0 {
		return nil, fmt.Errorf("CSV contains no data rows")
	}

	t := &Table{
		Filename:   filename,
		UploadedAt: time.Now(),
		Columns:    cols,
		rows:       rows,
		byName:     make(map[string]int, len(cols)),
	}
	for i, c := range t.Columns {
		t.byName[c.Name] = i
	}

	inferKinds(t)
	return t, nil
}

// normalizeHeader converts "Column Name" → "column_name" and deduplicates
// repeated names by appending _2, _3, ...
func normalizeHeader(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := toSnakeCase(strings.TrimSpace(h))
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
			seen[name]++
		}
		names[i] = name
	}
	return names
}

func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
