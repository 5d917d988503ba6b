package dataset

import (
	"math"
	"strconv"
	"strings"

	"datachat/pkg/dateparse"
)

// kindVoteThreshold is the share of non-missing sampled cells that must
// agree before a column gets a non-string kind.
const kindVoteThreshold = 0.8

// inferSampleSize caps how many cells per column feed the kind vote.
const inferSampleSize = 200

var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"nan":  true,
	"none": true,
	"-":    true,
}

func isMissingToken(s string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(s))]
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(s string) bool {
	return isMissingToken(s)
}

// inferKinds assigns every column a kind and fills the parsed storage for
// number columns. Vote order matters: number beats date beats bool, so a
// column of 0/1 cells stays numeric.
func inferKinds(t *Table) {
	dates := dateparse.NewParser()

	for i := range t.Columns {
		col := &t.Columns[i]

		samples := sampleValues(col.Raw, inferSampleSize)
		numbers, datesN, bools := 0, 0, 0
		for _, v := range samples {
			if isNumeric(v) {
				numbers++
			}
			if dates.IsDate(v) {
				datesN++
			}
			if isBool(v) {
				bools++
			}
		}

		col.Kind = KindString
		if n := len(samples); n > 0 {
			threshold := int(math.Ceil(kindVoteThreshold * float64(n)))
			switch {
			case numbers >= threshold:
				col.Kind = KindNumber
			case datesN >= threshold:
				col.Kind = KindDate
			case bools >= threshold:
				col.Kind = KindBool
			}
		}

		switch col.Kind {
		case KindNumber:
			fillNumeric(col)
		case KindDate:
			if layout, ok := dates.DetectLayout(samples); ok {
				col.DateLayout = layout
			}
			countMissing(col)
		default:
			countMissing(col)
		}
	}
}

// fillNumeric parses every cell of a number column. Missing tokens and
// unparseable cells both count as missing and are invalid in the mask.
func fillNumeric(col *Column) {
	col.Floats = make([]float64, len(col.Raw))
	col.Valid = make([]bool, len(col.Raw))
	col.Missing = 0
	for i, raw := range col.Raw {
		if isMissingToken(raw) {
			col.Missing++
			continue
		}
		v, ok := parseNumber(raw)
		if !ok {
			col.Missing++
			continue
		}
		col.Floats[i] = v
		col.Valid[i] = true
	}
}

func countMissing(col *Column) {
	col.Missing = 0
	for _, raw := range col.Raw {
		if isMissingToken(raw) {
			col.Missing++
		}
	}
}

// sampleValues returns up to max non-missing cells spread over the column.
func sampleValues(raw []string, max int) []string {
	var out []string
	step := 1
	if len(raw) > max {
		step = len(raw) / max
	}
	for i := 0; i < len(raw) && len(out) < max; i += step {
		if !isMissingToken(raw[i]) {
			out = append(out, raw[i])
		}
	}
	return out
}

func isNumeric(s string) bool {
	_, ok := parseNumber(s)
	return ok
}

// parseNumber handles plain floats plus lightly formatted values like
// "1,234.56" and "$42".
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "£")
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "false" || s == "yes" || s == "no"
}

// Epochs returns unix-second values for the valid cells of a date column,
// in row order. ok is false for unknown or non-date columns.
func (t *Table) Epochs(name string) ([]float64, bool) {
	col, ok := t.Column(name)
	if !ok || col.Kind != KindDate || col.DateLayout == "" {
		return nil, false
	}
	parser, err := dateparse.NewParserWithLayouts(col.DateLayout)
	if err != nil {
		return nil, false
	}
	out := make([]float64, 0, len(col.Raw))
	for _, raw := range col.Raw {
		if isMissingToken(raw) {
			continue
		}
		ts, err := parser.Parse(raw)
		if err != nil {
			continue
		}
		out = append(out, float64(ts.Unix()))
	}
	return out, true
}
