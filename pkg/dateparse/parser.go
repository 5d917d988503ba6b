package dateparse

import (
	"fmt"
	"strings"
	"time"
)

// defaultLayouts are the date and datetime layouts recognized in CSV cells,
// ordered from most to least specific so Parse picks the tightest match.
var defaultLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"02/01/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"Jan-2006",
	"January 2006",
}

// Parser recognizes date values in string columns.
type Parser struct {
	layouts []string
}

// NewParser creates a parser over the default layout set.
func NewParser() *Parser {
	return &Parser{layouts: defaultLayouts}
}

// NewParserWithLayouts creates a parser over an explicit layout set.
func NewParserWithLayouts(layouts ...string) (*Parser, error) {
	if len(layouts) == 0 {
		return nil, fmt.Errorf("at least one layout is required")
	}
	return &Parser{layouts: layouts}, nil
}

// Parse converts a single cell value to a time.Time by trying every layout.
func (p *Parser) Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty value")
	}
	for _, layout := range p.layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date value: %q", value)
}

// IsDate reports whether the value parses under any known layout.
func (p *Parser) IsDate(value string) bool {
	_, err := p.Parse(value)
	return err == nil
}

// DetectLayout returns the single layout that parses every non-empty sample,
// preferring the most specific one. ok is false when no layout covers all
// samples or when there is nothing to inspect.
func (p *Parser) DetectLayout(samples []string) (string, bool) {
	for _, layout := range p.layouts {
		matched := 0
		seen := 0
		for _, s := range samples {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			seen++
			if _, err := time.Parse(layout, s); err == nil {
				matched++
			}
		}
		if seen > 0 && matched == seen {
			return layout, true
		}
	}
	return "", false
}
