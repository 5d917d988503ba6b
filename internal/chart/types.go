// Package chart renders dataset visualizations to PNG files and tracks the
// rendered files in a TTL registry so stale charts are reclaimed from disk.
package chart

import (
	"fmt"
	"image/color"
	"strings"
)

// Kind is a supported chart type.
type Kind string

const (
	KindBar       Kind = "bar"
	KindLine      Kind = "line"
	KindScatter   Kind = "scatter"
	KindHistogram Kind = "histogram"
	KindBox       Kind = "box"
	KindPie       Kind = "pie"
	KindHeatmap   Kind = "heatmap"
)

// Kinds lists every supported chart type.
func Kinds() []Kind {
	return []Kind{KindBar, KindLine, KindScatter, KindHistogram, KindBox, KindPie, KindHeatmap}
}

// ParseKind validates a user-supplied chart type.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unsupported chart type %q (supported: bar, line, scatter, histogram, box, pie, heatmap)", s)
}

// Aggregations supported when grouping bar and pie data.
const (
	AggSum    = "sum"
	AggMean   = "mean"
	AggCount  = "count"
	AggMin    = "min"
	AggMax    = "max"
	AggMedian = "median"
)

func parseAggregation(s string) (string, error) {
	a := strings.ToLower(strings.TrimSpace(s))
	if a == "" {
		return AggMean, nil
	}
	switch a {
	case AggSum, AggMean, AggCount, AggMin, AggMax, AggMedian:
		return a, nil
	}
	return "", fmt.Errorf("unsupported aggregation %q (supported: sum, mean, count, min, max, median)", s)
}

// Request describes one chart to render.
type Request struct {
	Kind        Kind
	X           string
	Y           string
	Title       string
	Aggregation string
}

// Meta identifies a rendered chart file.
type Meta struct {
	Name  string // viz_<uuid>.png
	Path  string // absolute location on disk
	Title string
}

func (r Request) title() string {
	if r.Title != "" {
		return r.Title
	}
	switch r.Kind {
	case KindHeatmap:
		return "Correlation Matrix"
	case KindHistogram:
		return fmt.Sprintf("Distribution of %s", r.X)
	case KindBox:
		if r.Y != "" {
			return fmt.Sprintf("Distribution of %s by %s", r.X, r.Y)
		}
		return fmt.Sprintf("Distribution of %s", r.X)
	case KindBar, KindPie:
		if r.Y == "" {
			return fmt.Sprintf("Count of %s", r.X)
		}
		agg, _ := parseAggregation(r.Aggregation)
		return fmt.Sprintf("%s of %s by %s", strings.ToUpper(agg[:1])+agg[1:], r.Y, r.X)
	default:
		return fmt.Sprintf("%s vs %s", r.Y, r.X)
	}
}

// chartPalette is the fill rotation for categorical series.
var chartPalette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	color.RGBA{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	color.RGBA{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff},
	color.RGBA{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
}

func paletteColor(i int) color.Color {
	return chartPalette[i%len(chartPalette)]
}
