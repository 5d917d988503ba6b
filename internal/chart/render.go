package chart

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"datachat/internal/dataset"
)

const (
	chartWidth    = 8 * vg.Inch
	chartHeight   = 5 * vg.Inch
	histogramBins = 20
)

// Renderer draws charts into a directory as PNG files named viz_<uuid>.png.
type Renderer struct {
	dir string
}

// NewRenderer resolves and creates the output directory.
func NewRenderer(dir string) (*Renderer, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve charts dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create charts dir: %w", err)
	}
	return &Renderer{dir: abs}, nil
}

// Dir returns the absolute charts directory.
func (r *Renderer) Dir() string {
	return r.dir
}

// Render validates the request, draws the chart and writes a PNG.
// Validation and data preparation failures never create a file.
func (r *Renderer) Render(tbl *dataset.Table, req Request) (Meta, error) {
	if tbl == nil {
		return Meta{}, fmt.Errorf("no dataset to chart")
	}
	if req.X == "" && req.Kind != KindHeatmap {
		return Meta{}, fmt.Errorf("x_column is required for %s charts", req.Kind)
	}
	agg, err := parseAggregation(req.Aggregation)
	if err != nil {
		return Meta{}, err
	}

	p := plot.New()
	p.Title.Text = req.title()

	switch req.Kind {
	case KindBar:
		err = buildBar(p, tbl, req, agg)
	case KindPie:
		err = buildPie(p, tbl, req, agg)
	case KindLine:
		err = buildLine(p, tbl, req)
	case KindScatter:
		err = buildScatter(p, tbl, req)
	case KindHistogram:
		err = buildHistogram(p, tbl, req)
	case KindBox:
		err = buildBox(p, tbl, req)
	case KindHeatmap:
		err = buildHeatmap(p, tbl)
	default:
		err = fmt.Errorf("unsupported chart type %q (supported: bar, line, scatter, histogram, box, pie, heatmap)", req.Kind)
	}
	if err != nil {
		return Meta{}, err
	}

	name := fmt.Sprintf("viz_%s.png", uuid.NewString())
	path := filepath.Join(r.dir, name)
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return Meta{}, fmt.Errorf("failed to save chart: %w", err)
	}
	return Meta{Name: name, Path: path, Title: p.Title.Text}, nil
}

func buildBar(p *plot.Plot, tbl *dataset.Table, req Request, agg string) error {
	labels, values, err := groupSeries(tbl, req.X, req.Y, agg, maxBarGroups)
	if err != nil {
		return err
	}
	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(24))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.LineStyle.Width = 0
	bars.Color = paletteColor(0)
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Label.Text = req.X
	p.Y.Label.Text = yAxisLabel(req, agg)
	rotateXTicks(p)
	return nil
}

func buildLine(p *plot.Plot, tbl *dataset.Table, req Request) error {
	if req.Y == "" {
		return fmt.Errorf("y_column is required for line charts")
	}
	xc, err := columnOf(tbl, req.X)
	if err != nil {
		return err
	}
	var xys plotter.XYs
	if xc.Kind == dataset.KindDate {
		if xys, err = datePairs(tbl, req.X, req.Y); err != nil {
			return err
		}
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	} else {
		if xys, err = numericPairs(tbl, req.X, req.Y); err != nil {
			return err
		}
	}
	sort.Slice(xys, func(i, j int) bool { return xys[i].X < xys[j].X })

	ln, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("failed to build line chart: %w", err)
	}
	ln.Color = paletteColor(0)
	ln.Width = vg.Points(1.5)
	p.Add(plotter.NewGrid(), ln)
	p.X.Label.Text = req.X
	p.Y.Label.Text = req.Y
	return nil
}

func buildScatter(p *plot.Plot, tbl *dataset.Table, req Request) error {
	if req.Y == "" {
		return fmt.Errorf("y_column is required for scatter charts")
	}
	xys, err := numericPairs(tbl, req.X, req.Y)
	if err != nil {
		return err
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("failed to build scatter chart: %w", err)
	}
	sc.GlyphStyle.Color = paletteColor(0)
	sc.GlyphStyle.Radius = vg.Points(2.5)
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(plotter.NewGrid(), sc)
	p.X.Label.Text = req.X
	p.Y.Label.Text = req.Y
	return nil
}

func buildHistogram(p *plot.Plot, tbl *dataset.Table, req Request) error {
	if _, err := numberColumnOf(tbl, req.X); err != nil {
		return err
	}
	values, _ := tbl.Numeric(req.X)
	if len(values) == 0 {
		return fmt.Errorf("column %q has no numeric values", req.X)
	}
	h, err := plotter.NewHist(plotter.Values(values), histogramBins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	h.FillColor = paletteColor(0)
	p.Add(h)
	p.X.Label.Text = req.X
	p.Y.Label.Text = "frequency"
	return nil
}

func buildBox(p *plot.Plot, tbl *dataset.Table, req Request) error {
	if _, err := numberColumnOf(tbl, req.X); err != nil {
		return err
	}
	type boxGroup struct {
		label  string
		values []float64
	}
	var groups []boxGroup
	if req.Y == "" {
		values, _ := tbl.Numeric(req.X)
		if len(values) == 0 {
			return fmt.Errorf("column %q has no numeric values", req.X)
		}
		groups = []boxGroup{{label: req.X, values: values}}
	} else {
		yc, err := columnOf(tbl, req.Y)
		if err != nil {
			return err
		}
		if yc.Kind == dataset.KindNumber {
			return fmt.Errorf("box grouping column %q must be categorical, not numeric", req.Y)
		}
		xc, _ := tbl.Column(req.X)
		byLabel := make(map[string]int)
		for i := 0; i < tbl.Rows(); i++ {
			label := yc.Raw[i]
			if dataset.IsMissing(label) || !xc.Valid[i] {
				continue
			}
			idx, seen := byLabel[label]
			if !seen {
				idx = len(groups)
				byLabel[label] = idx
				groups = append(groups, boxGroup{label: label})
			}
			groups[idx].values = append(groups[idx].values, xc.Floats[i])
		}
		if len(groups) == 0 {
			return fmt.Errorf("columns %q and %q have no overlapping values", req.X, req.Y)
		}
		if len(groups) > maxBarGroups {
			return fmt.Errorf("column %q has %d groups, box charts support at most %d", req.Y, len(groups), maxBarGroups)
		}
	}

	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.label
		b, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(g.values))
		if err != nil {
			return fmt.Errorf("failed to build box plot: %w", err)
		}
		b.FillColor = paletteColor(i)
		p.Add(b)
	}
	p.NominalX(labels...)
	p.Y.Label.Text = req.X
	return nil
}

func buildHeatmap(p *plot.Plot, tbl *dataset.Table) error {
	names, z, err := correlationMatrix(tbl)
	if err != nil {
		return err
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(&corrGrid{names: names, z: z}, cm.Palette(255))
	p.Add(hm)

	ticks := make([]plot.Tick, len(names))
	for i, name := range names {
		ticks[i] = plot.Tick{Value: float64(i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	rotateXTicks(p)
	return nil
}

// corrGrid adapts a correlation matrix to the heat map grid interface.
type corrGrid struct {
	names []string
	z     [][]float64
}

func (g *corrGrid) Dims() (c, r int)   { return len(g.names), len(g.names) }
func (g *corrGrid) Z(c, r int) float64 { return g.z[r][c] }
func (g *corrGrid) X(c int) float64    { return float64(c) }
func (g *corrGrid) Y(r int) float64    { return float64(r) }

func yAxisLabel(req Request, agg string) string {
	if req.Y == "" {
		return "count"
	}
	return fmt.Sprintf("%s(%s)", agg, req.Y)
}

func rotateXTicks(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}
