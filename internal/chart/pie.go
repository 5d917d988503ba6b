package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"datachat/internal/dataset"
)

func buildPie(p *plot.Plot, tbl *dataset.Table, req Request, agg string) error {
	labels, values, err := groupSeries(tbl, req.X, req.Y, agg, maxPieGroups)
	if err != nil {
		return err
	}
	var total float64
	for _, v := range values {
		if v < 0 {
			return fmt.Errorf("pie charts require non-negative values, got %v", v)
		}
		total += v
	}
	if total == 0 {
		return fmt.Errorf("pie chart values sum to zero")
	}

	pie := &pieChart{values: values, total: total}
	p.Add(pie)
	p.HideAxes()
	for i, label := range labels {
		p.Legend.Add(fmt.Sprintf("%s (%.1f%%)", label, values[i]/total*100), wedgeThumb{color: paletteColor(i)})
	}
	p.Legend.Top = true
	return nil
}

// pieChart draws proportional wedges clockwise from twelve o'clock. The
// plot package has no native pie plotter.
type pieChart struct {
	values []float64
	total  float64
}

var (
	_ plot.Plotter    = (*pieChart)(nil)
	_ plot.DataRanger = (*pieChart)(nil)
)

func (pc *pieChart) Plot(c draw.Canvas, _ *plot.Plot) {
	size := c.Size()
	radius := size.X
	if size.Y < radius {
		radius = size.Y
	}
	radius *= 0.4
	center := vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: (c.Min.Y + c.Max.Y) / 2}

	start := math.Pi / 2
	for i, v := range pc.values {
		sweep := -2 * math.Pi * v / pc.total
		var path vg.Path
		path.Move(center)
		path.Line(vg.Point{
			X: center.X + radius*vg.Length(math.Cos(start)),
			Y: center.Y + radius*vg.Length(math.Sin(start)),
		})
		path.Arc(center, radius, start, sweep)
		path.Close()
		c.SetColor(paletteColor(i))
		c.Fill(path)
		start += sweep
	}
}

// DataRange keeps the hidden axes finite.
func (pc *pieChart) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -1, 1, -1, 1
}

// wedgeThumb renders legend swatches for pie wedges.
type wedgeThumb struct {
	color color.Color
}

var _ plot.Thumbnailer = wedgeThumb{}

func (w wedgeThumb) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(w.color, c.ClipPolygonY(pts))
}
