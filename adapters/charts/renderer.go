// Package charts renders report charts as PNG images with gonum/plot.
package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"gotidy/ports"
)

// Chart dimensions. At the default 96 dpi these come out at 576x384 pixels.
const (
	ChartWidth  = 6 * vg.Inch
	ChartHeight = 4 * vg.Inch
)

var (
	barColor     = color.RGBA{R: 99, G: 110, B: 250, A: 255}
	pointColor   = color.RGBA{R: 239, G: 85, B: 59, A: 255}
	missingColor = color.Gray{Y: 200}
)

// Renderer draws charts at a fixed size
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// NewRenderer creates a renderer producing ChartWidth x ChartHeight images
func NewRenderer() *Renderer {
	return &Renderer{width: ChartWidth, height: ChartHeight}
}

var _ ports.ChartRenderer = (*Renderer)(nil)

// Histogram draws the distribution of values binned by histogramBins
func (r *Renderer) Histogram(title, column string, values []float64) ([]byte, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("histogram of %s: no values", column)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = column
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(values), histogramBins(len(values)))
	if err != nil {
		return nil, fmt.Errorf("histogram of %s: %w", column, err)
	}
	h.FillColor = barColor
	p.Add(h)

	return r.encode(p)
}

// histogramBins is the square-root rule, at least one bin. plotter.NewHist
// rejects zero, and constant data collapses to a single bin on its own.
func histogramBins(n int) int {
	return max(1, int(math.Ceil(math.Sqrt(float64(n)))))
}

// BoxPlot draws quartiles, whiskers and outliers of values
func (r *Renderer) BoxPlot(title, column string, values []float64) ([]byte, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("box plot of %s: no values", column)
	}
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = column

	b, err := plotter.NewBoxPlot(vg.Points(60), 0, plotter.Values(values))
	if err != nil {
		return nil, fmt.Errorf("box plot of %s: %w", column, err)
	}
	b.FillColor = barColor
	p.Add(b)
	p.NominalX(column)

	return r.encode(p)
}

// Scatter plots ys against xs; the slices must be paired
func (r *Renderer) Scatter(title, xLabel, yLabel string, xs, ys []float64) ([]byte, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("scatter: %d x values for %d y values", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("scatter of %s vs %s: no complete pairs", xLabel, yLabel)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter of %s vs %s: %w", xLabel, yLabel, err)
	}
	s.Color = pointColor
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(s)

	return r.encode(p)
}

// corrGrid adapts a square matrix to plotter.GridXYZ with row 0 drawn on top
type corrGrid struct {
	m mat.Matrix
}

func (g corrGrid) Dims() (c, r int) {
	rows, cols := g.m.Dims()
	return cols, rows
}

func (g corrGrid) Z(c, r int) float64 {
	rows, _ := g.m.Dims()
	return g.m.At(rows-1-r, c)
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// Heatmap draws a correlation matrix on a blue-red scale from -1 to 1 and
// writes each coefficient into its cell
func (r *Renderer) Heatmap(title string, labels []string, corr mat.Matrix) ([]byte, error) {
	rows, cols := corr.Dims()
	if rows != cols || rows != len(labels) {
		return nil, fmt.Errorf("heatmap: %dx%d matrix for %d labels", rows, cols, len(labels))
	}
	if rows == 0 {
		return nil, fmt.Errorf("heatmap: empty matrix")
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)

	grid := corrGrid{m: corr}
	hm := plotter.NewHeatMap(grid, cm.Palette(255))
	hm.Min = -1
	hm.Max = 1
	hm.NaN = missingColor

	p := plot.New()
	p.Title.Text = title
	p.Add(hm)

	var (
		pts   plotter.XYs
		texts []string
	)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			pts = append(pts, plotter.XY{X: float64(j), Y: float64(rows - 1 - i)})
			v := corr.At(i, j)
			if math.IsNaN(v) {
				texts = append(texts, "nan")
			} else {
				texts = append(texts, fmt.Sprintf("%.2f", v))
			}
		}
	}
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: texts})
	if err != nil {
		return nil, fmt.Errorf("heatmap labels: %w", err)
	}
	p.Add(l)

	p.NominalX(labels...)
	reversed := make([]string, len(labels))
	for i, name := range labels {
		reversed[len(labels)-1-i] = name
	}
	p.NominalY(reversed...)

	return r.encode(p)
}

// HistogramGrid tiles one histogram per column into a single image
func (r *Renderer) HistogramGrid(columns []string, values [][]float64) ([]byte, error) {
	n := len(columns)
	if n == 0 || n != len(values) {
		return nil, fmt.Errorf("histogram grid: %d columns for %d value sets", n, len(values))
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	plots := make([][]*plot.Plot, rows)
	for j := 0; j < rows; j++ {
		plots[j] = make([]*plot.Plot, cols)
		for i := 0; i < cols; i++ {
			p := plot.New()
			k := j*cols + i
			if k >= n {
				p.HideAxes()
				plots[j][i] = p
				continue
			}
			p.Title.Text = columns[k]
			h, err := plotter.NewHist(plotter.Values(values[k]), 20)
			if err != nil {
				return nil, fmt.Errorf("histogram of %s: %w", columns[k], err)
			}
			h.FillColor = barColor
			p.Add(h)
			plots[j][i] = p
		}
	}

	img := vgimg.New(vg.Length(cols)*4*vg.Inch, vg.Length(rows)*3*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(4),
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			plots[j][i].Draw(canvases[j][i])
		}
	}

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode histogram grid: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) encode(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
