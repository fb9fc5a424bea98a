package ports

import (
	"gonum.org/v1/gonum/mat"
)

// ChartRenderer draws report charts as PNG bytes
type ChartRenderer interface {
	Histogram(title, column string, values []float64) ([]byte, error)
	BoxPlot(title, column string, values []float64) ([]byte, error)
	Scatter(title, xLabel, yLabel string, xs, ys []float64) ([]byte, error)
	Heatmap(title string, labels []string, corr mat.Matrix) ([]byte, error)
	HistogramGrid(columns []string, values [][]float64) ([]byte, error)
}
