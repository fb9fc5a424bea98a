package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"gotidy/domain/dataset"
	"gotidy/internal"
	"gotidy/internal/metrics"
	"gotidy/ports"
)

// Visualizer renders the report charts for a cleaned dataset
type Visualizer struct {
	renderer ports.ChartRenderer
	workers  int
	logger   *internal.Logger
}

type chartJob struct {
	kind   dataset.ChartKind
	title  string
	render func() ([]byte, error)
}

type chartResult struct {
	png []byte
	err error
}

// NewVisualizer creates a visualizer that renders at most workers charts at once
func NewVisualizer(renderer ports.ChartRenderer, workers int, logger *internal.Logger) *Visualizer {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Visualizer{renderer: renderer, workers: workers, logger: logger}
}

// Render draws a histogram and a box plot per numeric column, then a scatter of
// the first two numeric columns and a correlation heatmap. Charts come back in
// that order. A chart that fails is reported in the failure list and skipped.
func (v *Visualizer) Render(ctx context.Context, ds *dataset.Dataset) ([]dataset.Chart, []dataset.ChartFailure, error) {
	jobs := v.plan(ds)
	results := make([]chartResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			png, err := safeRender(job.render)
			results[i] = chartResult{png: png, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var charts []dataset.Chart
	var failures []dataset.ChartFailure
	for i, job := range jobs {
		if err := results[i].err; err != nil {
			v.logger.Warn("[Visualizer] skipping %s: %v", job.title, err)
			metrics.ChartFailuresTotal.WithLabelValues(string(job.kind)).Inc()
			failures = append(failures, dataset.ChartFailure{Kind: job.kind, Title: job.title, Err: err})
			continue
		}
		charts = append(charts, dataset.Chart{Kind: job.kind, Title: job.title, PNG: results[i].png})
		v.logger.Trace("[Visualizer] rendered %s (%d bytes)", job.title, len(results[i].png))
	}

	v.logger.Info("[Visualizer] rendered %d charts, %d skipped", len(charts), len(failures))
	return charts, failures, nil
}

func (v *Visualizer) plan(ds *dataset.Dataset) []chartJob {
	numeric := ds.NumericColumns()
	var jobs []chartJob

	for _, col := range numeric {
		name, values := ds.Columns[col], ds.Floats(col)
		title := fmt.Sprintf("Histogram of %s", name)
		jobs = append(jobs, chartJob{kind: dataset.ChartHistogram, title: title, render: func() ([]byte, error) {
			return v.renderer.Histogram(title, name, values)
		}})
	}
	for _, col := range numeric {
		name, values := ds.Columns[col], ds.Floats(col)
		title := fmt.Sprintf("Box Plot of %s", name)
		jobs = append(jobs, chartJob{kind: dataset.ChartBoxPlot, title: title, render: func() ([]byte, error) {
			return v.renderer.BoxPlot(title, name, values)
		}})
	}
	if len(numeric) < 2 {
		return jobs
	}

	a, b := numeric[0], numeric[1]
	xs, ys := pairwiseComplete(ds, a, b)
	scatterTitle := fmt.Sprintf("Scatter Plot: %s vs %s", ds.Columns[a], ds.Columns[b])
	jobs = append(jobs, chartJob{kind: dataset.ChartScatter, title: scatterTitle, render: func() ([]byte, error) {
		return v.renderer.Scatter(scatterTitle, ds.Columns[a], ds.Columns[b], xs, ys)
	}})

	labels := make([]string, len(numeric))
	for i, col := range numeric {
		labels[i] = ds.Columns[col]
	}
	corr := Correlation(ds, numeric)
	jobs = append(jobs, chartJob{kind: dataset.ChartHeatmap, title: "Correlation Heatmap", render: func() ([]byte, error) {
		return v.renderer.Heatmap("Correlation Heatmap", labels, corr)
	}})
	return jobs
}

// safeRender turns a plotting panic into an error
func safeRender(render func() ([]byte, error)) (png []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			png, err = nil, fmt.Errorf("chart panicked: %v", r)
		}
	}()
	return render()
}
