// Package metrics exposes Prometheus counters for the cleaning pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gotidy",
		Name:      "uploads_total",
		Help:      "Files accepted by the upload form, by kind.",
	}, []string{"kind"})

	DuplicatesRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gotidy",
		Name:      "duplicate_rows_removed_total",
		Help:      "Exact duplicate rows dropped by cleaning passes.",
	})

	CellsFilledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gotidy",
		Name:      "cells_forward_filled_total",
		Help:      "Missing cells filled by forward fill.",
	})

	ReportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gotidy",
		Name:      "reports_generated_total",
		Help:      "Report workbooks written, by kind.",
	}, []string{"kind"})

	ChartFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gotidy",
		Name:      "chart_failures_total",
		Help:      "Charts skipped because rendering failed, by chart kind.",
	}, []string{"chart"})

	StageErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gotidy",
		Name:      "stage_errors_total",
		Help:      "Pipeline actions aborted, by stage and error code.",
	}, []string{"stage", "code"})
)

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
