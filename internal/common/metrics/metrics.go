// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DocumentsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgen_documents_generated_total",
			Help: "Total number of documents generated, by template and mode",
		},
		[]string{"template", "mode"},
	)

	RenderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgen_render_failures_total",
			Help: "Total number of failed renders, by template and error code",
		},
		[]string{"template", "error_code"},
	)

	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "docgen_render_duration_seconds",
			Help: "Duration of the merge and PDF conversion in seconds",
		},
		[]string{"template"},
	)

	RendersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docgen_renders_active",
			Help: "Number of renders currently holding a browser session",
		},
	)
)
