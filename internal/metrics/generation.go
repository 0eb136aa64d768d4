package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded for a generation attempt.
const (
	OutcomeSuccess       = "success"
	OutcomeNotFound      = "not_found"
	OutcomeLocked        = "locked"
	OutcomeGenerateError = "generate_error"
	OutcomeRenderError   = "render_error"
	OutcomeStorageError  = "storage_error"
	OutcomeUpdateError   = "update_error"
	OutcomeLookupError   = "lookup_error"
)

// Generation counts PDF generation attempts and times the ones that ran.
// A nil *Generation is valid and records nothing.
type Generation struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewGeneration(reg prometheus.Registerer) (*Generation, error) {
	g := &Generation{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rpp_pdf_generations_total",
				Help: "PDF generation attempts by rendering strategy and outcome.",
			},
			[]string{"strategy", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rpp_pdf_generation_duration_seconds",
				Help:    "Wall time of PDF generations that acquired the document lock.",
				Buckets: []float64{1, 2.5, 5, 10, 20, 30, 45, 60, 90, 120},
			},
			[]string{"strategy"},
		),
	}
	for _, c := range []prometheus.Collector{g.total, g.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Observe records one attempt. A zero duration skips the histogram.
func (g *Generation) Observe(strategy, outcome string, d time.Duration) {
	if g == nil {
		return
	}
	g.total.WithLabelValues(strategy, outcome).Inc()
	if d > 0 {
		g.duration.WithLabelValues(strategy).Observe(d.Seconds())
	}
}
