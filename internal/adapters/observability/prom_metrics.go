package observability

import (
	"log"

	"github.com/onnimonni/gribflow/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
)

type PromObs struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func NewPromObs() *PromObs {
	rows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gribflow_rows_emitted_total",
		Help: "Total output rows emitted by scans.",
	})
	resources := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gribflow_resources_completed_total",
		Help: "Remote GRIB resources fully consumed.",
	})
	fetchErrs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gribflow_fetch_errors_total",
		Help: "Resource fetches that failed and aborted their scan.",
	})
	progress := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gribflow_scan_progress_ratio",
		Help: "Approximate completion fraction of the most recent scan pull.",
	})
	fetchLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gribflow_fetch_duration_seconds",
		Help:    "Wall time of one blocking resource fetch.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})
	sinkLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gribflow_sink_latency_seconds",
		Help:    "Wall time of one sink write batch.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	prometheus.MustRegister(rows, resources, fetchErrs, progress, fetchLatency, sinkLatency)

	return &PromObs{
		counters: map[string]prometheus.Counter{
			"gribflow_rows_emitted_total":        rows,
			"gribflow_resources_completed_total": resources,
			"gribflow_fetch_errors_total":        fetchErrs,
		},
		gauges: map[string]prometheus.Gauge{
			"gribflow_scan_progress_ratio": progress,
		},
		histos: map[string]prometheus.Observer{
			"gribflow_fetch_duration_seconds": fetchLatency,
			"gribflow_sink_latency_seconds":   sinkLatency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("ERROR: %s: %v", msg, err)
	}
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("CRITICAL: %s: %v", msg, err)
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

var _ ports.Observability = (*PromObs)(nil)
