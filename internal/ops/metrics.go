package ops

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weatherpanel_cycles_total",
		Help: "Completed refresh cycles by outcome",
	}, []string{"outcome"})

	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weatherpanel_fetch_failures_total",
		Help: "Weather fetches that failed, by cause",
	}, []string{"cause"})

	DisplayFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weatherpanel_display_failures_total",
		Help: "Frame pushes or backlight writes that failed, by display",
	}, []string{"display"})

	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "weatherpanel_cycle_duration_seconds",
		Help:    "Duration of one fetch-render-push cycle",
		Buckets: prometheus.DefBuckets,
	})

	SnapshotAge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "weatherpanel_snapshot_age_seconds",
		Help: "Age of the snapshot currently shown on the panels",
	})
)
