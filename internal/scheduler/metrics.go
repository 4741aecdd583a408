package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	fetchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tidelight_tide_fetches_total",
		Help: "Total number of tide data fetch attempts",
	})

	fetchErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tidelight_tide_fetch_errors_total",
		Help: "Total number of failed tide data fetches",
	})

	fetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tidelight_tide_fetch_duration_seconds",
		Help:    "Duration of tide data fetches in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(fetchesTotal)
	prometheus.MustRegister(fetchErrorsTotal)
	prometheus.MustRegister(fetchDuration)
}
