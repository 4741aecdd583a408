package visualizer

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	framesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tidelight_visualizer_frames_total",
		Help: "Total number of frames flushed to the LED device",
	})

	dataAvailable = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tidelight_tide_data_available",
		Help: "Whether the calculator currently produces a tide state (1) or not (0)",
	})
)

func init() {
	prometheus.MustRegister(framesTotal)
	prometheus.MustRegister(dataAvailable)
}
