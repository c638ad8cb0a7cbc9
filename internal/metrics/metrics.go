package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DevicePolls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vesync2mqtt",
		Subsystem: "poller",
		Name:      "device_polls_total",
		Help:      "Bulk device state refreshes, by result.",
	}, []string{"result"})
	PollDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "vesync2mqtt",
		Subsystem: "poller",
		Name:      "poll_duration_seconds",
		Help:      "Duration of one bulk device state refresh.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})
	DeviceCommands = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vesync2mqtt",
		Subsystem: "commands",
		Name:      "dispatched_total",
		Help:      "Entity commands dispatched to the vendor cloud, by result.",
	}, []string{"result"})
	DiscoveredDevices = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vesync2mqtt",
		Subsystem: "discovery",
		Name:      "devices",
		Help:      "Devices found by the last discovery pass.",
	})
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Handler exposes the process registry for the HTTP server.
func Handler() http.Handler {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewBuildInfoCollector())
	reg.MustRegister(collectors.NewGoCollector())

	reg.MustRegister(DevicePolls)
	reg.MustRegister(PollDuration)
	reg.MustRegister(DeviceCommands)
	reg.MustRegister(DiscoveredDevices)

	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
