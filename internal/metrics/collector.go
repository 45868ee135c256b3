package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Log reading metrics
	LinesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vrcpresence_log_lines_total",
			Help: "Log lines read, by phase (replay or tail)",
		},
		[]string{"phase"},
	)
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vrcpresence_events_total",
			Help: "Presence events applied to the store",
		},
		[]string{"phase", "kind"},
	)
	DroppedLinesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vrcpresence_dropped_lines_total",
			Help: "Lines carrying a marker that produced no event",
		},
		[]string{"reason"},
	)

	// Membership metrics
	PresentUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vrcpresence_present_users",
			Help: "Players currently present",
		},
	)
	EngineState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vrcpresence_engine_state",
			Help: "Engine phase: 0 uninitialized, 1 replaying, 2 tailing",
		},
	)

	// Transport metrics
	SignalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vrcpresence_signals_total",
			Help: "Outbound sync and event signals by transport and result",
		},
		[]string{"transport", "type", "result"},
	)
	TransportConnected = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vrcpresence_transport_connected",
			Help: "1 when the transport has a live connection",
		},
		[]string{"transport"},
	)
	ResyncRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vrcpresence_resync_requests_total",
			Help: "Subscriber ready notifications received",
		},
		[]string{"transport"},
	)
)
