// Package metrics declares the Prometheus metrics for the chat server.
//
// Naming convention: namespace_subsystem_name
//   - namespace: wshotel (application-level grouping)
//   - subsystem: websocket, room, rate_limit, redis (feature-level grouping)
//
// Metric Types:
//   - Gauge: current state (connections, rooms active)
//   - Counter: cumulative events (messages routed, relocations)
//   - Histogram: latency distributions (dispatch time)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveConnections tracks the current number of live WebSocket connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wshotel",
		Subsystem: "websocket",
		Name:      "connections_active",
		Help:      "Current number of active WebSocket connections",
	})

	// ActiveRooms tracks the current number of rooms reachable from the lobby sample app.
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wshotel",
		Subsystem: "room",
		Name:      "rooms_active",
		Help:      "Current number of active rooms",
	})

	// RoomMembers tracks the number of members in each room (labelled by room name).
	RoomMembers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "wshotel",
		Subsystem: "room",
		Name:      "members_count",
		Help:      "Number of members in each room",
	}, []string{"room"})

	// MessagesRouted tracks the total number of inbound frames dispatched into a room handler.
	MessagesRouted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wshotel",
		Subsystem: "websocket",
		Name:      "messages_routed_total",
		Help:      "Total inbound WebSocket frames routed to a room handler",
	}, []string{"status"})

	// RelocationsTotal tracks the total number of relocations executed.
	RelocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wshotel",
		Subsystem: "room",
		Name:      "relocations_total",
		Help:      "Total number of member relocations between rooms",
	}, []string{"status"})

	// DispatchDuration tracks the time spent inside a single handler callback.
	DispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wshotel",
		Subsystem: "websocket",
		Name:      "dispatch_seconds",
		Help:      "Time spent dispatching a single event into a room handler",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"callback"})

	// RateLimitExceeded tracks the total number of requests that exceeded the rate limit.
	RateLimitExceeded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wshotel",
		Subsystem: "rate_limit",
		Name:      "exceeded_total",
		Help:      "Total number of requests that exceeded the rate limit",
	}, []string{"endpoint", "reason"})

	// RedisOperationsTotal tracks the total number of Redis operations.
	RedisOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wshotel",
		Subsystem: "redis",
		Name:      "operations_total",
		Help:      "Total number of Redis operations",
	}, []string{"operation", "status"})

	// RedisOperationDuration tracks the duration of Redis operations.
	RedisOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wshotel",
		Subsystem: "redis",
		Name:      "operation_duration_seconds",
		Help:      "Duration of Redis operations",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
)

// IncConnection records a new WebSocket connection.
func IncConnection() {
	ActiveConnections.Inc()
}

// DecConnection records a closed WebSocket connection.
func DecConnection() {
	ActiveConnections.Dec()
}
