// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GateCallsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_gate_calls_completed_total",
			Help: "Total number of outbound gate calls that succeeded",
		},
		[]string{"gate"},
	)

	GateCallsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_gate_calls_failed_total",
			Help: "Total number of gate attempts that failed, by error code",
		},
		[]string{"gate", "error_code"},
	)

	GateCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "wizard_gate_call_duration_seconds",
			Help: "Duration of outbound gate calls in seconds",
		},
		[]string{"gate"},
	)

	GateCallsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wizard_gate_calls_active",
			Help: "Number of outbound gate calls in flight",
		},
		[]string{"gate"},
	)

	GuardRedirects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_guard_redirects_total",
			Help: "Number of navigations redirected to an earlier step",
		},
		[]string{"requested", "redirected"},
	)

	PassesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_passes_issued_total",
			Help: "Number of visitor passes issued",
		},
		[]string{"category"},
	)

	PassDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_pass_deliveries_total",
			Help: "Pass delivery attempts by channel and status",
		},
		[]string{"channel", "status"},
	)
)
