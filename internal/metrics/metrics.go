package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts handled requests by route, method and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration tracks request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"route", "method"},
	)
)

// Menu metrics
var (
	// MenuRendersTotal counts render calls by outcome (rendered, passthrough, disabled)
	MenuRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "network_menu_renders_total",
			Help: "Network menu render calls by outcome",
		},
		[]string{"outcome"},
	)

	// MenuEntriesSkipped counts configured sites that could not be resolved
	MenuEntriesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "network_menu_entries_skipped_total",
			Help: "Configured sites skipped because they could not be resolved",
		},
	)

	// SettingsCacheResults counts settings cache lookups by result (hit, miss, error)
	SettingsCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "network_menu_settings_cache_total",
			Help: "Network menu settings cache lookups by result",
		},
		[]string{"result"},
	)
)

// Render outcomes
const (
	OutcomeRendered    = "rendered"
	OutcomePassthrough = "passthrough"
	OutcomeDisabled    = "disabled"
)
