package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// eventsApplied counts events that reached a handler.
	// Labels: event, outcome (ok, invalid, rejected)
	eventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carmasy",
		Subsystem: "dashboard",
		Name:      "events_total",
		Help:      "Dashboard events dispatched, by outcome",
	}, []string{"event", "outcome"})

	// validationFailures counts per-field validation failures on save.
	validationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carmasy",
		Subsystem: "dashboard",
		Name:      "validation_failures_total",
		Help:      "Registration form fields rejected on save",
	}, []string{"field"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "carmasy",
		Subsystem: "dashboard",
		Name:      "sessions_active",
		Help:      "Dashboard sessions currently held in memory",
	})
)
