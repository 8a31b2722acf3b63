// Package metrics exposes Prometheus counters for order activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by the counters
const (
	OutcomeApplied  = "applied"
	OutcomeConflict = "version_conflict"
	OutcomeError    = "error"
)

var (
	OrderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "curtainry",
		Name:      "order_transitions_total",
		Help:      "Lifecycle transition requests by action and outcome.",
	}, []string{"action", "outcome"})

	RoomAppends = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "curtainry",
		Name:      "room_appends_total",
		Help:      "Room measurement requests by outcome.",
	}, []string{"outcome"})

	PhotoUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "curtainry",
		Name:      "photo_uploads_total",
		Help:      "Site photo uploads by outcome.",
	}, []string{"outcome"})

	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "curtainry",
		Name:      "login_attempts_total",
		Help:      "Login attempts by role and outcome.",
	}, []string{"role", "outcome"})

	SessionMirrorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "curtainry",
		Name:      "session_mirror_failures_total",
		Help:      "Session mirror operations that failed and were ignored.",
	}, []string{"operation"})
)

// ObserveTransition counts one transition request
func ObserveTransition(action, outcome string) {
	OrderTransitions.WithLabelValues(action, outcome).Inc()
}

// ObserveRoomAppend counts one room measurement request
func ObserveRoomAppend(outcome string) {
	RoomAppends.WithLabelValues(outcome).Inc()
}

// ObservePhotoUpload counts one photo upload
func ObservePhotoUpload(outcome string) {
	PhotoUploads.WithLabelValues(outcome).Inc()
}

// ObserveLogin counts one login attempt
func ObserveLogin(role, outcome string) {
	LoginAttempts.WithLabelValues(role, outcome).Inc()
}

// ObserveSessionFailure counts a swallowed session mirror error
func ObserveSessionFailure(operation string) {
	SessionMirrorFailures.WithLabelValues(operation).Inc()
}
