// Package metrics holds the Prometheus collectors of the bot. They are
// registered on the default registry and served by the ops HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mysticmatch"

var (
	// RegistrationsCompleted counts profiles committed at the end of registration.
	RegistrationsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "registration",
		Name:      "completed_total",
		Help:      "Profiles created by finishing registration",
	})

	// Swipes counts recorded decisions.
	// Labels: decision (like, pass)
	Swipes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "matchmaking",
		Name:      "swipes_total",
		Help:      "Recorded like/pass decisions",
	}, []string{"decision"})

	// Matches counts newly created matches.
	Matches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "matchmaking",
		Name:      "matches_total",
		Help:      "Matches created from mutual likes",
	})

	// ChatMessages counts relay attempts.
	// Labels: result (sent, rejected)
	ChatMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chat",
		Name:      "messages_total",
		Help:      "Chat relay attempts by outcome",
	}, []string{"result"})

	// Updates counts inbound bot updates.
	// Labels: kind (command, text, photo, callback), status (ok, error)
	Updates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bot",
		Name:      "updates_total",
		Help:      "Inbound updates handled by the bot",
	}, []string{"kind", "status"})
)

// Decision returns the swipes label value.
func Decision(liked bool) string {
	if liked {
		return "like"
	}
	return "pass"
}
