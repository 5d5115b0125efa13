package services

import (
	"errors"

	"wastewise-backend/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pickupTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wastewise",
		Subsystem: "pickup",
		Name:      "transitions_total",
		Help:      "Pickup transition attempts broken down by from, to and outcome.",
	}, []string{"from", "to", "outcome"})

	pickupConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wastewise",
		Subsystem: "pickup",
		Name:      "conflicts_total",
		Help:      "Transitions that lost the compare-and-set on status.",
	})

	pickupCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wastewise",
		Subsystem: "pickup",
		Name:      "created_total",
		Help:      "Pickup requests created broken down by request type.",
	}, []string{"request_type"})

	verificationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wastewise",
		Subsystem: "verification",
		Name:      "outcomes_total",
		Help:      "Verification Gate results broken down by outcome.",
	}, []string{"outcome"})
)

func recordTransition(from, to models.PickupStatus, err error) {
	pickupTransitions.WithLabelValues(string(from), string(to), outcomeOf(err)).Inc()
	if errors.Is(err, models.ErrConflict) {
		pickupConflicts.Inc()
	}
}

func recordVerification(err error) {
	verificationOutcomes.WithLabelValues(outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, models.ErrTokenMismatch):
		return "token_mismatch"
	case errors.Is(err, models.ErrForbidden):
		return "forbidden"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, models.ErrValidation):
		return "validation_error"
	case errors.Is(err, models.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
