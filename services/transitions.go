package services

import "wastewise-backend/models"

// transitions is the pickup lifecycle graph. A status absent from the map
// has no outgoing edges.
var transitions = map[models.PickupStatus][]models.PickupStatus{
	models.PickupStatusPending:    {models.PickupStatusApproved, models.PickupStatusRejected},
	models.PickupStatusApproved:   {models.PickupStatusInProgress},
	models.PickupStatusInProgress: {models.PickupStatusCompleted},
}

// CanTransition reports whether from -> to is an edge of the lifecycle graph
func CanTransition(from, to models.PickupStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s in one step
func NextStatuses(s models.PickupStatus) []models.PickupStatus {
	next := transitions[s]
	out := make([]models.PickupStatus, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether s has no outgoing edges
func IsTerminal(s models.PickupStatus) bool {
	return len(transitions[s]) == 0
}
