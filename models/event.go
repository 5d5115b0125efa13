package models

import "time"

// Event types published on the integration exchange
const (
	EventPickupCreated       = "pickup.created"
	EventPickupStatusChanged = "pickup.status_changed"
)

// PickupEvent is the message published for each pickup lifecycle change
type PickupEvent struct {
	EventID        string       `json:"eventId"`
	Type           string       `json:"type"`
	PickupID       string       `json:"pickupId"`
	RequestID      string       `json:"requestId"`
	RequestType    RequestType  `json:"requestType"`
	From           PickupStatus `json:"from,omitempty"`
	To             PickupStatus `json:"to"`
	ResidentID     string       `json:"residentId"`
	AssignedCrewID string       `json:"assignedCrewId,omitempty"`
	ActorID        string       `json:"actorId"`
	ActorRole      UserRole     `json:"actorRole"`
	OccurredAt     time.Time    `json:"occurredAt"`
}
