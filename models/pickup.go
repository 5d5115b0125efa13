package models

import "time"

// RequestType is the waste category of a pickup request
type RequestType string

const (
	RequestTypeBulk    RequestType = "BULK"
	RequestTypeHazmat  RequestType = "HAZMAT"
	RequestTypeEWaste  RequestType = "E_WASTE"
	RequestTypePlastic RequestType = "PLASTIC"
	RequestTypePaper   RequestType = "PAPER"
	RequestTypeGlass   RequestType = "GLASS"
	RequestTypeMetal   RequestType = "METAL"
)

// RequestTypes lists every waste category in display order
var RequestTypes = []RequestType{
	RequestTypeBulk,
	RequestTypeHazmat,
	RequestTypeEWaste,
	RequestTypePlastic,
	RequestTypePaper,
	RequestTypeGlass,
	RequestTypeMetal,
}

// Valid reports whether t is a known waste category
func (t RequestType) Valid() bool {
	for _, known := range RequestTypes {
		if t == known {
			return true
		}
	}
	return false
}

// PickupStatus is the lifecycle state of a pickup request
type PickupStatus string

const (
	PickupStatusPending    PickupStatus = "PENDING"
	PickupStatusApproved   PickupStatus = "APPROVED"
	PickupStatusRejected   PickupStatus = "REJECTED"
	PickupStatusInProgress PickupStatus = "IN_PROGRESS"
	PickupStatusCompleted  PickupStatus = "COMPLETED"
)

// PickupStatuses lists every status in lifecycle order
var PickupStatuses = []PickupStatus{
	PickupStatusPending,
	PickupStatusApproved,
	PickupStatusRejected,
	PickupStatusInProgress,
	PickupStatusCompleted,
}

// Valid reports whether s is a known status
func (s PickupStatus) Valid() bool {
	for _, known := range PickupStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// HasCrew reports whether a record in status s must carry an assigned crew member
func (s PickupStatus) HasCrew() bool {
	return s == PickupStatusApproved || s == PickupStatusInProgress || s == PickupStatusCompleted
}

// Active reports whether s belongs in a crew member's active assignments
func (s PickupStatus) Active() bool {
	return s == PickupStatusApproved || s == PickupStatusInProgress
}

// Location is an optional geocoordinate pair
type Location struct {
	Latitude  float64 `json:"latitude" dynamodbav:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" dynamodbav:"longitude" validate:"gte=-180,lte=180"`
}

// PickupRequest is one resident's waste-collection request and its lifecycle state
type PickupRequest struct {
	ID             string       `json:"id" dynamodbav:"id"`
	RequestID      string       `json:"requestId" dynamodbav:"request_id"`
	RequestType    RequestType  `json:"requestType" dynamodbav:"request_type"`
	Description    string       `json:"description" dynamodbav:"description"`
	ScheduledDate  time.Time    `json:"scheduledDate" dynamodbav:"scheduled_date"`
	Location       *Location    `json:"location,omitempty" dynamodbav:"location,omitempty"`
	Status         PickupStatus `json:"status" dynamodbav:"status"`
	ResidentID     string       `json:"residentId" dynamodbav:"resident_id"`
	AssignedCrewID string       `json:"assignedCrewId,omitempty" dynamodbav:"assigned_crew_id,omitempty"`

	ApprovedAt      *time.Time `json:"approvedAt,omitempty" dynamodbav:"approved_at,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty" dynamodbav:"rejected_at,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty" dynamodbav:"rejection_reason,omitempty"`
	StartedAt       *time.Time `json:"startedAt,omitempty" dynamodbav:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty" dynamodbav:"completed_at,omitempty"`
	VerifiedBy      string     `json:"verifiedBy,omitempty" dynamodbav:"verified_by,omitempty"`
	ProofPhotoURL   string     `json:"proofPhotoUrl,omitempty" dynamodbav:"proof_photo_url,omitempty"`
	ProofPhotoHash  string     `json:"proofPhotoHash,omitempty" dynamodbav:"proof_photo_hash,omitempty"`

	Version   int       `json:"version" dynamodbav:"version"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// Clone returns a deep copy so callers never share mutable state with a store
func (p *PickupRequest) Clone() *PickupRequest {
	if p == nil {
		return nil
	}
	c := *p
	if p.Location != nil {
		loc := *p.Location
		c.Location = &loc
	}
	c.ApprovedAt = cloneTime(p.ApprovedAt)
	c.RejectedAt = cloneTime(p.RejectedAt)
	c.StartedAt = cloneTime(p.StartedAt)
	c.CompletedAt = cloneTime(p.CompletedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// PickupView is a pickup request with its resident and crew summaries embedded
type PickupView struct {
	*PickupRequest
	Resident     *PersonSummary `json:"resident,omitempty"`
	AssignedCrew *PersonSummary `json:"assignedCrew,omitempty"`
}

// CreatePickupRequest is the body of POST /resident/requests
type CreatePickupRequest struct {
	RequestType   RequestType `json:"requestType" validate:"required,oneof=BULK HAZMAT E_WASTE PLASTIC PAPER GLASS METAL" example:"E_WASTE"`
	Description   string      `json:"description" validate:"required,min=3,max=1000" example:"Old monitor and two keyboards"`
	ScheduledDate time.Time   `json:"scheduledDate" validate:"required" example:"2026-11-02T09:00:00Z"`
	Location      *Location   `json:"location,omitempty" validate:"omitempty"`
}

// AdminTransitionRequest is the body of PUT /admin/pickup-requests/{id}
type AdminTransitionRequest struct {
	Status         PickupStatus `json:"status" validate:"required" example:"APPROVED"`
	AssignedCrew   string       `json:"assignedCrew,omitempty" example:"5b1f0c9e-8a7d-4d55-9d61-3c6c3d3f2a10"`
	AssignedCrewID string       `json:"assignedCrewId,omitempty"`
	Reason         string       `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// CrewID returns whichever crew field the client populated
func (r *AdminTransitionRequest) CrewID() string {
	if r.AssignedCrew != "" {
		return r.AssignedCrew
	}
	return r.AssignedCrewID
}

// CompletePickupRequest is the JSON body of PUT /crew/pickup-requests/{id}/complete.
// An empty token is left to the verification gate.
type CompletePickupRequest struct {
	Token string `json:"token"`
}

// ProofPhoto is an optional image captured when completing a collection
type ProofPhoto struct {
	Filename    string
	ContentType string
	Data        []byte
}

// TransitionPayload carries the transition-specific inputs.
// Crew and Verification are resolved by the workflow engine, never by clients.
type TransitionPayload struct {
	CrewID string
	Reason string
	Token  string
	Photo  *ProofPhoto

	Crew         *Principal
	Verification *VerificationOutcome
}

// VerificationOutcome is the Verification Gate's answer for one token
type VerificationOutcome struct {
	Result *VerificationResult
	Err    error
}

// Passed reports whether the gate accepted the token
func (o *VerificationOutcome) Passed() bool {
	return o != nil && o.Err == nil && o.Result != nil
}

// TransitionChange is a validated status change handed to the store.
// The store applies it only if the record is still in From.
type TransitionChange struct {
	From           PickupStatus
	To             PickupStatus
	AssignedCrewID string
	Reason         string
	VerifiedBy     string
	ProofPhotoURL  string
	ProofPhotoHash string
	At             time.Time
}

// Apply writes the change into p. Callers must have checked p.Status == c.From.
func (c *TransitionChange) Apply(p *PickupRequest) {
	at := c.At
	p.Status = c.To
	p.UpdatedAt = at
	p.Version++
	switch c.To {
	case PickupStatusApproved:
		p.AssignedCrewID = c.AssignedCrewID
		p.ApprovedAt = &at
	case PickupStatusRejected:
		p.AssignedCrewID = ""
		p.RejectedAt = &at
		p.RejectionReason = c.Reason
	case PickupStatusInProgress:
		p.StartedAt = &at
	case PickupStatusCompleted:
		p.CompletedAt = &at
		p.VerifiedBy = c.VerifiedBy
		p.ProofPhotoURL = c.ProofPhotoURL
		p.ProofPhotoHash = c.ProofPhotoHash
	}
}

// PickupFilter narrows listAll results
type PickupFilter struct {
	Status         PickupStatus `json:"status,omitempty"`
	RequestType    RequestType  `json:"requestType,omitempty"`
	ResidentID     string       `json:"residentId,omitempty"`
	AssignedCrewID string       `json:"assignedCrewId,omitempty"`
	FromDate       time.Time    `json:"fromDate,omitempty"`
	ToDate         time.Time    `json:"toDate,omitempty"`
}

// Matches reports whether p passes the filter. Date bounds apply to ScheduledDate, inclusive.
func (f *PickupFilter) Matches(p *PickupRequest) bool {
	if f == nil {
		return true
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.RequestType != "" && p.RequestType != f.RequestType {
		return false
	}
	if f.ResidentID != "" && p.ResidentID != f.ResidentID {
		return false
	}
	if f.AssignedCrewID != "" && p.AssignedCrewID != f.AssignedCrewID {
		return false
	}
	if !f.FromDate.IsZero() && p.ScheduledDate.Before(f.FromDate) {
		return false
	}
	if !f.ToDate.IsZero() && p.ScheduledDate.After(f.ToDate) {
		return false
	}
	return true
}
