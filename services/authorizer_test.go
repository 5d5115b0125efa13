package services

import (
	"errors"
	"testing"

	"wastewise-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestTransitionsGraph(t *testing.T) {
	assert.True(t, CanTransition(models.PickupStatusPending, models.PickupStatusApproved))
	assert.True(t, CanTransition(models.PickupStatusPending, models.PickupStatusRejected))
	assert.True(t, CanTransition(models.PickupStatusApproved, models.PickupStatusInProgress))
	assert.True(t, CanTransition(models.PickupStatusInProgress, models.PickupStatusCompleted))

	assert.False(t, CanTransition(models.PickupStatusPending, models.PickupStatusCompleted))
	assert.False(t, CanTransition(models.PickupStatusApproved, models.PickupStatusRejected))
	assert.False(t, CanTransition(models.PickupStatusApproved, models.PickupStatusPending))

	assert.True(t, IsTerminal(models.PickupStatusRejected))
	assert.True(t, IsTerminal(models.PickupStatusCompleted))
	assert.False(t, IsTerminal(models.PickupStatusPending))

	for _, s := range models.PickupStatuses {
		assert.NotContains(t, NextStatuses(s), models.PickupStatusPending, "PENDING must never be re-entered")
	}
}

func TestAuthorize(t *testing.T) {
	admin := &models.Principal{ID: "a1", Role: models.UserRoleAdministrator}
	crew1 := &models.Principal{ID: "c1", Role: models.UserRoleCollectionCrewMember}
	crew2 := &models.Principal{ID: "c2", Role: models.UserRoleCollectionCrewMember}
	resident := &models.Principal{ID: "r1", Role: models.UserRoleResident}

	pending := &models.PickupRequest{ID: "p", Status: models.PickupStatusPending}
	approved := &models.PickupRequest{ID: "p", Status: models.PickupStatusApproved, AssignedCrewID: "c1"}
	inProgress := &models.PickupRequest{ID: "p", Status: models.PickupStatusInProgress, AssignedCrewID: "c1"}
	rejected := &models.PickupRequest{ID: "p", Status: models.PickupStatusRejected}
	completed := &models.PickupRequest{ID: "p", Status: models.PickupStatusCompleted, AssignedCrewID: "c1"}

	withCrew := &models.TransitionPayload{CrewID: "c1", Crew: crew1}
	verified := &models.TransitionPayload{Verification: &models.VerificationOutcome{Result: &models.VerificationResult{ResidentID: "r1"}}}
	mismatch := &models.TransitionPayload{Verification: &models.VerificationOutcome{Err: models.NewTokenMismatch("bad")}}
	expired := &models.TransitionPayload{Verification: &models.VerificationOutcome{Err: models.NewTokenExpired("old")}}

	tests := []struct {
		name    string
		actor   *models.Principal
		req     *models.PickupRequest
		desired models.PickupStatus
		payload *models.TransitionPayload
		want    []error
	}{
		{"admin approves with crew", admin, pending, models.PickupStatusApproved, withCrew, nil},
		{"admin rejects", admin, pending, models.PickupStatusRejected, nil, nil},
		{"admin approves without crew", admin, pending, models.PickupStatusApproved, &models.TransitionPayload{}, []error{models.ErrValidation}},
		{"admin approves with unresolved crew", admin, pending, models.PickupStatusApproved, &models.TransitionPayload{CrewID: "ghost"}, []error{models.ErrValidation}},
		{"admin approves with non-crew principal", admin, pending, models.PickupStatusApproved, &models.TransitionPayload{CrewID: "r1", Crew: resident}, []error{models.ErrValidation}},
		{"crew cannot approve", crew1, pending, models.PickupStatusApproved, withCrew, []error{models.ErrForbidden}},
		{"resident cannot reject", resident, pending, models.PickupStatusRejected, nil, []error{models.ErrForbidden}},
		{"admin cannot start", admin, approved, models.PickupStatusInProgress, nil, []error{models.ErrForbidden}},
		{"assigned crew starts", crew1, approved, models.PickupStatusInProgress, nil, nil},
		{"unassigned crew cannot start", crew2, approved, models.PickupStatusInProgress, nil, []error{models.ErrForbidden}},
		{"crew cannot start unassigned pending", crew1, pending, models.PickupStatusInProgress, nil, []error{models.ErrForbidden}},
		{"assigned crew completes with verification", crew1, inProgress, models.PickupStatusCompleted, verified, nil},
		{"completion without verification", crew1, inProgress, models.PickupStatusCompleted, nil, []error{models.ErrForbidden, models.ErrTokenMismatch}},
		{"completion with mismatched token", crew1, inProgress, models.PickupStatusCompleted, mismatch, []error{models.ErrForbidden, models.ErrTokenMismatch}},
		{"completion with expired token", crew1, inProgress, models.PickupStatusCompleted, expired, []error{models.ErrForbidden, models.ErrTokenExpired}},
		{"completing an approved request skips a step", crew1, approved, models.PickupStatusCompleted, verified, []error{models.ErrInvalidTransition}},
		{"rejected is terminal", admin, rejected, models.PickupStatusApproved, withCrew, []error{models.ErrInvalidTransition}},
		{"completed is terminal", admin, completed, models.PickupStatusRejected, nil, []error{models.ErrInvalidTransition}},
		{"approved cannot be rejected", admin, approved, models.PickupStatusRejected, nil, []error{models.ErrInvalidTransition}},
		{"role rule runs before edge rule", crew2, completed, models.PickupStatusCompleted, verified, []error{models.ErrForbidden}},
		{"edge rule runs before crew rule", admin, rejected, models.PickupStatusApproved, &models.TransitionPayload{}, []error{models.ErrInvalidTransition}},
		{"nobody moves back to pending", admin, approved, models.PickupStatusPending, nil, []error{models.ErrInvalidTransition}},
		{"residents never move to pending", resident, approved, models.PickupStatusPending, nil, []error{models.ErrForbidden}},
		{"missing principal", nil, pending, models.PickupStatusRejected, nil, []error{models.ErrForbidden}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.req, tt.desired, tt.payload)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			for _, kind := range tt.want {
				assert.True(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
			}
		})
	}
}

func TestAuthorize_CrewRequiredMessage(t *testing.T) {
	err := Authorize(
		&models.Principal{ID: "a1", Role: models.UserRoleAdministrator},
		&models.PickupRequest{Status: models.PickupStatusPending},
		models.PickupStatusApproved,
		&models.TransitionPayload{},
	)
	assert.EqualError(t, err, "crew required")
	assert.Equal(t, "assignedCrew", models.ErrorField(err))
}

func TestAuthorize_DoesNotMutateInputs(t *testing.T) {
	req := &models.PickupRequest{Status: models.PickupStatusPending}
	payload := &models.TransitionPayload{CrewID: "c1"}

	_ = Authorize(&models.Principal{ID: "a1", Role: models.UserRoleAdministrator}, req, models.PickupStatusApproved, payload)

	assert.Equal(t, models.PickupStatusPending, req.Status)
	assert.Empty(t, req.AssignedCrewID)
	assert.Nil(t, payload.Crew)
}
