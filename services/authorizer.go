package services

import (
	"wastewise-backend/models"
)

// Authorize decides whether actor may move req to desired. It has no side
// effects; crew resolution and the verification outcome must already be on
// payload. Rules run in order and the first failure wins:
//
//  1. role and assignment ownership (Forbidden)
//  2. edge validity (InvalidTransition)
//  3. crew present for approvals (ValidationError)
//  4. verification passed for completions (Forbidden wrapping the gate error)
func Authorize(actor *models.Principal, req *models.PickupRequest, desired models.PickupStatus, payload *models.TransitionPayload) error {
	if err := authorizeActor(actor, req, desired); err != nil {
		return err
	}

	if !CanTransition(req.Status, desired) {
		return models.NewInvalidTransition(req.Status, desired)
	}

	if payload == nil {
		payload = &models.TransitionPayload{}
	}

	switch desired {
	case models.PickupStatusApproved:
		crew := payload.Crew
		if payload.CrewID == "" || crew == nil || crew.ID != payload.CrewID || crew.Role != models.UserRoleCollectionCrewMember {
			return models.NewValidation("assignedCrew", "crew required")
		}
	case models.PickupStatusCompleted:
		if !payload.Verification.Passed() {
			cause := models.NewTokenMismatch("no verification token presented")
			if payload.Verification != nil && payload.Verification.Err != nil {
				cause = payload.Verification.Err
			}
			return models.NewVerificationFailed(cause)
		}
	}

	return nil
}

// authorizeActor is rule 1 on its own. The workflow engine runs it before
// the idempotent-replay check so a replay never leaks a record to a caller
// who could not have made the change.
func authorizeActor(actor *models.Principal, req *models.PickupRequest, desired models.PickupStatus) error {
	if actor == nil {
		return models.NewForbidden("no principal")
	}

	switch desired {
	case models.PickupStatusApproved, models.PickupStatusRejected:
		if actor.Role != models.UserRoleAdministrator {
			return models.NewForbidden("only administrators may approve or reject pickup requests")
		}
	case models.PickupStatusInProgress, models.PickupStatusCompleted:
		if actor.Role != models.UserRoleCollectionCrewMember {
			return models.NewForbidden("only collection crew members may start or complete pickups")
		}
		if req.AssignedCrewID == "" || req.AssignedCrewID != actor.ID {
			return models.NewForbidden("pickup request is not assigned to you")
		}
	default:
		// No role may move a request into PENDING or an unknown status
		if !actor.HasRole(models.UserRoleAdministrator, models.UserRoleCollectionCrewMember) {
			return models.NewForbidden("residents may not change pickup status")
		}
	}
	return nil
}
