package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"wastewise-backend/events"
	"wastewise-backend/models"
	"wastewise-backend/repository"
	"wastewise-backend/storage"
	"wastewise-backend/utils"
	"wastewise-backend/utils/logger"
)

const publishTimeout = 5 * time.Second

// VerificationGate checks a scanned collection token against a pickup request
type VerificationGate interface {
	Verify(ctx context.Context, requestID, token string) (*models.VerificationResult, error)
}

// WorkflowService is the Workflow Engine: the single entrypoint for pickup status changes
type WorkflowService struct {
	pickups   repository.PickupRepositoryInterface
	users     repository.UserRepositoryInterface
	gate      VerificationGate
	proofs    storage.ProofStore
	publisher events.Publisher
	logger    logger.Logger
}

// NewWorkflowService wires the engine. proofs may be nil when photo storage is disabled.
func NewWorkflowService(
	pickups repository.PickupRepositoryInterface,
	users repository.UserRepositoryInterface,
	gate VerificationGate,
	proofs storage.ProofStore,
	publisher events.Publisher,
	log logger.Logger,
) *WorkflowService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &WorkflowService{
		pickups:   pickups,
		users:     users,
		gate:      gate,
		proofs:    proofs,
		publisher: publisher,
		logger:    log,
	}
}

// AttemptTransition moves requestID to desired on behalf of actor.
// It never retries: a lost race is returned as a Conflict.
func (s *WorkflowService) AttemptTransition(ctx context.Context, actor *models.Principal, requestID string, desired models.PickupStatus, payload *models.TransitionPayload) (*models.PickupRequest, error) {
	p := models.TransitionPayload{}
	if payload != nil {
		p = *payload
	}
	p.Crew = nil
	p.Verification = nil

	fields := map[string]interface{}{"pickup_id": requestID, "desired": desired}
	if actor != nil {
		fields["actor_id"] = actor.ID
		fields["actor_role"] = actor.Role
	}
	log := s.logger.WithFields(fields)

	req, err := s.pickups.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := authorizeActor(actor, req, desired); err != nil {
		recordTransition(req.Status, desired, err)
		log.Warnf("Transition refused: %v", err)
		return nil, err
	}

	if isReplay(req, desired, &p) {
		log.Info("Pickup request already in desired status, nothing to apply")
		return req, nil
	}

	if err := s.resolve(ctx, req, desired, &p); err != nil {
		recordTransition(req.Status, desired, err)
		return nil, err
	}

	if err := Authorize(actor, req, desired, &p); err != nil {
		recordTransition(req.Status, desired, err)
		log.Warnf("Transition refused: %v", err)
		return nil, err
	}

	change := &models.TransitionChange{
		From: req.Status,
		To:   desired,
		At:   time.Now().UTC(),
	}
	switch desired {
	case models.PickupStatusApproved:
		change.AssignedCrewID = p.Crew.ID
	case models.PickupStatusRejected:
		change.Reason = p.Reason
	case models.PickupStatusCompleted:
		change.VerifiedBy = p.Verification.Result.ResidentID
		if err := s.attachProof(ctx, req.ID, p.Photo, change); err != nil {
			recordTransition(req.Status, desired, err)
			return nil, err
		}
	}

	updated, err := s.pickups.ApplyTransition(ctx, req.ID, change)
	recordTransition(req.Status, desired, err)
	if err != nil {
		log.Warnf("Transition not applied: %v", err)
		return nil, err
	}

	log.Infof("Pickup request %s moved %s -> %s", updated.RequestID, change.From, change.To)
	s.publish(ctx, &models.PickupEvent{
		Type:           models.EventPickupStatusChanged,
		PickupID:       updated.ID,
		RequestID:      updated.RequestID,
		RequestType:    updated.RequestType,
		From:           change.From,
		To:             change.To,
		ResidentID:     updated.ResidentID,
		AssignedCrewID: updated.AssignedCrewID,
		ActorID:        actor.ID,
		ActorRole:      actor.Role,
		OccurredAt:     change.At,
	})
	return updated, nil
}

// isReplay reports whether req already reflects the requested change
func isReplay(req *models.PickupRequest, desired models.PickupStatus, p *models.TransitionPayload) bool {
	if req.Status != desired {
		return false
	}
	if desired == models.PickupStatusApproved {
		return p.CrewID == "" || p.CrewID == req.AssignedCrewID
	}
	return true
}

// resolve fills the payload fields the authorizer needs but cannot look up itself
func (s *WorkflowService) resolve(ctx context.Context, req *models.PickupRequest, desired models.PickupStatus, p *models.TransitionPayload) error {
	switch desired {
	case models.PickupStatusApproved:
		if p.CrewID == "" {
			return nil
		}
		crew, err := s.users.GetUserByID(ctx, p.CrewID)
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if crew.Role == models.UserRoleCollectionCrewMember && crew.Status == models.UserStatusActive {
			p.Crew = crew.Principal()
		}

	case models.PickupStatusCompleted:
		if !CanTransition(req.Status, desired) {
			return nil
		}
		result, err := s.gate.Verify(ctx, req.ID, p.Token)
		switch {
		case err == nil:
			p.Verification = &models.VerificationOutcome{Result: result}
		case errors.Is(err, models.ErrTokenMismatch), errors.Is(err, models.ErrTokenExpired):
			p.Verification = &models.VerificationOutcome{Err: err}
		default:
			return err
		}
	}
	return nil
}

func (s *WorkflowService) attachProof(ctx context.Context, pickupID string, photo *models.ProofPhoto, change *models.TransitionChange) error {
	if photo == nil || len(photo.Data) == 0 {
		return nil
	}

	sum := sha256.Sum256(photo.Data)
	change.ProofPhotoHash = hex.EncodeToString(sum[:])

	if s.proofs == nil {
		s.logger.Warnf("Proof photo for %s not stored, no photo storage configured", pickupID)
		return nil
	}
	url, err := s.proofs.UploadProof(ctx, pickupID, photo)
	if err != nil {
		return fmt.Errorf("failed to store proof photo: %w", err)
	}
	change.ProofPhotoURL = url
	return nil
}

// publish sends event without failing the caller; the transition is already durable
func (s *WorkflowService) publish(ctx context.Context, event *models.PickupEvent) {
	event.EventID = utils.GenerateUUID()

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, event); err != nil {
		s.logger.Errorf("Failed to publish %s for pickup %s: %v", event.Type, event.PickupID, err)
	}
}
