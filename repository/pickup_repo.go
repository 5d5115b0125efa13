package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wastewise-backend/dal"
	"wastewise-backend/models"
	"wastewise-backend/utils"
	"wastewise-backend/utils/logger"
)

const maxCodeAttempts = 5

// requestCode claims a human-readable code so it is never issued twice
type requestCode struct {
	Code      string    `dynamodbav:"code"`
	PickupID  string    `dynamodbav:"pickup_id"`
	ClaimedAt time.Time `dynamodbav:"claimed_at"`
}

type PickupRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

// NewPickupRepository creates a new DynamoDB-backed pickup request store
func NewPickupRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *PickupRepository {
	return &PickupRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *PickupRepository) table() string {
	return r.config.Table("pickups")
}

func (r *PickupRepository) codesTable() string {
	return r.config.Table("request_codes")
}

func (r *PickupRepository) Create(ctx context.Context, req *models.PickupRequest) (*models.PickupRequest, error) {
	now := time.Now().UTC()
	req.ID = utils.GenerateUUID()
	req.Status = models.PickupStatusPending
	req.AssignedCrewID = ""
	req.Version = 0
	req.CreatedAt = now
	req.UpdatedAt = now

	code, err := r.claimRequestCode(ctx, req.ID, now)
	if err != nil {
		return nil, err
	}
	req.RequestID = code

	if err := r.db.PutItemIfNotExists(ctx, r.table(), "id", req); err != nil {
		r.logger.Errorf("Failed to create pickup request: %v", err)
		return nil, fmt.Errorf("failed to create pickup request: %w", err)
	}

	r.logger.Infof("Pickup request created: %s (%s)", req.RequestID, req.ID)
	return req, nil
}

func (r *PickupRepository) claimRequestCode(ctx context.Context, pickupID string, at time.Time) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := utils.GenerateRequestCode()
		err := r.db.PutItemIfNotExists(ctx, r.codesTable(), "code", &requestCode{
			Code:      code,
			PickupID:  pickupID,
			ClaimedAt: at,
		})
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, dal.ErrConditionFailed) {
			return "", fmt.Errorf("failed to claim request code: %w", err)
		}
		r.logger.Warnf("Request code %s already issued, regenerating", code)
	}
	return "", fmt.Errorf("could not allocate a unique request code after %d attempts", maxCodeAttempts)
}

func (r *PickupRepository) Get(ctx context.Context, id string) (*models.PickupRequest, error) {
	var req models.PickupRequest
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.table(),
		KeyName:   "id",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &req)
	if errors.Is(err, dal.ErrItemNotFound) {
		return nil, models.NewNotFound("pickup request", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pickup request %s: %w", id, err)
	}
	return &req, nil
}

func (r *PickupRepository) ListForResident(ctx context.Context, residentID string) ([]*models.PickupRequest, error) {
	var reqs []*models.PickupRequest
	if err := r.db.QueryByIndex(ctx, r.table(), "resident-index", "resident_id", residentID, &reqs); err != nil {
		return nil, fmt.Errorf("failed to list requests for resident: %w", err)
	}
	sortBySchedule(reqs)
	return reqs, nil
}

func (r *PickupRepository) ListAll(ctx context.Context, filter *models.PickupFilter) ([]*models.PickupRequest, error) {
	var reqs []*models.PickupRequest
	var err error

	// Narrow with an index when the filter allows it, the rest is applied in memory
	switch {
	case filter != nil && filter.Status != "":
		err = r.db.QueryByIndex(ctx, r.table(), "status-index", "status", string(filter.Status), &reqs)
	case filter != nil && filter.ResidentID != "":
		err = r.db.QueryByIndex(ctx, r.table(), "resident-index", "resident_id", filter.ResidentID, &reqs)
	case filter != nil && filter.AssignedCrewID != "":
		err = r.db.QueryByIndex(ctx, r.table(), "crew-index", "assigned_crew_id", filter.AssignedCrewID, &reqs)
	default:
		err = r.db.Scan(ctx, r.table(), &reqs)
	}
	if err != nil {
		r.logger.Errorf("Failed to list pickup requests: %v", err)
		return nil, fmt.Errorf("failed to list pickup requests: %w", err)
	}

	result := make([]*models.PickupRequest, 0, len(reqs))
	for _, req := range reqs {
		if filter.Matches(req) {
			result = append(result, req)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (r *PickupRepository) ListAssignedToCrew(ctx context.Context, crewID string) ([]*models.PickupRequest, error) {
	var reqs []*models.PickupRequest
	if err := r.db.QueryByIndex(ctx, r.table(), "crew-index", "assigned_crew_id", crewID, &reqs); err != nil {
		return nil, fmt.Errorf("failed to list crew assignments: %w", err)
	}

	active := make([]*models.PickupRequest, 0, len(reqs))
	for _, req := range reqs {
		if req.Status.Active() {
			active = append(active, req)
		}
	}
	sortBySchedule(active)
	return active, nil
}

// ApplyTransition writes change only if the stored status still equals change.From
func (r *PickupRepository) ApplyTransition(ctx context.Context, id string, change *models.TransitionChange) (*models.PickupRequest, error) {
	at := change.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	set := map[string]interface{}{
		"status":     change.To,
		"updated_at": at,
	}
	var remove []string

	switch change.To {
	case models.PickupStatusApproved:
		set["assigned_crew_id"] = change.AssignedCrewID
		set["approved_at"] = at
	case models.PickupStatusRejected:
		set["rejected_at"] = at
		if change.Reason != "" {
			set["rejection_reason"] = change.Reason
		}
		remove = append(remove, "assigned_crew_id")
	case models.PickupStatusInProgress:
		set["started_at"] = at
	case models.PickupStatusCompleted:
		set["completed_at"] = at
		if change.VerifiedBy != "" {
			set["verified_by"] = change.VerifiedBy
		}
		if change.ProofPhotoURL != "" {
			set["proof_photo_url"] = change.ProofPhotoURL
		}
		if change.ProofPhotoHash != "" {
			set["proof_photo_hash"] = change.ProofPhotoHash
		}
	}

	var updated models.PickupRequest
	err := r.db.ConditionalUpdate(ctx, &models.ConditionalUpdate{
		TableName:      r.table(),
		KeyName:        "id",
		KeyValue:       id,
		Set:            set,
		Remove:         remove,
		Add:            map[string]int{"version": 1},
		ConditionField: "status",
		ConditionValue: change.From,
	}, &updated)

	if errors.Is(err, dal.ErrConditionFailed) {
		current, getErr := r.Get(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		r.logger.Warnf("Transition %s -> %s on %s lost the race, status is now %s", change.From, change.To, id, current.Status)
		return nil, models.NewConflict(fmt.Sprintf("pickup request %s is %s, expected %s", id, current.Status, change.From))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}

	r.logger.Infof("Pickup request %s moved %s -> %s", id, change.From, change.To)
	return &updated, nil
}
