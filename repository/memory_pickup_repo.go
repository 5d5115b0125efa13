package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wastewise-backend/models"
	"wastewise-backend/utils"
	"wastewise-backend/utils/logger"
)

// MemoryPickupRepository is an in-process Pickup Request Store.
// Records are cloned on the way in and out; a transition holds the write lock
// for its compare-and-set so concurrent writers serialize per store.
type MemoryPickupRepository struct {
	mu       sync.RWMutex
	requests map[string]*models.PickupRequest
	codes    map[string]string
	logger   logger.Logger
}

func NewMemoryPickupRepository(log logger.Logger) *MemoryPickupRepository {
	return &MemoryPickupRepository{
		requests: make(map[string]*models.PickupRequest),
		codes:    make(map[string]string),
		logger:   log,
	}
}

func (r *MemoryPickupRepository) Create(ctx context.Context, req *models.PickupRequest) (*models.PickupRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	req.ID = utils.GenerateUUID()
	req.Status = models.PickupStatusPending
	req.AssignedCrewID = ""
	req.Version = 0
	req.CreatedAt = now
	req.UpdatedAt = now

	code := ""
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		candidate := utils.GenerateRequestCode()
		if _, taken := r.codes[candidate]; !taken {
			code = candidate
			break
		}
	}
	if code == "" {
		return nil, fmt.Errorf("could not allocate a unique request code after %d attempts", maxCodeAttempts)
	}
	req.RequestID = code

	r.codes[code] = req.ID
	r.requests[req.ID] = req.Clone()

	r.logger.Infof("Pickup request created: %s (%s)", req.RequestID, req.ID)
	return req.Clone(), nil
}

func (r *MemoryPickupRepository) Get(ctx context.Context, id string) (*models.PickupRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, models.NewNotFound("pickup request", id)
	}
	return req.Clone(), nil
}

func (r *MemoryPickupRepository) ListForResident(ctx context.Context, residentID string) ([]*models.PickupRequest, error) {
	reqs := r.collect(func(p *models.PickupRequest) bool {
		return p.ResidentID == residentID
	})
	sortBySchedule(reqs)
	return reqs, nil
}

func (r *MemoryPickupRepository) ListAll(ctx context.Context, filter *models.PickupFilter) ([]*models.PickupRequest, error) {
	reqs := r.collect(filter.Matches)
	sortNewestFirst(reqs)
	return reqs, nil
}

func (r *MemoryPickupRepository) ListAssignedToCrew(ctx context.Context, crewID string) ([]*models.PickupRequest, error) {
	reqs := r.collect(func(p *models.PickupRequest) bool {
		return p.AssignedCrewID == crewID && p.Status.Active()
	})
	sortBySchedule(reqs)
	return reqs, nil
}

func (r *MemoryPickupRepository) ApplyTransition(ctx context.Context, id string, change *models.TransitionChange) (*models.PickupRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.requests[id]
	if !ok {
		return nil, models.NewNotFound("pickup request", id)
	}
	if current.Status != change.From {
		r.logger.Warnf("Transition %s -> %s on %s lost the race, status is now %s", change.From, change.To, id, current.Status)
		return nil, models.NewConflict(fmt.Sprintf("pickup request %s is %s, expected %s", id, current.Status, change.From))
	}

	applied := *change
	if applied.At.IsZero() {
		applied.At = time.Now().UTC()
	}
	next := current.Clone()
	applied.Apply(next)
	r.requests[id] = next

	r.logger.Infof("Pickup request %s moved %s -> %s", id, change.From, change.To)
	return next.Clone(), nil
}

func (r *MemoryPickupRepository) collect(keep func(*models.PickupRequest) bool) []*models.PickupRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.PickupRequest, 0)
	for _, p := range r.requests {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}
