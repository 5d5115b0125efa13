package repository

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"wastewise-backend/models"
	"wastewise-backend/utils/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MemoryPickupRepositoryTestSuite struct {
	suite.Suite
	repo *MemoryPickupRepository
	ctx  context.Context
}

func (s *MemoryPickupRepositoryTestSuite) SetupTest() {
	s.repo = NewMemoryPickupRepository(logger.NewLoggerWithOutput("error", "text", io.Discard))
	s.ctx = context.Background()
}

func (s *MemoryPickupRepositoryTestSuite) create(residentID string, scheduled time.Time) *models.PickupRequest {
	req, err := s.repo.Create(s.ctx, &models.PickupRequest{
		RequestType:   models.RequestTypePlastic,
		ScheduledDate: scheduled,
		ResidentID:    residentID,
	})
	s.Require().NoError(err)
	return req
}

func (s *MemoryPickupRepositoryTestSuite) TestCreateAssignsIdentityAndPending() {
	req := s.create("res-1", time.Now().Add(24*time.Hour))

	s.NotEmpty(req.ID)
	s.Regexp(`^REQ-[0-9A-F]{8}$`, req.RequestID)
	s.Equal(models.PickupStatusPending, req.Status)
	s.Empty(req.AssignedCrewID)
	s.Equal(0, req.Version)
}

func (s *MemoryPickupRepositoryTestSuite) TestGetReturnsCopies() {
	req := s.create("res-1", time.Now())

	got, err := s.repo.Get(s.ctx, req.ID)
	s.Require().NoError(err)
	got.Status = models.PickupStatusCompleted

	again, err := s.repo.Get(s.ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(models.PickupStatusPending, again.Status)
}

func (s *MemoryPickupRepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, "nope")
	s.True(errors.Is(err, models.ErrNotFound))
}

func (s *MemoryPickupRepositoryTestSuite) TestListForResidentOrderedBySchedule() {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	late := s.create("res-1", base.Add(72*time.Hour))
	early := s.create("res-1", base)
	s.create("res-2", base)

	reqs, err := s.repo.ListForResident(s.ctx, "res-1")
	s.Require().NoError(err)
	s.Require().Len(reqs, 2)
	s.Equal(early.ID, reqs[0].ID)
	s.Equal(late.ID, reqs[1].ID)
}

func (s *MemoryPickupRepositoryTestSuite) TestApplyTransitionAndCrewListing() {
	req := s.create("res-1", time.Now())

	approved, err := s.repo.ApplyTransition(s.ctx, req.ID, &models.TransitionChange{
		From:           models.PickupStatusPending,
		To:             models.PickupStatusApproved,
		AssignedCrewID: "crew-1",
	})
	s.Require().NoError(err)
	s.Equal(models.PickupStatusApproved, approved.Status)
	s.Equal("crew-1", approved.AssignedCrewID)
	s.Equal(1, approved.Version)
	s.NotNil(approved.ApprovedAt)

	assigned, err := s.repo.ListAssignedToCrew(s.ctx, "crew-1")
	s.Require().NoError(err)
	s.Len(assigned, 1)

	_, err = s.repo.ApplyTransition(s.ctx, req.ID, &models.TransitionChange{
		From: models.PickupStatusApproved,
		To:   models.PickupStatusInProgress,
	})
	s.Require().NoError(err)
	done, err := s.repo.ApplyTransition(s.ctx, req.ID, &models.TransitionChange{
		From:       models.PickupStatusInProgress,
		To:         models.PickupStatusCompleted,
		VerifiedBy: "res-1",
	})
	s.Require().NoError(err)
	s.Equal("crew-1", done.AssignedCrewID)
	s.Equal(3, done.Version)

	assigned, err = s.repo.ListAssignedToCrew(s.ctx, "crew-1")
	s.Require().NoError(err)
	s.Empty(assigned)
}

func (s *MemoryPickupRepositoryTestSuite) TestApplyTransitionStaleStatusConflicts() {
	req := s.create("res-1", time.Now())

	_, err := s.repo.ApplyTransition(s.ctx, req.ID, &models.TransitionChange{
		From: models.PickupStatusApproved,
		To:   models.PickupStatusInProgress,
	})
	s.True(errors.Is(err, models.ErrConflict))

	got, err := s.repo.Get(s.ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(models.PickupStatusPending, got.Status)
	s.Equal(0, got.Version)
}

func (s *MemoryPickupRepositoryTestSuite) TestRejectClearsCrew() {
	req := s.create("res-1", time.Now())

	rejected, err := s.repo.ApplyTransition(s.ctx, req.ID, &models.TransitionChange{
		From:   models.PickupStatusPending,
		To:     models.PickupStatusRejected,
		Reason: "outside service area",
	})
	s.Require().NoError(err)
	s.Empty(rejected.AssignedCrewID)
	s.Equal("outside service area", rejected.RejectionReason)
	s.NotNil(rejected.RejectedAt)
}

func (s *MemoryPickupRepositoryTestSuite) TestListAllFilters() {
	a := s.create("res-1", time.Now())
	s.create("res-2", time.Now())
	_, err := s.repo.ApplyTransition(s.ctx, a.ID, &models.TransitionChange{
		From: models.PickupStatusPending, To: models.PickupStatusRejected,
	})
	s.Require().NoError(err)

	all, err := s.repo.ListAll(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(all, 2)

	pending, err := s.repo.ListAll(s.ctx, &models.PickupFilter{Status: models.PickupStatusPending})
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal("res-2", pending[0].ResidentID)
}

func TestMemoryPickupRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryPickupRepositoryTestSuite))
}

func TestMemoryPickupRepository_ConcurrentTransitionsOneWinner(t *testing.T) {
	repo := NewMemoryPickupRepository(logger.NewLoggerWithOutput("error", "text", io.Discard))
	ctx := context.Background()

	req, err := repo.Create(ctx, &models.PickupRequest{ResidentID: "res-1", RequestType: models.RequestTypeBulk})
	require.NoError(t, err)

	const writers = 16
	var wg sync.WaitGroup
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		to := models.PickupStatusApproved
		if i%2 == 1 {
			to = models.PickupStatusRejected
		}
		wg.Add(1)
		go func(to models.PickupStatus) {
			defer wg.Done()
			_, err := repo.ApplyTransition(ctx, req.ID, &models.TransitionChange{
				From:           models.PickupStatusPending,
				To:             to,
				AssignedCrewID: "crew-1",
			})
			results <- err
		}(to)
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, models.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, writers-1, conflicts)

	final, err := repo.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, final.Version)
	if final.Status == models.PickupStatusRejected {
		assert.Empty(t, final.AssignedCrewID)
	} else {
		assert.Equal(t, "crew-1", final.AssignedCrewID)
	}
}
