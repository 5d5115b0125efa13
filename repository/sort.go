package repository

import (
	"sort"

	"wastewise-backend/models"
)

// sortBySchedule orders requests by scheduled date, then creation time
func sortBySchedule(reqs []*models.PickupRequest) {
	sort.SliceStable(reqs, func(i, j int) bool {
		if !reqs[i].ScheduledDate.Equal(reqs[j].ScheduledDate) {
			return reqs[i].ScheduledDate.Before(reqs[j].ScheduledDate)
		}
		return reqs[i].CreatedAt.Before(reqs[j].CreatedAt)
	})
}

// sortNewestFirst orders requests by creation time, newest first
func sortNewestFirst(reqs []*models.PickupRequest) {
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
}
