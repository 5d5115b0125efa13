package models

import "time"

// WasteLevelReport aggregates pickup requests by category and status
type WasteLevelReport struct {
	FromDate    *time.Time           `json:"fromDate,omitempty"`
	ToDate      *time.Time           `json:"toDate,omitempty"`
	Total       int                  `json:"total"`
	ByType      map[RequestType]int  `json:"byType"`
	ByStatus    map[PickupStatus]int `json:"byStatus"`
	GeneratedAt time.Time            `json:"generatedAt"`
}
