package models

import "time"

// Snapshot is one recorded point-in-time view of the overall aggregation,
// kept so operators can compare review quality across fetches.
type Snapshot struct {
	ID                int64
	Source            string // "api" or "mock"
	ConversationCount int
	ReviewerCount     int
	TrainerCount      int
	DimensionCount    int
	AverageScore      *float64 // mean of per-dimension averages, nil when none
	FetchedAt         time.Time
}
