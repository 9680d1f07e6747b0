package evaluation

import (
	"time"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
)

// GoldenQuery is a labeled search with the hospital ids a good result set
// should contain.
type GoldenQuery struct {
	ID          string              `json:"id"`
	SearchTerm  string              `json:"search_term"`
	SearchType  entities.SearchType `json:"search_type"`
	ExpectedIDs []string            `json:"expected_hospital_ids"`
	Difficulty  string              `json:"difficulty"` // easy, medium, hard
}

// EvalResult holds the outcome for a single golden query.
type EvalResult struct {
	QueryID      string
	SearchTerm   string
	SearchType   entities.SearchType
	RecallAt10   float64
	MRRAt10      float64
	ResultCount  int
	RetrievedIDs []string
	Latency      time.Duration
}

// EvalSummary aggregates metrics across a golden query set.
type EvalSummary struct {
	TotalQueries    int
	AvgRecallAt10   float64
	AvgMRRAt10      float64
	AvgLatency      time.Duration
	QueriesWithHits int // queries that returned at least 1 result
	BySearchType    map[entities.SearchType]*TypeSummary
}

// TypeSummary holds metrics grouped by search type.
type TypeSummary struct {
	Count         int
	AvgRecallAt10 float64
	AvgMRRAt10    float64
}
