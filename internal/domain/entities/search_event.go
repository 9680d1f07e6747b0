package entities

import (
	"time"
)

// SearchEvent represents a single search interaction for analytics.
// Zero-result events drive the "suggest adding a provider" reporting.
type SearchEvent struct {
	ID          string    `json:"id" db:"id"`
	SearchTerm  string    `json:"search_term" db:"search_term"`
	SearchType  string    `json:"search_type" db:"search_type"`
	ResultCount int       `json:"result_count" db:"result_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ZeroResultQuery aggregates how often a search term produced no matches.
type ZeroResultQuery struct {
	SearchTerm string    `json:"search_term" db:"search_term"`
	SearchType string    `json:"search_type" db:"search_type"`
	Count      int       `json:"count" db:"count"`
	LastSeen   time.Time `json:"last_seen" db:"last_seen"`
}
