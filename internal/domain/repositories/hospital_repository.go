package repositories

import (
	"context"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
)

// HospitalRepository defines the interface for hospital data operations
type HospitalRepository interface {
	// Create stores a new hospital and assigns it an ID
	Create(ctx context.Context, raw *entities.RawHospital) (string, error)

	// GetByID retrieves a hospital by ID
	GetByID(ctx context.Context, id string) (*entities.RawHospital, error)

	// Search retrieves hospitals matching the request, up to limit
	Search(ctx context.Context, req entities.SearchRequest, limit int) ([]entities.RawHospital, error)

	// List retrieves hospitals with pagination, for reindexing
	List(ctx context.Context, limit, offset int) ([]entities.RawHospital, error)
}

// HospitalSearchRepository defines the interface for the hospital search index (e.g. Typesense)
type HospitalSearchRepository interface {
	// SearchByName searches the index by hospital name
	SearchByName(ctx context.Context, term string, limit int) ([]entities.RawHospital, error)

	// Index adds or updates a hospital in the index
	Index(ctx context.Context, hospital *entities.Hospital) error

	// Delete removes a hospital from the index
	Delete(ctx context.Context, id string) error
}
