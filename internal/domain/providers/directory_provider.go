package providers

import (
	"context"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
)

// DirectoryProvider defines the interface for external hospital directories.
// Results are raw records tagged with the external source so normalization
// can mark them as not locally registered.
type DirectoryProvider interface {
	// Search queries the directory for hospitals matching the request
	Search(ctx context.Context, req entities.SearchRequest, limit int) ([]entities.RawHospital, error)

	// Name identifies the provider for logging
	Name() string
}
