package directory

import (
	"context"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
	"github.com/carefinder-ng/carefinder/internal/domain/providers"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/clients/directoryapi"
	apperrors "github.com/carefinder-ng/carefinder/pkg/errors"
)

// HTTPProvider serves external hospital listings from a remote directory API
type HTTPProvider struct {
	client directoryapi.Client
}

var _ providers.DirectoryProvider = (*HTTPProvider)(nil)

// NewHTTPProvider creates a directory provider backed by a remote API
func NewHTTPProvider(client directoryapi.Client) *HTTPProvider {
	return &HTTPProvider{client: client}
}

func (p *HTTPProvider) Name() string {
	return "http"
}

// Search queries the remote directory and maps its listings into raw records
func (p *HTTPProvider) Search(ctx context.Context, req entities.SearchRequest, limit int) ([]entities.RawHospital, error) {
	resp, err := p.client.SearchListings(ctx, directoryapi.ListingSearchRequest{
		Query: req.SearchTerm,
		Field: string(req.SearchType),
		Limit: limit,
	})
	if err != nil {
		return nil, apperrors.NewExternalError("directory search failed", err)
	}

	hospitals := make([]entities.RawHospital, 0, len(resp.Data))
	for _, listing := range resp.Data {
		hospitals = append(hospitals, listingToRaw(listing))
	}
	return hospitals, nil
}

func listingToRaw(listing directoryapi.Listing) entities.RawHospital {
	raw := entities.RawHospital{
		Source:           entities.SourceExternal,
		ID:               listing.ID,
		Name:             listing.Name,
		Address:          listing.Address.Street,
		Email:            listing.Email,
		Phone:            listing.PhoneNumber,
		City:             listing.Address.City,
		Region:           listing.Address.State,
		Specializations:  listing.Specializations,
		Description:      listing.Description,
		FunctionalStatus: listing.Status,
	}
	if listing.Location != nil {
		lat, lon := listing.Location.Latitude, listing.Location.Longitude
		raw.Latitude = &lat
		raw.Longitude = &lon
	}
	return raw
}
