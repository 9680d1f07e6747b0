package directory

import (
	"context"
	"strings"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
	"github.com/carefinder-ng/carefinder/internal/domain/providers"
)

// StaticProvider serves external listings from a bundled snapshot. It keeps
// the merged-search path alive in deployments with no directory API access.
type StaticProvider struct {
	listings []entities.RawHospital
}

var _ providers.DirectoryProvider = (*StaticProvider)(nil)

// NewStaticProvider creates a directory provider over the bundled listings
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{listings: bundledListings()}
}

// NewStaticProviderWithListings creates a provider over a custom listing set
func NewStaticProviderWithListings(listings []entities.RawHospital) *StaticProvider {
	return &StaticProvider{listings: listings}
}

func (p *StaticProvider) Name() string {
	return "static"
}

// Search filters the bundled listings with the same matching rules the
// primary store applies, so merged results behave consistently.
func (p *StaticProvider) Search(ctx context.Context, req entities.SearchRequest, limit int) ([]entities.RawHospital, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	term := strings.ToLower(req.SearchTerm)
	matches := []entities.RawHospital{}
	for _, listing := range p.listings {
		if matchesListing(listing, req.SearchType, term) {
			matches = append(matches, listing)
			if len(matches) >= limit {
				break
			}
		}
	}
	return matches, nil
}

func matchesListing(listing entities.RawHospital, searchType entities.SearchType, term string) bool {
	switch searchType {
	case entities.SearchTypeLocation:
		return containsFold(listing.City, term) ||
			containsFold(listing.Region, term) ||
			containsFold(listing.Address, term)
	case entities.SearchTypeName:
		return containsFold(listing.Name, term)
	case entities.SearchTypeSpecialization, entities.SearchTypeIssue:
		for _, s := range listing.Specializations {
			if containsFold(s, term) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func containsFold(haystack, lowered string) bool {
	return strings.Contains(strings.ToLower(haystack), lowered)
}

// bundledListings is a snapshot of well-known Nigerian hospitals that are not
// registered in the primary store.
func bundledListings() []entities.RawHospital {
	return []entities.RawHospital{
		{
			Source:           entities.SourceExternal,
			ID:               "ext-luth",
			Name:             "Lagos University Teaching Hospital",
			Address:          "Ishaga Road, Idi-Araba",
			Phone:            "+234 803 402 8276",
			Email:            "info@luth.gov.ng",
			City:             "Lagos",
			Region:           "Lagos State",
			Specializations:  []string{"cardiology", "oncology", "pediatrics", "surgery"},
			Description:      "Federal teaching hospital affiliated with the University of Lagos.",
			FunctionalStatus: "Functional",
		},
		{
			Source:           entities.SourceExternal,
			ID:               "ext-uch",
			Name:             "University College Hospital Ibadan",
			Address:          "Queen Elizabeth Road, Agodi",
			Phone:            "+234 802 360 1965",
			City:             "Ibadan",
			Region:           "Oyo State",
			Specializations:  []string{"internal medicine", "neurology", "radiology"},
			Description:      "Nigeria's premier teaching hospital, established 1957.",
			FunctionalStatus: "Functional",
		},
		{
			Source:           entities.SourceExternal,
			ID:               "ext-nhabuja",
			Name:             "National Hospital Abuja",
			Address:          "Plot 132 Central District",
			Phone:            "+234 909 111 1111",
			Email:            "enquiries@nationalhospital.gov.ng",
			City:             "Abuja",
			Region:           "FCT",
			Specializations:  []string{"cardiology", "orthopedics", "obstetrics"},
			Description:      "Tertiary referral hospital in the Federal Capital Territory.",
			FunctionalStatus: "Functional",
		},
		{
			Source:           entities.SourceExternal,
			ID:               "ext-abuth",
			Name:             "Ahmadu Bello University Teaching Hospital",
			Address:          "Shika, Zaria",
			City:             "Zaria",
			Region:           "Kaduna State",
			Specializations:  []string{"surgery", "ophthalmology", "psychiatry"},
			FunctionalStatus: "Functional",
		},
		{
			Source:          entities.SourceExternal,
			ID:              "ext-upth",
			Name:            "University of Port Harcourt Teaching Hospital",
			Address:         "East-West Road, Alakahia",
			City:            "Port Harcourt",
			Region:          "Rivers State",
			Specializations: []string{"nephrology", "urology", "pediatrics"},
		},
	}
}
