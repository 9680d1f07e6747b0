package entities

import (
	"time"
)

// Hospital is the canonical client-facing record. Every raw shape, whether a
// row from the primary store or a listing from an external directory, is
// mapped into this one shape before it leaves the service.
type Hospital struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Address          string       `json:"address"`
	Phone            string       `json:"phone,omitempty"`
	ContactNumber    string       `json:"contactNumber,omitempty"`
	Email            []string     `json:"email,omitempty"`
	City             string       `json:"city,omitempty"`
	Region           string       `json:"region,omitempty"`
	Location         string       `json:"location"`
	Specializations  []string     `json:"specializations"`
	Description      string       `json:"description,omitempty"`
	Coordinates      *Coordinates `json:"coordinates,omitempty"`
	FunctionalStatus string       `json:"functionalStatus,omitempty"`
	IsExternal       bool         `json:"isExternal,omitempty"`
	CreatedAt        time.Time    `json:"-"`
	UpdatedAt        time.Time    `json:"-"`
}

// Coordinates represents a latitude/longitude pair
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DisplayPhone returns the number to show to users. Placeholder substitution
// is a presentation concern and is never baked into the stored record.
func (h *Hospital) DisplayPhone() string {
	if h.ContactNumber != "" {
		return h.ContactNumber
	}
	if h.Phone != "" {
		return h.Phone
	}
	return "Not provided"
}

// Raw converts an already-canonical record back into its raw representation.
// Round-tripping through Normalize is a no-op for canonical records.
func (h *Hospital) Raw() RawHospital {
	source := SourceDocument
	if h.IsExternal {
		source = SourceExternal
	}

	raw := RawHospital{
		Source:           source,
		ID:               h.ID,
		Name:             h.Name,
		Address:          h.Address,
		Phone:            h.Phone,
		ContactNumber:    h.ContactNumber,
		Emails:           h.Email,
		City:             h.City,
		Region:           h.Region,
		Location:         h.Location,
		Specializations:  h.Specializations,
		Description:      h.Description,
		FunctionalStatus: h.FunctionalStatus,
		CreatedAt:        h.CreatedAt,
		UpdatedAt:        h.UpdatedAt,
	}
	if h.Coordinates != nil {
		lat, lon := h.Coordinates.Latitude, h.Coordinates.Longitude
		raw.Latitude = &lat
		raw.Longitude = &lon
	}
	return raw
}
