package entities

import (
	"strings"
	"time"
)

// RecordSource tags where a raw hospital record came from.
type RecordSource string

const (
	// SourceDocument marks a record owned by the primary hospital store.
	SourceDocument RecordSource = "document"

	// SourceExternal marks a listing from a secondary/external directory.
	// External records are non-authoritative and trigger the
	// register-this-provider affordance on the client.
	SourceExternal RecordSource = "external"
)

const (
	// DefaultFunctionalStatus is applied when a raw record carries no status.
	DefaultFunctionalStatus = "Unknown"

	// DefaultRegion fills in for records that name a city but no region, so
	// the synthesized location is always a full "city, region" pair.
	DefaultRegion = "Unknown"
)

// RawHospital is the tagged union over the heterogeneous shapes the two
// sources produce. Every field is optional: the primary store has emails as a
// list, external listings carry a single scalar email, and either side may
// omit city, region, coordinates or status entirely.
type RawHospital struct {
	Source           RecordSource
	ID               string
	Name             string
	Address          string
	Phone            string
	ContactNumber    string
	Email            string
	Emails           []string
	City             string
	Region           string
	Location         string
	Specializations  []string
	Description      string
	Latitude         *float64
	Longitude        *float64
	FunctionalStatus string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Normalize maps any raw shape into the canonical Hospital. It is total:
// missing fields degrade to safe defaults, never errors. It is also
// idempotent, so normalizing an already-canonical record changes nothing.
func Normalize(raw RawHospital) Hospital {
	h := Hospital{
		ID:          raw.ID,
		Name:        raw.Name,
		Address:     raw.Address,
		Phone:       raw.Phone,
		City:        raw.City,
		Region:      raw.Region,
		Description: raw.Description,
		IsExternal:  raw.Source == SourceExternal,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
	}

	// contactNumber takes precedence over phone for presentation.
	h.ContactNumber = raw.ContactNumber
	if h.ContactNumber == "" {
		h.ContactNumber = raw.Phone
	}

	// A scalar email becomes a single-element list; absent stays unset.
	switch {
	case len(raw.Emails) > 0:
		h.Email = append([]string(nil), raw.Emails...)
	case strings.TrimSpace(raw.Email) != "":
		h.Email = []string{raw.Email}
	}

	if h.City != "" && h.Region == "" {
		h.Region = DefaultRegion
	}

	h.Location = raw.Location
	if h.Location == "" {
		h.Location = joinLocation(h.City, h.Region)
	}
	if h.Location == "" {
		h.Location = raw.Address
	}

	h.Specializations = append([]string{}, raw.Specializations...)

	if raw.Latitude != nil && raw.Longitude != nil {
		h.Coordinates = &Coordinates{Latitude: *raw.Latitude, Longitude: *raw.Longitude}
	}

	h.FunctionalStatus = raw.FunctionalStatus
	if h.FunctionalStatus == "" {
		h.FunctionalStatus = DefaultFunctionalStatus
	}

	return h
}

// NormalizeAll maps a batch of raw records, preserving order.
func NormalizeAll(raws []RawHospital) []Hospital {
	hospitals := make([]Hospital, 0, len(raws))
	for _, raw := range raws {
		hospitals = append(hospitals, Normalize(raw))
	}
	return hospitals
}

func joinLocation(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}
