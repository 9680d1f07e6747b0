package entities

// SearchType is the dimension a hospital search is matched against.
type SearchType string

const (
	SearchTypeLocation       SearchType = "location"
	SearchTypeName           SearchType = "name"
	SearchTypeSpecialization SearchType = "specialization"

	// SearchTypeIssue is matched exactly like SearchTypeSpecialization.
	// Symptom search was never given its own matched field.
	SearchTypeIssue SearchType = "issue"
)

// SearchRequest carries the validated parameters of a hospital search.
type SearchRequest struct {
	SearchTerm string     `json:"searchTerm" validate:"required,min=1"`
	SearchType SearchType `json:"searchType" validate:"required,oneof=location name specialization issue"`
}

// CreateHospitalRequest is the payload for registering a new hospital record.
// The store assigns the id; isExternal, coordinates and functionalStatus are
// never client-supplied.
type CreateHospitalRequest struct {
	Name            string   `json:"name" validate:"required"`
	Address         string   `json:"address" validate:"required"`
	Phone           string   `json:"phone" validate:"required"`
	Email           string   `json:"email" validate:"omitempty,email"`
	City            string   `json:"city" validate:"required"`
	Region          string   `json:"region" validate:"required"`
	Description     string   `json:"description" validate:"required"`
	Specializations []string `json:"specializations" validate:"omitempty,dive,min=1"`
}

// Raw converts the create payload into a document-sourced raw record, ready
// for normalization and insert. The id is left empty for the store to assign.
func (r CreateHospitalRequest) Raw() RawHospital {
	return RawHospital{
		Source:          SourceDocument,
		Name:            r.Name,
		Address:         r.Address,
		Phone:           r.Phone,
		Email:           r.Email,
		City:            r.City,
		Region:          r.Region,
		Description:     r.Description,
		Specializations: r.Specializations,
	}
}
