package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
	"github.com/carefinder-ng/carefinder/internal/domain/repositories"
	tsclient "github.com/carefinder-ng/carefinder/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements hospital name search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements HospitalSearchRepository
var _ repositories.HospitalSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the hospitals collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	return a.client.InitSchema(ctx)
}

// Index indexes a hospital
func (a *TypesenseAdapter) Index(ctx context.Context, hospital *entities.Hospital) error {
	if err := a.client.IndexHospital(ctx, documentFromHospital(hospital)); err != nil {
		return fmt.Errorf("failed to index hospital: %w", err)
	}

	return nil
}

// documentFromHospital flattens a canonical record into an index document.
// Contact fields ride along so index-served results carry the same payload
// as store-served ones.
func documentFromHospital(hospital *entities.Hospital) map[string]interface{} {
	return map[string]interface{}{
		"id":                hospital.ID,
		"name":              hospital.Name,
		"address":           hospital.Address,
		"phone":             hospital.Phone,
		"contact_number":    hospital.ContactNumber,
		"emails":            hospital.Email,
		"city":              hospital.City,
		"region":            hospital.Region,
		"specializations":   hospital.Specializations,
		"description":       hospital.Description,
		"functional_status": hospital.FunctionalStatus,
		"created_at":        hospital.CreatedAt.Unix(),
	}
}

// Delete removes a hospital from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.HospitalsCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete hospital from index: %w", err)
	}
	return nil
}

// SearchByName searches the index by hospital name with typo tolerance
func (a *TypesenseAdapter) SearchByName(ctx context.Context, term string, limit int) ([]entities.RawHospital, error) {
	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(term),
		QueryBy: pointer.String("name"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.HospitalsCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search hospitals: %w", err)
	}

	hospitals := []entities.RawHospital{}
	if result.Hits == nil {
		return hospitals, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		hospitals = append(hospitals, documentToRaw(*hit.Document))
	}

	return hospitals, nil
}

// documentToRaw rebuilds a raw record from an index document. Index hits are
// served as-is, so every field the response exposes must survive the round
// trip through documentFromHospital.
func documentToRaw(doc map[string]interface{}) entities.RawHospital {
	raw := entities.RawHospital{Source: entities.SourceDocument}

	if v, ok := doc["id"].(string); ok {
		raw.ID = v
	}
	if v, ok := doc["name"].(string); ok {
		raw.Name = v
	}
	if v, ok := doc["address"].(string); ok {
		raw.Address = v
	}
	if v, ok := doc["phone"].(string); ok {
		raw.Phone = v
	}
	if v, ok := doc["contact_number"].(string); ok {
		raw.ContactNumber = v
	}
	if v, ok := doc["city"].(string); ok {
		raw.City = v
	}
	if v, ok := doc["region"].(string); ok {
		raw.Region = v
	}
	if v, ok := doc["description"].(string); ok {
		raw.Description = v
	}
	if v, ok := doc["functional_status"].(string); ok {
		raw.FunctionalStatus = v
	}
	raw.Emails = stringSlice(doc["emails"])
	raw.Specializations = stringSlice(doc["specializations"])

	return raw
}

func stringSlice(value interface{}) []string {
	switch vals := value.(type) {
	case []string:
		return vals
	case []interface{}:
		var out []string
		for _, val := range vals {
			if s, ok := val.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
