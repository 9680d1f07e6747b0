package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
	"github.com/carefinder-ng/carefinder/internal/domain/repositories"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/clients/postgres"
	apperrors "github.com/carefinder-ng/carefinder/pkg/errors"
)

var hospitalColumns = []interface{}{
	"id", "name", "address", "phone", "contact_number", "emails",
	"city", "region", "specializations", "description",
	"latitude", "longitude", "functional_status", "created_at", "updated_at",
}

// HospitalAdapter implements the HospitalRepository interface
type HospitalAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewHospitalAdapter creates a new hospital adapter
func NewHospitalAdapter(client *postgres.Client) repositories.HospitalRepository {
	return &HospitalAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create stores a new hospital record and returns the assigned ID
func (a *HospitalAdapter) Create(ctx context.Context, raw *entities.RawHospital) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	emails := raw.Emails
	if len(emails) == 0 && raw.Email != "" {
		emails = []string{raw.Email}
	}

	record := goqu.Record{
		"id":                id,
		"name":              raw.Name,
		"address":           raw.Address,
		"phone":             sql.NullString{String: raw.Phone, Valid: raw.Phone != ""},
		"contact_number":    sql.NullString{String: raw.ContactNumber, Valid: raw.ContactNumber != ""},
		"emails":            pq.Array(emails),
		"city":              sql.NullString{String: raw.City, Valid: raw.City != ""},
		"region":            sql.NullString{String: raw.Region, Valid: raw.Region != ""},
		"specializations":   pq.Array(raw.Specializations),
		"description":       sql.NullString{String: raw.Description, Valid: raw.Description != ""},
		"latitude":          nullFloat(raw.Latitude),
		"longitude":         nullFloat(raw.Longitude),
		"functional_status": sql.NullString{String: raw.FunctionalStatus, Valid: raw.FunctionalStatus != ""},
		"created_at":        now,
		"updated_at":        now,
	}

	query, args, err := a.db.Insert("hospitals").Rows(record).ToSQL()
	if err != nil {
		return "", apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return "", storageError("failed to create hospital", err)
	}

	return id, nil
}

// GetByID retrieves a hospital record by ID
func (a *HospitalAdapter) GetByID(ctx context.Context, id string) (*entities.RawHospital, error) {
	query, args, err := a.db.Select(hospitalColumns...).
		From("hospitals").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	raw, err := scanHospital(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("hospital with id %s not found", id))
	}
	if err != nil {
		return nil, storageError("failed to get hospital", err)
	}

	return raw, nil
}

// Search retrieves hospital records matching the request, up to limit
func (a *HospitalAdapter) Search(ctx context.Context, req entities.SearchRequest, limit int) ([]entities.RawHospital, error) {
	predicate, err := BuildSearchPredicate(req)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build search predicate", err)
	}

	query, args, err := a.db.Select(hospitalColumns...).
		From("hospitals").
		Where(predicate).
		Order(goqu.C("name").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build search query", err)
	}

	return a.queryHospitals(ctx, query, args)
}

// List retrieves hospital records with pagination, for reindexing
func (a *HospitalAdapter) List(ctx context.Context, limit, offset int) ([]entities.RawHospital, error) {
	query, args, err := a.db.Select(hospitalColumns...).
		From("hospitals").
		Order(goqu.C("created_at").Asc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	return a.queryHospitals(ctx, query, args)
}

func (a *HospitalAdapter) queryHospitals(ctx context.Context, query string, args []interface{}) ([]entities.RawHospital, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("failed to query hospitals", err)
	}
	defer rows.Close()

	hospitals := []entities.RawHospital{}
	for rows.Next() {
		raw, err := scanHospital(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan hospital", err)
		}
		hospitals = append(hospitals, *raw)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("failed to read hospitals", err)
	}

	return hospitals, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHospital(row rowScanner) (*entities.RawHospital, error) {
	raw := &entities.RawHospital{Source: entities.SourceDocument}
	var phone, contactNumber, city, region, description, functionalStatus sql.NullString
	var latitude, longitude sql.NullFloat64

	err := row.Scan(
		&raw.ID,
		&raw.Name,
		&raw.Address,
		&phone,
		&contactNumber,
		pq.Array(&raw.Emails),
		&city,
		&region,
		pq.Array(&raw.Specializations),
		&description,
		&latitude,
		&longitude,
		&functionalStatus,
		&raw.CreatedAt,
		&raw.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	raw.Phone = phone.String
	raw.ContactNumber = contactNumber.String
	raw.City = city.String
	raw.Region = region.String
	raw.Description = description.String
	raw.FunctionalStatus = functionalStatus.String
	if latitude.Valid && longitude.Valid {
		raw.Latitude = &latitude.Float64
		raw.Longitude = &longitude.Float64
	}

	return raw, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// storageError classifies database failures as unavailability so the handler
// can answer with a storage error rather than blaming the request.
func storageError(msg string, err error) error {
	return apperrors.NewUnavailableError(msg, err)
}
