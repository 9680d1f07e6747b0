package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/carefinder-ng/carefinder/internal/application/services"
	"github.com/carefinder-ng/carefinder/internal/domain/entities"
	apperrors "github.com/carefinder-ng/carefinder/pkg/errors"
)

// HospitalHandler handles hospital-related HTTP requests
type HospitalHandler struct {
	service  *services.HospitalService
	validate *validator.Validate
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(service *services.HospitalService) *HospitalHandler {
	return &HospitalHandler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// SearchHospitals handles GET /api/hospitals
func (h *HospitalHandler) SearchHospitals(w http.ResponseWriter, r *http.Request) {
	req := entities.SearchRequest{
		SearchTerm: r.URL.Query().Get("searchTerm"),
		SearchType: entities.SearchType(r.URL.Query().Get("searchType")),
	}

	if err := h.validate.Struct(req); err != nil {
		respondWithValidationError(w, translateValidationError(err))
		return
	}

	hospitals, err := h.service.Search(r.Context(), req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	// The response is always a plain array; no results means an empty one.
	respondWithJSON(w, http.StatusOK, hospitals)
}

// CreateHospital handles POST /api/hospitals
func (h *HospitalHandler) CreateHospital(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateHospitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithValidationError(w, apperrors.NewValidationError("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondWithValidationError(w, translateValidationError(err))
		return
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"message": "hospital created",
		"id":      id,
	})
}

// GetHospital handles GET /api/hospitals/{id}
func (h *HospitalHandler) GetHospital(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "hospital ID is required")
		return
	}

	hospital, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hospital)
}

// translateValidationError converts validator errors into the per-field
// violation payload the API promises.
func translateValidationError(err error) *apperrors.AppError {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("validation failed")
	}

	details := make([]apperrors.FieldViolation, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		details = append(details, apperrors.FieldViolation{
			Field:   fieldErr.Field(),
			Message: violationMessage(fieldErr),
		})
	}
	return apperrors.NewValidationError("validation failed", details...)
}

func violationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fieldErr.Param())
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
}

// respondWithAppError maps application errors onto the wire contract
func respondWithAppError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeValidation:
		respondWithValidationError(w, appErr)
	case apperrors.ErrorTypeUnavailable:
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "storage unavailable",
			"message": appErr.Message,
		})
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func respondWithValidationError(w http.ResponseWriter, appErr *apperrors.AppError) {
	payload := map[string]interface{}{
		"error": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		payload["details"] = appErr.Details
	}
	respondWithJSON(w, http.StatusBadRequest, payload)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
