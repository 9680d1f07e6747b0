package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
)

func TestHTTPClientSearchHospitals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/hospitals", r.URL.Path)
		assert.Equal(t, "lagos", r.URL.Query().Get("searchTerm"))
		assert.Equal(t, "location", r.URL.Query().Get("searchType"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]entities.Hospital{
			{ID: "h1", Name: "General Hospital Lagos", Location: "Lagos, Lagos"},
		})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL)
	hospitals, err := c.SearchHospitals(context.Background(), entities.SearchRequest{
		SearchTerm: "lagos",
		SearchType: entities.SearchTypeLocation,
	})

	require.NoError(t, err)
	require.Len(t, hospitals, 1)
	assert.Equal(t, "General Hospital Lagos", hospitals[0].Name)
}

func TestHTTPClientSearchHospitalsEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL)
	hospitals, err := c.SearchHospitals(context.Background(), entities.SearchRequest{
		SearchTerm: "nowhere",
		SearchType: entities.SearchTypeLocation,
	})

	require.NoError(t, err)
	assert.NotNil(t, hospitals)
	assert.Empty(t, hospitals)
}

func TestHTTPClientDecodesValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"validation failed","details":[{"field":"SearchType","message":"must be one of: location name specialization issue"}]}`))
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL)
	_, err := c.SearchHospitals(context.Background(), entities.SearchRequest{
		SearchTerm: "lagos",
		SearchType: "postcode",
	})

	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "validation failed", apiErr.Message)
	require.Len(t, apiErr.Violations, 1)
	assert.Equal(t, "SearchType", apiErr.Violations[0].Field)
}

func TestHTTPClientGetHospitalNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"hospital not found"}`))
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL)
	_, err := c.GetHospital(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestHTTPClientCreateHospital(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/hospitals", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req entities.CreateHospitalRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Garki Hospital", req.Name)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"hospital created","id":"abc-123"}`))
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL)
	id, err := c.CreateHospital(context.Background(), entities.CreateHospitalRequest{
		Name:        "Garki Hospital",
		Address:     "Tafawa Balewa Way, Area 3",
		Phone:       "+234 9 461 1234",
		City:        "Abuja",
		Region:      "FCT",
		Description: "District hospital",
	})

	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)
}

func TestHTTPClientServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"storage unavailable","message":"search query failed"}`))
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL)
	_, err := c.SearchHospitals(context.Background(), entities.SearchRequest{
		SearchTerm: "lagos",
		SearchType: entities.SearchTypeLocation,
	})

	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "storage unavailable", apiErr.Message)
	assert.Equal(t, "search query failed", apiErr.Detail)
}
