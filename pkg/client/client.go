package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
	apperrors "github.com/carefinder-ng/carefinder/pkg/errors"
)

// Client is the programmatic surface of the hospital API, for frontends and
// tooling that talk to a running instance.
type Client interface {
	SearchHospitals(ctx context.Context, req entities.SearchRequest) ([]entities.Hospital, error)
	GetHospital(ctx context.Context, id string) (*entities.Hospital, error)
	CreateHospital(ctx context.Context, req entities.CreateHospitalRequest) (string, error)
}

// HTTPClient implements Client against the REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the API at baseURL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// APIError is a non-2xx response decoded from the wire.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
	Violations []apperrors.FieldViolation
}

func (e *APIError) Error() string {
	if len(e.Violations) > 0 {
		parts := make([]string, 0, len(e.Violations))
		for _, v := range e.Violations {
			parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
		}
		return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, strings.Join(parts, "; "))
	}
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// SearchHospitals runs a search and returns normalized hospital records.
// An empty result is a nil-length slice, not an error.
func (c *HTTPClient) SearchHospitals(ctx context.Context, req entities.SearchRequest) ([]entities.Hospital, error) {
	params := url.Values{}
	params.Set("searchTerm", req.SearchTerm)
	params.Set("searchType", string(req.SearchType))

	var hospitals []entities.Hospital
	if err := c.doJSON(ctx, http.MethodGet, "/api/hospitals?"+params.Encode(), nil, &hospitals); err != nil {
		return nil, err
	}
	if hospitals == nil {
		hospitals = []entities.Hospital{}
	}
	return hospitals, nil
}

// GetHospital fetches a single hospital by id.
func (c *HTTPClient) GetHospital(ctx context.Context, id string) (*entities.Hospital, error) {
	var hospital entities.Hospital
	if err := c.doJSON(ctx, http.MethodGet, "/api/hospitals/"+url.PathEscape(id), nil, &hospital); err != nil {
		return nil, err
	}
	return &hospital, nil
}

// CreateHospital registers a new hospital and returns its assigned id.
// Creation is not idempotent; retrying a timed-out call may insert twice.
func (c *HTTPClient) CreateHospital(ctx context.Context, req entities.CreateHospitalRequest) (string, error) {
	var created struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/hospitals", req, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		apiErr.Message = resp.Status
		return apiErr
	}

	var payload struct {
		Error   string                     `json:"error"`
		Message string                     `json:"message"`
		Details []apperrors.FieldViolation `json:"details"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	apiErr.Message = payload.Error
	apiErr.Detail = payload.Message
	apiErr.Violations = payload.Details
	return apiErr
}
