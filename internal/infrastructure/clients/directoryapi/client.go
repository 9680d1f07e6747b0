package directoryapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to an external hospital directory API. The directory is a
// read-only listing service, so the surface is search plus profile lookup.
type Client interface {
	SearchListings(ctx context.Context, req ListingSearchRequest) (*ListingSearchResponse, error)
	GetListing(ctx context.Context, listingID string) (*Listing, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

type ListingSearchRequest struct {
	Query  string
	Field  string
	Limit  int
	Offset int
}

type ListingSearchResponse struct {
	Data      []Listing        `json:"data"`
	Timestamp time.Time        `json:"timestamp"`
	Metadata  *ListingMetadata `json:"metadata"`
}

type ListingMetadata struct {
	Source  string `json:"source"`
	Count   int    `json:"count"`
	Total   int    `json:"total"`
	HasMore bool   `json:"hasMore,omitempty"`
}

// Listing is a hospital record as the directory API ships it.
type Listing struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Specializations []string `json:"specializations"`
	Address         struct {
		Street string `json:"street"`
		City   string `json:"city"`
		State  string `json:"state"`
	} `json:"address"`
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	PhoneNumber string    `json:"phoneNumber"`
	Email       string    `json:"email"`
	Status      string    `json:"status"`
	LastUpdated time.Time `json:"lastUpdated"`
	Source      string    `json:"source"`
}

func NewClient(baseURL string) *HTTPClient {
	trimmed := strings.TrimRight(baseURL, "/")
	return &HTTPClient{
		baseURL: trimmed,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) SearchListings(ctx context.Context, req ListingSearchRequest) (*ListingSearchResponse, error) {
	parsed, err := url.Parse(fmt.Sprintf("%s/listings", c.baseURL))
	if err != nil {
		return nil, err
	}

	query := parsed.Query()
	if req.Query != "" {
		query.Set("q", req.Query)
	}
	if req.Field != "" {
		query.Set("field", req.Field)
	}
	if req.Limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		query.Set("offset", fmt.Sprintf("%d", req.Offset))
	}
	parsed.RawQuery = query.Encode()

	out := &ListingSearchResponse{}
	if err := c.doJSON(ctx, http.MethodGet, parsed.String(), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetListing(ctx context.Context, listingID string) (*Listing, error) {
	if strings.TrimSpace(listingID) == "" {
		return nil, fmt.Errorf("listing id is required")
	}
	endpoint := fmt.Sprintf("%s/listings/%s", c.baseURL, url.PathEscape(listingID))
	out := &Listing{}
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, body io.Reader, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("directory api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return err
	}

	return nil
}
