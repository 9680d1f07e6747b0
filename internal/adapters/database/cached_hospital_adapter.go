package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
	"github.com/carefinder-ng/carefinder/internal/domain/providers"
	"github.com/carefinder-ng/carefinder/internal/domain/repositories"
)

// CachedHospitalAdapter wraps a HospitalRepository with read-through caching
type CachedHospitalAdapter struct {
	adapter repositories.HospitalRepository
	cache   providers.CacheProvider
}

// NewCachedHospitalAdapter creates a new cached hospital adapter
func NewCachedHospitalAdapter(adapter repositories.HospitalRepository, cache providers.CacheProvider) repositories.HospitalRepository {
	return &CachedHospitalAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	hospitalByIDTTL  = 300 // 5 minutes for single hospital
	searchResultsTTL = 120 // 2 minutes for search results
)

func hospitalCacheKey(id string) string {
	return fmt.Sprintf("hospital:%s", id)
}

func searchCacheKey(req entities.SearchRequest, limit int) string {
	return fmt.Sprintf("hospitals:search:%s:%s:%d", req.SearchType, req.SearchTerm, limit)
}

// GetByID retrieves a hospital record by ID with caching
func (a *CachedHospitalAdapter) GetByID(ctx context.Context, id string) (*entities.RawHospital, error) {
	cacheKey := hospitalCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var raw entities.RawHospital
		if err := json.Unmarshal(cached, &raw); err == nil {
			return &raw, nil
		}
		log.Warn().Str("hospital_id", id).Msg("Failed to unmarshal cached hospital")
	}

	raw, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(raw); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, hospitalByIDTTL); err != nil {
				log.Warn().Err(err).Str("hospital_id", id).Msg("Failed to cache hospital")
			}
		}
	}()

	return raw, nil
}

// Search retrieves matching hospital records with caching
func (a *CachedHospitalAdapter) Search(ctx context.Context, req entities.SearchRequest, limit int) ([]entities.RawHospital, error) {
	cacheKey := searchCacheKey(req, limit)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var hospitals []entities.RawHospital
		if err := json.Unmarshal(cached, &hospitals); err == nil {
			return hospitals, nil
		}
		log.Warn().Msg("Failed to unmarshal cached search results")
	}

	hospitals, err := a.adapter.Search(ctx, req, limit)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(hospitals); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, searchResultsTTL); err != nil {
				log.Warn().Err(err).Msg("Failed to cache search results")
			}
		}
	}()

	return hospitals, nil
}

// Create stores a hospital record and invalidates search caches
func (a *CachedHospitalAdapter) Create(ctx context.Context, raw *entities.RawHospital) (string, error) {
	id, err := a.adapter.Create(ctx, raw)
	if err != nil {
		return "", err
	}

	// Invalidate search caches asynchronously
	go func() {
		bgCtx := context.Background()
		if err := a.cache.DeletePattern(bgCtx, "hospitals:search:*"); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate hospital search cache")
		}
	}()

	return id, nil
}

// List passes through to the underlying adapter; reindex scans are not cached
func (a *CachedHospitalAdapter) List(ctx context.Context, limit, offset int) ([]entities.RawHospital, error) {
	return a.adapter.List(ctx, limit, offset)
}
