package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
	"github.com/carefinder-ng/carefinder/internal/domain/providers"
)

// CacheInvalidationService invalidates cached HTTP responses when hospital
// records change, by listening on the event bus.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelHospitalUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to hospital updates: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Msg("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Info().Msg("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.HospitalEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent evicts cached responses the changed record could appear in:
// the per-hospital detail response and every cached search listing. Response
// cache keys carry the request path in plain text, so both evictions are
// plain glob matches against Redis.
func (s *CacheInvalidationService) handleEvent(event *entities.HospitalEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Debug().
		Str("event_id", event.ID).
		Str("hospital_id", event.HospitalID).
		Str("event_type", string(event.EventType)).
		Msg("Processing cache invalidation")

	if err := s.InvalidateHospitalCache(ctx, event.HospitalID); err != nil {
		log.Warn().Err(err).Str("hospital_id", event.HospitalID).Msg("Failed to invalidate hospital cache")
	}

	if err := s.InvalidateSearchCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate search caches")
	}
}

// InvalidateSearchCaches clears cached search listings: the HTTP responses
// for the collection route and the repository-level search cache.
func (s *CacheInvalidationService) InvalidateSearchCaches(ctx context.Context) error {
	patterns := []string{
		"http:cache:/api/hospitals:*",
		"hospitals:search:*",
	}

	for _, pattern := range patterns {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to invalidate pattern %s: %w", pattern, err)
		}
	}

	return nil
}

// InvalidateHospitalCache evicts the cached detail responses for one hospital.
// The trailing colon anchors the match so one id never sweeps out another id
// it happens to prefix.
func (s *CacheInvalidationService) InvalidateHospitalCache(ctx context.Context, hospitalID string) error {
	pattern := fmt.Sprintf("http:cache:*/hospitals/%s:*", hospitalID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		return fmt.Errorf("failed to invalidate hospital cache: %w", err)
	}
	return nil
}
