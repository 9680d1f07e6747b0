package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
	"github.com/carefinder-ng/carefinder/internal/domain/repositories"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/observability"
)

type SearchAnalyticsService struct {
	repo    repositories.SearchAnalyticsRepository
	metrics *observability.Metrics
}

func NewSearchAnalyticsService(repo repositories.SearchAnalyticsRepository) *SearchAnalyticsService {
	return &SearchAnalyticsService{repo: repo}
}

// SetMetrics enables OpenTelemetry search counters alongside the stored events.
func (s *SearchAnalyticsService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// TrackSearch records a search event in the background so the user request
// never waits on analytics. A fresh context is used because the request
// context may already be cancelled by the time the write runs.
func (s *SearchAnalyticsService) TrackSearch(ctx context.Context, event *entities.SearchEvent) {
	if s.metrics != nil {
		observability.RecordSearchMetric(ctx, s.metrics, event.SearchType, event.ResultCount)
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.LogEvent(bgCtx, event); err != nil {
			log.Warn().Err(err).Msg("Failed to log search event")
		}
	}()
}

func (s *SearchAnalyticsService) GetZeroResultQueries(ctx context.Context, limit int) ([]entities.ZeroResultQuery, error) {
	return s.repo.GetZeroResultQueries(ctx, limit)
}
