package repositories

import (
	"context"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
)

type SearchAnalyticsRepository interface {
	LogEvent(ctx context.Context, event *entities.SearchEvent) error
	GetZeroResultQueries(ctx context.Context, limit int) ([]entities.ZeroResultQuery, error)
}
