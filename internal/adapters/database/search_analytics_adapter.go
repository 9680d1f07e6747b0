package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
	"github.com/carefinder-ng/carefinder/internal/domain/repositories"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/clients/postgres"
	apperrors "github.com/carefinder-ng/carefinder/pkg/errors"
)

type SearchAnalyticsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

func NewSearchAnalyticsAdapter(client *postgres.Client) repositories.SearchAnalyticsRepository {
	return &SearchAnalyticsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func (a *SearchAnalyticsAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query, args, err := a.db.Insert("search_events").Rows(goqu.Record{
		"id":           event.ID,
		"search_term":  event.SearchTerm,
		"search_type":  event.SearchType,
		"result_count": event.ResultCount,
		"created_at":   event.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}

	return nil
}

func (a *SearchAnalyticsAdapter) GetZeroResultQueries(ctx context.Context, limit int) ([]entities.ZeroResultQuery, error) {
	if limit <= 0 {
		limit = 100
	}

	query, args, err := a.db.Select(
		goqu.C("search_term"),
		goqu.C("search_type"),
		goqu.COUNT("*").As("count"),
		goqu.MAX("created_at").As("last_seen"),
	).From("search_events").
		Where(goqu.Ex{"result_count": 0}).
		GroupBy("search_term", "search_type").
		Order(goqu.C("count").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get zero result queries", err)
	}
	defer rows.Close()

	queries := []entities.ZeroResultQuery{}
	for rows.Next() {
		var q entities.ZeroResultQuery
		if err := rows.Scan(&q.SearchTerm, &q.SearchType, &q.Count, &q.LastSeen); err != nil {
			return nil, apperrors.NewInternalError("failed to scan zero result query", err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read zero result queries", err)
	}

	return queries, nil
}
