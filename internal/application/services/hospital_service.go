package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
	"github.com/carefinder-ng/carefinder/internal/domain/providers"
	"github.com/carefinder-ng/carefinder/internal/domain/repositories"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/observability"
	"github.com/carefinder-ng/carefinder/pkg/utils"
)

const (
	// MaxSearchResults caps every search response regardless of source mix.
	MaxSearchResults = 50

	defaultSearchTimeout = 5 * time.Second
)

// HospitalService handles business logic for hospital search and registration
type HospitalService struct {
	repo          repositories.HospitalRepository
	searchRepo    repositories.HospitalSearchRepository
	directory     providers.DirectoryProvider
	eventBus      providers.EventBus
	analytics     *SearchAnalyticsService
	searchTimeout time.Duration
}

// HospitalServiceOption configures a HospitalService
type HospitalServiceOption func(*HospitalService)

// WithSearchRepo attaches a name-search index
func WithSearchRepo(searchRepo repositories.HospitalSearchRepository) HospitalServiceOption {
	return func(s *HospitalService) { s.searchRepo = searchRepo }
}

// WithDirectory attaches an external directory provider
func WithDirectory(directory providers.DirectoryProvider) HospitalServiceOption {
	return func(s *HospitalService) { s.directory = directory }
}

// WithEventBus attaches an event bus for change notifications
func WithEventBus(eventBus providers.EventBus) HospitalServiceOption {
	return func(s *HospitalService) { s.eventBus = eventBus }
}

// WithAnalytics attaches search analytics tracking
func WithAnalytics(analytics *SearchAnalyticsService) HospitalServiceOption {
	return func(s *HospitalService) { s.analytics = analytics }
}

// WithSearchTimeout overrides the per-search deadline
func WithSearchTimeout(timeout time.Duration) HospitalServiceOption {
	return func(s *HospitalService) { s.searchTimeout = timeout }
}

// NewHospitalService creates a new hospital service
func NewHospitalService(repo repositories.HospitalRepository, opts ...HospitalServiceOption) *HospitalService {
	s := &HospitalService{
		repo:          repo,
		searchTimeout: defaultSearchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns normalized hospitals matching the request. Primary-store
// results come first; external directory listings fill any remaining
// capacity and are best-effort, so a directory outage never fails a search.
// An empty result is a valid outcome, not an error.
func (s *HospitalService) Search(ctx context.Context, req entities.SearchRequest) ([]entities.Hospital, error) {
	ctx, cancel := context.WithTimeout(ctx, s.searchTimeout)
	defer cancel()

	raws, err := s.searchPrimary(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.directory != nil && len(raws) < MaxSearchResults {
		external, dirErr := s.directory.Search(ctx, req, MaxSearchResults-len(raws))
		if dirErr != nil {
			observability.LoggerFromContext(ctx).Warn().Err(dirErr).
				Str("provider", s.directory.Name()).
				Msg("External directory search failed")
		} else {
			raws = append(raws, external...)
		}
	}

	if len(raws) > MaxSearchResults {
		raws = raws[:MaxSearchResults]
	}

	hospitals := entities.NormalizeAll(raws)

	if s.analytics != nil {
		s.analytics.TrackSearch(ctx, &entities.SearchEvent{
			SearchTerm:  req.SearchTerm,
			SearchType:  string(req.SearchType),
			ResultCount: len(hospitals),
		})
	}

	return hospitals, nil
}

// searchPrimary queries the primary store. Name searches go through the
// search index when one is wired, with the database as fallback.
func (s *HospitalService) searchPrimary(ctx context.Context, req entities.SearchRequest) ([]entities.RawHospital, error) {
	if req.SearchType == entities.SearchTypeName && s.searchRepo != nil {
		raws, err := s.searchRepo.SearchByName(ctx, req.SearchTerm, MaxSearchResults)
		if err == nil {
			return raws, nil
		}
		log.Warn().Err(err).Msg("Name index search failed, falling back to database")
	}

	return s.repo.Search(ctx, req, MaxSearchResults)
}

// Create stores a new hospital record, indexes it and announces the change.
// Indexing and event publication are eventually consistent; only the store
// write can fail the request.
func (s *HospitalService) Create(ctx context.Context, req entities.CreateHospitalRequest) (string, error) {
	raw := req.Raw()
	raw.Specializations = utils.NormalizeSpecializations(raw.Specializations)

	id, err := s.repo.Create(ctx, &raw)
	if err != nil {
		return "", err
	}
	raw.ID = id

	hospital := entities.Normalize(raw)
	if hospital.CreatedAt.IsZero() {
		hospital.CreatedAt = time.Now().UTC()
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, &hospital); err != nil {
			log.Warn().Err(err).Str("hospital_id", id).Msg("Failed to index hospital")
		}
	}

	if s.eventBus != nil {
		event := entities.NewHospitalEvent(id, entities.HospitalEventTypeCreated, hospital.Name)
		if err := s.eventBus.Publish(ctx, providers.EventChannelHospitalUpdates, event); err != nil {
			log.Warn().Err(err).Str("hospital_id", id).Msg("Failed to publish hospital event")
		}
	}

	return id, nil
}

// GetByID retrieves a single hospital in canonical form
func (s *HospitalService) GetByID(ctx context.Context, id string) (*entities.Hospital, error) {
	raw, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hospital := entities.Normalize(*raw)
	return &hospital, nil
}

// Reindex pushes every stored hospital into the search index in batches
func (s *HospitalService) Reindex(ctx context.Context, batchSize int) (int, error) {
	if s.searchRepo == nil {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	indexed := 0
	for offset := 0; ; offset += batchSize {
		raws, err := s.repo.List(ctx, batchSize, offset)
		if err != nil {
			return indexed, err
		}
		if len(raws) == 0 {
			return indexed, nil
		}

		for _, hospital := range entities.NormalizeAll(raws) {
			if err := s.searchRepo.Index(ctx, &hospital); err != nil {
				log.Warn().Err(err).Str("hospital_id", hospital.ID).Msg("Failed to index hospital")
				continue
			}
			indexed++
		}
	}
}
