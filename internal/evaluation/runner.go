package evaluation

import (
	"context"
	"time"

	"github.com/carefinder-ng/carefinder/internal/domain/entities"
)

const evalCutoff = 10

// SearchProvider is the slice of the hospital service the runner needs.
type SearchProvider interface {
	Search(ctx context.Context, req entities.SearchRequest) ([]entities.Hospital, error)
}

// Runner replays golden queries against a live search stack and scores the
// returned hospitals against the labeled expectations.
type Runner struct {
	search SearchProvider
}

func NewRunner(search SearchProvider) *Runner {
	return &Runner{search: search}
}

func (r *Runner) Run(ctx context.Context, queries []GoldenQuery) (*EvalSummary, error) {
	summary := &EvalSummary{
		TotalQueries: len(queries),
		BySearchType: make(map[entities.SearchType]*TypeSummary),
	}

	for _, gq := range queries {
		start := time.Now()
		hospitals, err := r.search.Search(ctx, entities.SearchRequest{
			SearchTerm: gq.SearchTerm,
			SearchType: gq.SearchType,
		})
		latency := time.Since(start)

		if err != nil {
			continue
		}

		retrieved := make([]string, len(hospitals))
		for i, h := range hospitals {
			retrieved[i] = h.ID
		}

		result := EvalResult{
			QueryID:      gq.ID,
			SearchTerm:   gq.SearchTerm,
			SearchType:   gq.SearchType,
			RecallAt10:   RecallAtK(gq.ExpectedIDs, retrieved, evalCutoff),
			MRRAt10:      MRRAtK(gq.ExpectedIDs, retrieved, evalCutoff),
			ResultCount:  len(hospitals),
			RetrievedIDs: retrieved,
			Latency:      latency,
		}

		r.updateSummary(summary, result)
	}

	r.finalizeSummary(summary)
	return summary, nil
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult) {
	s.AvgRecallAt10 += res.RecallAt10
	s.AvgMRRAt10 += res.MRRAt10
	s.AvgLatency += res.Latency
	if res.ResultCount > 0 {
		s.QueriesWithHits++
	}

	if _, ok := s.BySearchType[res.SearchType]; !ok {
		s.BySearchType[res.SearchType] = &TypeSummary{}
	}
	ts := s.BySearchType[res.SearchType]
	ts.Count++
	ts.AvgRecallAt10 += res.RecallAt10
	ts.AvgMRRAt10 += res.MRRAt10
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.TotalQueries > 0 {
		n := float64(s.TotalQueries)
		s.AvgRecallAt10 /= n
		s.AvgMRRAt10 /= n
		s.AvgLatency /= time.Duration(s.TotalQueries)
	}

	for _, ts := range s.BySearchType {
		if ts.Count > 0 {
			n := float64(ts.Count)
			ts.AvgRecallAt10 /= n
			ts.AvgMRRAt10 /= n
		}
	}
}
