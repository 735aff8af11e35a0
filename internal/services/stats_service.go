package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/courtwatch/stattracker/internal/models"
	"github.com/courtwatch/stattracker/internal/stats"
)

// BoxscoreFetcher is the slice of the fallback controller the stats service
// needs.
type BoxscoreFetcher interface {
	Fetch(ctx context.Context, date, gameID, forceSource string) models.FetchResult
}

// StatsResult is the payload for a threshold-filtered stats lookup. Success
// is false when every provider was exhausted; the absence of data is a
// normal outcome, not a server error.
type StatsResult struct {
	Success bool                `json:"success"`
	Date    string              `json:"date"`
	Source  string              `json:"source,omitempty"`
	Count   int                 `json:"count"`
	Players []stats.PlayerLine  `json:"players"`
	Filters stats.ThresholdSpec `json:"filters"`
	Errors  []string            `json:"errors,omitempty"`
}

// StatsService answers threshold queries over whatever box scores the
// fallback chain can produce.
type StatsService struct {
	fetcher BoxscoreFetcher
	logger  *logrus.Logger
}

func NewStatsService(fetcher BoxscoreFetcher, logger *logrus.Logger) *StatsService {
	return &StatsService{fetcher: fetcher, logger: logger}
}

// QualifiedPlayers fetches box scores for date and filters them against spec.
// An empty date means today; in that case, when today's slate yields no
// qualifying players (games not played yet), the lookup silently retries
// yesterday. An explicitly requested date is never substituted.
func (s *StatsService) QualifiedPlayers(ctx context.Context, date string, spec stats.ThresholdSpec) StatsResult {
	explicit := date != ""
	if !explicit {
		date = time.Now().UTC().Format("2006-01-02")
	}

	result := s.lookup(ctx, date, spec)
	if explicit || (result.Success && result.Count > 0) {
		return result
	}

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	s.logger.Infof("No qualifying players for %s, retrying %s", date, yesterday)

	retried := s.lookup(ctx, yesterday, spec)
	if retried.Success && retried.Count > 0 {
		return retried
	}
	// Prefer today's answer when the retry came up just as empty.
	if result.Success {
		return result
	}
	return retried
}

func (s *StatsService) lookup(ctx context.Context, date string, spec stats.ThresholdSpec) StatsResult {
	fetched := s.fetcher.Fetch(ctx, date, "", "")
	if !fetched.Success {
		return StatsResult{
			Date:    date,
			Players: []stats.PlayerLine{},
			Filters: spec,
			Errors:  fetched.Errors,
		}
	}

	lines := stats.QualifiedLines(fetched.Boxscores, spec)
	s.logger.Infof("Found %d players matching %s on %s", len(lines), spec.Summary(), date)
	return StatsResult{
		Success: true,
		Date:    date,
		Source:  fetched.Source,
		Count:   len(lines),
		Players: lines,
		Filters: spec,
	}
}
