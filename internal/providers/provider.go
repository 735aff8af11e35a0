package providers

import (
	"context"
	"errors"
	"time"

	"github.com/courtwatch/stattracker/internal/models"
)

// Source names, in fallback priority order.
const (
	SourceNBAAPI      = "NBA_API"
	SourceESPNAPI     = "ESPN_API"
	SourceBallDontLie = "BALLDONTLIE"
)

// Provider is a single external box score source. FetchBoxscores returns the
// normalized player lines for a date, optionally narrowed to one game.
type Provider interface {
	Name() string
	FetchBoxscores(ctx context.Context, date, gameID string) ([]models.StatRecord, error)
}

// Cache is the subset of the cache service the providers need. A nil-safe
// NopCache stands in when Redis is not configured.
type Cache interface {
	SetSimple(key string, value interface{}, expiration time.Duration) error
	GetSimple(key string, dest interface{}) error
}

var errCacheMiss = errors.New("cache miss")

// NopCache is a Cache that stores nothing and always misses.
type NopCache struct{}

func (NopCache) SetSimple(string, interface{}, time.Duration) error { return nil }
func (NopCache) GetSimple(string, interface{}) error                { return errCacheMiss }

// utcTimestamp is the fetched-at marker stamped on every record.
func utcTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000") + "Z"
}

// isDNP reports whether a minutes value means the player did not play.
func isDNP(minutes string) bool {
	switch minutes {
	case "", "0", "0:00", "0.0":
		return true
	}
	return false
}
