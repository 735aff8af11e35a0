package boxscore

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/courtwatch/stattracker/internal/models"
	"github.com/courtwatch/stattracker/internal/providers"
)

// Sink receives the winning batch for best-effort persistence. Persist must
// never fail the fetch path; implementations swallow their own errors.
type Sink interface {
	Persist(records []models.StatRecord, source, date string)
}

// Controller walks the providers in fixed priority order and returns the
// first batch that passes validation. Provider failures accumulate as errors;
// they never abort the overall call.
type Controller struct {
	providers []providers.Provider
	breakers  map[string]*gobreaker.CircuitBreaker
	sink      Sink
	logger    *logrus.Logger
}

// NewController builds the fallback chain. The provider slice order is the
// priority order. breakerThreshold is the consecutive-failure count that opens
// a provider's circuit; zero disables the breakers' trip condition.
func NewController(providerList []providers.Provider, sink Sink, logger *logrus.Logger, breakerThreshold int) *Controller {
	breakers := make(map[string]*gobreaker.CircuitBreaker, len(providerList))
	for _, p := range providerList {
		breakers[p.Name()] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: p.Name(),
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return breakerThreshold > 0 && counts.ConsecutiveFailures >= uint32(breakerThreshold)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warnf("Provider %s circuit breaker %s -> %s", name, from, to)
			},
		})
	}
	return &Controller{
		providers: providerList,
		breakers:  breakers,
		sink:      sink,
		logger:    logger,
	}
}

// Fetch runs the fallback chain for a date (optionally one game). A non-empty
// forceSource collapses the chain to that single provider; an unknown
// forceSource runs nothing and fails immediately.
func (c *Controller) Fetch(ctx context.Context, date, gameID, forceSource string) models.FetchResult {
	result := models.FetchResult{
		Date:      date,
		GameID:    gameID,
		Boxscores: []models.StatRecord{},
		Errors:    []string{},
	}

	chain := c.providers
	if forceSource != "" {
		chain = nil
		for _, p := range c.providers {
			if p.Name() == forceSource {
				chain = []providers.Provider{p}
				break
			}
		}
		if chain == nil {
			result.Errors = append(result.Errors, fmt.Sprintf("unknown source: %s", forceSource))
			return result
		}
	}

	for _, p := range chain {
		c.logger.Infof("Trying %s for %s", p.Name(), date)

		records, err := c.fetchFrom(ctx, p, date, gameID)
		if err != nil {
			msg := fmt.Sprintf("%s error: %v", p.Name(), err)
			c.logger.Warn(msg)
			result.Errors = append(result.Errors, msg)
			continue
		}

		if err := Validate(records); err != nil {
			msg := fmt.Sprintf("%s returned no valid data: %v", p.Name(), err)
			c.logger.Warn(msg)
			result.Errors = append(result.Errors, msg)
			continue
		}

		c.logger.Infof("%s returned %d player records", p.Name(), len(records))
		c.sink.Persist(records, p.Name(), date)

		result.Success = true
		result.Source = p.Name()
		result.Boxscores = records
		return result
	}

	result.Errors = append(result.Errors, "all sources failed to return valid box scores")
	return result
}

func (c *Controller) fetchFrom(ctx context.Context, p providers.Provider, date, gameID string) ([]models.StatRecord, error) {
	breaker := c.breakers[p.Name()]
	out, err := breaker.Execute(func() (interface{}, error) {
		return p.FetchBoxscores(ctx, date, gameID)
	})
	if err != nil {
		return nil, err
	}
	records, _ := out.([]models.StatRecord)
	return records, nil
}
