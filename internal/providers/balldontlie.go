package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/courtwatch/stattracker/internal/models"
)

const ballDontLieBaseURL = "https://api.balldontlie.io/v1"

// BallDontLieClient reads the balldontlie stats API. Last in the fallback
// order; date-wide queries only.
type BallDontLieClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      Cache
	logger     *logrus.Logger
	baseURL    string
	apiKey     string
}

// NewBallDontLieClient creates a balldontlie client. The API requires a key;
// without one every fetch fails and the fallback moves on.
func NewBallDontLieClient(apiKey string, cache Cache, logger *logrus.Logger, timeout time.Duration) *BallDontLieClient {
	return &BallDontLieClient{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		cache:      cache,
		logger:     logger,
		baseURL:    ballDontLieBaseURL,
		apiKey:     apiKey,
	}
}

func (c *BallDontLieClient) Name() string { return SourceBallDontLie }

type bdlStatsResponse struct {
	Data []struct {
		Min    string  `json:"min"`
		Pts    *int    `json:"pts"`
		Reb    *int    `json:"reb"`
		Ast    *int    `json:"ast"`
		Stl    int     `json:"stl"`
		Blk    int     `json:"blk"`
		FGPct  float64 `json:"fg_pct"`
		FG3Pct float64 `json:"fg3_pct"`
		FTPct  float64 `json:"ft_pct"`
		Player struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		} `json:"player"`
		Team struct {
			Abbreviation string `json:"abbreviation"`
		} `json:"team"`
		Game struct {
			ID   int    `json:"id"`
			Date string `json:"date"`
		} `json:"game"`
	} `json:"data"`
	Meta struct {
		NextCursor *int `json:"next_cursor"`
	} `json:"meta"`
}

// FetchBoxscores returns all stat lines for the date. Game-scoped lookups are
// not supported; balldontlie game ids do not line up with the other providers.
func (c *BallDontLieClient) FetchBoxscores(ctx context.Context, date, gameID string) ([]models.StatRecord, error) {
	if gameID != "" {
		return nil, fmt.Errorf("game-scoped lookup not supported by balldontlie")
	}

	cacheKey := fmt.Sprintf("bdl:boxscores:%s", date)
	var cached []models.StatRecord
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return cached, nil
	}

	fetchedAt := utcTimestamp()
	var records []models.StatRecord
	cursor := 0
	for page := 0; page < 10; page++ { // hard stop; a full slate fits well inside
		resp, err := c.fetchStatsPage(ctx, date, cursor)
		if err != nil {
			return nil, err
		}

		for _, line := range resp.Data {
			if isDNP(line.Min) {
				continue
			}
			records = append(records, models.StatRecord{
				GameID:       fmt.Sprintf("%d", line.Game.ID),
				GameDate:     date,
				Player:       line.Player.FirstName + " " + line.Player.LastName,
				Team:         line.Team.Abbreviation,
				Pts:          line.Pts,
				Reb:          line.Reb,
				Ast:          line.Ast,
				Stl:          line.Stl,
				Blk:          line.Blk,
				FGPct:        line.FGPct,
				FG3Pct:       line.FG3Pct,
				FTPct:        line.FTPct,
				Min:          line.Min,
				Source:       SourceBallDontLie,
				TimestampUTC: fetchedAt,
			})
		}

		if resp.Meta.NextCursor == nil {
			break
		}
		cursor = *resp.Meta.NextCursor
	}

	if len(records) > 0 {
		c.cache.SetSimple(cacheKey, records, 15*time.Minute)
	}
	return records, nil
}

func (c *BallDontLieClient) fetchStatsPage(ctx context.Context, date string, cursor int) (*bdlStatsResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/stats?dates[]=%s&per_page=100", c.baseURL, url.QueryEscape(date))
	if cursor > 0 {
		u = fmt.Sprintf("%s&cursor=%d", u, cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var parsed bdlStatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}
