package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/courtwatch/stattracker/internal/models"
)

const espnBaseURL = "https://site.api.espn.com/apis/site/v2/sports/basketball/nba"

// ESPNClient reads ESPN's public NBA JSON API. Second in the fallback order,
// and the source for the daily schedule.
type ESPNClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      Cache
	logger     *logrus.Logger
	baseURL    string
}

// NewESPNClient creates an ESPN public API client.
func NewESPNClient(cache Cache, logger *logrus.Logger, timeout time.Duration) *ESPNClient {
	return &ESPNClient{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		cache:      cache,
		logger:     logger,
		baseURL:    espnBaseURL,
	}
}

func (c *ESPNClient) Name() string { return SourceESPNAPI }

type espnScoreboardResponse struct {
	Events []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Date   string `json:"date"`
		Status struct {
			Type struct {
				Description string `json:"description"`
				State       string `json:"state"`
			} `json:"type"`
		} `json:"status"`
		Competitions []struct {
			Competitors []struct {
				ID       string `json:"id"`
				HomeAway string `json:"homeAway"`
				Score    string `json:"score"`
				Team     struct {
					ID           string `json:"id"`
					DisplayName  string `json:"displayName"`
					Abbreviation string `json:"abbreviation"`
					Logo         string `json:"logo"`
				} `json:"team"`
				Records []struct {
					Summary string `json:"summary"`
				} `json:"records"`
			} `json:"competitors"`
		} `json:"competitions"`
	} `json:"events"`
}

type espnBoxscoreResponse struct {
	Boxscore struct {
		Teams   []espnTeamBlock `json:"teams"`
		Players []espnTeamBlock `json:"players"`
	} `json:"boxscore"`
}

type espnTeamBlock struct {
	Team struct {
		DisplayName  string `json:"displayName"`
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
	Statistics []struct {
		Athletes []struct {
			Athlete struct {
				DisplayName string `json:"displayName"`
			} `json:"athlete"`
			Stats []struct {
				Name         string `json:"name"`
				DisplayValue string `json:"displayValue"`
			} `json:"stats"`
		} `json:"athletes"`
	} `json:"statistics"`
}

// FetchBoxscores returns player lines for the date, or for a single event when
// gameID is set.
func (c *ESPNClient) FetchBoxscores(ctx context.Context, date, gameID string) ([]models.StatRecord, error) {
	cacheKey := fmt.Sprintf("espn:boxscores:%s:%s", date, gameID)

	var cached []models.StatRecord
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return cached, nil
	}

	eventIDs := []string{gameID}
	if gameID == "" {
		scoreboard, err := c.fetchScoreboard(ctx, date)
		if err != nil {
			return nil, err
		}
		eventIDs = eventIDs[:0]
		for _, event := range scoreboard.Events {
			if event.ID != "" {
				eventIDs = append(eventIDs, event.ID)
			}
		}
	}

	var records []models.StatRecord
	for _, eventID := range eventIDs {
		lines, err := c.fetchEventBoxscore(ctx, eventID, date)
		if err != nil {
			c.logger.Warnf("ESPN boxscore failed for event %s: %v", eventID, err)
			continue
		}
		records = append(records, lines...)
	}

	if len(records) > 0 {
		c.cache.SetSimple(cacheKey, records, 15*time.Minute)
	}
	return records, nil
}

// fetchEventBoxscore tries the summary endpoint first and falls back to the
// boxscore endpoint; some finished games only populate one of the two.
func (c *ESPNClient) fetchEventBoxscore(ctx context.Context, eventID, date string) ([]models.StatRecord, error) {
	var lastErr error
	for _, endpoint := range []string{"summary", "boxscore"} {
		u := fmt.Sprintf("%s/%s?event=%s", c.baseURL, endpoint, eventID)

		var resp espnBoxscoreResponse
		if err := c.getJSON(ctx, u, &resp); err != nil {
			lastErr = err
			continue
		}

		records := c.parseBoxscore(&resp, eventID, date)
		if len(records) > 0 {
			return records, nil
		}
	}
	return nil, lastErr
}

func (c *ESPNClient) parseBoxscore(resp *espnBoxscoreResponse, eventID, date string) []models.StatRecord {
	fetchedAt := utcTimestamp()
	blocks := append(resp.Boxscore.Teams, resp.Boxscore.Players...)

	var records []models.StatRecord
	for _, block := range blocks {
		teamAbbr := block.Team.Abbreviation
		if teamAbbr == "" {
			teamAbbr = "UNK"
		}
		for _, group := range block.Statistics {
			for _, athlete := range group.Athletes {
				statMap := make(map[string]string, len(athlete.Stats))
				for _, s := range athlete.Stats {
					statMap[strings.ToLower(s.Name)] = s.DisplayValue
				}

				minutes := statMap["minutes"]
				if isDNP(minutes) {
					continue
				}

				player := athlete.Athlete.DisplayName
				if player == "" {
					player = "Unknown"
				}

				records = append(records, models.StatRecord{
					GameID:       eventID,
					GameDate:     date,
					Player:       player,
					Team:         teamAbbr,
					Pts:          displayInt(statMap, "points", "pts"),
					Reb:          displayInt(statMap, "rebounds", "reb"),
					Ast:          displayInt(statMap, "assists", "ast"),
					Stl:          models.IntOrZero(displayInt(statMap, "steals", "stl")),
					Blk:          models.IntOrZero(displayInt(statMap, "blocks", "blk")),
					Min:          minutes,
					Source:       SourceESPNAPI,
					TimestampUTC: fetchedAt,
				})
			}
		}
	}
	return records
}

// FetchScoreboard returns the day's games with team summaries.
func (c *ESPNClient) FetchScoreboard(ctx context.Context, date string) ([]models.Game, error) {
	scoreboard, err := c.fetchScoreboard(ctx, date)
	if err != nil {
		return nil, err
	}

	games := make([]models.Game, 0, len(scoreboard.Events))
	for _, event := range scoreboard.Events {
		if len(event.Competitions) == 0 {
			continue
		}

		game := models.Game{
			ID:     event.ID,
			Name:   event.Name,
			Date:   event.Date,
			Status: event.Status.Type.Description,
			State:  event.Status.Type.State,
		}
		if game.Status == "" {
			game.Status = "Scheduled"
		}
		if game.State == "" {
			game.State = "pre"
		}

		for _, competitor := range event.Competitions[0].Competitors {
			summary := &models.TeamSummary{
				ID:           competitor.ID,
				Name:         competitor.Team.DisplayName,
				Abbreviation: competitor.Team.Abbreviation,
				Logo:         competitor.Team.Logo,
				Score:        competitor.Score,
			}
			if summary.Score == "" {
				summary.Score = "0"
			}
			if len(competitor.Records) > 0 {
				summary.Record = competitor.Records[0].Summary
			}
			if competitor.HomeAway == "home" {
				game.Home = summary
			} else {
				game.Away = summary
			}
		}
		games = append(games, game)
	}
	return games, nil
}

func (c *ESPNClient) fetchScoreboard(ctx context.Context, date string) (*espnScoreboardResponse, error) {
	// Scoreboard wants YYYYMMDD
	u := fmt.Sprintf("%s/scoreboard?dates=%s", c.baseURL, strings.ReplaceAll(date, "-", ""))

	cacheKey := fmt.Sprintf("espn:scoreboard:%s", date)
	var cached espnScoreboardResponse
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var resp espnScoreboardResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("scoreboard fetch failed: %w", err)
	}

	if len(resp.Events) > 0 {
		c.cache.SetSimple(cacheKey, resp, 5*time.Minute)
	}
	return &resp, nil
}

func (c *ESPNClient) getJSON(ctx context.Context, u string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

// displayInt parses the first present display value among keys; ESPN labels
// the same stat differently across endpoints.
func displayInt(stats map[string]string, keys ...string) *int {
	for _, k := range keys {
		raw, ok := stats[k]
		if !ok || raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		v := int(f)
		return &v
	}
	return nil
}
