package fantasy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/courtwatch/stattracker/internal/models"
)

const fantasyBaseURL = "https://lm-api-reads.fantasy.espn.com"

// positionNames maps ESPN default position ids to lineup slots.
var positionNames = map[int]string{
	1: "PG", 2: "SG", 3: "SF", 4: "PF", 5: "C",
}

// proTeamNames maps ESPN pro team ids to NBA abbreviations.
var proTeamNames = map[int]string{
	1: "ATL", 2: "BOS", 3: "NOP", 4: "CHI", 5: "CLE", 6: "DAL", 7: "DEN",
	8: "DET", 9: "GSW", 10: "HOU", 11: "IND", 12: "LAC", 13: "LAL", 14: "MIA",
	15: "MIL", 16: "MIN", 17: "BKN", 18: "NYK", 19: "ORL", 20: "PHI", 21: "PHX",
	22: "POR", 23: "SAC", 24: "SAS", 25: "OKC", 26: "UTA", 27: "WAS", 28: "TOR",
	29: "MEM", 30: "CHA",
}

// Client reads a private ESPN Fantasy Basketball league through the v3 API,
// authenticated with the espn_s2 and SWID cookies.
type Client struct {
	httpClient *http.Client
	logger     *logrus.Logger
	baseURL    string
	leagueID   int
	year       int
	espnS2     string
	swid       string
}

// NewClient builds a fantasy league client. All four credentials are
// required; the SWID cookie keeps its curly brackets.
func NewClient(leagueID, year int, espnS2, swid string, logger *logrus.Logger) (*Client, error) {
	if leagueID == 0 || year == 0 || espnS2 == "" || swid == "" {
		return nil, fmt.Errorf("missing fantasy credentials: ESPN_S2, SWID, LEAGUE_ID and FANTASY_YEAR are all required")
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
		baseURL:    fantasyBaseURL,
		leagueID:   leagueID,
		year:       year,
		espnS2:     espnS2,
		swid:       swid,
	}, nil
}

type leagueResponse struct {
	ID       int `json:"id"`
	Settings struct {
		Name             string `json:"name"`
		ScheduleSettings struct {
			MatchupPeriodCount int `json:"matchupPeriodCount"`
			PlayoffTeamCount   int `json:"playoffTeamCount"`
		} `json:"scheduleSettings"`
	} `json:"settings"`
	Status struct {
		CurrentMatchupPeriod int `json:"currentMatchupPeriod"`
	} `json:"status"`
	Teams []struct {
		ID     int      `json:"id"`
		Name   string   `json:"name"`
		Owners []string `json:"owners"`
		Record struct {
			Overall struct {
				Wins          int     `json:"wins"`
				Losses        int     `json:"losses"`
				PointsFor     float64 `json:"pointsFor"`
				PointsAgainst float64 `json:"pointsAgainst"`
			} `json:"overall"`
		} `json:"record"`
		Roster struct {
			Entries []struct {
				PlayerPoolEntry playerPoolEntry `json:"playerPoolEntry"`
			} `json:"entries"`
		} `json:"roster"`
	} `json:"teams"`
	Schedule []struct {
		MatchupPeriodID int          `json:"matchupPeriodId"`
		Home            matchupSide  `json:"home"`
		Away            *matchupSide `json:"away"`
	} `json:"schedule"`
	Players []struct {
		Player   fantasyPlayer `json:"player"`
		OnTeamID int           `json:"onTeamId"`
		Status   string        `json:"status"`
	} `json:"players"`
}

type matchupSide struct {
	TeamID      int     `json:"teamId"`
	TotalPoints float64 `json:"totalPoints"`
}

type playerPoolEntry struct {
	Player fantasyPlayer `json:"player"`
}

type fantasyPlayer struct {
	FullName          string `json:"fullName"`
	DefaultPositionID int    `json:"defaultPositionId"`
	ProTeamID         int    `json:"proTeamId"`
	Injured           bool   `json:"injured"`
	InjuryStatus      string `json:"injuryStatus"`
	Ownership         struct {
		PercentOwned float64 `json:"percentOwned"`
	} `json:"ownership"`
	Stats []struct {
		StatSourceID    int     `json:"statSourceId"`
		StatSplitTypeID int     `json:"statSplitTypeId"`
		AppliedTotal    float64 `json:"appliedTotal"`
		AppliedAverage  float64 `json:"appliedAverage"`
	} `json:"stats"`
}

// seasonTotals picks the actual season-to-date applied totals out of the
// player's stat splits.
func (p fantasyPlayer) seasonTotals() (total, avg float64) {
	for _, s := range p.Stats {
		if s.StatSourceID == 0 && s.StatSplitTypeID == 0 {
			return s.AppliedTotal, s.AppliedAverage
		}
	}
	return 0, 0
}

func (c *Client) fetchLeague(ctx context.Context, views ...string) (*leagueResponse, error) {
	u := fmt.Sprintf("%s/apis/v3/games/fba/seasons/%d/segments/0/leagues/%d", c.baseURL, c.year, c.leagueID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	for _, v := range views {
		q.Add("view", v)
	}
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: "espn_s2", Value: c.espnS2})
	req.AddCookie(&http.Cookie{Name: "SWID", Value: c.swid})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fantasy league request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("fantasy authentication rejected (status %d): check ESPN_S2 and SWID", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var league leagueResponse
	if err := json.NewDecoder(resp.Body).Decode(&league); err != nil {
		return nil, fmt.Errorf("failed to decode league response: %w", err)
	}
	return &league, nil
}

// LeagueSettings returns the league-level configuration.
func (c *Client) LeagueSettings(ctx context.Context) (models.LeagueSettings, error) {
	league, err := c.fetchLeague(ctx, "mSettings")
	if err != nil {
		return models.LeagueSettings{}, err
	}
	return models.LeagueSettings{
		LeagueID:         c.leagueID,
		Name:             league.Settings.Name,
		Year:             c.year,
		TeamCount:        len(league.Teams),
		RegSeasonCount:   league.Settings.ScheduleSettings.MatchupPeriodCount,
		PlayoffTeamCount: league.Settings.ScheduleSettings.PlayoffTeamCount,
		CurrentWeek:      league.Status.CurrentMatchupPeriod,
	}, nil
}

// Teams returns every franchise with its overall record.
func (c *Client) Teams(ctx context.Context) ([]models.FantasyTeam, error) {
	league, err := c.fetchLeague(ctx, "mTeam")
	if err != nil {
		return nil, err
	}

	teams := make([]models.FantasyTeam, 0, len(league.Teams))
	for _, t := range league.Teams {
		owner := "Unknown"
		if len(t.Owners) > 0 {
			owner = t.Owners[0]
		}
		teams = append(teams, models.FantasyTeam{
			TeamID:        t.ID,
			TeamName:      t.Name,
			Owner:         owner,
			Wins:          t.Record.Overall.Wins,
			Losses:        t.Record.Overall.Losses,
			PointsFor:     t.Record.Overall.PointsFor,
			PointsAgainst: t.Record.Overall.PointsAgainst,
		})
	}
	return teams, nil
}

// Rosters returns every rostered player across all teams.
func (c *Client) Rosters(ctx context.Context) ([]models.FantasyRosterEntry, error) {
	league, err := c.fetchLeague(ctx, "mTeam", "mRoster")
	if err != nil {
		return nil, err
	}

	var rosters []models.FantasyRosterEntry
	for _, t := range league.Teams {
		for _, entry := range t.Roster.Entries {
			p := entry.PlayerPoolEntry.Player
			total, avg := p.seasonTotals()
			rosters = append(rosters, models.FantasyRosterEntry{
				TeamID:       t.ID,
				TeamName:     t.Name,
				PlayerName:   p.FullName,
				Position:     positionName(p.DefaultPositionID),
				ProTeam:      proTeamName(p.ProTeamID),
				TotalPoints:  total,
				AvgPoints:    avg,
				Injured:      p.Injured,
				InjuryStatus: p.InjuryStatus,
			})
		}
	}
	return rosters, nil
}

// Matchups returns the pairings for a matchup period; week 0 means the
// current one.
func (c *Client) Matchups(ctx context.Context, week int) ([]models.FantasyMatchup, error) {
	league, err := c.fetchLeague(ctx, "mTeam", "mMatchup")
	if err != nil {
		return nil, err
	}

	if week == 0 {
		week = league.Status.CurrentMatchupPeriod
	}

	names := make(map[int]string, len(league.Teams))
	for _, t := range league.Teams {
		names[t.ID] = t.Name
	}

	var matchups []models.FantasyMatchup
	for _, m := range league.Schedule {
		if m.MatchupPeriodID != week || m.Away == nil {
			continue
		}
		matchups = append(matchups, models.FantasyMatchup{
			HomeTeam:   names[m.Home.TeamID],
			HomeTeamID: m.Home.TeamID,
			AwayTeam:   names[m.Away.TeamID],
			AwayTeamID: m.Away.TeamID,
			HomeScore:  m.Home.TotalPoints,
			AwayScore:  m.Away.TotalPoints,
			Week:       week,
		})
	}
	return matchups, nil
}

// FreeAgents returns up to size unrostered players, most-owned first.
func (c *Client) FreeAgents(ctx context.Context, size int) ([]models.FreeAgent, error) {
	league, err := c.fetchLeague(ctx, "kona_player_info")
	if err != nil {
		return nil, err
	}

	var agents []models.FreeAgent
	for _, entry := range league.Players {
		if entry.OnTeamID != 0 || entry.Status == "ONTEAM" {
			continue
		}
		if size > 0 && len(agents) >= size {
			break
		}
		p := entry.Player
		total, avg := p.seasonTotals()
		agents = append(agents, models.FreeAgent{
			PlayerName:   p.FullName,
			Position:     positionName(p.DefaultPositionID),
			ProTeam:      proTeamName(p.ProTeamID),
			TotalPoints:  total,
			AvgPoints:    avg,
			PercentOwned: p.Ownership.PercentOwned,
		})
	}
	return agents, nil
}

func positionName(id int) string {
	if name, ok := positionNames[id]; ok {
		return name
	}
	return "N/A"
}

func proTeamName(id int) string {
	if name, ok := proTeamNames[id]; ok {
		return name
	}
	return "N/A"
}
