package fantasy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leagueFixture = `{
	"id": 12345,
	"settings": {
		"name": "Hoops Degenerates",
		"scheduleSettings": {"matchupPeriodCount": 19, "playoffTeamCount": 4}
	},
	"status": {"currentMatchupPeriod": 3},
	"teams": [
		{
			"id": 1,
			"name": "Ball Hogs",
			"owners": ["{OWNER-1}"],
			"record": {"overall": {"wins": 5, "losses": 2, "pointsFor": 812.4, "pointsAgainst": 720.1}},
			"roster": {"entries": [
				{"playerPoolEntry": {"player": {
					"fullName": "Anthony Davis",
					"defaultPositionId": 4,
					"proTeamId": 13,
					"injured": true,
					"injuryStatus": "DAY_TO_DAY",
					"stats": [{"statSourceId": 0, "statSplitTypeId": 0, "appliedTotal": 412.5, "appliedAverage": 45.8}]
				}}}
			]}
		},
		{
			"id": 2,
			"name": "Bricklayers",
			"owners": [],
			"record": {"overall": {"wins": 2, "losses": 5, "pointsFor": 700.0, "pointsAgainst": 790.2}},
			"roster": {"entries": []}
		}
	],
	"schedule": [
		{"matchupPeriodId": 3, "home": {"teamId": 1, "totalPoints": 102.5}, "away": {"teamId": 2, "totalPoints": 98.0}},
		{"matchupPeriodId": 4, "home": {"teamId": 2, "totalPoints": 0}, "away": {"teamId": 1, "totalPoints": 0}}
	],
	"players": [
		{"onTeamId": 1, "status": "ONTEAM", "player": {"fullName": "Anthony Davis", "defaultPositionId": 4, "proTeamId": 13}},
		{"onTeamId": 0, "status": "FREEAGENT", "player": {
			"fullName": "Naz Reid",
			"defaultPositionId": 5,
			"proTeamId": 16,
			"ownership": {"percentOwned": 61.2},
			"stats": [{"statSourceId": 0, "statSplitTypeId": 0, "appliedTotal": 310.0, "appliedAverage": 28.2}]
		}}
	]
}`

func fixtureClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(12345, 2025, "s2-token", "{SWID}", syncTestLogger())
	require.NoError(t, err)
	client.baseURL = server.URL
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(12345, 2025, "", "{SWID}", syncTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing fantasy credentials")
}

func TestClientSendsAuthCookies(t *testing.T) {
	var gotS2, gotSWID string
	client := fixtureClient(t, func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("espn_s2"); err == nil {
			gotS2 = c.Value
		}
		if c, err := r.Cookie("SWID"); err == nil {
			gotSWID = c.Value
		}
		w.Write([]byte(leagueFixture))
	})

	_, err := client.Teams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s2-token", gotS2)
	assert.Equal(t, "{SWID}", gotSWID)
}

func TestClientTeams(t *testing.T) {
	client := fixtureClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query()["view"], "mTeam")
		w.Write([]byte(leagueFixture))
	})

	teams, err := client.Teams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Ball Hogs", teams[0].TeamName)
	assert.Equal(t, "{OWNER-1}", teams[0].Owner)
	assert.Equal(t, 5, teams[0].Wins)
	assert.Equal(t, "Unknown", teams[1].Owner)
}

func TestClientRosters(t *testing.T) {
	client := fixtureClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(leagueFixture))
	})

	rosters, err := client.Rosters(context.Background())
	require.NoError(t, err)
	require.Len(t, rosters, 1)

	entry := rosters[0]
	assert.Equal(t, "Anthony Davis", entry.PlayerName)
	assert.Equal(t, "PF", entry.Position)
	assert.Equal(t, "LAL", entry.ProTeam)
	assert.Equal(t, 412.5, entry.TotalPoints)
	assert.Equal(t, 45.8, entry.AvgPoints)
	assert.True(t, entry.Injured)
	assert.Equal(t, "DAY_TO_DAY", entry.InjuryStatus)
}

func TestClientMatchupsCurrentWeek(t *testing.T) {
	client := fixtureClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(leagueFixture))
	})

	matchups, err := client.Matchups(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, matchups, 1)
	assert.Equal(t, 3, matchups[0].Week)
	assert.Equal(t, "Ball Hogs", matchups[0].HomeTeam)
	assert.Equal(t, "Bricklayers", matchups[0].AwayTeam)
	assert.Equal(t, 102.5, matchups[0].HomeScore)
}

func TestClientFreeAgentsSkipsRostered(t *testing.T) {
	client := fixtureClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(leagueFixture))
	})

	agents, err := client.FreeAgents(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "Naz Reid", agents[0].PlayerName)
	assert.Equal(t, "C", agents[0].Position)
	assert.Equal(t, "MIN", agents[0].ProTeam)
	assert.Equal(t, 61.2, agents[0].PercentOwned)
}

func TestClientAuthRejection(t *testing.T) {
	client := fixtureClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Teams(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check ESPN_S2 and SWID")
}
