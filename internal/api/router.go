package api

import (
	"github.com/gin-gonic/gin"

	"github.com/courtwatch/stattracker/internal/api/handlers"
	"github.com/courtwatch/stattracker/internal/services"
)

// Dependencies carries the wired services the routes need.
type Dependencies struct {
	Stats      handlers.StatsProvider
	Boxscores  services.BoxscoreFetcher
	Scoreboard handlers.ScoreboardProvider
	Players    handlers.PlayerDirectory
	Fantasy    handlers.FantasyService
	Reporter   handlers.ReportService
}

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(group *gin.RouterGroup, deps Dependencies) {
	statsHandler := handlers.NewStatsHandler(deps.Stats)
	scheduleHandler := handlers.NewScheduleHandler(deps.Scoreboard)
	boxscoreHandler := handlers.NewBoxscoreHandler(deps.Boxscores)
	playerHandler := handlers.NewPlayerHandler(deps.Players)
	fantasyHandler := handlers.NewFantasyHandler(deps.Fantasy, deps.Reporter)
	healthHandler := handlers.NewHealthHandler()

	group.GET("/health", healthHandler.GetHealth)

	group.GET("/stats", statsHandler.GetStats)
	group.GET("/schedule", scheduleHandler.GetSchedule)
	group.GET("/boxscore", boxscoreHandler.GetBoxscore)
	group.GET("/player/:name", playerHandler.GetPlayer)

	// Fantasy endpoints
	group.POST("/fantasy/sync", fantasyHandler.PostSync)
	group.GET("/fantasy/teams", fantasyHandler.GetTeams)
	group.GET("/fantasy/rosters", fantasyHandler.GetRosters)
	group.GET("/fantasy/matchups", fantasyHandler.GetMatchups)
	group.GET("/fantasy/freeagents", fantasyHandler.GetFreeAgents)
	group.GET("/fantasy/report", fantasyHandler.GetReport)
}
