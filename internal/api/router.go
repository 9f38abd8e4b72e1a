package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"questlog/internal/auth"
	"questlog/internal/config"
)

func SetupRouter(cfg *config.Config, rdb *redis.Client) *gin.Engine {
	r := gin.Default()
	subpath := cfg.Server.Subpath // e.g. "/questlog" or any custom path, always starts with '/'

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))

		// Setup: only if no users
		group.POST("/setup", SetupHandler())

		// Auth
		group.POST("/auth/login", LoginHandler(cfg, rdb))
		group.POST("/auth/logout", auth.AuthMiddleware(cfg, rdb, false), LogoutHandler(rdb))
		group.GET("/auth/me", auth.AuthMiddleware(cfg, rdb, false), MeHandler())
		group.GET("/users/online", OnlineUserCountHandler(rdb))

		// --- Games ---
		group.POST("/games", auth.AuthMiddleware(cfg, rdb, false), CreateGameHandler(cfg))
		group.GET("/games", auth.AuthMiddleware(cfg, rdb, false), ListGamesHandler())
		group.GET("/games/:id", auth.AuthMiddleware(cfg, rdb, false), GetGameHandler())
		group.PUT("/games/:id", auth.AuthMiddleware(cfg, rdb, false), UpdateGameHandler())
		group.DELETE("/games/:id", auth.AuthMiddleware(cfg, rdb, false), DeleteGameHandler())

		// --- Milestones ---
		group.GET("/games/:id/milestones", auth.AuthMiddleware(cfg, rdb, false), ListMilestonesHandler())
		group.POST("/games/:id/milestones", auth.AuthMiddleware(cfg, rdb, false), CreateMilestoneHandler())
		group.POST("/games/:id/milestones/generate", auth.AuthMiddleware(cfg, rdb, false), GenerateMilestonesHandler(cfg))
		group.PUT("/games/:id/milestones/:mid", auth.AuthMiddleware(cfg, rdb, false), UpdateMilestoneHandler())
		group.POST("/games/:id/milestones/:mid/toggle", auth.AuthMiddleware(cfg, rdb, false), ToggleMilestoneHandler())
		group.DELETE("/games/:id/milestones/:mid", auth.AuthMiddleware(cfg, rdb, false), DeleteMilestoneHandler())

		// --- Notes and confirmation workflow ---
		group.GET("/games/:id/notes", auth.AuthMiddleware(cfg, rdb, false), ListNotesHandler())
		group.POST("/games/:id/notes", auth.AuthMiddleware(cfg, rdb, false), SubmitNoteHandler())
		group.POST("/games/:id/notes/decision", auth.AuthMiddleware(cfg, rdb, false), DecisionHandler())
		group.POST("/games/:id/notes/decision/all", auth.AuthMiddleware(cfg, rdb, false), DecisionAllHandler())
		group.POST("/games/:id/notes/skip", auth.AuthMiddleware(cfg, rdb, false), SkipHandler())
		group.POST("/games/:id/notes/cancel", auth.AuthMiddleware(cfg, rdb, false), CancelHandler())
		group.DELETE("/games/:id/notes/:nid", auth.AuthMiddleware(cfg, rdb, false), DeleteNoteHandler())

		// --- Insights and reports ---
		group.GET("/games/:id/insights", auth.AuthMiddleware(cfg, rdb, false), InsightsHandler())
		group.GET("/games/:id/report", auth.AuthMiddleware(cfg, rdb, false), ReportHandler())

		// --- Progress event WebSocket endpoint ---
		group.GET("/ws/games/:id/events", GameEventsHandler(cfg))
	}
	return r
}
