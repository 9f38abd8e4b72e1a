package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"questlog/internal/tracker"
)

// InsightsHandler returns the computed progress insights for one game.
func InsightsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		g, milestones, notes, err := loadGame(userID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		ins := tracker.ComputeInsights(milestones, notes)
		c.JSON(http.StatusOK, gin.H{
			"game":     g.ID,
			"progress": g.Progress,
			"insights": ins,
		})
	}
}
