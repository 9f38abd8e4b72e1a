package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"questlog/internal/config"
)

// Helper to extract user ID from context
func getUserIDFromContext(c *gin.Context) (uint, bool) {
	idVal, exists := c.Get("userId")
	if !exists {
		return 0, false
	}
	switch v := idVal.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func configHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"subpath":           cfg.Server.Subpath,
			"generator_enabled": cfg.Generator.URL != "",
			"catalog_enabled":   cfg.Catalog.URL != "",
		})
	}
}
