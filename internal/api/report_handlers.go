package api

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"questlog/internal/report"
	"questlog/internal/tracker"
)

// ReportHandler renders a downloadable progress report. ?format=txt (the
// default) or ?format=pdf.
func ReportHandler() gin.HandlerFunc {
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

		base := strings.ReplaceAll(strings.ToLower(g.Title), " ", "_")
		if base == "" {
			base = "game"
		}

		switch c.DefaultQuery("format", "txt") {
		case "txt":
			body := report.BuildTXT(g, milestones, notes, ins)
			c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_report.txt", base))
			c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
		case "pdf":
			var buf bytes.Buffer
			if err := report.WritePDF(&buf, g, milestones, notes, ins); err != nil {
				log.Printf("[Report] PDF rendering failed for game %d: %v", g.ID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
				return
			}
			c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_report.pdf", base))
			c.Data(http.StatusOK, "application/pdf", buf.Bytes())
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown format"})
		}
	}
}
