package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"questlog/internal/config"
	"questlog/internal/db"
	"questlog/internal/game"
	"questlog/internal/generator"
	"questlog/internal/tracker"
)

func ListMilestonesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		g, milestones, _, err := loadGame(userID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"milestones": milestones,
			"progress":   g.Progress,
		})
	}
}

func CreateMilestoneHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		g, milestones, _, err := loadGame(userID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		var req struct {
			Title         string `json:"title"`
			Description   string `json:"description"`
			Action        string `json:"action"`
			Category      string `json:"category"`
			Difficulty    string `json:"difficulty"`
			EstimatedTime int    `json:"estimated_time"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing title"})
			return
		}
		cat := game.Category(req.Category)
		if !game.ValidCategory(cat) {
			cat = game.CategoryOther
		}
		diff := game.Difficulty(req.Difficulty)
		if !game.ValidDifficulty(diff) {
			diff = game.DifficultyMedium
		}
		if req.EstimatedTime < 0 {
			req.EstimatedTime = 0
		}
		m := game.Milestone{
			ID:            uuid.New().String(),
			GameID:        g.ID,
			Title:         req.Title,
			Description:   req.Description,
			Action:        req.Action,
			Category:      cat,
			Difficulty:    diff,
			EstimatedTime: req.EstimatedTime,
		}
		if err := db.DB.Create(&m).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create milestone"})
			return
		}
		// The first real milestone retires the sentinel.
		if err := clearPlaceholder(g.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create milestone"})
			return
		}
		updateProgress(g, append(game.WithoutPlaceholders(milestones), m))
		c.JSON(http.StatusCreated, m)
	}
}

func UpdateMilestoneHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		g, _, _, err := loadGame(userID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		var m game.Milestone
		if err := db.DB.Where("id = ? AND game_id = ?", c.Param("mid"), g.ID).First(&m).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "milestone not found"})
			return
		}
		var req struct {
			Title         *string `json:"title"`
			Description   *string `json:"description"`
			Action        *string `json:"action"`
			Category      *string `json:"category"`
			Difficulty    *string `json:"difficulty"`
			EstimatedTime *int    `json:"estimated_time"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if req.Title != nil && *req.Title != "" {
			m.Title = *req.Title
		}
		if req.Description != nil {
			m.Description = *req.Description
		}
		if req.Action != nil {
			m.Action = *req.Action
		}
		if req.Category != nil && game.ValidCategory(game.Category(*req.Category)) {
			m.Category = game.Category(*req.Category)
		}
		if req.Difficulty != nil && game.ValidDifficulty(game.Difficulty(*req.Difficulty)) {
			m.Difficulty = game.Difficulty(*req.Difficulty)
		}
		if req.EstimatedTime != nil && *req.EstimatedTime >= 0 {
			m.EstimatedTime = *req.EstimatedTime
		}
		if err := db.DB.Save(&m).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update milestone"})
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

// Toggle manual completion. A manual toggle sets the completion date but
// leaves the trigger fields empty; untoggling clears everything.
func ToggleMilestoneHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		g, milestones, _, err := loadGame(userID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		var m game.Milestone
		if err := db.DB.Where("id = ? AND game_id = ?", c.Param("mid"), g.ID).First(&m).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "milestone not found"})
			return
		}
		if m.IsPlaceholder() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "placeholder milestone cannot be toggled"})
			return
		}
		if m.Completed {
			m.Completed = false
			m.CompletedDate = nil
			m.TriggeredByNoteID = ""
			m.TriggeredByNote = ""
		} else {
			now := time.Now()
			m.Completed = true
			m.CompletedDate = &now
		}
		if err := db.DB.Save(&m).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update milestone"})
			return
		}
		for i := range milestones {
			if milestones[i].ID == m.ID {
				milestones[i] = m
			}
		}
		progress := updateProgress(g, milestones)
		publishProgress(g.ID, progress, milestones)
		c.JSON(http.StatusOK, gin.H{"milestone": m, "progress": progress})
	}
}

func DeleteMilestoneHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		g, milestones, _, err := loadGame(userID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		var m game.Milestone
		if err := db.DB.Where("id = ? AND game_id = ?", c.Param("mid"), g.ID).First(&m).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "milestone not found"})
			return
		}
		if err := db.DB.Delete(&m).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete milestone"})
			return
		}
		remaining := milestones[:0]
		for _, existing := range milestones {
			if existing.ID != m.ID {
				remaining = append(remaining, existing)
			}
		}
		progress := updateProgress(g, remaining)
		c.JSON(http.StatusOK, gin.H{"deleted": true, "progress": progress})
	}
}

// Regenerate the milestone list via the external generator. Existing
// milestones are kept; only games with no milestones get the full set.
func GenerateMilestonesHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		g, milestones, _, err := loadGame(userID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		if len(game.WithoutPlaceholders(milestones)) > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "milestones already exist"})
			return
		}
		generated := generator.Generate(&cfg.Generator, g.ID, g.Title, g.Platform)
		if len(generated) == 0 {
			c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed"})
			return
		}
		if err := db.DB.Create(&generated).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store milestones"})
			return
		}
		if err := clearPlaceholder(g.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store milestones"})
			return
		}
		progress := updateProgress(g, generated)
		c.JSON(http.StatusCreated, gin.H{"milestones": generated, "progress": progress})
	}
}

// clearPlaceholder removes the no-milestones sentinel once real
// milestones exist.
func clearPlaceholder(gameID uint) error {
	return db.DB.Where("game_id = ? AND title = ?", gameID, game.PlaceholderTitle).
		Delete(&game.Milestone{}).Error
}

// updateProgress recomputes and persists the game's progress percentage.
func updateProgress(g *game.Game, milestones []game.Milestone) float64 {
	progress := tracker.Progress(milestones)
	if err := db.DB.Model(g).Update("progress", progress).Error; err == nil {
		g.Progress = progress
	}
	return progress
}
