package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"questlog/internal/catalog"
	"questlog/internal/config"
	"questlog/internal/db"
	"questlog/internal/game"
	"questlog/internal/generator"
)

// loadGame fetches a game owned by the user plus its collections.
func loadGame(userID uint, idStr string) (*game.Game, []game.Milestone, []game.Note, error) {
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return nil, nil, nil, err
	}
	var g game.Game
	if err := db.DB.Where("id = ? AND user_id = ?", id, userID).First(&g).Error; err != nil {
		return nil, nil, nil, err
	}
	var milestones []game.Milestone
	if err := db.DB.Where("game_id = ?", g.ID).Order("created_at asc").Find(&milestones).Error; err != nil {
		return nil, nil, nil, err
	}
	var notes []game.Note
	if err := db.DB.Where("game_id = ?", g.ID).Order("date asc").Find(&notes).Error; err != nil {
		return nil, nil, nil, err
	}
	return &g, milestones, notes, nil
}

// Create a new game. Catalog lookup and milestone generation both degrade
// gracefully when their collaborators are unavailable.
func CreateGameHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req struct {
			Title              string `json:"title"`
			Platform           string `json:"platform"`
			GenerateMilestones bool   `json:"generate_milestones"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing title"})
			return
		}

		g := game.Game{
			Title:    req.Title,
			Platform: req.Platform,
			UserID:   userID,
		}

		if info, err := catalog.Lookup(&cfg.Catalog, req.Title); err == nil && info != nil {
			if g.Platform == "" && len(info.Platforms) > 0 {
				g.Platform = info.Platforms[0]
			}
			if len(info.Genres) > 0 {
				if raw, err := json.Marshal(info.Genres); err == nil {
					g.Genres = datatypes.JSON(raw)
				}
			}
		}

		if err := db.DB.Create(&g).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create game"})
			return
		}

		var milestones []game.Milestone
		if req.GenerateMilestones {
			milestones = generator.Generate(&cfg.Generator, g.ID, g.Title, g.Platform)
			if len(milestones) > 0 {
				if err := db.DB.Create(&milestones).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store milestones"})
					return
				}
			}
		}
		// Games without milestones carry the sentinel until a real one arrives.
		if len(milestones) == 0 {
			placeholder := game.NewPlaceholder(g.ID)
			if err := db.DB.Create(&placeholder).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store milestones"})
				return
			}
			milestones = []game.Milestone{placeholder}
		}

		c.JSON(http.StatusCreated, gin.H{
			"game":       g,
			"milestones": milestones,
		})
	}
}

func ListGamesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var games []game.Game
		if err := db.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&games).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch games"})
			return
		}
		c.JSON(http.StatusOK, games)
	}
}

func GetGameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		g, milestones, notes, err := loadGame(userID, c.Param("id"))
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"game":       g,
			"milestones": milestones,
			"notes":      notes,
		})
	}
}

func UpdateGameHandler() gin.HandlerFunc {
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
		var req struct {
			Title    string `json:"title"`
			Platform string `json:"platform"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if req.Title != "" {
			g.Title = req.Title
		}
		if req.Platform != "" {
			g.Platform = req.Platform
		}
		if err := db.DB.Save(g).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update game"})
			return
		}
		c.JSON(http.StatusOK, g)
	}
}

func DeleteGameHandler() gin.HandlerFunc {
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
		if err := db.DB.Where("game_id = ?", g.ID).Delete(&game.Milestone{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete milestones"})
			return
		}
		if err := db.DB.Where("game_id = ?", g.ID).Delete(&game.Note{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete notes"})
			return
		}
		if err := db.DB.Delete(g).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete game"})
			return
		}
		abandonWorkflow(g.ID)
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
