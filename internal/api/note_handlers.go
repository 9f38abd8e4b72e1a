package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"questlog/internal/db"
	"questlog/internal/game"
	"questlog/internal/tracker"
)

// workflows holds the in-flight confirmation per game. The core is
// single-threaded per game; this registry serializes HTTP access to it.
var workflows = struct {
	sync.Mutex
	m map[uint]*tracker.Workflow
}{m: make(map[uint]*tracker.Workflow)}

func activeWorkflow(gameID uint) *tracker.Workflow {
	workflows.Lock()
	defer workflows.Unlock()
	return workflows.m[gameID]
}

// reserveWorkflow atomically claims the per-game slot. Check and store
// happen under one lock so concurrent submissions cannot both pass the
// conflict guard.
func reserveWorkflow(gameID uint, w *tracker.Workflow) bool {
	workflows.Lock()
	defer workflows.Unlock()
	if _, exists := workflows.m[gameID]; exists {
		return false
	}
	workflows.m[gameID] = w
	return true
}

func abandonWorkflow(gameID uint) {
	workflows.Lock()
	defer workflows.Unlock()
	delete(workflows.m, gameID)
}

func resetWorkflowsForTest() {
	workflows.Lock()
	defer workflows.Unlock()
	workflows.m = make(map[uint]*tracker.Workflow)
}

// persistCommit writes a terminal workflow result as one transaction: the
// note append, the milestones the workflow actually mutated, and the
// progress recomputed from the rows that still exist. Mutations go through
// keyed updates, never upserts, so a milestone deleted while the
// confirmation was open stays deleted and concurrent manual edits of
// untouched rows are left alone.
func persistCommit(g *game.Game, res tracker.Result) (float64, []game.Milestone, error) {
	var (
		progress float64
		current  []game.Milestone
	)
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if res.NoteCommitted {
			n := res.Note
			n.GameID = g.ID
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
		}
		for _, m := range res.Updated {
			err := tx.Model(&game.Milestone{}).
				Where("id = ? AND game_id = ?", m.ID, g.ID).
				Updates(map[string]interface{}{
					"completed":            m.Completed,
					"completed_date":       m.CompletedDate,
					"triggered_by_note_id": m.TriggeredByNoteID,
					"triggered_by_note":    m.TriggeredByNote,
				}).Error
			if err != nil {
				return err
			}
		}
		if err := tx.Where("game_id = ?", g.ID).Order("created_at asc").Find(&current).Error; err != nil {
			return err
		}
		progress = tracker.Progress(current)
		if err := tx.Model(g).Update("progress", progress).Error; err != nil {
			return err
		}
		g.Progress = progress
		return nil
	})
	return progress, current, err
}

func finishStep(c *gin.Context, g *game.Game, res tracker.Result) {
	if res.State == tracker.AwaitingDecisions {
		c.JSON(http.StatusAccepted, gin.H{
			"state":   "awaiting_decisions",
			"note":    res.Note,
			"pending": res.Pending,
		})
		return
	}
	progress, milestones, err := persistCommit(g, res)
	abandonWorkflow(g.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to commit"})
		return
	}
	publishProgress(g.ID, progress, milestones)
	c.JSON(http.StatusOK, gin.H{
		"state":          "idle",
		"note_committed": res.NoteCommitted,
		"note":           res.Note,
		"notes":          res.Notes,
		"milestones":     milestones,
		"progress":       progress,
		"info":           res.Info,
	})
}

// ListNotesHandler returns the categorized note view.
func ListNotesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		_, milestones, notes, err := loadGame(userID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		res := tracker.NewMatcher().Categorize(notes, milestones)
		c.JSON(http.StatusOK, res)
	}
}

// SubmitNoteHandler opens (or short-circuits) the confirmation workflow
// for a new note.
func SubmitNoteHandler() gin.HandlerFunc {
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

		var req struct {
			Text          string  `json:"text"`
			HoursPlayed   float64 `json:"hours_played"`
			MinutesPlayed float64 `json:"minutes_played"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		w := tracker.NewWorkflow(tracker.NewMatcher(), milestones, notes)
		if !reserveWorkflow(g.ID, w) {
			c.JSON(http.StatusConflict, gin.H{"error": "confirmation already in progress"})
			return
		}
		res, err := w.SubmitNote(req.Text, req.HoursPlayed, req.MinutesPlayed)
		if err != nil {
			abandonWorkflow(g.ID)
			if errors.Is(err, tracker.ErrEmptyNote) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "missing text"})
			} else {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			}
			return
		}
		finishStep(c, g, res)
	}
}

func decisionStep(c *gin.Context, step func(w *tracker.Workflow) (tracker.Result, error)) {
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
	w := activeWorkflow(g.ID)
	if w == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no confirmation in progress"})
		return
	}
	res, err := step(w)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	finishStep(c, g, res)
}

func DecisionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			MilestoneID string `json:"milestone_id"`
			Agree       bool   `json:"agree"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.MilestoneID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing milestone_id"})
			return
		}
		decisionStep(c, func(w *tracker.Workflow) (tracker.Result, error) {
			return w.Decide(req.MilestoneID, req.Agree)
		})
	}
}

func DecisionAllHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Agree bool `json:"agree"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		decisionStep(c, func(w *tracker.Workflow) (tracker.Result, error) {
			return w.DecideAll(req.Agree)
		})
	}
}

func SkipHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		decisionStep(c, func(w *tracker.Workflow) (tracker.Result, error) {
			return w.Skip()
		})
	}
}

// CancelHandler abandons the pending note. Milestones already agreed stay
// completed, so their mutations are still persisted.
func CancelHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		decisionStep(c, func(w *tracker.Workflow) (tracker.Result, error) {
			return w.Cancel()
		})
	}
}

// DeleteNoteHandler removes a note and reverts any milestone completion
// it triggered.
func DeleteNoteHandler() gin.HandlerFunc {
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
		var n game.Note
		if err := db.DB.Where("id = ? AND game_id = ?", c.Param("nid"), g.ID).First(&n).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}

		reverted, count := tracker.ReleaseTriggered(milestones, n)
		progress := tracker.Progress(reverted)
		err = db.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&n).Error; err != nil {
				return err
			}
			for _, m := range reverted {
				if err := tx.Save(&m).Error; err != nil {
					return err
				}
			}
			if err := tx.Model(g).Update("progress", progress).Error; err != nil {
				return err
			}
			g.Progress = progress
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete note"})
			return
		}
		publishProgress(g.ID, progress, reverted)
		c.JSON(http.StatusOK, gin.H{
			"deleted":             true,
			"reverted_milestones": count,
			"progress":            progress,
		})
	}
}
