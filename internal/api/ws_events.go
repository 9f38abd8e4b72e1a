package api

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"questlog/internal/auth"
	"questlog/internal/config"
	"questlog/internal/game"
)

// ProgressEvent is pushed to subscribers whenever a game's completion
// state changes.
type ProgressEvent struct {
	GameID    uint      `json:"gameId"`
	Progress  float64   `json:"progress"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocket connection wrapper with mutex for thread-safe writes
type safeWSConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *safeWSConn) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *safeWSConn) ReadMessage() (int, []byte, error) {
	return s.conn.ReadMessage()
}

func (s *safeWSConn) Close() error {
	return s.conn.Close()
}

// eventHub fans progress events out to websocket subscribers per game.
type eventHub struct {
	mu   sync.Mutex
	subs map[uint]map[*safeWSConn]bool
}

var progressHub = &eventHub{subs: make(map[uint]map[*safeWSConn]bool)}

func (h *eventHub) subscribe(gameID uint, c *safeWSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[*safeWSConn]bool)
	}
	h.subs[gameID][c] = true
}

func (h *eventHub) unsubscribe(gameID uint, c *safeWSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[gameID], c)
	if len(h.subs[gameID]) == 0 {
		delete(h.subs, gameID)
	}
}

func (h *eventHub) publish(ev ProgressEvent) {
	h.mu.Lock()
	conns := make([]*safeWSConn, 0, len(h.subs[ev.GameID]))
	for c := range h.subs[ev.GameID] {
		conns = append(conns, c)
	}
	h.mu.Unlock()
	for _, c := range conns {
		if err := c.WriteJSON(ev); err != nil {
			log.Printf("[Events] dropping subscriber for game %d: %v", ev.GameID, err)
			h.unsubscribe(ev.GameID, c)
			c.Close()
		}
	}
}

// publishProgress emits a progress event after milestone state changed.
func publishProgress(gameID uint, progress float64, milestones []game.Milestone) {
	completed := 0
	total := 0
	for _, m := range milestones {
		if m.IsPlaceholder() {
			continue
		}
		total++
		if m.Completed {
			completed++
		}
	}
	progressHub.publish(ProgressEvent{
		GameID:    gameID,
		Progress:  progress,
		Completed: completed,
		Total:     total,
		Timestamp: time.Now(),
	})
}

// GameEventsHandler upgrades the connection and streams progress events
// for one game until the client disconnects.
func GameEventsHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing JWT"})
			return
		}
		token = strings.TrimPrefix(token, "Bearer ")
		claims, err := auth.ParseJWT(cfg.Server.JWTSecret, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid JWT"})
			return
		}

		g, _, _, err := loadGame(claims.UserID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}

		rawConn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("WebSocket upgrade failed:", err)
			return
		}
		conn := &safeWSConn{conn: rawConn}
		progressHub.subscribe(g.ID, conn)
		defer func() {
			progressHub.unsubscribe(g.ID, conn)
			conn.Close()
		}()

		// Block on reads so the subscription lives until the peer goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
