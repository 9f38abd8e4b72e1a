package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"questlog/internal/catalog"
	"questlog/internal/config"
	"questlog/internal/db"
	"questlog/internal/game"
	"questlog/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func seedGame(t *testing.T, userID uint, title string) game.Game {
	g := game.Game{UserID: userID, Title: title, Platform: "PC"}
	if err := db.DB.Create(&g).Error; err != nil {
		t.Fatalf("failed to seed game: %v", err)
	}
	return g
}

func seedMilestone(t *testing.T, gameID uint, title string, completed bool) game.Milestone {
	m := game.Milestone{
		ID:       uuid.New().String(),
		GameID:   gameID,
		Title:    title,
		Category: game.CategoryStory,
	}
	if completed {
		now := time.Now()
		m.Completed = true
		m.CompletedDate = &now
	}
	if err := db.DB.Create(&m).Error; err != nil {
		t.Fatalf("failed to seed milestone: %v", err)
	}
	return m
}

func seedNote(t *testing.T, gameID uint, text string, date time.Time) game.Note {
	n := game.Note{ID: uuid.New().String(), GameID: gameID, Text: text, Date: date}
	if err := db.DB.Create(&n).Error; err != nil {
		t.Fatalf("failed to seed note: %v", err)
	}
	return n
}

func TestCreateGameHandler_Unauthorized(t *testing.T) {
	setupGameDB(t)
	resetTables(t)
	cfg := &config.Config{}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/games", CreateGameHandler(cfg))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/games", bytes.NewReader([]byte(`{"title":"Elden Ring"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 Unauthorized, got %d", w.Code)
	}
}

func TestCreateGameHandler_PrefillsFromCatalog(t *testing.T) {
	setupGameDB(t)
	resetTables(t)
	u := seedUser(t, "gamer", user.RoleUser)

	orig := catalog.Lookup
	catalog.Lookup = func(cfg *config.CatalogConfig, title string) (*catalog.GameInfo, error) {
		return &catalog.GameInfo{
			Name:      title,
			Platforms: []string{"PlayStation 5"},
			Genres:    []string{"RPG", "Action"},
		}, nil
	}
	defer func() { catalog.Lookup = orig }()

	r := authedRouter(u)
	r.POST("/games", CreateGameHandler(&config.Config{}))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/games", bytes.NewReader([]byte(`{"title":"Elden Ring"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	if !contains(w.Body.String(), "PlayStation 5") {
		t.Errorf("platform should be prefilled from catalog, got: %s", w.Body.String())
	}
	if !contains(w.Body.String(), "RPG") {
		t.Errorf("genres should be prefilled from catalog, got: %s", w.Body.String())
	}
}

func TestCreateGameHandler_CatalogFailureDegradesGracefully(t *testing.T) {
	setupGameDB(t)
	resetTables(t)
	u := seedUser(t, "gamer", user.RoleUser)

	orig := catalog.Lookup
	catalog.Lookup = func(cfg *config.CatalogConfig, title string) (*catalog.GameInfo, error) {
		return nil, catalog.ErrNotFound
	}
	defer func() { catalog.Lookup = orig }()

	r := authedRouter(u)
	r.POST("/games", CreateGameHandler(&config.Config{}))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/games", bytes.NewReader([]byte(`{"title":"Obscure Indie","platform":"PC"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created despite catalog miss, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateGameHandler_MissingTitle(t *testing.T) {
	setupGameDB(t)
	resetTables(t)
	u := seedUser(t, "gamer", user.RoleUser)
	r := authedRouter(u)
	r.POST("/games", CreateGameHandler(&config.Config{}))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/games", bytes.NewReader([]byte(`{"platform":"PC"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 Bad Request, got %d", w.Code)
	}
}

func TestListGamesHandler_ScopedToOwner(t *testing.T) {
	setupGameDB(t)
	resetTables(t)
	u1 := seedUser(t, "owner", user.RoleUser)
	u2 := seedUser(t, "other", user.RoleUser)
	seedGame(t, u1.ID, "Hades")
	seedGame(t, u2.ID, "Celeste")

	r := authedRouter(u1)
	r.GET("/games", ListGamesHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/games", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var games []game.Game
	if err := json.Unmarshal(w.Body.Bytes(), &games); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if len(games) != 1 || games[0].Title != "Hades" {
		t.Errorf("expected only the owner's game, got: %+v", games)
	}
}

func TestGetGameHandler_NotFoundForForeignGame(t *testing.T) {
	setupGameDB(t)
	resetTables(t)
	u1 := seedUser(t, "owner", user.RoleUser)
	u2 := seedUser(t, "other", user.RoleUser)
	g := seedGame(t, u2.ID, "Celeste")

	r := authedRouter(u1)
	r.GET("/games/:id", GetGameHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", fmt.Sprintf("/games/%d", g.ID), nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another user's game, got %d", w.Code)
	}
}

func TestGetGameHandler_ReturnsCollections(t *testing.T) {
	setupGameDB(t)
	resetTables(t)
	u := seedUser(t, "gamer", user.RoleUser)
	g := seedGame(t, u.ID, "Hades")
	seedMilestone(t, g.ID, "Escape Tartarus", false)
	seedNote(t, g.ID, "first run tonight", time.Now())

	r := authedRouter(u)
	r.GET("/games/:id", GetGameHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", fmt.Sprintf("/games/%d", g.ID), nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	if !contains(w.Body.String(), "Escape Tartarus") {
		t.Errorf("response should include milestones, got: %s", w.Body.String())
	}
	if !contains(w.Body.String(), "first run tonight") {
		t.Errorf("response should include notes, got: %s", w.Body.String())
	}
}

func TestUpdateGameHandler_ChangesFields(t *testing.T) {
	setupGameDB(t)
	resetTables(t)
	u := seedUser(t, "gamer", user.RoleUser)
	g := seedGame(t, u.ID, "Hades")

	r := authedRouter(u)
	r.PUT("/games/:id", UpdateGameHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", fmt.Sprintf("/games/%d", g.ID),
		bytes.NewReader([]byte(`{"title":"Hades II","platform":"Switch"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var updated game.Game
	if err := db.DB.First(&updated, g.ID).Error; err != nil {
		t.Fatalf("failed to reload game: %v", err)
	}
	if updated.Title != "Hades II" || updated.Platform != "Switch" {
		t.Errorf("unexpected updated game: %+v", updated)
	}
}

func TestDeleteGameHandler_CascadesAndClearsWorkflow(t *testing.T) {
	setupGameDB(t)
	resetTables(t)
	u := seedUser(t, "gamer", user.RoleUser)
	g := seedGame(t, u.ID, "Hades")
	seedMilestone(t, g.ID, "Escape Tartarus", false)
	seedNote(t, g.ID, "first run", time.Now())

	r := authedRouter(u)
	r.DELETE("/games/:id", DeleteGameHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", fmt.Sprintf("/games/%d", g.ID), nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var mCount, nCount int64
	db.DB.Model(&game.Milestone{}).Where("game_id = ?", g.ID).Count(&mCount)
	db.DB.Model(&game.Note{}).Where("game_id = ?", g.ID).Count(&nCount)
	if mCount != 0 || nCount != 0 {
		t.Errorf("expected milestones and notes removed, got %d/%d", mCount, nCount)
	}
	if activeWorkflow(g.ID) != nil {
		t.Errorf("deleting a game should abandon its workflow")
	}
}

func TestCreateGameHandler_SeedsPlaceholderWhenNotGenerating(t *testing.T) {
	setupGameDB(t)
	resetTables(t)
	u := seedUser(t, "gamer", user.RoleUser)

	orig := catalog.Lookup
	catalog.Lookup = func(cfg *config.CatalogConfig, title string) (*catalog.GameInfo, error) {
		return nil, catalog.ErrNotFound
	}
	defer func() { catalog.Lookup = orig }()

	r := authedRouter(u)
	r.POST("/games", CreateGameHandler(&config.Config{}))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/games", bytes.NewReader([]byte(`{"title":"Unmapped Indie"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var milestones []game.Milestone
	db.DB.Find(&milestones)
	if len(milestones) != 1 || !milestones[0].IsPlaceholder() {
		t.Fatalf("a milestone-less game should carry the sentinel, got %+v", milestones)
	}
	if !contains(w.Body.String(), game.PlaceholderTitle) {
		t.Errorf("response should include the sentinel, got: %s", w.Body.String())
	}
}
