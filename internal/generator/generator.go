package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"questlog/internal/config"
	"questlog/internal/game"
)

var ErrLLMFailure = errors.New("milestone generation failed")

const milestonePrompt = `List the major milestones a player works through in "%s" (%s).
Respond with ONLY a JSON array. Each element:
{"title": "...", "description": "...", "action": "...",
 "category": "story|exploration|gameplay|completion|achievement|tutorial|progression|other",
 "difficulty": "easy|medium|hard|expert", "estimated_time": minutes}`

// CallLLM posts an OpenAI-compatible chat payload and returns the reply
// content. Exported as a variable so tests can stub the network call.
var CallLLM = func(url string, payload map[string]interface{}) (string, error) {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	client := http.Client{Timeout: 120 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode > 299 {
		b, _ := io.ReadAll(res.Body)
		return "", errors.New(string(b))
	}

	var respStruct struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(res.Body).Decode(&respStruct); err != nil {
		return "", err
	}
	if len(respStruct.Choices) == 0 {
		return "", ErrLLMFailure
	}
	return respStruct.Choices[0].Message.Content, nil
}

// Generate drafts a milestone list for a game. Any failure falls back to
// the deterministic default set; callers always receive usable milestones.
func Generate(cfg *config.GeneratorConfig, gameID uint, title, platform string) []game.Milestone {
	if cfg == nil || cfg.URL == "" {
		return DefaultMilestones(gameID, title)
	}
	payload := map[string]interface{}{
		"model": cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": fmt.Sprintf(milestonePrompt, title, platform)},
		},
	}
	raw, err := CallLLM(cfg.URL, payload)
	if err != nil {
		log.Printf("[Generator] LLM call failed, using default milestones: %v", err)
		return DefaultMilestones(gameID, title)
	}
	parsed, err := parseMilestoneList(raw, gameID)
	if err != nil || len(parsed) == 0 {
		log.Printf("[Generator] unusable LLM output, using default milestones: %v", err)
		return DefaultMilestones(gameID, title)
	}
	return parsed
}

// parseMilestoneList extracts a milestone array from model output,
// tolerating markdown code fences and surrounding prose.
func parseMilestoneList(raw string, gameID uint) ([]game.Milestone, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "["); i >= 0 {
		if j := strings.LastIndex(raw, "]"); j > i {
			raw = raw[i : j+1]
		}
	}

	var entries []struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		Action        string `json:"action"`
		Category      string `json:"category"`
		Difficulty    string `json:"difficulty"`
		EstimatedTime int    `json:"estimated_time"`
	}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}

	out := make([]game.Milestone, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Title) == "" {
			continue
		}
		cat := game.Category(e.Category)
		if !game.ValidCategory(cat) {
			cat = game.CategoryOther
		}
		diff := game.Difficulty(e.Difficulty)
		if !game.ValidDifficulty(diff) {
			diff = game.DifficultyMedium
		}
		est := e.EstimatedTime
		if est < 0 {
			est = 0
		}
		out = append(out, game.Milestone{
			ID:            uuid.New().String(),
			GameID:        gameID,
			Title:         strings.TrimSpace(e.Title),
			Description:   strings.TrimSpace(e.Description),
			Action:        strings.TrimSpace(e.Action),
			Category:      cat,
			Difficulty:    diff,
			EstimatedTime: est,
		})
	}
	return out, nil
}
