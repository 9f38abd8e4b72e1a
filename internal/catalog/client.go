package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"questlog/internal/config"
)

var ErrNotFound = errors.New("game not found in catalog")

// GameInfo is the subset of catalog metadata the tracker uses to prefill
// a new game entry.
type GameInfo struct {
	Name      string   `json:"name"`
	Released  string   `json:"released"`
	Platforms []string `json:"platforms"`
	Genres    []string `json:"genres"`
}

// Lookup queries a RAWG-style catalog API for a game title. Exported as a
// variable so handlers can stub it in tests.
var Lookup = func(cfg *config.CatalogConfig, title string) (*GameInfo, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, ErrNotFound
	}
	endpoint := fmt.Sprintf("%s/games?search=%s&page_size=1&key=%s",
		cfg.URL, url.QueryEscape(title), url.QueryEscape(cfg.APIKey))

	client := http.Client{Timeout: 15 * time.Second}
	res, err := client.Get(endpoint)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog lookup returned status %d", res.StatusCode)
	}

	var body struct {
		Results []struct {
			Name      string `json:"name"`
			Released  string `json:"released"`
			Platforms []struct {
				Platform struct {
					Name string `json:"name"`
				} `json:"platform"`
			} `json:"platforms"`
			Genres []struct {
				Name string `json:"name"`
			} `json:"genres"`
		} `json:"results"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if len(body.Results) == 0 {
		return nil, ErrNotFound
	}

	r := body.Results[0]
	info := &GameInfo{Name: r.Name, Released: r.Released}
	for _, p := range r.Platforms {
		info.Platforms = append(info.Platforms, p.Platform.Name)
	}
	for _, g := range r.Genres {
		info.Genres = append(info.Genres, g.Name)
	}
	return info, nil
}
