package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/albapepper/scoracle-games/internal/api/respond"
	"github.com/albapepper/scoracle-games/internal/cache"
	"github.com/albapepper/scoracle-games/internal/config"
	"github.com/albapepper/scoracle-games/internal/store"
)

// GetSports lists every registered sport and whether its provider is live.
func (h *Handler) GetSports(w http.ResponseWriter, r *http.Request) {
	available := make(map[string]bool, len(config.SportRegistry))
	for _, sport := range h.reg.Sports() {
		available[sport] = true
	}

	type sportInfo struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		CurrentSeason int    `json:"current_season"`
		Available     bool   `json:"available"`
	}

	sports := make([]sportInfo, 0, len(config.SportRegistry))
	for _, id := range config.SportIDs() {
		sc := config.SportRegistry[id]
		sports = append(sports, sportInfo{
			ID:            sc.ID,
			Name:          sc.Name,
			CurrentSeason: sc.CurrentSeason,
			Available:     available[id],
		})
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"sports": sports})
}

// GetLeagues lists stored leagues, optionally filtered by ?sport=.
func (h *Handler) GetLeagues(w http.ResponseWriter, r *http.Request) {
	sport := r.URL.Query().Get("sport")
	if sport != "" {
		if _, ok := config.SportRegistry[sport]; !ok {
			respond.WriteError(w, http.StatusBadRequest, "UNKNOWN_SPORT", "unknown sport: "+sport)
			return
		}
	}

	h.cached(w, r, "leagues:"+sport, cache.TTLLeagues, func() (interface{}, error) {
		leagues, err := store.ListLeagues(r.Context(), h.pool, sport)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"leagues": leagues, "count": len(leagues)}, nil
	})
}

// GetGames lists stored games for ?sport= on ?date= (default today).
func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	sport := r.URL.Query().Get("sport")
	if _, ok := config.SportRegistry[sport]; !ok {
		respond.WriteError(w, http.StatusBadRequest, "UNKNOWN_SPORT", "unknown or missing sport: "+sport)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_DATE", "date must be YYYY-MM-DD")
		return
	}

	h.cached(w, r, "games:"+sport+":"+date, cache.TTLGames, func() (interface{}, error) {
		games, err := store.ListGames(r.Context(), h.pool, sport, date)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"sport": sport,
			"date":  date,
			"games": games,
			"count": len(games),
		}, nil
	})
}

// cached serves a response through the TTL cache with ETag revalidation.
func (h *Handler) cached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, fetch func() (interface{}, error)) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	v, err := fetch()
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", err.Error())
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", err.Error())
		return
	}

	etag := h.cache.Set(key, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}
