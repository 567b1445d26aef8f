package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"mixd/internal/leaderboard"
	"mixd/internal/models"
	"mixd/internal/providers"
	"mixd/internal/services"
	"mixd/internal/structures"
)

const (
	maxRequestBodySize = 1 << 20 // 1 MB
	defaultLimit       = 10
	fallbackMaxLimit   = 50
)

type ApiController struct {
	logger   providers.Logger
	service  services.ComboServiceInterface
	store    leaderboard.StoreInterface
	cache    providers.CacheProviderInterface
	metrics  providers.MetricsProviderInterface
	maxLimit int
}

func NewApiController(conf *structures.Config, logger providers.Logger, service services.ComboServiceInterface, store leaderboard.StoreInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *ApiController {
	maxLimit := conf.Store.MaxLimit
	if maxLimit <= 0 {
		maxLimit = fallbackMaxLimit
	}
	return &ApiController{
		logger:   logger,
		service:  service,
		store:    store,
		cache:    cache,
		metrics:  metrics,
		maxLimit: maxLimit,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// Home serves the API index. Anything else under "/" that no explicit route
// claimed is a 404.
func (ac *ApiController) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Endpoint not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Brand Mixologist API",
		"status":    "healthy",
		"endpoints": []string{"/generate", "/leaderboard", "/vote", "/brands", "/health"},
	})
}

type generateRequest struct {
	Product1 string `json:"product1"`
	Product2 string `json:"product2"`
	Mode     string `json:"mode"`
}

func (ac *ApiController) Generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload generateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "No JSON data provided")
		return
	}

	combo, err := ac.service.Generate(payload.Product1, payload.Product2, payload.Mode)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		ac.logger.Errorf(providers.TypeApp, "Generate failed: %s", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate combo")
		return
	}

	ac.metrics.IncCombosGenerated()
	writeJSON(w, http.StatusOK, map[string]any{
		"combo":   combo,
		"message": "Combo generated successfully",
	})
}

func (ac *ApiController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > ac.maxLimit {
		limit = ac.maxLimit
	}

	// Keyed on the store generation so a vote invalidates cached rankings
	// immediately instead of after the TTL.
	cacheKey := fmt.Sprintf("top:%d:%d", ac.store.Generation(), limit)
	ac.serveFromCacheOrCompute(w, cacheKey, func() (any, error) {
		combos := ac.store.TopCombos(limit)
		if combos == nil {
			combos = []models.Combo{}
		}
		return map[string]any{
			"combos":      combos,
			"total_count": ac.store.Count(),
			"message":     "Leaderboard retrieved successfully",
		}, nil
	})
}

type voteRequest struct {
	ComboID string `json:"combo_id"`
}

func (ac *ApiController) Vote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload voteRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "No JSON data provided")
		return
	}

	key := models.NormalizeKey(payload.ComboID)
	if key == "" {
		writeError(w, http.StatusBadRequest, "combo_id is required")
		return
	}

	if !ac.store.RegisterVote(payload.ComboID) {
		writeError(w, http.StatusNotFound, "Combo not found")
		return
	}
	ac.metrics.IncVotesRegistered()

	votes := 0
	name := payload.ComboID
	for _, c := range ac.store.Snapshot() {
		if c.Matches(key) {
			votes = c.Votes
			name = c.Name
			break
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "voted",
		"votes":      votes,
		"combo_name": name,
		"message":    "Vote registered successfully",
	})
}

func (ac *ApiController) GetBrands(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = "all"
	}

	brands, ok := ac.service.Brands(category)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid category")
		return
	}

	ac.serveFromCacheOrCompute(w, "brands:"+category, func() (any, error) {
		resp := map[string]any{"brands": brands}
		if category == "all" {
			resp["categories"] = ac.service.Categories()
		} else {
			resp["category"] = category
		}
		return resp, nil
	})
}
