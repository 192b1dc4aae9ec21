package discover

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mager/parietal/database"
	"go.uber.org/zap"
)

// DiscoverHandler serves score-range queries over normalized features,
// e.g. "workout tracks with energy between 0.6 and 0.9".
type DiscoverHandler struct {
	log *zap.SugaredLogger
	db  *sql.DB
}

func (*DiscoverHandler) Pattern() string {
	return "/discover"
}

// NewDiscoverHandler builds a new DiscoverHandler.
func NewDiscoverHandler(log *zap.SugaredLogger, db *sql.DB) *DiscoverHandler {
	return &DiscoverHandler{
		log: log,
		db:  db,
	}
}

type DiscoverResponse struct {
	Tracks []database.TrackFeaturesRow `json:"tracks"`
}

// Discover tracks
// @Summary Discover tracks by normalized scores
// @Description Find tracks by energy range and optional synthetic tag
// @Produce json
// @Success 200 {object} DiscoverResponse
// @Router /discover [get]
// @Param tag query string false "Synthetic tag name"
// @Param min_energy query number false "Minimum energy score"
// @Param max_energy query number false "Maximum energy score"
// @Param limit query int false "Max results"
func (h *DiscoverHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.db == nil {
		http.Error(w, `{"error":"storage unavailable"}`, http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	minEnergy := parseScore(q.Get("min_energy"), 0.0)
	maxEnergy := parseScore(q.Get("max_energy"), 1.0)
	tag := q.Get("tag")

	limit := 20
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		limit = l
	}
	if limit > 100 {
		limit = 100
	}

	h.log.Infow("discover query", "tag", tag, "min_energy", minEnergy, "max_energy", maxEnergy, "limit", limit)

	rows, err := database.QueryTracksByScore(context.Background(), h.db, minEnergy, maxEnergy, tag, limit)
	if err != nil {
		h.log.Errorw("discover query failed", "error", err)
		http.Error(w, `{"error":"storage failure"}`, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(DiscoverResponse{Tracks: rows})
}

func parseScore(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 1 {
		return fallback
	}
	return v
}
