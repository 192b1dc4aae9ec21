package track

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mager/parietal/database"
	"go.uber.org/zap"
)

// FeaturesHandler serves a track's stored normalized record.
type FeaturesHandler struct {
	log *zap.SugaredLogger
	db  *sql.DB
}

func (*FeaturesHandler) Pattern() string {
	return "/track/features"
}

// NewFeaturesHandler builds a new FeaturesHandler.
func NewFeaturesHandler(log *zap.SugaredLogger, db *sql.DB) *FeaturesHandler {
	return &FeaturesHandler{
		log: log,
		db:  db,
	}
}

type GetFeaturesResponse struct {
	Track database.TrackFeaturesRow `json:"track"`
}

// Get track features
// @Summary Get normalized track features
// @Description Get a track's stored normalized features and synthetic tags
// @Produce json
// @Success 200 {object} GetFeaturesResponse
// @Router /track/features [get]
// @Param id query string true "Track ID"
func (h *FeaturesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	q := r.URL.Query()
	id := q.Get("id")
	if id == "" {
		http.Error(w, `{"error":"missing id"}`, http.StatusBadRequest)
		return
	}
	if h.db == nil {
		http.Error(w, `{"error":"storage unavailable"}`, http.StatusServiceUnavailable)
		return
	}

	row, err := database.GetTrackFeatures(context.Background(), h.db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, `{"error":"track not found"}`, http.StatusNotFound)
			return
		}
		h.log.Errorw("error loading track features", "track_id", id, "error", err)
		http.Error(w, `{"error":"storage failure"}`, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(GetFeaturesResponse{Track: *row})
}
