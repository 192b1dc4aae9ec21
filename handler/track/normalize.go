package track

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/mager/parietal/database"
	"github.com/mager/parietal/mir"
	"github.com/mager/parietal/musicbrainz"
	"github.com/mager/parietal/musixmatch"
	"github.com/mager/parietal/parietal"
	"github.com/mager/parietal/spotify"
	"github.com/mager/parietal/tags"
	"go.uber.org/zap"
)

// NormalizeHandler runs the full normalization pipeline for one track:
// optional genre enrichment from metadata providers, descriptor
// normalization, composite scores, synthetic tags, persistence.
type NormalizeHandler struct {
	log               *zap.SugaredLogger
	db                *sql.DB
	engine            *mir.Engine
	spotifyClient     *spotify.SpotifyClient
	musicbrainzClient *musicbrainz.MusicbrainzClient
	musixmatchClient  *musixmatch.MusixmatchClient
}

func (*NormalizeHandler) Pattern() string {
	return "/track/normalize"
}

// NewNormalizeHandler builds a new NormalizeHandler.
func NewNormalizeHandler(
	log *zap.SugaredLogger,
	db *sql.DB,
	engine *mir.Engine,
	spotifyClient *spotify.SpotifyClient,
	musicbrainzClient *musicbrainz.MusicbrainzClient,
	musixmatchClient *musixmatch.MusixmatchClient,
) *NormalizeHandler {
	return &NormalizeHandler{
		log:               log,
		db:                db,
		engine:            engine,
		spotifyClient:     spotifyClient,
		musicbrainzClient: musicbrainzClient,
		musixmatchClient:  musixmatchClient,
	}
}

type NormalizeRequest struct {
	TrackID   string `json:"track_id"`
	MBID      string `json:"mbid,omitempty"`
	SpotifyID string `json:"spotify_id,omitempty"`
	// ExistingTags are tag names already stored for the track; synthetic
	// duplicates of these are dropped.
	ExistingTags []string `json:"existing_tags,omitempty"`

	parietal.RawFeatureBundle
}

type NormalizeResponse struct {
	TrackID  string                        `json:"track_id"`
	Features parietal.NormalizedFeatureSet `json:"features"`
	Scores   tags.Scores                   `json:"scores"`
	Tags     []parietal.SyntheticTag       `json:"tags"`
}

// Normalize track features
// @Summary Normalize track features
// @Description Normalize raw MIR features for a track and derive synthetic tags
// @Accept json
// @Produce json
// @Param request body NormalizeRequest true "Raw feature bundle"
// @Success 200 {object} NormalizeResponse
// @Router /track/normalize [post]
func (h *NormalizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := context.Background()
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req NormalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.TrackID == "" {
		http.Error(w, `{"error":"missing track_id"}`, http.StatusBadRequest)
		return
	}

	bundle := req.RawFeatureBundle
	h.enrichGenres(ctx, &bundle, req.MBID, req.SpotifyID)

	features := h.engine.NormalizeAllFeatures(bundle)
	scores := tags.DeriveCompositeScores(features)
	synthetic := tags.GenerateAllTags(tags.FeatureValues(features), scores)
	synthetic = tags.MergeTagsWithExisting(synthetic, req.ExistingTags)

	resp := NormalizeResponse{
		TrackID:  req.TrackID,
		Features: features,
		Scores:   scores,
		Tags:     synthetic,
	}

	if h.db != nil {
		genreMain, _ := features.String("genre_main")
		camelot, _ := features.String("camelot_key")
		confidence, _ := features.Float("confidence_score")
		row := database.TrackFeaturesRow{
			TrackID:         req.TrackID,
			GenreMain:       genreMain,
			CamelotKey:      camelot,
			EnergyScore:     scores["energy_score"],
			MoodValence:     scores["mood_valence"],
			DanceScore:      scores["dance_score"],
			ConfidenceScore: confidence,
			Features:        features,
			Tags:            synthetic,
		}
		if err := database.SaveTrackFeatures(ctx, h.db, row); err != nil {
			h.log.Errorw("failed to persist track features", "track_id", req.TrackID, "error", err)
			http.Error(w, `{"error":"storage failure"}`, http.StatusInternalServerError)
			return
		}
	} else {
		h.log.Warnw("no database configured, skipping persistence", "track_id", req.TrackID)
	}

	json.NewEncoder(w).Encode(resp)
}
