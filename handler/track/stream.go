package track

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/mager/parietal/database"
	"github.com/mager/parietal/mir"
	"github.com/mager/parietal/tags"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, you should validate the origin of the request
		return true
	},
}

// StreamHandler normalizes a batch of tracks over a WebSocket: the client
// sends one NormalizeRequest message per track and receives one
// NormalizeResponse message back for each, in order.
type StreamHandler struct {
	log    *zap.SugaredLogger
	db     *sql.DB
	engine *mir.Engine
}

func (*StreamHandler) Pattern() string {
	return "/track/normalize/stream"
}

// NewStreamHandler builds a new StreamHandler.
func NewStreamHandler(log *zap.SugaredLogger, db *sql.DB, engine *mir.Engine) *StreamHandler {
	return &StreamHandler{
		log:    log,
		db:     db,
		engine: engine,
	}
}

type StreamError struct {
	TrackID string `json:"track_id,omitempty"`
	Error   string `json:"error"`
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorw("Error upgrading connection to WebSocket", "error", err)
		return
	}
	defer conn.Close()

	h.log.Info("normalization stream client connected")
	ctx := context.Background()

	for {
		var req NormalizeRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorw("stream read error", "error", err)
			}
			return
		}
		if req.TrackID == "" {
			if err := conn.WriteJSON(StreamError{Error: "missing track_id"}); err != nil {
				return
			}
			continue
		}

		features := h.engine.NormalizeAllFeatures(req.RawFeatureBundle)
		scores := tags.DeriveCompositeScores(features)
		synthetic := tags.GenerateAllTags(tags.FeatureValues(features), scores)
		synthetic = tags.MergeTagsWithExisting(synthetic, req.ExistingTags)

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
				if err := conn.WriteJSON(StreamError{TrackID: req.TrackID, Error: "storage failure"}); err != nil {
					return
				}
				continue
			}
		}

		resp := NormalizeResponse{
			TrackID:  req.TrackID,
			Features: features,
			Scores:   scores,
			Tags:     synthetic,
		}
		if err := conn.WriteJSON(resp); err != nil {
			h.log.Errorw("stream write error", "track_id", req.TrackID, "error", err)
			return
		}
	}
}
