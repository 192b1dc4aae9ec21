package discover

import (
	"context"
	"encoding/json"
	"net/http"

	fs "cloud.google.com/go/firestore"
	fsClient "github.com/mager/parietal/firestore"
	"go.uber.org/zap"
)

// FeaturedHandler serves the curated discover document maintained by the
// curation job.
type FeaturedHandler struct {
	log *zap.SugaredLogger
	fs  *fs.Client
}

func (*FeaturedHandler) Pattern() string {
	return "/discover/featured"
}

// NewFeaturedHandler builds a new FeaturedHandler.
func NewFeaturedHandler(log *zap.SugaredLogger, fsc *fs.Client) *FeaturedHandler {
	return &FeaturedHandler{
		log: log,
		fs:  fsc,
	}
}

type FeaturedResponse struct {
	Tags    []fsClient.FeaturedTag `json:"tags"`
	Updated string                 `json:"updated"`
}

// Featured tags
// @Summary Get featured synthetic tags
// @Description Get the curated list of showcase tracks per synthetic tag
// @Produce json
// @Success 200 {object} FeaturedResponse
// @Router /discover/featured [get]
func (h *FeaturedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := context.Background()

	doc, err := h.fs.Collection("discover").Doc("featured").Get(ctx)
	if err != nil {
		h.log.Errorw("error fetching featured doc", "error", err)
		http.Error(w, `{"error":"featured doc unavailable"}`, http.StatusInternalServerError)
		return
	}

	var featured fsClient.FeaturedDoc
	if err := doc.DataTo(&featured); err != nil {
		h.log.Errorw("error decoding featured doc", "error", err)
		http.Error(w, `{"error":"featured doc malformed"}`, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(FeaturedResponse{Tags: featured.Tags, Updated: featured.Updated})
}
