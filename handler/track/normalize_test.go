package track

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mager/parietal/logger"
	"github.com/mager/parietal/mir"
)

func newTestHandler() *NormalizeHandler {
	log, _ := logger.NewTestLogger()
	return NewNormalizeHandler(log, nil, mir.NewEngine(log), nil, nil, nil)
}

func TestNormalizeHandler(t *testing.T) {
	body := `{
		"track_id": "t1",
		"acoustid": {"danceable": true, "acoustic": true},
		"bpm": 128,
		"key": "C",
		"scale": "major"
	}`
	req := httptest.NewRequest(http.MethodPost, "/track/normalize", strings.NewReader(body))
	rr := httptest.NewRecorder()

	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var resp NormalizeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.TrackID != "t1" {
		t.Errorf("track_id = %q, want t1", resp.TrackID)
	}
	if v, _ := resp.Features.Float("danceability"); v != 1.0 {
		t.Errorf("danceability = %v, want 1.0", v)
	}
	if v, _ := resp.Features.String("camelot_key"); v != "8B" {
		t.Errorf("camelot_key = %q, want 8B", v)
	}
	if v, ok := resp.Features.Float("confidence_score"); !ok || v < 0 || v > 1 {
		t.Errorf("confidence_score = %v, want value in [0,1]", v)
	}
	if len(resp.Tags) == 0 {
		t.Error("expected synthetic tags")
	}
	for i := 1; i < len(resp.Tags); i++ {
		if resp.Tags[i-1].Score < resp.Tags[i].Score {
			t.Errorf("tags not sorted descending at %d", i)
		}
	}
}

func TestNormalizeHandlerExistingTags(t *testing.T) {
	// High valence emits bright and uplifting; bright is already stored.
	body := `{
		"track_id": "t2",
		"acoustid": {"mood_happy": 0.9, "mood_sad": 0.1},
		"existing_tags": ["bright"]
	}`
	req := httptest.NewRequest(http.MethodPost, "/track/normalize", strings.NewReader(body))
	rr := httptest.NewRecorder()

	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var resp NormalizeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	for _, tag := range resp.Tags {
		if tag.Tag == "bright" {
			t.Error("existing tag bright should be dropped from synthetic tags")
		}
	}
}

func TestNormalizeHandlerMissingTrackID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/track/normalize", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestNormalizeHandlerMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/track/normalize", nil)
	rr := httptest.NewRecorder()

	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}

func TestNormalizeHandlerBadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/track/normalize", strings.NewReader(`{not json`))
	rr := httptest.NewRecorder()

	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}
