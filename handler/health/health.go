package health

import (
	"encoding/json"
	"net/http"
)

// HealthHandler is an http.Handler for liveness checks.
type HealthHandler struct{}

func (*HealthHandler) Pattern() string {
	return "/health"
}

// NewHealthHandler builds a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

type Response struct {
	Status string `json:"status"`
}

// Health check
// @Summary Health check
// @Description Returns OK when the service is up
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{Status: "OK"})
}
