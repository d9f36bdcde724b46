package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/finvoice/finvoice/internal/config"
	"github.com/finvoice/finvoice/internal/utils"
)

type healthResponse struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Timestamp string          `json:"timestamp"`
	Services  servicesEnabled `json:"services"`
}

type servicesEnabled struct {
	Store    bool `json:"store"`
	Gemini   bool `json:"gemini"`
	Firebase bool `json:"firebase"`
}

// HealthHandler answers liveness probes with the set of configured
// external services.
type HealthHandler struct {
	cfg   config.Application
	clock utils.Clock
}

func NewHealthHandler(cfg config.Application, clock utils.Clock) *HealthHandler {
	return &HealthHandler{cfg: cfg, clock: clock}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(healthResponse{
		Status:    "OK",
		Message:   "FinVoice Backend is running",
		Timestamp: h.clock.Now().UTC().Format(time.RFC3339),
		Services: servicesEnabled{
			Store:    h.cfg.Store.Configured(),
			Gemini:   h.cfg.Gemini.Configured(),
			Firebase: h.cfg.Firebase.Configured(),
		},
	})
}
