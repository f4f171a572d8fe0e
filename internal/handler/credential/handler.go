package credential

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/SyamChandBanisetti/Breakup-recovery-agent/pkg/utils"
)

// Configurator accepts a Gemini API key and (re)builds the recovery squad.
type Configurator interface {
	Configure(ctx context.Context, apiKey string) error
}

// Handler accepts the per-session credential from the UI's sidebar field.
// The key is held in memory only and never persisted.
type Handler struct {
	squad Configurator
}

// New creates the credential handler.
func New(squad Configurator) *Handler {
	return &Handler{squad: squad}
}

// RegisterRoutes mounts the credential route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/credential", h.handleSetCredential)
}

func (h *Handler) handleSetCredential(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		APIKey string `json:"apiKey"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key := strings.TrimSpace(payload.APIKey)
	if key == "" {
		utils.RespondError(w, http.StatusBadRequest, "apiKey is required")
		return
	}

	if err := h.squad.Configure(r.Context(), key); err != nil {
		utils.RespondError(w, http.StatusBadGateway, "failed to initialize recovery squad: "+err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "configured"})
}
