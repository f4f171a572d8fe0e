package plan

import (
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/persona"
	planmodel "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/plan"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/ai"
	planservice "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/plan"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/upload"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/pkg/utils"
)

const maxUploadBytes = 32 << 20

// SquadSource yields the current invoker source, or nil before a credential
// has been accepted.
type SquadSource func() ai.Source

// Handler runs the "Get Recovery Plan" submission: stage screenshots, invoke
// the four personas in order, and stream each panel back as it arrives.
type Handler struct {
	personas persona.Store
	stager   *upload.Stager
	squad    SquadSource
}

// New creates the plan handler.
func New(personas persona.Store, stager *upload.Stager, squad SquadSource) *Handler {
	return &Handler{personas: personas, stager: stager, squad: squad}
}

// RegisterRoutes mounts the plan route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/plan", h.handleRecoveryPlan)
}

func (h *Handler) handleRecoveryPlan(w http.ResponseWriter, r *http.Request) {
	squad := h.squad()
	if squad == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "recovery squad not configured - provide your Gemini API key first")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	feelings := strings.TrimSpace(r.FormValue("feelings"))

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["screenshots"]
	}

	if feelings == "" && len(files) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "share your feelings or upload chat screenshots")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	attachments := h.stager.StageAll(files)
	defer upload.Cleanup(attachments)

	utils.SetupSSEHeaders(w)
	utils.SendSSEEvent(w, flusher, "start", map[string]any{
		"personas":    len(squad.Order()),
		"attachments": len(attachments),
	})

	dispatcher := planservice.NewService(squad, h.personas)
	err := dispatcher.Run(r.Context(), feelings, attachments, func(panel planmodel.Panel) {
		event := "panel"
		if panel.Error != "" {
			event = "panel_error"
		}
		utils.SendSSEEvent(w, flusher, event, panel)
	})
	if err != nil {
		log.Printf("[plan] dispatch aborted: %v", err)
		return
	}

	utils.SendSSEEvent(w, flusher, "end", map[string]any{"finished": true})
	log.Printf("[plan] completed recovery plan, attachments=%d", len(attachments))
}
