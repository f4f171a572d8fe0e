package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatmodel "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/chat"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/persona"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/ai"
	chatservice "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/chat"
	moodservice "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/mood"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/pkg/utils"
)

var errSquadUnavailable = errors.New("recovery squad not configured")

// SquadSource yields the current invoker source, or nil before a credential
// has been accepted.
type SquadSource func() ai.Source

// Handler runs the ongoing support chat. Each turn is a synchronous
// request/response cycle: the loop is idle or awaiting exactly one reply,
// never both.
type Handler struct {
	chatSvc  *chatservice.Service
	personas persona.Store
	moodSvc  *moodservice.Service
	squad    SquadSource
}

// New creates the chat handler.
func New(chatSvc *chatservice.Service, personas persona.Store, moodSvc *moodservice.Service, squad SquadSource) *Handler {
	return &Handler{
		chatSvc:  chatSvc,
		personas: personas,
		moodSvc:  moodSvc,
		squad:    squad,
	}
}

// RegisterRoutes mounts chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/session", h.handleCreateSession)
	r.Post("/chat/{sessionID}/messages", h.handleSendMessage)
	r.Get("/chat/{sessionID}/transcript", h.handleTranscript)
	r.Get("/chat/{sessionID}/ws", h.handleWebSocket)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PersonaID string `json:"personaId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.PersonaID == "" {
		// The support chat defaults to the therapist.
		payload.PersonaID = "therapist"
	}

	if _, ok := h.personas.FindByID(payload.PersonaID); !ok {
		utils.RespondError(w, http.StatusBadRequest, "persona not found")
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(), payload.PersonaID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Content string `json:"content"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Content == "" {
		utils.RespondError(w, http.StatusBadRequest, "content is required")
		return
	}

	userTurn, replyTurn, err := h.respond(r.Context(), sessionID, payload.Content)
	if err != nil {
		switch {
		case errors.Is(err, chatservice.ErrSessionNotFound):
			utils.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, errSquadUnavailable):
			utils.RespondError(w, http.StatusServiceUnavailable, "recovery squad not configured - provide your Gemini API key first")
		default:
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]chatmodel.Message{
		"user":  userTurn,
		"reply": replyTurn,
	})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	transcript, err := h.chatSvc.LoadTranscript(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, transcript)
}

// respond runs one chat-loop transition: append the user turn, replay the
// full transcript through the session's persona, append its reply (or the
// fixed fallback on failure). The user turn is never rolled back.
func (h *Handler) respond(ctx context.Context, sessionID, content string) (chatmodel.Message, chatmodel.Message, error) {
	session, err := h.chatSvc.GetSession(ctx, sessionID)
	if err != nil {
		return chatmodel.Message{}, chatmodel.Message{}, err
	}

	squad := h.squad()
	if squad == nil {
		return chatmodel.Message{}, chatmodel.Message{}, errSquadUnavailable
	}

	userTurn, err := h.chatSvc.SaveMessage(ctx, chatmodel.Message{
		SessionID: sessionID,
		Sender:    chatmodel.SenderUser,
		Content:   content,
	})
	if err != nil {
		return chatmodel.Message{}, chatmodel.Message{}, err
	}

	transcript, err := h.chatSvc.LoadTranscript(ctx, sessionID)
	if err != nil {
		return chatmodel.Message{}, chatmodel.Message{}, err
	}

	personaName := ""
	if p, ok := h.personas.FindByID(session.PersonaID); ok {
		personaName = p.Name
	}

	reply := chatservice.FallbackReply
	if inv, ok := squad.Invoker(session.PersonaID); ok {
		generated, invokeErr := inv.Invoke(ctx, chatservice.BuildPrompt(transcript, personaName), nil)
		if invokeErr != nil {
			log.Printf("[chat] invocation failed for session=%s: %v", sessionID, invokeErr)
		} else {
			reply = generated
		}
	} else {
		log.Printf("[chat] no invoker for persona=%s", session.PersonaID)
	}

	judgement := h.moodSvc.Annotate(ctx, content, reply)

	replyTurn, err := h.chatSvc.SaveMessage(ctx, chatmodel.Message{
		SessionID: sessionID,
		Sender:    chatmodel.SenderTherapist,
		Content:   reply,
		Mood:      string(judgement.Decision.Mood),
	})
	if err != nil {
		return chatmodel.Message{}, chatmodel.Message{}, err
	}

	return userTurn, replyTurn, nil
}
