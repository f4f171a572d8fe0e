package chat

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatmodel "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/chat"
	chatservice "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/chat"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/pkg/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type wsInbound struct {
	Content string `json:"content"`
}

type wsOutbound struct {
	User  *chatmodel.Message `json:"user,omitempty"`
	Reply *chatmodel.Message `json:"reply,omitempty"`
	Error string             `json:"error,omitempty"`
}

// handleWebSocket runs the same chat loop over a socket. The loop stays
// strictly sequential: one inbound message is fully answered before the next
// read happens, so a session never has two requests in flight.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[chat] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[chat] websocket opened for session=%s", sessionID)

	for {
		var inbound wsInbound
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[chat] websocket read failed: %v", err)
			}
			return
		}

		if inbound.Content == "" {
			if err := conn.WriteJSON(wsOutbound{Error: "content is required"}); err != nil {
				return
			}
			continue
		}

		userTurn, replyTurn, err := h.respond(r.Context(), sessionID, inbound.Content)
		if err != nil {
			message := err.Error()
			if errors.Is(err, errSquadUnavailable) {
				message = "recovery squad not configured - provide your Gemini API key first"
			}
			if err := conn.WriteJSON(wsOutbound{Error: message}); err != nil {
				return
			}
			if errors.Is(err, chatservice.ErrSessionNotFound) {
				return
			}
			continue
		}

		if err := conn.WriteJSON(wsOutbound{User: &userTurn, Reply: &replyTurn}); err != nil {
			return
		}
	}
}
