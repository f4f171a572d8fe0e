package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	chatmodel "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/chat"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/persona"
	planmodel "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/plan"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/ai"
	chatservice "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/chat"
	moodservice "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/mood"
)

type stubInvoker struct {
	replies []string
	err     error
	prompts []string
}

func (s *stubInvoker) Invoke(_ context.Context, prompt string, _ []planmodel.Attachment) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	reply := "I'm listening."
	if len(s.replies) > 0 {
		reply = s.replies[0]
		s.replies = s.replies[1:]
	}
	return reply, nil
}

type stubSquad struct {
	invoker *stubInvoker
}

func (s *stubSquad) Invoker(string) (ai.Invoker, bool) { return s.invoker, true }
func (s *stubSquad) Order() []string {
	return []string{"therapist", "closure", "planner", "honesty"}
}

func setupRouter(squad ai.Source) (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService()
	store := persona.NewMemoryStore(persona.Seed())
	moodSvc := moodservice.NewService(nil, moodservice.Config{})
	handler := New(chatSvc, store, moodSvc, func() ai.Source { return squad })

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func createSession(t *testing.T, r *chi.Mux, body string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat/session", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var session chatmodel.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return session.ID
}

func sendMessage(t *testing.T, r *chi.Mux, sessionID, content string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"content": content})
	req := httptest.NewRequest(http.MethodPost, "/chat/"+sessionID+"/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateSessionDefaultsToTherapist(t *testing.T) {
	r, chatSvc := setupRouter(&stubSquad{invoker: &stubInvoker{}})
	sessionID := createSession(t, r, `{}`)

	session, err := chatSvc.GetSession(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("GetSession err: %v", err)
	}
	if session.PersonaID != "therapist" {
		t.Fatalf("expected therapist session, got %s", session.PersonaID)
	}
}

func TestCreateSessionInvalidPersona(t *testing.T) {
	r, _ := setupRouter(&stubSquad{invoker: &stubInvoker{}})
	req := httptest.NewRequest(http.MethodPost, "/chat/session", bytes.NewReader([]byte(`{"personaId":"non-existent"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSendMessageWithoutSquadIsRejected(t *testing.T) {
	r, _ := setupRouter(nil)
	sessionID := createSession(t, r, `{}`)

	resp := sendMessage(t, r, sessionID, "Hello")
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before a credential is configured, got %d", resp.Code)
	}
}

func TestSendMessageReplaysFullTranscript(t *testing.T) {
	inv := &stubInvoker{replies: []string{"Take a deep breath.", "That's real progress."}}
	r, chatSvc := setupRouter(&stubSquad{invoker: inv})
	sessionID := createSession(t, r, `{}`)

	if resp := sendMessage(t, r, sessionID, "Hello"); resp.Code != http.StatusOK {
		t.Fatalf("first message: expected 200, got %d", resp.Code)
	}
	if resp := sendMessage(t, r, sessionID, "I feel better"); resp.Code != http.StatusOK {
		t.Fatalf("second message: expected 200, got %d", resp.Code)
	}

	if len(inv.prompts) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(inv.prompts))
	}
	wantSecond := "User: Hello\nTherapist: Take a deep breath.\nUser: I feel better"
	if inv.prompts[1] != wantSecond {
		t.Fatalf("second prompt should replay the transcript:\n%s", inv.prompts[1])
	}

	transcript, err := chatSvc.LoadTranscript(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	wantSenders := []string{
		chatmodel.SenderUser, chatmodel.SenderTherapist,
		chatmodel.SenderUser, chatmodel.SenderTherapist,
	}
	if len(transcript) != len(wantSenders) {
		t.Fatalf("expected %d turns, got %d", len(wantSenders), len(transcript))
	}
	for i, sender := range wantSenders {
		if transcript[i].Sender != sender {
			t.Fatalf("turn %d: expected sender %s, got %s", i, sender, transcript[i].Sender)
		}
	}
}

func TestSendMessageLabelsRepliesWithSessionPersona(t *testing.T) {
	inv := &stubInvoker{replies: []string{"Write down what you never said.", "Read it out loud, then let it go."}}
	r, _ := setupRouter(&stubSquad{invoker: inv})
	sessionID := createSession(t, r, `{"personaId":"closure"}`)

	if resp := sendMessage(t, r, sessionID, "Help me say goodbye"); resp.Code != http.StatusOK {
		t.Fatalf("first message: expected 200, got %d", resp.Code)
	}
	if resp := sendMessage(t, r, sessionID, "I wrote it"); resp.Code != http.StatusOK {
		t.Fatalf("second message: expected 200, got %d", resp.Code)
	}

	wantSecond := "User: Help me say goodbye\nClosure: Write down what you never said.\nUser: I wrote it"
	if len(inv.prompts) != 2 || inv.prompts[1] != wantSecond {
		t.Fatalf("replies of a closure session must not be attributed to the therapist:\n%s", inv.prompts[1])
	}
}

func TestSendMessageFailureAppendsFallback(t *testing.T) {
	inv := &stubInvoker{err: errors.New("model unavailable")}
	r, chatSvc := setupRouter(&stubSquad{invoker: inv})
	sessionID := createSession(t, r, `{}`)

	resp := sendMessage(t, r, sessionID, "Hello")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 even when the invocation fails, got %d", resp.Code)
	}

	transcript, err := chatSvc.LoadTranscript(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(transcript) != 2 {
		t.Fatalf("expected user turn plus fallback, got %d turns", len(transcript))
	}
	if transcript[0].Sender != chatmodel.SenderUser || transcript[0].Content != "Hello" {
		t.Fatal("user turn must stay in the transcript")
	}
	if transcript[1].Content != chatservice.FallbackReply {
		t.Fatalf("expected fallback reply, got %q", transcript[1].Content)
	}
}

func TestSendMessageUnknownSession(t *testing.T) {
	r, _ := setupRouter(&stubSquad{invoker: &stubInvoker{}})

	resp := sendMessage(t, r, "missing", "Hello")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
