package plan

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/persona"
	planmodel "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/plan"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/ai"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/upload"
)

type stubInvoker struct {
	reply string
	err   error
}

func (s *stubInvoker) Invoke(context.Context, string, []planmodel.Attachment) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type stubSquad struct {
	invokers map[string]ai.Invoker
	order    []string
}

func (s *stubSquad) Invoker(id string) (ai.Invoker, bool) {
	inv, ok := s.invokers[id]
	return inv, ok
}

func (s *stubSquad) Order() []string { return s.order }

func newStubSquad(errorsByID map[string]error) *stubSquad {
	order := []string{"therapist", "closure", "planner", "honesty"}
	invokers := make(map[string]ai.Invoker, len(order))
	for _, id := range order {
		invokers[id] = &stubInvoker{reply: "advice from " + id, err: errorsByID[id]}
	}
	return &stubSquad{invokers: invokers, order: order}
}

func setupRouter(t *testing.T, squad ai.Source) (*chi.Mux, string) {
	t.Helper()
	stagingDir := t.TempDir()
	store := persona.NewMemoryStore(persona.Seed())
	stager := upload.NewStager(stagingDir)
	handler := New(store, stager, func() ai.Source { return squad })

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, stagingDir
}

func postPlan(t *testing.T, r *chi.Mux, feelings string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	if feelings != "" {
		if err := form.WriteField("feelings", feelings); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := form.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/plan", body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

type sseEvent struct {
	name string
	data string
}

func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	scanner := bufio.NewScanner(strings.NewReader(body))
	current := ""
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			events = append(events, sseEvent{name: current, data: strings.TrimPrefix(line, "data: ")})
		}
	}
	return events
}

func TestPlanWithoutSquadIsRejected(t *testing.T) {
	r, _ := setupRouter(t, nil)

	resp := postPlan(t, r, "I miss them so much")
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before a credential is configured, got %d", resp.Code)
	}
}

func TestPlanRequiresFeelingsOrScreenshots(t *testing.T) {
	r, _ := setupRouter(t, newStubSquad(nil))

	resp := postPlan(t, r, "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an empty submission, got %d", resp.Code)
	}
}

func TestPlanStreamsPanelsInOrder(t *testing.T) {
	r, _ := setupRouter(t, newStubSquad(nil))

	resp := postPlan(t, r, "I miss them so much")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected SSE content type, got %q", ct)
	}

	events := parseSSE(t, resp.Body.String())
	wantEvents := []string{"start", "panel", "panel", "panel", "panel", "end"}
	if len(events) != len(wantEvents) {
		t.Fatalf("expected %d events, got %d", len(wantEvents), len(events))
	}
	for i, name := range wantEvents {
		if events[i].name != name {
			t.Fatalf("event %d: expected %s, got %s", i, name, events[i].name)
		}
	}

	wantOrder := []string{"therapist", "closure", "planner", "honesty"}
	for i, id := range wantOrder {
		var panel planmodel.Panel
		if err := json.Unmarshal([]byte(events[i+1].data), &panel); err != nil {
			t.Fatalf("decode panel %d: %v", i, err)
		}
		if panel.PersonaID != id {
			t.Fatalf("panel %d: expected persona %s, got %s", i, id, panel.PersonaID)
		}
		if panel.Content != "advice from "+id {
			t.Fatalf("panel %d: unexpected content %q", i, panel.Content)
		}
	}
}

func TestPlanWithoutScreenshotsStagesNothing(t *testing.T) {
	r, stagingDir := setupRouter(t, newStubSquad(nil))

	resp := postPlan(t, r, "I miss them so much")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		t.Fatalf("read staging dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("a text-only submission must not create staged files, found %d", len(entries))
	}
}

func TestPlanContinuesPastPanelFailure(t *testing.T) {
	squad := newStubSquad(map[string]error{"closure": errors.New("model timeout")})
	r, _ := setupRouter(t, squad)

	resp := postPlan(t, r, "I miss them so much")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	events := parseSSE(t, resp.Body.String())
	wantEvents := []string{"start", "panel", "panel_error", "panel", "panel", "end"}
	if len(events) != len(wantEvents) {
		t.Fatalf("expected %d events, got %d", len(wantEvents), len(events))
	}
	for i, name := range wantEvents {
		if events[i].name != name {
			t.Fatalf("event %d: expected %s, got %s", i, name, events[i].name)
		}
	}

	var failed planmodel.Panel
	if err := json.Unmarshal([]byte(events[2].data), &failed); err != nil {
		t.Fatalf("decode failed panel: %v", err)
	}
	if failed.PersonaID != "closure" || failed.Error == "" {
		t.Fatalf("expected closure panel error, got %+v", failed)
	}
}
