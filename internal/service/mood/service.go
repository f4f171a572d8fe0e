package mood

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	analysis "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/analysis/mood"
)

// Config controls the classifier.
type Config struct {
	Enabled bool
}

// ModelSource yields the currently configured chat model, if any. The model
// appears only after a credential is accepted, so it is resolved per call.
type ModelSource interface {
	ChatModel() (model.BaseChatModel, bool)
}

// Judgement is the classification attached to a stored therapist turn.
type Judgement struct {
	Decision  analysis.Decision
	Reason    string
	FromModel bool
}

// Service classifies the mood of a chat exchange with the shared model and
// falls back to keyword heuristics when the model is unavailable or returns
// something unparseable.
type Service struct {
	enabled  bool
	models   ModelSource
	fallback func(user, reply string) analysis.Decision
}

// NewService creates the classifier. A nil source disables model use.
func NewService(models ModelSource, cfg Config) *Service {
	return &Service{
		enabled:  cfg.Enabled && models != nil,
		models:   models,
		fallback: analysis.Analyze,
	}
}

const classifierSystemPrompt = `You label the emotional state of someone working through a breakup.
Answer with a single JSON object: {"mood": "<label>", "scale": <1-5>, "reason": "<short reason>"}.
Valid labels: neutral, grieving, angry, anxious, lonely, hopeful. No other text.`

// Annotate returns the mood judgement for one exchange.
func (s *Service) Annotate(ctx context.Context, userText, replyText string) Judgement {
	if s == nil || !s.enabled {
		return Judgement{Decision: s.safeFallback(userText, replyText)}
	}

	chatModel, ok := s.models.ChatModel()
	if !ok {
		return Judgement{Decision: s.safeFallback(userText, replyText)}
	}

	response, err := chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(classifierSystemPrompt),
		schema.UserMessage("User said: " + userText + "\nTherapist replied: " + replyText),
	})
	if err != nil {
		log.Printf("[mood] classifier call failed, using heuristics: %v", err)
		return Judgement{Decision: s.safeFallback(userText, replyText)}
	}

	judgement, err := parseJudgement(response.Content)
	if err != nil {
		log.Printf("[mood] unparseable classifier output, using heuristics: %v", err)
		return Judgement{Decision: s.safeFallback(userText, replyText)}
	}

	return judgement
}

func (s *Service) safeFallback(userText, replyText string) analysis.Decision {
	if s == nil || s.fallback == nil {
		return analysis.Analyze(userText, replyText)
	}
	return s.fallback(userText, replyText)
}

var validLabels = map[analysis.Label]bool{
	analysis.Neutral:  true,
	analysis.Grieving: true,
	analysis.Angry:    true,
	analysis.Anxious:  true,
	analysis.Lonely:   true,
	analysis.Hopeful:  true,
}

func parseJudgement(raw string) (Judgement, error) {
	var payload struct {
		Mood   string  `json:"mood"`
		Scale  float32 `json:"scale"`
		Reason string  `json:"reason"`
	}

	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	if err := json.Unmarshal([]byte(strings.TrimSpace(trimmed)), &payload); err != nil {
		return Judgement{}, err
	}

	label := analysis.Label(strings.ToLower(strings.TrimSpace(payload.Mood)))
	if !validLabels[label] {
		label = analysis.Neutral
	}

	scale := payload.Scale
	if scale < 1 {
		scale = 1
	}
	if scale > 5 {
		scale = 5
	}

	return Judgement{
		Decision:  analysis.Decision{Mood: label, Scale: scale},
		Reason:    payload.Reason,
		FromModel: true,
	}, nil
}
