package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino-ext/components/tool/duckduckgo"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"

	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/config"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/persona"
	planmodel "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/plan"
)

// Invoker sends one composed prompt (plus optional screenshots) to a persona
// and returns its textual response.
type Invoker interface {
	Invoke(ctx context.Context, prompt string, attachments []planmodel.Attachment) (string, error)
}

// Source resolves invokers by persona id. The plan dispatcher and the chat
// handlers depend on this rather than on the concrete registry so tests can
// substitute fakes.
type Source interface {
	Invoker(personaID string) (Invoker, bool)
	Order() []string
}

// Registry holds one configured invoker per seeded persona, all bound to a
// shared Gemini chat model. Construction fails as a unit: either every
// persona gets an invoker or the caller gets an error and no registry.
type Registry struct {
	invokers  map[string]Invoker
	order     []string
	chatModel model.ToolCallingChatModel
}

// NewRegistry builds the recovery squad from the supplied credential-bearing
// config. Personas flagged for search get a ReAct agent holding a DuckDuckGo
// tool; the rest get a plain prompt-template chain.
func NewRegistry(ctx context.Context, personas persona.Store, cfg config.AIConfig) (*Registry, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	reg := &Registry{
		invokers:  make(map[string]Invoker),
		chatModel: chatModel,
	}

	for _, p := range personas.List() {
		var inv Invoker
		if p.Search && cfg.SearchEnabled {
			inv, err = newAgentInvoker(ctx, p, chatModel)
		} else {
			inv, err = newChainInvoker(ctx, p, chatModel)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to build %s invoker: %w", p.ID, err)
		}
		reg.invokers[p.ID] = inv
		reg.order = append(reg.order, p.ID)
	}

	return reg, nil
}

// Invoker returns the invoker bound to the given persona.
func (r *Registry) Invoker(personaID string) (Invoker, bool) {
	inv, ok := r.invokers[personaID]
	return inv, ok
}

// Order returns persona ids in seed order, which is invocation order.
func (r *Registry) Order() []string {
	return append([]string(nil), r.order...)
}

// ChatModel exposes the shared model for auxiliary consumers such as the
// mood classifier.
func (r *Registry) ChatModel() model.BaseChatModel {
	return r.chatModel
}

// chainInvoker runs a persona through a compiled prompt-template chain. When
// screenshots are attached the chain is bypassed in favour of a direct
// multimodal generate call; the template layer cannot carry image parts.
type chainInvoker struct {
	persona   persona.Persona
	chatModel model.BaseChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
}

func newChainInvoker(ctx context.Context, p persona.Persona, chatModel model.ToolCallingChatModel) (*chainInvoker, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile persona chain: %w", err)
	}

	return &chainInvoker{persona: p, chatModel: chatModel, chain: runnable}, nil
}

func (c *chainInvoker) Invoke(ctx context.Context, userPrompt string, attachments []planmodel.Attachment) (string, error) {
	if len(attachments) == 0 {
		response, err := c.chain.Invoke(ctx, map[string]any{
			"system": BuildSystemPrompt(c.persona),
			"query":  userPrompt,
		})
		if err != nil {
			return "", fmt.Errorf("failed to run persona chain: %w", err)
		}
		return response.Content, nil
	}

	messages := []*schema.Message{
		schema.SystemMessage(BuildSystemPrompt(c.persona)),
		userMessageWithImages(userPrompt, attachments),
	}
	response, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate multimodal response: %w", err)
	}
	return response.Content, nil
}

// agentInvoker wraps a persona in a ReAct agent so it can ground its answer
// with web searches before responding.
type agentInvoker struct {
	persona persona.Persona
	agent   *react.Agent
}

func newAgentInvoker(ctx context.Context, p persona.Persona, chatModel model.ToolCallingChatModel) (*agentInvoker, error) {
	searchTool, err := duckduckgo.NewTool(ctx, &duckduckgo.Config{MaxResults: 5})
	if err != nil {
		return nil, fmt.Errorf("failed to create search tool: %w", err)
	}

	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: chatModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: []tool.BaseTool{searchTool},
		},
		MaxStep: 6,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create search agent: %w", err)
	}

	return &agentInvoker{persona: p, agent: agent}, nil
}

func (a *agentInvoker) Invoke(ctx context.Context, userPrompt string, attachments []planmodel.Attachment) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(BuildSystemPrompt(a.persona)),
		userMessageWithImages(userPrompt, attachments),
	}

	response, err := a.agent.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to run search agent: %w", err)
	}

	log.Printf("[ai] agent response for persona=%s, length=%d", a.persona.ID, len(response.Content))
	return response.Content, nil
}
