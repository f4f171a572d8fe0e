package ai

import (
	"fmt"
	"strings"

	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/persona"
)

// BuildSystemPrompt renders a persona's fixed instruction script into the
// system message every invocation starts from.
func BuildSystemPrompt(p persona.Persona) string {
	var builder strings.Builder

	builder.WriteString(strings.Join(p.Instructions, "\n"))
	builder.WriteString("\n\n")
	builder.WriteString(fmt.Sprintf("You are %s, the %s of a breakup recovery squad. Keep your tone %s.\n", p.Name, p.Title, p.Tone))
	builder.WriteString("Respond in markdown.")

	if p.Search {
		builder.WriteString("\nUse the web search tool when factual grounding would strengthen your feedback, and weave the findings into your answer rather than listing raw results.")
	}

	return builder.String()
}
