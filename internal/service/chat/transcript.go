package chat

import (
	"strings"

	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/chat"
)

// FallbackReply is appended as the therapist turn when an invocation fails.
// The user's turn stays in the transcript regardless.
const FallbackReply = "Something went wrong. Please try again."

// BuildPrompt serializes the full transcript into the single prompt string
// the session's persona is re-invoked with on every turn. The line format is
// fixed; the model relies on it to keep speaker attribution straight. Replies
// are labelled with the persona's name so a session bound to another squad
// member never sees its own turns attributed to the therapist.
func BuildPrompt(messages []chat.Message, personaName string) string {
	if personaName == "" {
		personaName = "Therapist"
	}

	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.Sender == chat.SenderUser {
			lines = append(lines, "User: "+m.Content)
		} else {
			lines = append(lines, personaName+": "+m.Content)
		}
	}
	return strings.Join(lines, "\n")
}
