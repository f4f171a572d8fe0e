package ai

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"github.com/cloudwego/eino/schema"

	planmodel "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/plan"
)

// userMessageWithImages composes the user turn, inlining each staged
// screenshot as a base64 data URL part. An unreadable attachment is logged
// and skipped; it never aborts the invocation.
func userMessageWithImages(prompt string, attachments []planmodel.Attachment) *schema.Message {
	if len(attachments) == 0 {
		return schema.UserMessage(prompt)
	}

	parts := make([]schema.ChatMessagePart, 0, len(attachments)+1)
	parts = append(parts, schema.ChatMessagePart{
		Type: schema.ChatMessagePartTypeText,
		Text: prompt,
	})

	for _, att := range attachments {
		data, err := os.ReadFile(att.Path)
		if err != nil {
			log.Printf("[ai] skipping unreadable attachment %s: %v", att.FileName, err)
			continue
		}

		parts = append(parts, schema.ChatMessagePart{
			Type: schema.ChatMessagePartTypeImageURL,
			ImageURL: &schema.ChatMessageImageURL{
				URL:      dataURL(att.MIMEType, data),
				MIMEType: att.MIMEType,
			},
		})
	}

	if len(parts) == 1 {
		return schema.UserMessage(prompt)
	}

	return &schema.Message{Role: schema.User, MultiContent: parts}
}

func dataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
