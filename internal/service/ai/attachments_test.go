package ai

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	planmodel "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/plan"
)

func TestUserMessageWithImagesDegradesWhenNothingIsReadable(t *testing.T) {
	attachments := []planmodel.Attachment{
		{FileName: "gone.png", Path: filepath.Join(t.TempDir(), "gone.png"), MIMEType: "image/png"},
	}

	msg := userMessageWithImages("look at these messages", attachments)

	if msg.Content != "look at these messages" {
		t.Fatalf("expected plain text message, got %q", msg.Content)
	}
	if len(msg.MultiContent) != 0 {
		t.Fatalf("expected no multimodal parts, got %d", len(msg.MultiContent))
	}
}

func TestUserMessageWithImagesSkipsUnreadableAndKeepsTheRest(t *testing.T) {
	dir := t.TempDir()
	goodPath := filepath.Join(dir, "good.png")
	if err := os.WriteFile(goodPath, []byte("fake png bytes"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	attachments := []planmodel.Attachment{
		{FileName: "good.png", Path: goodPath, MIMEType: "image/png"},
		{FileName: "gone.jpg", Path: filepath.Join(dir, "gone.jpg"), MIMEType: "image/jpeg"},
	}

	msg := userMessageWithImages("look at these messages", attachments)

	if len(msg.MultiContent) != 2 {
		t.Fatalf("expected text part plus one image, got %d parts", len(msg.MultiContent))
	}
	if msg.MultiContent[0].Type != schema.ChatMessagePartTypeText || msg.MultiContent[0].Text != "look at these messages" {
		t.Fatalf("first part should carry the prompt, got %+v", msg.MultiContent[0])
	}
	image := msg.MultiContent[1]
	if image.Type != schema.ChatMessagePartTypeImageURL || image.ImageURL == nil {
		t.Fatalf("second part should be the readable image, got %+v", image)
	}
	if !strings.HasPrefix(image.ImageURL.URL, "data:image/png;base64,") {
		t.Fatalf("expected a base64 data URL, got %q", image.ImageURL.URL)
	}
}
