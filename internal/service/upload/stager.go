package upload

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	planmodel "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/plan"
)

// allowedTypes maps accepted screenshot extensions to their MIME types.
var allowedTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Stager writes uploaded screenshots into the staging directory. Files are
// created with random names so concurrent uploads of identically named
// screenshots cannot collide.
type Stager struct {
	dir string
}

// NewStager returns a stager rooted at dir.
func NewStager(dir string) *Stager {
	return &Stager{dir: dir}
}

// Stage writes one upload to a temp file and returns its attachment record.
func (s *Stager) Stage(fileName string, r io.Reader) (planmodel.Attachment, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	mimeType, ok := allowedTypes[ext]
	if !ok {
		return planmodel.Attachment{}, fmt.Errorf("unsupported image type %q", ext)
	}

	f, err := os.CreateTemp(s.dir, "screenshot-*"+ext)
	if err != nil {
		return planmodel.Attachment{}, fmt.Errorf("failed to create staging file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return planmodel.Attachment{}, fmt.Errorf("failed to write staging file: %w", err)
	}

	return planmodel.Attachment{
		ID:       uuid.NewString(),
		FileName: filepath.Base(fileName),
		Path:     f.Name(),
		MIMEType: mimeType,
		Size:     size,
	}, nil
}

// StageAll stages every upload it can. A file that fails to stage is logged
// and dropped; it does not abort the rest of the batch.
func (s *Stager) StageAll(headers []*multipart.FileHeader) []planmodel.Attachment {
	attachments := make([]planmodel.Attachment, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			log.Printf("[upload] failed to open %s: %v", header.Filename, err)
			continue
		}

		att, err := s.Stage(header.Filename, file)
		file.Close()
		if err != nil {
			log.Printf("[upload] failed to stage %s: %v", header.Filename, err)
			continue
		}

		attachments = append(attachments, att)
	}
	return attachments
}

// Cleanup removes staged files once the invocation that consumed them is
// done. Removal errors are logged only; the files live under a temp dir.
func Cleanup(attachments []planmodel.Attachment) {
	for _, att := range attachments {
		if err := os.Remove(att.Path); err != nil && !os.IsNotExist(err) {
			log.Printf("[upload] failed to remove staged file %s: %v", att.Path, err)
		}
	}
}
