package capture

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bosley/serclient/audio"
)

// Previews writes playable copies of finished recordings into a directory.
// Copies are kept for the rest of the session.
type Previews struct {
	dir string
}

func NewPreviews(dir string) *Previews {
	return &Previews{dir: dir}
}

func (p *Previews) Dir() string {
	return p.dir
}

func (p *Previews) Save(id uuid.UUID, blob audio.Blob) (string, error) {
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create preview directory: %w", err)
	}

	name := fmt.Sprintf("recording_%s%s", id, filepath.Ext(blob.Filename()))
	path := filepath.Join(p.dir, name)
	if err := os.WriteFile(path, blob.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write preview: %w", err)
	}

	return path, nil
}

// PreviewURL turns a preview path into a file:// URL.
func PreviewURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}
