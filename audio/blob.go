package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var ErrEmptyPath = errors.New("no audio file selected")

// Blob is an audio payload ready for upload. The bytes are copied on the
// way in and on the way out, so a Blob never changes after construction.
type Blob struct {
	data      []byte
	mediaType string
	filename  string
}

func NewBlob(data []byte, mediaType, filename string) Blob {
	buf := make([]byte, len(data))
	copy(buf, data)
	return Blob{
		data:      buf,
		mediaType: mediaType,
		filename:  filename,
	}
}

// ReadFile loads a user-selected file. The media type comes from the file
// itself: its extension first, then its content.
func ReadFile(path string) (Blob, error) {
	if path == "" {
		return Blob{}, ErrEmptyPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Blob{}, fmt.Errorf("failed to read audio file: %w", err)
	}

	return Blob{
		data:      data,
		mediaType: MediaTypeOf(path, data),
		filename:  filepath.Base(path),
	}, nil
}

func (b Blob) MediaType() string {
	return b.mediaType
}

func (b Blob) Filename() string {
	return b.filename
}

func (b Blob) Len() int {
	return len(b.data)
}

func (b Blob) Reader() io.Reader {
	return bytes.NewReader(b.data)
}

func (b Blob) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}
