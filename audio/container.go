package audio

// Container turns the concatenated chunks of a recording into a single
// uploadable payload and names it.
type Container interface {
	MediaType() string
	Filename() string
	Seal(payload []byte) ([]byte, error)
}

// WebM is the container of recorders whose chunks are already framed, so
// sealing is plain concatenation.
type WebM struct{}

func (WebM) MediaType() string { return "audio/webm" }

func (WebM) Filename() string { return "recording.webm" }

func (WebM) Seal(payload []byte) ([]byte, error) {
	return payload, nil
}
