package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/bosley/serclient/audio"
)

const (
	DefaultEndpoint = "/api/predict"

	// FieldName is the multipart field carrying the audio.
	FieldName = "file"
)

var errNoPredictions = errors.New("response has no predictions")

// Predictor performs one prediction round-trip.
type Predictor interface {
	Predict(ctx context.Context, blob audio.Blob) (Predictions, error)
}

// Client talks to the prediction service. It never retries and sets no
// timeout of its own.
type Client struct {
	baseURL    string
	endpoint   string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL, endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) URL() string {
	return c.baseURL + c.endpoint
}

// Predict uploads blob and decodes the service's answer. Every failure is
// returned as an *Error.
func (c *Client) Predict(ctx context.Context, blob audio.Blob) (Predictions, error) {
	body, contentType, err := encodeForm(blob)
	if err != nil {
		return Predictions{}, networkError(fmt.Errorf("failed to encode form: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), body)
	if err != nil {
		return Predictions{}, networkError(err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	slog.Debug("Sending prediction request",
		"url", c.URL(),
		"file", blob.Filename(),
		"mediaType", blob.MediaType(),
		"bytes", blob.Len())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Predictions{}, networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Predictions{}, networkError(fmt.Errorf("failed to read response: %w", err))
	}

	slog.Debug("Prediction response received",
		"status", resp.StatusCode,
		"bytes", len(raw))

	return decodeResponse(resp.StatusCode, raw)
}

// decodeResponse parses before it looks at the status, so an error page
// that is not JSON is a parse failure.
func decodeResponse(statusCode int, raw []byte) (Predictions, error) {
	var r Response
	if err := json.Unmarshal(raw, &r); err != nil {
		return Predictions{}, parseError(err)
	}

	if statusCode < 200 || statusCode > 299 || !r.OK {
		return Predictions{}, serverError(statusCode, r.Error)
	}

	if r.Predictions == nil {
		return Predictions{}, parseError(errNoPredictions)
	}

	return *r.Predictions, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeForm(blob audio.Blob) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	filename := blob.Filename()
	if filename == "" {
		filename = "blob"
	}
	mediaType := blob.MediaType()
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		FieldName, quoteEscaper.Replace(filename)))
	header.Set("Content-Type", mediaType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, blob.Reader()); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}
