package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.CompletionAdapter = (*GeminiAdapter)(nil)

// GeminiAdapter talks to the generative language REST endpoint directly:
// POST {base}/v1beta/models/{model}:generateContent?key={credential}.
// The credential travels as a query parameter, never in a header and
// never in a log line. One request, one full-text response.
type GeminiAdapter struct {
	base    string
	models  []adapter.ModelInfo
	client  *http.Client
	timeout time.Duration
}

func NewGeminiAdapter(base string, models []adapter.ModelInfo, timeout time.Duration) *GeminiAdapter {
	if base == "" {
		base = "https://generativelanguage.googleapis.com"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiAdapter{
		base:    strings.TrimRight(base, "/"),
		models:  models,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *GeminiAdapter) Complete(ctx context.Context, model, prompt, credential string) (string, error) {
	if credential == "" {
		return "", domain.ErrMissingCredential
	}
	if model == "" {
		return "", domain.ErrInvalidArgument
	}

	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	b, _ := json.Marshal(body)

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.base, url.PathEscape(model), url.QueryEscape(credential))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", transportError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		// Timeouts, refused connections and cancelled contexts all land
		// here: the request never produced an HTTP response.
		return "", transportError(err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := http.StatusText(resp.StatusCode)
		var payload geminiResponse
		if json.Unmarshal(raw, &payload) == nil && payload.Error != nil && payload.Error.Message != "" {
			reason = payload.Error.Message
		}
		return "", &domain.APIError{Status: resp.StatusCode, Reason: reason}
	}

	var payload geminiResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	// Only the first candidate's first text part is consumed.
	if len(payload.Candidates) == 0 ||
		payload.Candidates[0].Content == nil ||
		len(payload.Candidates[0].Content.Parts) == 0 {
		return "", domain.ErrMalformedResponse
	}
	return payload.Candidates[0].Content.Parts[0].Text, nil
}

// transportError wraps a failed round trip. The net/http error text
// carries the full request URL, credential included; the query string
// is stripped before the error can reach a log line or response body.
func transportError(err error) *domain.TransportError {
	var ue *url.Error
	if errors.As(err, &ue) {
		clean := ue.URL
		if i := strings.IndexByte(clean, '?'); i >= 0 {
			clean = clean[:i]
		}
		return &domain.TransportError{Err: &url.Error{Op: ue.Op, URL: clean, Err: ue.Err}}
	}
	return &domain.TransportError{Err: err}
}

// ListModels returns the configured catalog. The REST surface has a
// models listing too, but the UI only ever offers the curated set.
func (g *GeminiAdapter) ListModels(ctx context.Context, credential string) ([]adapter.ModelInfo, error) {
	return append([]adapter.ModelInfo(nil), g.models...), nil
}
