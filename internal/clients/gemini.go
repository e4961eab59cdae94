// Package clients contains HTTP clients for external services.
package clients

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 30 * time.Second
)

// ModelClient is the boundary to the generative reasoning service. The
// response is free-form text; callers own all parsing and validation.
// Implementations do not retry: a failed call surfaces as an error and the
// caller decides what to do with it.
type ModelClient interface {
	// Generate sends a text prompt and returns the raw model response.
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateWithImage sends a prompt together with an inline image.
	GenerateWithImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// GeminiClient talks to the Google generative language REST API.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// GeminiOption configures the client.
type GeminiOption func(*GeminiClient)

// WithBaseURL overrides the API endpoint, used in tests.
func WithBaseURL(url string) GeminiOption {
	return func(c *GeminiClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) GeminiOption {
	return func(c *GeminiClient) {
		c.httpClient.Timeout = d
	}
}

// NewGeminiClient creates a Gemini API client.
func NewGeminiClient(apiKey, model string, opts ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Generate sends a text-only prompt.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, []part{{Text: prompt}})
}

// GenerateWithImage sends a prompt with an inline image attachment.
func (c *GeminiClient) GenerateWithImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return c.generate(ctx, []part{
		{Text: prompt},
		{InlineData: &inlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(image),
		}},
	})
}

func (c *GeminiClient) generate(ctx context.Context, parts []part) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("gemini API key is empty")
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: parts}},
		// deterministic responses for trading decisions
		GenerationConfig: &generationConfig{Temperature: 0.0},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", errors.Wrap(err, "failed to create HTTP request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response body")
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode, string(body))
		}
		return "", errors.Wrap(err, "failed to unmarshal response")
	}

	if genResp.Error != nil {
		return "", fmt.Errorf("gemini API error: %s (status: %s, code: %d)",
			genResp.Error.Message, genResp.Error.Status, genResp.Error.Code)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode, string(body))
	}

	if len(genResp.Candidates) == 0 {
		return "", errors.New("gemini API returned no candidates")
	}

	var sb strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini API returned an empty candidate")
	}

	return sb.String(), nil
}
