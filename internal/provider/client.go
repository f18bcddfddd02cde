package provider

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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is the production Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultTimeout bounds one generateContent call.
const DefaultTimeout = 30 * time.Second

// ErrUnsupportedModel is returned when a request names a model outside the
// catalog. It is wrapped; test with errors.Is.
var ErrUnsupportedModel = errors.New("unsupported model")

// GeminiClient talks to the Gemini generateContent API.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// Config configures a GeminiClient. APIKey is required; everything else has
// a default.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewGeminiClient creates a client. A missing credential is a configuration
// error and fails here, not on the first request.
func NewGeminiClient(cfg Config) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini: API key not configured")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &GeminiClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}, nil
}

// ChatResponse performs one chat turn. It validates the model against the
// catalog, issues a single synchronous generateContent call, and normalizes
// the reply. When req.Streamer is set, the already-complete result is
// delivered as two ordered notifications: a text chunk (only for non-empty
// replies) followed by a response chunk.
//
// Transport-level failures raise *ProviderError with the raw response body
// in Details. Malformed success responses degrade to an empty reply text
// rather than failing.
func (c *GeminiClient) ChatResponse(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if !SupportsModel(req.Model) {
		return nil, fmt.Errorf("gemini: %w: %q", ErrUnsupportedModel, req.Model)
	}

	// Apply the client timeout when the caller supplied no deadline.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	start := time.Now()
	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
	}
	if req.Instructions != "" {
		payload.SystemInstruction = &geminiContent{
			Role:  "system",
			Parts: []geminiPart{{Text: req.Instructions}},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(req.Model), url.QueryEscape(c.apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Message: fmt.Sprintf("gemini: request failed: %v", err)}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ProviderError{Message: fmt.Sprintf("gemini: read response: %v", err)}
	}

	if httpResp.StatusCode != http.StatusOK {
		c.log.Warn("gemini request failed",
			zap.Int("status", httpResp.StatusCode),
			zap.String("model", req.Model))
		return nil, &ProviderError{
			Message: fmt.Sprintf("gemini: request failed with status %d", httpResp.StatusCode),
			Details: string(respBody),
		}
	}

	// Absent candidates, parts or text fields all collapse to an empty
	// reply; only transport failures above are raised.
	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		c.log.Warn("gemini response body did not parse", zap.Error(err))
	}
	text := parsed.joinText()

	response := &ChatResponse{
		ID:    uuid.NewString(),
		Model: req.Model,
		Messages: []ChatMessage{
			{ID: uuid.NewString(), Text: text},
		},
		FunctionCalls: []FunctionCall{},
	}

	if req.Streamer != nil {
		if text != "" {
			req.Streamer(StreamChunk{Kind: ChunkText, Text: text})
		}
		req.Streamer(StreamChunk{Kind: ChunkResponse, Response: response})
	}

	c.log.Debug("gemini chat completed",
		zap.String("model", req.Model),
		zap.Int("reply_len", len(text)),
		zap.Duration("elapsed", time.Since(start)))

	return response, nil
}
