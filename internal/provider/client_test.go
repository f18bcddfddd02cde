package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string) *GeminiClient {
	t.Helper()
	client, err := NewGeminiClient(Config{APIKey: "test-key", BaseURL: serverURL})
	require.NoError(t, err)
	return client
}

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(Config{APIKey: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestChatResponse_Success(t *testing.T) {
	var gotPath, gotQuery, gotContentType string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [
				{"content": {"parts": [{"text": "Your net worth "}, {"text": "is $150,000.00."}]}}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.ChatResponse(context.Background(), ChatRequest{
		Prompt:       "What is my net worth?",
		Model:        "gemini-2.5-flash",
		Instructions: "You are a personal finance assistant.",
	})
	require.NoError(t, err)

	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "key=test-key", gotQuery)
	assert.Equal(t, "application/json", gotContentType)

	contents := gotBody["contents"].([]any)
	require.Len(t, contents, 1)
	turn := contents[0].(map[string]any)
	assert.Equal(t, "user", turn["role"])
	parts := turn["parts"].([]any)
	assert.Equal(t, "What is my net worth?", parts[0].(map[string]any)["text"])

	system := gotBody["systemInstruction"].(map[string]any)
	sysParts := system["parts"].([]any)
	assert.Equal(t, "You are a personal finance assistant.", sysParts[0].(map[string]any)["text"])

	// Parts concatenate in order with no separator.
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "Your net worth is $150,000.00.", resp.Messages[0].Text)
	assert.Equal(t, "gemini-2.5-flash", resp.Model)
	assert.NotEmpty(t, resp.ID)
	assert.NotEmpty(t, resp.Messages[0].ID)
	assert.NotEqual(t, resp.ID, resp.Messages[0].ID)
	assert.Empty(t, resp.FunctionCalls)
}

func TestChatResponse_NoInstructionsOmitsSystemField(t *testing.T) {
	var raw []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ChatResponse(context.Background(), ChatRequest{
		Prompt: "hi", Model: "gemini-2.5-flash",
	})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "systemInstruction")
}

func TestChatResponse_OnlyFirstCandidateUsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"candidates": [
				{"content": {"parts": [{"text": "first"}]}},
				{"content": {"parts": [{"text": "second"}]}}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.ChatResponse(context.Background(), ChatRequest{Prompt: "q", Model: "gemini-2.5-pro"})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Text())
}

func TestChatResponse_MissingTextFieldsYieldEmptyReply(t *testing.T) {
	cases := map[string]string{
		"no candidates":      `{"candidates": []}`,
		"no parts":           `{"candidates": [{"content": {}}]}`,
		"parts without text": `{"candidates": [{"content": {"parts": [{}, {}]}}]}`,
		"not even json":      `gateway returned garbage`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			resp, err := client.ChatResponse(context.Background(), ChatRequest{Prompt: "q", Model: "gemini-2.5-flash"})
			require.NoError(t, err, "malformed success bodies must degrade, not fail")
			require.Len(t, resp.Messages, 1)
			assert.Equal(t, "", resp.Messages[0].Text)
		})
	}
}

func TestChatResponse_TransportFailureRaisesProviderError(t *testing.T) {
	rawBody := `{"error": {"code": 429, "message": "quota exceeded"}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(rawBody))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ChatResponse(context.Background(), ChatRequest{Prompt: "q", Model: "gemini-2.5-flash"})
	require.Error(t, err)

	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, rawBody, provErr.Details, "details must carry the raw response body")
	assert.Contains(t, provErr.Message, "429")
}

func TestChatResponse_UnsupportedModelRejectedBeforeNetwork(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ChatResponse(context.Background(), ChatRequest{Prompt: "q", Model: "gemini-1.0-ultra"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedModel))
	assert.Equal(t, 0, calls, "unsupported models must never reach the network")
}

func TestChatResponse_StreamerOrdering(t *testing.T) {
	t.Run("non-empty reply emits text then response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "hello"}]}}]}`))
		}))
		defer server.Close()

		var chunks []StreamChunk
		client := newTestClient(t, server.URL)
		resp, err := client.ChatResponse(context.Background(), ChatRequest{
			Prompt: "q", Model: "gemini-2.5-flash",
			Streamer: func(c StreamChunk) { chunks = append(chunks, c) },
		})
		require.NoError(t, err)

		require.Len(t, chunks, 2)
		assert.Equal(t, ChunkText, chunks[0].Kind)
		assert.Equal(t, "hello", chunks[0].Text)
		assert.Equal(t, ChunkResponse, chunks[1].Kind)
		assert.Equal(t, resp, chunks[1].Response)
	})

	t.Run("empty reply emits only the response chunk", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates": []}`))
		}))
		defer server.Close()

		var chunks []StreamChunk
		client := newTestClient(t, server.URL)
		_, err := client.ChatResponse(context.Background(), ChatRequest{
			Prompt: "q", Model: "gemini-2.5-flash",
			Streamer: func(c StreamChunk) { chunks = append(chunks, c) },
		})
		require.NoError(t, err)

		require.Len(t, chunks, 1)
		assert.Equal(t, ChunkResponse, chunks[0].Kind)
	})
}
