// Package provider implements the Gemini chat adapter: it translates an
// abstract chat request into the generateContent wire format, performs the
// network call, and normalizes the response into ChatResponse.
package provider

import (
	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/prompt"
)

// ChatMessage is one normalized assistant message.
type ChatMessage struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// FunctionCall is a function invocation requested by the model. The Gemini
// integration does not surface these yet; the field exists so callers can
// depend on a stable response shape.
type FunctionCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ChatResponse is the normalized result of one chat turn. ID is generated
// locally; the provider's own identifiers are not exposed.
type ChatResponse struct {
	ID            string         `json:"id"`
	Model         string         `json:"model"`
	Messages      []ChatMessage  `json:"messages"`
	FunctionCalls []FunctionCall `json:"function_calls"`
}

// Text returns the concatenated text of all messages.
func (r *ChatResponse) Text() string {
	var out string
	for _, msg := range r.Messages {
		out += msg.Text
	}
	return out
}

// ChunkKind tags a stream chunk.
type ChunkKind string

const (
	ChunkText     ChunkKind = "text"
	ChunkResponse ChunkKind = "response"
)

// StreamChunk is one unit of a streamed delivery: either a text fragment or
// the final response. The text chunk, when present, always precedes the
// response chunk.
type StreamChunk struct {
	Kind     ChunkKind
	Text     string
	Response *ChatResponse
}

// Streamer receives stream chunks as they are emitted.
type Streamer func(StreamChunk)

// ChatRequest is the abstract request the adapter translates to the wire.
type ChatRequest struct {
	Prompt             string
	Model              string
	Instructions       string
	Functions          []prompt.FunctionDescriptor
	PreviousResponseID string
	Streamer           Streamer
}

// ProviderError is raised on transport or protocol-level failures. Details
// carries the raw provider response body for diagnostics.
type ProviderError struct {
	Message string
	Details string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// Gemini wire format.

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// joinText concatenates the text parts of the first candidate in order. An
// absent candidate or absent text fields yield the empty string.
func (r *geminiResponse) joinText() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b []byte
	for _, part := range r.Candidates[0].Content.Parts {
		b = append(b, part.Text...)
	}
	return string(b)
}
