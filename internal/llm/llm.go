// Package llm holds the chat-completion backends and the model dispatcher
// that gates caller-supplied model ids against a static allow-list.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Fixed sampling parameters shared by every backend; one bounded, single
// completion per request.
const (
	MaxTokens        = 512
	Temperature      = 0.7
	TopP             = 0.7
	TopK             = 50
	FrequencyPenalty = 0.5
)

var (
	ErrUnsupportedModel = errors.New("unsupported model")
	ErrModel            = errors.New("model request failed")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completion carries the extracted text plus the provider's raw response
// body, which the HTTP layer forwards verbatim.
type Completion struct {
	Text string
	Raw  json.RawMessage
}

type Completer interface {
	Complete(ctx context.Context, model string, messages []Message) (*Completion, error)
}

// Dispatcher routes an allow-listed model id to its backend. Unknown ids
// fail before any upstream call is made.
type Dispatcher struct {
	backends map[string]Completer
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{backends: make(map[string]Completer)}
}

func (d *Dispatcher) Register(backend Completer, modelIDs ...string) {
	for _, id := range modelIDs {
		d.backends[id] = backend
	}
}

func (d *Dispatcher) Supported(modelID string) bool {
	_, ok := d.backends[modelID]
	return ok
}

func (d *Dispatcher) Dispatch(ctx context.Context, modelID string, messages []Message) (*Completion, error) {
	backend, ok := d.backends[modelID]
	if !ok {
		return nil, ErrUnsupportedModel
	}
	return backend.Complete(ctx, modelID, messages)
}

// SiliconFlowModels are the ids served through the SiliconFlow
// chat-completion API, including its OpenAI-compatible route.
var SiliconFlowModels = []string{
	"Qwen/Qwen2-72B-Instruct",
	"Qwen/Qwen2-7B-Instruct",
	"Qwen/Qwen1.5-110B-Chat",
	"Qwen/Qwen2-57B-A14B-Instruct",
	"gpt-4o",
}

// GeminiModels are served through the Gemini API backend.
var GeminiModels = []string{
	"gemini-2.0-flash",
}
