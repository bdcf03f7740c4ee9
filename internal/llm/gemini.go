package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Completion calls share the SiliconFlow deadline; a provider hang must
// not hold the request open indefinitely.
const geminiRequestTimeout = 60 * time.Second

type GeminiClient struct {
	client *genai.Client
}

type GeminiOption = func(*genai.ClientConfig)

func WithGeminiHTTPClient(httpClient *http.Client) GeminiOption {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPClient = httpClient
	}
}

func WithGeminiEndpoint(baseURL string) GeminiOption {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = baseURL
	}
}

func NewGeminiClient(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: geminiRequestTimeout},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: creating client: %v", ErrModel, err)
	}
	return &GeminiClient{client: client}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, model string, messages []Message) (*Completion, error) {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens:  MaxTokens,
		Temperature:      genai.Ptr[float32](Temperature),
		TopP:             genai.Ptr[float32](TopP),
		TopK:             genai.Ptr[float32](TopK),
		FrequencyPenalty: genai.Ptr[float32](FrequencyPenalty),
		CandidateCount:   1,
	}

	var contents []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			cfg.SystemInstruction = genai.NewContentFromText(msg.Content, genai.RoleUser)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModel, err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrModel)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding response: %v", ErrModel, err)
	}
	return &Completion{Text: text, Raw: raw}, nil
}
