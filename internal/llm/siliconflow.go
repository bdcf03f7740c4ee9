package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const siliconFlowTimeout = 60 * time.Second

type SiliconFlowClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

type SiliconFlowOption func(*SiliconFlowClient)

func WithSiliconFlowHTTPClient(hc *http.Client) SiliconFlowOption {
	return func(c *SiliconFlowClient) { c.httpClient = hc }
}

func NewSiliconFlowClient(url, apiKey string, opts ...SiliconFlowOption) *SiliconFlowClient {
	c := &SiliconFlowClient{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: siliconFlowTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatCompletionRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	Stream           bool      `json:"stream"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature"`
	TopP             float64   `json:"top_p"`
	TopK             int       `json:"top_k"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
	N                int       `json:"n"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *SiliconFlowClient) Complete(ctx context.Context, model string, messages []Message) (*Completion, error) {
	payload := chatCompletionRequest{
		Model:            model,
		Messages:         messages,
		Stream:           false,
		MaxTokens:        MaxTokens,
		Temperature:      Temperature,
		TopP:             TopP,
		TopK:             TopK,
		FrequencyPenalty: FrequencyPenalty,
		N:                1,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %v", ErrModel, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModel, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModel, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrModel, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrModel, resp.StatusCode)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrModel, err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: response contains no choices", ErrModel)
	}

	return &Completion{
		Text: parsed.Choices[0].Message.Content,
		Raw:  raw,
	}, nil
}
