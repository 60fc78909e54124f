package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ADeane6/plex-movie-rec/internal/recommend"
	"github.com/ADeane6/plex-movie-rec/internal/session"
)

const (
	anthropicAPIVersion = "2023-06-01"
	anthropicBaseURL    = "https://api.anthropic.com/v1/messages"

	interpretMaxTokens = 300
	responseMaxTokens  = 1000
)

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type anthropicResponse struct {
	ID      string             `json:"id"`
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
	Error   *anthropicError    `json:"error,omitempty"`
}

type AnthropicClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewAnthropic(apiKey, model string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm: Anthropic API key is required")
	}
	if model == "" {
		model = "claude-3-sonnet-20240229"
	}
	return &AnthropicClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: anthropicBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (a *AnthropicClient) complete(ctx context.Context, req anthropicRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("llm: marshaling Anthropic request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("llm: Anthropic call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: reading Anthropic response: %w", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("llm: decoding Anthropic response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("llm: Anthropic API error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm: Anthropic returned status %d", resp.StatusCode)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("llm: Anthropic returned empty content")
	}
	return parsed.Content[0].Text, nil
}

func (a *AnthropicClient) InterpretRequest(ctx context.Context, userText string, history []session.Turn) (string, error) {
	messages := make([]anthropicMessage, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, anthropicMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}
	messages = append(messages, anthropicMessage{Role: "user", Content: userText})

	return a.complete(ctx, anthropicRequest{
		Model:     a.model,
		MaxTokens: interpretMaxTokens,
		System:    interpretSystemPrompt,
		Messages:  messages,
	})
}

func (a *AnthropicClient) GenerateResponse(ctx context.Context, userText string, recs []recommend.Recommendation) (string, error) {
	return a.complete(ctx, anthropicRequest{
		Model:     a.model,
		MaxTokens: responseMaxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: responsePrompt(userText, recs)},
		},
	})
}
