package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ADeane6/plex-movie-rec/internal/session"
)

func newFakeAnthropic(t *testing.T, handler http.HandlerFunc) *AnthropicClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewAnthropic("test-key", "claude-test")
	require.NoError(t, err)
	client.baseURL = server.URL
	return client
}

func TestAnthropicInterpretRequest(t *testing.T) {
	var captured anthropicRequest
	var gotKey, gotVersion string

	client := newFakeAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContent{{Type: "text", Text: "animated family movies"}},
		})
	})

	history := []session.Turn{
		{Role: session.RoleUser, Content: "recommend something"},
		{Role: session.RoleAssistant, Content: "how about Up?"},
	}
	got, err := client.InterpretRequest(context.Background(), "something for kids", history)
	require.NoError(t, err)
	assert.Equal(t, "animated family movies", got)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, anthropicAPIVersion, gotVersion)
	assert.Equal(t, "claude-test", captured.Model)
	assert.Equal(t, interpretMaxTokens, captured.MaxTokens)
	assert.Equal(t, interpretSystemPrompt, captured.System)
	require.Len(t, captured.Messages, 3)
	assert.Equal(t, "assistant", captured.Messages[1].Role)
	assert.Equal(t, "something for kids", captured.Messages[2].Content)
}

func TestAnthropicGenerateResponse(t *testing.T) {
	var captured anthropicRequest
	client := newFakeAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContent{{Type: "text", Text: "Here you go!"}},
		})
	})

	got, err := client.GenerateResponse(context.Background(), "funny movies", sampleRecs())
	require.NoError(t, err)
	assert.Equal(t, "Here you go!", got)

	assert.Equal(t, responseMaxTokens, captured.MaxTokens)
	assert.Empty(t, captured.System)
	require.Len(t, captured.Messages, 1)
	assert.Contains(t, captured.Messages[0].Content, "1. Inception (2010)")
}

func TestAnthropicAPIError(t *testing.T) {
	client := newFakeAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(anthropicResponse{
			Error: &anthropicError{Type: "invalid_request_error", Message: "bad model"},
		})
	})

	_, err := client.InterpretRequest(context.Background(), "hi", nil)
	assert.ErrorContains(t, err, "invalid_request_error")
	assert.ErrorContains(t, err, "bad model")
}

func TestAnthropicEmptyContent(t *testing.T) {
	client := newFakeAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(anthropicResponse{})
	})

	_, err := client.GenerateResponse(context.Background(), "hi", nil)
	assert.ErrorContains(t, err, "empty content")
}
