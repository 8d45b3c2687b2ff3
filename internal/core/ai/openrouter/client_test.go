package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pantry-recipes/internal/core/ai/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeServer(t *testing.T, status int, reply string, seen *map[string]any, headers *http.Header) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if headers != nil {
			*headers = r.Header.Clone()
		}
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
}

func TestCompleteJSONMode(t *testing.T) {
	var body map[string]any
	var headers http.Header
	srv := newFakeServer(t, http.StatusOK, `{"id":"x","choices":[{"message":{"role":"assistant","content":" {\"recipes\":[]} "}}]}`, &body, &headers)
	defer srv.Close()

	client := NewClient(provider.Config{APIKey: "sk-test", Model: "openai/gpt-4o-mini", BaseURL: srv.URL + "/", AppName: "Pantry Recipes", Timeout: 5 * time.Second})
	out, err := client.Complete(context.Background(), &provider.Request{
		Mode:         provider.ModeJSON,
		SystemPrompt: "system",
		UserPrompt:   "user",
		MaxTokens:    1200,
		Temperature:  0.2,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"recipes":[]}`, out)

	assert.Equal(t, "Bearer sk-test", headers.Get("Authorization"))
	assert.Equal(t, "Pantry Recipes", headers.Get("X-Title"))
	assert.Equal(t, "openai/gpt-4o-mini", body["model"])
	assert.EqualValues(t, 1200, body["max_tokens"])
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["content"])
}

func TestCompleteEmptyReply(t *testing.T) {
	var body map[string]any
	srv := newFakeServer(t, http.StatusOK, `{"choices":[{"message":{"content":""}}]}`, &body, nil)
	defer srv.Close()
	client := NewClient(provider.Config{Model: "m", BaseURL: srv.URL})

	out, err := client.Complete(context.Background(), &provider.Request{Mode: provider.ModeText, UserPrompt: "u"})
	require.NoError(t, err)
	assert.Equal(t, "", out)
	assert.NotContains(t, body, "response_format")

	out, err = client.Complete(context.Background(), &provider.Request{Mode: provider.ModeJSON, UserPrompt: "u"})
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
}

func TestCompleteErrorStatus(t *testing.T) {
	srv := newFakeServer(t, http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`, nil, nil)
	defer srv.Close()
	client := NewClient(provider.Config{Model: "m", BaseURL: srv.URL})

	_, err := client.Complete(context.Background(), &provider.Request{Mode: provider.ModeText, UserPrompt: "u"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestCompleteCanceledContext(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{"choices":[]}`, nil, nil)
	defer srv.Close()
	client := NewClient(provider.Config{Model: "m", BaseURL: srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Complete(ctx, &provider.Request{Mode: provider.ModeText, UserPrompt: "u"})
	assert.ErrorIs(t, err, context.Canceled)
}
