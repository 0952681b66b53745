package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-verification-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_ChatSendsImagesAndFormat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(chatResponse{
			Model:   got.Model,
			Message: chatMessage{Role: "assistant", Content: "87"},
			Done:    true,
		})
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "llama3.1:8b")
	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: "model", Content: "earlier"},
		{Role: llm.RoleUser, Content: "score this", Images: []llm.Image{{MIMEType: "image/png", Base64: "aGVsbG8="}}},
	}, llm.WithModel("llava"), llm.WithJSONFormat(), llm.WithMaxTokens(64))

	require.NoError(t, err)
	assert.Equal(t, "87", out)
	assert.Equal(t, "llava", got.Model)
	assert.Equal(t, "json", got.Format)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "assistant", got.Messages[0].Role)
	assert.Equal(t, []string{"aGVsbG8="}, got.Messages[1].Images)
	require.NotNil(t, got.Options)
	assert.Equal(t, 64, got.Options.NumPredict)
}

func TestProvider_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "missing")
	_, err := p.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
