package openai

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

func TestProvider_ChatWithImageParts(t *testing.T) {
	var raw map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"score\":70,\"reason\":\"ok\"}"}}]}`))
	}))
	defer srv.Close()

	p := NewProvider("sk-test", srv.URL+"/v1", "gpt-4o-mini")
	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "judge"},
		{Role: llm.RoleUser, Content: "Campaign: cats", Images: []llm.Image{{MIMEType: "image/png", Base64: "AAAA"}}},
	}, llm.WithJSONFormat())

	require.NoError(t, err)
	assert.Equal(t, `{"score":70,"reason":"ok"}`, out)
	assert.Equal(t, "gpt-4o-mini", raw["model"])
	assert.Equal(t, map[string]interface{}{"type": "json_object"}, raw["response_format"])

	msgs := raw["messages"].([]interface{})
	require.Len(t, msgs, 2)
	assert.Equal(t, "judge", msgs[0].(map[string]interface{})["content"])

	parts := msgs[1].(map[string]interface{})["content"].([]interface{})
	require.Len(t, parts, 2)
	assert.Equal(t, "Campaign: cats", parts[0].(map[string]interface{})["text"])
	img := parts[1].(map[string]interface{})["image_url"].(map[string]interface{})
	assert.Equal(t, "data:image/png;base64,AAAA", img["url"])
}

func TestProvider_ErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[],"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	_, err := NewProvider("", srv.URL, "m").Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestProvider_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewProvider("", srv.URL, "m").Generate(context.Background(), "hi")
	require.Error(t, err)
}
