// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bullets

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/pdiddy/texslides/internal/httputil"
	"github.com/pdiddy/texslides/pkg/types"
)

func TestMain(m *testing.M) {
	httputil.RetryBaseDelay = time.Millisecond
	os.Exit(m.Run())
}

func TestOpenAIClient_Chat(t *testing.T) {
	var body []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "texslides-test", r.Header.Get("User-Agent"))
		body, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"- hello"}}]}`))
	}))
	defer ts.Close()

	c := &OpenAIClient{BaseURL: ts.URL + "/v1/", APIKey: "secret", Model: "m1", UserAgent: "texslides-test", Client: ts.Client()}
	out, err := c.Chat(context.Background(), []Message{
		{Role: "system", Text: "sys"},
		{Role: "tool", Text: "plain"},
		{Role: "user", Text: "look", ImageURL: "data:image/png;base64,AAA"},
	}, ChatOptions{MaxTokens: 50, Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "- hello", out)

	req := gjson.ParseBytes(body)
	assert.Equal(t, "m1", req.Get("model").String())
	assert.Equal(t, int64(50), req.Get("max_tokens").Int())
	assert.False(t, req.Get("stream").Bool())
	assert.Equal(t, "sys", req.Get("messages.0.content").String())
	assert.Equal(t, "user", req.Get("messages.1.role").String())
	assert.Equal(t, "text", req.Get("messages.2.content.0.type").String())
	assert.Equal(t, "data:image/png;base64,AAA", req.Get("messages.2.content.1.image_url.url").String())
}

func TestOpenAIClient_MalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	c := &OpenAIClient{BaseURL: ts.URL, Client: ts.Client()}
	_, err := c.Chat(context.Background(), []Message{{Role: "user", Text: "x"}}, ChatOptions{})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestOpenAIClient_InvalidJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	c := &OpenAIClient{BaseURL: ts.URL, Client: ts.Client()}
	_, err := c.Chat(context.Background(), []Message{{Role: "user", Text: "x"}}, ChatOptions{})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestOpenAIClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer ts.Close()

	c := &OpenAIClient{BaseURL: ts.URL, Client: ts.Client(), MaxRetries: 3}
	out, err := c.Chat(context.Background(), []Message{{Role: "user", Text: "x"}}, ChatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestOpenAIClient_ClientErrorFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer ts.Close()

	c := &OpenAIClient{BaseURL: ts.URL, Client: ts.Client()}
	_, err := c.Chat(context.Background(), []Message{{Role: "user", Text: "x"}}, ChatOptions{})
	assert.ErrorIs(t, err, ErrAPI)
	assert.Contains(t, err.Error(), "401")
}

func TestGeminiClient_Chat(t *testing.T) {
	var body []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		body, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"- gem"}]}}]}`))
	}))
	defer ts.Close()

	c := &GeminiClient{BaseURL: ts.URL, APIKey: "k", Model: "models/gemini-test", Client: ts.Client()}
	out, err := c.Chat(context.Background(), []Message{
		{Role: "system", Text: "rules"},
		{Role: "assistant", Text: "prior"},
		{Role: "user", Text: "ask", ImageURL: "data:image/png;base64,AAA"},
	}, ChatOptions{MaxTokens: 10, Temperature: 0.4})
	require.NoError(t, err)
	assert.Equal(t, "- gem", out)

	req := gjson.ParseBytes(body)
	assert.Equal(t, "user", req.Get("contents.0.role").String())
	assert.Equal(t, "[SYSTEM]\nrules", req.Get("contents.0.parts.0.text").String())
	assert.Equal(t, "model", req.Get("contents.1.role").String())
	assert.Equal(t, "ask", req.Get("contents.2.parts.0.text").String())
	assert.False(t, req.Get("contents.2.parts.1").Exists())
	assert.Equal(t, int64(10), req.Get("generationConfig.maxOutputTokens").Int())
}

func TestGeminiClient_MalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{}}]}`))
	}))
	defer ts.Close()

	c := &GeminiClient{BaseURL: ts.URL, Model: "g", Client: ts.Client()}
	_, err := c.Chat(context.Background(), []Message{{Role: "user", Text: "x"}}, ChatOptions{})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestCapability_EndToEndOverHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"Summary:\n- **Fast** convergence\n- Lower loss"}}]}`))
	}))
	defer ts.Close()

	capability, err := FromConfig(types.AIConfig{Provider: types.ProviderNvidia, APIKey: "k", BaseURL: ts.URL}, nil)
	require.NoError(t, err)
	require.NotNil(t, capability)

	res := capability.Generate(context.Background(), Request{Title: "Results", Content: "text", MaxBullets: 4})
	require.True(t, res.OK())
	assert.Equal(t, []string{`\textbf{Fast} convergence`, "Lower loss"}, res.Bullets)
}

func TestFromConfig(t *testing.T) {
	c, err := FromConfig(types.AIConfig{Provider: types.ProviderNone}, nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = FromConfig(types.AIConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = FromConfig(types.AIConfig{Provider: types.ProviderGemini}, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = FromConfig(types.AIConfig{Provider: "claude", APIKey: "k"}, nil)
	assert.ErrorIs(t, err, ErrUnknownProvider)

	c, err = FromConfig(types.AIConfig{Provider: types.ProviderGemini, APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.False(t, c.SupportsImages())
	assert.True(t, c.CanSummarize())

	c, err = FromConfig(types.AIConfig{Provider: types.ProviderOpenAI, APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.True(t, c.SupportsImages())
	assert.Equal(t, "openai", c.Name())
}
