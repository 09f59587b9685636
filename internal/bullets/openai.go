// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bullets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/texslides/internal/httputil"
)

// NvidiaBaseURL is the default OpenAI-compatible endpoint.
const NvidiaBaseURL = "https://integrate.api.nvidia.com/v1"

// OpenAIBaseURL is the OpenAI endpoint.
const OpenAIBaseURL = "https://api.openai.com/v1"

// ErrMalformedResponse is returned when a chat reply lacks the text field.
var ErrMalformedResponse = errors.New("malformed chat response")

// ErrAPI is returned for non-retryable or exhausted HTTP failures.
var ErrAPI = errors.New("chat API error")

// OpenAIClient calls an OpenAI-compatible chat completions endpoint. Image
// data URLs are sent as image_url content parts.
type OpenAIClient struct {
	BaseURL    string
	APIKey     string
	Model      string
	UserAgent  string
	MaxRetries int
	Client     *http.Client
	Logger     *slog.Logger
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
	TopP        float64         `json:"top_p"`
	Stream      bool            `json:"stream"`
}

// openAIMessage content is either a string or a list of parts.
type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

// Chat sends messages and returns choices[0].message.content.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error) {
	reqBody := openAIRequest{
		Model:       c.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		TopP:        0.9,
	}
	for _, m := range messages {
		reqBody.Messages = append(reqBody.Messages, openAIMessage{Role: chatRole(m.Role), Content: openAIContent(m)})
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	base := c.BaseURL
	if base == "" {
		base = NvidiaBaseURL
	}
	url := strings.TrimRight(base, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	body, err := send(ctx, c.Client, req, c.MaxRetries, c.Logger)
	if err != nil {
		return "", err
	}
	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() || content.Type != gjson.String {
		return "", fmt.Errorf("%w: no choices[0].message.content", ErrMalformedResponse)
	}
	return content.String(), nil
}

func openAIContent(m Message) any {
	if m.ImageURL == "" {
		return m.Text
	}
	return []openAIPart{
		{Type: "text", Text: m.Text},
		{Type: "image_url", ImageURL: &openAIImageURL{URL: m.ImageURL}},
	}
}

// chatRole maps unknown roles to "user".
func chatRole(role string) string {
	switch role {
	case "system", "user", "assistant":
		return role
	}
	return "user"
}

// send runs req with retry and returns the body of a 200 response.
func send(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, logger *slog.Logger) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, maxRetries, logger)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", req.URL.Host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d: %s", ErrAPI, req.URL.Host, resp.StatusCode, truncate(string(body), 300))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	return body, nil
}
