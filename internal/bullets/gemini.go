// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bullets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// GeminiBaseURL is the Generative Language API root.
const GeminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiClient calls the Gemini generateContent endpoint. It is text only:
// image URLs on messages are ignored.
type GeminiClient struct {
	BaseURL    string
	APIVersion string
	APIKey     string
	Model      string
	UserAgent  string
	MaxRetries int
	Client     *http.Client
	Logger     *slog.Logger
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// Chat sends messages and returns candidates[0].content.parts[0].text.
// System messages are sent as user turns prefixed with [SYSTEM].
func (c *GeminiClient) Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error) {
	reqBody := geminiRequest{
		GenerationConfig: geminiGenerationConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxTokens,
		},
	}
	for _, m := range messages {
		role, text := "user", m.Text
		switch m.Role {
		case "assistant":
			role = "model"
		case "system":
			text = "[SYSTEM]\n" + m.Text
		}
		reqBody.Contents = append(reqBody.Contents, geminiContent{Role: role, Parts: []geminiPart{{Text: text}}})
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	body, err := send(ctx, c.Client, req, c.MaxRetries, c.Logger)
	if err != nil {
		return "", err
	}
	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text")
	if !text.Exists() || text.Type != gjson.String {
		return "", fmt.Errorf("%w: no candidates[0].content.parts[0].text", ErrMalformedResponse)
	}
	return text.String(), nil
}

func (c *GeminiClient) endpoint() string {
	base := c.BaseURL
	if base == "" {
		base = GeminiBaseURL
	}
	version := c.APIVersion
	if version == "" {
		version = "v1"
	}
	model := strings.TrimPrefix(c.Model, "models/")
	return fmt.Sprintf("%s/%s/models/%s:generateContent?key=%s",
		strings.TrimRight(base, "/"), version, url.PathEscape(model), url.QueryEscape(c.APIKey))
}
