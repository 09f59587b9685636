// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bullets

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode/utf8"
)

// Content limits sent to the model, in characters.
const (
	textContentLimit  = 2000
	imageContentLimit = 1500
	summaryLimit      = 10000
)

// ErrUnsupportedImage is returned when an image cannot be sent inline.
var ErrUnsupportedImage = errors.New("unsupported image format")

// Message is one chat message. ImageURL, when set, is a data URL attached
// to a user message.
type Message struct {
	Role     string
	Text     string
	ImageURL string
}

// ChatOptions tunes a single completion.
type ChatOptions struct {
	MaxTokens   int
	Temperature float64
}

// Chatter sends a conversation to a chat model and returns the reply text.
type Chatter interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error)
}

// DefaultSystemPrompt instructs the planner model used for summaries.
const DefaultSystemPrompt = `You are a professional presentation planner. Given structured TeX sections, build a clear, accurate outline for slides. Be concise, avoid hallucinating, and keep equations or claims only if present in the input.

Rules:
1. Cover methodology, algorithms and main experimental results in detail. Keep introduction, background and related work brief. Ignore references, appendices and acknowledgements.
2. If a section is very long, split it into specific insights.
3. Never use conversational filler like "Here is the presentation" or "Slide 1: Title".
4. Never list slide numbers. Focus on key contributions only.`

const (
	bulletSystemPrompt = "You are an expert at distilling research into presentation-ready bullet points."
	figureSystemPrompt = "You are an expert at analyzing research figures and distilling insights into presentation-ready bullet points."
)

var textPromptTmpl = template.Must(template.New("bullets").Parse(`Section: {{.Title}}

Content:
{{.Content}}

Task: Create {{.MaxBullets}} concise, informative bullet points for a presentation slide.

Rules:
1. Each bullet should be 1-2 sentences maximum
2. Focus on key insights, not just facts
3. Make bullets specific
4. Avoid generic statements
5. Prioritize numbers, results, and concrete findings

Output format: One bullet per line, starting with "-"
`))

var imagePromptTmpl = template.Must(template.New("figure").Parse(`Section: {{.Title}}

Text content:
{{.Content}}

Task: Analyze the provided figure and create {{.MaxBullets}} concise, informative bullet points for a presentation slide.

Rules:
1. Integrate insights from both the text and the image
2. Each bullet should be 1-2 sentences maximum
3. Focus on key insights from the figure (trends, comparisons, key results)
4. Prioritize numbers, results, and concrete findings shown in the image

Output format: One bullet per line, starting with "-"
`))

var summaryPromptTmpl = template.Must(template.New("summary").Parse(`{{if .Executive}}Large document. Key sections from the paper:
{{.Outline}}

Identify the top 3 contributions of this paper and build the presentation around proving them. Discard minor details that do not support them.
{{else}}Document outline (from TeX parser):
{{.Outline}}
{{end}}
Presentation request (style/length):
{{.Style}}

Produce concise bullet points. Favor factual, grounded statements. Focus on methodology, algorithms and experiments. Keep introduction, background and related work minimal.
`))

// LLMGenerator implements ImageGenerator and Summarizer on top of a Chatter.
type LLMGenerator struct {
	Chat         Chatter
	SystemPrompt string
}

// NewLLMGenerator returns a generator using chat and the default system
// prompt when systemPrompt is empty.
func NewLLMGenerator(chat Chatter, systemPrompt string) *LLMGenerator {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &LLMGenerator{Chat: chat, SystemPrompt: systemPrompt}
}

// GenerateBullets asks the model for at most maxBullets bullets.
func (g *LLMGenerator) GenerateBullets(ctx context.Context, content, title string, maxBullets int) ([]string, error) {
	prompt, err := render(textPromptTmpl, promptData{Title: title, Content: truncate(content, textContentLimit), MaxBullets: maxBullets})
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}
	reply, err := g.Chat.Chat(ctx, []Message{
		{Role: "system", Text: bulletSystemPrompt},
		{Role: "user", Text: prompt},
	}, ChatOptions{MaxTokens: 400, Temperature: 0.3})
	if err != nil {
		return nil, err
	}
	return limit(ParseList(reply), maxBullets), nil
}

// GenerateBulletsWithImage attaches the image at imagePath to the request.
// Missing or unsupported images fall back to GenerateBullets, as does a
// failed or empty image reply.
func (g *LLMGenerator) GenerateBulletsWithImage(ctx context.Context, content, title, imagePath string, maxBullets int) ([]string, error) {
	dataURL, err := EncodeImage(imagePath)
	if err != nil {
		return g.GenerateBullets(ctx, content, title, maxBullets)
	}
	prompt, err := render(imagePromptTmpl, promptData{Title: title, Content: truncate(content, imageContentLimit), MaxBullets: maxBullets})
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}
	reply, err := g.Chat.Chat(ctx, []Message{
		{Role: "system", Text: figureSystemPrompt},
		{Role: "user", Text: prompt, ImageURL: dataURL},
	}, ChatOptions{MaxTokens: 500, Temperature: 0.3})
	if err == nil {
		if items := ParseList(reply); len(items) > 0 {
			return limit(items, maxBullets), nil
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return g.GenerateBullets(ctx, content, title, maxBullets)
}

// Summarize produces an overview of outline. Outlines longer than the
// summary limit switch to a contribution-focused prompt over a truncated
// outline.
func (g *LLMGenerator) Summarize(ctx context.Context, outline, style string) (string, error) {
	if strings.TrimSpace(style) == "" {
		style = "Standard research presentation: detailed methodology and experiments, brief introduction and background."
	}
	executive := utf8.RuneCountInString(outline) > summaryLimit
	prompt, err := render(summaryPromptTmpl, summaryData{
		Outline:   truncate(outline, summaryLimit),
		Style:     style,
		Executive: executive,
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return g.Chat.Chat(ctx, []Message{
		{Role: "system", Text: g.SystemPrompt},
		{Role: "user", Text: prompt},
	}, ChatOptions{MaxTokens: 900, Temperature: 0.4})
}

type promptData struct {
	Title      string
	Content    string
	MaxBullets int
}

type summaryData struct {
	Outline   string
	Style     string
	Executive bool
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var imageMIME = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// EncodeImage reads a raster image into a base64 data URL.
func EncodeImage(path string) (string, error) {
	mime, ok := imageMIME[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func limit(items []string, n int) []string {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
