// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bullets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedChat returns replies in order and records every request.
type scriptedChat struct {
	replies []string
	errs    []error
	calls   [][]Message
}

func (s *scriptedChat) Chat(_ context.Context, messages []Message, _ ChatOptions) (string, error) {
	i := len(s.calls)
	s.calls = append(s.calls, messages)
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], err
	}
	return "", err
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "dash list after preamble",
			in:   "Here are the bullets:\n- First **key** result\n- Uses `adam` with *care*\n",
			want: []string{`First \textbf{key} result`, `Uses \texttt{adam} with \textit{care}`},
		},
		{
			name: "dot bullets",
			in:   "• Alpha point\n• Beta point",
			want: []string{"Alpha point", "Beta point"},
		},
		{
			name: "nested and ordered",
			in:   "1. Outer item\n   - inner item\n2. Second",
			want: []string{"Outer item", "inner item", "Second"},
		},
		{
			name: "wrapped item joins lines",
			in:   "- a bullet that\n  continues here",
			want: []string{"a bullet that continues here"},
		},
		{
			name: "no list",
			in:   "Just prose without any list.",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseList(tt.in))
		})
	}
}

func TestConvertMarkdown(t *testing.T) {
	assert.Equal(t, `\textbf{a} and \textit{b} with \texttt{c}`, ConvertMarkdown("**a** and *b* with `c`"))
}

func TestLLMGenerator_GenerateBullets(t *testing.T) {
	chat := &scriptedChat{replies: []string{"- one\n- two\n- three"}}
	g := NewLLMGenerator(chat, "")
	assert.Equal(t, DefaultSystemPrompt, g.SystemPrompt)

	got, err := g.GenerateBullets(context.Background(), strings.Repeat("x", 5000), "Results", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, got)

	require.Len(t, chat.calls, 1)
	msgs := chat.calls[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[1].Text, "Section: Results")
	assert.Contains(t, msgs[1].Text, "Create 2 concise")
	assert.NotContains(t, msgs[1].Text, strings.Repeat("x", textContentLimit+1))
}

func TestLLMGenerator_ChatError(t *testing.T) {
	chat := &scriptedChat{errs: []error{errors.New("boom")}}
	_, err := NewLLMGenerator(chat, "").GenerateBullets(context.Background(), "c", "t", 3)
	assert.Error(t, err)
}

func TestLLMGenerator_ImageAttached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.png")
	require.NoError(t, os.WriteFile(path, []byte("PNGDATA"), 0o644))

	chat := &scriptedChat{replies: []string{"- from figure"}}
	got, err := NewLLMGenerator(chat, "").GenerateBulletsWithImage(context.Background(), "c", "t", path, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"from figure"}, got)

	require.Len(t, chat.calls, 1)
	user := chat.calls[0][1]
	assert.Equal(t, "data:image/png;base64,UE5HREFUQQ==", user.ImageURL)
	assert.Contains(t, user.Text, "Analyze the provided figure")
}

func TestLLMGenerator_UnsupportedImageFallsBackToText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o644))

	chat := &scriptedChat{replies: []string{"- text only"}}
	got, err := NewLLMGenerator(chat, "").GenerateBulletsWithImage(context.Background(), "c", "t", path, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"text only"}, got)
	require.Len(t, chat.calls, 1)
	assert.Empty(t, chat.calls[0][1].ImageURL)
}

func TestLLMGenerator_ImageFailureFallsBackToText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.jpg")
	require.NoError(t, os.WriteFile(path, []byte("JPG"), 0o644))

	chat := &scriptedChat{
		replies: []string{"", "- recovered"},
		errs:    []error{errors.New("vision unavailable")},
	}
	got, err := NewLLMGenerator(chat, "").GenerateBulletsWithImage(context.Background(), "c", "t", path, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"recovered"}, got)
	assert.Len(t, chat.calls, 2)
}

func TestLLMGenerator_Summarize(t *testing.T) {
	chat := &scriptedChat{replies: []string{"summary", "exec summary"}}
	g := NewLLMGenerator(chat, "custom system")

	out, err := g.Summarize(context.Background(), "- section: Method", "")
	require.NoError(t, err)
	assert.Equal(t, "summary", out)
	assert.Equal(t, "custom system", chat.calls[0][0].Text)
	assert.Contains(t, chat.calls[0][1].Text, "Document outline")
	assert.Contains(t, chat.calls[0][1].Text, "Standard research presentation")

	_, err = g.Summarize(context.Background(), strings.Repeat("y", summaryLimit+10), "short talk")
	require.NoError(t, err)
	assert.Contains(t, chat.calls[1][1].Text, "top 3 contributions")
	assert.Contains(t, chat.calls[1][1].Text, "short talk")
}

func TestEncodeImage(t *testing.T) {
	_, err := EncodeImage("figure.eps")
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = EncodeImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
