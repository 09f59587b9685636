// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package title bounds frame titles to a word cap. Text cut from a title is
// returned as overflow so callers can show it in the frame body.
package title

import (
	"regexp"
	"strings"
)

// DefaultMaxWords is the default title word cap.
const DefaultMaxWords = 6

var (
	citeCmd     = regexp.MustCompile(`\\cite[pt]?\{[^}]+\}`)
	refCmd      = regexp.MustCompile(`\\[Cc]?ref\{[^}]+\}`)
	labelCmd    = regexp.MustCompile(`\\label\{[^}]+\}`)
	manualBreak = regexp.MustCompile(`\\\\([^a-zA-Z]|$)`)
	emphasis    = regexp.MustCompile(`\\(?:textbf|textit|emph|texttt)\{([^}]+)\}`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// rewrite collapses a long caption idiom into a short phrase.
type rewrite struct {
	pattern *regexp.Regexp
	apply   func(m []string) string
}

// rewrites are tried in order; the first whose result fits the cap wins.
var rewrites = []rewrite{
	{regexp.MustCompile(`(?i)^(Layer-wise|Cross-model|Multi-layer)\s+(\w+)`), func(m []string) string { return m[1] + " " + m[2] }},
	{regexp.MustCompile(`(?i)^(\w+)\s+with\s+`), func(m []string) string { return m[1] + " Analysis" }},
	{regexp.MustCompile(`(?i)^(\w+)\s+of\s+(\w+)\s+`), func(m []string) string { return m[1] + " of " + m[2] }},
	{regexp.MustCompile(`(?i)^(\w+)\s+shows?\s+`), func(m []string) string { return m[1] + " Results" }},
	{regexp.MustCompile(`(?i)^(\w+\s+\w+)\s+from\s+`), func(m []string) string { return m[1] }},
}

var prepositions = map[string]bool{
	"from": true, "with": true, "across": true, "under": true, "over": true,
	"during": true, "at": true, "in": true, "on": true,
}

// Clean strips citation, reference and label commands and manual breaks,
// unwraps inline emphasis and collapses whitespace.
func Clean(title string) string {
	title = citeCmd.ReplaceAllString(title, "")
	title = refCmd.ReplaceAllString(title, "")
	title = labelCmd.ReplaceAllString(title, "")
	title = manualBreak.ReplaceAllString(title, " $1")
	title = emphasis.ReplaceAllString(title, "$1")
	title = whitespace.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// Compress returns a title of at most maxWords words and the overflow text.
// The overflow is the cleaned title whenever it differs from the short one.
func Compress(title string, maxWords int) (string, string) {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	cleaned := Clean(title)
	words := strings.Fields(cleaned)
	if len(words) <= maxWords {
		return cleaned, ""
	}

	short := Balance(shorten(cleaned, words, maxWords))
	if short == cleaned {
		return short, ""
	}
	return short, cleaned
}

func shorten(cleaned string, words []string, maxWords int) string {
	for _, r := range rewrites {
		m := r.pattern.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		if s := r.apply(m); len(strings.Fields(s)) <= maxWords {
			return s
		}
	}

	for i := min(maxWords, len(words)); i > 0; i-- {
		if i < len(words) && prepositions[strings.ToLower(words[i])] {
			return strings.Join(words[:i], " ")
		}
	}
	return strings.Join(words[:maxWords], " ")
}

// Balance drops unmatched closing braces, closes open groups and closes an
// unterminated inline math span.
func Balance(s string) string {
	var b strings.Builder
	depth, dollars := 0, 0
	escaped := false
	for _, r := range s {
		if escaped {
			escaped = false
			b.WriteRune(r)
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '{':
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
		case '$':
			dollars++
		}
		b.WriteRune(r)
	}
	out := strings.TrimSuffix(b.String(), `\`)
	out += strings.Repeat("}", depth)
	if dollars%2 == 1 {
		out += "$"
	}
	return out
}
