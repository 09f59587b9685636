// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reflow merges line-wrapped text leaves back into paragraphs and
// splits paragraphs into bounded bullets along sentence boundaries.
package reflow

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/texslides/pkg/types"
)

// DefaultBound is the default maximum bullet length in characters.
const DefaultBound = 200

// minSentenceLen is the length below which a segment is a fragment.
const minSentenceLen = 20

var (
	citeCmd  = regexp.MustCompile(`\\cite[pt]?\{[^}]+\}`)
	refCmd   = regexp.MustCompile(`\\[Cc]?ref\{[^}]+\}`)
	labelCmd = regexp.MustCompile(`\\label\{[^}]+\}`)

	// manualBreak matches a "\\" line break not followed by a letter.
	manualBreak = regexp.MustCompile(`\\\\([^a-zA-Z]|$)`)

	whitespace = regexp.MustCompile(`\s+`)
)

// Reflow turns sibling text fragments into paragraphs. When at least half of
// the non-empty fragments contain '&' they are tabular rows and come back
// trimmed and unmerged. Otherwise all fragments are joined with single spaces
// into one paragraph.
func Reflow(texts []string) []string {
	var parts []string
	delimited := 0
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if strings.Contains(t, "&") {
			delimited++
		}
		parts = append(parts, t)
	}
	if len(parts) == 0 {
		return nil
	}
	if 2*delimited >= len(parts) {
		return parts
	}
	return []string{strings.Join(parts, " ")}
}

// ReflowNodes reflows the text-kind nodes among nodes.
func ReflowNodes(nodes []*types.ContentNode) []string {
	return Reflow(Texts(nodes))
}

// Texts returns the content of every text-kind node in order.
func Texts(nodes []*types.ContentNode) []string {
	var out []string
	for _, n := range nodes {
		if n.Kind == types.KindText {
			out = append(out, n.Content)
		}
	}
	return out
}

// Sanitize removes citation, reference and label commands and manual line
// breaks, then collapses whitespace.
func Sanitize(text string) string {
	text = citeCmd.ReplaceAllString(text, "")
	text = refCmd.ReplaceAllString(text, "")
	text = labelCmd.ReplaceAllString(text, "")
	text = manualBreak.ReplaceAllString(text, " $1")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Bullets reflows texts, sanitizes each paragraph and splits it at bound.
func Bullets(texts []string, bound int) []string {
	var out []string
	for _, p := range Reflow(texts) {
		out = append(out, Split(Sanitize(p), bound)...)
	}
	return out
}

// Split breaks paragraph into bullets of at most bound characters. Brace
// groups are never cut, so only a whitespace-free token or a single brace
// group longer than bound can exceed it.
func Split(paragraph string, bound int) []string {
	if bound <= 0 {
		bound = DefaultBound
	}
	sentences := splitSentences(paragraph)
	if len(sentences) == 0 {
		return nil
	}

	s := &splitter{bound: bound}
	for i := 0; i < len(sentences); i++ {
		sentence := sentences[i]

		if isFragment(sentence) {
			if s.current != "" && s.fits(s.current, sentence) {
				s.current += " " + sentence
				continue
			}
			if i+1 < len(sentences) {
				i++
				sentence += " " + sentences[i]
			}
		}

		if s.current == "" {
			s.start(sentence)
			continue
		}
		if s.fits(s.current, sentence) {
			s.current += " " + sentence
			continue
		}
		s.flush()
		s.start(sentence)
	}
	s.flush()
	return s.parts
}

type splitter struct {
	bound   int
	parts   []string
	current string
}

func (s *splitter) fits(a, b string) bool {
	return runeLen(a)+1+runeLen(b) <= s.bound
}

// start opens a new accumulator, wrapping sentence when it alone is too long.
func (s *splitter) start(sentence string) {
	if runeLen(sentence) <= s.bound {
		s.current = sentence
		return
	}
	for _, chunk := range wrap(sentence, s.bound) {
		n := len(s.parts)
		if n > 0 && isFragment(chunk) && s.fits(s.parts[n-1], chunk) {
			s.parts[n-1] += " " + chunk
			continue
		}
		s.parts = append(s.parts, chunk)
	}
}

func (s *splitter) flush() {
	if s.current != "" {
		s.parts = append(s.parts, s.current)
		s.current = ""
	}
}

// wrap greedily packs words into chunks of at most bound characters. A
// chunk only ends between words at brace depth zero.
func wrap(text string, bound int) []string {
	var chunks []string
	var b strings.Builder
	depth := 0
	for _, w := range strings.Fields(text) {
		if b.Len() > 0 && depth == 0 && runeLen(b.String())+1+runeLen(w) > bound {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
		depth = max(depth+braceDelta(w), 0)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}

// splitSentences splits after '.', '!' or '?' when whitespace follows and
// no brace group is open.
func splitSentences(text string) []string {
	var out []string
	emit := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	start, depth := 0, 0
	for i := 0; i < len(text)-1; i++ {
		switch text[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth = max(depth-1, 0)
		case '.', '!', '?':
			if depth > 0 {
				continue
			}
			r, _ := utf8.DecodeRuneInString(text[i+1:])
			if unicode.IsSpace(r) {
				emit(text[start : i+1])
				start = i + 1
			}
		}
	}
	emit(text[start:])
	return out
}

// braceDelta returns the net number of groups s opens. Escaped braces do
// not count.
func braceDelta(s string) int {
	delta := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			delta++
		case '}':
			delta--
		}
	}
	return delta
}

// isFragment reports whether s is too short or starts in lowercase.
func isFragment(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r) || runeLen(s) < minSentenceLen
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
