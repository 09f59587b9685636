// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize prepares raw LaTeX for structural parsing. It expands
// zero-argument \newcommand macros, strips comments while keeping numeric
// percentages, and records \def environment aliases.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/texslides/pkg/types"
)

var (
	// newcommandHead matches the name and optional argument count of a
	// declaration. The body is read with balanced braces after the match.
	newcommandHead = regexp.MustCompile(`\\newcommand\{\\(\w+)\}(?:\[(\d+)\])?\{`)

	// aliasPattern matches \def\alias{\begin{env}}.
	aliasPattern = regexp.MustCompile(`\\def\\([a-z]+)\{\\begin\{(\w+)\}\}`)
)

// Stats counts what a normalization pass found.
type Stats struct {
	MacrosFound        int
	CustomEnvironments int
}

// Normalizer holds the macro and alias tables of one normalization pass.
type Normalizer struct {
	macros  []types.MacroDefinition
	index   map[string]int
	aliases map[string]string
}

// New returns an empty Normalizer.
func New() *Normalizer {
	return &Normalizer{
		index:   make(map[string]int),
		aliases: make(map[string]string),
	}
}

// Normalize runs a fresh Normalizer over markup.
func Normalize(markup string) string {
	return New().Normalize(markup)
}

// Normalize extracts and expands macros, strips comments and records
// environment aliases. Tables from a previous call are kept and extended.
func (n *Normalizer) Normalize(markup string) string {
	markup = n.extractMacros(markup)
	markup = n.expandMacros(markup)
	markup = StripComments(markup)
	markup = n.extractAliases(markup)
	return strings.TrimSpace(markup)
}

// Macros returns the recorded macro definitions in declaration order.
func (n *Normalizer) Macros() []types.MacroDefinition {
	out := make([]types.MacroDefinition, len(n.macros))
	copy(out, n.macros)
	return out
}

// Aliases returns a copy of the alias → environment table.
func (n *Normalizer) Aliases() map[string]string {
	out := make(map[string]string, len(n.aliases))
	for k, v := range n.aliases {
		out[k] = v
	}
	return out
}

// Stats reports table sizes.
func (n *Normalizer) Stats() Stats {
	return Stats{MacrosFound: len(n.macros), CustomEnvironments: len(n.aliases)}
}

func (n *Normalizer) extractMacros(s string) string {
	var b strings.Builder
	for {
		loc := newcommandHead.FindStringSubmatchIndex(s)
		if loc == nil {
			b.WriteString(s)
			return b.String()
		}
		open := loc[1] - 1
		body, end, ok := balancedFrom(s, open)
		if !ok {
			// Unterminated body: leave the rest untouched.
			b.WriteString(s)
			return b.String()
		}

		name := s[loc[2]:loc[3]]
		args := 0
		if loc[4] >= 0 {
			args, _ = strconv.Atoi(s[loc[4]:loc[5]])
		}
		n.record(types.MacroDefinition{Name: name, Args: args, Body: body})

		b.WriteString(s[:loc[0]])
		s = s[end+1:]
	}
}

func (n *Normalizer) record(def types.MacroDefinition) {
	if i, ok := n.index[def.Name]; ok {
		n.macros[i] = def
		return
	}
	n.index[def.Name] = len(n.macros)
	n.macros = append(n.macros, def)
}

func (n *Normalizer) expandMacros(s string) string {
	for _, m := range n.macros {
		if m.Args != 0 {
			continue
		}
		s = replaceCommand(s, m.Name, m.Body)
	}
	return s
}

func (n *Normalizer) extractAliases(s string) string {
	return aliasPattern.ReplaceAllStringFunc(s, func(match string) string {
		sub := aliasPattern.FindStringSubmatch(match)
		n.aliases[sub[1]] = sub[2]
		return ""
	})
}

// replaceCommand substitutes every \name that is not followed by an ASCII
// letter with body. The body is inserted literally.
func replaceCommand(s, name, body string) string {
	token := `\` + name
	var b strings.Builder
	for {
		i := strings.Index(s, token)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		after := i + len(token)
		if after < len(s) && isASCIILetter(s[after]) {
			b.WriteString(s[:after])
			s = s[after:]
			continue
		}
		b.WriteString(s[:i])
		b.WriteString(body)
		s = s[after:]
	}
}

// balancedFrom reads the group opened by the '{' at index open. It returns
// the inner text and the index of the closing brace.
func balancedFrom(s string, open int) (string, int, bool) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[open+1 : i], i, true
			}
		}
	}
	return "", -1, false
}

// StripComments removes LaTeX comments line by line. A '%' directly after a
// digit and not directly before a letter is a percentage and is kept; any
// other '%', an escaped "\%" included, starts a comment. Lines are
// right-trimmed.
func StripComments(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = stripLineComment(line)
	}
	return strings.Join(lines, "\n")
}

func stripLineComment(line string) string {
	runes := []rune(line)
	for i, r := range runes {
		if r != '%' {
			continue
		}
		if isPercentage(runes, i) {
			continue
		}
		return strings.TrimRightFunc(string(runes[:i]), unicode.IsSpace)
	}
	return strings.TrimRightFunc(line, unicode.IsSpace)
}

func isPercentage(runes []rune, i int) bool {
	if i == 0 || !unicode.IsDigit(runes[i-1]) {
		return false
	}
	return i+1 >= len(runes) || !unicode.IsLetter(runes[i+1])
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
