// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/texslides/pkg/types"
)

func TestNormalize_ExpandsZeroArgMacros(t *testing.T) {
	in := "\\newcommand{\\alg}{Stochastic Gradient Descent}\nWe use \\alg for training."
	n := New()
	got := n.Normalize(in)

	assert.Equal(t, "We use Stochastic Gradient Descent for training.", got)
	require.Len(t, n.Macros(), 1)
	assert.Equal(t, types.MacroDefinition{Name: "alg", Args: 0, Body: "Stochastic Gradient Descent"}, n.Macros()[0])
}

func TestNormalize_WordBoundary(t *testing.T) {
	in := "\\newcommand{\\al}{ALPHA}\n\\al, \\alg and \\al\\al."
	got := Normalize(in)
	assert.Equal(t, "ALPHA, \\alg and ALPHAALPHA.", got)
}

func TestNormalize_DeclarationOrder(t *testing.T) {
	in := "\\newcommand{\\first}{\\second}\n\\newcommand{\\second}{done}\n\\first"
	got := Normalize(in)
	assert.Equal(t, "done", got)
}

func TestNormalize_ArgumentMacrosRecordedNotExpanded(t *testing.T) {
	in := "\\newcommand{\\pair}[2]{#1 and #2}\nUse \\pair{a}{b} here."
	n := New()
	got := n.Normalize(in)

	assert.Equal(t, "Use \\pair{a}{b} here.", got)
	require.Len(t, n.Macros(), 1)
	assert.Equal(t, 2, n.Macros()[0].Args)
	assert.Equal(t, "#1 and #2", n.Macros()[0].Body)
}

func TestNormalize_NestedBody(t *testing.T) {
	in := "\\newcommand{\\method}{\\textbf{Fast} SGD}\nOur \\method wins."
	got := Normalize(in)
	assert.Equal(t, "Our \\textbf{Fast} SGD wins.", got)
}

func TestNormalize_BodyWithBackslashes(t *testing.T) {
	in := "\\newcommand{\\R}{\\mathbb{R}}\n$x \\in \\R$"
	got := Normalize(in)
	assert.Equal(t, "$x \\in \\mathbb{R}$", got)
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"full line comment", "% TODO: fix", ""},
		{"trailing comment", "text % comment here", "text"},
		{"percentage kept", "The accuracy is 95%.", "The accuracy is 95%."},
		{"percentage at end of line", "gain of 30%", "gain of 30%"},
		{"digit then letter is comment", "value 5%note", "value 5"},
		{"escaped percent starts comment", "50\\% of runs", "50\\"},
		{"escaped percent after digit", "5\\% gain", "5\\"},
		{"percentage then comment", "up 12% % reviewer asked", "up 12%"},
		{"trailing whitespace trimmed", "plain   ", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripComments(tt.in))
		})
	}
}

func TestNormalize_EscapedPercentIsComment(t *testing.T) {
	got := Normalize("Gains of 5\\% over baseline % comment")
	assert.Equal(t, "Gains of 5\\", got)
}

func TestNormalize_AliasesRecordedNotSubstituted(t *testing.T) {
	in := "\\def\\beq{\\begin{equation}}\n\\beq\nx = 2\n\\eeq"
	n := New()
	got := n.Normalize(in)

	assert.Equal(t, "\\beq\nx = 2\n\\eeq", got)
	assert.Equal(t, map[string]string{"beq": "equation"}, n.Aliases())
	assert.Equal(t, Stats{MacrosFound: 0, CustomEnvironments: 1}, n.Stats())
}

func TestNormalize_RedeclarationKeepsPosition(t *testing.T) {
	in := "\\newcommand{\\a}{one}\n\\newcommand{\\b}{two}\n\\newcommand{\\a}{three}\n\\a \\b"
	n := New()
	got := n.Normalize(in)

	assert.Equal(t, "three two", got)
	macros := n.Macros()
	require.Len(t, macros, 2)
	assert.Equal(t, "a", macros[0].Name)
	assert.Equal(t, "three", macros[0].Body)
}

func TestNormalize_UnterminatedDeclarationLeftAlone(t *testing.T) {
	in := "\\newcommand{\\x}{never closed"
	assert.Equal(t, in, Normalize(in))
}
