// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bullets

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	// dotBullet matches lines opened with a '•' marker.
	dotBullet = regexp.MustCompile(`(?m)^(\s*)•\s*`)

	boldMD   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicMD = regexp.MustCompile(`\*(.+?)\*`)
	codeMD   = regexp.MustCompile("`([^`]+)`")
)

var markdown = goldmark.New()

// ParseList returns the list items of a Markdown response in document order,
// with inline emphasis converted to LaTeX. Lines opened with '•' count as
// list items. Nested items are returned after their parent.
func ParseList(response string) []string {
	src := []byte(dotBullet.ReplaceAllString(response, "$1- "))
	doc := markdown.Parser().Parse(text.NewReader(src))

	var items []string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindListItem {
			return ast.WalkContinue, nil
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if c.Kind() == ast.KindList {
				continue
			}
			if s := strings.TrimSpace(inlineLaTeX(c, src)); s != "" {
				items = append(items, s)
			}
			break
		}
		return ast.WalkContinue, nil
	})
	return items
}

// inlineLaTeX renders the inline content of n, converting emphasis, code
// spans and links.
func inlineLaTeX(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.Emphasis:
			cmd := `\textit{`
			if node.Level >= 2 {
				cmd = `\textbf{`
			}
			buf.WriteString(cmd + inlineLaTeX(node, src) + "}")
		case *ast.CodeSpan:
			buf.WriteString(`\texttt{` + inlineLaTeX(node, src) + "}")
		case *ast.AutoLink:
			buf.Write(node.Label(src))
		case *ast.RawHTML:
		default:
			buf.WriteString(inlineLaTeX(node, src))
		}
	}
	return buf.String()
}

// ConvertMarkdown converts **bold**, *italic* and `code` spans to LaTeX in
// plain text that did not go through ParseList.
func ConvertMarkdown(s string) string {
	s = boldMD.ReplaceAllString(s, `\textbf{$1}`)
	s = italicMD.ReplaceAllString(s, `\textit{$1}`)
	return codeMD.ReplaceAllString(s, `\texttt{$1}`)
}
