// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package texparse turns normalized LaTeX into an ordered tree of
// ContentNodes. Structure is flattened to two levels: sections and the
// subsections directly below them.
package texparse

import (
	"regexp"
	"strings"

	"github.com/pdiddy/texslides/pkg/types"
)

var (
	sectionPrefixes    = []string{`\section{`, `\section*{`}
	subsectionPrefixes = []string{`\subsection{`, `\subsection*{`, `\subsubsection{`, `\subsubsection*{`}

	// citePattern matches \cite, \citep and \citet with their key list.
	citePattern = regexp.MustCompile(`\\cite[pt]?\{([^}]+)\}`)

	// graphicsPattern matches \includegraphics[opts]{path}.
	graphicsPattern = regexp.MustCompile(`\\includegraphics(?:\[[^\]]*\])?\{([^}]+)\}`)

	// inlineLead matches prose lines that open with an emphasis command.
	inlineLead = regexp.MustCompile(`^\\(textbf|textit|emph)\{`)
)

// parser holds the cursors of a single forward scan.
type parser struct {
	lines   []string
	top     []*types.ContentNode
	section *types.ContentNode
	current *types.ContentNode
}

// Parse converts normalized markup into top-level nodes in source order.
func Parse(markup string) []*types.ContentNode {
	p := &parser{lines: strings.Split(markup, "\n")}
	p.run()
	return p.top
}

// ParseDocument wraps Parse in a document root node. The root is a container
// only; its children keep level 0.
func ParseDocument(markup string) *types.ContentNode {
	root := types.NewNode(types.KindDocument, "")
	root.Children = Parse(markup)
	return root
}

func (p *parser) run() {
	for i := 0; i < len(p.lines); i++ {
		line := strings.TrimSpace(p.lines[i])
		if line == "" {
			continue
		}

		switch {
		case hasAnyPrefix(line, sectionPrefixes):
			node := types.NewNode(types.KindSection, ExtractBraces(line))
			p.top = append(p.top, node)
			p.section = node
			p.current = node

		case hasAnyPrefix(line, subsectionPrefixes):
			node := types.NewNode(types.KindSubsection, ExtractBraces(line))
			if p.section != nil {
				p.section.Append(node)
			} else {
				p.top = append(p.top, node)
			}
			p.current = node

		case strings.Contains(line, `\begin{equation`) || strings.Contains(line, `\begin{align`):
			block, end := p.equation(i)
			node := types.NewNode(types.KindEquation, block)
			node.Metadata = map[string]string{types.MetaCoreEquation: block}
			p.attach(node)
			i = end

		case strings.Contains(line, `\begin{figure`):
			node, end := p.figure(i)
			if node != nil {
				p.attach(node)
			}
			i = end

		case strings.HasPrefix(line, `\item`):
			text := strings.TrimSpace(strings.TrimPrefix(line, `\item`))
			text = strings.TrimSpace(strings.TrimPrefix(text, "[]"))
			if text != "" {
				p.attach(types.NewNode(types.KindText, text))
			}
			p.citations(line)

		case citePattern.MatchString(line):
			if !strings.HasPrefix(line, `\`) {
				p.attach(types.NewNode(types.KindText, line))
			}
			p.citations(line)

		case inlineLead.MatchString(line) || !strings.HasPrefix(line, `\`):
			p.attach(types.NewNode(types.KindText, line))
		}
	}
}

// attach adds node under the open section or subsection, or at top level.
func (p *parser) attach(node *types.ContentNode) {
	if p.current != nil {
		p.current.Append(node)
		return
	}
	p.top = append(p.top, node)
}

// citations attaches one citation node per distinct key on line.
func (p *parser) citations(line string) {
	for _, key := range citationKeys(line) {
		p.attach(types.NewNode(types.KindCitation, key))
	}
}

// capture collects raw lines from start through the first line satisfying
// isEnd, or through the end of input.
func (p *parser) capture(start int, isEnd func(string) bool) (string, int) {
	i := start
	for ; i < len(p.lines); i++ {
		if isEnd(p.lines[i]) {
			break
		}
	}
	if i >= len(p.lines) {
		i = len(p.lines) - 1
	}
	return strings.Join(p.lines[start:i+1], "\n"), i
}

// equation captures an equation or align block through its end line. An
// unterminated block stops before the next sectioning command, or at the
// end of input.
func (p *parser) equation(start int) (string, int) {
	i := start
	for ; i < len(p.lines); i++ {
		l := p.lines[i]
		if strings.Contains(l, `\end{equation`) || strings.Contains(l, `\end{align`) {
			break
		}
		trimmed := strings.TrimSpace(l)
		if i > start && (hasAnyPrefix(trimmed, sectionPrefixes) || hasAnyPrefix(trimmed, subsectionPrefixes)) {
			i--
			break
		}
	}
	if i >= len(p.lines) {
		i = len(p.lines) - 1
	}
	return strings.Join(p.lines[start:i+1], "\n"), i
}

// figure captures a figure environment. It returns nil when the block has no
// image reference.
func (p *parser) figure(start int) (*types.ContentNode, int) {
	var image, caption string
	_, end := p.capture(start, func(l string) bool {
		if m := graphicsPattern.FindStringSubmatch(l); m != nil {
			image = strings.TrimSpace(m[1])
		}
		if idx := strings.Index(l, `\caption`); idx >= 0 && strings.Contains(l[idx:], "{") {
			caption = strings.TrimSpace(ExtractBraces(l[idx:]))
		}
		return strings.Contains(l, `\end{figure`)
	})
	if image == "" {
		return nil, end
	}
	content := caption
	if content == "" {
		content = image
	}
	node := types.NewNode(types.KindFigure, content)
	node.Metadata = map[string]string{
		types.MetaImagePath: image,
		types.MetaCaption:   caption,
	}
	return node, end
}

// citationKeys returns the distinct citation keys of a line in order.
func citationKeys(line string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range citePattern.FindAllStringSubmatch(line, -1) {
		for _, k := range strings.Split(m[1], ",") {
			k = strings.TrimSpace(k)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
