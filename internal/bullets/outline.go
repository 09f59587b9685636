// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bullets

import (
	"strings"

	"github.com/pdiddy/texslides/pkg/types"
)

// Outline renders nodes as an indented plain-text outline for summary
// prompts. Structural and text nodes use "-", others use "*".
func Outline(nodes []*types.ContentNode) string {
	var b strings.Builder
	var walk func(n *types.ContentNode, depth int)
	walk = func(n *types.ContentNode, depth int) {
		marker := "*"
		switch n.Kind {
		case types.KindSection, types.KindSubsection, types.KindText:
			marker = "-"
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(marker + " " + string(n.Kind) + ": " + strings.Join(strings.Fields(n.Content), " ") + "\n")
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, n := range nodes {
		walk(n, 0)
	}
	return strings.TrimRight(b.String(), "\n")
}
