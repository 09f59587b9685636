// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// NodeKind classifies a ContentNode.
type NodeKind string

const (
	KindDocument   NodeKind = "document"
	KindSection    NodeKind = "section"
	KindSubsection NodeKind = "subsection"
	KindText       NodeKind = "text"
	KindEquation   NodeKind = "equation"
	KindFigure     NodeKind = "figure"
	KindCitation   NodeKind = "citation"
)

// Metadata keys carried by figure and equation nodes.
const (
	MetaImagePath    = "image_path"
	MetaCaption      = "caption"
	MetaCoreEquation = "core_equation"
)

// ContentNode is one element of the parsed document tree.
type ContentNode struct {
	// Kind is the node type.
	Kind NodeKind `json:"kind" yaml:"kind"`

	// Content is the literal payload: a title for sections, the raw line for
	// text, the captured block for equations.
	Content string `json:"content" yaml:"content"`

	// Level is 0 for top-level nodes and parent.Level+1 otherwise.
	Level int `json:"level" yaml:"level"`

	// Children holds nested nodes in source order.
	Children []*ContentNode `json:"children,omitempty" yaml:"children,omitempty"`

	// Metadata is set only on figure and equation nodes.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewNode returns a top-level node of the given kind.
func NewNode(kind NodeKind, content string) *ContentNode {
	return &ContentNode{Kind: kind, Content: content}
}

// Append attaches child as the last child of n and fixes its level.
func (n *ContentNode) Append(child *ContentNode) {
	child.Level = n.Level + 1
	n.Children = append(n.Children, child)
}

// Meta returns the metadata value for key, or "" when absent.
func (n *ContentNode) Meta(key string) string {
	if n.Metadata == nil {
		return ""
	}
	return n.Metadata[key]
}

// ChildrenOfKind returns the direct children of n with the given kind.
func (n *ContentNode) ChildrenOfKind(kind NodeKind) []*ContentNode {
	var out []*ContentNode
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns every node below n in document order. Subsection
// nodes themselves are included before their children.
func (n *ContentNode) Descendants() []*ContentNode {
	var out []*ContentNode
	var walk func(*ContentNode)
	walk = func(p *ContentNode) {
		for _, c := range p.Children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(n)
	return out
}

// MacroDefinition records one \newcommand declaration.
type MacroDefinition struct {
	Name string `json:"name" yaml:"name"`
	Args int    `json:"args" yaml:"args"`
	Body string `json:"body" yaml:"body"`
}
