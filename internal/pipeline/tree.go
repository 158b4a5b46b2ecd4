package pipeline

import "iter"

// NodeID indexes a node inside a Tree.
type NodeID int32

// NoParent is the parent of the document root.
const NoParent NodeID = -1

// Kind identifies the role of a node in the tree.
type Kind uint8

// Block kinds.
const (
	KindUnknownBlock Kind = iota
	KindDocument
	KindParagraph
	KindTextBlock
	KindHeading
	KindThematicBreak
	KindCodeBlock
	KindHTMLBlock
	KindBlockquote
	KindList
	KindListItem
	KindTable
	KindTableHeader
	KindTableRow
	KindTableCell
)

// Inline kinds.
const (
	KindUnknownInline Kind = iota + 64
	KindText
	KindCodeSpan
	KindLineBreak
	KindRawHTML
	KindEmoji
	KindEmphasis
	KindStrikethrough
	KindLink
	KindImage
	KindAutoLink
)

var kindNames = map[Kind]string{
	KindUnknownBlock:  "UnknownBlock",
	KindDocument:      "Document",
	KindParagraph:     "Paragraph",
	KindTextBlock:     "TextBlock",
	KindHeading:       "Heading",
	KindThematicBreak: "ThematicBreak",
	KindCodeBlock:     "CodeBlock",
	KindHTMLBlock:     "HTMLBlock",
	KindBlockquote:    "Blockquote",
	KindList:          "List",
	KindListItem:      "ListItem",
	KindTable:         "Table",
	KindTableHeader:   "TableHeader",
	KindTableRow:      "TableRow",
	KindTableCell:     "TableCell",
	KindUnknownInline: "UnknownInline",
	KindText:          "Text",
	KindCodeSpan:      "CodeSpan",
	KindLineBreak:     "LineBreak",
	KindRawHTML:       "RawHTML",
	KindEmoji:         "Emoji",
	KindEmphasis:      "Emphasis",
	KindStrikethrough: "Strikethrough",
	KindLink:          "Link",
	KindImage:         "Image",
	KindAutoLink:      "AutoLink",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(?)"
}

// IsInline reports whether k is an inline kind.
func (k Kind) IsInline() bool {
	return k >= KindUnknownInline
}

// Node is one entry of the arena. Payload fields are only meaningful for the
// kinds noted beside them.
type Node struct {
	Kind     Kind
	Name     string // parser kind name, for diagnostics on unknown nodes
	Parent   NodeID
	Children []NodeID

	Level   int      // Heading: 1-6; Emphasis: 1 (single delimiter) or 2 (double)
	Ordered bool     // List
	Hard    bool     // LineBreak: hard or backslash break
	Email   bool     // AutoLink
	Text    string   // Text, CodeSpan, Emoji, AutoLink label
	URL     string   // Link, Image, AutoLink
	Lines   []string // CodeBlock, without line terminators
}

// Tree is an arena-allocated Markdown document. Node 0 is the document root.
// Parent links are indices, so walking ancestors never follows pointers.
type Tree struct {
	Nodes []Node
}

// Root returns the document node.
func (t *Tree) Root() NodeID { return 0 }

// Node returns the node stored at id.
func (t *Tree) Node(id NodeID) *Node {
	return &t.Nodes[id]
}

// Ancestors yields the parents of id, nearest first, up to and including the root.
func (t *Tree) Ancestors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for p := t.Nodes[id].Parent; p != NoParent; p = t.Nodes[p].Parent {
			if !yield(p) {
				return
			}
		}
	}
}

// LeafBlocks returns every block that holds content rather than other blocks,
// in document order.
func (t *Tree) LeafBlocks() []NodeID {
	if len(t.Nodes) == 0 {
		return nil
	}
	var out []NodeID
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if !t.isBlockContainer(id) {
			out = append(out, id)
			return
		}
		for _, c := range t.Nodes[id].Children {
			walk(c)
		}
	}
	walk(t.Root())
	return out
}

// InlineLeaves returns the inline descendants of id that carry content, in
// document order. Emphasis, strikethrough, link and image spans are descended
// into and never returned themselves. Any other inline, including an unknown
// one with children, is returned as a leaf so callers can reject it.
func (t *Tree) InlineLeaves(id NodeID) []NodeID {
	var out []NodeID
	var walk func(id NodeID)
	walk = func(id NodeID) {
		for _, c := range t.Nodes[id].Children {
			n := &t.Nodes[c]
			if !n.Kind.IsInline() {
				continue
			}
			if isInlineContainer(n.Kind) {
				walk(c)
				continue
			}
			out = append(out, c)
		}
	}
	walk(id)
	return out
}

func (t *Tree) isBlockContainer(id NodeID) bool {
	n := &t.Nodes[id]
	switch n.Kind {
	case KindDocument, KindBlockquote, KindList, KindListItem,
		KindTable, KindTableHeader, KindTableRow:
		return true
	case KindUnknownBlock:
		for _, c := range n.Children {
			if !t.Nodes[c].Kind.IsInline() {
				return true
			}
		}
	}
	return false
}

func isInlineContainer(k Kind) bool {
	switch k {
	case KindEmphasis, KindStrikethrough, KindLink, KindImage:
		return true
	}
	return false
}
