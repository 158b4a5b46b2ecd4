package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	emojiast "github.com/yuin/goldmark-emoji/ast"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrParse indicates the Markdown parser failed unexpectedly.
var ErrParse = errors.New("markdown parsing failed")

// TreeParser abstracts Markdown parsing into a Tree.
type TreeParser interface {
	Parse(ctx context.Context, content string) (*Tree, error)
}

// GoldmarkParser parses GFM using goldmark (pure Go).
type GoldmarkParser struct {
	md goldmark.Markdown
}

// NewGoldmarkParser creates a GoldmarkParser with the GFM subset slides support.
func NewGoldmarkParser() *GoldmarkParser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Linkify, // Bare URLs and emails become autolinks
			extension.Table,   // Pipe tables (cells become paragraphs)
			emoji.Emoji,       // :tada: shortcodes; smileys like :-) stay literal
			// Task lists are left out on purpose: "[ ] item" stays literal text.
		),
		goldmark.WithParserOptions(
			parser.WithInlineParsers(util.Prioritized(doubleTildeParser{extension.NewStrikethroughParser()}, 500)),
		),
	)
	return &GoldmarkParser{md: md}
}

// doubleTildeParser restricts goldmark's strikethrough to ~~text~~.
// A single ~ is left to the text scanner and stays literal.
type doubleTildeParser struct {
	parser.InlineParser
}

func (p doubleTildeParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 2 || line[1] != '~' {
		return nil
	}
	return p.InlineParser.Parse(parent, block, pc)
}

// Parse converts Markdown content into a Tree.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (p *GoldmarkParser) Parse(ctx context.Context, content string) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		tree *Tree
		err  error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrParse, r)}
			}
		}()
		source := []byte(content)
		doc := p.md.Parser().Parse(text.NewReader(source))
		done <- result{tree: buildTree(doc, source)}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.tree, r.err
	}
}

// treeBuilder flattens a goldmark AST into arena nodes.
type treeBuilder struct {
	tree   *Tree
	source []byte
}

func buildTree(doc ast.Node, source []byte) *Tree {
	b := &treeBuilder{tree: &Tree{}, source: source}
	b.add(doc, NoParent)
	return b.tree
}

// add appends n and its descendants, returning the index assigned to n.
func (b *treeBuilder) add(n ast.Node, parent NodeID) NodeID {
	id := b.push(b.describe(n), parent)

	// Code spans are flattened into their Text payload.
	if n.Kind() == ast.KindCodeSpan {
		return id
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if isEmptyParagraph(c) {
			continue
		}
		b.add(c, id)
		if t, ok := c.(*ast.Text); ok && !t.IsRaw() {
			switch {
			case t.HardLineBreak():
				b.push(Node{Kind: KindLineBreak, Name: "LineBreak", Hard: true}, id)
			case t.SoftLineBreak():
				b.push(Node{Kind: KindLineBreak, Name: "LineBreak"}, id)
			}
		}
	}
	return id
}

// isEmptyParagraph reports a paragraph or text block with no inline content.
// goldmark leaves one behind for each run of link reference definitions.
func isEmptyParagraph(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		return n.ChildCount() == 0
	}
	return false
}

func (b *treeBuilder) push(n Node, parent NodeID) NodeID {
	id := NodeID(len(b.tree.Nodes))
	n.Parent = parent
	b.tree.Nodes = append(b.tree.Nodes, n)
	if parent != NoParent {
		b.tree.Nodes[parent].Children = append(b.tree.Nodes[parent].Children, id)
	}
	return id
}

// describe maps one goldmark node to its arena representation, without children.
func (b *treeBuilder) describe(n ast.Node) Node {
	node := Node{Name: n.Kind().String()}

	switch v := n.(type) {
	case *ast.Document:
		node.Kind = KindDocument
	case *ast.Paragraph:
		node.Kind = KindParagraph
	case *ast.TextBlock:
		node.Kind = KindTextBlock
	case *ast.Heading:
		node.Kind = KindHeading
		node.Level = v.Level
	case *ast.ThematicBreak:
		node.Kind = KindThematicBreak
	case *ast.CodeBlock, *ast.FencedCodeBlock:
		node.Kind = KindCodeBlock
		node.Lines = b.lines(n)
	case *ast.HTMLBlock:
		node.Kind = KindHTMLBlock
	case *ast.Blockquote:
		node.Kind = KindBlockquote
	case *ast.List:
		node.Kind = KindList
		node.Ordered = v.IsOrdered()
	case *ast.ListItem:
		node.Kind = KindListItem
	case *extast.Table:
		node.Kind = KindTable
	case *extast.TableHeader:
		node.Kind = KindTableHeader
	case *extast.TableRow:
		node.Kind = KindTableRow
	case *extast.TableCell:
		node.Kind = KindTableCell

	case *ast.Text:
		node.Kind = KindText
		value := v.Segment.Value(b.source)
		if v.IsRaw() {
			node.Text = string(value)
		} else {
			node.Text = decodeText(value)
		}
	case *ast.String:
		node.Kind = KindText
		if v.IsRaw() || v.IsCode() {
			node.Text = string(v.Value)
		} else {
			node.Text = decodeText(v.Value)
		}
	case *ast.CodeSpan:
		node.Kind = KindCodeSpan
		node.Text = b.codeSpanText(v)
	case *ast.RawHTML:
		node.Kind = KindRawHTML
	case *emojiast.Emoji:
		node.Kind = KindEmoji
		if v.Value != nil && len(v.Value.Unicode) > 0 {
			node.Text = string(v.Value.Unicode)
		} else {
			node.Text = ":" + string(v.ShortName) + ":"
		}
	case *ast.Emphasis:
		node.Kind = KindEmphasis
		node.Level = v.Level
	case *extast.Strikethrough:
		node.Kind = KindStrikethrough
	case *ast.Link:
		node.Kind = KindLink
		node.URL = string(v.Destination)
	case *ast.Image:
		node.Kind = KindImage
		node.URL = string(v.Destination)
	case *ast.AutoLink:
		node.Kind = KindAutoLink
		node.Email = v.AutoLinkType == ast.AutoLinkEmail
		node.URL = string(v.URL(b.source))
		node.Text = string(v.Label(b.source))

	default:
		if n.Type() == ast.TypeInline {
			node.Kind = KindUnknownInline
		} else {
			node.Kind = KindUnknownBlock
		}
	}
	return node
}

// lines returns a block's source lines without terminators.
func (b *treeBuilder) lines(n ast.Node) []string {
	segs := n.Lines()
	out := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		line := seg.Value(b.source)
		line = bytes.TrimSuffix(line, []byte("\n"))
		line = bytes.TrimSuffix(line, []byte("\r"))
		out = append(out, string(line))
	}
	return out
}

// codeSpanText concatenates a code span's raw segments; line endings become spaces.
func (b *treeBuilder) codeSpanText(n *ast.CodeSpan) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var value []byte
		switch v := c.(type) {
		case *ast.Text:
			value = v.Segment.Value(b.source)
		case *ast.String:
			value = v.Value
		default:
			continue
		}
		if bytes.HasSuffix(value, []byte("\n")) {
			buf.Write(value[:len(value)-1])
			buf.WriteByte(' ')
			continue
		}
		buf.Write(value)
	}
	return buf.String()
}

// decodeText resolves backslash escapes and HTML entities the way an HTML
// renderer would, so slides show the characters a browser would show.
func decodeText(value []byte) string {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	value = util.ResolveEntityNames(value)
	return string(value)
}
