package md2slides

import (
	"fmt"
	"strings"

	"github.com/alnah/go-md2slides/internal/pipeline"
)

// Control characters with special meaning in slide text.
const (
	// lineBreak is a line break inside a paragraph (Google Slides vertical tab).
	lineBreak = "\v"
	// paragraphBreak separates paragraphs in a text buffer.
	paragraphBreak = "\n"
)

// paragraphFromBlock extracts a leaf block's content as a paragraph.
// Code blocks become a single code run and carry no list or quote context,
// matching how they are shown on a slide.
func paragraphFromBlock(tree *pipeline.Tree, id pipeline.NodeID) (*ParagraphData, error) {
	if tree.Node(id).Kind == pipeline.KindCodeBlock {
		return &ParagraphData{Runs: codeRuns(tree.Node(id))}, nil
	}

	runs, err := extractRuns(tree, id)
	if err != nil {
		return nil, err
	}
	listItem, isBlockquote := blockContext(tree, id)
	return &ParagraphData{
		Runs:         runs,
		ListItem:     listItem,
		IsBlockquote: isBlockquote,
	}, nil
}

// codeRuns returns a code block as one run with lines joined by line breaks.
func codeRuns(n *pipeline.Node) []RunData {
	text := strings.TrimRight(strings.Join(n.Lines, lineBreak), lineBreak)
	return []RunData{{Text: text, IsCode: true}}
}

// extractRuns walks a block's inline leaves in document order and returns the
// merged run sequence.
func extractRuns(tree *pipeline.Tree, id pipeline.NodeID) ([]RunData, error) {
	var runs []RunData

	for _, leaf := range tree.InlineLeaves(id) {
		n := tree.Node(leaf)

		var text string
		switch n.Kind {
		case pipeline.KindText, pipeline.KindEmoji, pipeline.KindCodeSpan, pipeline.KindAutoLink:
			text = n.Text
		case pipeline.KindLineBreak:
			text = " "
			if n.Hard {
				text = lineBreak
			}
		case pipeline.KindRawHTML:
			continue
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedInlineKind, n.Name)
		}

		run := RunData{
			Text:    text,
			IsCode:  n.Kind == pipeline.KindCodeSpan,
			LinkURL: linkURL(tree, leaf),
		}
		applyEmphasis(tree, leaf, &run)
		runs = appendRun(runs, run)
	}

	return runs, nil
}

// applyEmphasis sets style flags from every enclosing emphasis span.
// Double delimiters mean bold, single delimiters italic.
func applyEmphasis(tree *pipeline.Tree, id pipeline.NodeID, run *RunData) {
	for p := range tree.Ancestors(id) {
		n := tree.Node(p)
		switch n.Kind {
		case pipeline.KindEmphasis:
			if n.Level >= 2 {
				run.IsBold = true
			} else {
				run.IsItalic = true
			}
		case pipeline.KindStrikethrough:
			run.IsStrikethrough = true
		}
	}
}

// linkURL resolves the link target for an inline leaf. Autolinks supply their
// own URL; otherwise the nearest enclosing link wins. Images are skipped:
// their alt text has nothing to point at.
func linkURL(tree *pipeline.Tree, id pipeline.NodeID) string {
	if n := tree.Node(id); n.Kind == pipeline.KindAutoLink {
		if n.Email {
			return "mailto:" + n.URL
		}
		return n.URL
	}

	for p := range tree.Ancestors(id) {
		if n := tree.Node(p); n.Kind == pipeline.KindLink {
			return n.URL
		}
	}
	return ""
}

// appendRun appends run, merging it into the previous run when both share a style.
func appendRun(runs []RunData, run RunData) []RunData {
	if last := len(runs) - 1; last >= 0 && runs[last].sameStyle(run) {
		runs[last].Text += run.Text
		return runs
	}
	return append(runs, run)
}

// mergeRuns re-folds a run sequence so no two adjacent runs share a style.
func mergeRuns(runs []RunData) []RunData {
	out := make([]RunData, 0, len(runs))
	for _, r := range runs {
		out = appendRun(out, r)
	}
	return out
}
