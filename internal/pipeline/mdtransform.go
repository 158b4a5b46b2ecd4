package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// byteOrderMark is stripped so a leading heading is still recognized.
const byteOrderMark = "\uFEFF"

// Line ending normalization.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor prepares raw text for the GFM parser.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown strips a byte order mark and normalizes line endings.
// Blank lines are left alone: they are significant inside code blocks.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, byteOrderMark)
	return normalizeLineEndings(content)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}
