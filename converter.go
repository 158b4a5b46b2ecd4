package md2slides

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/alnah/go-md2slides/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.TreeParser           = (*pipeline.GoldmarkParser)(nil)
)

// Input holds one conversion request.
type Input struct {
	Markdown string

	// PresentationID selects an existing presentation to update.
	// Empty creates a new one.
	PresentationID string

	// Title overrides the title taken from the first heading. It is only
	// used when a new presentation is created.
	Title string

	// EraseExisting deletes every slide already in the presentation.
	EraseExisting bool
}

// Converter turns Markdown into PresentationData.
// Create with NewConverter and reuse it; Convert is safe for concurrent use.
type Converter struct {
	preprocessor pipeline.MarkdownPreprocessor
	parser       pipeline.TreeParser
	newID        func() string
}

// Option configures a Converter.
type Option func(*Converter)

// WithIDGenerator replaces the slide ID source. IDs must be unique within a
// conversion and valid object IDs for the backend.
// Panics if gen is nil (programmer error).
func WithIDGenerator(gen func() string) Option {
	if gen == nil {
		panic("md2slides: WithIDGenerator requires a non-nil generator")
	}
	return func(c *Converter) {
		c.newID = gen
	}
}

// NewConverter creates a Converter using goldmark for GFM parsing.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		preprocessor: &pipeline.CommonMarkPreprocessor{},
		parser:       pipeline.NewGoldmarkParser(),
		newID:        newSlideID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newSlideID returns a random UUID without dashes. Slides object IDs must
// start with a word character and be 5 to 50 characters long.
func newSlideID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Convert parses input.Markdown and groups it into slides.
// It returns nil, nil when the document has no heading and so no slides.
// Any unsupported block or inline aborts the conversion with no partial result.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (data *PresentationData, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	content := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := c.parser.Parse(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("parsing markdown: %w", err)
	}

	a := &assembler{tree: tree, newID: c.newID}
	slides, err := a.assemble()
	if err != nil {
		return nil, fmt.Errorf("assembling slides: %w", err)
	}
	if len(slides) == 0 {
		return nil, nil
	}

	title := input.Title
	if title == "" {
		title = presentationTitle(slides)
	}
	return &PresentationData{
		ID:            input.PresentationID,
		Title:         title,
		Slides:        slides,
		EraseExisting: input.EraseExisting,
	}, nil
}
