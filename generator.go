package md2slides

import (
	"context"
	"fmt"
)

// Backend is a remote presentation service.
// Implementations must be safe to call sequentially from one goroutine;
// the generator never issues concurrent requests.
type Backend interface {
	// CreateDeck creates an empty presentation.
	CreateDeck(ctx context.Context, title string) (*Deck, error)
	// GetDeck reads the current state of a presentation.
	GetDeck(ctx context.Context, id string) (*Deck, error)
	// BatchApply applies instructions in order as one request.
	BatchApply(ctx context.Context, deckID string, instructions []Instruction) error
}

// Deck is a snapshot of a presentation.
type Deck struct {
	ID      string
	Layouts []Layout
	Slides  []Page
}

// Layout is a slide layout of a deck, identified by its predefined name.
type Layout struct {
	ID   string
	Name string
}

// Page is a slide of a deck.
type Page struct {
	ID         string
	LayoutName string
	Elements   []PageElement
}

// PageElement is a shape on a slide. PlaceholderType is empty for shapes
// that are not placeholders.
type PageElement struct {
	ID              string
	PlaceholderType string
}

// layoutID returns the ID of the layout with the given name.
func (d *Deck) layoutID(name string) (string, error) {
	for _, l := range d.Layouts {
		if l.Name == name {
			return l.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q in presentation %s", ErrMissingLayout, name, d.ID)
}

// page returns the slide with the given ID.
func (d *Deck) page(id string) (*Page, error) {
	for i := range d.Slides {
		if d.Slides[i].ID == id {
			return &d.Slides[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s in presentation %s", ErrMissingSlide, id, d.ID)
}

// placeholder returns the ID of the first element with the given
// placeholder type.
func (p *Page) placeholder(kind string) (string, error) {
	for _, e := range p.Elements {
		if e.PlaceholderType == kind {
			return e.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q in slide %s of layout %q", ErrMissingPlaceholder, kind, p.ID, p.LayoutName)
}

// Generator renders PresentationData onto a Backend.
type Generator struct {
	backend Backend
	style   RenderStyle
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithRenderStyle sets the code font and bullet presets. Empty fields keep
// their defaults.
func WithRenderStyle(style RenderStyle) GeneratorOption {
	return func(g *Generator) {
		g.style = style.withDefaults()
	}
}

// NewGenerator creates a Generator for backend.
func NewGenerator(backend Backend, opts ...GeneratorOption) (*Generator, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	g := &Generator{
		backend: backend,
		style:   DefaultRenderStyle(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate writes data to the backend and returns the presentation ID.
//
// Rendering takes two batches. The first deletes old slides when
// EraseExisting is set and creates one slide per SlideData. Placeholder
// element IDs exist only after that batch, so the deck is read again before
// the second batch inserts and styles the text. A placeholder is looked up
// only when the slide has text for it, so a layout lacking an unused
// placeholder (a subtitle on a bare title slide) is not an error. The
// context is checked between round trips. A failure leaves whatever batches
// already ran.
func (g *Generator) Generate(ctx context.Context, data *PresentationData) (string, error) {
	if data == nil {
		return "", ErrNilPresentation
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	deck, err := g.openDeck(ctx, data)
	if err != nil {
		return "", err
	}

	create, err := g.slideInstructions(deck, data)
	if err != nil {
		return "", err
	}
	if err := g.apply(ctx, deck.ID, create); err != nil {
		return "", fmt.Errorf("creating slides: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	deck, err = g.backend.GetDeck(ctx, deck.ID)
	if err != nil {
		return "", fmt.Errorf("reading presentation: %w", err)
	}

	text, err := g.textInstructions(deck, data)
	if err != nil {
		return "", err
	}
	if err := g.apply(ctx, deck.ID, text); err != nil {
		return "", fmt.Errorf("writing slide text: %w", err)
	}

	return deck.ID, nil
}

// openDeck creates a new deck or loads the one named by data.ID.
func (g *Generator) openDeck(ctx context.Context, data *PresentationData) (*Deck, error) {
	if data.ID == "" {
		deck, err := g.backend.CreateDeck(ctx, data.Title)
		if err != nil {
			return nil, fmt.Errorf("creating presentation: %w", err)
		}
		return deck, nil
	}
	deck, err := g.backend.GetDeck(ctx, data.ID)
	if err != nil {
		return nil, fmt.Errorf("opening presentation: %w", err)
	}
	return deck, nil
}

// slideInstructions builds the first batch: deletes, then slide creation.
func (g *Generator) slideInstructions(deck *Deck, data *PresentationData) ([]Instruction, error) {
	var out []Instruction
	if data.EraseExisting {
		for _, p := range deck.Slides {
			out = append(out, deleteObject(p.ID))
		}
	}
	for _, s := range data.Slides {
		layoutID, err := deck.layoutID(LayoutName(s.Kind))
		if err != nil {
			return nil, err
		}
		out = append(out, createSlide(s.ID, layoutID))
	}
	return out, nil
}

// textInstructions builds the second batch against the re-read deck.
func (g *Generator) textInstructions(deck *Deck, data *PresentationData) ([]Instruction, error) {
	var out []Instruction
	for _, s := range data.Slides {
		page, err := deck.page(s.ID)
		if err != nil {
			return nil, err
		}
		for _, pt := range placeholderTexts(s) {
			if len(pt.paragraphs) == 0 {
				continue
			}
			elementID, err := page.placeholder(pt.placeholder)
			if err != nil {
				return nil, err
			}
			layout, err := BuildTextLayout(pt.paragraphs)
			if err != nil {
				return nil, fmt.Errorf("slide %s: %w", s.ID, err)
			}
			out = append(out, TextInstructions(elementID, layout, g.style)...)
		}
	}
	return out, nil
}

func (g *Generator) apply(ctx context.Context, deckID string, instructions []Instruction) error {
	if len(instructions) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.backend.BatchApply(ctx, deckID, instructions)
}

// PresentationURL returns the edit URL of a Google Slides presentation.
func PresentationURL(id string) string {
	return "https://docs.google.com/presentation/d/" + id + "/edit"
}
