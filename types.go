package md2slides

import (
	"fmt"
	"strings"
)

// SlideKind is the layout role assigned to a slide.
type SlideKind int

// Slide kinds. TitleAndTwoColumns has a layout and a render branch but the
// assembler never produces it.
const (
	TitleSlide SlideKind = iota
	SectionHeader
	SectionTitleAndDescription
	TitleAndBody
	TitleAndTwoColumns
)

var slideKindNames = [...]string{
	TitleSlide:                 "TitleSlide",
	SectionHeader:              "SectionHeader",
	SectionTitleAndDescription: "SectionTitleAndDescription",
	TitleAndBody:               "TitleAndBody",
	TitleAndTwoColumns:         "TitleAndTwoColumns",
}

func (k SlideKind) String() string {
	if k < 0 || int(k) >= len(slideKindNames) {
		return fmt.Sprintf("SlideKind(%d)", int(k))
	}
	return slideKindNames[k]
}

// MarshalText lets YAML and JSON encoders print the kind by name.
func (k SlideKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(slideKindNames) {
		return nil, fmt.Errorf("unknown slide kind %d", int(k))
	}
	return []byte(slideKindNames[k]), nil
}

// canHostBody reports whether body paragraphs can be placed on a slide of this kind.
func (k SlideKind) canHostBody() bool {
	switch k {
	case SectionTitleAndDescription, TitleAndBody, TitleAndTwoColumns:
		return true
	}
	return false
}

// PresentationData describes a whole deck. It is produced once per
// conversion and not modified by the generator.
type PresentationData struct {
	ID            string       `yaml:"id,omitempty"`  // existing presentation to update (empty = create)
	Title         string       `yaml:"title"`         // used only when creating
	Slides        []*SlideData `yaml:"slides"`        // document order
	EraseExisting bool         `yaml:"eraseExisting"` // delete pre-existing slides first
}

// SlideData describes one slide. ID is opaque and unique within a conversion.
type SlideData struct {
	ID       string           `yaml:"id"`
	Kind     SlideKind        `yaml:"kind"`
	Title    *ParagraphData   `yaml:"title,omitempty"`
	Subtitle *ParagraphData   `yaml:"subtitle,omitempty"`
	Body     []*ParagraphData `yaml:"body,omitempty"`
}

// ParagraphData is one paragraph of slide text.
type ParagraphData struct {
	Runs         []RunData     `yaml:"runs"`
	ListItem     *ListItemData `yaml:"listItem,omitempty"`
	IsBlockquote bool          `yaml:"isBlockquote,omitempty"`
}

// Text returns the concatenated text of all runs.
func (p *ParagraphData) Text() string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// clone returns a deep copy so slides never share paragraph storage.
func (p *ParagraphData) clone() *ParagraphData {
	if p == nil {
		return nil
	}
	c := *p
	c.Runs = append([]RunData(nil), p.Runs...)
	if p.ListItem != nil {
		item := *p.ListItem
		c.ListItem = &item
	}
	return &c
}

// RunData is a span of text sharing one style and link.
type RunData struct {
	Text            string `yaml:"text"`
	IsBold          bool   `yaml:"isBold,omitempty"`
	IsItalic        bool   `yaml:"isItalic,omitempty"`
	IsStrikethrough bool   `yaml:"isStrikethrough,omitempty"`
	IsCode          bool   `yaml:"isCode,omitempty"`
	LinkURL         string `yaml:"linkUrl,omitempty"`
}

// sameStyle reports whether two runs share the (bold, italic, strikethrough,
// code, link) signature and must therefore be a single run.
func (r RunData) sameStyle(o RunData) bool {
	return r.IsBold == o.IsBold &&
		r.IsItalic == o.IsItalic &&
		r.IsStrikethrough == o.IsStrikethrough &&
		r.IsCode == o.IsCode &&
		r.LinkURL == o.LinkURL
}

// hasStyle reports whether the run carries any non-default attribute.
func (r RunData) hasStyle() bool {
	return r.IsBold || r.IsItalic || r.IsStrikethrough || r.IsCode || r.LinkURL != ""
}

// ListItemData marks a paragraph as a list item. Level 0 is the outermost list.
type ListItemData struct {
	IsOrdered bool `yaml:"isOrdered"`
	Level     int  `yaml:"level"`
}
