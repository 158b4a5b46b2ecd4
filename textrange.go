package md2slides

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

// StyleAttribute is one character attribute of a style span. Its value is the
// name of the field it writes in a partial text style update.
type StyleAttribute string

// Style attributes, in the order they are recorded for a run.
const (
	AttrBold          StyleAttribute = fieldBold
	AttrItalic        StyleAttribute = fieldItalic
	AttrStrikethrough StyleAttribute = fieldStrikethrough
	AttrCode          StyleAttribute = fieldFontFamily
	AttrLink          StyleAttribute = fieldLink
)

// StyleSpan is a range of the text buffer carrying one or more attributes.
type StyleSpan struct {
	Range      TextRange
	Attributes []StyleAttribute
	LinkURL    string
}

// BulletRange is a range of consecutive list item paragraphs.
type BulletRange struct {
	Range     TextRange
	IsOrdered bool
}

// TextLayout is the flattened text of one placeholder with its ranges.
// All offsets are UTF-16 code units into Text.
type TextLayout struct {
	Text        string
	Spans       []StyleSpan
	Blockquotes []TextRange
	Bullets     []BulletRange
}

// RenderStyle selects the concrete font and bullet presets used when a
// layout is turned into instructions.
type RenderStyle struct {
	CodeFont       string
	BulletPreset   string
	NumberedPreset string
}

// DefaultRenderStyle returns the style used when none is configured.
func DefaultRenderStyle() RenderStyle {
	return RenderStyle{
		CodeFont:       DefaultCodeFont,
		BulletPreset:   DefaultBulletPreset,
		NumberedPreset: DefaultNumberedPreset,
	}
}

// withDefaults fills empty fields from DefaultRenderStyle.
func (s RenderStyle) withDefaults() RenderStyle {
	d := DefaultRenderStyle()
	if s.CodeFont == "" {
		s.CodeFont = d.CodeFont
	}
	if s.BulletPreset == "" {
		s.BulletPreset = d.BulletPreset
	}
	if s.NumberedPreset == "" {
		s.NumberedPreset = d.NumberedPreset
	}
	return s
}

// textFold accumulates a TextLayout one paragraph at a time.
// A range whose End is 0 is still open.
type textFold struct {
	text        strings.Builder
	length      int
	spans       []StyleSpan
	blockquotes []TextRange
	bullets     []BulletRange
}

// BuildTextLayout flattens the paragraphs of one placeholder into a single
// text buffer and records style, blockquote and bullet ranges over it.
// Nil paragraphs are skipped.
func BuildTextLayout(paragraphs []*ParagraphData) (TextLayout, error) {
	f := &textFold{}
	first := true
	for _, p := range paragraphs {
		if p == nil {
			continue
		}
		if !first {
			f.write(paragraphBreak)
		}
		first = false
		if err := f.paragraph(p); err != nil {
			return TextLayout{}, err
		}
	}
	f.closeBullet()
	f.closeBlockquote()

	return TextLayout{
		Text:        f.text.String(),
		Spans:       f.spans,
		Blockquotes: f.blockquotes,
		Bullets:     f.bullets,
	}, nil
}

func (f *textFold) paragraph(p *ParagraphData) error {
	switch {
	case p.ListItem != nil:
		f.closeBlockquote()
		if n := len(f.bullets); n == 0 || f.bullets[n-1].Range.End != 0 {
			f.bullets = append(f.bullets, BulletRange{
				Range:     TextRange{Start: f.length},
				IsOrdered: p.ListItem.IsOrdered,
			})
		}
		f.write(strings.Repeat("\t", p.ListItem.Level+1))

	case p.IsBlockquote:
		f.closeBullet()
		opening, err := f.needsBlockquote()
		if err != nil {
			return err
		}
		if opening {
			f.blockquotes = append(f.blockquotes, TextRange{Start: f.length})
		}

	default:
		f.closeBullet()
		f.closeBlockquote()
	}

	for _, r := range p.Runs {
		start := f.length
		f.write(r.Text)
		if attrs := runAttributes(r); len(attrs) > 0 {
			f.spans = append(f.spans, StyleSpan{
				Range:      TextRange{Start: start, End: f.length},
				Attributes: attrs,
				LinkURL:    r.LinkURL,
			})
		}
	}
	return nil
}

// needsBlockquote reports whether a new blockquote range must be opened.
// The closed check reads the blockquote at the index of the last bullet
// range, not the last blockquote, so quotes interleaved with lists can
// extend an earlier range or fail with ErrBlockquoteRange.
func (f *textFold) needsBlockquote() (bool, error) {
	if len(f.blockquotes) == 0 {
		return true, nil
	}
	i := len(f.bullets) - 1
	if i < 0 || i >= len(f.blockquotes) {
		return false, fmt.Errorf("%w: index %d of %d blockquote ranges", ErrBlockquoteRange, i, len(f.blockquotes))
	}
	return f.blockquotes[i].End != 0, nil
}

func (f *textFold) closeBullet() {
	if n := len(f.bullets); n > 0 && f.bullets[n-1].Range.End == 0 {
		f.bullets[n-1].Range.End = f.length
	}
}

func (f *textFold) closeBlockquote() {
	if n := len(f.blockquotes); n > 0 && f.blockquotes[n-1].End == 0 {
		f.blockquotes[n-1].End = f.length
	}
}

func (f *textFold) write(s string) {
	f.text.WriteString(s)
	f.length += utf16Len(s)
}

// runAttributes lists the attributes a run contributes to its span.
func runAttributes(r RunData) []StyleAttribute {
	if !r.hasStyle() {
		return nil
	}
	attrs := make([]StyleAttribute, 0, 5)
	if r.IsBold {
		attrs = append(attrs, AttrBold)
	}
	if r.IsItalic {
		attrs = append(attrs, AttrItalic)
	}
	if r.IsStrikethrough {
		attrs = append(attrs, AttrStrikethrough)
	}
	if r.IsCode {
		attrs = append(attrs, AttrCode)
	}
	if r.LinkURL != "" {
		attrs = append(attrs, AttrLink)
	}
	return attrs
}

// utf16Len returns the length of s in UTF-16 code units.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// TextInstructions turns a layout into the instructions for the shape
// objectID: the text insert, one style update per span, an italic update per
// closed blockquote range, then bullets. Blockquotes and bullets are emitted from the
// highest start offset down, since bulleting consumes the leading tabs and
// shifts every offset after it. An empty layout yields no instructions.
func TextInstructions(objectID string, layout TextLayout, style RenderStyle) []Instruction {
	if layout.Text == "" {
		return nil
	}
	style = style.withDefaults()

	out := make([]Instruction, 0, 1+len(layout.Spans)+len(layout.Blockquotes)+len(layout.Bullets))
	out = append(out, Instruction{InsertText: &InsertText{ObjectID: objectID, Text: layout.Text}})

	for _, span := range layout.Spans {
		out = append(out, Instruction{UpdateTextStyle: &UpdateTextStyle{
			ObjectID: objectID,
			Range:    span.Range,
			Style:    spanStyle(span, style),
			Fields:   spanFields(span),
		}})
	}

	quotes := slices.Clone(layout.Blockquotes)
	slices.SortStableFunc(quotes, func(a, b TextRange) int { return cmp.Compare(b.Start, a.Start) })
	for _, r := range quotes {
		if r.End <= r.Start {
			// Left open by a layout quirk; the quote text stays upright.
			continue
		}
		out = append(out, Instruction{UpdateTextStyle: &UpdateTextStyle{
			ObjectID: objectID,
			Range:    r,
			Style:    TextStyle{Italic: true},
			Fields:   fieldItalic,
		}})
	}

	bullets := slices.Clone(layout.Bullets)
	slices.SortStableFunc(bullets, func(a, b BulletRange) int { return cmp.Compare(b.Range.Start, a.Range.Start) })
	for _, b := range bullets {
		preset := style.BulletPreset
		if b.IsOrdered {
			preset = style.NumberedPreset
		}
		out = append(out, Instruction{CreateParagraphBullets: &CreateParagraphBullets{
			ObjectID: objectID,
			Range:    b.Range,
			Preset:   preset,
		}})
	}

	return out
}

func spanStyle(span StyleSpan, style RenderStyle) TextStyle {
	var ts TextStyle
	for _, a := range span.Attributes {
		switch a {
		case AttrBold:
			ts.Bold = true
		case AttrItalic:
			ts.Italic = true
		case AttrStrikethrough:
			ts.Strikethrough = true
		case AttrCode:
			ts.FontFamily = style.CodeFont
		case AttrLink:
			ts.LinkURL = span.LinkURL
		}
	}
	return ts
}

func spanFields(span StyleSpan) string {
	fields := make([]string, len(span.Attributes))
	for i, a := range span.Attributes {
		fields[i] = string(a)
	}
	return strings.Join(fields, ",")
}
