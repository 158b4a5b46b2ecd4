package md2slides

import (
	"fmt"

	"github.com/alnah/go-md2slides/internal/pipeline"
)

// assemblyPhase tags the state of the slide state machine.
type assemblyPhase int

const (
	// phaseSeekHeading discards blocks until the first heading.
	phaseSeekHeading assemblyPhase = iota
	// phaseBuilding has a slide under construction.
	phaseBuilding
	// phaseDone ignores everything after a thematic break.
	phaseDone
)

// assemblyState is the state between two blocks. slide is set only while
// phase is phaseBuilding.
type assemblyState struct {
	phase assemblyPhase
	slide *SlideData
}

// assembler groups leaf blocks into slides.
type assembler struct {
	tree  *pipeline.Tree
	newID func() string
}

// assemble runs the state machine over every leaf block and returns the
// slides in document order. A document without headings yields no slides.
func (a *assembler) assemble() ([]*SlideData, error) {
	var slides []*SlideData
	state := assemblyState{phase: phaseSeekHeading}

	for _, block := range a.tree.LeafBlocks() {
		next, finished, err := a.step(state, block)
		if err != nil {
			return nil, err
		}
		if finished != nil {
			slides = append(slides, finished)
		}
		state = next
		if state.phase == phaseDone {
			break
		}
	}

	if state.phase == phaseBuilding {
		slides = append(slides, state.slide)
	}
	return slides, nil
}

// step applies one block to the state. It returns the next state and, when
// the block closes the slide under construction, that finished slide.
func (a *assembler) step(state assemblyState, block pipeline.NodeID) (assemblyState, *SlideData, error) {
	n := a.tree.Node(block)

	switch state.phase {
	case phaseDone:
		return state, nil, nil
	case phaseSeekHeading:
		if n.Kind != pipeline.KindHeading {
			return state, nil, nil
		}
	}

	switch n.Kind {
	case pipeline.KindHeading:
		title, err := paragraphFromBlock(a.tree, block)
		if err != nil {
			return state, nil, err
		}
		slide := &SlideData{
			ID:    a.newID(),
			Kind:  kindForHeading(n.Level),
			Title: title,
		}
		return assemblyState{phase: phaseBuilding, slide: slide}, state.slide, nil

	case pipeline.KindParagraph, pipeline.KindTextBlock, pipeline.KindTableCell:
		if bold, ok := a.subtitleEmphasis(state.slide, block); ok {
			return a.addSubtitle(state, block, bold)
		}
		return a.addBody(state, block)

	case pipeline.KindCodeBlock:
		return a.addBody(state, block)

	case pipeline.KindThematicBreak:
		return assemblyState{phase: phaseDone}, state.slide, nil

	case pipeline.KindHTMLBlock:
		// Raw HTML has no slide representation.
		return state, nil, nil

	default:
		// Link reference definitions never reach here: the parser adapter
		// drops the empty paragraph goldmark leaves in their place.
		return state, nil, fmt.Errorf("%w: %s", ErrUnsupportedBlockKind, n.Name)
	}
}

// subtitleEmphasis reports whether block is a subtitle for slide: the slide
// has no body yet, is a title or section header, and the paragraph is a
// single emphasis span that is purely bold or purely italic. bold tells
// which of the two matched.
func (a *assembler) subtitleEmphasis(slide *SlideData, block pipeline.NodeID) (bold, ok bool) {
	if slide.Body != nil || (slide.Kind != TitleSlide && slide.Kind != SectionHeader) {
		return false, false
	}

	children := a.tree.Node(block).Children
	if len(children) != 1 {
		return false, false
	}
	emphasis := a.tree.Node(children[0])
	if emphasis.Kind != pipeline.KindEmphasis {
		return false, false
	}
	switch emphasis.Level {
	case 1:
		return false, true
	case 2:
		return true, true
	}
	return false, false
}

// addSubtitle sets the slide subtitle. The emphasis that marked the
// paragraph as a subtitle is structural, so its flag is removed from every run.
func (a *assembler) addSubtitle(state assemblyState, block pipeline.NodeID, bold bool) (assemblyState, *SlideData, error) {
	subtitle, err := paragraphFromBlock(a.tree, block)
	if err != nil {
		return state, nil, err
	}
	for i := range subtitle.Runs {
		if bold {
			subtitle.Runs[i].IsBold = false
		} else {
			subtitle.Runs[i].IsItalic = false
		}
	}
	subtitle.Runs = mergeRuns(subtitle.Runs)

	slide := state.slide
	if slide.Kind == SectionHeader {
		slide.Kind = SectionTitleAndDescription
	}
	slide.Subtitle = subtitle
	return state, nil, nil
}

// addBody appends block to the body of the current slide, first moving to a
// fresh TitleAndBody slide with the same title when the current kind has
// nowhere to put body text.
func (a *assembler) addBody(state assemblyState, block pipeline.NodeID) (assemblyState, *SlideData, error) {
	paragraph, err := paragraphFromBlock(a.tree, block)
	if err != nil {
		return state, nil, err
	}

	var finished *SlideData
	slide := state.slide
	if slide.Kind == SectionHeader {
		slide.Kind = SectionTitleAndDescription
	}
	if !slide.Kind.canHostBody() {
		finished = slide
		slide = &SlideData{
			ID:    a.newID(),
			Kind:  TitleAndBody,
			Title: slide.Title.clone(),
		}
	}

	slide.Body = append(slide.Body, paragraph)
	return assemblyState{phase: phaseBuilding, slide: slide}, finished, nil
}

// kindForHeading maps a heading level to the slide kind it starts.
func kindForHeading(level int) SlideKind {
	switch level {
	case 1:
		return TitleSlide
	case 2:
		return SectionHeader
	default:
		return TitleAndBody
	}
}

// presentationTitle returns the text of the first slide with a non-empty title.
func presentationTitle(slides []*SlideData) string {
	for _, s := range slides {
		if t := s.Title.Text(); t != "" {
			return t
		}
	}
	return ""
}
