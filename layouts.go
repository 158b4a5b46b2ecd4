package md2slides

// Placeholder types of the predefined layouts.
const (
	PlaceholderCenteredTitle = "CENTERED_TITLE"
	PlaceholderSubtitle      = "SUBTITLE"
	PlaceholderTitle         = "TITLE"
	PlaceholderBody          = "BODY"
)

// LayoutName returns the predefined layout a slide of kind k is created from.
func LayoutName(k SlideKind) string {
	switch k {
	case TitleSlide:
		return "TITLE"
	case SectionHeader:
		return "SECTION_HEADER"
	case SectionTitleAndDescription:
		return "SECTION_TITLE_AND_DESCRIPTION"
	case TitleAndBody:
		return "TITLE_AND_BODY"
	case TitleAndTwoColumns:
		return "TITLE_AND_TWO_COLUMNS"
	}
	return ""
}

// placeholderText is the content destined for one placeholder of a slide.
type placeholderText struct {
	placeholder string
	paragraphs  []*ParagraphData
}

// placeholderTexts lists what a slide writes into its placeholders.
// Section slides and two-column slides are created but left empty.
func placeholderTexts(s *SlideData) []placeholderText {
	switch s.Kind {
	case TitleSlide:
		return []placeholderText{
			{PlaceholderCenteredTitle, single(s.Title)},
			{PlaceholderSubtitle, single(s.Subtitle)},
		}
	case TitleAndBody:
		return []placeholderText{
			{PlaceholderTitle, single(s.Title)},
			{PlaceholderBody, s.Body},
		}
	case SectionHeader, SectionTitleAndDescription, TitleAndTwoColumns:
		// TODO: fill the section description and two-column bodies once the
		// assembler produces content for them.
		return nil
	}
	return nil
}

func single(p *ParagraphData) []*ParagraphData {
	if p == nil {
		return nil
	}
	return []*ParagraphData{p}
}
