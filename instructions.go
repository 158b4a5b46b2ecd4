package md2slides

// Instruction is one edit request sent to a Backend. Exactly one field is set.
type Instruction struct {
	CreateSlide            *CreateSlide
	DeleteObject           *DeleteObject
	InsertText             *InsertText
	UpdateTextStyle        *UpdateTextStyle
	CreateParagraphBullets *CreateParagraphBullets
}

// CreateSlide adds a slide with a caller-chosen ID using a layout of the deck.
type CreateSlide struct {
	ObjectID string
	LayoutID string
}

// DeleteObject removes a slide or page element.
type DeleteObject struct {
	ObjectID string
}

// InsertText inserts text at the start of a shape.
type InsertText struct {
	ObjectID string
	Text     string
}

// UpdateTextStyle applies Style to Range of a shape's text. Only the fields
// named in Fields are written; the rest keep their current value.
type UpdateTextStyle struct {
	ObjectID string
	Range    TextRange
	Style    TextStyle
	Fields   string
}

// CreateParagraphBullets turns the paragraphs overlapping Range into a list.
// Leading tabs of each paragraph set its nesting level and are consumed.
type CreateParagraphBullets struct {
	ObjectID string
	Range    TextRange
	Preset   string
}

// TextRange is a half-open [Start, End) range in UTF-16 code units.
type TextRange struct {
	Start int
	End   int
}

// TextStyle holds the character attributes the generator writes.
type TextStyle struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
	FontFamily    string
	LinkURL       string
}

// Field mask names understood by the backend.
const (
	fieldBold          = "bold"
	fieldItalic        = "italic"
	fieldStrikethrough = "strikethrough"
	fieldFontFamily    = "fontFamily"
	fieldLink          = "link"
)

// Bullet presets.
const (
	DefaultBulletPreset   = "BULLET_DISC_CIRCLE_SQUARE"
	DefaultNumberedPreset = "NUMBERED_DIGIT_ALPHA_ROMAN"
	DefaultCodeFont       = "Consolas"
)

func createSlide(id, layoutID string) Instruction {
	return Instruction{CreateSlide: &CreateSlide{ObjectID: id, LayoutID: layoutID}}
}

func deleteObject(id string) Instruction {
	return Instruction{DeleteObject: &DeleteObject{ObjectID: id}}
}
