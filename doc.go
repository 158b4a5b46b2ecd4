// Package md2slides converts GitHub-Flavored Markdown into Google Slides decks.
//
// # Quick Start
//
// Convert Markdown into an intermediate deck, then render it on a backend:
//
//	conv := md2slides.NewConverter()
//	data, err := conv.Convert(ctx, md2slides.Input{
//	    Markdown: "# Hello\n\n*World*",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if data == nil {
//	    log.Fatal("no heading, no slides")
//	}
//
//	gen, err := md2slides.NewGenerator(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	id, err := gen.Generate(ctx, data)
//	fmt.Println(md2slides.PresentationURL(id))
//
// The backend for Google Slides lives in internal/gslides and is wired by
// the md2slides command.
//
// # Conversion Pipeline
//
//  1. Markdown preprocessing (byte order mark, line endings)
//  2. Parsing via Goldmark into a flat node table with parent links
//  3. Slide assembly: headings start slides, emphasis-only paragraphs become
//     subtitles, everything else becomes body text, a thematic break ends
//     the deck
//  4. Text layout: each placeholder's paragraphs are flattened into one text
//     buffer with style, blockquote and bullet ranges
//  5. Rendering in two batches: create slides, then fill placeholders
//
// # Slide Kinds
//
// A level 1 heading starts a TitleSlide, level 2 a SectionHeader, and any
// deeper level a TitleAndBody slide. Body text on a slide that cannot hold
// it moves to a new TitleAndBody slide carrying the same title.
//
// # Error Handling
//
// Conversion errors (ErrUnsupportedBlockKind, ErrUnsupportedInlineKind)
// abort the whole conversion. Rendering errors (ErrMissingLayout,
// ErrMissingPlaceholder, ErrMissingSlide, ErrBackendCommunication) abort
// the remaining batches; batches already applied are not rolled back.
// Use errors.Is to classify them.
package md2slides
