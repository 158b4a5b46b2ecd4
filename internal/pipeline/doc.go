// Package pipeline turns Markdown text into an arena-allocated document tree.
//
// This package handles the front of the slide pipeline:
//   - Markdown preprocessing (byte order mark, line endings)
//   - GFM parsing via Goldmark (linkify, double-tilde strikethrough, pipe tables, emoji shortcodes)
//   - Flattening the Goldmark AST into a Tree whose nodes refer to their parents
//     by index and carry decoded text
//
// Slide assembly and instruction generation live in the root md2slides
// package. This separation keeps parser specifics (node types, source
// segments, entity decoding) out of the slide state machine.
package pipeline
