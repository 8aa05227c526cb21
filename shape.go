package hbshape

import "github.com/npillmayer/hbshape/internal/hb"

// Shape shapes the text in buffer with font and returns the positioned
// glyphs. The UnicodeBuffer is consumed: its allocation moves into the
// returned [GlyphBuffer], and further use of it panics. Recycle with
// [GlyphBuffer.Clear].
//
// Unset segment properties are guessed from the content. Shaping never
// fails: an empty buffer yields an empty glyph run, and codepoints without
// a glyph come back as .notdef (glyph 0).
func Shape(font *Font, buffer *UnicodeBuffer, features []Feature) *GlyphBuffer {
	raw := buffer.guard()
	buffer.spent = true
	tracer().Debugf("shaping %d codepoints with %d feature settings", len(raw.Info), len(features))
	hb.Shape(font.raw, raw, features)
	return &GlyphBuffer{raw: raw}
}
