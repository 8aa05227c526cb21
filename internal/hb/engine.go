package hb

// Engine is the pluggable shaping backend. Production code uses the
// go-text/typesetting HarfBuzz port (see gotext.go); tests substitute an
// instrumented fake. The engine is an opaque collaborator: this package
// never inspects font binaries or shaping results beyond copying them.
type Engine interface {
	// ParseFace parses one font of a font binary. A parse failure is not
	// surfaced to clients; NewFace degrades to the empty face instead.
	ParseFace(data []byte, index uint32) (FaceSource, error)
	// CountFaces returns the number of fonts in a font binary
	// (1 for plain font files, n for collections, 0 for garbage).
	CountFaces(data []byte) int
}

// FaceSource is the engine-side view of one parsed, immutable face.
type FaceSource interface {
	Upem() uint32
	GlyphCount() int
	// NewFontSource instantiates per-font mutable engine state
	// (variation coordinates, metric caches) for this face.
	NewFontSource() FontSource
}

// FontSource provides default glyph metrics and the shaping computation for
// one Font. Advances and extents are reported in unscaled design units;
// the Font applies its scale. Implementations must be safe for concurrent
// queries, as the wrapping Font may be shared across goroutines.
type FontSource interface {
	NominalGlyph(r rune) (Glyph, bool)
	VariationGlyph(r, vs rune) (Glyph, bool)
	HAdvance(g Glyph) float32
	VAdvance(g Glyph) float32
	GlyphExtents(g Glyph) (x, y, w, h float32, ok bool)
	FontExtents(vertical bool) (ascender, descender, lineGap float32, ok bool)
	GlyphName(g Glyph) (string, bool)
	GlyphFromName(name string) (Glyph, bool)
	SetVariations(vars []Variation)

	// Shape maps the buffer's codepoints to positioned glyphs, writing
	// the result back into the buffer's info/pos arrays. The buffer is
	// guaranteed to be in Unicode content state with resolved segment
	// properties; font carries scale and ppem.
	Shape(font *Font, buf *Buffer, features []Feature)
}
