package hbshape

import "github.com/npillmayer/hbshape/internal/hb"

// Font is a shaping font: a [Face] plus scale, pixels-per-EM, variation
// settings and optional metric overrides (see [FontFuncs]). Fonts form
// parent chains; a sub-font inherits every metric it does not override,
// rescaled into its own coordinate space.
//
// The default scale of a new font is the face's UPEM, so positions come out
// in design units until the caller sets a scale.
type Font struct {
	raw *hb.Font
}

// Reference adds a reference count. Prefer [Shared] handles.
func (f *Font) Reference() { f.raw.Reference() }

// Dereference drops a reference count. Prefer [Shared] handles.
func (f *Font) Dereference() { f.raw.Dereference() }

// NewFont creates a font over face. The face is referenced and frozen.
func NewFont(face *Face) Owned[*Font] {
	return NewOwned(&Font{raw: hb.NewFont(face.raw)})
}

// NewEmptyFont returns a font over the empty face. Metric queries return
// zeroes and shaping yields .notdef runs.
func NewEmptyFont() Owned[*Font] {
	face := NewEmptyFace()
	defer face.Release()
	return NewFont(face.Get())
}

// NewSubFont creates a font inheriting from parent. The parent is
// referenced and frozen.
func NewSubFont(parent *Font) Owned[*Font] {
	return NewOwned(&Font{raw: hb.NewSubFont(parent.raw)})
}

// FontFace returns the font's face with its own reference.
func (f *Font) FontFace() Shared[*Face] {
	f.raw.Face().Reference()
	return NewShared(&Face{raw: f.raw.Face()})
}

// Parent returns the parent font with its own reference, with ok false for
// a root font.
func (f *Font) Parent() (Shared[*Font], bool) {
	p := f.raw.Parent()
	if p == nil {
		return Shared[*Font]{}, false
	}
	p.Reference()
	return NewShared(&Font{raw: p}), true
}

// Scale returns the horizontal and vertical scale in font space units.
func (f *Font) Scale() (x, y Position) { return f.raw.Scale() }

// SetScale sets the scale. No-op on immutable fonts.
func (f *Font) SetScale(x, y Position) { f.raw.SetScale(x, y) }

// Ppem returns the pixels-per-EM hinting values, 0 meaning unset.
func (f *Font) Ppem() (x, y uint32) { return f.raw.Ppem() }

// SetPpem sets the pixels-per-EM values. No-op on immutable fonts.
func (f *Font) SetPpem(x, y uint32) { f.raw.SetPpem(x, y) }

// Ptem returns the point size, 0 meaning unset.
func (f *Font) Ptem() float32 { return f.raw.Ptem() }

// SetPtem sets the point size. No-op on immutable fonts.
func (f *Font) SetPtem(ptem float32) { f.raw.SetPtem(ptem) }

// SetVariations applies variable-font axis settings in design units.
// Unknown axes are ignored. No-op on immutable fonts.
func (f *Font) SetVariations(vars []Variation) { f.raw.SetVariations(vars) }

// Variations returns a copy of the applied variation settings.
func (f *Font) Variations() []Variation { return f.raw.Variations() }

// MakeImmutable freezes the font. Creating a sub-font freezes the parent.
func (f *Font) MakeImmutable() { f.raw.MakeImmutable() }

// IsImmutable reports whether the font has been frozen.
func (f *Font) IsImmutable() bool { return f.raw.IsImmutable() }

// Refcount exposes the current reference count, mainly for tests.
func (f *Font) Refcount() int { return f.raw.Refcount() }

// NominalGlyph looks up the glyph for a codepoint.
func (f *Font) NominalGlyph(r rune) (Glyph, bool) { return f.raw.NominalGlyph(r) }

// VariationGlyph looks up the glyph for a codepoint under a variation
// selector.
func (f *Font) VariationGlyph(r, vs rune) (Glyph, bool) { return f.raw.VariationGlyph(r, vs) }

// GlyphHAdvance returns the horizontal advance of a glyph in font space.
func (f *Font) GlyphHAdvance(g Glyph) Position { return f.raw.GlyphHAdvance(g) }

// GlyphVAdvance returns the vertical advance of a glyph in font space.
// Vertical advances are negative.
func (f *Font) GlyphVAdvance(g Glyph) Position { return f.raw.GlyphVAdvance(g) }

// GlyphHOrigin returns the origin of a glyph for horizontal layout,
// (0, 0) unless overridden through [FontFuncs].
func (f *Font) GlyphHOrigin(g Glyph) (x, y Position, ok bool) { return f.raw.GlyphHOrigin(g) }

// GlyphVOrigin returns the origin of a glyph for vertical layout. Fails
// unless a [FontFuncs] callback provides one.
func (f *Font) GlyphVOrigin(g Glyph) (x, y Position, ok bool) { return f.raw.GlyphVOrigin(g) }

// GlyphContourPoint returns an outline point of a glyph. Fails unless a
// [FontFuncs] callback provides it.
func (f *Font) GlyphContourPoint(g Glyph, pointIndex uint32) (x, y Position, ok bool) {
	return f.raw.GlyphContourPoint(g, pointIndex)
}

// GlyphExtents returns the ink extents of a glyph in font space.
func (f *Font) GlyphExtents(g Glyph) (GlyphExtents, bool) { return f.raw.GlyphExtents(g) }

// HExtents returns the font-wide metrics for horizontal layout.
func (f *Font) HExtents() (FontExtents, bool) { return f.raw.FontExtents(false) }

// VExtents returns the font-wide metrics for vertical layout.
func (f *Font) VExtents() (FontExtents, bool) { return f.raw.FontExtents(true) }

// GlyphName returns the name of a glyph, if one is known.
func (f *Font) GlyphName(g Glyph) (string, bool) { return f.raw.GlyphName(g) }

// GlyphFromName resolves a glyph name back to a glyph id.
func (f *Font) GlyphFromName(name string) (Glyph, bool) { return f.raw.GlyphFromName(name) }

// SetFontUserData attaches a typed value to the font under key. destroy, if
// non-nil, runs exactly once: on replacement, removal, or font destruction.
func SetFontUserData[T any](f *Font, key *UserDataKey, value T, destroy func(T)) {
	f.raw.SetUserData(key, value, eraseDestroy(destroy))
}

// FontUserData returns the value stored under key, with ok false when the
// slot is empty or holds a value of a different type.
func FontUserData[T any](f *Font, key *UserDataKey) (T, bool) {
	v, ok := f.raw.UserData(key).(T)
	return v, ok
}

// RemoveFontUserData removes key's value, running its destructor.
func RemoveFontUserData(f *Font, key *UserDataKey) {
	f.raw.RemoveUserData(key)
}
