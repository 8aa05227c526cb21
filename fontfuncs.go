package hbshape

import "github.com/npillmayer/hbshape/internal/hb"

// FontFuncs is a set of optional metric callbacks installed on a [Font]
// with [Font.SetFuncs]. A nil field means "not overridden": the query falls
// through to the font's parent and finally to the engine defaults.
//
// Callbacks work in the font's scaled coordinate space. The font handle
// they receive is borrowed and only valid for the duration of the call;
// callbacks must not release it or stash it away.
type FontFuncs struct {
	NominalGlyph      func(font *Font, data any, r rune) (Glyph, bool)
	VariationGlyph    func(font *Font, data any, r, vs rune) (Glyph, bool)
	GlyphHAdvance     func(font *Font, data any, g Glyph) Position
	GlyphVAdvance     func(font *Font, data any, g Glyph) Position
	GlyphHOrigin      func(font *Font, data any, g Glyph) (x, y Position, ok bool)
	GlyphVOrigin      func(font *Font, data any, g Glyph) (x, y Position, ok bool)
	GlyphExtents      func(font *Font, data any, g Glyph) (GlyphExtents, bool)
	GlyphContourPoint func(font *Font, data any, g Glyph, pointIndex uint32) (x, y Position, ok bool)
	FontExtents       func(font *Font, data any, vertical bool) (FontExtents, bool)
	GlyphName         func(font *Font, data any, g Glyph) (string, bool)
	GlyphFromName     func(font *Font, data any, name string) (Glyph, bool)
}

// SetFuncs installs metric callbacks together with a closure payload.
// destroy, if non-nil, runs exactly once: when the callbacks are replaced
// by a later SetFuncs or when the font is destroyed. Replacing callbacks
// runs the previous destructor immediately. No-op on immutable fonts,
// except that destroy still runs.
func (f *Font) SetFuncs(funcs FontFuncs, data any, destroy func(any)) {
	table := &hb.FuncsTable{Data: data, Destroy: destroy}
	if fn := funcs.NominalGlyph; fn != nil {
		table.NominalGlyph = func(raw *hb.Font, d any, r rune) (Glyph, bool) {
			return fn(&Font{raw: raw}, d, r)
		}
	}
	if fn := funcs.VariationGlyph; fn != nil {
		table.VariationGlyph = func(raw *hb.Font, d any, r, vs rune) (Glyph, bool) {
			return fn(&Font{raw: raw}, d, r, vs)
		}
	}
	if fn := funcs.GlyphHAdvance; fn != nil {
		table.HAdvance = func(raw *hb.Font, d any, g Glyph) Position {
			return fn(&Font{raw: raw}, d, g)
		}
	}
	if fn := funcs.GlyphVAdvance; fn != nil {
		table.VAdvance = func(raw *hb.Font, d any, g Glyph) Position {
			return fn(&Font{raw: raw}, d, g)
		}
	}
	if fn := funcs.GlyphHOrigin; fn != nil {
		table.HOrigin = func(raw *hb.Font, d any, g Glyph) (x, y Position, ok bool) {
			return fn(&Font{raw: raw}, d, g)
		}
	}
	if fn := funcs.GlyphVOrigin; fn != nil {
		table.VOrigin = func(raw *hb.Font, d any, g Glyph) (x, y Position, ok bool) {
			return fn(&Font{raw: raw}, d, g)
		}
	}
	if fn := funcs.GlyphContourPoint; fn != nil {
		table.GlyphContourPoint = func(raw *hb.Font, d any, g Glyph, pointIndex uint32) (x, y Position, ok bool) {
			return fn(&Font{raw: raw}, d, g, pointIndex)
		}
	}
	if fn := funcs.GlyphExtents; fn != nil {
		table.GlyphExtents = func(raw *hb.Font, d any, g Glyph) (GlyphExtents, bool) {
			return fn(&Font{raw: raw}, d, g)
		}
	}
	if fn := funcs.FontExtents; fn != nil {
		table.FontExtents = func(raw *hb.Font, d any, vertical bool) (FontExtents, bool) {
			return fn(&Font{raw: raw}, d, vertical)
		}
	}
	if fn := funcs.GlyphName; fn != nil {
		table.GlyphName = func(raw *hb.Font, d any, g Glyph) (string, bool) {
			return fn(&Font{raw: raw}, d, g)
		}
	}
	if fn := funcs.GlyphFromName; fn != nil {
		table.GlyphFromName = func(raw *hb.Font, d any, name string) (Glyph, bool) {
			return fn(&Font{raw: raw}, d, name)
		}
	}
	f.raw.SetFuncs(table)
}
