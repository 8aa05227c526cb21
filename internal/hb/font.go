package hb

import (
	"math"
	"sync"
)

// FuncsTable carries client-supplied metric callbacks for one font, together
// with a closure payload and its destructor. A nil callback field means "not
// overridden": the query falls through to the font's parent, and finally to
// the engine defaults of the underlying face.
//
// Callbacks operate in the font's scaled coordinate space and receive the
// font they were installed on. The font handle passed in is only valid for
// the duration of the call.
type FuncsTable struct {
	Data    any
	Destroy func(any)

	NominalGlyph      func(font *Font, data any, r rune) (Glyph, bool)
	VariationGlyph    func(font *Font, data any, r, vs rune) (Glyph, bool)
	HAdvance          func(font *Font, data any, g Glyph) Position
	VAdvance          func(font *Font, data any, g Glyph) Position
	HOrigin           func(font *Font, data any, g Glyph) (x, y Position, ok bool)
	VOrigin           func(font *Font, data any, g Glyph) (x, y Position, ok bool)
	GlyphExtents      func(font *Font, data any, g Glyph) (GlyphExtents, bool)
	GlyphContourPoint func(font *Font, data any, g Glyph, pointIndex uint32) (x, y Position, ok bool)
	FontExtents       func(font *Font, data any, vertical bool) (FontExtents, bool)
	GlyphName         func(font *Font, data any, g Glyph) (string, bool)
	GlyphFromName     func(font *Font, data any, name string) (Glyph, bool)
}

func (ft *FuncsTable) runDestroy() {
	if ft != nil && ft.Destroy != nil {
		ft.Destroy(ft.Data)
		ft.Destroy = nil
	}
}

// Font is a refcounted shaping font: a face plus scale, ppem, variation
// coordinates and optional metric overrides. Fonts form parent chains;
// sub-fonts inherit every metric they do not override, rescaled from the
// parent's coordinate space into their own.
type Font struct {
	refcount
	face   *Face
	parent *Font      // nil for a root font
	src    FontSource // nil for fonts over the empty face

	mu        sync.Mutex
	immutable bool
	xScale    Position
	yScale    Position
	xPpem     uint32
	yPpem     uint32
	ptem      float32
	vars      []Variation
	funcs     *FuncsTable
	userData  userDataStore
}

// NewFont creates a font over face with the default scale, which is the
// face's UPEM in both dimensions. The face is referenced and frozen.
func NewFont(face *Face) *Font {
	face.Reference()
	face.MakeImmutable()
	f := &Font{
		face:   face,
		xScale: Position(face.Upem()),
		yScale: Position(face.Upem()),
	}
	f.refcount.init()
	if face.src != nil {
		f.src = face.src.NewFontSource()
	}
	return f
}

// NewSubFont creates a font whose parent is parent, inheriting its face,
// scale, ppem and variations. The parent is referenced and frozen.
func NewSubFont(parent *Font) *Font {
	parent.Reference()
	parent.MakeImmutable()
	parent.mu.Lock()
	f := &Font{
		face:   parent.face,
		parent: parent,
		xScale: parent.xScale,
		yScale: parent.yScale,
		xPpem:  parent.xPpem,
		yPpem:  parent.yPpem,
		ptem:   parent.ptem,
	}
	vars := append([]Variation(nil), parent.vars...)
	parent.mu.Unlock()
	f.refcount.init()
	f.face.Reference()
	if f.face.src != nil {
		f.src = f.face.src.NewFontSource()
	}
	if len(vars) > 0 {
		f.SetVariations(vars)
	}
	return f
}

// Reference increments the font's reference count.
func (f *Font) Reference() { f.refcount.ref() }

// Dereference decrements the reference count and destroys the font when it
// reaches zero: the funcs destructor and all user-data destructors run, then
// the parent and face references are dropped.
func (f *Font) Dereference() {
	if !f.refcount.unref() {
		return
	}
	f.funcs.runDestroy()
	f.userData.destroyAll()
	if f.parent != nil {
		f.parent.Dereference()
	}
	f.face.Dereference()
}

// Face returns the font's face, borrowed. Callers that keep it must
// reference it themselves.
func (f *Font) Face() *Face { return f.face }

// Parent returns the font's parent, borrowed, or nil for a root font.
func (f *Font) Parent() *Font { return f.parent }

// Scale returns the horizontal and vertical scale in font space units.
func (f *Font) Scale() (x, y Position) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.xScale, f.yScale
}

// SetScale sets the scale. No-op on immutable fonts.
func (f *Font) SetScale(x, y Position) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.immutable {
		return
	}
	f.xScale, f.yScale = x, y
}

// Ppem returns the pixels-per-EM hinting values, 0 meaning unset.
func (f *Font) Ppem() (x, y uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.xPpem, f.yPpem
}

// SetPpem sets the pixels-per-EM values. No-op on immutable fonts.
func (f *Font) SetPpem(x, y uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.immutable {
		return
	}
	f.xPpem, f.yPpem = x, y
}

// Ptem returns the point size, 0 meaning unset.
func (f *Font) Ptem() float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ptem
}

// SetPtem sets the point size. No-op on immutable fonts.
func (f *Font) SetPtem(ptem float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.immutable {
		return
	}
	f.ptem = ptem
}

// SetVariations applies variation axis settings in design space. Unknown
// axes are ignored by the engine. No-op on immutable fonts.
func (f *Font) SetVariations(vars []Variation) {
	f.mu.Lock()
	if f.immutable {
		f.mu.Unlock()
		return
	}
	f.vars = append(f.vars[:0], vars...)
	f.mu.Unlock()
	if f.src != nil {
		f.src.SetVariations(vars)
	}
}

// Variations returns a copy of the currently applied variation settings.
func (f *Font) Variations() []Variation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Variation(nil), f.vars...)
}

// SetFuncs installs metric callbacks, replacing any previous table. The old
// table's destructor runs immediately; the new one runs when the table is
// replaced again or the font is destroyed. No-op on immutable fonts, except
// that the rejected table's destructor still runs.
func (f *Font) SetFuncs(funcs *FuncsTable) {
	f.mu.Lock()
	if f.immutable {
		f.mu.Unlock()
		funcs.runDestroy()
		return
	}
	old := f.funcs
	f.funcs = funcs
	f.mu.Unlock()
	old.runDestroy()
}

// MakeImmutable freezes the font's scale, ppem, variations and funcs.
// Creating a sub-font freezes the parent.
func (f *Font) MakeImmutable() {
	f.mu.Lock()
	f.immutable = true
	f.mu.Unlock()
}

// IsImmutable reports whether the font has been frozen.
func (f *Font) IsImmutable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.immutable
}

// SetUserData attaches value under key. destroy, if non-nil, runs exactly
// once: on replacement, removal, or font destruction.
func (f *Font) SetUserData(key *UserDataKey, value any, destroy func(any)) {
	f.userData.set(key, value, destroy)
}

// UserData returns the value stored under key, or nil.
func (f *Font) UserData(key *UserDataKey) any {
	return f.userData.get(key)
}

// RemoveUserData removes key's value, running its destructor.
func (f *Font) RemoveUserData(key *UserDataKey) {
	f.userData.remove(key)
}

func (f *Font) funcsTable() *FuncsTable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.funcs
}

// parentScaleX rescales a horizontal distance from the parent's coordinate
// space into this font's.
func (f *Font) parentScaleX(v Position) Position {
	px, _ := f.parent.Scale()
	if px == 0 {
		return v
	}
	x, _ := f.Scale()
	return Position(int64(v) * int64(x) / int64(px))
}

// parentScaleY rescales a vertical distance from the parent's space.
func (f *Font) parentScaleY(v Position) Position {
	_, py := f.parent.Scale()
	if py == 0 {
		return v
	}
	_, y := f.Scale()
	return Position(int64(v) * int64(y) / int64(py))
}

// emScaleX converts a horizontal design-unit value to font space.
func (f *Font) emScaleX(v float32) Position {
	x, _ := f.Scale()
	return Position(math.Round(float64(v) * float64(x) / float64(f.face.Upem())))
}

// emScaleY converts a vertical design-unit value to font space.
func (f *Font) emScaleY(v float32) Position {
	_, y := f.Scale()
	return Position(math.Round(float64(v) * float64(y) / float64(f.face.Upem())))
}

// NominalGlyph looks up the glyph for a Unicode codepoint: installed funcs
// first, then the parent chain, then the engine. The empty face maps every
// codepoint to no glyph.
func (f *Font) NominalGlyph(r rune) (Glyph, bool) {
	if ft := f.funcsTable(); ft != nil && ft.NominalGlyph != nil {
		return ft.NominalGlyph(f, ft.Data, r)
	}
	if f.parent != nil {
		return f.parent.NominalGlyph(r)
	}
	if f.src == nil {
		return 0, false
	}
	return f.src.NominalGlyph(r)
}

// VariationGlyph looks up the glyph for a codepoint under a variation
// selector, with the same resolution chain as NominalGlyph.
func (f *Font) VariationGlyph(r, vs rune) (Glyph, bool) {
	if ft := f.funcsTable(); ft != nil && ft.VariationGlyph != nil {
		return ft.VariationGlyph(f, ft.Data, r, vs)
	}
	if f.parent != nil {
		return f.parent.VariationGlyph(r, vs)
	}
	if f.src == nil {
		return 0, false
	}
	return f.src.VariationGlyph(r, vs)
}

// GlyphHAdvance returns the horizontal advance of glyph g in font space.
// Parent results are rescaled from the parent's scale into this font's.
func (f *Font) GlyphHAdvance(g Glyph) Position {
	if ft := f.funcsTable(); ft != nil && ft.HAdvance != nil {
		return ft.HAdvance(f, ft.Data, g)
	}
	if f.parent != nil {
		return f.parentScaleX(f.parent.GlyphHAdvance(g))
	}
	return f.defaultGlyphHAdvance(g)
}

// GlyphVAdvance returns the vertical advance of glyph g in font space.
func (f *Font) GlyphVAdvance(g Glyph) Position {
	if ft := f.funcsTable(); ft != nil && ft.VAdvance != nil {
		return ft.VAdvance(f, ft.Data, g)
	}
	if f.parent != nil {
		return f.parentScaleY(f.parent.GlyphVAdvance(g))
	}
	return f.defaultGlyphVAdvance(g)
}

// defaultGlyphHAdvance is the engine-provided advance, ignoring funcs
// overrides along the whole chain. The shaping driver uses it to separate
// client advance overrides from positioning deltas.
func (f *Font) defaultGlyphHAdvance(g Glyph) Position {
	if f.src == nil {
		if f.parent != nil {
			return f.parentScaleX(f.parent.defaultGlyphHAdvance(g))
		}
		return 0
	}
	return f.emScaleX(f.src.HAdvance(g))
}

func (f *Font) defaultGlyphVAdvance(g Glyph) Position {
	if f.src == nil {
		if f.parent != nil {
			return f.parentScaleY(f.parent.defaultGlyphVAdvance(g))
		}
		return 0
	}
	return f.emScaleY(f.src.VAdvance(g))
}

// overridesAdvance reports whether any font in the chain installs an advance
// callback for the given axis.
func (f *Font) overridesAdvance(vertical bool) bool {
	for p := f; p != nil; p = p.parent {
		ft := p.funcsTable()
		if ft == nil {
			continue
		}
		if vertical {
			if ft.VAdvance != nil {
				return true
			}
		} else if ft.HAdvance != nil {
			return true
		}
	}
	return false
}

// GlyphHOrigin returns the origin of glyph g for horizontal layout. The
// default origin is (0,0): horizontal layout anchors at the baseline cursor.
func (f *Font) GlyphHOrigin(g Glyph) (x, y Position, ok bool) {
	if ft := f.funcsTable(); ft != nil && ft.HOrigin != nil {
		return ft.HOrigin(f, ft.Data, g)
	}
	if f.parent != nil {
		x, y, ok = f.parent.GlyphHOrigin(g)
		if !ok {
			return 0, 0, false
		}
		return f.parentScaleX(x), f.parentScaleY(y), true
	}
	return 0, 0, true
}

// GlyphVOrigin returns the origin of glyph g for vertical layout. There is
// no engine default; without an installed callback the lookup fails.
func (f *Font) GlyphVOrigin(g Glyph) (x, y Position, ok bool) {
	if ft := f.funcsTable(); ft != nil && ft.VOrigin != nil {
		return ft.VOrigin(f, ft.Data, g)
	}
	if f.parent != nil {
		x, y, ok = f.parent.GlyphVOrigin(g)
		if !ok {
			return 0, 0, false
		}
		return f.parentScaleX(x), f.parentScaleY(y), true
	}
	return 0, 0, false
}

// GlyphContourPoint returns outline point pointIndex of glyph g in font
// space. Only available through installed callbacks.
func (f *Font) GlyphContourPoint(g Glyph, pointIndex uint32) (x, y Position, ok bool) {
	if ft := f.funcsTable(); ft != nil && ft.GlyphContourPoint != nil {
		return ft.GlyphContourPoint(f, ft.Data, g, pointIndex)
	}
	if f.parent != nil {
		x, y, ok = f.parent.GlyphContourPoint(g, pointIndex)
		if !ok {
			return 0, 0, false
		}
		return f.parentScaleX(x), f.parentScaleY(y), true
	}
	return 0, 0, false
}

// GlyphExtents returns the ink extents of glyph g in font space.
func (f *Font) GlyphExtents(g Glyph) (GlyphExtents, bool) {
	if ft := f.funcsTable(); ft != nil && ft.GlyphExtents != nil {
		return ft.GlyphExtents(f, ft.Data, g)
	}
	if f.parent != nil {
		ext, ok := f.parent.GlyphExtents(g)
		if !ok {
			return GlyphExtents{}, false
		}
		return GlyphExtents{
			XBearing: f.parentScaleX(ext.XBearing),
			YBearing: f.parentScaleY(ext.YBearing),
			Width:    f.parentScaleX(ext.Width),
			Height:   f.parentScaleY(ext.Height),
		}, true
	}
	if f.src == nil {
		return GlyphExtents{}, false
	}
	x, y, w, h, ok := f.src.GlyphExtents(g)
	if !ok {
		return GlyphExtents{}, false
	}
	return GlyphExtents{
		XBearing: f.emScaleX(x),
		YBearing: f.emScaleY(y),
		Width:    f.emScaleX(w),
		Height:   f.emScaleY(h),
	}, true
}

// FontExtents returns ascender, descender and line gap in font space, for
// the horizontal or the vertical layout axis.
func (f *Font) FontExtents(vertical bool) (FontExtents, bool) {
	if ft := f.funcsTable(); ft != nil && ft.FontExtents != nil {
		return ft.FontExtents(f, ft.Data, vertical)
	}
	scale := f.parentScaleY
	if vertical {
		scale = f.parentScaleX
	}
	if f.parent != nil {
		ext, ok := f.parent.FontExtents(vertical)
		if !ok {
			return FontExtents{}, false
		}
		return FontExtents{
			Ascender:  scale(ext.Ascender),
			Descender: scale(ext.Descender),
			LineGap:   scale(ext.LineGap),
		}, true
	}
	if f.src == nil {
		return FontExtents{}, false
	}
	asc, desc, gap, ok := f.src.FontExtents(vertical)
	if !ok {
		return FontExtents{}, false
	}
	em := f.emScaleY
	if vertical {
		em = f.emScaleX
	}
	return FontExtents{
		Ascender:  em(asc),
		Descender: em(desc),
		LineGap:   em(gap),
	}, true
}

// GlyphName returns the name of glyph g, if the font or face knows one.
func (f *Font) GlyphName(g Glyph) (string, bool) {
	if ft := f.funcsTable(); ft != nil && ft.GlyphName != nil {
		return ft.GlyphName(f, ft.Data, g)
	}
	if f.parent != nil {
		return f.parent.GlyphName(g)
	}
	if f.src == nil {
		return "", false
	}
	return f.src.GlyphName(g)
}

// GlyphFromName resolves a glyph name back to a glyph id.
func (f *Font) GlyphFromName(name string) (Glyph, bool) {
	if ft := f.funcsTable(); ft != nil && ft.GlyphFromName != nil {
		return ft.GlyphFromName(f, ft.Data, name)
	}
	if f.parent != nil {
		return f.parent.GlyphFromName(name)
	}
	if f.src == nil {
		return 0, false
	}
	return f.src.GlyphFromName(name)
}
