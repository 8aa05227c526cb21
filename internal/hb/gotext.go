package hb

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/harfbuzz"
	"github.com/go-text/typesetting/language"
	xsfnt "golang.org/x/image/font/sfnt"
)

// gotextEngine is the production Engine, backed by the pure-Go HarfBuzz port
// of go-text/typesetting. It is stateless; all state lives in the face and
// font sources it hands out.
type gotextEngine struct{}

// NewEngine returns the production shaping engine.
func NewEngine() Engine { return gotextEngine{} }

var defaultEngine Engine = gotextEngine{}

// DefaultEngine returns the engine used when callers do not supply one.
func DefaultEngine() Engine { return defaultEngine }

func (gotextEngine) ParseFace(data []byte, index uint32) (FaceSource, error) {
	faces, err := font.ParseTTC(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if int(index) >= len(faces) {
		return nil, fmt.Errorf("face index %d out of range, collection has %d fonts",
			index, len(faces))
	}
	return &gotextFace{face: faces[index], data: data, index: index}, nil
}

func (gotextEngine) CountFaces(data []byte) int {
	lds, err := ot.NewLoaders(bytes.NewReader(data))
	if err != nil {
		return 0
	}
	return len(lds)
}

// gotextFace wraps one parsed go-text face. Glyph names are not part of the
// go-text API, so they are served from a lazily parsed sfnt view of the same
// bytes, the post table being cheap to read.
type gotextFace struct {
	face  *font.Face
	data  []byte
	index uint32

	sfOnce sync.Once
	sf     *xsfnt.Font

	nameMu    sync.Mutex
	sfBuf     xsfnt.Buffer
	nameToGID map[string]Glyph
}

func (f *gotextFace) Upem() uint32 { return uint32(f.face.Upem()) }

func (f *gotextFace) GlyphCount() int {
	if sf := f.sfnt(); sf != nil {
		return sf.NumGlyphs()
	}
	return 0
}

func (f *gotextFace) NewFontSource() FontSource {
	face := font.NewFace(f.face.Font)
	return &gotextFont{
		parent: f,
		face:   face,
		hbFont: harfbuzz.NewFont(face),
	}
}

func (f *gotextFace) sfnt() *xsfnt.Font {
	f.sfOnce.Do(func() {
		if sf, err := xsfnt.Parse(f.data); err == nil {
			f.sf = sf
			return
		}
		coll, err := xsfnt.ParseCollection(f.data)
		if err != nil {
			return
		}
		if sf, err := coll.Font(int(f.index)); err == nil {
			f.sf = sf
		}
	})
	return f.sf
}

func (f *gotextFace) glyphName(g Glyph) (string, bool) {
	sf := f.sfnt()
	if sf == nil {
		return "", false
	}
	f.nameMu.Lock()
	defer f.nameMu.Unlock()
	name, err := sf.GlyphName(&f.sfBuf, xsfnt.GlyphIndex(g))
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

func (f *gotextFace) glyphFromName(name string) (Glyph, bool) {
	sf := f.sfnt()
	if sf == nil {
		return 0, false
	}
	f.nameMu.Lock()
	defer f.nameMu.Unlock()
	if f.nameToGID == nil {
		f.nameToGID = make(map[string]Glyph, sf.NumGlyphs())
		for g := 0; g < sf.NumGlyphs(); g++ {
			n, err := sf.GlyphName(&f.sfBuf, xsfnt.GlyphIndex(g))
			if err == nil && n != "" {
				f.nameToGID[n] = Glyph(g)
			}
		}
	}
	g, ok := f.nameToGID[name]
	return g, ok
}

// gotextFont is the per-Font engine state: a mutable go-text face view plus
// the HarfBuzz font shaped with. go-text faces are not safe for concurrent
// use, so every entry point takes the mutex.
type gotextFont struct {
	parent *gotextFace

	mu     sync.Mutex
	face   *font.Face
	hbFont *harfbuzz.Font
}

func (f *gotextFont) NominalGlyph(r rune) (Glyph, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.face.NominalGlyph(r)
	return Glyph(g), ok
}

func (f *gotextFont) VariationGlyph(r, vs rune) (Glyph, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.face.VariationGlyph(r, vs)
	return Glyph(g), ok
}

func (f *gotextFont) HAdvance(g Glyph) float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.HorizontalAdvance(font.GID(g))
}

func (f *gotextFont) VAdvance(g Glyph) float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	// vertical advances point down the growth axis and are negative
	return -f.face.VerticalAdvance(font.GID(g))
}

func (f *gotextFont) GlyphExtents(g Glyph) (x, y, w, h float32, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ext, ok := f.face.GlyphExtents(font.GID(g))
	if !ok {
		return 0, 0, 0, 0, false
	}
	return ext.XBearing, ext.YBearing, ext.Width, ext.Height, true
}

func (f *gotextFont) FontExtents(vertical bool) (ascender, descender, lineGap float32, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ext font.FontExtents
	if vertical {
		ext, ok = f.face.FontVExtents()
	} else {
		ext, ok = f.face.FontHExtents()
	}
	if !ok {
		return 0, 0, 0, false
	}
	return ext.Ascender, ext.Descender, ext.LineGap, true
}

func (f *gotextFont) GlyphName(g Glyph) (string, bool) {
	return f.parent.glyphName(g)
}

func (f *gotextFont) GlyphFromName(name string) (Glyph, bool) {
	return f.parent.glyphFromName(name)
}

func (f *gotextFont) SetVariations(vars []Variation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	settings := make([]font.Variation, len(vars))
	for i, v := range vars {
		settings[i] = font.Variation{Tag: font.Tag(v.Tag), Value: v.Value}
	}
	f.face.SetVariations(settings)
}

func (f *gotextFont) Shape(fnt *Font, buf *Buffer, features []Feature) {
	f.mu.Lock()
	defer f.mu.Unlock()

	xs, ys := fnt.Scale()
	f.hbFont.XScale, f.hbFont.YScale = xs, ys
	xp, yp := fnt.Ppem()
	f.face.SetPpem(uint16(xp), uint16(yp))
	f.hbFont.Ptem = fnt.Ptem()

	// Rebuild the run with its context runes. The port's cluster values are
	// indices into this rune slice; ours are caller-chosen, so remember the
	// mapping for the trip back.
	itemOffset := len(buf.preContext)
	itemLen := len(buf.Info)
	runes := make([]rune, 0, itemOffset+itemLen+len(buf.postContext))
	runes = append(runes, buf.preContext...)
	clusters := make([]uint32, itemLen)
	for i, gi := range buf.Info {
		runes = append(runes, rune(gi.Codepoint))
		clusters[i] = gi.Cluster
	}
	runes = append(runes, buf.postContext...)

	hbBuf := harfbuzz.NewBuffer()
	hbBuf.Props = harfbuzz.SegmentProperties{
		Direction: mapDirection(buf.Props.Direction),
		Script:    language.Script(buf.Props.Script),
		Language:  language.NewLanguage(string(buf.Props.Language)),
	}
	hbBuf.ClusterLevel = mapClusterLevel(buf.ClusterLevel)
	hbBuf.Flags = mapFlags(buf.Flags)
	hbBuf.AddRunes(runes, itemOffset, itemLen)
	hbBuf.Shape(f.hbFont, mapFeatures(features, clusters, itemOffset))

	buf.Info = buf.Info[:0]
	buf.Pos = buf.Pos[:0]
	for i, gi := range hbBuf.Info {
		ci := gi.Cluster - itemOffset
		if ci < 0 {
			ci = 0
		} else if ci >= itemLen {
			ci = itemLen - 1
		}
		buf.Info = append(buf.Info, GlyphInfo{
			Codepoint: uint32(gi.Glyph),
			Cluster:   clusters[ci],
		})
		p := hbBuf.Pos[i]
		buf.Pos = append(buf.Pos, GlyphPosition{
			XAdvance: p.XAdvance,
			YAdvance: p.YAdvance,
			XOffset:  p.XOffset,
			YOffset:  p.YOffset,
		})
	}
}

func mapDirection(d Direction) harfbuzz.Direction {
	switch d {
	case RightToLeft:
		return harfbuzz.RightToLeft
	case TopToBottom:
		return harfbuzz.TopToBottom
	case BottomToTop:
		return harfbuzz.BottomToTop
	}
	return harfbuzz.LeftToRight
}

func mapFlags(fl BufferFlags) harfbuzz.ShappingOptions {
	var opts harfbuzz.ShappingOptions
	if fl&BufferFlagBot != 0 {
		opts |= harfbuzz.Bot
	}
	if fl&BufferFlagEot != 0 {
		opts |= harfbuzz.Eot
	}
	if fl&BufferFlagPreserveDefaultIgnorables != 0 {
		opts |= harfbuzz.PreserveDefaultIgnorables
	}
	if fl&BufferFlagRemoveDefaultIgnorables != 0 {
		opts |= harfbuzz.RemoveDefaultIgnorables
	}
	return opts
}

func mapClusterLevel(cl ClusterLevel) harfbuzz.ClusterLevel {
	switch cl {
	case ClusterLevelMonotoneCharacters:
		return harfbuzz.MonotoneCharacters
	case ClusterLevelCharacters:
		return harfbuzz.Characters
	}
	return harfbuzz.MonotoneGraphemes
}

// mapFeatures translates feature ranges from caller cluster values into rune
// indices of the run passed to the port. Cluster values ascend with rune
// index, so the first slot at or past the boundary is the mapping.
func mapFeatures(features []Feature, clusters []uint32, itemOffset int) []harfbuzz.Feature {
	if len(features) == 0 {
		return nil
	}
	mapBoundary := func(v uint32, isEnd bool) int {
		if isEnd && v == FeatureGlobalEnd {
			return harfbuzz.FeatureGlobalEnd
		}
		for i, c := range clusters {
			if c >= v {
				return itemOffset + i
			}
		}
		return itemOffset + len(clusters)
	}
	out := make([]harfbuzz.Feature, len(features))
	for i, ft := range features {
		out[i] = harfbuzz.Feature{
			Tag:   ot.Tag(ft.Tag),
			Value: ft.Value,
			Start: mapBoundary(ft.Start, false),
			End:   mapBoundary(ft.End, true),
		}
	}
	return out
}
