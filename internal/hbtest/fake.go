// Package hbtest provides an instrumented fake shaping engine. It produces
// deterministic glyphs and metrics without any font binary, so tests can
// exercise the object graph, the shaping driver and the serialization layer
// with exact expected values.
//
// The fake maps every codepoint r to glyph r+1 (glyph 0 stays reserved for
// .notdef), reports UPEM 1000 and gives glyph g the horizontal advance
// 500+(g%7)*10 in design units.
package hbtest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/npillmayer/hbshape/internal/hb"
)

// Upem is the units-per-EM value every fake face reports.
const Upem = 1000

// Advance returns the design-unit horizontal advance the fake assigns to a
// glyph. Tests use it to compute expected positions.
func Advance(g hb.Glyph) int32 {
	return 500 + int32(g%7)*10
}

// GlyphFor returns the glyph id the fake assigns to a codepoint.
func GlyphFor(r rune) hb.Glyph {
	return hb.Glyph(r) + 1
}

// Engine is a fake hb.Engine with call counters.
type Engine struct {
	mu           sync.Mutex
	parsedFaces  int
	shapeCalls   int
	lastFeatures []hb.Feature

	// FailParse forces ParseFace to fail, so tests can drive the
	// empty-face degradation path with non-empty data.
	FailParse bool
	// NotCovered lists codepoints the fake pretends have no glyph.
	NotCovered map[rune]bool
}

// NewEngine returns a fresh fake engine.
func NewEngine() *Engine {
	return &Engine{}
}

// ParsedFaces returns how many faces were successfully parsed.
func (e *Engine) ParsedFaces() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.parsedFaces
}

// ShapeCalls returns how many shaping runs the engine performed.
func (e *Engine) ShapeCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shapeCalls
}

// LastFeatures returns the feature list handed to the most recent shaping
// run, with the caller's cluster ranges untouched.
func (e *Engine) LastFeatures() []hb.Feature {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]hb.Feature(nil), e.lastFeatures...)
}

// ParseFace accepts any non-empty data blob and returns a fake face.
func (e *Engine) ParseFace(data []byte, index uint32) (hb.FaceSource, error) {
	if len(data) == 0 || e.FailParse {
		return nil, errors.New("hbtest: unusable font data")
	}
	e.mu.Lock()
	e.parsedFaces++
	e.mu.Unlock()
	return &faceSource{eng: e}, nil
}

// CountFaces reports one face for non-empty data, zero otherwise.
func (e *Engine) CountFaces(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	return 1
}

type faceSource struct {
	eng *Engine
}

func (f *faceSource) Upem() uint32    { return Upem }
func (f *faceSource) GlyphCount() int { return 0x110000 }

func (f *faceSource) NewFontSource() hb.FontSource {
	return &fontSource{eng: f.eng}
}

type fontSource struct {
	eng *Engine

	mu   sync.Mutex
	vars []hb.Variation
}

func (fs *fontSource) NominalGlyph(r rune) (hb.Glyph, bool) {
	if fs.eng.NotCovered[r] {
		return 0, false
	}
	return GlyphFor(r), true
}

func (fs *fontSource) VariationGlyph(r, vs rune) (hb.Glyph, bool) {
	return fs.NominalGlyph(r)
}

func (fs *fontSource) HAdvance(g hb.Glyph) float32 {
	return float32(Advance(g))
}

func (fs *fontSource) VAdvance(g hb.Glyph) float32 {
	return -float32(Upem)
}

func (fs *fontSource) GlyphExtents(g hb.Glyph) (x, y, w, h float32, ok bool) {
	adv := float32(Advance(g))
	return 50, 750, adv - 100, -700, true
}

func (fs *fontSource) FontExtents(vertical bool) (ascender, descender, lineGap float32, ok bool) {
	if vertical {
		return 500, -500, 0, true
	}
	return 800, -200, 0, true
}

func (fs *fontSource) GlyphName(g hb.Glyph) (string, bool) {
	return fmt.Sprintf("g%d", g), true
}

func (fs *fontSource) GlyphFromName(name string) (hb.Glyph, bool) {
	if !strings.HasPrefix(name, "g") {
		return 0, false
	}
	n, err := strconv.ParseUint(name[1:], 10, 32)
	if err != nil {
		return 0, false
	}
	return hb.Glyph(n), true
}

func (fs *fontSource) SetVariations(vars []hb.Variation) {
	fs.mu.Lock()
	fs.vars = append(fs.vars[:0], vars...)
	fs.mu.Unlock()
}

// Variations returns the last variation settings applied to this font.
func (fs *fontSource) Variations() []hb.Variation {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]hb.Variation(nil), fs.vars...)
}

// Shape maps each codepoint to its fake glyph, assigns advances scaled by
// the font's scale over UPEM, and reverses the run for right-to-left and
// bottom-to-top directions. Clusters pass through untouched, and the
// feature list is recorded for inspection via LastFeatures.
func (fs *fontSource) Shape(font *hb.Font, buf *hb.Buffer, features []hb.Feature) {
	fs.eng.mu.Lock()
	fs.eng.shapeCalls++
	fs.eng.lastFeatures = append(fs.eng.lastFeatures[:0], features...)
	fs.eng.mu.Unlock()

	xScale, yScale := font.Scale()
	scaleX := func(v float32) hb.Position {
		return hb.Position(math.Round(float64(v) * float64(xScale) / Upem))
	}
	scaleY := func(v float32) hb.Position {
		return hb.Position(math.Round(float64(v) * float64(yScale) / Upem))
	}
	vertical := buf.Props.Direction.IsVertical()
	for i := range buf.Info {
		g, ok := fs.NominalGlyph(rune(buf.Info[i].Codepoint))
		if !ok {
			g = 0
		}
		buf.Info[i].Codepoint = g
		pos := hb.GlyphPosition{}
		if vertical {
			pos.YAdvance = scaleY(fs.VAdvance(g))
		} else {
			pos.XAdvance = scaleX(fs.HAdvance(g))
		}
		buf.Pos[i] = pos
	}
	if buf.Props.Direction == hb.RightToLeft || buf.Props.Direction == hb.BottomToTop {
		buf.Reverse()
	}
}
