package hbshape

import (
	"testing"

	"github.com/npillmayer/hbshape/internal/hb"
	"github.com/npillmayer/hbshape/internal/hbtest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeFace builds a face over the instrumented fake engine, so shaping
// results are exactly predictable without a font binary.
func newFakeFace(t *testing.T, eng *hbtest.Engine) Owned[*Face] {
	t.Helper()
	blob := hb.NewBlob([]byte("fake font data"), hb.MemoryModeReadonly, nil)
	face := newFaceWithEngine(eng, blob, 0)
	blob.Dereference()
	require.False(t, face.Get().IsEmpty(), "fake engine should parse any non-empty data")
	return face
}

func TestShapeHelloWorld(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	face := newFakeFace(t, hbtest.NewEngine())
	defer face.Release()
	font := NewFont(face.Get())
	defer font.Release()

	const text = "Hello World!"
	buf := NewUnicodeBuffer().AddStr(text)
	out := Shape(font.Get(), buf, nil)

	infos := out.GlyphInfos()
	positions := out.GlyphPositions()
	require.Len(t, infos, 12)
	require.Len(t, positions, 12)
	for i, gi := range infos {
		assert.EqualValues(t, hbtest.GlyphFor(rune(text[i])), gi.Codepoint, "glyph %d", i)
		assert.EqualValues(t, i, gi.Cluster, "cluster %d", i)
		assert.EqualValues(t, hbtest.Advance(gi.Codepoint), positions[i].XAdvance, "advance %d", i)
		assert.Zero(t, positions[i].YAdvance, "y advance %d", i)
		assert.Zero(t, positions[i].YOffset, "y offset %d", i)
	}
}

func TestShapeIsDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	face := newFakeFace(t, hbtest.NewEngine())
	defer face.Release()
	font := NewFont(face.Get())
	defer font.Release()

	shapeOnce := func(buf *UnicodeBuffer) ([]GlyphInfo, []GlyphPosition, *GlyphBuffer) {
		out := Shape(font.Get(), buf.AddStr("mixed шрифт 123"), nil)
		infos := append([]GlyphInfo(nil), out.GlyphInfos()...)
		positions := append([]GlyphPosition(nil), out.GlyphPositions()...)
		return infos, positions, out
	}
	infos1, pos1, out := shapeOnce(NewUnicodeBuffer())
	infos2, pos2, _ := shapeOnce(out.Clear()) // recycled allocation shapes alike
	assert.Equal(t, infos1, infos2)
	assert.Equal(t, pos1, pos2)
}

func TestShapeEmptyBufferIsValid(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	eng := hbtest.NewEngine()
	face := newFakeFace(t, eng)
	defer face.Release()
	font := NewFont(face.Get())
	defer font.Release()

	out := Shape(font.Get(), NewUnicodeBuffer(), nil)
	assert.Zero(t, out.Len())
	assert.Zero(t, eng.ShapeCalls(), "empty input must not reach the engine")
}

func TestShapeUncoveredCodepointsBecomeNotdef(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	eng := hbtest.NewEngine()
	eng.NotCovered = map[rune]bool{'x': true}
	face := newFakeFace(t, eng)
	defer face.Release()
	font := NewFont(face.Get())
	defer font.Release()

	out := Shape(font.Get(), NewUnicodeBuffer().AddStr("axb"), nil)
	infos := out.GlyphInfos()
	require.Len(t, infos, 3)
	assert.EqualValues(t, hbtest.GlyphFor('a'), infos[0].Codepoint)
	assert.Zero(t, infos[1].Codepoint, "uncovered codepoint should map to .notdef")
	assert.EqualValues(t, hbtest.GlyphFor('b'), infos[2].Codepoint)
}

func TestShapeRightToLeftReversesRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	face := newFakeFace(t, hbtest.NewEngine())
	defer face.Release()
	font := NewFont(face.Get())
	defer font.Release()

	buf := NewUnicodeBuffer().AddStr("abc").SetDirection(RightToLeft)
	out := Shape(font.Get(), buf, nil)
	infos := out.GlyphInfos()
	require.Len(t, infos, 3)
	assert.EqualValues(t, hbtest.GlyphFor('c'), infos[0].Codepoint)
	assert.EqualValues(t, hbtest.GlyphFor('a'), infos[2].Codepoint)
	assert.EqualValues(t, 2, infos[0].Cluster)
	assert.EqualValues(t, 0, infos[2].Cluster)
}

func TestShapeGuessesDirectionFromContent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	face := newFakeFace(t, hbtest.NewEngine())
	defer face.Release()
	font := NewFont(face.Get())
	defer font.Release()

	out := Shape(font.Get(), NewUnicodeBuffer().AddStr("שלום"), nil)
	assert.Equal(t, RightToLeft, out.SegmentProperties().Direction)

	out2 := Shape(font.Get(), NewUnicodeBuffer().AddStr("hello"), nil)
	assert.Equal(t, LeftToRight, out2.SegmentProperties().Direction)
}

func TestShapeScalesAdvances(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	face := newFakeFace(t, hbtest.NewEngine())
	defer face.Release()
	font := NewFont(face.Get())
	defer font.Release()
	font.Get().SetScale(2000, 2000) // twice the fake UPEM of 1000

	out := Shape(font.Get(), NewUnicodeBuffer().AddStr("a"), nil)
	g := out.GlyphInfos()[0].Codepoint
	assert.EqualValues(t, 2*hbtest.Advance(g), out.GlyphPositions()[0].XAdvance)
}

func TestShapeAppliesFuncsAdvanceOverride(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	face := newFakeFace(t, hbtest.NewEngine())
	defer face.Release()
	font := NewFont(face.Get())
	defer font.Release()

	font.Get().SetFuncs(FontFuncs{
		GlyphHAdvance: func(font *Font, data any, g Glyph) Position {
			return 1234
		},
	}, nil, nil)

	out := Shape(font.Get(), NewUnicodeBuffer().AddStr("ab"), nil)
	for i, pos := range out.GlyphPositions() {
		assert.EqualValues(t, 1234, pos.XAdvance, "glyph %d", i)
	}
}

func TestShapeDeliversFeatures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	eng := hbtest.NewEngine()
	face := newFakeFace(t, eng)
	defer face.Release()
	font := NewFont(face.Get())
	defer font.Release()

	liga, err := ParseFeature("-liga")
	require.NoError(t, err)
	kern, err := ParseFeature("kern[1:3]")
	require.NoError(t, err)

	Shape(font.Get(), NewUnicodeBuffer().AddStr("abcd"), []Feature{liga, kern})

	feats := eng.LastFeatures()
	require.Len(t, feats, 2)
	assert.Equal(t, NewTag('l', 'i', 'g', 'a'), feats[0].Tag)
	assert.Zero(t, feats[0].Value)
	assert.EqualValues(t, FeatureGlobalStart, feats[0].Start)
	assert.EqualValues(t, FeatureGlobalEnd, feats[0].End)
	assert.Equal(t, NewTag('k', 'e', 'r', 'n'), feats[1].Tag)
	assert.EqualValues(t, 1, feats[1].Value)
	assert.EqualValues(t, 1, feats[1].Start)
	assert.EqualValues(t, 3, feats[1].End)
}

func TestShapeWithEmptyFaceYieldsNotdefRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	face := NewFaceFromBytes([]byte("this is no font"), 0)
	defer face.Release()
	require.True(t, face.Get().IsEmpty())
	assert.EqualValues(t, 1000, face.Get().Upem())
	assert.Zero(t, face.Get().GlyphCount())

	font := NewFont(face.Get())
	defer font.Release()
	out := Shape(font.Get(), NewUnicodeBuffer().AddStr("abc"), nil)
	infos := out.GlyphInfos()
	require.Len(t, infos, 3)
	for i, gi := range infos {
		assert.Zero(t, gi.Codepoint, "glyph %d should be .notdef", i)
		assert.EqualValues(t, i, gi.Cluster)
		assert.Zero(t, out.GlyphPositions()[i].XAdvance)
	}
}

func TestUnicodeBufferSpentAfterShape(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	face := newFakeFace(t, hbtest.NewEngine())
	defer face.Release()
	font := NewFont(face.Get())
	defer font.Release()

	buf := NewUnicodeBuffer().AddStr("x")
	out := Shape(font.Get(), buf, nil)
	assert.Panics(t, func() { buf.AddStr("more") })
	assert.Panics(t, func() { buf.Len() })

	// recycling hands the allocation back as a usable text buffer
	fresh := out.Clear()
	assert.NotPanics(t, func() { fresh.AddStr("again") })
	assert.Equal(t, 5, fresh.Len())
}
