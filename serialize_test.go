package hbshape

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shapeHi shapes the two-glyph run used by the serialization tests:
// 'H' becomes glyph 73 with advance 530, 'i' glyph 106 with advance 510.
func shapeHi(t *testing.T) (*GlyphBuffer, *Font, func()) {
	t.Helper()
	font, cleanup := newFakeFont(t)
	out := Shape(font.Get(), NewUnicodeBuffer().AddStr("Hi"), nil)
	return out, font.Get(), cleanup
}

func TestSerializeText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	out, font, cleanup := shapeHi(t)
	defer cleanup()

	assert.Equal(t, "[g73=0+530|g106=1+510]", out.Serialize(font, SerializeText, 0))
	assert.Equal(t, "[73=0+530|106=1+510]", out.Serialize(nil, SerializeText, 0))
	assert.Equal(t, "[73=0+530|106=1+510]", out.Serialize(font, SerializeText, SerializeNoGlyphNames))
	assert.Equal(t, "[g73+530|g106+510]", out.Serialize(font, SerializeText, SerializeNoClusters))
	assert.Equal(t, "[g73=0|g106=1]", out.Serialize(font, SerializeText, SerializeNoPositions))
	assert.Equal(t, "[g73=0|g106=1]", out.Serialize(font, SerializeText, SerializeNoAdvances))
}

func TestSerializeTextWithOffsets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	out, font, cleanup := shapeHi(t)
	defer cleanup()

	// zero offsets are omitted, nonzero ones are printed before the advance
	positions := out.GlyphPositions()
	positions[1].XOffset = 12
	positions[1].YOffset = -34
	assert.Equal(t, "[g73=0+530|g106=1@12,-34+510]", out.Serialize(font, SerializeText, 0))
}

func TestSerializeGlyphFlags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	out, font, cleanup := shapeHi(t)
	defer cleanup()

	out.GlyphInfos()[1].Mask = 1
	assert.Equal(t, "[g73=0+530|g106=1+510#1]",
		out.Serialize(font, SerializeText, SerializeGlyphFlags))
	assert.JSONEq(t,
		`[{"g":73,"cl":0,"dx":0,"dy":0,"ax":530,"ay":0},
		  {"g":106,"cl":1,"dx":0,"dy":0,"ax":510,"ay":0,"fl":1}]`,
		out.Serialize(font, SerializeJSON, SerializeGlyphFlags))

	back, err := DeserializeGlyphs("[73=0+530|106=1+510#1]", nil, SerializeText)
	require.NoError(t, err)
	assert.EqualValues(t, 1, back.GlyphInfos()[1].Mask)
}

func TestSerializeJSON(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	out, font, cleanup := shapeHi(t)
	defer cleanup()

	assert.JSONEq(t,
		`[{"g":73,"cl":0,"dx":0,"dy":0,"ax":530,"ay":0},
		  {"g":106,"cl":1,"dx":0,"dy":0,"ax":510,"ay":0}]`,
		out.Serialize(font, SerializeJSON, 0))
	assert.JSONEq(t,
		`[{"g":73,"dx":0,"dy":0,"ax":530,"ay":0},
		  {"g":106,"dx":0,"dy":0,"ax":510,"ay":0}]`,
		out.Serialize(font, SerializeJSON, SerializeNoClusters))
}

func TestDeserializeTextRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	out, font, cleanup := shapeHi(t)
	defer cleanup()

	serialized := out.Serialize(font, SerializeText, 0)
	back, err := DeserializeGlyphs(serialized, font, SerializeText)
	require.NoError(t, err)
	assert.Equal(t, out.GlyphInfos(), back.GlyphInfos())
	assert.Equal(t, out.GlyphPositions(), back.GlyphPositions())
}

func TestDeserializeTextPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()

	back, err := DeserializeGlyphs("[5=0@10,-20+100|7=2+200,-50]", nil, SerializeText)
	require.NoError(t, err)
	require.Equal(t, 2, back.Len())
	infos := back.GlyphInfos()
	positions := back.GlyphPositions()
	assert.EqualValues(t, 5, infos[0].Codepoint)
	assert.EqualValues(t, 10, positions[0].XOffset)
	assert.EqualValues(t, -20, positions[0].YOffset)
	assert.EqualValues(t, 100, positions[0].XAdvance)
	assert.EqualValues(t, 7, infos[1].Codepoint)
	assert.EqualValues(t, 2, infos[1].Cluster)
	assert.EqualValues(t, 200, positions[1].XAdvance)
	assert.EqualValues(t, -50, positions[1].YAdvance)
}

func TestDeserializeJSONRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	out, font, cleanup := shapeHi(t)
	defer cleanup()

	serialized := out.Serialize(font, SerializeJSON, 0)
	back, err := DeserializeGlyphs(serialized, font, SerializeJSON)
	require.NoError(t, err)
	assert.Equal(t, out.GlyphInfos(), back.GlyphInfos())
	assert.Equal(t, out.GlyphPositions(), back.GlyphPositions())
}

func TestDeserializeEmptyRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()

	back, err := DeserializeGlyphs("[]", nil, SerializeText)
	require.NoError(t, err)
	assert.Zero(t, back.Len())
}

func TestDeserializeErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()

	// a glyph name cannot be resolved without a font
	_, err := DeserializeGlyphs("[g73=0+530]", nil, SerializeText)
	assert.Error(t, err)

	_, err = DeserializeGlyphs(`{"g":73}`, nil, SerializeJSON)
	assert.Error(t, err)

	_, err = DeserializeGlyphs(`[{"cl":0,"ax":530}]`, nil, SerializeJSON)
	assert.Error(t, err)
}
