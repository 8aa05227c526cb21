package hb

import (
	"testing"

	"github.com/go-text/typesetting/harfbuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapFeatureClusterBoundaries(t *testing.T) {
	// Byte-offset clusters of the item "aßbc", shaped with two runes of
	// pre-context. Feature ranges name cluster values; the port wants rune
	// indices into context plus item.
	clusters := []uint32{0, 1, 3, 4}
	const itemOffset = 2

	out := mapFeatures([]Feature{
		{Tag: mustTag(t, "kern"), Value: 1, Start: 3, End: 4},
		{Tag: mustTag(t, "liga"), Value: 0, Start: FeatureGlobalStart, End: FeatureGlobalEnd},
		{Tag: mustTag(t, "calt"), Value: 1, Start: 10, End: FeatureGlobalEnd},
	}, clusters, itemOffset)

	require.Len(t, out, 3)
	assert.Equal(t, 4, out[0].Start, "cluster 3 is the third item rune")
	assert.Equal(t, 5, out[0].End)
	assert.Equal(t, itemOffset, out[1].Start)
	assert.EqualValues(t, harfbuzz.FeatureGlobalEnd, out[1].End)
	assert.Equal(t, itemOffset+len(clusters), out[2].Start,
		"a start past every cluster lands after the item")

	assert.Nil(t, mapFeatures(nil, clusters, itemOffset))
}

func TestMapBufferFlags(t *testing.T) {
	assert.Zero(t, mapFlags(0))
	opts := mapFlags(BufferFlagBot | BufferFlagRemoveDefaultIgnorables)
	assert.NotZero(t, opts&harfbuzz.Bot)
	assert.Zero(t, opts&harfbuzz.Eot)
	assert.NotZero(t, opts&harfbuzz.RemoveDefaultIgnorables)
	assert.Zero(t, opts&harfbuzz.PreserveDefaultIgnorables)
}
