package hb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeature(t *testing.T) {
	cases := []struct {
		in   string
		want Feature
	}{
		{"kern", Feature{Tag: mustTag(t, "kern"), Value: 1, Start: FeatureGlobalStart, End: FeatureGlobalEnd}},
		{"+liga", Feature{Tag: mustTag(t, "liga"), Value: 1, Start: FeatureGlobalStart, End: FeatureGlobalEnd}},
		{"-calt", Feature{Tag: mustTag(t, "calt"), Value: 0, Start: FeatureGlobalStart, End: FeatureGlobalEnd}},
		{"aalt=2", Feature{Tag: mustTag(t, "aalt"), Value: 2, Start: FeatureGlobalStart, End: FeatureGlobalEnd}},
		{"liga[3:5]", Feature{Tag: mustTag(t, "liga"), Value: 1, Start: 3, End: 5}},
		{"liga[3:5]=0", Feature{Tag: mustTag(t, "liga"), Value: 0, Start: 3, End: 5}},
		{"liga[:5]", Feature{Tag: mustTag(t, "liga"), Value: 1, Start: FeatureGlobalStart, End: 5}},
		{"liga[3:]", Feature{Tag: mustTag(t, "liga"), Value: 1, Start: 3, End: FeatureGlobalEnd}},
		{" kern ", Feature{Tag: mustTag(t, "kern"), Value: 1, Start: FeatureGlobalStart, End: FeatureGlobalEnd}},
	}
	for _, c := range cases {
		f, err := ParseFeature(c.in)
		require.NoError(t, err, "input %q", c.in)
		assert.Equal(t, c.want, f, "input %q", c.in)
	}
}

func TestParseFeatureErrors(t *testing.T) {
	for _, in := range []string{"", "kern[3", "kern[3]", "kern=x", "käru"} {
		_, err := ParseFeature(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestFeatureString(t *testing.T) {
	for _, s := range []string{"kern", "-calt", "aalt=2", "liga[3:5]", "liga[3:]=0"} {
		f, err := ParseFeature(s)
		require.NoError(t, err)
		assert.Equal(t, s, f.String())
	}
}

func TestParseVariation(t *testing.T) {
	v, err := ParseVariation("wght=632.5")
	require.NoError(t, err)
	assert.Equal(t, mustTag(t, "wght"), v.Tag)
	assert.EqualValues(t, 632.5, v.Value)

	_, err = ParseVariation("wght")
	assert.Error(t, err)
	_, err = ParseVariation("wght=heavy")
	assert.Error(t, err)
}

func mustTag(t *testing.T, s string) Tag {
	t.Helper()
	tag, err := TagFromString(s)
	require.NoError(t, err)
	return tag
}
