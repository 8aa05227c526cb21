package hb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagFromString(t *testing.T) {
	tag, err := TagFromString("GSUB")
	require.NoError(t, err)
	assert.Equal(t, NewTag('G', 'S', 'U', 'B'), tag)
	assert.Equal(t, "GSUB", tag.String())

	// short tags pad with spaces, long ones truncate
	tag, err = TagFromString("de")
	require.NoError(t, err)
	assert.Equal(t, "de  ", tag.String())
	tag, err = TagFromString("verylong")
	require.NoError(t, err)
	assert.Equal(t, "very", tag.String())

	_, err = TagFromString("")
	assert.Error(t, err)
}

func TestDirection(t *testing.T) {
	assert.True(t, LeftToRight.IsHorizontal())
	assert.True(t, RightToLeft.IsHorizontal())
	assert.True(t, TopToBottom.IsVertical())
	assert.False(t, DirectionInvalid.IsHorizontal())
	assert.False(t, DirectionInvalid.IsVertical())

	assert.Equal(t, RightToLeft, LeftToRight.Reverse())
	assert.Equal(t, TopToBottom, BottomToTop.Reverse())
	assert.Equal(t, DirectionInvalid, DirectionInvalid.Reverse())
	assert.Equal(t, "rtl", RightToLeft.String())
}

func TestNewLanguage(t *testing.T) {
	assert.Equal(t, Language("en-us"), NewLanguage("en_US"))
	assert.Equal(t, Language("zh-cn"), NewLanguage("ZH-CN"))
	assert.Equal(t, Language("en"), NewLanguage("en.UTF-8"))
	assert.Equal(t, Language(""), NewLanguage(""))
}

func TestDefaultLanguageFromEnvironment(t *testing.T) {
	t.Setenv("LANGUAGE", "")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_CTYPE", "")
	t.Setenv("LANG", "de_DE.UTF-8")
	assert.Equal(t, Language("de-de"), DefaultLanguage())

	t.Setenv("LANG", "C")
	assert.Equal(t, Language("c"), DefaultLanguage())
}
