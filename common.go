package hbshape

import (
	"github.com/npillmayer/hbshape/internal/hb"
	xlanguage "golang.org/x/text/language"
)

// Core value types are shared with the engine surface; the wrapper layer
// re-exports them so client code only ever imports this package.
type (
	// Position is a single coordinate or distance in scaled font units.
	Position = hb.Position
	// Glyph is a font-internal glyph identifier.
	Glyph = hb.Glyph
	// Tag is a 4-byte identifier for OpenType tables, features and scripts.
	Tag = hb.Tag
	// Direction is the text flow direction of a run.
	Direction = hb.Direction
	// Script identifies a writing system by its ISO 15924 tag.
	Script = hb.Script
	// Language is a lowercased BCP-47 language tag.
	Language = hb.Language
	// Feature is a shaping feature setting, optionally ranged.
	Feature = hb.Feature
	// Variation is a variable-font axis setting in design units.
	Variation = hb.Variation
	// SegmentProperties bundle direction, script and language of a run.
	SegmentProperties = hb.SegmentProperties
	// ClusterLevel selects the cluster merging policy during shaping.
	ClusterLevel = hb.ClusterLevel
	// BufferFlags tune segment boundary treatment during shaping.
	BufferFlags = hb.BufferFlags
	// GlyphInfo is one buffer slot: codepoint or glyph, plus cluster.
	GlyphInfo = hb.GlyphInfo
	// GlyphPosition is the placement of one shaped glyph.
	GlyphPosition = hb.GlyphPosition
	// FontExtents are font-wide vertical metrics.
	FontExtents = hb.FontExtents
	// GlyphExtents is the ink box of one glyph.
	GlyphExtents = hb.GlyphExtents
	// UserDataKey identifies a client data slot on faces and fonts.
	UserDataKey = hb.UserDataKey
)

const (
	DirectionInvalid = hb.DirectionInvalid
	LeftToRight      = hb.LeftToRight
	RightToLeft      = hb.RightToLeft
	TopToBottom      = hb.TopToBottom
	BottomToTop      = hb.BottomToTop
)

const (
	ClusterLevelMonotoneGraphemes  = hb.ClusterLevelMonotoneGraphemes
	ClusterLevelMonotoneCharacters = hb.ClusterLevelMonotoneCharacters
	ClusterLevelCharacters         = hb.ClusterLevelCharacters
)

const (
	BufferFlagBot                       = hb.BufferFlagBot
	BufferFlagEot                       = hb.BufferFlagEot
	BufferFlagPreserveDefaultIgnorables = hb.BufferFlagPreserveDefaultIgnorables
	BufferFlagRemoveDefaultIgnorables   = hb.BufferFlagRemoveDefaultIgnorables
)

// FeatureGlobalStart and FeatureGlobalEnd select the whole buffer as a
// feature's application range.
const (
	FeatureGlobalStart = hb.FeatureGlobalStart
	FeatureGlobalEnd   = hb.FeatureGlobalEnd
)

// NewTag builds a Tag from its four-character representation.
func NewTag(a, b, c, d byte) Tag { return hb.NewTag(a, b, c, d) }

// TagFromString parses up to four ASCII characters into a Tag.
func TagFromString(s string) (Tag, error) { return hb.TagFromString(s) }

// NewFeature returns a feature setting applying to the whole buffer.
func NewFeature(tag Tag, value uint32) Feature { return hb.NewFeature(tag, value) }

// ParseFeature parses a feature in hb-shape syntax, e.g. "kern", "-liga",
// "aalt=2" or "liga[3:5]=0".
func ParseFeature(s string) (Feature, error) { return hb.ParseFeature(s) }

// ParseVariation parses a variation setting like "wght=600".
func ParseVariation(s string) (Variation, error) { return hb.ParseVariation(s) }

// NewLanguage normalizes a language string into a Language. It does not
// validate; use [ParseLanguage] for validated BCP-47 input.
func NewLanguage(s string) Language { return hb.NewLanguage(s) }

// DefaultLanguage returns the language of the process locale.
func DefaultLanguage() Language { return hb.DefaultLanguage() }

// ParseLanguage parses and canonicalizes a BCP-47 language tag.
func ParseLanguage(s string) (Language, error) {
	tag, err := xlanguage.Parse(s)
	if err != nil {
		return "", err
	}
	return hb.NewLanguage(tag.String()), nil
}
