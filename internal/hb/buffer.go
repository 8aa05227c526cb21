package hb

import (
	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"
)

// ContentType tracks what a buffer currently holds.
type ContentType uint8

const (
	ContentTypeInvalid ContentType = iota // freshly created or cleared
	ContentTypeUnicode                    // input codepoints, pre-shaping
	ContentTypeGlyphs                     // output glyphs, post-shaping
)

func (ct ContentType) String() string {
	switch ct {
	case ContentTypeUnicode:
		return "unicode"
	case ContentTypeGlyphs:
		return "glyphs"
	}
	return "invalid"
}

// ClusterLevel selects the cluster merging policy applied during shaping.
type ClusterLevel uint8

const (
	ClusterLevelMonotoneGraphemes ClusterLevel = iota
	ClusterLevelMonotoneCharacters
	ClusterLevelCharacters
)

// BufferFlags tune segment boundary treatment during shaping.
type BufferFlags uint32

const (
	BufferFlagBot BufferFlags = 1 << iota // text starts at beginning of paragraph
	BufferFlagEot                         // text ends at end of paragraph
	BufferFlagPreserveDefaultIgnorables
	BufferFlagRemoveDefaultIgnorables
)

// SegmentProperties describe one uniform run of text: direction, script and
// language. Unset members are filled in by GuessSegmentProperties.
type SegmentProperties struct {
	Direction Direction
	Script    Script
	Language  Language
}

// GlyphInfo is one buffer slot. Pre-shaping, Codepoint is a Unicode scalar
// value; post-shaping it is a glyph id. Cluster indexes back into the input:
// byte offsets for string input, caller-chosen values otherwise.
type GlyphInfo struct {
	Codepoint uint32
	Cluster   uint32
	Mask      uint32
}

// GlyphPosition holds the placement of one shaped glyph in font space.
type GlyphPosition struct {
	XAdvance Position
	YAdvance Position
	XOffset  Position
	YOffset  Position
}

// contextLen caps the number of runes kept as pre/post shaping context.
const contextLen = 5

// Buffer is the reusable workhorse of the shaping pipeline: it accumulates
// input codepoints, is handed to the shaper, and afterwards holds the glyph
// sequence. Buffers are not safe for concurrent use.
type Buffer struct {
	ContentType  ContentType
	Props        SegmentProperties
	ClusterLevel ClusterLevel
	Flags        BufferFlags

	Info []GlyphInfo
	Pos  []GlyphPosition

	// Shaping context surrounding the item, outermost rune last in
	// preContext and first in postContext.
	preContext  []rune
	postContext []rune
}

// NewBuffer returns an empty buffer of invalid content type.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Len returns the number of buffer slots.
func (b *Buffer) Len() int { return len(b.Info) }

// Reset restores the buffer to its freshly created state, keeping the
// allocations for reuse.
func (b *Buffer) Reset() {
	b.ClearContents()
	b.ClusterLevel = ClusterLevelMonotoneGraphemes
	b.Flags = 0
}

// ClearContents drops content, segment properties and context, but keeps
// flags and cluster level.
func (b *Buffer) ClearContents() {
	b.ContentType = ContentTypeInvalid
	b.Props = SegmentProperties{}
	b.Info = b.Info[:0]
	b.Pos = b.Pos[:0]
	b.preContext = b.preContext[:0]
	b.postContext = b.postContext[:0]
}

// PreAllocate grows the buffer's capacity to hold at least n slots.
func (b *Buffer) PreAllocate(n int) {
	if cap(b.Info) < n {
		info := make([]GlyphInfo, len(b.Info), n)
		copy(info, b.Info)
		b.Info = info
	}
	if cap(b.Pos) < n {
		pos := make([]GlyphPosition, len(b.Pos), n)
		copy(pos, b.Pos)
		b.Pos = pos
	}
}

func (b *Buffer) enterUnicode() {
	if b.ContentType == ContentTypeGlyphs {
		panic("hb: adding text to a buffer holding glyphs")
	}
	b.ContentType = ContentTypeUnicode
}

// AddRune appends one codepoint with an explicit cluster value.
func (b *Buffer) AddRune(r rune, cluster uint32) {
	b.enterUnicode()
	b.Info = append(b.Info, GlyphInfo{Codepoint: uint32(r), Cluster: cluster})
	b.Pos = append(b.Pos, GlyphPosition{})
}

// AddString appends the item s[itemOffset:itemOffset+itemLength] of a UTF-8
// string. Cluster values are byte offsets into s. Runes before and after the
// item become shaping context rather than buffer content, so shaping an item
// in the middle of a paragraph sees its neighbors. itemLength -1 means "to
// the end of s".
func (b *Buffer) AddString(s string, itemOffset, itemLength int) {
	if itemOffset < 0 || itemOffset > len(s) {
		panic("hb: item offset out of bounds")
	}
	end := len(s)
	if itemLength >= 0 {
		end = itemOffset + itemLength
		if end > len(s) {
			panic("hb: item length out of bounds")
		}
	}
	b.enterUnicode()
	// Pre-context is only installed into an empty buffer; later adds keep
	// the one already in place. Post-context is replaced on every add.
	if len(b.Info) == 0 && itemOffset > 0 {
		b.preContext = b.preContext[:0]
		for _, r := range s[:itemOffset] {
			b.preContext = append(b.preContext, r)
		}
		if n := len(b.preContext); n > contextLen {
			b.preContext = append(b.preContext[:0], b.preContext[n-contextLen:]...)
		}
	}
	for i, r := range s[itemOffset:end] {
		b.Info = append(b.Info, GlyphInfo{Codepoint: uint32(r), Cluster: uint32(itemOffset + i)})
		b.Pos = append(b.Pos, GlyphPosition{})
	}
	b.postContext = b.postContext[:0]
	for _, r := range s[end:] {
		if len(b.postContext) >= contextLen {
			break
		}
		b.postContext = append(b.postContext, r)
	}
}

// AddRunes appends the item runes[itemOffset:itemOffset+itemLength], with
// cluster values equal to rune indices. Semantics otherwise match AddString.
func (b *Buffer) AddRunes(runes []rune, itemOffset, itemLength int) {
	if itemOffset < 0 || itemOffset > len(runes) {
		panic("hb: item offset out of bounds")
	}
	end := len(runes)
	if itemLength >= 0 {
		end = itemOffset + itemLength
		if end > len(runes) {
			panic("hb: item length out of bounds")
		}
	}
	b.enterUnicode()
	if len(b.Info) == 0 && itemOffset > 0 {
		pre := itemOffset
		if pre > contextLen {
			pre = contextLen
		}
		b.preContext = append(b.preContext[:0], runes[itemOffset-pre:itemOffset]...)
	}
	for i, r := range runes[itemOffset:end] {
		b.Info = append(b.Info, GlyphInfo{Codepoint: uint32(r), Cluster: uint32(itemOffset + i)})
		b.Pos = append(b.Pos, GlyphPosition{})
	}
	post := len(runes) - end
	if post > contextLen {
		post = contextLen
	}
	b.postContext = append(b.postContext[:0], runes[end:end+post]...)
}

// Append copies slots [start:end) of other into b. Content types must be
// compatible; appending glyphs to a Unicode buffer (or vice versa) panics.
func (b *Buffer) Append(other *Buffer, start, end int) {
	if start < 0 || end > other.Len() || start > end {
		panic("hb: append range out of bounds")
	}
	if b.ContentType == ContentTypeInvalid {
		b.ContentType = other.ContentType
	} else if other.ContentType != b.ContentType {
		panic("hb: appending " + other.ContentType.String() + " content to a " +
			b.ContentType.String() + " buffer")
	}
	b.Info = append(b.Info, other.Info[start:end]...)
	b.Pos = append(b.Pos, other.Pos[start:end]...)
}

// Reverse reverses the buffer slots in place.
func (b *Buffer) Reverse() {
	b.ReverseRange(0, b.Len())
}

// ReverseRange reverses the slots in [start:end).
func (b *Buffer) ReverseRange(start, end int) {
	if start < 0 || end > b.Len() || start > end {
		panic("hb: reverse range out of bounds")
	}
	for i, j := start, end-1; i < j; i, j = i+1, j-1 {
		b.Info[i], b.Info[j] = b.Info[j], b.Info[i]
		b.Pos[i], b.Pos[j] = b.Pos[j], b.Pos[i]
	}
}

// GuessSegmentProperties fills in unset segment properties from the buffer
// content: the script of the first codepoint with a real script, the
// direction implied by the first strong bidi class, and the process default
// language. Guessed values are a convenience for simple runs; multi-script
// text should be itemized by the caller.
func (b *Buffer) GuessSegmentProperties() {
	if b.Props.Script == 0 {
		for _, gi := range b.Info {
			s := language.LookupScript(rune(gi.Codepoint))
			if s != 0 && s != language.Common && s != language.Inherited {
				b.Props.Script = Script(s)
				break
			}
		}
		if b.Props.Script == 0 {
			b.Props.Script = Script(language.Common)
		}
	}
	if b.Props.Direction == DirectionInvalid {
		b.Props.Direction = LeftToRight
		for _, gi := range b.Info {
			prop, _ := bidi.LookupRune(rune(gi.Codepoint))
			switch prop.Class() {
			case bidi.L:
				b.Props.Direction = LeftToRight
			case bidi.R, bidi.AL:
				b.Props.Direction = RightToLeft
			default:
				continue
			}
			break
		}
	}
	if b.Props.Language == "" {
		b.Props.Language = DefaultLanguage()
	}
}
