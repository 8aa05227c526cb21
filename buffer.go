package hbshape

import "github.com/npillmayer/hbshape/internal/hb"

// UnicodeBuffer accumulates input text for shaping. It is one half of a
// typed state machine: [Shape] consumes the UnicodeBuffer and returns a
// [GlyphBuffer] over the same allocation, and [GlyphBuffer.Clear] turns it
// back. The two views never exist at the same time; using a UnicodeBuffer
// after it was consumed panics.
//
// Mutating methods return the buffer again, so calls chain:
//
//	buf := hbshape.NewUnicodeBuffer().AddStr("שלום").SetDirection(hbshape.RightToLeft)
//
// Buffers are not safe for concurrent use.
type UnicodeBuffer struct {
	raw   *hb.Buffer
	spent bool
}

// NewUnicodeBuffer returns a fresh, empty buffer.
func NewUnicodeBuffer() *UnicodeBuffer {
	return &UnicodeBuffer{raw: hb.NewBuffer()}
}

func (b *UnicodeBuffer) guard() *hb.Buffer {
	if b.spent {
		panic("hbshape: use of a UnicodeBuffer after shaping consumed it")
	}
	return b.raw
}

// Len returns the number of codepoints in the buffer.
func (b *UnicodeBuffer) Len() int { return b.guard().Len() }

// Add appends one codepoint with an explicit cluster value.
func (b *UnicodeBuffer) Add(r rune, cluster uint32) *UnicodeBuffer {
	b.guard().AddRune(r, cluster)
	return b
}

// AddStr appends a whole UTF-8 string. Cluster values are byte offsets.
func (b *UnicodeBuffer) AddStr(s string) *UnicodeBuffer {
	b.guard().AddString(s, 0, -1)
	return b
}

// AddStrItem appends the item s[offset:offset+length] of a string, keeping
// the surrounding runes as shaping context. length -1 means to the end.
func (b *UnicodeBuffer) AddStrItem(s string, offset, length int) *UnicodeBuffer {
	b.guard().AddString(s, offset, length)
	return b
}

// AddRunes appends the item runes[offset:offset+length] with rune-index
// clusters, keeping the surrounding runes as shaping context.
func (b *UnicodeBuffer) AddRunes(runes []rune, offset, length int) *UnicodeBuffer {
	b.guard().AddRunes(runes, offset, length)
	return b
}

// Codepoints returns the buffer's current codepoints.
func (b *UnicodeBuffer) Codepoints() []rune {
	raw := b.guard()
	out := make([]rune, raw.Len())
	for i, gi := range raw.Info {
		out[i] = rune(gi.Codepoint)
	}
	return out
}

// String returns the buffer's text. Cluster values and context are lost;
// this is a diagnostic view, not a round-trip.
func (b *UnicodeBuffer) String() string {
	return string(b.Codepoints())
}

// Append copies all codepoints of other onto the end of b, keeping their
// cluster values.
func (b *UnicodeBuffer) Append(other *UnicodeBuffer) *UnicodeBuffer {
	return b.AppendRange(other, 0, other.Len())
}

// AppendRange copies codepoints [start:end) of other onto the end of b.
func (b *UnicodeBuffer) AppendRange(other *UnicodeBuffer, start, end int) *UnicodeBuffer {
	b.guard().Append(other.guard(), start, end)
	return b
}

// SetDirection sets the run direction.
func (b *UnicodeBuffer) SetDirection(d Direction) *UnicodeBuffer {
	b.guard().Props.Direction = d
	return b
}

// Direction returns the run direction, DirectionInvalid if unset.
func (b *UnicodeBuffer) Direction() Direction { return b.guard().Props.Direction }

// SetScript sets the run script.
func (b *UnicodeBuffer) SetScript(s Script) *UnicodeBuffer {
	b.guard().Props.Script = s
	return b
}

// Script returns the run script, zero if unset.
func (b *UnicodeBuffer) Script() Script { return b.guard().Props.Script }

// SetLanguage sets the run language.
func (b *UnicodeBuffer) SetLanguage(l Language) *UnicodeBuffer {
	b.guard().Props.Language = l
	return b
}

// Language returns the run language, empty if unset.
func (b *UnicodeBuffer) Language() Language { return b.guard().Props.Language }

// SetSegmentProperties sets direction, script and language at once.
func (b *UnicodeBuffer) SetSegmentProperties(props SegmentProperties) *UnicodeBuffer {
	b.guard().Props = props
	return b
}

// SegmentProperties returns the current run properties.
func (b *UnicodeBuffer) SegmentProperties() SegmentProperties { return b.guard().Props }

// SetClusterLevel selects the cluster merging policy.
func (b *UnicodeBuffer) SetClusterLevel(cl ClusterLevel) *UnicodeBuffer {
	b.guard().ClusterLevel = cl
	return b
}

// ClusterLevel returns the cluster merging policy.
func (b *UnicodeBuffer) ClusterLevel() ClusterLevel { return b.guard().ClusterLevel }

// SetFlags sets the buffer flags.
func (b *UnicodeBuffer) SetFlags(flags BufferFlags) *UnicodeBuffer {
	b.guard().Flags = flags
	return b
}

// Flags returns the buffer flags.
func (b *UnicodeBuffer) Flags() BufferFlags { return b.guard().Flags }

// GuessSegmentProperties fills unset run properties from the content.
// Shaping does this implicitly.
func (b *UnicodeBuffer) GuessSegmentProperties() *UnicodeBuffer {
	b.guard().GuessSegmentProperties()
	return b
}

// PreAllocate grows the buffer to hold at least n codepoints.
func (b *UnicodeBuffer) PreAllocate(n int) *UnicodeBuffer {
	b.guard().PreAllocate(n)
	return b
}

// ClearContents drops text and run properties, keeping the allocation.
func (b *UnicodeBuffer) ClearContents() *UnicodeBuffer {
	b.guard().ClearContents()
	return b
}

// GlyphBuffer holds the result of shaping: glyphs with cluster values and
// positions. It cannot accept text; recycle it with [GlyphBuffer.Clear].
type GlyphBuffer struct {
	raw *hb.Buffer
}

// Len returns the number of glyphs.
func (b *GlyphBuffer) Len() int { return b.raw.Len() }

// GlyphInfos returns the glyph slots. The slice aliases the buffer and is
// valid until the buffer is recycled.
func (b *GlyphBuffer) GlyphInfos() []GlyphInfo { return b.raw.Info }

// GlyphPositions returns the glyph placements, parallel to GlyphInfos.
func (b *GlyphBuffer) GlyphPositions() []GlyphPosition { return b.raw.Pos }

// SegmentProperties returns the run properties the glyphs were shaped with.
func (b *GlyphBuffer) SegmentProperties() SegmentProperties { return b.raw.Props }

// Reverse reverses the glyph sequence in place.
func (b *GlyphBuffer) Reverse() { b.raw.Reverse() }

// ReverseRange reverses the glyphs in [start:end).
func (b *GlyphBuffer) ReverseRange(start, end int) { b.raw.ReverseRange(start, end) }

// Append copies glyph slots [start:end) of other onto the end of b.
func (b *GlyphBuffer) Append(other *GlyphBuffer, start, end int) {
	b.raw.Append(other.raw, start, end)
}

// Clear recycles the buffer into a fresh [UnicodeBuffer], reusing the
// allocation. The GlyphBuffer must not be used afterwards.
func (b *GlyphBuffer) Clear() *UnicodeBuffer {
	raw := b.raw
	b.raw = nil
	raw.Reset()
	return &UnicodeBuffer{raw: raw}
}
