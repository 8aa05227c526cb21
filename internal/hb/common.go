package hb

import (
	"fmt"
	"os"
	"strings"
)

// Position is a single coordinate or distance in scaled font units,
// i.e. design units multiplied by the font scale over units-per-em.
type Position = int32

// Glyph is a font-internal glyph identifier. It shares representation with
// Unicode codepoints inside buffers but must never be confused with one.
type Glyph = uint32

// Tag is a 4-byte identifier as used for OpenType tables, features and
// scripts. The zero Tag is invalid.
type Tag uint32

// NewTag builds a Tag from its four-character representation.
func NewTag(a, b, c, d byte) Tag {
	return Tag(uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d))
}

// TagFromString parses up to four ASCII characters into a Tag, padding
// short input with spaces. Longer input is truncated, matching the behavior
// of hb_tag_from_string.
func TagFromString(s string) (Tag, error) {
	if s == "" {
		return 0, fmt.Errorf("tag: empty string")
	}
	var b [4]byte
	b[0], b[1], b[2], b[3] = ' ', ' ', ' ', ' '
	for i := 0; i < 4 && i < len(s); i++ {
		if s[i] > 0x7f {
			return 0, fmt.Errorf("tag: non-ASCII character in %q", s)
		}
		b[i] = s[i]
	}
	return NewTag(b[0], b[1], b[2], b[3]), nil
}

// Bytes returns the tag as a 4-element byte array.
func (t Tag) Bytes() [4]byte {
	return [4]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)}
}

func (t Tag) String() string {
	b := t.Bytes()
	return string(b[:])
}

// Direction is the direction in which text is to be read.
type Direction uint8

const (
	DirectionInvalid Direction = iota
	LeftToRight
	RightToLeft
	TopToBottom
	BottomToTop
)

// IsHorizontal is false for the invalid direction.
func (d Direction) IsHorizontal() bool {
	return d == LeftToRight || d == RightToLeft
}

// IsVertical is false for the invalid direction.
func (d Direction) IsVertical() bool {
	return d == TopToBottom || d == BottomToTop
}

// Reverse maps LTR to RTL and TTB to BTT and vice versa.
func (d Direction) Reverse() Direction {
	switch d {
	case LeftToRight:
		return RightToLeft
	case RightToLeft:
		return LeftToRight
	case TopToBottom:
		return BottomToTop
	case BottomToTop:
		return TopToBottom
	}
	return DirectionInvalid
}

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "ltr"
	case RightToLeft:
		return "rtl"
	case TopToBottom:
		return "ttb"
	case BottomToTop:
		return "btt"
	}
	return "invalid"
}

// Script identifies a writing system by its ISO 15924 tag.
// The zero Script means "not set"; shaping then guesses from the text.
type Script Tag

// ScriptFromTag interprets an ISO 15924 tag as a Script.
func ScriptFromTag(t Tag) Script { return Script(t) }

// Tag returns the ISO 15924 tag of the script.
func (s Script) Tag() Tag { return Tag(s) }

func (s Script) String() string { return Tag(s).String() }

// Language is a lowercased BCP-47 language tag, e.g. "en" or "zh-cn".
// The empty Language means "not set".
type Language string

// NewLanguage normalizes a language string: lowercased, underscores turned
// into hyphens, truncated at the first character outside the BCP-47 alphabet.
func NewLanguage(s string) Language {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			c += 'a' - 'A'
		case c == '_':
			c = '-'
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-':
		default:
			return Language(out)
		}
		out = append(out, c)
	}
	return Language(out)
}

// DefaultLanguage derives a language from the process locale environment,
// falling back to "c" when none is set. Checked in the order the C library
// does: LANGUAGE, LC_ALL, LC_CTYPE, LANG.
func DefaultLanguage() Language {
	for _, key := range []string{"LANGUAGE", "LC_ALL", "LC_CTYPE", "LANG"} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		// strip encoding and modifier, as in "en_US.UTF-8@euro"
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v != "" && v != "C" && v != "POSIX" {
			return NewLanguage(v)
		}
	}
	return "c"
}

// FontExtents describes font-wide vertical metrics in scaled font units.
type FontExtents struct {
	Ascender  Position
	Descender Position
	LineGap   Position
}

// GlyphExtents describes the ink box of one glyph in scaled font units.
// Height is negative in coordinate systems that grow up.
type GlyphExtents struct {
	XBearing Position
	YBearing Position
	Width    Position
	Height   Position
}
