package hbshape

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/hbshape/internal/hb"
	"github.com/tidwall/gjson"
)

// SerializeFormat selects the wire form of a serialized glyph run.
type SerializeFormat uint8

const (
	// SerializeText is the hb-shape text form,
	// e.g. [uni0048=0+550|uni0065=1+520].
	SerializeText SerializeFormat = iota
	// SerializeJSON is a JSON array of glyph records,
	// e.g. [{"g":42,"cl":0,"dx":0,"dy":0,"ax":550,"ay":0}].
	SerializeJSON
)

// SerializeFlags omit parts of the serialized output.
type SerializeFlags uint8

const (
	SerializeNoClusters SerializeFlags = 1 << iota
	SerializeNoPositions
	SerializeNoAdvances
	SerializeNoGlyphNames
	// SerializeGlyphFlags adds nonzero glyph flag masks, "#1" in the text
	// format and an "fl" member in the JSON format.
	SerializeGlyphFlags
)

// Serialize renders the glyph run in the requested format. font is optional
// and only consulted for glyph names in the text format; pass nil to always
// print numeric glyph ids.
func (b *GlyphBuffer) Serialize(font *Font, format SerializeFormat, flags SerializeFlags) string {
	switch format {
	case SerializeJSON:
		return b.serializeJSON(flags)
	default:
		return b.serializeText(font, flags)
	}
}

func (b *GlyphBuffer) serializeText(font *Font, flags SerializeFlags) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, gi := range b.raw.Info {
		if i > 0 {
			sb.WriteByte('|')
		}
		name := ""
		if font != nil && flags&SerializeNoGlyphNames == 0 {
			name, _ = font.GlyphName(gi.Codepoint)
		}
		if name == "" {
			name = strconv.FormatUint(uint64(gi.Codepoint), 10)
		}
		sb.WriteString(name)
		if flags&SerializeNoClusters == 0 {
			sb.WriteByte('=')
			sb.WriteString(strconv.FormatUint(uint64(gi.Cluster), 10))
		}
		if flags&SerializeNoPositions == 0 {
			pos := b.raw.Pos[i]
			if pos.XOffset != 0 || pos.YOffset != 0 {
				fmt.Fprintf(&sb, "@%d,%d", pos.XOffset, pos.YOffset)
			}
			if flags&SerializeNoAdvances == 0 {
				fmt.Fprintf(&sb, "+%d", pos.XAdvance)
				if pos.YAdvance != 0 {
					fmt.Fprintf(&sb, ",%d", pos.YAdvance)
				}
			}
		}
		if flags&SerializeGlyphFlags != 0 && gi.Mask != 0 {
			fmt.Fprintf(&sb, "#%d", gi.Mask)
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// glyphRecord is the JSON form of one positioned glyph, matching the field
// names hb-shape emits.
type glyphRecord struct {
	G  uint32  `json:"g"`
	Cl *uint32 `json:"cl,omitempty"`
	DX int32   `json:"dx"`
	DY int32   `json:"dy"`
	AX int32   `json:"ax"`
	AY int32   `json:"ay"`
	Fl uint32  `json:"fl,omitempty"`
}

func (b *GlyphBuffer) serializeJSON(flags SerializeFlags) string {
	records := make([]glyphRecord, b.Len())
	for i, gi := range b.raw.Info {
		rec := glyphRecord{G: gi.Codepoint}
		if flags&SerializeNoClusters == 0 {
			cl := gi.Cluster
			rec.Cl = &cl
		}
		if flags&SerializeNoPositions == 0 {
			pos := b.raw.Pos[i]
			rec.DX, rec.DY = pos.XOffset, pos.YOffset
			if flags&SerializeNoAdvances == 0 {
				rec.AX, rec.AY = pos.XAdvance, pos.YAdvance
			}
		}
		if flags&SerializeGlyphFlags != 0 {
			rec.Fl = gi.Mask
		}
		records[i] = rec
	}
	out, err := json.Marshal(records)
	if err != nil {
		// a slice of plain structs cannot fail to marshal
		panic(err)
	}
	return string(out)
}

// DeserializeGlyphs parses a serialized glyph run back into a glyph buffer.
// font is optional and resolves glyph names in the text format.
func DeserializeGlyphs(s string, font *Font, format SerializeFormat) (*GlyphBuffer, error) {
	buf := hb.NewBuffer()
	buf.ContentType = hb.ContentTypeGlyphs
	var err error
	switch format {
	case SerializeJSON:
		err = deserializeJSON(s, buf)
	default:
		err = deserializeText(s, font, buf)
	}
	if err != nil {
		return nil, err
	}
	return &GlyphBuffer{raw: buf}, nil
}

func deserializeText(s string, font *Font, buf *hb.Buffer) error {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return nil
	}
	for _, item := range strings.Split(s, "|") {
		var gi hb.GlyphInfo
		var pos hb.GlyphPosition

		rest := item
		if hash := strings.LastIndexByte(rest, '#'); hash >= 0 {
			fl, err := strconv.ParseUint(rest[hash+1:], 10, 32)
			if err != nil {
				return fmt.Errorf("glyph %q: bad flags: %w", item, err)
			}
			gi.Mask = uint32(fl)
			rest = rest[:hash]
		}
		if at := strings.IndexAny(rest, "@+"); at >= 0 {
			head := rest[:at]
			tail := rest[at:]
			if err := parseGlyphAndCluster(head, font, &gi); err != nil {
				return err
			}
			if err := parsePositions(tail, &pos); err != nil {
				return fmt.Errorf("glyph %q: %w", item, err)
			}
		} else if err := parseGlyphAndCluster(rest, font, &gi); err != nil {
			return err
		}
		buf.Info = append(buf.Info, gi)
		buf.Pos = append(buf.Pos, pos)
	}
	return nil
}

func parseGlyphAndCluster(s string, font *Font, gi *hb.GlyphInfo) error {
	name := s
	if eq := strings.IndexByte(s, '='); eq >= 0 {
		name = s[:eq]
		cl, err := strconv.ParseUint(s[eq+1:], 10, 32)
		if err != nil {
			return fmt.Errorf("glyph %q: bad cluster: %w", s, err)
		}
		gi.Cluster = uint32(cl)
	}
	if g, err := strconv.ParseUint(name, 10, 32); err == nil {
		gi.Codepoint = uint32(g)
		return nil
	}
	if font != nil {
		if g, ok := font.GlyphFromName(name); ok {
			gi.Codepoint = g
			return nil
		}
	}
	return fmt.Errorf("glyph %q: unknown glyph name", s)
}

func parsePositions(s string, pos *hb.GlyphPosition) error {
	if strings.HasPrefix(s, "@") {
		rest := s[1:]
		end := strings.IndexByte(rest, '+')
		offs := rest
		if end >= 0 {
			offs = rest[:end]
			s = rest[end:]
		} else {
			s = ""
		}
		dx, dy, ok := strings.Cut(offs, ",")
		if !ok {
			return fmt.Errorf("bad offsets %q", offs)
		}
		x, err := strconv.ParseInt(dx, 10, 32)
		if err != nil {
			return fmt.Errorf("bad x offset: %w", err)
		}
		y, err := strconv.ParseInt(dy, 10, 32)
		if err != nil {
			return fmt.Errorf("bad y offset: %w", err)
		}
		pos.XOffset, pos.YOffset = int32(x), int32(y)
	}
	if strings.HasPrefix(s, "+") {
		adv := s[1:]
		ax, ay, hasY := strings.Cut(adv, ",")
		x, err := strconv.ParseInt(ax, 10, 32)
		if err != nil {
			return fmt.Errorf("bad x advance: %w", err)
		}
		pos.XAdvance = int32(x)
		if hasY {
			y, err := strconv.ParseInt(ay, 10, 32)
			if err != nil {
				return fmt.Errorf("bad y advance: %w", err)
			}
			pos.YAdvance = int32(y)
		}
	}
	return nil
}

func deserializeJSON(s string, buf *hb.Buffer) error {
	parsed := gjson.Parse(s)
	if !parsed.IsArray() {
		return fmt.Errorf("glyph JSON: expected an array, got %s", parsed.Type)
	}
	var err error
	parsed.ForEach(func(_, rec gjson.Result) bool {
		if !rec.IsObject() {
			err = fmt.Errorf("glyph JSON: expected an object, got %q", rec.Raw)
			return false
		}
		g := rec.Get("g")
		if !g.Exists() {
			err = fmt.Errorf("glyph JSON: record %q lacks \"g\"", rec.Raw)
			return false
		}
		buf.Info = append(buf.Info, hb.GlyphInfo{
			Codepoint: uint32(g.Uint()),
			Cluster:   uint32(rec.Get("cl").Uint()),
			Mask:      uint32(rec.Get("fl").Uint()),
		})
		buf.Pos = append(buf.Pos, hb.GlyphPosition{
			XOffset:  int32(rec.Get("dx").Int()),
			YOffset:  int32(rec.Get("dy").Int()),
			XAdvance: int32(rec.Get("ax").Int()),
			YAdvance: int32(rec.Get("ay").Int()),
		})
		return true
	})
	return err
}
