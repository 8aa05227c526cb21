package hb

// Shape shapes the Unicode content of buf with font, leaving positioned
// glyphs in the buffer. Segment properties that were not set are guessed
// from the content first. Shaping never fails: unmappable codepoints come
// back as glyph 0 (.notdef), and an empty buffer simply yields an empty
// glyph run.
//
// Panics if buf does not hold Unicode content.
func Shape(font *Font, buf *Buffer, features []Feature) {
	if buf.ContentType == ContentTypeGlyphs {
		panic("hb: shaping a buffer that already holds glyphs")
	}
	buf.GuessSegmentProperties()
	if buf.Len() == 0 {
		buf.ContentType = ContentTypeGlyphs
		return
	}
	tracer().Debugf("shaping %d codepoints, %s %s", buf.Len(),
		buf.Props.Script, buf.Props.Direction)

	if src := font.shapingSource(); src != nil {
		src.Shape(font, buf, features)
		applyAdvanceOverrides(font, buf)
	} else {
		shapeFallback(font, buf)
	}
	buf.ContentType = ContentTypeGlyphs
}

// shapingSource finds the engine state to shape with, walking the parent
// chain. Fonts over the empty face have none.
func (f *Font) shapingSource() FontSource {
	for p := f; p != nil; p = p.parent {
		if p.src != nil {
			return p.src
		}
	}
	return nil
}

// applyAdvanceOverrides reconciles client advance callbacks with the engine
// result. The engine shapes with its own metrics; afterwards each glyph's
// advance is shifted by the difference between the font's resolved advance
// and the engine default, which preserves positioning deltas from kerning
// and mark attachment.
func applyAdvanceOverrides(font *Font, buf *Buffer) {
	vertical := buf.Props.Direction.IsVertical()
	if !font.overridesAdvance(vertical) {
		return
	}
	for i := range buf.Info {
		g := Glyph(buf.Info[i].Codepoint)
		if vertical {
			buf.Pos[i].YAdvance += font.GlyphVAdvance(g) - font.defaultGlyphVAdvance(g)
		} else {
			buf.Pos[i].XAdvance += font.GlyphHAdvance(g) - font.defaultGlyphHAdvance(g)
		}
	}
}

// shapeFallback is the degenerate shaper for fonts without engine state:
// every codepoint maps through the font's glyph lookup (honoring installed
// funcs) or to .notdef, advances come from the font, and right-to-left runs
// are reversed. No substitution or positioning beyond that.
func shapeFallback(font *Font, buf *Buffer) {
	vertical := buf.Props.Direction.IsVertical()
	for i := range buf.Info {
		g, ok := font.NominalGlyph(rune(buf.Info[i].Codepoint))
		if !ok {
			g = 0
		}
		buf.Info[i].Codepoint = g
		pos := GlyphPosition{}
		if vertical {
			pos.YAdvance = font.GlyphVAdvance(g)
		} else {
			pos.XAdvance = font.GlyphHAdvance(g)
		}
		buf.Pos[i] = pos
	}
	if buf.Props.Direction == RightToLeft || buf.Props.Direction == BottomToTop {
		buf.Reverse()
	}
}
