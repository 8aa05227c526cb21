/*
Package hbshape is a safe, idiomatic API for HarfBuzz-style text shaping.

Shaping turns a sequence of Unicode codepoints into a sequence of positioned
glyphs for a concrete font. The API follows the object model of the HarfBuzz
library: a [Blob] holds raw font bytes, a [Face] is one parsed font of a
binary, a [Font] adds scale and metric behavior, and buffers carry text in
and glyphs out. All of these are reference-counted resources managed through
[Owned] and [Shared] handles, so the lifetime rules of the C library carry
over without its footguns.

Typical use:

	face := hbshape.NewFaceFromBytes(fontBytes, 0)
	defer face.Release()
	font := hbshape.NewFont(face.Get())
	defer font.Release()

	buf := hbshape.NewUnicodeBuffer().AddStr("Hello World!")
	out := hbshape.Shape(font.Get(), buf, nil)
	for i, gi := range out.GlyphInfos() {
		// gi.Codepoint is a glyph id here, positions in out.GlyphPositions()
		_ = i
	}

The buffer API is a typed state machine: [UnicodeBuffer] accepts text,
[Shape] consumes it and returns a [GlyphBuffer], and [GlyphBuffer.Clear]
recycles the allocation back into a fresh UnicodeBuffer. Holding both views
of the same buffer at once is impossible.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package hbshape

import "github.com/npillmayer/schuko/tracing"

// tracer returns a trace sink for the hbshape package namespace.
func tracer() tracing.Trace {
	return tracing.Select("hbshape")
}
