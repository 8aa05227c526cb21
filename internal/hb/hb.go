/*
Package hb models the object surface of a HarfBuzz-style shaping engine:
reference-counted blobs, faces and fonts, plus single-owner buffers.

The shaping computation itself and the parsing of font binaries are
delegated to a pluggable Engine (production code uses the go-text/typesetting
port of HarfBuzz, see gotext.go). What this package owns is everything that
in the C original is lifetime-critical: reference counts, destroy callbacks,
user-data destructors and the buffer content-type tag. Clients never import
this package directly; the exported wrapper types of package hbshape are the
only supported API.

Reference counting follows the C convention: constructors return an object
with one reference, Reference adds one, Dereference removes one and destroys
the object when the count reaches zero. All counts are atomic, and lazily
computed state is internally synchronized, so distinct references to the
same object may be used from multiple goroutines.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package hb

import (
	"sync/atomic"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'hbshape.hb'
func tracer() tracing.Trace {
	return tracing.Select("hbshape.hb")
}

// refcount is the reference count embedded in every shared engine object.
type refcount struct {
	n atomic.Int32
}

// init sets the initial single reference of a freshly constructed object.
func (rc *refcount) init() {
	rc.n.Store(1)
}

// ref adds a reference. Referencing a dead object is a programming error.
func (rc *refcount) ref() {
	if rc.n.Add(1) <= 1 {
		panic("hb: reference to destroyed object")
	}
}

// unref removes a reference and reports whether the object must be destroyed.
func (rc *refcount) unref() bool {
	n := rc.n.Add(-1)
	if n < 0 {
		panic("hb: dereference of destroyed object")
	}
	return n == 0
}

// Refcount returns the current reference count. Test support.
func (rc *refcount) Refcount() int {
	return int(rc.n.Load())
}
