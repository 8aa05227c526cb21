package hb

import "sync"

// defaultUpem is used for the empty face, which has no UPEM of its own.
const defaultUpem = 1000

// Face is a refcounted, parsed font face: one font of a font binary,
// selected by index. Faces keep their backing Blob referenced for their
// whole lifetime, so the raw bytes outlive every client handle.
//
// A face that could not be parsed is not an error condition. Malformed
// data yields the empty face: zero glyphs, UPEM 1000. Shaping with it
// produces .notdef glyphs. This mirrors the behavior of the C engine.
type Face struct {
	refcount
	blob  *Blob
	index uint32
	upem  uint32
	src   FaceSource // nil for the empty face
	eng   Engine

	mu        sync.Mutex
	immutable bool
	userData  userDataStore
}

// NewFace parses face number index out of blob. The blob is referenced and
// frozen; it stays alive until the face is destroyed. If the data cannot be
// parsed, or index is out of range, the result is the empty face.
func NewFace(eng Engine, blob *Blob, index uint32) *Face {
	blob.Reference()
	blob.MakeImmutable()
	f := &Face{
		blob:  blob,
		index: index,
		upem:  defaultUpem,
		eng:   eng,
	}
	f.refcount.init()
	src, err := eng.ParseFace(blob.Data(), index)
	if err != nil {
		tracer().Infof("face %d: unusable font data (%v), degrading to empty face", index, err)
		return f
	}
	f.src = src
	if upem := src.Upem(); upem > 0 {
		f.upem = upem
	}
	return f
}

// NewEmptyFace returns a face with no glyphs and UPEM 1000, backed by the
// empty blob.
func NewEmptyFace(eng Engine) *Face {
	blob := NewBlob(nil, MemoryModeReadonly, nil)
	f := NewFace(eng, blob, 0)
	blob.Dereference()
	return f
}

// CountFaces reports how many faces a font binary contains without
// constructing any of them. Unparsable data counts zero faces.
func CountFaces(eng Engine, blob *Blob) int {
	return eng.CountFaces(blob.Data())
}

// Reference increments the face's reference count.
func (f *Face) Reference() { f.refcount.ref() }

// Dereference decrements the reference count and destroys the face when it
// reaches zero. Destruction runs the user-data destructors and releases the
// backing blob.
func (f *Face) Dereference() {
	if !f.refcount.unref() {
		return
	}
	f.userData.destroyAll()
	f.blob.Dereference()
}

// Upem returns the face's units per EM.
func (f *Face) Upem() uint32 { return f.upem }

// SetUpem overrides the units-per-EM value. No-op on immutable faces.
func (f *Face) SetUpem(upem uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.immutable || upem == 0 {
		return
	}
	f.upem = upem
}

// GlyphCount returns the number of glyphs in the face, 0 for the empty face.
func (f *Face) GlyphCount() int {
	if f.src == nil {
		return 0
	}
	return f.src.GlyphCount()
}

// Index returns the face index this face was created with.
func (f *Face) Index() uint32 { return f.index }

// IsEmpty reports whether this is the empty face, i.e. parsing failed or the
// face was constructed without font data.
func (f *Face) IsEmpty() bool { return f.src == nil }

// ReferenceBlob returns the face's backing blob with a fresh reference.
// The caller owns the reference.
func (f *Face) ReferenceBlob() *Blob {
	f.blob.Reference()
	return f.blob
}

// MakeImmutable freezes the face. Fonts freeze their face on creation.
func (f *Face) MakeImmutable() {
	f.mu.Lock()
	f.immutable = true
	f.mu.Unlock()
}

// IsImmutable reports whether the face has been frozen.
func (f *Face) IsImmutable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.immutable
}

// SetUserData attaches value under key, replacing any previous value for the
// key. destroy, if non-nil, runs exactly once: when the value is replaced,
// explicitly removed, or the face is destroyed.
func (f *Face) SetUserData(key *UserDataKey, value any, destroy func(any)) {
	f.userData.set(key, value, destroy)
}

// UserData returns the value stored under key, or nil.
func (f *Face) UserData(key *UserDataKey) any {
	return f.userData.get(key)
}

// RemoveUserData removes key's value, running its destructor.
func (f *Face) RemoveUserData(key *UserDataKey) {
	f.userData.remove(key)
}
