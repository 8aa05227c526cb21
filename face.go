package hbshape

import "github.com/npillmayer/hbshape/internal/hb"

// Face is one parsed font of a font binary. Faces are immutable once a
// [Font] has been created over them and may be shared freely across
// goroutines.
//
// Creating a face never fails: malformed data yields the empty face with
// zero glyphs and UPEM 1000. Shaping with it produces .notdef glyphs.
// Use [Face.IsEmpty] to detect this.
type Face struct {
	raw *hb.Face
}

// Reference adds a reference count. Prefer [Shared] handles.
func (f *Face) Reference() { f.raw.Reference() }

// Dereference drops a reference count. Prefer [Shared] handles.
func (f *Face) Dereference() { f.raw.Dereference() }

// NewFace parses face number index out of blob. The blob is referenced and
// frozen for the face's lifetime.
func NewFace(blob *Blob, index uint32) Owned[*Face] {
	return newFaceWithEngine(hb.DefaultEngine(), blob.raw, index)
}

// NewFaceFromBytes wraps data in a blob and parses a face from it.
func NewFaceFromBytes(data []byte, index uint32) Owned[*Face] {
	blob := hb.NewBlob(data, hb.MemoryModeReadonly, nil)
	face := newFaceWithEngine(hb.DefaultEngine(), blob, index)
	blob.Dereference()
	return face
}

// NewFaceFromFile reads a font file and parses a face from it. The error
// only concerns reading the file; unparsable content yields the empty face.
func NewFaceFromFile(path string, index uint32) (Owned[*Face], error) {
	blob, err := hb.NewBlobFromFile(path)
	if err != nil {
		return Owned[*Face]{}, err
	}
	face := newFaceWithEngine(hb.DefaultEngine(), blob, index)
	blob.Dereference()
	return face, nil
}

// NewEmptyFace returns the empty face: zero glyphs, UPEM 1000.
func NewEmptyFace() Owned[*Face] {
	return NewOwned(&Face{raw: hb.NewEmptyFace(hb.DefaultEngine())})
}

func newFaceWithEngine(eng hb.Engine, blob *hb.Blob, index uint32) Owned[*Face] {
	return NewOwned(&Face{raw: hb.NewFace(eng, blob, index)})
}

// CountFaces reports how many faces blob contains, 0 for unparsable data.
func CountFaces(blob *Blob) int {
	return hb.CountFaces(hb.DefaultEngine(), blob.raw)
}

// Upem returns the face's units per EM.
func (f *Face) Upem() uint32 { return f.raw.Upem() }

// SetUpem overrides the units-per-EM value. No-op on immutable faces.
func (f *Face) SetUpem(upem uint32) { f.raw.SetUpem(upem) }

// GlyphCount returns the number of glyphs in the face.
func (f *Face) GlyphCount() int { return f.raw.GlyphCount() }

// Index returns the face index within the font binary.
func (f *Face) Index() uint32 { return f.raw.Index() }

// IsEmpty reports whether this is the empty face.
func (f *Face) IsEmpty() bool { return f.raw.IsEmpty() }

// FaceBlob returns the face's backing blob with its own reference.
func (f *Face) FaceBlob() Shared[*Blob] {
	return NewShared(&Blob{raw: f.raw.ReferenceBlob()})
}

// MakeImmutable freezes the face.
func (f *Face) MakeImmutable() { f.raw.MakeImmutable() }

// IsImmutable reports whether the face has been frozen.
func (f *Face) IsImmutable() bool { return f.raw.IsImmutable() }

// Refcount exposes the current reference count, mainly for tests.
func (f *Face) Refcount() int { return f.raw.Refcount() }

// SetFaceUserData attaches a typed value to the face under key. destroy, if
// non-nil, runs exactly once: on replacement, removal, or face destruction.
func SetFaceUserData[T any](f *Face, key *UserDataKey, value T, destroy func(T)) {
	f.raw.SetUserData(key, value, eraseDestroy(destroy))
}

// FaceUserData returns the value stored under key, with ok false when the
// slot is empty or holds a value of a different type.
func FaceUserData[T any](f *Face, key *UserDataKey) (T, bool) {
	v, ok := f.raw.UserData(key).(T)
	return v, ok
}

// RemoveFaceUserData removes key's value, running its destructor.
func RemoveFaceUserData(f *Face, key *UserDataKey) {
	f.raw.RemoveUserData(key)
}

// eraseDestroy adapts a typed destructor to the erased slot interface.
// The type assertion cannot fail: the slot value was stored as T.
func eraseDestroy[T any](destroy func(T)) func(any) {
	if destroy == nil {
		return nil
	}
	return func(v any) { destroy(v.(T)) }
}
