package hbshape

import "github.com/npillmayer/hbshape/internal/hb"

// Blob wraps a chunk of raw bytes, usually a font binary, behind a
// reference count. Blobs referenced by a [Face] stay alive as long as the
// face does, so client code never has to reason about byte lifetimes.
type Blob struct {
	raw *hb.Blob
}

// Reference adds a reference count. Prefer [Shared] handles.
func (b *Blob) Reference() { b.raw.Reference() }

// Dereference drops a reference count. Prefer [Shared] handles.
func (b *Blob) Dereference() { b.raw.Dereference() }

// NewBlobWithBytes wraps data in a read-only blob. The blob borrows data;
// the caller must not mutate it while the blob or anything referencing the
// blob is alive.
func NewBlobWithBytes(data []byte) Owned[*Blob] {
	return NewOwned(&Blob{raw: hb.NewBlob(data, hb.MemoryModeReadonly, nil)})
}

// NewBlobWithRelease wraps data and registers a release callback that runs
// exactly once, when the blob is destroyed.
func NewBlobWithRelease(data []byte, release func()) Owned[*Blob] {
	return NewOwned(&Blob{raw: hb.NewBlob(data, hb.MemoryModeReadonly, release)})
}

// NewBlobWritable wraps data in a blob whose bytes may be mutated through
// [Blob.WritableData] while the blob is unshared and mutable.
func NewBlobWritable(data []byte, release func()) Owned[*Blob] {
	return NewOwned(&Blob{raw: hb.NewBlob(data, hb.MemoryModeWritable, release)})
}

// NewBlobFromFile reads path into memory and wraps it.
func NewBlobFromFile(path string) (Owned[*Blob], error) {
	raw, err := hb.NewBlobFromFile(path)
	if err != nil {
		return Owned[*Blob]{}, err
	}
	return NewOwned(&Blob{raw: raw}), nil
}

// Len returns the number of bytes in the blob.
func (b *Blob) Len() int { return b.raw.Length() }

// Data returns the blob's bytes for reading. The slice must not be mutated.
func (b *Blob) Data() []byte { return b.raw.Data() }

// WritableData returns the bytes for mutation, or nil and false if the blob
// is immutable, read-only, or shared.
func (b *Blob) WritableData() ([]byte, bool) { return b.raw.WritableData() }

// SubBlob returns a read-only view of length bytes starting at offset. The
// parent is referenced and frozen; the view shares its memory.
func (b *Blob) SubBlob(offset, length int) Owned[*Blob] {
	return NewOwned(&Blob{raw: hb.NewSubBlob(b.raw, offset, length)})
}

// MakeImmutable freezes the blob's bytes for good.
func (b *Blob) MakeImmutable() { b.raw.MakeImmutable() }

// IsImmutable reports whether the blob has been frozen.
func (b *Blob) IsImmutable() bool { return b.raw.IsImmutable() }

// Refcount exposes the current reference count, mainly for tests.
func (b *Blob) Refcount() int { return b.raw.Refcount() }
