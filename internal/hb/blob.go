package hb

import (
	"os"
	"sync"
)

// MemoryMode describes who may write to a blob's bytes.
type MemoryMode uint8

const (
	// MemoryModeReadonly marks byte ranges the blob must never write to,
	// typically because they are caller-owned.
	MemoryModeReadonly MemoryMode = iota
	// MemoryModeWritable marks byte ranges the blob owns exclusively.
	MemoryModeWritable
)

// Blob manages a range of bytes together with a lifetime policy: the bytes
// may be caller-owned (the blob merely pins them against collection), owned
// with a release callback, or a sub-range of another blob.
//
// Blobs are reference counted; the data is never copied by Reference.
type Blob struct {
	refcount
	mu        sync.Mutex
	data      []byte
	mode      MemoryMode
	immutable bool
	release   func() // runs exactly once, on destroy
	parent    *Blob  // non-nil for sub-blobs; holds one reference
}

// NewBlob wraps data in a blob. release, if non-nil, runs when the last
// reference is dropped; use it for bytes whose ownership transfers to the
// blob. The data slice is retained, not copied.
func NewBlob(data []byte, mode MemoryMode, release func()) *Blob {
	b := &Blob{data: data, mode: mode, release: release}
	b.refcount.init()
	return b
}

// NewBlobFromFile reads the file at path into memory and wraps it in a
// writable blob owning the copy.
func NewBlobFromFile(path string) (*Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewBlob(data, MemoryModeWritable, nil), nil
}

// NewSubBlob returns a read-only view of a sub-range of parent. The parent
// gains a reference and becomes immutable, so the view can never be
// invalidated by a parent write or an early parent destroy.
func NewSubBlob(parent *Blob, offset, length int) *Blob {
	data := parent.Data()
	if offset < 0 || offset > len(data) {
		offset = len(data)
	}
	if length < 0 || offset+length > len(data) {
		length = len(data) - offset
	}
	parent.MakeImmutable()
	parent.Reference()
	b := &Blob{data: data[offset : offset+length], mode: MemoryModeReadonly, parent: parent}
	b.refcount.init()
	b.immutable = true
	return b
}

// Reference adds a reference to the blob.
func (b *Blob) Reference() { b.ref() }

// Dereference removes a reference, destroying the blob when it was the last
// one. Destruction runs the release callback exactly once and releases the
// parent of a sub-blob.
func (b *Blob) Dereference() {
	if !b.unref() {
		return
	}
	b.mu.Lock()
	release, parent := b.release, b.parent
	b.release, b.parent = nil, nil
	b.data = nil
	b.mu.Unlock()
	if release != nil {
		release()
	}
	if parent != nil {
		parent.Dereference()
	}
}

// Length returns the number of bytes in the blob.
func (b *Blob) Length() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Data returns the blob's bytes. The returned slice stays valid for the
// lifetime of the blob; writing to it is only permitted through
// WritableData.
func (b *Blob) Data() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// WritableData returns the bytes for writing, or nil and false when the
// blob is immutable, read-only, or shared by more than one reference.
// Mirrors the copy-on-write safety rule of hb_blob_get_data_writable.
func (b *Blob) WritableData() ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.immutable || b.mode != MemoryModeWritable || b.Refcount() > 1 {
		return nil, false
	}
	return b.data, true
}

// MakeImmutable permanently freezes the blob's bytes.
func (b *Blob) MakeImmutable() {
	b.mu.Lock()
	b.immutable = true
	b.mu.Unlock()
}

// IsImmutable reports whether the blob has been frozen.
func (b *Blob) IsImmutable() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.immutable
}
