package hbshape

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedReleaseIsBalanced(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	released := 0
	blob := NewBlobWithRelease([]byte("payload"), func() { released++ })
	shared := blob.ToShared()
	clone1 := shared.Clone()
	clone2 := shared.Clone()
	assert.Equal(t, 3, shared.Get().Refcount())

	clone1.Release()
	clone1.Release() // idempotent
	assert.Equal(t, 0, released)
	clone2.Release()
	assert.Equal(t, 0, released)
	shared.Release()
	assert.Equal(t, 1, released, "release callback must run exactly once")
}

func TestReleasedHandlePanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	blob := NewBlobWithBytes([]byte("x"))
	blob.Release()
	assert.True(t, blob.Released())
	assert.Panics(t, func() { blob.Get() })
	assert.Panics(t, func() { var zero Shared[*Blob]; zero.Get() })
}

func TestIntoRawHandsOffTheCount(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	released := 0
	blob := NewBlobWithRelease([]byte("x"), func() { released++ })
	raw := blob.IntoRaw()
	assert.True(t, blob.Released())
	assert.Equal(t, 0, released, "IntoRaw must not dereference")

	raw.Dereference() // the exfiltrated count
	assert.Equal(t, 1, released)
}

func TestObjectsOutliveHandlesWhileReferenced(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	released := false
	blob := NewBlobWithRelease([]byte("font bytes"), func() { released = true })
	face := NewFace(blob.Get(), 0)
	blob.Release()
	require.False(t, released, "face must keep the blob alive")

	held := face.Get().FaceBlob()
	assert.Equal(t, 10, held.Get().Len())
	face.Release()
	assert.False(t, released, "blob handle still holds a count")
	held.Release()
	assert.True(t, released)
}
