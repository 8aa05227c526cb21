package hbshape

import (
	"testing"

	"github.com/npillmayer/hbshape/internal/hb"
	"github.com/npillmayer/hbshape/internal/hbtest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaceFromFakeEngine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	eng := hbtest.NewEngine()
	face := newFakeFace(t, eng)
	defer face.Release()

	assert.Equal(t, 1, eng.ParsedFaces())
	assert.EqualValues(t, hbtest.Upem, face.Get().Upem())
	assert.EqualValues(t, 0, face.Get().Index())
	assert.Positive(t, face.Get().GlyphCount())
}

func TestUnparsableDataYieldsEmptyFace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	eng := hbtest.NewEngine()
	eng.FailParse = true
	blob := hb.NewBlob([]byte("not a font"), hb.MemoryModeReadonly, nil)
	face := newFaceWithEngine(eng, blob, 0)
	blob.Dereference()
	defer face.Release()

	assert.True(t, face.Get().IsEmpty())
	assert.EqualValues(t, 1000, face.Get().Upem())
	assert.Zero(t, face.Get().GlyphCount())
}

func TestCountFacesOnGarbage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	blob := NewBlobWithBytes([]byte("garbage"))
	defer blob.Release()
	assert.Zero(t, CountFaces(blob.Get()))
}

func TestSetUpemRespectsImmutability(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	face := newFakeFace(t, hbtest.NewEngine())
	defer face.Release()

	face.Get().SetUpem(2048)
	assert.EqualValues(t, 2048, face.Get().Upem())

	face.Get().MakeImmutable()
	face.Get().SetUpem(512)
	assert.EqualValues(t, 2048, face.Get().Upem(), "immutable face must ignore SetUpem")
}

func TestFontCreationFreezesFace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	face := newFakeFace(t, hbtest.NewEngine())
	defer face.Release()
	require.False(t, face.Get().IsImmutable())

	font := NewFont(face.Get())
	defer font.Release()
	assert.True(t, face.Get().IsImmutable())
}

func TestFaceBlobAddsReference(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	face := NewFaceFromBytes([]byte("0123456789"), 0)
	defer face.Release()

	blob := face.Get().FaceBlob()
	assert.Equal(t, 2, blob.Get().Refcount())
	assert.Equal(t, 10, blob.Get().Len())
	blob.Release()
}

func TestFaceUserData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	face := newFakeFace(t, hbtest.NewEngine())
	key := &UserDataKey{Name: "cache"}

	destroyed := 0
	SetFaceUserData(face.Get(), key, "first", func(string) { destroyed++ })

	v, ok := FaceUserData[string](face.Get(), key)
	require.True(t, ok)
	assert.Equal(t, "first", v)

	// a lookup under the wrong type misses without touching the slot
	_, ok = FaceUserData[int](face.Get(), key)
	assert.False(t, ok)

	// replacement destroys the old value
	SetFaceUserData(face.Get(), key, "second", func(string) { destroyed++ })
	assert.Equal(t, 1, destroyed)

	// keys compare by identity, not by name
	other := &UserDataKey{Name: "cache"}
	_, ok = FaceUserData[string](face.Get(), other)
	assert.False(t, ok)

	face.Release()
	assert.Equal(t, 2, destroyed, "face destruction runs the remaining destructor")
}

func TestRemoveFaceUserData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	face := newFakeFace(t, hbtest.NewEngine())
	defer face.Release()
	key := &UserDataKey{Name: "token"}

	destroyed := 0
	SetFaceUserData(face.Get(), key, 42, func(int) { destroyed++ })
	RemoveFaceUserData(face.Get(), key)
	assert.Equal(t, 1, destroyed)
	_, ok := FaceUserData[int](face.Get(), key)
	assert.False(t, ok)

	// removing again must not run the destructor a second time
	RemoveFaceUserData(face.Get(), key)
	assert.Equal(t, 1, destroyed)
}
