package hbshape

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	data := []byte("0123456789")
	blob := NewBlobWithBytes(data)
	defer blob.Release()
	assert.Equal(t, 10, blob.Get().Len())
	assert.Equal(t, data, blob.Get().Data())
}

func TestWritableDataGating(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	blob := NewBlobWritable([]byte("abc"), nil)
	defer blob.Release()

	w, ok := blob.Get().WritableData()
	require.True(t, ok)
	w[0] = 'x'
	assert.Equal(t, []byte("xbc"), blob.Get().Data())

	// a second count makes the bytes off limits
	clone := blob.ToShared().Clone()
	_, ok = blob.Get().WritableData()
	assert.False(t, ok)
	clone.Release()
	_, ok = blob.Get().WritableData()
	assert.True(t, ok)

	blob.Get().MakeImmutable()
	_, ok = blob.Get().WritableData()
	assert.False(t, ok)

	// read-only blobs never hand out writable bytes
	ro := NewBlobWithBytes([]byte("abc"))
	defer ro.Release()
	_, ok = ro.Get().WritableData()
	assert.False(t, ok)
}

func TestSubBlobSharesAndFreezesParent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	released := false
	parent := NewBlobWithRelease([]byte("0123456789"), func() { released = true })
	sub := parent.Get().SubBlob(2, 4)
	assert.Equal(t, []byte("2345"), sub.Get().Data())
	assert.True(t, parent.Get().IsImmutable(), "sub-blob must freeze the parent")

	parent.Release()
	assert.False(t, released, "sub-blob keeps the parent alive")
	sub.Release()
	assert.True(t, released)
}

func TestBlobFromMissingFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbshape")
	defer teardown()
	_, err := NewBlobFromFile("testdata/no-such-font.ttf")
	assert.Error(t, err)
}
