package hbshape

// Resource is a reference-counted object. Reference adds a count, and
// Dereference drops one, destroying the object when the last count is gone.
// The concrete resources of this package ([Blob], [Face], [Font]) all
// satisfy it; client code normally handles them through [Owned] and [Shared]
// instead of calling these directly.
type Resource interface {
	Reference()
	Dereference()
}

// Shared is a counted handle to a resource, analogous to a C-side reference.
// Each Shared owns exactly one count and gives it back with [Shared.Release].
// Copying the struct does not copy the count; use [Shared.Clone] for that.
//
// The zero Shared is released. Using a released handle panics.
type Shared[T Resource] struct {
	handle T
	state  *handleState
}

type handleState struct {
	released bool
}

// NewShared takes over an existing reference count on handle. The caller
// must not dereference handle afterwards.
func NewShared[T Resource](handle T) Shared[T] {
	return Shared[T]{handle: handle, state: &handleState{}}
}

// NewSharedRef adds a fresh reference count to handle and wraps it.
func NewSharedRef[T Resource](handle T) Shared[T] {
	handle.Reference()
	return NewShared(handle)
}

// Clone returns a new handle with its own reference count.
func (s Shared[T]) Clone() Shared[T] {
	return NewSharedRef(s.Get())
}

// Get returns the underlying resource. The resource stays valid as long as
// this handle is unreleased. Panics on a released handle.
func (s Shared[T]) Get() T {
	if s.state == nil || s.state.released {
		panic("hbshape: use of released handle")
	}
	return s.handle
}

// Released reports whether this handle gave up its reference.
func (s Shared[T]) Released() bool {
	return s.state == nil || s.state.released
}

// Release gives the handle's reference count back, destroying the resource
// if it was the last one. Release is idempotent.
func (s Shared[T]) Release() {
	if s.state == nil || s.state.released {
		return
	}
	s.state.released = true
	s.handle.Dereference()
}

// IntoRaw exfiltrates the underlying resource together with this handle's
// reference count, for handing off to code that manages counts manually.
// The handle is released without dereferencing.
func (s Shared[T]) IntoRaw() T {
	h := s.Get()
	s.state.released = true
	return h
}

// Owned is an exclusive handle to a freshly created resource, holding its
// initial reference count. It converts to a [Shared] once the resource needs
// to be handed around.
//
// The zero Owned is released. Using a released handle panics.
type Owned[T Resource] struct {
	inner Shared[T]
}

// NewOwned wraps a freshly created resource whose initial count the caller
// owns.
func NewOwned[T Resource](handle T) Owned[T] {
	return Owned[T]{inner: NewShared(handle)}
}

// Get returns the underlying resource. Panics on a released handle.
func (o Owned[T]) Get() T { return o.inner.Get() }

// Released reports whether this handle gave up its reference.
func (o Owned[T]) Released() bool { return o.inner.Released() }

// Release destroys the resource unless further Shared handles were cloned
// from it. Release is idempotent.
func (o Owned[T]) Release() { o.inner.Release() }

// ToShared converts the exclusive handle into a counted one, consuming it.
// The returned Shared owns the initial reference count.
func (o Owned[T]) ToShared() Shared[T] {
	o.inner.Get() // panics when already released
	return o.inner
}

// IntoRaw exfiltrates the resource with its initial count, releasing the
// handle without dereferencing.
func (o Owned[T]) IntoRaw() T { return o.inner.IntoRaw() }
