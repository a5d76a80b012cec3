package sharedtex

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/sharedtex/internal/shm"
	"github.com/gogpu/sharedtex/registry"
)

// Mapping is a mapped view of the registry segment.
type Mapping interface {
	Bytes() []byte
	Close() error
}

// Opener opens and maps the registry segment. Region calls it lazily until it
// succeeds.
type Opener func() (Mapping, error)

// Region is the shared region accessor. It maps the producer's segment on
// first use and keeps the view for the lifetime of the Region.
//
// An absent producer is a normal state: Access returns nil and the next call
// tries again. No error ever reaches the caller.
//
// Region is safe for concurrent use. Multiple sources share one Region and
// each keeps its own cached slot index into it.
type Region struct {
	snap atomic.Pointer[registry.Snapshot]

	mu      sync.Mutex
	open    Opener
	mapping Mapping
	lastErr string
}

// NewRegion returns a Region that maps the segment with open.
func NewRegion(open Opener) *Region {
	return &Region{open: open}
}

// OpenRegion returns a Region for the named shared memory segment.
// Nothing is opened until the first Access.
func OpenRegion(name string) *Region {
	return NewRegion(func() (Mapping, error) {
		return shm.Open(name, registry.Size)
	})
}

// NewRegionFromBytes returns a Region over an in-process buffer of at least
// registry.Size bytes. Used by tests and by producers living in the same
// process as their consumer.
func NewRegionFromBytes(b []byte) (*Region, error) {
	if _, err := registry.FromBytes(b); err != nil {
		return nil, err
	}
	return NewRegion(func() (Mapping, error) {
		return bytesMapping(b), nil
	}), nil
}

var defaultRegion = sync.OnceValue(func() *Region {
	return OpenRegion(registry.SegmentName)
})

// DefaultRegion returns the process-wide Region for the game's well-known
// segment. It is never closed.
func DefaultRegion() *Region {
	return defaultRegion()
}

// Access returns the mapped registry, or nil if the segment cannot be opened
// or mapped yet.
func (r *Region) Access() *registry.Snapshot {
	if s := r.snap.Load(); s != nil {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s := r.snap.Load(); s != nil {
		return s
	}

	m, err := r.open()
	if err != nil {
		r.noteFailure(err.Error())
		return nil
	}
	s, err := registry.FromBytes(m.Bytes())
	if err != nil {
		_ = m.Close()
		r.noteFailure(err.Error())
		return nil
	}

	r.mapping = m
	r.lastErr = ""
	r.snap.Store(s)
	Logger().Info("sharedtex: registry mapped", "items", s.ItemsCount)
	return s
}

// Available reports whether the segment is currently mapped, mapping it if
// possible.
func (r *Region) Available() bool {
	return r.Access() != nil
}

// Close unmaps the view. A later Access maps the segment again.
// DefaultRegion must not be closed while sources use it.
func (r *Region) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Store(nil)
	if r.mapping == nil {
		return nil
	}
	err := r.mapping.Close()
	r.mapping = nil
	return err
}

// noteFailure logs each distinct failure once; the producer may be absent
// for hours and Access runs every frame.
func (r *Region) noteFailure(msg string) {
	if msg == r.lastErr {
		return
	}
	r.lastErr = msg
	Logger().Debug("sharedtex: registry unavailable", "err", msg)
}

type bytesMapping []byte

func (b bytesMapping) Bytes() []byte { return b }
func (b bytesMapping) Close() error  { return nil }
