// Package shm maps named shared memory segments.
//
// On Windows a segment is a named file mapping in the session-local
// namespace (Local\<name>). Elsewhere it is a file under Dir, which defaults
// to /dev/shm on Linux, so both sides of the protocol only need to agree on
// the bare name.
package shm

import (
	"errors"
	"sync"
)

var (
	// ErrNotFound is returned by Open when no segment with that name exists.
	ErrNotFound = errors.New("shm: segment not found")

	// ErrTooSmall is returned by Open when the segment is smaller than the
	// requested view.
	ErrTooSmall = errors.New("shm: segment smaller than requested size")

	// ErrUnsupported is returned on platforms without shared memory support.
	ErrUnsupported = errors.New("shm: shared memory not supported on this platform")
)

// Mapping is a mapped view of a segment.
type Mapping struct {
	name string
	data []byte

	closeOnce sync.Once
	unmap     func() error
	closeErr  error
}

// Name returns the segment name the mapping was opened with.
func (m *Mapping) Name() string {
	return m.name
}

// Bytes returns the mapped view. The slice is invalid after Close.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Close unmaps the view and releases the segment handle.
// Close is idempotent.
func (m *Mapping) Close() error {
	m.closeOnce.Do(func() {
		if m.unmap != nil {
			m.closeErr = m.unmap()
		}
		m.data = nil
	})
	return m.closeErr
}

// Open maps an existing segment read/write. The segment is never created.
func Open(name string, size int) (*Mapping, error) {
	return open(name, size, false)
}

// Create maps a segment read/write, creating it with the given size when it
// does not exist yet. Used by producers.
func Create(name string, size int) (*Mapping, error) {
	return open(name, size, true)
}

// Remove deletes a segment name. Existing mappings stay valid.
// Removing a missing segment is not an error.
func Remove(name string) error {
	return remove(name)
}
