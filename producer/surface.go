// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package producer

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/sharedtex/internal/pixels"
)

// Surface is a CPU texture shared through its handle. The backend package
// opens the same handle on the consumer side.
type Surface struct {
	buf *pixels.Buffer
}

// Handle returns the shared handle to publish in a slot.
func (s *Surface) Handle() uint32 {
	return s.buf.Handle()
}

// Width returns the surface width.
func (s *Surface) Width() int {
	return s.buf.Width()
}

// Height returns the surface height.
func (s *Surface) Height() int {
	return s.buf.Height()
}

// Image returns the surface pixels. Writes are visible to consumers
// immediately.
func (s *Surface) Image() *image.RGBA {
	return s.buf.Image()
}

// Surfaces allocates shared surfaces with unique handles.
type Surfaces struct {
	mu   sync.Mutex
	next uint32
	live map[uint32]*Surface
}

// NewSurfaces returns an allocator whose first handle is first. Producers
// running side by side pick disjoint ranges.
func NewSurfaces(first uint32) *Surfaces {
	if first == 0 {
		first = 1
	}
	return &Surfaces{next: first, live: make(map[uint32]*Surface)}
}

// Alloc creates a width×height surface under a fresh handle.
func (a *Surfaces) Alloc(width, height int) (*Surface, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	handle := a.next
	buf, err := pixels.Create(handle, width, height)
	if err != nil {
		return nil, fmt.Errorf("producer: alloc surface %d: %w", handle, err)
	}
	a.next++
	if a.next == 0 {
		a.next = 1
	}
	s := &Surface{buf: buf}
	a.live[handle] = s
	return s, nil
}

// Free unmaps the surface and removes its segment name. Consumers that
// already mapped it keep their view.
func (a *Surfaces) Free(s *Surface) error {
	if s == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	handle := s.Handle()
	delete(a.live, handle)
	err := s.buf.Close()
	if rerr := pixels.Remove(handle); err == nil {
		err = rerr
	}
	return err
}

// Close frees every live surface.
func (a *Surfaces) Close() error {
	a.mu.Lock()
	live := make([]*Surface, 0, len(a.live))
	for _, s := range a.live {
		live = append(live, s)
	}
	a.mu.Unlock()

	var first error
	for _, s := range live {
		if err := a.Free(s); err != nil && first == nil {
			first = err
		}
	}
	return first
}
