// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package producer implements the game side of the shared texture registry.
//
// A Producer owns a registry segment, publishes named texture slots in it and
// reads back what consumers negotiated: population requests, requested sizes
// and the heartbeat. The game itself is not written in Go; this package backs
// the mock producer tool and the tests of the consumer side.
//
// Every published slot gets a fresh nonzero NameKey. Reusing a slot for
// different content, or renaming it, stamps a new key so consumers that
// cached the slot by index rescan by name.
package producer

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gogpu/sharedtex/internal/shm"
	"github.com/gogpu/sharedtex/registry"
)

var (
	// ErrFull is returned by Publish when all slots are taken.
	ErrFull = errors.New("producer: registry full")

	// ErrNoSlot is returned for an index outside the published range.
	ErrNoSlot = errors.New("producer: no such slot")

	// ErrCrashed is returned by mutations while the registry is marked
	// crashed. Call Restart first.
	ErrCrashed = errors.New("producer: registry marked crashed")
)

// Texture describes a slot to publish.
type Texture struct {
	Name        string
	Description string
	Handle      uint32
	Width       int
	Height      int
	Flags       registry.Flags
}

// Producer writes a registry segment.
//
// Producer is safe for concurrent use; consumers in other processes are not
// synchronized with, as in the real protocol.
type Producer struct {
	mu      sync.Mutex
	snap    *registry.Snapshot
	closer  io.Closer
	nextKey uint32
}

// New returns a Producer over an in-process buffer of at least
// registry.Size bytes. The buffer is reset to an empty live registry.
func New(b []byte) (*Producer, error) {
	snap, err := registry.FromBytes(b)
	if err != nil {
		return nil, err
	}
	p := &Producer{snap: snap}
	p.Restart()
	return p, nil
}

// Create creates (or reuses) the named segment and resets it to an empty
// live registry.
func Create(name string) (*Producer, error) {
	m, err := shm.Create(name, registry.Size)
	if err != nil {
		return nil, err
	}
	p, err := New(m.Bytes())
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	p.closer = m
	return p, nil
}

// RemoveSegment deletes the named segment. Consumers that already mapped it
// keep their view of the crashed registry.
func RemoveSegment(name string) error {
	return shm.Remove(name)
}

// Snapshot returns the registry the producer writes. Tests use it to
// inspect consumer write-backs.
func (p *Producer) Snapshot() *registry.Snapshot {
	return p.snap
}

// Restart clears all slots and marks the registry alive and empty.
// NameKeys keep increasing across restarts.
func (p *Producer) Restart() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.snap.Items[:])
	p.snap.AliveCounter = 0
	p.snap.ItemsCount = 0
}

// Crash marks the registry as left behind by a dead producer.
func (p *Producer) Crash() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.ItemsCount = registry.ItemsCrashed
}

// Len returns the number of published slots, 0 when crashed.
func (p *Producer) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap.Count()
}

// Publish appends a slot and returns its index.
func (p *Producer) Publish(t Texture) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snap.ItemsCount < 0 {
		return 0, ErrCrashed
	}
	i := p.snap.Count()
	if i == registry.Capacity {
		return 0, fmt.Errorf("%w: %d slots", ErrFull, registry.Capacity)
	}
	p.fill(&p.snap.Items[i], t)
	p.snap.ItemsCount = int32(i + 1)
	return i, nil
}

// Replace reuses slot i for different content.
func (p *Producer) Replace(i int, t Texture) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, err := p.slot(i)
	if err != nil {
		return err
	}
	p.fill(d, t)
	return nil
}

// Rename changes the name of slot i and stamps a new key.
func (p *Producer) Rename(i int, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, err := p.slot(i)
	if err != nil {
		return err
	}
	d.SetName(name)
	d.NameKey = p.key()
	return nil
}

// Remove unpublishes slot i. Later slots move down by one and keep their
// keys.
func (p *Producer) Remove(i int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.slot(i); err != nil {
		return err
	}
	n := p.snap.Count()
	copy(p.snap.Items[i:n], p.snap.Items[i+1:n])
	p.snap.Items[n-1] = registry.Descriptor{}
	p.snap.ItemsCount = int32(n - 1)
	return nil
}

// SetHandle publishes a new shared handle for slot i. The key is kept; a
// new handle for the same texture is not a new identity.
func (p *Producer) SetHandle(i int, handle uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, err := p.slot(i)
	if err != nil {
		return err
	}
	d.Handle = handle
	return nil
}

// SetFlags replaces the flags of slot i.
func (p *Producer) SetFlags(i int, flags registry.Flags) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, err := p.slot(i)
	if err != nil {
		return err
	}
	d.Flags = flags
	return nil
}

// Find returns the index of the first slot named name.
func (p *Producer) Find(name string) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := registry.EncodeName(name)
	for i, d := range p.snap.Live() {
		if d.NameIs(&n) {
			return i, true
		}
	}
	return 0, false
}

// Request is a slot the consumer wants populated this frame.
type Request struct {
	Index  int
	Name   string
	Handle uint32
	Width  int
	Height int

	// Resized is set when a consumer asked for a new size this frame. The
	// caller reallocates the texture and publishes the new handle.
	Resized bool
}

// Step advances the producer by one frame. It decays the consumer
// heartbeat, accepts size overrides and collects population requests.
// A once-request is consumed by the step that reports it.
//
// With no consumer attached (heartbeat expired) no requests are reported.
func (p *Producer) Step() (reqs []Request, attached bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snap.ItemsCount < 0 {
		return nil, false
	}
	if p.snap.AliveCounter == 0 {
		return nil, false
	}
	p.snap.AliveCounter--

	for i := range p.snap.Live() {
		d := &p.snap.Items[i]
		resized := false
		if d.Flags.Has(registry.FlagOverrideSize) {
			d.Flags &^= registry.FlagOverrideSize
			resized = true
		}
		if d.Flags.Has(registry.FlagUnavailable) {
			continue
		}
		switch d.NeedsData {
		case registry.NeedsDataOnce:
			d.NeedsData = registry.NeedsDataNever
		case registry.NeedsDataAlways:
		default:
			if !resized {
				continue
			}
		}
		reqs = append(reqs, Request{
			Index:   i,
			Name:    d.NameString(),
			Handle:  d.Handle,
			Width:   int(d.Width),
			Height:  int(d.Height),
			Resized: resized,
		})
	}
	return reqs, true
}

// Close marks the registry crashed and unmaps it if the producer created
// the segment. The segment name is left in place so consumers see the
// crashed state.
func (p *Producer) Close() error {
	p.Crash()
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

func (p *Producer) slot(i int) (*registry.Descriptor, error) {
	if p.snap.ItemsCount < 0 {
		return nil, ErrCrashed
	}
	if i < 0 || i >= p.snap.Count() {
		return nil, fmt.Errorf("%w: %d", ErrNoSlot, i)
	}
	return &p.snap.Items[i], nil
}

func (p *Producer) fill(d *registry.Descriptor, t Texture) {
	*d = registry.Descriptor{
		Handle:  t.Handle,
		NameKey: p.key(),
		Width:   clampSize(t.Width),
		Height:  clampSize(t.Height),
		Flags:   t.Flags &^ registry.FlagOverrideSize,
	}
	d.SetName(t.Name)
	d.SetDescription(t.Description)
}

// key returns the next NameKey, skipping 0 on wrap-around.
func (p *Producer) key() uint32 {
	p.nextKey++
	if p.nextKey == 0 {
		p.nextKey++
	}
	return p.nextKey
}

func clampSize(v int) uint16 {
	return uint16(max(0, min(v, 0xFFFF)))
}
