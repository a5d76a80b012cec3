// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package registry

import (
	"errors"
	"fmt"
	"unsafe"
)

// Layout constants shared with the producer. Changing any of them breaks
// binary compatibility with the game side.
const (
	// Capacity is the number of descriptor slots in the segment.
	Capacity = 63

	// NameLength is the width of Descriptor.Name in bytes.
	NameLength = 48

	// DescriptionLength is the width of Descriptor.Description in bytes.
	DescriptionLength = 256

	// AliveMax is the heartbeat value a consumer writes to AliveCounter on
	// every successful access. The producer counts it down once per frame.
	AliveMax = 60

	// ItemsCrashed is the ItemsCount value the producer leaves behind when it
	// stops or its scripting module collapses.
	ItemsCrashed = -1
)

// SegmentName is the well-known name of the shared memory segment.
// Platform code adds its namespace prefix (Local\ on Windows).
const SegmentName = "AcTools.CSP.OBSTextures.v0"

// NeedsData is the consumer's population request for a slot.
type NeedsData uint16

const (
	// NeedsDataNever asks the producer to skip the slot this frame.
	NeedsDataNever NeedsData = 0

	// NeedsDataOnce asks for a single population after skipped frames.
	NeedsDataOnce NeedsData = 1

	// NeedsDataAlways asks for population every frame.
	NeedsDataAlways NeedsData = 3
)

// String returns a short name for the request.
func (n NeedsData) String() string {
	switch n {
	case NeedsDataNever:
		return "never"
	case NeedsDataOnce:
		return "once"
	case NeedsDataAlways:
		return "always"
	default:
		return fmt.Sprintf("NeedsData(%d)", uint16(n))
	}
}

// Descriptor is one texture slot. Field order and widths match the producer.
type Descriptor struct {
	Handle      uint32
	NameKey     uint32
	Width       uint16
	Height      uint16
	NeedsData   NeedsData
	Flags       Flags
	Name        [NameLength]byte
	Description [DescriptionLength]byte
}

// Snapshot is the whole shared record.
type Snapshot struct {
	AliveCounter uint32
	ItemsCount   int32
	Items        [Capacity]Descriptor
}

// Sizes of the shared structures in bytes.
const (
	DescriptorSize = 4 + 4 + 2 + 2 + 2 + 2 + NameLength + DescriptionLength
	Size           = 4 + 4 + Capacity*DescriptorSize
)

// Compile-time layout checks: both arrays fail to compile if the Go layout
// ever drifts from the producer's.
var (
	_ [DescriptorSize - unsafe.Sizeof(Descriptor{})]struct{}
	_ [unsafe.Sizeof(Descriptor{}) - DescriptorSize]struct{}
	_ [Size - unsafe.Sizeof(Snapshot{})]struct{}
	_ [unsafe.Sizeof(Snapshot{}) - Size]struct{}
)

// ErrShortBuffer is returned by FromBytes when the buffer cannot hold a Snapshot.
var ErrShortBuffer = errors.New("registry: buffer shorter than snapshot size")

// FromBytes overlays a Snapshot on b without copying. b must stay mapped for
// as long as the returned pointer is used, and must be at least 4-byte aligned
// (true for any mmap'd region and any Go-allocated []byte of this size).
func FromBytes(b []byte) (*Snapshot, error) {
	if len(b) < Size {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrShortBuffer, len(b), Size)
	}
	return (*Snapshot)(unsafe.Pointer(&b[0])), nil
}

// State classifies ItemsCount.
type State int

const (
	// StateCrashed means the producer exited or its module collapsed.
	StateCrashed State = iota

	// StateEmpty means the producer is alive but has published nothing.
	StateEmpty

	// StateLive means at least one descriptor is published.
	StateLive
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateCrashed:
		return "crashed"
	case StateEmpty:
		return "empty"
	case StateLive:
		return "live"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// State reports the producer state encoded in ItemsCount. Any negative count
// is treated as crashed.
func (s *Snapshot) State() State {
	switch n := s.ItemsCount; {
	case n < 0:
		return StateCrashed
	case n == 0:
		return StateEmpty
	default:
		return StateLive
	}
}

// Count returns ItemsCount clamped to [0, Capacity].
func (s *Snapshot) Count() int {
	n := int(s.ItemsCount)
	if n < 0 {
		return 0
	}
	if n > Capacity {
		return Capacity
	}
	return n
}

// Live returns the published descriptors as a slice aliasing the segment.
func (s *Snapshot) Live() []Descriptor {
	return s.Items[:s.Count()]
}

// Heartbeat tells the producer a consumer is attached.
func (s *Snapshot) Heartbeat() {
	s.AliveCounter = AliveMax
}
