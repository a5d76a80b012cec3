// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package registry defines the binary layout of the shared texture registry
// published by the game process.
//
// The registry is a single fixed-size record living in a named shared memory
// segment:
//
//	+--------------+------------+-----------------------------+
//	| AliveCounter | ItemsCount | Items[Capacity]Descriptor   |
//	|   uint32     |   int32    |   320 bytes each            |
//	+--------------+------------+-----------------------------+
//
// The producer owns and sizes the segment. Consumers map it read/write,
// refresh AliveCounter on every access and write back two fields of a
// descriptor: NeedsData and, for resizable textures, the requested size.
//
// Nothing in the segment is a pointer. Identity of a slot is the pair
// (Name, NameKey): NameKey changes whenever the producer reassigns a slot, so
// a consumer may cache a slot index and validate it with a single integer
// comparison before falling back to a name scan.
//
// # Memory ordering
//
// There is no lock. Readers tolerate torn reads: every field is at most 32
// bits wide and naturally aligned, and every cached index is re-validated
// through NameKey before it is trusted.
package registry
