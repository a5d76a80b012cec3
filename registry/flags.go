// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package registry

import "strings"

// Flags describes a published texture. Bits are independent.
type Flags uint16

const (
	// FlagUnavailable marks a slot whose texture cannot be used right now.
	FlagUnavailable Flags = 1 << 0

	// FlagTransparent means the alpha channel carries coverage.
	FlagTransparent Flags = 1 << 1

	// FlagSRGB means the texture stores sRGB-encoded color.
	FlagSRGB Flags = 1 << 2

	// FlagMonochrome means only one channel is meaningful.
	FlagMonochrome Flags = 1 << 3

	// FlagHDR means the texture holds values outside [0, 1].
	FlagHDR Flags = 1 << 4

	// FlagUserSize means the consumer may pick the texture size.
	FlagUserSize Flags = 1 << 7

	// FlagOverrideSize is set by a consumer that wrote a new size into a
	// FlagUserSize slot. The producer clears it once the size is applied.
	FlagOverrideSize Flags = 1 << 8
)

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// StatusTag returns the label shown next to a texture name in the source
// list, or "" when none applies. The first matching flag wins, in the order
// unavailable, HDR, monochrome, transparent, resizeable.
func (f Flags) StatusTag() string {
	switch {
	case f.Has(FlagUnavailable):
		return "unavailable"
	case f.Has(FlagHDR):
		return "HDR"
	case f.Has(FlagMonochrome):
		return "monochrome"
	case f.Has(FlagTransparent):
		return "transparent"
	case f.Has(FlagUserSize):
		return "resizeable"
	default:
		return ""
	}
}

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagUnavailable, "unavailable"},
	{FlagTransparent, "transparent"},
	{FlagSRGB, "srgb"},
	{FlagMonochrome, "monochrome"},
	{FlagHDR, "hdr"},
	{FlagUserSize, "user-size"},
	{FlagOverrideSize, "override-size"},
}

// String lists the set flags separated by '|', or "none".
func (f Flags) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
