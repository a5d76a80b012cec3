// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"fmt"
	"strings"

	"github.com/gogpu/sharedtex"
)

// SourceType is the kind of source a host can create.
type SourceType uint8

const (
	SourceTypeInput SourceType = iota
	SourceTypeFilter
	SourceTypeTransition
)

// String returns the source type name.
func (t SourceType) String() string {
	switch t {
	case SourceTypeInput:
		return "input"
	case SourceTypeFilter:
		return "filter"
	case SourceTypeTransition:
		return "transition"
	default:
		return fmt.Sprintf("SourceType(%d)", uint8(t))
	}
}

// OutputFlags describe what a source produces and how it draws.
type OutputFlags uint32

const (
	// OutputVideo marks a source with video output.
	OutputVideo OutputFlags = 1 << 0

	// OutputAudio marks a source with audio output.
	OutputAudio OutputFlags = 1 << 1

	// OutputAsync marks a source that pushes frames from its own thread.
	OutputAsync OutputFlags = 1 << 2

	// OutputCustomDraw marks a source that draws with its own effect
	// instead of the host's default one.
	OutputCustomDraw OutputFlags = 1 << 3

	// OutputSRGB marks a source that handles sRGB conversion itself.
	OutputSRGB OutputFlags = 1 << 15
)

var outputFlagNames = []struct {
	flag OutputFlags
	name string
}{
	{OutputVideo, "video"},
	{OutputAudio, "audio"},
	{OutputAsync, "async"},
	{OutputCustomDraw, "custom-draw"},
	{OutputSRGB, "srgb"},
}

// String returns the set flags joined by "|".
func (f OutputFlags) String() string {
	var parts []string
	for _, n := range outputFlagNames {
		if f&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// IconType selects the icon hosts show next to a source.
type IconType uint8

const (
	IconDefault IconType = iota
	IconImage
	IconColor
	IconSlideshow
	IconAudioInput
	IconAudioOutput
	IconDesktopCapture
	IconWindowCapture
	IconGameCapture
	IconCamera
	IconText
	IconMedia
	IconBrowser
	IconCustom
)

// Instance is a created source. Hosts call it from their graphics and UI
// threads but never concurrently for one instance.
type Instance interface {
	// Update applies edited settings.
	Update(settings Data)

	// Tick runs once per host frame.
	Tick(seconds float32)

	// Render draws the source. The graphics context is entered.
	Render()

	// Width and Height return the current output size.
	Width() uint32
	Height() uint32

	// Properties describes the editable surface.
	Properties() *sharedtex.Properties

	// Modified handles an edit of the property key and returns the
	// properties to rebuild. It returns nil when nothing else changes.
	Modified(key string, settings Data) *sharedtex.Remaining

	// Destroy releases the instance.
	Destroy()
}

// SourceInfo registers a source type with a host.
type SourceInfo struct {
	ID          string
	Type        SourceType
	OutputFlags OutputFlags
	Icon        IconType

	// Name is the display name of the type.
	Name string

	// Defaults fills default settings.
	Defaults func(settings Data)

	// Create creates an instance with settings (defaults already filled)
	// drawing through gfx.
	Create func(settings Data, gfx sharedtex.Graphics) (Instance, error)
}

func (s *SourceInfo) validate() error {
	switch {
	case s == nil:
		return fmt.Errorf("%w: nil", ErrInvalidSource)
	case s.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidSource)
	case s.Create == nil:
		return fmt.Errorf("%w: %s has no Create", ErrInvalidSource, s.ID)
	}
	return nil
}
