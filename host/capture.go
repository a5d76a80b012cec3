// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"github.com/google/uuid"

	"github.com/gogpu/sharedtex"
)

// CaptureID is the id of the shared texture source type.
const CaptureID = "accsp_capture"

// CaptureName is the display name of the shared texture source type.
const CaptureName = "Assetto Corsa"

// CaptureOption configures capture sources created by CaptureInfo.
type CaptureOption func(*captureConfig)

type captureConfig struct {
	region *sharedtex.Region
}

// WithCaptureRegion makes capture sources read from r instead of the
// game's segment.
func WithCaptureRegion(r *sharedtex.Region) CaptureOption {
	return func(c *captureConfig) {
		c.region = r
	}
}

// CaptureInfo returns the shared texture source type.
func CaptureInfo(opts ...CaptureOption) *SourceInfo {
	var cfg captureConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &SourceInfo{
		ID:          CaptureID,
		Type:        SourceTypeInput,
		OutputFlags: OutputVideo | OutputCustomDraw | OutputSRGB,
		Icon:        IconGameCapture,
		Name:        CaptureName,
		Defaults:    SetDefaults,
		Create: func(settings Data, gfx sharedtex.Graphics) (Instance, error) {
			return newCapture(settings, gfx, cfg)
		},
	}
}

// Capture is a shared texture source instance.
type Capture struct {
	src *sharedtex.Source
}

func newCapture(settings Data, gfx sharedtex.Graphics, cfg captureConfig) (*Capture, error) {
	opts := []sharedtex.SourceOption{sharedtex.WithID(uuid.New())}
	if cfg.region != nil {
		opts = append(opts, sharedtex.WithRegion(cfg.region))
	}
	src, err := sharedtex.NewSource(gfx, SettingsFromData(settings), opts...)
	if err != nil {
		return nil, err
	}
	return &Capture{src: src}, nil
}

// Source returns the underlying source.
func (c *Capture) Source() *sharedtex.Source {
	return c.src
}

// Update applies edited settings.
func (c *Capture) Update(settings Data) {
	c.src.Update(SettingsFromData(settings))
}

// Tick negotiates population for this frame.
func (c *Capture) Tick(float32) {
	c.src.Tick()
}

// Render draws the shared texture.
func (c *Capture) Render() {
	c.src.Render()
}

// Width returns the texture width.
func (c *Capture) Width() uint32 {
	return uint32(c.src.Width())
}

// Height returns the texture height.
func (c *Capture) Height() uint32 {
	return uint32(c.src.Height())
}

// Properties describes the editable surface.
func (c *Capture) Properties() *sharedtex.Properties {
	return c.src.Properties()
}

// Modified rebuilds the selection-dependent properties when the texture
// name changes.
func (c *Capture) Modified(key string, settings Data) *sharedtex.Remaining {
	if key != sharedtex.KeyName {
		return nil
	}
	return c.src.NameModified(settings.String(sharedtex.KeyName))
}

// Destroy releases the local texture.
func (c *Capture) Destroy() {
	c.src.Close()
}

var _ Instance = (*Capture)(nil)
