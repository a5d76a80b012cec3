// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pixels implements CPU texture sharing between processes.
//
// A shared handle names a segment "<registry segment>.tex.<handle>" holding
// an 8-byte little-endian header (width, height as uint32) followed by
// tightly packed RGBA8 rows. The producer allocates a new handle for every
// new texture size, so a handle never changes geometry.
package pixels

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/sharedtex/internal/shm"
	"github.com/gogpu/sharedtex/registry"
)

// HeaderSize is the size of the geometry header.
const HeaderSize = 8

// ErrBadHeader is returned when a segment header describes no pixels or
// more than the segment holds.
var ErrBadHeader = errors.New("pixels: bad segment header")

// Name returns the segment name for a handle.
func Name(handle uint32) string {
	return fmt.Sprintf("%s.tex.%d", registry.SegmentName, handle)
}

// Size returns the segment size for a width×height texture.
func Size(width, height int) int {
	return HeaderSize + width*height*4
}

// Buffer is a mapped pixel segment.
type Buffer struct {
	handle uint32
	m      *shm.Mapping
	img    *image.RGBA
}

// Create creates the segment for handle and writes its header.
func Create(handle uint32, width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadHeader, width, height)
	}
	m, err := shm.Create(Name(handle), Size(width, height))
	if err != nil {
		return nil, err
	}
	b := m.Bytes()
	binary.LittleEndian.PutUint32(b[0:4], uint32(width))
	binary.LittleEndian.PutUint32(b[4:8], uint32(height))
	return newBuffer(handle, m, width, height), nil
}

// Open maps the existing segment for handle.
func Open(handle uint32) (*Buffer, error) {
	name := Name(handle)
	hdr, err := shm.Open(name, HeaderSize)
	if err != nil {
		return nil, err
	}
	width := int(binary.LittleEndian.Uint32(hdr.Bytes()[0:4]))
	height := int(binary.LittleEndian.Uint32(hdr.Bytes()[4:8]))
	_ = hdr.Close()
	if width <= 0 || height <= 0 || width > 1<<14 || height > 1<<14 {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrBadHeader, name, width, height)
	}

	m, err := shm.Open(name, Size(width, height))
	if err != nil {
		return nil, err
	}
	return newBuffer(handle, m, width, height), nil
}

// Remove deletes the segment name for handle.
func Remove(handle uint32) error {
	return shm.Remove(Name(handle))
}

func newBuffer(handle uint32, m *shm.Mapping, width, height int) *Buffer {
	return &Buffer{
		handle: handle,
		m:      m,
		img: &image.RGBA{
			Pix:    m.Bytes()[HeaderSize:Size(width, height)],
			Stride: width * 4,
			Rect:   image.Rect(0, 0, width, height),
		},
	}
}

// Handle returns the handle the buffer was created or opened with.
func (b *Buffer) Handle() uint32 {
	return b.handle
}

// Width returns the texture width.
func (b *Buffer) Width() int {
	return b.img.Rect.Dx()
}

// Height returns the texture height.
func (b *Buffer) Height() int {
	return b.img.Rect.Dy()
}

// Image returns the pixels as an image sharing memory with the segment.
// It is invalid after Close.
func (b *Buffer) Image() *image.RGBA {
	return b.img
}

// Close unmaps the segment.
func (b *Buffer) Close() error {
	b.img = &image.RGBA{}
	return b.m.Close()
}
