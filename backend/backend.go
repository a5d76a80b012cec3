package backend

import (
	"errors"
	"image"
	"image/color"

	"github.com/gogpu/sharedtex"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrInvalidSize is returned for a framebuffer without pixels.
	ErrInvalidSize = errors.New("backend: invalid framebuffer size")

	// ErrNoContext is returned by texture operations made outside
	// Enter/Leave.
	ErrNoContext = errors.New("backend: graphics context not entered")

	// ErrForeignTexture is returned when a texture from another backend,
	// or a destroyed one, is passed in.
	ErrForeignTexture = errors.New("backend: texture not owned by this backend")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("backend: closed")
)

// Backend is a sharedtex.Graphics that composes into a readable
// framebuffer.
type Backend interface {
	sharedtex.Graphics

	// Name returns the backend identifier (e.g., "software").
	Name() string

	// Frame returns the framebuffer. The image shares memory with the
	// backend and changes with every draw.
	Frame() *image.RGBA

	// Clear fills the framebuffer with c.
	Clear(c color.Color)

	// Close releases all backend resources, including textures that were
	// never destroyed. The backend should not be used after Close is
	// called.
	Close() error
}

// Factory creates a backend with a width×height framebuffer.
type Factory func(width, height int) (Backend, error)
