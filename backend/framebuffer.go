package backend

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
)

// Framebuffer is a CPU-backed render target using *image.RGBA.
//
// Pixels are stored as straight-alpha RGBA8. Whether they hold sRGB encoded
// or linear values depends on the framebuffer sRGB state at draw time, as
// with a GPU target viewed through a Unorm or UnormSrgb format.
//
// Example:
//
//	fb := backend.NewFramebuffer(800, 600)
//	fb.Clear(color.Black)
//	img := fb.Image()
type Framebuffer struct {
	img *image.RGBA
}

// NewFramebuffer creates a new CPU-backed framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewFramebufferFromImage wraps an existing *image.RGBA as a framebuffer.
// The image is used directly without copying.
func NewFramebufferFromImage(img *image.RGBA) *Framebuffer {
	return &Framebuffer{img: img}
}

// Width returns the framebuffer width in pixels.
func (f *Framebuffer) Width() int {
	return f.img.Bounds().Dx()
}

// Height returns the framebuffer height in pixels.
func (f *Framebuffer) Height() int {
	return f.img.Bounds().Dy()
}

// Format returns the storage format.
func (f *Framebuffer) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// ViewFormat returns the format draws write through.
func (f *Framebuffer) ViewFormat(srgb bool) gputypes.TextureFormat {
	if srgb {
		return gputypes.TextureFormatRGBA8UnormSrgb
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the framebuffer.
func (f *Framebuffer) Image() *image.RGBA {
	return f.img
}

// Clear fills the entire framebuffer with the given color.
func (f *Framebuffer) Clear(c color.Color) {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	px := [4]uint8{nc.R, nc.G, nc.B, nc.A}
	pix := f.img.Pix
	for i := 0; i+4 <= len(pix); i += 4 {
		copy(pix[i:i+4], px[:])
	}
}

// Resize replaces the framebuffer with a new one of the given dimensions.
// The contents are not preserved.
func (f *Framebuffer) Resize(width, height int) {
	f.img = image.NewRGBA(image.Rect(0, 0, width, height))
}
