package backend

import (
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/sharedtex/internal/pixels"
)

// Texture is a SoftwareBackend texture. Shared textures view the
// producer's pixel segment directly, so producer writes show up on the next
// draw without a copy.
type Texture struct {
	owner  *SoftwareBackend
	handle uint32
	buf    *pixels.Buffer
	img    *image.RGBA
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int {
	return t.img.Rect.Dx()
}

// Height returns the texture height in pixels.
func (t *Texture) Height() int {
	return t.img.Rect.Dy()
}

// Handle returns the shared handle, or 0 for a local texture.
func (t *Texture) Handle() uint32 {
	return t.handle
}

// Image returns the texture pixels. It is empty after the texture is
// destroyed.
func (t *Texture) Image() *image.RGBA {
	return t.img
}

// UpdateData replaces the texture pixels. Shared textures are owned by the
// producer and cannot be updated.
func (t *Texture) UpdateData(data []byte) error {
	if t.buf != nil {
		return fmt.Errorf("backend: shared texture %d is read-only", t.handle)
	}
	if want := t.Width() * t.Height() * 4; len(data) != want {
		return fmt.Errorf("backend: texture data is %d bytes, want %d", len(data), want)
	}
	copy(t.img.Pix, data)
	return nil
}

var (
	_ gpucontext.Texture        = (*Texture)(nil)
	_ gpucontext.TextureUpdater = (*Texture)(nil)
)
