package backend

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/sharedtex"
	"github.com/gogpu/sharedtex/effect"
	"github.com/gogpu/sharedtex/internal/blend"
	texel "github.com/gogpu/sharedtex/internal/color"
	"github.com/gogpu/sharedtex/internal/parallel"
	"github.com/gogpu/sharedtex/internal/pixels"
)

// SoftwareBackend composes shared textures on the CPU.
//
// Shared handles are pixel segments written by the producer package. The
// backend samples them through the variant's view format, applies the
// brightness multiplier and blends into the framebuffer with the variant's
// blend state, the way the DrawMultiply shader and pipeline do on a GPU.
//
// SoftwareBackend is not safe for concurrent use. Enter and Leave only
// track nesting; hosts already serialize graphics work.
type SoftwareBackend struct {
	fb     *Framebuffer
	interp draw.Interpolator

	depth    int
	srgb     bool
	blending bool

	// pool composites row bands concurrently; nil composes serially.
	pool *parallel.Pool

	scratch *image.RGBA
	live    map[*Texture]struct{}
	closed  bool
}

// SoftwareOption configures a SoftwareBackend.
type SoftwareOption func(*SoftwareBackend)

// WithInterpolator sets the filter used to scale textures to the
// framebuffer. The default is draw.BiLinear.
func WithInterpolator(i draw.Interpolator) SoftwareOption {
	return func(b *SoftwareBackend) {
		if i != nil {
			b.interp = i
		}
	}
}

// WithWorkers composes with n goroutines, or GOMAXPROCS when n is 0 or
// negative. Close stops them. Without this option composition runs on the
// calling goroutine.
func WithWorkers(n int) SoftwareOption {
	return func(b *SoftwareBackend) {
		if b.pool != nil {
			b.pool.Close()
		}
		b.pool = parallel.NewPool(n)
	}
}

// init registers the software backend on package import.
func init() {
	Register(BackendSoftware, func(width, height int) (Backend, error) {
		return NewSoftwareBackend(width, height, WithWorkers(0))
	})
}

// NewSoftwareBackend creates a software backend with a width×height
// framebuffer. Blending starts enabled and framebuffer sRGB disabled.
func NewSoftwareBackend(width, height int, opts ...SoftwareOption) (*SoftwareBackend, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	b := &SoftwareBackend{
		fb:       NewFramebuffer(width, height),
		interp:   draw.BiLinear,
		blending: true,
		live:     make(map[*Texture]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Name returns the backend identifier.
func (b *SoftwareBackend) Name() string {
	return BackendSoftware
}

// Framebuffer returns the render target.
func (b *SoftwareBackend) Framebuffer() *Framebuffer {
	return b.fb
}

// Frame returns the framebuffer image.
func (b *SoftwareBackend) Frame() *image.RGBA {
	return b.fb.Image()
}

// Clear fills the framebuffer with c.
func (b *SoftwareBackend) Clear(c color.Color) {
	b.fb.Clear(c)
}

// Enter acquires the graphics context.
func (b *SoftwareBackend) Enter() {
	b.depth++
}

// Leave releases the graphics context.
func (b *SoftwareBackend) Leave() {
	if b.depth == 0 {
		sharedtex.Logger().Warn("backend: Leave without Enter")
		return
	}
	b.depth--
}

// InContext reports whether the graphics context is entered.
func (b *SoftwareBackend) InContext() bool {
	return b.depth > 0
}

// FramebufferSRGB reports whether draws encode to sRGB.
func (b *SoftwareBackend) FramebufferSRGB() bool {
	return b.srgb
}

// EnableFramebufferSRGB toggles sRGB encoding of draws.
func (b *SoftwareBackend) EnableFramebufferSRGB(enable bool) {
	b.srgb = enable
}

// Blending reports whether blending is enabled.
func (b *SoftwareBackend) Blending() bool {
	return b.blending
}

// EnableBlending toggles blending. With blending off, draws replace the
// framebuffer.
func (b *SoftwareBackend) EnableBlending(enable bool) {
	b.blending = enable
}

// OpenSharedTexture maps the pixel segment for handle.
func (b *SoftwareBackend) OpenSharedTexture(handle uint32) (gpucontext.Texture, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	buf, err := pixels.Open(handle)
	if err != nil {
		return nil, fmt.Errorf("backend: open shared texture %d: %w", handle, err)
	}
	t := &Texture{owner: b, handle: handle, buf: buf, img: buf.Image()}
	b.live[t] = struct{}{}
	return t, nil
}

// NewTextureFromRGBA creates a local texture from straight-alpha RGBA8
// pixels.
func (b *SoftwareBackend) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	if b.closed {
		return nil, ErrClosed
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	t := &Texture{owner: b, img: image.NewRGBA(image.Rect(0, 0, width, height))}
	if err := t.UpdateData(data); err != nil {
		return nil, err
	}
	b.live[t] = struct{}{}
	return t, nil
}

// TextureCreator returns the backend itself.
func (b *SoftwareBackend) TextureCreator() gpucontext.TextureCreator {
	return b
}

// DestroyTexture releases tex. Destroying outside the graphics context is
// logged; the texture is released anyway.
func (b *SoftwareBackend) DestroyTexture(tex gpucontext.Texture) {
	t, err := b.own(tex)
	if err != nil {
		sharedtex.Logger().Warn("backend: destroy texture", "err", err)
		return
	}
	if b.depth == 0 {
		sharedtex.Logger().Warn("backend: texture destroyed outside graphics context", "handle", t.handle)
	}
	b.release(t)
}

// LiveTextures returns the number of textures not yet destroyed.
func (b *SoftwareBackend) LiveTextures() int {
	return len(b.live)
}

// DrawSprite scales tex over the whole framebuffer.
func (b *SoftwareBackend) DrawSprite(tex gpucontext.Texture, v effect.Variant, multiplier float32) error {
	if err := b.check(); err != nil {
		return err
	}
	t, err := b.own(tex)
	if err != nil {
		return err
	}

	src := t.img
	dst := b.fb.Image()
	if src.Bounds().Size() != dst.Bounds().Size() {
		if b.scratch == nil || b.scratch.Bounds() != dst.Bounds() {
			b.scratch = image.NewRGBA(dst.Bounds())
		}
		b.interp.Scale(b.scratch, b.scratch.Bounds(), src, src.Bounds(), draw.Src, nil)
		src = b.scratch
	}

	b.composite(dst, image.Point{}, src, pass{
		srgbView:   v.ViewFormat.IsSrgb(),
		opaque:     v.Base == effect.BaseOpaque,
		multiplier: multiplier,
		blend:      v.Blend,
	})
	return nil
}

// DrawTexture draws a local or shared texture unscaled with its top-left
// corner at (x, y), alpha blended and without color conversion.
func (b *SoftwareBackend) DrawTexture(tex gpucontext.Texture, x, y float32) error {
	if err := b.check(); err != nil {
		return err
	}
	t, err := b.own(tex)
	if err != nil {
		return err
	}
	b.composite(b.fb.Image(), image.Pt(int(x), int(y)), t.img, pass{
		multiplier: 1,
		blend:      gputypes.BlendStateAlpha(),
	})
	return nil
}

// Close releases every live texture.
func (b *SoftwareBackend) Close() error {
	if b.closed {
		return nil
	}
	for t := range b.live {
		b.release(t)
	}
	if b.pool != nil {
		b.pool.Close()
	}
	b.closed = true
	return nil
}

type pass struct {
	srgbView   bool
	opaque     bool
	multiplier float32
	blend      gputypes.BlendState
}

// composite writes src into dst at off, one fragment per source pixel.
func (b *SoftwareBackend) composite(dst *image.RGBA, off image.Point, src *image.RGBA, p pass) {
	r := src.Bounds().Add(off.Sub(src.Bounds().Min)).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	if b.pool == nil {
		b.compositeRows(dst, off, src, p, r)
		return
	}
	b.pool.Rows(r.Dy(), func(y0, y1 int) {
		band := r
		band.Min.Y, band.Max.Y = r.Min.Y+y0, r.Min.Y+y1
		b.compositeRows(dst, off, src, p, band)
	})
}

// compositeRows composites the pixels of r. Bands of one pass touch
// disjoint rows of dst.
func (b *SoftwareBackend) compositeRows(dst *image.RGBA, off image.Point, src *image.RGBA, p pass, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			si := src.PixOffset(x-off.X+src.Rect.Min.X, y-off.Y+src.Rect.Min.Y)
			di := dst.PixOffset(x, y)
			s := src.Pix[si : si+4 : si+4]
			d := dst.Pix[di : di+4 : di+4]

			frag := texel.Unpack(s[0], s[1], s[2], s[3], p.srgbView).Scale(p.multiplier)
			if p.opaque {
				frag.A = 1
			}
			if b.blending {
				frag = blend.Apply(p.blend, frag, texel.Unpack(d[0], d[1], d[2], d[3], b.srgb))
			}
			d[0], d[1], d[2], d[3] = texel.Pack(frag, b.srgb)
		}
	}
}

func (b *SoftwareBackend) check() error {
	if b.closed {
		return ErrClosed
	}
	if b.depth == 0 {
		return ErrNoContext
	}
	return nil
}

func (b *SoftwareBackend) own(tex gpucontext.Texture) (*Texture, error) {
	t, ok := tex.(*Texture)
	if !ok || t.owner != b {
		return nil, ErrForeignTexture
	}
	if _, live := b.live[t]; !live {
		return nil, ErrForeignTexture
	}
	return t, nil
}

func (b *SoftwareBackend) release(t *Texture) {
	delete(b.live, t)
	if t.buf != nil {
		if err := t.buf.Close(); err != nil {
			sharedtex.Logger().Warn("backend: unmap shared texture", "handle", t.handle, "err", err)
		}
		t.buf = nil
	}
	t.img = &image.RGBA{}
}

// Ensure SoftwareBackend implements the interfaces it is used through.
var (
	_ Backend                   = (*SoftwareBackend)(nil)
	_ gpucontext.TextureCreator = (*SoftwareBackend)(nil)
	_ gpucontext.TextureDrawer  = (*SoftwareBackend)(nil)
)
