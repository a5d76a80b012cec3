package backend

import (
	"errors"
	"image/color"
	"slices"
	"testing"

	"golang.org/x/image/draw"

	"github.com/gogpu/sharedtex/effect"
)

func newTestBackend(t *testing.T, w, h int) *SoftwareBackend {
	t.Helper()
	b, err := NewSoftwareBackend(w, h, WithInterpolator(draw.NearestNeighbor))
	if err != nil {
		t.Fatalf("NewSoftwareBackend: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func solid(w, h int, c color.NRGBA) []byte {
	data := make([]byte, w*h*4)
	for i := 0; i < len(data); i += 4 {
		data[i], data[i+1], data[i+2], data[i+3] = c.R, c.G, c.B, c.A
	}
	return data
}

func pixelAt(b *SoftwareBackend, x, y int) color.RGBA {
	return b.Frame().RGBAAt(x, y)
}

func TestRegistrySoftware(t *testing.T) {
	if !IsRegistered(BackendSoftware) {
		t.Fatal("software backend should be auto-registered")
	}
	if !slices.Contains(Available(), BackendSoftware) {
		t.Errorf("Available() = %v", Available())
	}

	b, err := New(BackendSoftware, 8, 8)
	if err != nil {
		t.Fatalf("New(software): %v", err)
	}
	if b.Name() != BackendSoftware {
		t.Errorf("Name() = %q", b.Name())
	}
	b.Close()

	d, err := Default(4, 4)
	if err != nil || d.Name() != BackendSoftware {
		t.Errorf("Default() = %v, %v", d, err)
	}
}

func TestRegistryUnknown(t *testing.T) {
	if _, err := New("nonexistent", 8, 8); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("New(nonexistent): err = %v, want ErrBackendNotAvailable", err)
	}
}

func TestRegistryUnregister(t *testing.T) {
	Register("test-backend", func(w, h int) (Backend, error) { return NewSoftwareBackend(w, h) })
	if !IsRegistered("test-backend") {
		t.Error("test-backend should be registered")
	}
	Unregister("test-backend")
	if IsRegistered("test-backend") {
		t.Error("test-backend should be unregistered")
	}
}

func TestNewSoftwareBackendInvalidSize(t *testing.T) {
	if _, err := NewSoftwareBackend(0, 10); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("err = %v, want ErrInvalidSize", err)
	}
}

func TestFramebufferClear(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.Clear(color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if got := fb.Image().RGBAAt(x, y); got != (color.RGBA{R: 1, G: 2, B: 3, A: 4}) {
				t.Fatalf("pixel (%d,%d) = %v", x, y, got)
			}
		}
	}
	if fb.Width() != 3 || fb.Height() != 2 {
		t.Errorf("size = %dx%d", fb.Width(), fb.Height())
	}
	fb.Resize(5, 5)
	if fb.Width() != 5 {
		t.Errorf("after Resize: width = %d", fb.Width())
	}
}

func TestDrawRequiresContext(t *testing.T) {
	b := newTestBackend(t, 2, 2)
	tex, err := b.NewTextureFromRGBA(2, 2, solid(2, 2, color.NRGBA{A: 255}))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.DrawSprite(tex, effect.Select(false, false), 1); !errors.Is(err, ErrNoContext) {
		t.Errorf("DrawSprite outside context: err = %v, want ErrNoContext", err)
	}
	if _, err := b.OpenSharedTexture(1); !errors.Is(err, ErrNoContext) {
		t.Errorf("OpenSharedTexture outside context: err = %v, want ErrNoContext", err)
	}
}

func TestDrawSpriteOpaqueBrightness(t *testing.T) {
	b := newTestBackend(t, 4, 4)
	b.Clear(color.NRGBA{B: 255, A: 255})
	tex, _ := b.NewTextureFromRGBA(2, 2, solid(2, 2, color.NRGBA{R: 100, G: 50, B: 200, A: 0}))

	b.Enter()
	defer b.Leave()
	b.EnableBlending(false)
	if err := b.DrawSprite(tex, effect.Select(false, false), 1.5); err != nil {
		t.Fatalf("DrawSprite: %v", err)
	}

	// Scaled to the full frame, brightened, clamped, alpha forced opaque.
	want := color.RGBA{R: 150, G: 75, B: 255, A: 255}
	for _, p := range [][2]int{{0, 0}, {3, 3}} {
		if got := pixelAt(b, p[0], p[1]); got != want {
			t.Errorf("pixel %v = %v, want %v", p, got, want)
		}
	}
}

func TestDrawSpriteTransparentBlends(t *testing.T) {
	b := newTestBackend(t, 1, 1)
	b.Clear(color.NRGBA{B: 255, A: 255})
	tex, _ := b.NewTextureFromRGBA(1, 1, solid(1, 1, color.NRGBA{R: 255, A: 51}))

	b.Enter()
	defer b.Leave()
	if err := b.DrawSprite(tex, effect.Select(true, false), 1); err != nil {
		t.Fatal(err)
	}
	// 20% red over blue.
	want := color.RGBA{R: 51, G: 0, B: 204, A: 255}
	if got := pixelAt(b, 0, 0); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestDrawSpriteSRGBView(t *testing.T) {
	b := newTestBackend(t, 1, 1)
	tex, _ := b.NewTextureFromRGBA(1, 1, solid(1, 1, color.NRGBA{R: 128, G: 128, B: 128, A: 255}))

	b.Enter()
	defer b.Leave()
	b.EnableBlending(false)

	// Decoded to linear light, written raw.
	if err := b.DrawSprite(tex, effect.Select(false, true), 1); err != nil {
		t.Fatal(err)
	}
	if got := pixelAt(b, 0, 0).R; got != 55 {
		t.Errorf("sRGB view into linear target: R = %d, want 55", got)
	}

	// Decoded and re-encoded: unchanged.
	b.EnableFramebufferSRGB(true)
	if err := b.DrawSprite(tex, effect.Select(false, true), 1); err != nil {
		t.Fatal(err)
	}
	if got := pixelAt(b, 0, 0).R; got != 128 {
		t.Errorf("sRGB view into sRGB target: R = %d, want 128", got)
	}
}

func TestDrawTexturePlacesUnscaled(t *testing.T) {
	b := newTestBackend(t, 4, 4)
	tex, _ := b.NewTextureFromRGBA(2, 2, solid(2, 2, color.NRGBA{G: 255, A: 255}))

	b.Enter()
	defer b.Leave()
	if err := b.DrawTexture(tex, 3, 3); err != nil {
		t.Fatal(err)
	}
	if got := pixelAt(b, 3, 3); got.G != 255 {
		t.Errorf("pixel (3,3) = %v, want green", got)
	}
	if got := pixelAt(b, 2, 2); got.G != 0 {
		t.Errorf("pixel (2,2) = %v, want untouched", got)
	}
}

func TestTextureOwnership(t *testing.T) {
	a := newTestBackend(t, 2, 2)
	b := newTestBackend(t, 2, 2)
	tex, _ := a.NewTextureFromRGBA(1, 1, solid(1, 1, color.NRGBA{A: 255}))

	b.Enter()
	defer b.Leave()
	if err := b.DrawSprite(tex, effect.Select(false, false), 1); !errors.Is(err, ErrForeignTexture) {
		t.Errorf("foreign texture: err = %v, want ErrForeignTexture", err)
	}

	a.Enter()
	a.DestroyTexture(tex)
	a.Leave()
	if a.LiveTextures() != 0 {
		t.Errorf("LiveTextures = %d, want 0", a.LiveTextures())
	}
	a.Enter()
	defer a.Leave()
	if err := a.DrawSprite(tex, effect.Select(false, false), 1); !errors.Is(err, ErrForeignTexture) {
		t.Errorf("destroyed texture: err = %v, want ErrForeignTexture", err)
	}
}

func TestTextureUpdateData(t *testing.T) {
	b := newTestBackend(t, 1, 1)
	tex, err := b.NewTextureFromRGBA(1, 1, make([]byte, 3))
	if err == nil {
		t.Fatalf("short data accepted: %v", tex)
	}

	tex, _ = b.NewTextureFromRGBA(1, 1, make([]byte, 4))
	st := tex.(*Texture)
	if err := st.UpdateData([]byte{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if got := st.Image().RGBAAt(0, 0); got != (color.RGBA{R: 1, G: 2, B: 3, A: 4}) {
		t.Errorf("pixel = %v", got)
	}
	if st.Handle() != 0 {
		t.Errorf("local texture handle = %d", st.Handle())
	}
}

func TestCloseReleasesTextures(t *testing.T) {
	b, _ := NewSoftwareBackend(1, 1)
	b.NewTextureFromRGBA(1, 1, make([]byte, 4))
	b.NewTextureFromRGBA(1, 1, make([]byte, 4))
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if b.LiveTextures() != 0 {
		t.Errorf("LiveTextures after Close = %d", b.LiveTextures())
	}
	if _, err := b.NewTextureFromRGBA(1, 1, make([]byte, 4)); !errors.Is(err, ErrClosed) {
		t.Errorf("after Close: err = %v, want ErrClosed", err)
	}
}

func TestDrawSpriteWorkersMatchSerial(t *testing.T) {
	const w, h = 48, 96
	data := make([]byte, 7*5*4)
	for i := range data {
		data[i] = uint8(i * 37)
	}

	frames := make([][]byte, 0, 2)
	for _, opts := range [][]SoftwareOption{nil, {WithWorkers(4)}} {
		b, err := NewSoftwareBackend(w, h, opts...)
		if err != nil {
			t.Fatal(err)
		}
		b.Clear(color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		tex, err := b.NewTextureFromRGBA(7, 5, data)
		if err != nil {
			t.Fatal(err)
		}
		b.Enter()
		if err := b.DrawSprite(tex, effect.Select(true, true), 1.25); err != nil {
			t.Fatal(err)
		}
		b.Leave()
		frames = append(frames, slices.Clone(b.Frame().Pix))
		b.Close()
	}
	if !slices.Equal(frames[0], frames[1]) {
		t.Error("parallel composition differs from serial")
	}
}
