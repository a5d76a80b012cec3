package sharedtex

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/sharedtex/effect"
	"github.com/gogpu/sharedtex/producer"
	"github.com/gogpu/sharedtex/registry"
)

// newTestRegion returns a producer and a Region reading its registry.
func newTestRegion(t *testing.T) (*producer.Producer, *Region) {
	t.Helper()
	buf := make([]byte, registry.Size)
	p, err := producer.New(buf)
	if err != nil {
		t.Fatalf("producer.New: %v", err)
	}
	r, err := NewRegionFromBytes(buf)
	if err != nil {
		t.Fatalf("NewRegionFromBytes: %v", err)
	}
	return p, r
}

// absentRegion never manages to open its segment.
func absentRegion() *Region {
	return NewRegion(func() (Mapping, error) {
		return nil, errors.New("segment not found")
	})
}

func mustPublish(t *testing.T, p *producer.Producer, tex producer.Texture) int {
	t.Helper()
	i, err := p.Publish(tex)
	if err != nil {
		t.Fatalf("Publish(%q): %v", tex.Name, err)
	}
	return i
}

type mockTexture struct {
	handle uint32
}

func (m *mockTexture) Width() int  { return 16 }
func (m *mockTexture) Height() int { return 16 }

type drawCall struct {
	handle     uint32
	variant    effect.Variant
	multiplier float32
	srgb       bool
	blending   bool
}

// mockGraphics records every call a Source makes.
type mockGraphics struct {
	depth    int
	srgb     bool
	blending bool

	opened    []uint32
	destroyed []uint32
	live      int
	maxLive   int

	// destroyedOutside counts DestroyTexture calls made outside
	// Enter/Leave when the test itself did not enter.
	destroyedOutside int

	openErr error
	drawErr error
	draws   []drawCall
}

func newMockGraphics() *mockGraphics {
	return &mockGraphics{srgb: true, blending: true}
}

func (m *mockGraphics) Enter() { m.depth++ }
func (m *mockGraphics) Leave() { m.depth-- }

func (m *mockGraphics) OpenSharedTexture(handle uint32) (gpucontext.Texture, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	m.opened = append(m.opened, handle)
	m.live++
	m.maxLive = max(m.maxLive, m.live)
	return &mockTexture{handle: handle}, nil
}

func (m *mockGraphics) DestroyTexture(tex gpucontext.Texture) {
	if m.depth == 0 {
		m.destroyedOutside++
	}
	m.destroyed = append(m.destroyed, tex.(*mockTexture).handle)
	m.live--
}

func (m *mockGraphics) FramebufferSRGB() bool             { return m.srgb }
func (m *mockGraphics) EnableFramebufferSRGB(enable bool) { m.srgb = enable }
func (m *mockGraphics) EnableBlending(enable bool)        { m.blending = enable }

func (m *mockGraphics) DrawSprite(tex gpucontext.Texture, v effect.Variant, multiplier float32) error {
	m.draws = append(m.draws, drawCall{
		handle:     tex.(*mockTexture).handle,
		variant:    v,
		multiplier: multiplier,
		srgb:       m.srgb,
		blending:   m.blending,
	})
	return m.drawErr
}

var _ Graphics = (*mockGraphics)(nil)
