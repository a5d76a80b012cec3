package sharedtex

import (
	"errors"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/google/uuid"

	"github.com/gogpu/sharedtex/effect"
	"github.com/gogpu/sharedtex/registry"
)

// ErrNilGraphics is returned by NewSource when no Graphics is given.
var ErrNilGraphics = errors.New("sharedtex: nil Graphics")

// Source is one host video source showing a shared texture.
//
// The host drives it once per frame: Tick always, Render when the source is
// visible. Both resolve the binding independently; a frame where resolution
// fails is simply skipped.
//
// Source is not safe for concurrent use. Hosts serialize callbacks per
// instance.
type Source struct {
	id     uuid.UUID
	log    *slog.Logger
	region *Region
	gfx    Graphics

	binding    *Binding
	throttle   *Throttle
	multiplier float32

	// texture is the local view opened from textureHandle. It survives
	// frames where the slot is unavailable so the source does not flicker.
	texture       gpucontext.Texture
	textureHandle uint32

	closed bool
}

// NewSource creates a Source drawing through gfx and applies settings.
func NewSource(gfx Graphics, settings Settings, opts ...SourceOption) (*Source, error) {
	if gfx == nil {
		return nil, ErrNilGraphics
	}
	o := defaultSourceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.region == nil {
		o.region = DefaultRegion()
	}
	if o.id == uuid.Nil {
		o.id = uuid.New()
	}

	s := &Source{
		id:       o.id,
		region:   o.region,
		gfx:      gfx,
		binding:  &Binding{},
		throttle: NewThrottle(0),
	}
	s.log = Logger().With("source", s.id.String())
	s.Update(settings)
	s.log.Info("sharedtex: source created", "name", s.binding.Name())
	return s, nil
}

// ID returns the instance id.
func (s *Source) ID() uuid.UUID {
	return s.id
}

// Region returns the region the source reads from.
func (s *Source) Region() *Region {
	return s.region
}

// Binding returns the source's name binding.
func (s *Source) Binding() *Binding {
	return s.binding
}

// Texture returns the currently open local texture, or nil.
func (s *Source) Texture() gpucontext.Texture {
	return s.texture
}

// Update applies new settings and re-resolves immediately. The throttle is
// reset so the next tick asks the producer for a fresh texture.
func (s *Source) Update(settings Settings) {
	settings = settings.Clamped()
	s.multiplier = settings.Multiplier()
	s.throttle.SetPeriod(uint16(settings.Skip))
	s.binding.SetUserSize(uint16(settings.Width), uint16(settings.Height))
	if s.binding.SetName(settings.Name) {
		s.log.Debug("sharedtex: texture name changed", "name", settings.Name)
	}
	s.binding.Resolve(s.region)
}

// SetName changes the selected texture without touching other settings.
// It reports whether the name changed.
func (s *Source) SetName(name string) bool {
	return s.binding.SetName(name)
}

// Width returns the width of the last resolved texture.
func (s *Source) Width() int {
	w, _ := s.binding.Size()
	return int(w)
}

// Height returns the height of the last resolved texture.
func (s *Source) Height() int {
	_, h := s.binding.Size()
	return int(h)
}

// Tick negotiates this frame's population request with the producer.
func (s *Source) Tick() {
	if s.closed {
		return
	}
	d := s.binding.Resolve(s.region)
	if d == nil || d.Flags.Has(registry.FlagUnavailable) {
		return
	}
	d.NeedsData = s.throttle.Next()
}

// Render draws the texture. The host calls it with the graphics context
// entered.
func (s *Source) Render() {
	if s.closed {
		return
	}
	d := s.binding.Resolve(s.region)
	if d == nil || d.Flags.Has(registry.FlagUnavailable) {
		return
	}

	if d.Handle != s.textureHandle {
		s.textureHandle = d.Handle
		s.releaseTexture()
		if d.Handle != 0 {
			tex, err := s.gfx.OpenSharedTexture(d.Handle)
			if err != nil {
				s.log.Warn("sharedtex: open shared texture failed", "handle", d.Handle, "err", err)
			} else {
				s.texture = tex
			}
		}
	}
	if s.texture == nil {
		return
	}

	v := effect.Select(d.Flags.Has(registry.FlagTransparent), d.Flags.Has(registry.FlagSRGB))
	previous := s.gfx.FramebufferSRGB()
	s.gfx.EnableFramebufferSRGB(false)
	s.gfx.EnableBlending(v.Transparent)
	defer func() {
		s.gfx.EnableBlending(true)
		s.gfx.EnableFramebufferSRGB(previous)
	}()

	if err := s.gfx.DrawSprite(s.texture, v, s.multiplier); err != nil {
		s.log.Warn("sharedtex: draw failed", "handle", s.textureHandle, "err", err)
	}
}

// releaseTexture destroys the local texture. Callers are inside the
// graphics context.
func (s *Source) releaseTexture() {
	if s.texture == nil {
		return
	}
	s.gfx.DestroyTexture(s.texture)
	s.texture = nil
}

// Close releases the local texture inside the graphics context. Further
// Tick and Render calls do nothing. Close is idempotent.
func (s *Source) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.texture != nil {
		s.gfx.Enter()
		s.releaseTexture()
		s.gfx.Leave()
	}
	s.log.Info("sharedtex: source destroyed")
}
