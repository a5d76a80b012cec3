package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"
	lua "github.com/yuin/gopher-lua"

	"github.com/gogpu/sharedtex/producer"
	"github.com/gogpu/sharedtex/registry"
)

// slot is a texture the scenario published.
type slot struct {
	name    string
	pattern *image.NRGBA
	scaled  *image.NRGBA
	surface *producer.Surface
}

// scenario runs a Lua script against a producer. Scripts publish textures
// at load time and may react to frames with on_frame.
type scenario struct {
	L        *lua.LState
	log      *slog.Logger
	p        *producer.Producer
	surfaces *producer.Surfaces
	slots    map[string]*slot
	onFrame  *lua.LFunction
	frame    int
}

func newScenario(p *producer.Producer, surfaces *producer.Surfaces, log *slog.Logger) *scenario {
	s := &scenario{
		L:        lua.NewState(),
		log:      log,
		p:        p,
		surfaces: surfaces,
		slots:    make(map[string]*slot),
	}
	for name, fn := range map[string]lua.LGFunction{
		"publish":  s.luaPublish,
		"rename":   s.luaRename,
		"remove":   s.luaRemove,
		"crash":    s.luaCrash,
		"restart":  s.luaRestart,
		"set_flag": s.luaSetFlag,
		"on_frame": s.luaOnFrame,
		"log":      s.luaLog,
	} {
		s.L.SetGlobal(name, s.L.NewFunction(fn))
	}
	return s
}

// Load runs a script from a file, or the built-in one when path is empty.
func (s *scenario) Load(path string) error {
	if path == "" {
		return s.L.DoString(defaultScript)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.L.DoString(string(src))
}

// Step advances the producer by one frame, serves population requests and
// calls the script's frame handler.
func (s *scenario) Step() error {
	s.frame++
	reqs, attached := s.p.Step()
	for _, req := range reqs {
		sl := s.slots[req.Name]
		if sl == nil {
			continue
		}
		if req.Resized || sl.surface == nil {
			if err := s.realloc(sl, req.Index, req.Width, req.Height); err != nil {
				return err
			}
		}
		s.paint(sl)
	}
	if s.onFrame == nil {
		return nil
	}
	return s.L.CallByParam(lua.P{Fn: s.onFrame, NRet: 0, Protect: true},
		lua.LNumber(s.frame), lua.LBool(attached))
}

// Close frees the Lua state and every surface.
func (s *scenario) Close() error {
	s.L.Close()
	return s.surfaces.Close()
}

// realloc gives sl a new surface of the requested size and publishes its
// handle. The old surface is freed after the handle switch.
func (s *scenario) realloc(sl *slot, index, width, height int) error {
	if width <= 0 || height <= 0 {
		width, height = sl.pattern.Bounds().Dx(), sl.pattern.Bounds().Dy()
	}
	surf, err := s.surfaces.Alloc(width, height)
	if err != nil {
		return err
	}
	if err := s.p.SetHandle(index, surf.Handle()); err != nil {
		_ = s.surfaces.Free(surf)
		return err
	}
	old := sl.surface
	sl.surface = surf
	s.log.Debug("surface allocated", "name", sl.name, "handle", surf.Handle(), "width", width, "height", height)
	return s.surfaces.Free(old)
}

// paint copies the pattern into the surface, scrolled by the frame number
// so consumers see the texture change.
func (s *scenario) paint(sl *slot) {
	dst := sl.surface.Image()
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	src := sl.pattern
	if b := src.Bounds(); b.Dx() != w || b.Dy() != h {
		if sl.scaled == nil || sl.scaled.Rect.Dx() != w || sl.scaled.Rect.Dy() != h {
			sl.scaled = imaging.Resize(sl.pattern, w, h, imaging.Lanczos)
		}
		src = sl.scaled
	}
	shift := (s.frame % w) * 4
	row := w * 4
	for y := 0; y < h; y++ {
		// Straight alpha on both sides: copy bytes, do not convert.
		sp := src.Pix[y*src.Stride : y*src.Stride+row]
		dp := dst.Pix[y*dst.Stride : y*dst.Stride+row]
		n := copy(dp, sp[shift:])
		copy(dp[n:], sp[:shift])
	}
}

func (s *scenario) luaPublish(L *lua.LState) int {
	t := L.CheckTable(1)
	name := lua.LVAsString(t.RawGetString("name"))
	if name == "" {
		L.ArgError(1, "name is required")
	}
	if _, ok := s.slots[name]; ok {
		L.RaiseError("texture %q already published", name)
	}
	width := intField(t, "width", 256)
	height := intField(t, "height", 256)
	if width <= 0 || height <= 0 {
		L.ArgError(1, fmt.Sprintf("bad size %dx%d", width, height))
	}

	var flags registry.Flags
	for key, f := range flagFields {
		if lua.LVAsBool(t.RawGetString(key)) {
			flags |= f
		}
	}

	c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if ct, ok := t.RawGetString("color").(*lua.LTable); ok {
		c = color.NRGBA{
			R: uint8(intField(ct, "r", 255)),
			G: uint8(intField(ct, "g", 255)),
			B: uint8(intField(ct, "b", 255)),
			A: uint8(intField(ct, "a", 255)),
		}
	}
	pattern, err := makePattern(lua.LVAsString(t.RawGetString("pattern")), width, height, c)
	if err != nil {
		L.ArgError(1, err.Error())
	}

	sl := &slot{name: name, pattern: pattern}
	surf, err := s.surfaces.Alloc(width, height)
	if err != nil {
		L.RaiseError("%v", err)
	}
	sl.surface = surf
	s.paint(sl)

	index, err := s.p.Publish(producer.Texture{
		Name:        name,
		Description: lua.LVAsString(t.RawGetString("description")),
		Handle:      surf.Handle(),
		Width:       width,
		Height:      height,
		Flags:       flags,
	})
	if err != nil {
		_ = s.surfaces.Free(surf)
		L.RaiseError("%v", err)
	}
	s.slots[name] = sl
	s.log.Info("texture published", "name", name, "index", index, "handle", surf.Handle())
	L.Push(lua.LNumber(index))
	return 1
}

func (s *scenario) luaRename(L *lua.LState) int {
	from, to := L.CheckString(1), L.CheckString(2)
	sl, index := s.lookup(L, from)
	if err := s.p.Rename(index, to); err != nil {
		L.RaiseError("%v", err)
	}
	delete(s.slots, from)
	sl.name = to
	s.slots[to] = sl
	s.log.Info("texture renamed", "from", from, "to", to)
	return 0
}

func (s *scenario) luaRemove(L *lua.LState) int {
	name := L.CheckString(1)
	sl, index := s.lookup(L, name)
	if err := s.p.Remove(index); err != nil {
		L.RaiseError("%v", err)
	}
	delete(s.slots, name)
	if err := s.surfaces.Free(sl.surface); err != nil {
		s.log.Warn("free surface", "name", name, "err", err)
	}
	s.log.Info("texture removed", "name", name)
	return 0
}

func (s *scenario) luaCrash(L *lua.LState) int {
	s.p.Crash()
	s.log.Info("registry marked crashed")
	return 0
}

// luaRestart clears the registry. Published slots are forgotten and their
// surfaces freed; scripts publish again afterwards.
func (s *scenario) luaRestart(L *lua.LState) int {
	s.p.Restart()
	for name, sl := range s.slots {
		_ = s.surfaces.Free(sl.surface)
		delete(s.slots, name)
	}
	s.log.Info("registry restarted")
	return 0
}

func (s *scenario) luaSetFlag(L *lua.LState) int {
	name, key, on := L.CheckString(1), L.CheckString(2), L.OptBool(3, true)
	f, ok := flagFields[key]
	if !ok {
		L.ArgError(2, "unknown flag "+key)
	}
	_, index := s.lookup(L, name)
	flags := s.p.Snapshot().Items[index].Flags
	if on {
		flags |= f
	} else {
		flags &^= f
	}
	if err := s.p.SetFlags(index, flags); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (s *scenario) luaOnFrame(L *lua.LState) int {
	s.onFrame = L.CheckFunction(1)
	return 0
}

func (s *scenario) luaLog(L *lua.LState) int {
	s.log.Info(L.CheckString(1), "frame", s.frame)
	return 0
}

// lookup returns the slot published under name and its current index.
func (s *scenario) lookup(L *lua.LState, name string) (*slot, int) {
	sl, ok := s.slots[name]
	if !ok {
		L.RaiseError("no texture %q", name)
	}
	index, ok := s.p.Find(name)
	if !ok {
		L.RaiseError("texture %q is not in the registry", name)
	}
	return sl, index
}

// flagFields maps publish table keys to descriptor flags.
var flagFields = map[string]registry.Flags{
	"unavailable": registry.FlagUnavailable,
	"transparent": registry.FlagTransparent,
	"srgb":        registry.FlagSRGB,
	"monochrome":  registry.FlagMonochrome,
	"hdr":         registry.FlagHDR,
	"resizable":   registry.FlagUserSize,
}

func intField(t *lua.LTable, key string, def int) int {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return def
}

var errUnknownPattern = errors.New("unknown pattern")

// makePattern renders a test image in straight alpha.
func makePattern(kind string, width, height int, c color.NRGBA) (*image.NRGBA, error) {
	img := imaging.New(width, height, c)
	switch kind {
	case "", "solid":
	case "gradient":
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				i := img.PixOffset(x, y)
				img.Pix[i+0] = uint8(int(c.R) * x / max(1, width-1))
				img.Pix[i+1] = uint8(int(c.G) * y / max(1, height-1))
			}
		}
	case "checker":
		const cell = 16
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if (x/cell+y/cell)%2 == 1 {
					i := img.PixOffset(x, y)
					img.Pix[i+0], img.Pix[i+1], img.Pix[i+2] = 0, 0, 0
				}
			}
		}
	default:
		return nil, fmt.Errorf("%w %q", errUnknownPattern, kind)
	}
	return img, nil
}
