//go:build unix

package main

import (
	"errors"
	"image/color"
	"log/slog"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/gogpu/sharedtex/internal/shm"
	"github.com/gogpu/sharedtex/producer"
	"github.com/gogpu/sharedtex/registry"
)

var colorWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

func newTestScenario(t *testing.T) (*scenario, *registry.Snapshot) {
	t.Helper()
	old := shm.Dir
	shm.Dir = t.TempDir()
	t.Cleanup(func() { shm.Dir = old })

	p, err := producer.New(make([]byte, registry.Size))
	if err != nil {
		t.Fatal(err)
	}
	sc := newScenario(p, producer.NewSurfaces(100), slog.New(slog.DiscardHandler))
	t.Cleanup(func() { sc.Close() })
	return sc, p.Snapshot()
}

func TestDefaultScenario(t *testing.T) {
	sc, snap := newTestScenario(t)
	if err := sc.Load(""); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Count() != 4 {
		t.Fatalf("published %d textures, want 4", snap.Count())
	}
	want := []struct {
		name  string
		flags registry.Flags
	}{
		{"Scene", 0},
		{"Mirror", registry.FlagSRGB},
		{"Overlay", registry.FlagTransparent | registry.FlagUserSize},
		{"Telemetry", registry.FlagUnavailable},
	}
	for i, w := range want {
		d := &snap.Items[i]
		if d.NameString() != w.name || d.Flags != w.flags {
			t.Errorf("slot %d = %q %s, want %q %s", i, d.NameString(), d.Flags, w.name, w.flags)
		}
		if d.Handle == 0 || d.NameKey == 0 {
			t.Errorf("slot %d: handle %d key %d", i, d.Handle, d.NameKey)
		}
	}
	if got := snap.Items[0].DescriptionString(); got != "Main camera" {
		t.Errorf("description = %q", got)
	}
}

func TestPublishPaintsStraightAlpha(t *testing.T) {
	sc, snap := newTestScenario(t)
	err := sc.L.DoString(`publish{name = "A", width = 4, height = 2, color = {r = 10, g = 20, b = 30, a = 40}}`)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Items[0].Width != 4 || snap.Items[0].Height != 2 {
		t.Errorf("size = %dx%d", snap.Items[0].Width, snap.Items[0].Height)
	}
	pix := sc.slots["A"].surface.Image().Pix
	if got := pix[:4]; got[0] != 10 || got[1] != 20 || got[2] != 30 || got[3] != 40 {
		t.Errorf("first pixel = %v, want [10 20 30 40]", got)
	}
}

func TestStepServesRequests(t *testing.T) {
	sc, snap := newTestScenario(t)
	err := sc.L.DoString(`
		publish{name = "A", width = 8, height = 8, pattern = "gradient"}
		frames = 0
		on_frame(function(frame, attached)
			frames = frame
			was_attached = attached
		end)`)
	if err != nil {
		t.Fatal(err)
	}

	// No consumer: nothing is painted, but the handler still runs.
	if err := sc.Step(); err != nil {
		t.Fatal(err)
	}
	if got := sc.L.GetGlobal("frames"); got != lua.LNumber(1) {
		t.Errorf("frames = %v, want 1", got)
	}
	if lua.LVAsBool(sc.L.GetGlobal("was_attached")) {
		t.Error("attached without a heartbeat")
	}

	snap.Heartbeat()
	snap.Items[0].NeedsData = registry.NeedsDataOnce
	before := append([]byte(nil), sc.slots["A"].surface.Image().Pix...)
	if err := sc.Step(); err != nil {
		t.Fatal(err)
	}
	if !lua.LVAsBool(sc.L.GetGlobal("was_attached")) {
		t.Error("not attached after heartbeat")
	}
	if snap.Items[0].NeedsData != registry.NeedsDataNever {
		t.Errorf("once request not consumed: %s", snap.Items[0].NeedsData)
	}
	if string(before) == string(sc.slots["A"].surface.Image().Pix) {
		t.Error("surface not repainted")
	}
}

func TestStepResize(t *testing.T) {
	sc, snap := newTestScenario(t)
	if err := sc.L.DoString(`publish{name = "R", width = 16, height = 16, resizable = true}`); err != nil {
		t.Fatal(err)
	}
	d := &snap.Items[0]
	oldHandle, oldKey := d.Handle, d.NameKey

	snap.Heartbeat()
	d.Width, d.Height = 40, 20
	d.Flags |= registry.FlagOverrideSize
	if err := sc.Step(); err != nil {
		t.Fatal(err)
	}

	if d.Handle == oldHandle {
		t.Error("handle not replaced after resize")
	}
	if d.NameKey != oldKey {
		t.Error("resize changed the name key")
	}
	if d.Flags.Has(registry.FlagOverrideSize) {
		t.Error("override flag not cleared")
	}
	surf := sc.slots["R"].surface
	if surf.Width() != 40 || surf.Height() != 20 || surf.Handle() != d.Handle {
		t.Errorf("surface = %dx%d handle %d, want 40x20 handle %d", surf.Width(), surf.Height(), surf.Handle(), d.Handle)
	}
}

func TestScenarioMutations(t *testing.T) {
	sc, snap := newTestScenario(t)
	err := sc.L.DoString(`
		publish{name = "A"}
		publish{name = "B"}
		publish{name = "C"}
		rename("A", "A2")
		remove("B")
		set_flag("C", "hdr")`)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Count() != 2 {
		t.Fatalf("count = %d, want 2", snap.Count())
	}
	if snap.Items[0].NameString() != "A2" || snap.Items[1].NameString() != "C" {
		t.Errorf("names = %q %q", snap.Items[0].NameString(), snap.Items[1].NameString())
	}
	if !snap.Items[1].Flags.Has(registry.FlagHDR) {
		t.Error("hdr flag not set")
	}

	if err := sc.L.DoString(`crash()`); err != nil {
		t.Fatal(err)
	}
	if snap.State() != registry.StateCrashed {
		t.Errorf("state = %s, want crashed", snap.State())
	}
	if err := sc.L.DoString(`restart() publish{name = "A2"}`); err != nil {
		t.Fatal(err)
	}
	if snap.Count() != 1 {
		t.Errorf("count after restart = %d, want 1", snap.Count())
	}
}

func TestScenarioErrors(t *testing.T) {
	sc, _ := newTestScenario(t)
	for _, script := range []string{
		`publish{}`,
		`publish{name = "X", width = 0}`,
		`publish{name = "X", pattern = "plaid"}`,
		`publish{name = "D"} publish{name = "D"}`,
		`remove("missing")`,
		`publish{name = "F"} set_flag("F", "sparkly")`,
	} {
		var apiErr *lua.ApiError
		if err := sc.L.DoString(script); !errors.As(err, &apiErr) {
			t.Errorf("%s: err = %v, want *lua.ApiError", script, err)
		}
	}
}

func TestMakePattern(t *testing.T) {
	img, err := makePattern("checker", 32, 32, colorWhite)
	if err != nil {
		t.Fatal(err)
	}
	if img.Pix[0] != 255 {
		t.Error("first checker cell should keep the color")
	}
	if i := img.PixOffset(16, 0); img.Pix[i] != 0 || img.Pix[i+3] != 255 {
		t.Errorf("second checker cell = %v", img.Pix[i:i+4])
	}
	if _, err := makePattern("plaid", 1, 1, colorWhite); !errors.Is(err, errUnknownPattern) {
		t.Errorf("err = %v, want errUnknownPattern", err)
	}
}
