// Command sharedtex-preview runs a capture source outside of a host.
//
// It loads the host module, creates one capture source on a backend,
// drives it for a number of frames like a host would and writes the last
// composed frame to an image file. The source's properties are printed
// first, which makes it a quick check of what a host would show.
//
// Usage:
//
//	sharedtex-preview -name Mirror -brightness 150 -out mirror.png
//	sharedtex-preview -settings source.json -frames 120
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/disintegration/imaging"

	"github.com/gogpu/sharedtex"
	"github.com/gogpu/sharedtex/backend"
	"github.com/gogpu/sharedtex/host"
	"github.com/gogpu/sharedtex/registry"
)

func main() {
	var (
		segment     = flag.String("segment", registry.SegmentName, "shared memory segment name")
		backendName = flag.String("backend", "", "backend name (best available if empty)")
		width       = flag.Int("width", 1280, "framebuffer width")
		height      = flag.Int("height", 720, "framebuffer height")
		frames      = flag.Int("frames", 60, "frames to run before writing the output")
		fps         = flag.Int("fps", 60, "host frame rate")
		settings    = flag.String("settings", "", "JSON file with source settings")
		name        = flag.String("name", sharedtex.DefaultName, "texture name")
		brightness  = flag.Int("brightness", sharedtex.DefaultBrightness, "brightness in percent")
		skip        = flag.Int("skip", sharedtex.DefaultSkip, "frames skipped between populations")
		texWidth    = flag.Int("tex-width", sharedtex.DefaultSize, "requested width of resizable textures")
		texHeight   = flag.Int("tex-height", sharedtex.DefaultSize, "requested height of resizable textures")
		output      = flag.String("out", "preview.png", "output image (format from extension)")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nBackends: %v\n", backend.Available())
	}
	flag.Parse()

	if *fps <= 0 {
		log.Fatalf("Invalid -fps %d", *fps)
	}
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	sharedtex.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	data := host.NewMapData()
	if *settings != "" {
		raw, err := os.ReadFile(*settings)
		if err != nil {
			log.Fatalf("Failed to read settings: %v", err)
		}
		if err := json.Unmarshal(raw, data); err != nil {
			log.Fatalf("Failed to parse settings: %v", err)
		}
	}
	// Flags given explicitly win over the settings file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			data.SetString(sharedtex.KeyName, *name)
		case "brightness":
			data.SetInt(sharedtex.KeyBrightness, int64(*brightness))
		case "skip":
			data.SetInt(sharedtex.KeySkip, int64(*skip))
		case "tex-width":
			data.SetInt(sharedtex.KeyWidth, int64(*texWidth))
		case "tex-height":
			data.SetInt(sharedtex.KeyHeight, int64(*texHeight))
		}
	})

	b, err := newBackend(*backendName, *width, *height)
	if err != nil {
		log.Fatalf("Failed to create backend: %v", err)
	}
	defer b.Close()

	region := sharedtex.OpenRegion(*segment)
	defer region.Close()
	mod := host.NewModule(host.WithCaptureRegion(region))
	if err := mod.Load(); err != nil {
		log.Fatalf("Failed to load module: %v", err)
	}
	defer mod.Unload()

	inst, err := mod.CreateSource(host.CaptureID, data, b)
	if err != nil {
		log.Fatalf("Failed to create source: %v", err)
	}
	defer inst.Destroy()

	printProperties(os.Stdout, inst.Properties())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	run(ctx, inst, b, *frames, time.Second/time.Duration(*fps))

	if err := imaging.Save(b.Frame(), *output); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}
	fmt.Printf("wrote %s (%dx%d, texture %dx%d)\n", *output, *width, *height, inst.Width(), inst.Height())
}

func newBackend(name string, width, height int) (backend.Backend, error) {
	if name == "" {
		return backend.Default(width, height)
	}
	return backend.New(name, width, height)
}

// run drives inst for frames host frames, one every period.
func run(ctx context.Context, inst host.Instance, b backend.Backend, frames int, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	seconds := float32(period.Seconds())
	for n := 0; n < frames; n++ {
		renderFrame(inst, b, seconds)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// renderFrame performs one host frame: tick, then render inside the
// graphics context onto a cleared framebuffer.
func renderFrame(inst host.Instance, b backend.Backend, seconds float32) {
	inst.Tick(seconds)
	b.Enter()
	defer b.Leave()
	b.Clear(color.Black)
	inst.Render()
}
