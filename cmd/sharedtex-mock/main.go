// Command sharedtex-mock publishes test textures the way the game does.
//
// It creates the registry segment, runs a Lua scenario that publishes
// textures, then steps the producer at a fixed rate: it decays the consumer
// heartbeat, serves population and resize requests and calls the
// scenario's on_frame handler. Pixels are shared through the software
// handle protocol that the backend package opens.
//
// Scenario functions:
//
//	publish{name=, description=, width=, height=, pattern=, color={r,g,b,a},
//	        transparent=, srgb=, hdr=, monochrome=, resizable=, unavailable=}
//	rename(old, new)
//	remove(name)
//	set_flag(name, flag, on)
//	crash()
//	restart()
//	on_frame(function(frame, attached) ... end)
//	log(message)
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gogpu/sharedtex/producer"
	"github.com/gogpu/sharedtex/registry"
)

//go:embed default.lua
var defaultScript string

func main() {
	var (
		segment    = flag.String("segment", registry.SegmentName, "shared memory segment name")
		script     = flag.String("script", "", "Lua scenario (built-in scenario if empty)")
		fps        = flag.Int("fps", 60, "producer frame rate")
		frames     = flag.Int("frames", 0, "stop after this many frames (0 runs until interrupted)")
		handleBase = flag.Uint("handle-base", 0x1000, "first shared texture handle")
		remove     = flag.Bool("remove", false, "remove the segment on exit instead of leaving it marked crashed")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *fps <= 0 {
		log.Fatalf("Invalid -fps %d", *fps)
	}
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	p, err := producer.Create(*segment)
	if err != nil {
		log.Fatalf("Failed to create registry: %v", err)
	}
	sc := newScenario(p, producer.NewSurfaces(uint32(*handleBase)), logger)
	if err := sc.Load(*script); err != nil {
		_ = p.Close()
		log.Fatalf("Failed to load scenario: %v", err)
	}
	logger.Info("producer running", "segment", *segment, "textures", p.Len(), "fps", *fps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, sc, time.Second/time.Duration(*fps), *frames)
	stop()

	if cerr := sc.Close(); cerr != nil {
		logger.Warn("free surfaces", "err", cerr)
	}
	if cerr := p.Close(); cerr != nil {
		logger.Warn("close registry", "err", cerr)
	}
	if *remove {
		if rerr := producer.RemoveSegment(*segment); rerr != nil {
			logger.Warn("remove segment", "err", rerr)
		}
	}
	if err != nil {
		log.Fatal(err)
	}
}

// run steps the scenario every period until ctx is done or frames steps
// have run.
func run(ctx context.Context, sc *scenario, period time.Duration, frames int) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for n := 0; frames <= 0 || n < frames; n++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if err := sc.Step(); err != nil {
			return fmt.Errorf("frame %d: %w", sc.frame, err)
		}
	}
	return nil
}
