// Command sharedtex-inspect prints the shared texture registry.
//
// By default it reads the registry once and does not touch it. With -attach
// it also writes the consumer heartbeat, which keeps the producer
// publishing as if a source were open.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"golang.org/x/term"

	"github.com/gogpu/sharedtex"
	"github.com/gogpu/sharedtex/registry"
)

func main() {
	var (
		segment = flag.String("segment", registry.SegmentName, "shared memory segment name")
		watch   = flag.Duration("watch", 0, "refresh interval (0 prints once)")
		attach  = flag.Bool("attach", false, "write the consumer heartbeat on every refresh")
		all     = flag.Bool("all", false, "also print slots past the published count")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	sharedtex.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	region := sharedtex.OpenRegion(*segment)
	defer region.Close()

	out := os.Stdout
	tty := term.IsTerminal(int(out.Fd()))
	opts := printOptions{all: *all}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for {
		snap := region.Access()
		if snap == nil && *watch <= 0 {
			log.Fatalf("Failed to open %s: is the producer running?", *segment)
		}
		if snap != nil && *attach {
			snap.Heartbeat()
		}
		opts.width = 0
		if tty {
			if w, _, err := term.GetSize(int(out.Fd())); err == nil {
				opts.width = w
			}
			if *watch > 0 {
				// Clear the screen and home the cursor.
				fmt.Fprint(out, "\x1b[2J\x1b[H")
			}
		}
		if snap == nil {
			fmt.Fprintf(out, "waiting for %s\n", *segment)
		} else if err := printSnapshot(out, snap, opts); err != nil {
			log.Fatal(err)
		}
		if *watch <= 0 {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(*watch):
		}
	}
}
