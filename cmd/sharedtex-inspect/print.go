package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gogpu/sharedtex/registry"
)

type printOptions struct {
	// width truncates lines to the terminal width; 0 disables truncation.
	width int

	// all prints every slot, not only the published ones.
	all bool
}

// printSnapshot writes a header line and one table row per slot.
func printSnapshot(w io.Writer, snap *registry.Snapshot, opts printOptions) error {
	var b strings.Builder
	fmt.Fprintf(&b, "state %s  items %d  alive %d/%d\n", snap.State(), snap.ItemsCount, snap.AliveCounter, registry.AliveMax)

	n := snap.Count()
	if opts.all {
		n = registry.Capacity
	}
	if n > 0 {
		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tKEY\tHANDLE\tSIZE\tNEEDS\tFLAGS\tNAME\tDESCRIPTION")
		for i := 0; i < n; i++ {
			d := &snap.Items[i]
			fmt.Fprintf(tw, "%d\t%d\t%#x\t%dx%d\t%s\t%s\t%s\t%s\n",
				i, d.NameKey, d.Handle, d.Width, d.Height, d.NeedsData, d.Flags, d.NameString(), d.DescriptionString())
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	for _, line := range strings.SplitAfter(b.String(), "\n") {
		if line == "" {
			continue
		}
		if _, err := io.WriteString(w, truncate(line, opts.width)); err != nil {
			return err
		}
	}
	return nil
}

// truncate cuts line to width runes, keeping its trailing newline.
func truncate(line string, width int) string {
	if width <= 0 {
		return line
	}
	body, nl := strings.CutSuffix(line, "\n")
	if r := []rune(body); len(r) > width {
		body = string(r[:width-1]) + "…"
	}
	if nl {
		return body + "\n"
	}
	return body
}
