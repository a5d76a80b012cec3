package main

import (
	"fmt"
	"io"

	"github.com/gogpu/sharedtex"
)

// printProperties lists the properties a host would show, one per line.
func printProperties(w io.Writer, p *sharedtex.Properties) {
	if p.Warning != sharedtex.WarningNone {
		fmt.Fprintf(w, "warning: %s\n", p.Warning.Message())
		return
	}
	fmt.Fprintf(w, "%s:\n", p.Names.Label)
	for _, c := range p.Names.Choices {
		fmt.Fprintf(w, "  %s\n", c.Label)
	}

	r := p.Remaining
	if r.Description != "" {
		fmt.Fprintf(w, "description: %s\n", r.Description)
	}
	for _, ip := range []*sharedtex.IntProperty{r.Width, r.Height, &r.Brightness, &r.Skip} {
		if ip == nil {
			continue
		}
		fmt.Fprintf(w, "%s: %d..%d%s\n", ip.Label, ip.Min, ip.Max, ip.Suffix)
	}
}
