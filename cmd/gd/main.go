// Command gd renders structured page files with the gd renderers.
//
// Usage:
//
//	gd renderers
//	gd render PAGE.json -r svg -o plot.svg [--zoom 2] [--width W --height H]
//	gd render PAGE.json -o plot.png --watch
//
// Settings may also come from a TOML file (--config, default
// ~/.config/gd/gd.toml):
//
//	renderer  = "svgp"
//	zoom      = 2
//	log_level = "debug"
//	extra_css = ".httpgd line { stroke-linecap: butt; }"
//
// Flags override file values.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
