// cmd/bunnymark/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"flag"
	"fmt"

	"github.com/mmp/spritebench/bench"
	"github.com/mmp/spritebench/util"
)

// resolveOptions returns the options for the run: the defaults, then the
// JSON file given with -config, if any, then the flags that were
// explicitly set on the command line.
func resolveOptions(fs *flag.FlagSet, configFile string, cl bench.Options) (bench.Options, error) {
	opts := bench.DefaultOptions()
	if configFile != "" {
		if err := util.UnmarshalJSONFile(configFile, &opts); err != nil {
			return bench.Options{}, fmt.Errorf("%s: %w", configFile, err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "num_frames":
			opts.NumFrames = cl.NumFrames
		case "num_bunnies":
			opts.NumBunnies = cl.NumBunnies
		case "batch_size":
			opts.BatchSize = cl.BatchSize
		case "renderer_type":
			opts.RendererType = cl.RendererType
		case "texture":
			opts.Texture = cl.Texture
		case "width":
			opts.Width = cl.Width
		case "height":
			opts.Height = cl.Height
		case "seed":
			opts.Seed = cl.Seed
		case "headless":
			opts.Headless = cl.Headless
		case "summary":
			opts.Summary = cl.Summary
		}
	})

	return opts, nil
}

// optionFlags registers the flags for each of the options in fs, storing
// their values in opts.
func optionFlags(fs *flag.FlagSet, opts *bench.Options) {
	def := bench.DefaultOptions()
	*opts = def

	fs.Var(lenientInt{&opts.NumFrames}, "num_frames", "number of frames to run")
	fs.Var(lenientInt{&opts.NumBunnies}, "num_bunnies", "number of bunnies")
	fs.Var(lenientInt{&opts.BatchSize}, "batch_size", "sprites per draw call for the batched renderers")
	fs.StringVar(&opts.RendererType, "renderer_type", def.RendererType,
		"renderer: naive, batch, instance_cpu, instance, geometry, geometry_batch")
	fs.StringVar(&opts.Texture, "texture", def.Texture, "bunny texture image; empty for a plain white quad")
	fs.IntVar(&opts.Width, "width", def.Width, "window width")
	fs.IntVar(&opts.Height, "height", def.Height, "window height")
	fs.Int64Var(&opts.Seed, "seed", def.Seed, "random seed; 0 to seed from the time")
	fs.BoolVar(&opts.Headless, "headless", def.Headless, "run without a window using the in-memory device")
	fs.BoolVar(&opts.Summary, "summary", def.Summary, "print summary statistics to stderr")
}

// lenientFlags are the flags whose values are parsed with lenientInt.
var lenientFlags = []string{"num_frames", "num_bunnies", "batch_size"}
