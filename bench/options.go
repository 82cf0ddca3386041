// bench/options.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bench

import (
	"log/slog"

	"github.com/mmp/spritebench/platform"
	"github.com/mmp/spritebench/sprite"
	"github.com/mmp/spritebench/util"
)

// Options configures a benchmark run. They may be given on the command
// line or loaded from a JSON file.
type Options struct {
	NumFrames    int    `json:"num_frames"`
	NumBunnies   int    `json:"num_bunnies"`
	BatchSize    int    `json:"batch_size"` // only used by the batched renderers
	RendererType string `json:"renderer_type"`
	Texture      string `json:"texture"` // empty: 1x1 white texture
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Seed         int64  `json:"seed"` // 0: seeded from the time
	Headless     bool   `json:"headless"`
	Summary      bool   `json:"summary"`
}

func DefaultOptions() Options {
	return Options{
		RendererType: sprite.Naive.String(),
		Texture:      "res/rabbit.png",
		Width:        platform.DefaultWindowSize[0],
		Height:       platform.DefaultWindowSize[1],
	}
}

// Kind returns the sprite renderer kind named by the options.
func (o Options) Kind() (sprite.Kind, error) {
	return sprite.ParseKind(o.RendererType)
}

// Validate reports all of the problems with the options to e.
func (o Options) Validate(e *util.ErrorLogger) {
	e.Push("options")
	defer e.Pop()

	if o.NumFrames <= 0 {
		e.ErrorString("num_frames must be positive; got %d", o.NumFrames)
	}
	if o.NumBunnies <= 0 {
		e.ErrorString("num_bunnies must be positive; got %d", o.NumBunnies)
	}
	if o.Width <= 0 || o.Height <= 0 {
		e.ErrorString("window size %dx%d must be positive", o.Width, o.Height)
	}

	kind, err := o.Kind()
	if err != nil {
		e.ErrorString("renderer_type %v; expected one of %v", err, sprite.KindNames())
	} else if kind.Batched() && (o.BatchSize <= 0 || o.BatchSize > kind.MaxCapacity()) {
		e.ErrorString("batch_size %d for %q must be between 1 and %d", o.BatchSize, kind,
			kind.MaxCapacity())
	}
}

func (o Options) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("num_frames", o.NumFrames),
		slog.Int("num_bunnies", o.NumBunnies),
		slog.Int("batch_size", o.BatchSize),
		slog.String("renderer_type", o.RendererType),
		slog.String("texture", o.Texture),
		slog.Int("width", o.Width),
		slog.Int("height", o.Height),
		slog.Int64("seed", o.Seed),
		slog.Bool("headless", o.Headless))
}
