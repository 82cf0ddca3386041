// bench/bunnymark.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bench

import (
	"fmt"
	"time"

	"github.com/mmp/spritebench/log"
	"github.com/mmp/spritebench/math"
	"github.com/mmp/spritebench/platform"
	"github.com/mmp/spritebench/rand"
	"github.com/mmp/spritebench/renderer"
	"github.com/mmp/spritebench/sprite"
	"github.com/mmp/spritebench/util"

	"github.com/go-gl/mathgl/mgl32"
)

// Bunny is a single simulated sprite; bunnies move in a straight line and
// bounce off of the window edges.
type Bunny struct {
	Position [2]float32
	Size     [2]float32
	Velocity [2]float32 // pixels per second
	Rotation float32    // radians
	Color    sprite.Color
}

// Update advances the bunny by dt seconds. The velocity component along
// an axis is reversed when the bunny is outside of [0,width] or
// [0,height] on that axis; the position itself isn't clamped.
func (b *Bunny) Update(dt float32, width, height float32) {
	b.Position = math.Add2f(b.Position, math.Scale2f(b.Velocity, dt))
	if b.Position[0] < 0 || b.Position[0] > width {
		b.Velocity[0] = -b.Velocity[0]
	}
	if b.Position[1] < 0 || b.Position[1] > height {
		b.Velocity[1] = -b.Velocity[1]
	}
}

type BunnyMark struct {
	Bunnies   []Bunny
	Region    sprite.Region
	NumFrames int
	Width     float32
	Height    float32
}

// New creates the bunnies for a run with the population and window size
// given in opts; all of them are drawn with the given region.
func New(opts Options, region sprite.Region, r *rand.Rand) *BunnyMark {
	bm := &BunnyMark{
		Bunnies:   make([]Bunny, 0, opts.NumBunnies),
		Region:    region,
		NumFrames: opts.NumFrames,
		Width:     float32(opts.Width),
		Height:    float32(opts.Height),
	}

	speed := func() float32 {
		v := float32(r.IntRange(120, 140))
		return util.Select(r.Bool(), -v, v)
	}
	channel := func(low, high int) uint8 { return uint8(r.IntRange(low, high)) }

	for range opts.NumBunnies {
		bm.Bunnies = append(bm.Bunnies, Bunny{
			Position: [2]float32{float32(r.IntRange(0, opts.Width)), float32(r.IntRange(0, opts.Height))},
			Size:     [2]float32{float32(r.IntRange(20, 60)), float32(r.IntRange(20, 60))},
			Velocity: [2]float32{speed(), speed()},
			Rotation: math.Radians(float32(r.IntRange(0, 360))),
			Color: sprite.Color{
				R: channel(10, 255),
				G: channel(10, 255),
				B: channel(10, 255),
				A: channel(80, 250),
			},
		})
	}
	return bm
}

// FrameResult holds the times measured for a single frame: CPU is the
// wall clock time from the start of submission through the buffer swap
// and GPU is the device execution time of the submitted commands.
type FrameResult struct {
	CPU time.Duration
	GPU time.Duration
}

// Run runs the benchmark for bm.NumFrames frames, drawing the bunnies
// with r. The concrete renderer type is recovered so that the per-sprite
// loop is instantiated for it.
func Run(bm *BunnyMark, r sprite.Renderer, dev renderer.Device, host platform.Platform, projView mgl32.Mat4,
	lg *log.Logger) ([]FrameResult, error) {
	lg.Info("Starting benchmark", "renderer", fmt.Sprintf("%T", r), "bunnies", len(bm.Bunnies),
		"frames", bm.NumFrames)
	dev.ResetStats()

	var results []FrameResult
	var err error
	switch r := r.(type) {
	case *sprite.NaiveRenderer:
		results, err = run(bm, r, dev, host, projView)
	case *sprite.VertexBatchRenderer:
		results, err = run(bm, r, dev, host, projView)
	case *sprite.CPUInstanceRenderer:
		results, err = run(bm, r, dev, host, projView)
	case *sprite.GPUInstanceRenderer:
		results, err = run(bm, r, dev, host, projView)
	case *sprite.GeometryRenderer:
		results, err = run(bm, r, dev, host, projView)
	case *sprite.GeometryBatchRenderer:
		results, err = run(bm, r, dev, host, projView)
	default:
		results, err = run(bm, r, dev, host, projView)
	}
	if err != nil {
		return nil, err
	}

	lg.Info("Benchmark finished", "device_stats", dev.Stats(), "summary", Summarize(results))
	return results, nil
}

func run[R sprite.Renderer](bm *BunnyMark, r R, dev renderer.Device, host platform.Platform,
	projView mgl32.Mat4) ([]FrameResult, error) {
	query, err := dev.NewTimerQuery()
	if err != nil {
		return nil, fmt.Errorf("timer query: %w", err)
	}
	defer dev.DeleteTimerQuery(query)

	results := make([]FrameResult, 0, bm.NumFrames)
	last := host.Time()
	for range bm.NumFrames {
		now := host.Time()
		dt := float32(now - last)
		last = now

		start := time.Now()
		dev.BeginTimerQuery(query)
		dev.Clear(renderer.ClearColor)

		r.Begin(projView)
		for i := range bm.Bunnies {
			b := &bm.Bunnies[i]
			b.Update(dt, bm.Width, bm.Height)
			r.DrawSprite(bm.Region, b.Position, b.Size, math.Scale2f(b.Size, 0.5), b.Rotation, b.Color)
		}
		r.End()

		dev.EndTimerQuery()
		host.PostRender()
		host.ProcessEvents()
		cpu := time.Since(start)

		results = append(results, FrameResult{CPU: cpu, GPU: dev.WaitTimerQuery(query)})
	}
	return results, nil
}
