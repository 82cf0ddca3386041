// cmd/bunnymark/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// bunnymark draws a population of bouncing bunnies with one of the sprite
// renderers and prints the CPU and GPU time of each frame.

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/mmp/spritebench/bench"
	"github.com/mmp/spritebench/log"
	"github.com/mmp/spritebench/platform"
	"github.com/mmp/spritebench/rand"
	"github.com/mmp/spritebench/renderer"
	"github.com/mmp/spritebench/sprite"
	"github.com/mmp/spritebench/util"

	"github.com/goforj/godump"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write CPU profile to file")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")
	logLevel   = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir     = flag.String("logdir", "", "log file directory")
	configFile = flag.String("config", "", "JSON file with benchmark options; flags override it")
	dumpConfig = flag.Bool("dump_config", false, "print the resolved options to stderr")

	cmdline bench.Options
)

func init() {
	// OpenGL and friends require that all calls be made from the primary
	// application thread, while by default, go allows the main thread to
	// run on different hardware threads over the course of
	// execution. Therefore, we must lock the main thread at startup time.
	runtime.LockOSThread()

	optionFlags(flag.CommandLine, &cmdline)
}

func main() {
	// Exits on error.
	_ = flag.CommandLine.Parse(lenientArgs(os.Args[1:], lenientFlags))

	// Initialize the logging system first and foremost.
	lg := log.New(*logLevel, *logDir)

	os.Exit(bunnymark(lg))
}

// bunnymark runs the benchmark and returns the process exit status.
func bunnymark(lg *log.Logger) (status int) {
	// Left as is if a panic is caught.
	status = 2
	defer lg.CatchAndReportCrash()

	profiler, err := util.CreateProfiler(*cpuprofile, *memprofile, lg)
	if err != nil {
		lg.Errorf("%v", err)
	}
	defer profiler.Cleanup()

	opts, err := resolveOptions(flag.CommandLine, *configFile, cmdline)
	if err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	var e util.ErrorLogger
	opts.Validate(&e)
	if e.HaveErrors() {
		e.PrintErrors(lg)
		return 1
	}
	if *dumpConfig {
		godump.Fdump(os.Stderr, opts)
	}
	lg.Info("Benchmark options", "options", opts)
	lg.Info("Host", "host", bench.GetHostInfo(lg))

	host, err := platform.New(platform.Config{
		WindowSize: [2]int{opts.Width, opts.Height},
		Title:      "Benchmark",
		Headless:   opts.Headless,
	}, lg)
	if err != nil {
		lg.Errorf("%v", err)
		return 1
	}
	defer host.Dispose()

	dev, err := newDevice(host, lg)
	if err != nil {
		lg.Errorf("%v", err)
		return 1
	}
	defer dev.Dispose()

	// The bunnies bounce off of the edges of the window that was actually
	// created.
	ws := host.WindowSize()
	opts.Width, opts.Height = ws[0], ws[1]
	dev.EnableBlend()
	dev.Viewport(0, 0, int32(ws[0]), int32(ws[1]))

	tex, err := loadTexture(dev, opts.Texture, lg)
	if err != nil {
		lg.Errorf("%v", err)
		return 1
	}
	region, err := sprite.FullRegion(tex)
	if err != nil {
		lg.Errorf("%v", err)
		return 1
	}

	kind, _ := opts.Kind() // validated above
	r, err := sprite.New(kind, dev, opts.BatchSize, lg)
	if err != nil {
		lg.Errorf("%v", err)
		return 1
	}
	defer r.Dispose()
	host.SetWindowTitle(fmt.Sprintf("Benchmark: %s, %d bunnies", kind, opts.NumBunnies))

	rng := rand.Make()
	if opts.Seed != 0 {
		rng = rand.MakeSeeded(opts.Seed)
	}
	bm := bench.New(opts, region, rng)

	camera := renderer.MakeCamera2D()
	results, err := bench.Run(bm, r, dev, host, camera.ProjView(float32(ws[0]), float32(ws[1])), lg)
	if err != nil {
		lg.Errorf("%v", err)
		return 1
	}

	if err := bench.WriteResults(os.Stdout, results); err != nil {
		lg.Errorf("writing results: %v", err)
		return 1
	}
	if opts.Summary {
		fmt.Fprint(os.Stderr, bench.Summarize(results))
	}
	return 0
}

// newDevice returns the in-memory device for headless platforms and
// otherwise an OpenGL device for the platform's context.
func newDevice(host platform.Platform, lg *log.Logger) (renderer.Device, error) {
	if host.Headless() {
		return renderer.NewMemoryDevice(lg), nil
	}
	dev, err := renderer.NewOpenGL3Device(lg)
	if err != nil {
		return nil, err
	}
	return dev, nil
}

func loadTexture(dev renderer.Device, filename string, lg *log.Logger) (renderer.Texture, error) {
	if filename == "" {
		lg.Info("No texture given; using a white quad")
		return renderer.DummyTexture(dev)
	}
	return renderer.LoadTexture(dev, filename, lg)
}
