// platform/platform.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

// Platform is the interface that abstracts the windowing system: creating
// a window with a rendering context, presenting frames, polling events
// and the frame clock.
type Platform interface {
	// ProcessEvents handles all pending window events. Returns true if
	// there were any events and false otherwise.
	ProcessEvents() bool
	// PostRender performs the buffer swap.
	PostRender()
	// Dispose is called when the application is shutting down and is when
	// resources are be freed.
	Dispose()
	// ShouldStop returns true if the window is to be closed.
	ShouldStop() bool
	// SetWindowTitle sets the title of the application window.
	SetWindowTitle(text string)
	// EnableVSync specifies whether v-sync should be used when rendering;
	// it is off by default since it would cap the measured frame rate.
	EnableVSync(sync bool)
	// WindowSize returns the size of the window.
	WindowSize() [2]int
	// FramebufferSize returns the dimension of the framebuffer.
	FramebufferSize() [2]float32
	// Time returns the number of seconds since the platform was created.
	Time() float64
	// Headless reports whether there is no window or rendering context.
	Headless() bool
}

type Config struct {
	WindowSize [2]int
	Title      string
	// Headless selects a platform without a window, for use with the
	// in-memory rendering device.
	Headless bool
}

// DefaultWindowSize is the size of the benchmark window if none is given.
var DefaultWindowSize = [2]int{1280, 720}

func (c *Config) setDefaults() {
	if c.WindowSize[0] <= 0 || c.WindowSize[1] <= 0 {
		c.WindowSize = DefaultWindowSize
	}
	if c.Title == "" {
		c.Title = "Benchmark"
	}
}
