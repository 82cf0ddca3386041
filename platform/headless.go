// platform/headless.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"time"

	"github.com/mmp/spritebench/log"
)

// headlessPlatform implements Platform without a window. Frames are
// counted but not presented and time comes from the wall clock.
type headlessPlatform struct {
	config Config
	start  time.Time
	now    func() time.Time
	frames int
	title  string
	lg     *log.Logger
}

// NewHeadless returns a Platform that has no window; unlike the GLFW
// platform it may be used from any goroutine.
func NewHeadless(config Config, lg *log.Logger) Platform {
	config.setDefaults()
	lg.Info("Using headless platform", "window_size", config.WindowSize)
	return &headlessPlatform{
		config: config,
		start:  time.Now(),
		now:    time.Now,
		title:  config.Title,
		lg:     lg,
	}
}

func (h *headlessPlatform) ProcessEvents() bool { return false }

func (h *headlessPlatform) PostRender() { h.frames++ }

func (h *headlessPlatform) Dispose() {
	h.lg.Info("Headless platform disposed", "frames", h.frames)
}

func (h *headlessPlatform) ShouldStop() bool { return false }

func (h *headlessPlatform) SetWindowTitle(text string) { h.title = text }

func (h *headlessPlatform) EnableVSync(bool) {}

func (h *headlessPlatform) WindowSize() [2]int { return h.config.WindowSize }

func (h *headlessPlatform) FramebufferSize() [2]float32 {
	return [2]float32{float32(h.config.WindowSize[0]), float32(h.config.WindowSize[1])}
}

func (h *headlessPlatform) Time() float64 {
	return h.now().Sub(h.start).Seconds()
}

func (h *headlessPlatform) Headless() bool { return true }
