// platform/glfw.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"fmt"

	"github.com/mmp/spritebench/log"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwPlatform implements the Platform interface using GLFW.
type glfwPlatform struct {
	window      *glfw.Window
	config      Config
	windowTitle string
	lg          *log.Logger
}

// New returns a new instance of a Platform. Unless config.Headless is set,
// it opens a fixed-size window with a current OpenGL 3.3 core profile
// context; this must be called from the main OS thread.
func New(config Config, lg *log.Logger) (Platform, error) {
	config.setDefaults()
	if config.Headless {
		return NewHeadless(config, lg), nil
	}

	lg.Info("Starting GLFW initialization")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}
	lg.Infof("GLFW: %s", glfw.GetVersionString())

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(config.WindowSize[0], config.WindowSize[1], config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()

	platform := &glfwPlatform{
		window:      window,
		config:      config,
		windowTitle: config.Title,
		lg:          lg,
	}
	platform.EnableVSync(false)
	glfw.SetTime(0)

	lg.Info("Finished GLFW initialization", "window_size", platform.WindowSize(),
		"framebuffer_size", platform.FramebufferSize())

	return platform, nil
}

func (g *glfwPlatform) EnableVSync(sync bool) {
	if sync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
}

func (g *glfwPlatform) Dispose() {
	g.window.Destroy()
	glfw.Terminate()
}

func (g *glfwPlatform) ShouldStop() bool {
	return g.window.ShouldClose()
}

func (g *glfwPlatform) ProcessEvents() bool {
	glfw.PollEvents()
	// No input callbacks are installed; the only event of interest is a
	// request to close the window.
	return g.window.ShouldClose()
}

func (g *glfwPlatform) WindowSize() [2]int {
	w, h := g.window.GetSize()
	return [2]int{w, h}
}

func (g *glfwPlatform) FramebufferSize() [2]float32 {
	w, h := g.window.GetFramebufferSize()
	return [2]float32{float32(w), float32(h)}
}

func (g *glfwPlatform) PostRender() {
	g.window.SwapBuffers()
}

func (g *glfwPlatform) SetWindowTitle(text string) {
	if text != g.windowTitle {
		g.window.SetTitle(text)
		g.windowTitle = text
	}
}

func (g *glfwPlatform) Time() float64 {
	return glfw.GetTime()
}

func (g *glfwPlatform) Headless() bool { return false }
