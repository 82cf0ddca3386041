// renderer/camera.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera2D gives a pixel-space orthographic view with the origin at the
// top left of the window and y increasing downward.
type Camera2D struct {
	Position mgl32.Vec3
	Rotation float32
	Zoom     float32
}

func MakeCamera2D() Camera2D {
	return Camera2D{Zoom: 1}
}

// View returns translate(Position) * rotateZ(Rotation).
func (c Camera2D) View() mgl32.Mat4 {
	return mgl32.Translate3D(c.Position[0], c.Position[1], c.Position[2]).Mul4(mgl32.HomogRotate3DZ(c.Rotation))
}

// Projection returns the orthographic projection for a viewport of the
// given size in pixels.
func (c Camera2D) Projection(width, height float32) mgl32.Mat4 {
	zoom := c.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return mgl32.Ortho(0, width/zoom, height/zoom, 0, -1, 1)
}

func (c Camera2D) ProjView(width, height float32) mgl32.Mat4 {
	return c.Projection(width, height).Mul4(c.View())
}
