// sprite/region.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sprite

import (
	"fmt"
	gomath "math"

	"github.com/mmp/spritebench/renderer"
)

// Region identifies a rectangle of texels within a texture. The bounds
// are in pixels; (X0,Y0) is the minimum corner and (X1,Y1) the maximum.
type Region struct {
	Texture        renderer.Texture
	X0, Y0, X1, Y1 uint16
}

// RegionFromTexture returns the region of the texture with the given
// pixel bounds, which must satisfy 0 <= x0 <= x1 <= width and likewise in
// y.
func RegionFromTexture(tex renderer.Texture, x0, y0, x1, y1 int) (Region, error) {
	if !tex.Valid() {
		return Region{}, fmt.Errorf("region: invalid texture")
	}
	if tex.Width > gomath.MaxUint16 || tex.Height > gomath.MaxUint16 {
		return Region{}, fmt.Errorf("region: %dx%d texture too large", tex.Width, tex.Height)
	}
	if x0 < 0 || x0 > x1 || x1 > tex.Width || y0 < 0 || y0 > y1 || y1 > tex.Height {
		return Region{}, fmt.Errorf("region: bounds (%d,%d)-(%d,%d) outside %dx%d texture", x0, y0, x1, y1,
			tex.Width, tex.Height)
	}
	return Region{Texture: tex, X0: uint16(x0), Y0: uint16(y0), X1: uint16(x1), Y1: uint16(y1)}, nil
}

// FullRegion returns the region covering the entire texture.
func FullRegion(tex renderer.Texture) (Region, error) {
	return RegionFromTexture(tex, 0, 0, tex.Width, tex.Height)
}

// U0 returns the normalized texture coordinate of X0; U1, V0 and V1 are
// similar.
func (r Region) U0() float32 { return float32(r.X0) / float32(r.Texture.Width) }
func (r Region) V0() float32 { return float32(r.Y0) / float32(r.Texture.Height) }
func (r Region) U1() float32 { return float32(r.X1) / float32(r.Texture.Width) }
func (r Region) V1() float32 { return float32(r.Y1) / float32(r.Texture.Height) }

// Equal compares the texture and pixel bounds of two regions.
func (r Region) Equal(o Region) bool {
	return r.Texture.ID == o.Texture.ID && r.X0 == o.X0 && r.Y0 == o.Y0 && r.X1 == o.X1 && r.Y1 == o.Y1
}

// stripUVs returns the region's pixel bounds in triangle strip order for
// the unit quad corners (0,0), (0,1), (1,0), (1,1).
func (r Region) stripUVs() [4][2]uint16 {
	return [4][2]uint16{{r.X0, r.Y1}, {r.X0, r.Y0}, {r.X1, r.Y1}, {r.X1, r.Y0}}
}

///////////////////////////////////////////////////////////////////////////
// Color

// Color is an 8-bit per channel RGBA color; its memory layout matches a
// normalized 4 x GL_UNSIGNED_BYTE vertex attribute.
type Color struct {
	R, G, B, A uint8
}

var White = Color{R: 255, G: 255, B: 255, A: 255}

// Packed returns the color as R<<24 | G<<16 | B<<8 | A.
func (c Color) Packed() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}
