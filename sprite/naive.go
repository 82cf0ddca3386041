// sprite/naive.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sprite

import (
	"github.com/mmp/spritebench/math"
	"github.com/mmp/spritebench/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// NaiveRenderer draws each sprite with its own draw call of the unit
// quad; the transform and color are set as uniforms. The texture
// coordinates live in a small buffer that is only rewritten when the
// region changes from the previous sprite's.
type NaiveRenderer struct {
	bracket
	pipeline

	uvVBO      renderer.Buffer
	uModel     renderer.UniformLocation
	uColor     renderer.UniformLocation
	region     Region
	haveRegion bool
}

func NewNaiveRenderer(dev renderer.Device) (*NaiveRenderer, error) {
	r := &NaiveRenderer{bracket: bracket{name: "naive"}, pipeline: pipeline{dev: dev}}
	if err := r.create(); err != nil {
		r.release()
		return nil, err
	}
	return r, nil
}

func (r *NaiveRenderer) create() error {
	if err := r.compile(naiveShader); err != nil {
		return err
	}
	r.uModel = r.dev.UniformLocation(r.program, "uModel")
	r.uColor = r.dev.UniformLocation(r.program, "uColor")

	mesh, err := r.unitQuadBinding()
	if err != nil {
		return err
	}
	if r.uvVBO, err = r.newBuffer(4*2*4, nil, renderer.DynamicDraw); err != nil {
		return err
	}

	return r.newVertexArray(renderer.VertexArrayDesc{
		Bindings: []renderer.VertexBinding{
			mesh,
			{Buffer: r.uvVBO, Attribs: []renderer.VertexAttrib{{Location: 1, Components: 2, Type: renderer.Float32}}},
		},
	})
}

func (r *NaiveRenderer) Begin(projView mgl32.Mat4) {
	r.begin()
	r.haveRegion = false
	r.bind(projView)
}

func (r *NaiveRenderer) DrawSprite(region Region, pos, size, origin [2]float32, rotation float32, color Color) {
	r.check("DrawSprite")

	r.bindTexture(region.Texture)
	if !r.haveRegion || !r.region.Equal(region) {
		uv := [4][2]float32{
			{region.U0(), region.V1()},
			{region.U0(), region.V0()},
			{region.U1(), region.V1()},
			{region.U1(), region.V0()},
		}
		r.dev.UpdateBuffer(r.uvVBO, 0, renderer.Bytes(uv[:]))
		r.region, r.haveRegion = region, true
	}

	m := math.SpriteTransform(pos, size, origin, rotation)
	r.dev.SetUniformMatrix3(r.uModel, m.ColumnMajor())
	r.dev.SetUniformUint(r.uColor, color.Packed())
	r.dev.DrawArrays(renderer.TriangleStrip, 0, 4)
}

func (r *NaiveRenderer) End() {
	r.end()
}

func (r *NaiveRenderer) Dispose() {
	r.release()
}
