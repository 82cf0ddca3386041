// sprite/geometry.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sprite

import (
	"unsafe"

	"github.com/mmp/spritebench/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// GeometryRenderer draws each sprite as a single point that the geometry
// shader expands into a quad, with one upload and draw call per sprite.
type GeometryRenderer struct {
	bracket
	pipeline

	vbo    renderer.Buffer
	record [1]spriteInstance
}

func NewGeometryRenderer(dev renderer.Device) (*GeometryRenderer, error) {
	r := &GeometryRenderer{bracket: bracket{name: "geometry"}, pipeline: pipeline{dev: dev}}
	if err := r.create(); err != nil {
		r.release()
		return nil, err
	}
	return r, nil
}

func (r *GeometryRenderer) create() error {
	if err := r.compile(geometryShaderDesc); err != nil {
		return err
	}

	var err error
	if r.vbo, err = r.newBuffer(int(unsafe.Sizeof(r.record)), nil, renderer.DynamicDraw); err != nil {
		return err
	}
	return r.newVertexArray(renderer.VertexArrayDesc{
		Bindings: []renderer.VertexBinding{{Buffer: r.vbo, Attribs: spriteInstanceAttribs(0, 0)}},
	})
}

func (r *GeometryRenderer) Begin(projView mgl32.Mat4) {
	r.begin()
	r.bind(projView)
}

func (r *GeometryRenderer) DrawSprite(region Region, pos, size, origin [2]float32, rotation float32, color Color) {
	r.check("DrawSprite")

	r.bindTexture(region.Texture)
	r.record[0] = makeSpriteInstance(region, pos, size, origin, rotation, color)
	r.dev.UpdateBuffer(r.vbo, 0, renderer.Bytes(r.record[:]))
	r.dev.DrawArrays(renderer.Points, 0, 1)
}

func (r *GeometryRenderer) End() {
	r.end()
}

func (r *GeometryRenderer) Dispose() {
	r.release()
}

///////////////////////////////////////////////////////////////////////////
// GeometryBatchRenderer

// GeometryBatchRenderer buffers one point per sprite and draws them
// together; the geometry shader expands each into a quad.
type GeometryBatchRenderer struct {
	spriteBatch[spriteInstance]
}

func NewGeometryBatchRenderer(dev renderer.Device, capacity int) (*GeometryBatchRenderer, error) {
	r := &GeometryBatchRenderer{}
	if err := r.create(dev, capacity); err != nil {
		r.release()
		return nil, err
	}
	return r, nil
}

func (r *GeometryBatchRenderer) create(dev renderer.Device, capacity int) error {
	if err := checkCapacity(GeometryBatched, capacity); err != nil {
		return err
	}
	if err := r.init("geometry_batch", dev, capacity); err != nil {
		return err
	}
	if err := r.compile(geometryBatchShaderDesc); err != nil {
		return err
	}

	r.draw = func(n int32) { r.dev.DrawArrays(renderer.Points, 0, n) }
	return r.newVertexArray(renderer.VertexArrayDesc{
		Bindings: []renderer.VertexBinding{{Buffer: r.vbo, Attribs: spriteInstanceAttribs(0, 0)}},
	})
}

func (r *GeometryBatchRenderer) DrawSprite(region Region, pos, size, origin [2]float32, rotation float32, color Color) {
	*r.next(region) = makeSpriteInstance(region, pos, size, origin, rotation, color)
}
