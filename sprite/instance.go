// sprite/instance.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sprite

import (
	"unsafe"

	"github.com/mmp/spritebench/math"
	"github.com/mmp/spritebench/renderer"
)

// uvAttribs returns the attributes for four consecutive uint16 pixel
// coordinate pairs starting at offset in a record.
func uvAttribs(location uint32, offset int, stride int32, divisor uint32) []renderer.VertexAttrib {
	var attribs []renderer.VertexAttrib
	for i := range 4 {
		attribs = append(attribs, renderer.VertexAttrib{
			Location:   location + uint32(i),
			Components: 2,
			Type:       renderer.Uint16,
			Stride:     stride,
			Offset:     offset + 4*i,
			Divisor:    divisor,
		})
	}
	return attribs
}

// unitQuadBinding creates the static unit quad buffer read at location 0.
func (p *pipeline) unitQuadBinding() (renderer.VertexBinding, error) {
	mesh := renderer.Bytes(unitQuad[:])
	vbo, err := p.newBuffer(len(mesh), mesh, renderer.StaticDraw)
	if err != nil {
		return renderer.VertexBinding{}, err
	}
	return renderer.VertexBinding{
		Buffer:  vbo,
		Attribs: []renderer.VertexAttrib{{Location: 0, Components: 2, Type: renderer.Float32}},
	}, nil
}

///////////////////////////////////////////////////////////////////////////
// CPUInstanceRenderer

type cpuInstance struct {
	Model [9]float32   // column major
	UV    [4][2]uint16 // pixels, in unitQuad order
	Color Color
}

// CPUInstanceRenderer computes each sprite's model matrix on the CPU and
// draws the buffered sprites as instances of the unit quad.
type CPUInstanceRenderer struct {
	spriteBatch[cpuInstance]
}

func NewCPUInstanceRenderer(dev renderer.Device, capacity int) (*CPUInstanceRenderer, error) {
	r := &CPUInstanceRenderer{}
	if err := r.create(dev, capacity); err != nil {
		r.release()
		return nil, err
	}
	return r, nil
}

func (r *CPUInstanceRenderer) create(dev renderer.Device, capacity int) error {
	if err := checkCapacity(CPUInstanced, capacity); err != nil {
		return err
	}
	if err := r.init("instance_cpu", dev, capacity); err != nil {
		return err
	}
	if err := r.compile(cpuInstanceShader); err != nil {
		return err
	}
	mesh, err := r.unitQuadBinding()
	if err != nil {
		return err
	}

	var inst cpuInstance
	stride := int32(unsafe.Sizeof(inst))
	model := int(unsafe.Offsetof(inst.Model))
	attribs := []renderer.VertexAttrib{
		// One column of the matrix per location.
		{Location: 1, Components: 3, Type: renderer.Float32, Stride: stride, Offset: model, Divisor: 1},
		{Location: 2, Components: 3, Type: renderer.Float32, Stride: stride, Offset: model + 12, Divisor: 1},
		{Location: 3, Components: 3, Type: renderer.Float32, Stride: stride, Offset: model + 24, Divisor: 1},
	}
	attribs = append(attribs, uvAttribs(4, int(unsafe.Offsetof(inst.UV)), stride, 1)...)
	attribs = append(attribs, renderer.VertexAttrib{Location: 8, Components: 4, Type: renderer.Uint8,
		Normalized: true, Stride: stride, Offset: int(unsafe.Offsetof(inst.Color)), Divisor: 1})

	r.draw = func(n int32) { r.dev.DrawArraysInstanced(renderer.TriangleStrip, 0, 4, n) }
	return r.newVertexArray(renderer.VertexArrayDesc{
		Bindings: []renderer.VertexBinding{mesh, {Buffer: r.vbo, Attribs: attribs}},
	})
}

func (r *CPUInstanceRenderer) DrawSprite(region Region, pos, size, origin [2]float32, rotation float32, color Color) {
	inst := r.next(region)
	*inst = cpuInstance{
		Model: math.SpriteTransform(pos, size, origin, rotation).ColumnMajor(),
		UV:    region.stripUVs(),
		Color: color,
	}
}

///////////////////////////////////////////////////////////////////////////
// GPUInstanceRenderer

// spriteInstance holds a sprite's fields as given to DrawSprite. It is
// used as per-instance data by GPUInstanceRenderer and as per-point data
// by the geometry shader strategies, which build the matrix on the GPU.
type spriteInstance struct {
	Pos      [2]float32
	Size     [2]float32
	Origin   [2]float32
	Rotation float32
	Color    Color
	UV       [4][2]uint16 // pixels, in unitQuad order
}

func makeSpriteInstance(region Region, pos, size, origin [2]float32, rotation float32, color Color) spriteInstance {
	return spriteInstance{
		Pos:      pos,
		Size:     size,
		Origin:   origin,
		Rotation: rotation,
		Color:    color,
		UV:       region.stripUVs(),
	}
}

// spriteInstanceAttribs returns the attributes of spriteInstance, assigned
// to consecutive locations starting at location.
func spriteInstanceAttribs(location uint32, divisor uint32) []renderer.VertexAttrib {
	var inst spriteInstance
	stride := int32(unsafe.Sizeof(inst))
	attr := func(offset uintptr, components int32) renderer.VertexAttrib {
		a := renderer.VertexAttrib{Location: location, Components: components, Type: renderer.Float32,
			Stride: stride, Offset: int(offset), Divisor: divisor}
		location++
		return a
	}

	attribs := []renderer.VertexAttrib{
		attr(unsafe.Offsetof(inst.Pos), 2),
		attr(unsafe.Offsetof(inst.Size), 2),
		attr(unsafe.Offsetof(inst.Origin), 2),
		attr(unsafe.Offsetof(inst.Rotation), 1),
	}
	attribs = append(attribs, renderer.VertexAttrib{Location: location, Components: 4, Type: renderer.Uint8,
		Normalized: true, Stride: stride, Offset: int(unsafe.Offsetof(inst.Color)), Divisor: divisor})
	return append(attribs, uvAttribs(location+1, int(unsafe.Offsetof(inst.UV)), stride, divisor)...)
}

// GPUInstanceRenderer uploads the sprite fields per instance and builds
// the model matrix in the vertex shader.
type GPUInstanceRenderer struct {
	spriteBatch[spriteInstance]
}

func NewGPUInstanceRenderer(dev renderer.Device, capacity int) (*GPUInstanceRenderer, error) {
	r := &GPUInstanceRenderer{}
	if err := r.create(dev, capacity); err != nil {
		r.release()
		return nil, err
	}
	return r, nil
}

func (r *GPUInstanceRenderer) create(dev renderer.Device, capacity int) error {
	if err := checkCapacity(GPUInstanced, capacity); err != nil {
		return err
	}
	if err := r.init("instance", dev, capacity); err != nil {
		return err
	}
	if err := r.compile(gpuInstanceShader); err != nil {
		return err
	}
	mesh, err := r.unitQuadBinding()
	if err != nil {
		return err
	}

	r.draw = func(n int32) { r.dev.DrawArraysInstanced(renderer.TriangleStrip, 0, 4, n) }
	return r.newVertexArray(renderer.VertexArrayDesc{
		Bindings: []renderer.VertexBinding{mesh, {Buffer: r.vbo, Attribs: spriteInstanceAttribs(1, 1)}},
	})
}

func (r *GPUInstanceRenderer) DrawSprite(region Region, pos, size, origin [2]float32, rotation float32, color Color) {
	*r.next(region) = makeSpriteInstance(region, pos, size, origin, rotation, color)
}
