// sprite/batch.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sprite

import (
	"unsafe"

	"github.com/mmp/spritebench/math"
	"github.com/mmp/spritebench/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// spriteBatch is the buffering shared by the batched strategies. One
// record of type T is stored per sprite in a fixed-size slice that
// mirrors a device buffer of the same size. When a sprite uses a
// different texture than the buffered ones, or when the slice is full,
// the records are uploaded to the start of the device buffer and drawn
// with a single call.
type spriteBatch[T any] struct {
	bracket
	pipeline

	records     []T
	n           int
	vbo         renderer.Buffer
	texture     renderer.Texture
	haveTexture bool
	// draw issues the draw call for n buffered records.
	draw func(n int32)
}

func (b *spriteBatch[T]) init(name string, dev renderer.Device, capacity int) error {
	b.bracket.name = name
	b.pipeline.dev = dev
	b.records = make([]T, capacity)

	var err error
	b.vbo, err = b.newBuffer(len(renderer.Bytes(b.records)), nil, renderer.DynamicDraw)
	return err
}

func (b *spriteBatch[T]) Begin(projView mgl32.Mat4) {
	b.begin()
	b.n = 0
	b.haveTexture = false
	b.bind(projView)
}

// next returns the slot for the next sprite's record, flushing first if
// the region's texture isn't the bound one or if the buffer is full.
func (b *spriteBatch[T]) next(region Region) *T {
	b.check("DrawSprite")

	if !b.haveTexture || region.Texture.ID != b.texture.ID {
		b.flush()
		b.texture, b.haveTexture = region.Texture, true
		b.bindTexture(region.Texture)
	}
	if b.n == len(b.records) {
		b.flush()
	}

	r := &b.records[b.n]
	b.n++
	return r
}

func (b *spriteBatch[T]) Flush() {
	b.check("Flush")
	b.flush()
}

func (b *spriteBatch[T]) flush() {
	if b.n == 0 {
		return
	}
	b.dev.UpdateBuffer(b.vbo, 0, renderer.Bytes(b.records[:b.n]))
	b.draw(int32(b.n))
	b.n = 0
}

func (b *spriteBatch[T]) End() {
	b.check("End")
	b.flush()
	b.end()
}

func (b *spriteBatch[T]) Buffered() int { return b.n }

func (b *spriteBatch[T]) Capacity() int { return len(b.records) }

func (b *spriteBatch[T]) Dispose() {
	b.release()
	b.records = nil
}

///////////////////////////////////////////////////////////////////////////
// VertexBatchRenderer

// restartIndex ends one quad's triangle strip in the index buffer.
const restartIndex = 0xFFFF

type batchVertex struct {
	Pos   [2]float32
	UV    [2]uint16 // pixels
	Color Color
}

// batchQuad holds a sprite's vertices in the order bottom left, bottom
// right, top right, top left.
type batchQuad [4]batchVertex

// VertexBatchRenderer transforms each sprite's corners on the CPU and
// draws the buffered quads as one indexed triangle strip, with the quads
// separated by primitive restarts.
type VertexBatchRenderer struct {
	spriteBatch[batchQuad]
	ibo renderer.Buffer
}

// quadIndices returns the index buffer contents for n quads: for each, the
// vertices bottom left, top left, bottom right, top right and then the
// restart index.
func quadIndices(n int) []uint16 {
	idx := make([]uint16, 0, 5*n)
	for i := range n {
		base := uint16(4 * i)
		idx = append(idx, base+0, base+3, base+1, base+2, restartIndex)
	}
	return idx
}

func NewVertexBatchRenderer(dev renderer.Device, numQuads int) (*VertexBatchRenderer, error) {
	r := &VertexBatchRenderer{}
	if err := r.create(dev, numQuads); err != nil {
		r.release()
		return nil, err
	}
	return r, nil
}

func (r *VertexBatchRenderer) create(dev renderer.Device, numQuads int) error {
	if err := checkCapacity(VertexBatched, numQuads); err != nil {
		return err
	}
	if err := r.init("batch", dev, numQuads); err != nil {
		return err
	}
	if err := r.compile(vertexBatchShader); err != nil {
		return err
	}

	var err error
	indices := renderer.Bytes(quadIndices(numQuads))
	if r.ibo, err = r.newBuffer(len(indices), indices, renderer.StaticDraw); err != nil {
		return err
	}

	var v batchVertex
	stride := int32(unsafe.Sizeof(v))
	r.draw = func(n int32) { r.dev.DrawElements(renderer.TriangleStrip, 5*n) }
	return r.newVertexArray(renderer.VertexArrayDesc{
		Bindings: []renderer.VertexBinding{{
			Buffer: r.vbo,
			Attribs: []renderer.VertexAttrib{
				{Location: 0, Components: 2, Type: renderer.Float32, Stride: stride, Offset: int(unsafe.Offsetof(v.Pos))},
				{Location: 1, Components: 2, Type: renderer.Uint16, Stride: stride, Offset: int(unsafe.Offsetof(v.UV))},
				{Location: 2, Components: 4, Type: renderer.Uint8, Normalized: true, Stride: stride,
					Offset: int(unsafe.Offsetof(v.Color))},
			},
		}},
		Indices: r.ibo,
	})
}

func (r *VertexBatchRenderer) Begin(projView mgl32.Mat4) {
	r.spriteBatch.Begin(projView)
	r.dev.EnablePrimitiveRestart(restartIndex)
}

func (r *VertexBatchRenderer) DrawSprite(region Region, pos, size, origin [2]float32, rotation float32, color Color) {
	q := r.next(region)
	c := math.SpriteTransform(pos, size, origin, rotation).QuadCorners()
	*q = batchQuad{
		{Pos: c[0], UV: [2]uint16{region.X0, region.Y1}, Color: color},
		{Pos: c[1], UV: [2]uint16{region.X1, region.Y1}, Color: color},
		{Pos: c[2], UV: [2]uint16{region.X1, region.Y0}, Color: color},
		{Pos: c[3], UV: [2]uint16{region.X0, region.Y0}, Color: color},
	}
}

func (r *VertexBatchRenderer) End() {
	r.spriteBatch.End()
	r.dev.DisablePrimitiveRestart()
}
