// sprite/renderer.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sprite

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mmp/spritebench/log"
	"github.com/mmp/spritebench/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderer is implemented by each of the sprite submission strategies.
// Calls are bracketed: Begin, any number of DrawSprite calls, then End.
// Calling Begin twice without an End, or DrawSprite or End outside of a
// Begin/End pair, is a programming error and panics.
type Renderer interface {
	// Begin binds the renderer's device state and sets the
	// projection-view matrix used for all sprites until End.
	Begin(projView mgl32.Mat4)
	// DrawSprite draws the region of a texture as a quad at pos with the
	// given size, rotated by rotation radians about origin, which is
	// relative to pos. The texel colors are multiplied by color.
	DrawSprite(region Region, pos, size, origin [2]float32, rotation float32, color Color)
	// End submits any buffered sprites.
	End()
	// Dispose releases the renderer's device resources.
	Dispose()
}

// Batcher is implemented by the strategies that buffer sprites and submit
// them with as few draw calls as possible.
type Batcher interface {
	Renderer
	// Flush submits the buffered sprites. It must be called between Begin
	// and End.
	Flush()
	// Buffered returns the number of sprites waiting to be submitted.
	Buffered() int
	// Capacity returns the maximum number of sprites that are buffered
	// before a flush.
	Capacity() int
}

///////////////////////////////////////////////////////////////////////////
// Kind

// Kind identifies a sprite submission strategy.
type Kind int

const (
	// Naive issues one draw call per sprite, with the transform and
	// color passed as uniforms.
	Naive Kind = iota
	// VertexBatched transforms quads on the CPU into a shared vertex
	// buffer drawn as indexed strips with primitive restart.
	VertexBatched
	// CPUInstanced computes each sprite's matrix on the CPU and draws
	// instances of a unit quad.
	CPUInstanced
	// GPUInstanced uploads the raw sprite fields per instance and builds
	// the matrix in the vertex shader.
	GPUInstanced
	// Geometry draws one point per sprite, expanded into a quad by a
	// geometry shader, with one draw call per sprite.
	Geometry
	// GeometryBatched is Geometry with points buffered and drawn together.
	GeometryBatched
)

var ErrUnknownKind = errors.New("unknown renderer type")

var kindNames = map[Kind]string{
	Naive:           "naive",
	VertexBatched:   "batch",
	CPUInstanced:    "instance_cpu",
	GPUInstanced:    "instance",
	Geometry:        "geometry",
	GeometryBatched: "geometry_batch",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the Kind with the given name, as accepted on the
// command line.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownKind)
}

// KindNames returns the names of all of the strategies in Kind order.
func KindNames() []string {
	var names []string
	for k := Naive; k <= GeometryBatched; k++ {
		names = append(names, k.String())
	}
	return names
}

// Batched reports whether the strategy buffers sprites and so requires a
// capacity.
func (k Kind) Batched() bool {
	return slices.Contains([]Kind{VertexBatched, CPUInstanced, GPUInstanced, GeometryBatched}, k)
}

// MaxBatchQuads is the largest capacity of the VertexBatched strategy;
// with more quads, a vertex index would equal the 16-bit primitive
// restart index.
const MaxBatchQuads = (restartIndex+1)/4 - 1

// MaxInstances bounds the capacity of the other batched strategies.
const MaxInstances = 1 << 20

// MaxCapacity returns the largest capacity the strategy accepts, or 0 if
// it doesn't buffer.
func (k Kind) MaxCapacity() int {
	switch k {
	case VertexBatched:
		return MaxBatchQuads
	case CPUInstanced, GPUInstanced, GeometryBatched:
		return MaxInstances
	default:
		return 0
	}
}

// New returns a renderer of the given kind that draws with dev. capacity
// is the number of sprites buffered per draw call for batched kinds and
// is ignored otherwise.
func New(kind Kind, dev renderer.Device, capacity int, lg *log.Logger) (Renderer, error) {
	var r Renderer
	var err error
	switch kind {
	case Naive:
		r, err = NewNaiveRenderer(dev)
	case VertexBatched:
		r, err = NewVertexBatchRenderer(dev, capacity)
	case CPUInstanced:
		r, err = NewCPUInstanceRenderer(dev, capacity)
	case GPUInstanced:
		r, err = NewGPUInstanceRenderer(dev, capacity)
	case Geometry:
		r, err = NewGeometryRenderer(dev)
	case GeometryBatched:
		r, err = NewGeometryBatchRenderer(dev, capacity)
	default:
		return nil, fmt.Errorf("%s: %w", kind, ErrUnknownKind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	lg.Info("Created sprite renderer", "type", kind.String(), "capacity", capacity)
	return r, nil
}

var ErrCapacity = errors.New("invalid capacity")

func checkCapacity(kind Kind, n int) error {
	if n <= 0 || n > kind.MaxCapacity() {
		return fmt.Errorf("%d not between 1 and %d: %w", n, kind.MaxCapacity(), ErrCapacity)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////
// Begin/End state

// bracket tracks whether a renderer is between Begin and End.
type bracket struct {
	name   string
	active bool
}

func (b *bracket) begin() {
	if b.active {
		panic(b.name + ": Begin called without matching End")
	}
	b.active = true
}

func (b *bracket) check(what string) {
	if !b.active {
		panic(b.name + ": " + what + " called outside of Begin/End")
	}
}

func (b *bracket) end() {
	b.check("End")
	b.active = false
}

///////////////////////////////////////////////////////////////////////////
// Device resources

// pipeline holds the device resources that each strategy creates: a
// program, its vertex array and the buffers it reads from.
type pipeline struct {
	dev       renderer.Device
	program   renderer.Program
	vao       renderer.VertexArray
	buffers   []renderer.Buffer
	uProjView renderer.UniformLocation
	uTex      renderer.UniformLocation
}

func (p *pipeline) compile(desc renderer.ShaderDesc) error {
	prog, err := p.dev.CompileProgram(desc)
	if err != nil {
		return err
	}
	p.program = prog
	p.uProjView = p.dev.UniformLocation(prog, "uProjView")
	p.uTex = p.dev.UniformLocation(prog, "uTex")
	return nil
}

func (p *pipeline) newBuffer(size int, data []byte, usage renderer.BufferUsage) (renderer.Buffer, error) {
	b, err := p.dev.NewBuffer(size, data, usage)
	if err != nil {
		return 0, err
	}
	p.buffers = append(p.buffers, b)
	return b, nil
}

func (p *pipeline) newVertexArray(desc renderer.VertexArrayDesc) error {
	va, err := p.dev.NewVertexArray(desc)
	if err != nil {
		return err
	}
	p.vao = va
	return nil
}

// bind makes the pipeline current for drawing.
func (p *pipeline) bind(projView mgl32.Mat4) {
	p.dev.BindVertexArray(p.vao)
	p.dev.UseProgram(p.program)
	p.dev.SetUniformMatrix4(p.uProjView, projView)
	p.dev.EnableBackfaceCulling()
}

// bindTexture binds the texture to unit 0 and points the sampler at it.
func (p *pipeline) bindTexture(tex renderer.Texture) {
	p.dev.BindTexture(0, tex)
	p.dev.SetUniformInt(p.uTex, 0)
}

// release deletes everything that was created; it is used both for
// Dispose and to clean up after a failure partway through construction.
func (p *pipeline) release() {
	if p.vao != 0 {
		p.dev.DeleteVertexArray(p.vao)
		p.vao = 0
	}
	for _, b := range p.buffers {
		p.dev.DeleteBuffer(b)
	}
	p.buffers = nil
	if p.program != 0 {
		p.dev.DeleteProgram(p.program)
		p.program = 0
	}
}

// unitQuad is the triangle strip mesh shared by the instanced strategies.
var unitQuad = [4][2]float32{
	{0, 0}, // bottom left
	{0, 1}, // top left
	{1, 0}, // bottom right
	{1, 1}, // top right
}
