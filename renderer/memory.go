// renderer/memory.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"image"
	"slices"
	"time"

	"github.com/mmp/spritebench/log"

	"github.com/go-gl/mathgl/mgl32"
)

// The in-memory device can record the commands it is given. Each
// recorded Command has one of the following operations; comments
// briefly describe which Command fields carry its arguments.
const (
	OpUseProgram Op = iota    // Handle: program
	OpBindVertexArray         // Handle: vertex array
	OpUpdateBuffer            // Handle: buffer, Offset, Data: copy of the uploaded bytes
	OpSetUniformMatrix4       // Location, Matrix4
	OpSetUniformMatrix3       // Location, Matrix3 (column-major)
	OpSetUniformUint          // Location, Uint
	OpSetUniformInt           // Location, Int
	OpBindTexture             // Unit, Handle: texture
	OpEnableBlend             // no args
	OpEnableBackfaceCulling   // no args
	OpEnablePrimitiveRestart  // Uint: restart index
	OpDisablePrimitiveRestart // no args
	OpViewport                // First, Count: x, y; Instances, Int: width, height
	OpClear                   // no args
	OpDrawArrays              // Primitive, First, Count; Handle: bound vertex array, Texture: texture on unit 0
	OpDrawElements            // Primitive, Count; Handle, Texture as for OpDrawArrays
	OpDrawArraysInstanced     // Primitive, First, Count, Instances; Handle, Texture as for OpDrawArrays
	OpBeginTimerQuery         // Handle: query
	OpEndTimerQuery           // no args
)

type Op int

func (op Op) String() string {
	return [...]string{"UseProgram", "BindVertexArray", "UpdateBuffer", "SetUniformMatrix4",
		"SetUniformMatrix3", "SetUniformUint", "SetUniformInt", "BindTexture", "EnableBlend",
		"EnableBackfaceCulling", "EnablePrimitiveRestart", "DisablePrimitiveRestart", "Viewport",
		"Clear", "DrawArrays", "DrawElements", "DrawArraysInstanced", "BeginTimerQuery",
		"EndTimerQuery"}[op]
}

// IsDraw reports whether the operation is one of the draw calls.
func (op Op) IsDraw() bool {
	return op == OpDrawArrays || op == OpDrawElements || op == OpDrawArraysInstanced
}

// Command is a single recorded device call.
type Command struct {
	Op        Op
	Handle    uint32
	Unit      uint32
	Texture   uint32
	Primitive Primitive
	First     int32
	Count     int32
	Instances int32
	Offset    int
	Data      []byte
	Location  UniformLocation
	Matrix4   mgl32.Mat4
	Matrix3   [9]float32
	Uint      uint32
	Int       int32
}

type memProgram struct {
	desc     ShaderDesc
	uniforms map[string]UniformLocation
}

// MemoryDevice implements Device without a GPU. Buffer contents are kept
// in memory, draw calls are counted and optionally recorded, and timer
// queries measure nothing. Misuse that a real device would report as an
// error, like writing past the end of a buffer or drawing without a
// vertex array, panics.
type MemoryDevice struct {
	lg *log.Logger

	nextHandle   uint32
	programs     map[Program]*memProgram
	buffers      map[Buffer][]byte
	vertexArrays map[VertexArray]VertexArrayDesc
	textures     map[uint32]Texture
	queries      map[TimerQuery]bool

	program      Program
	vertexArray  VertexArray
	boundTexture [16]uint32
	activeQuery  TimerQuery
	restart      bool
	restartIndex uint32

	stats     DeviceStats
	recording bool
	commands  []Command
}

func NewMemoryDevice(lg *log.Logger) *MemoryDevice {
	lg.Info("Using in-memory device")
	return &MemoryDevice{
		lg:           lg,
		programs:     make(map[Program]*memProgram),
		buffers:      make(map[Buffer][]byte),
		vertexArrays: make(map[VertexArray]VertexArrayDesc),
		textures:     make(map[uint32]Texture),
		queries:      make(map[TimerQuery]bool),
	}
}

// Record enables or disables command recording; recording is off by
// default so that long headless runs don't accumulate memory.
func (md *MemoryDevice) Record(r bool) {
	md.recording = r
}

// Commands returns the commands recorded so far.
func (md *MemoryDevice) Commands() []Command {
	return md.commands
}

// Draws returns just the recorded draw calls.
func (md *MemoryDevice) Draws() []Command {
	var draws []Command
	for _, c := range md.commands {
		if c.Op.IsDraw() {
			draws = append(draws, c)
		}
	}
	return draws
}

// ResetCommands discards the recorded commands.
func (md *MemoryDevice) ResetCommands() {
	md.commands = md.commands[:0]
}

// BufferContents returns the current contents of the given buffer.
func (md *MemoryDevice) BufferContents(b Buffer) []byte {
	return md.buffers[b]
}

// VertexArrayDesc returns the layout the vertex array was created with.
func (md *MemoryDevice) VertexArrayDesc(va VertexArray) VertexArrayDesc {
	return md.vertexArrays[va]
}

// PrimitiveRestart returns whether primitive restart is enabled and the
// restart index.
func (md *MemoryDevice) PrimitiveRestart() (bool, uint32) {
	return md.restart, md.restartIndex
}

// LiveResources returns the number of resources that have been created
// and not deleted.
func (md *MemoryDevice) LiveResources() int {
	return len(md.programs) + len(md.buffers) + len(md.vertexArrays) + len(md.textures) + len(md.queries)
}

func (md *MemoryDevice) record(c Command) {
	if md.recording {
		md.commands = append(md.commands, c)
	}
}

func (md *MemoryDevice) handle() uint32 {
	md.nextHandle++
	return md.nextHandle
}

func (md *MemoryDevice) Info() DeviceInfo {
	return DeviceInfo{Vendor: "spritebench", Renderer: "memory", Version: "3.3", ShadingLanguage: "3.30"}
}

func (md *MemoryDevice) Stats() DeviceStats {
	return md.stats
}

func (md *MemoryDevice) ResetStats() {
	md.stats = DeviceStats{}
}

func (md *MemoryDevice) Dispose() {
	clear(md.programs)
	clear(md.buffers)
	clear(md.vertexArrays)
	clear(md.textures)
	clear(md.queries)
}

///////////////////////////////////////////////////////////////////////////
// Programs

func (md *MemoryDevice) CompileProgram(desc ShaderDesc) (Program, error) {
	if desc.Vertex == "" {
		return 0, fmt.Errorf("%s: vertex shader: no source provided", desc.Name)
	}
	if desc.Fragment == "" {
		return 0, fmt.Errorf("%s: fragment shader: no source provided", desc.Name)
	}

	p := Program(md.handle())
	md.programs[p] = &memProgram{desc: desc, uniforms: make(map[string]UniformLocation)}
	md.lg.Debugf("Compiled program %q: id %d", desc.Name, p)
	return p, nil
}

func (md *MemoryDevice) UniformLocation(p Program, name string) UniformLocation {
	prog, ok := md.programs[p]
	if !ok {
		return -1
	}
	if loc, ok := prog.uniforms[name]; ok {
		return loc
	}
	loc := UniformLocation(len(prog.uniforms))
	prog.uniforms[name] = loc
	return loc
}

func (md *MemoryDevice) UseProgram(p Program) {
	if _, ok := md.programs[p]; !ok && p != 0 {
		panic(fmt.Sprintf("UseProgram: invalid program %d", p))
	}
	md.program = p
	md.record(Command{Op: OpUseProgram, Handle: uint32(p)})
}

func (md *MemoryDevice) DeleteProgram(p Program) {
	delete(md.programs, p)
}

func (md *MemoryDevice) SetUniformMatrix4(loc UniformLocation, m mgl32.Mat4) {
	md.record(Command{Op: OpSetUniformMatrix4, Location: loc, Matrix4: m})
}

func (md *MemoryDevice) SetUniformMatrix3(loc UniformLocation, m [9]float32) {
	md.record(Command{Op: OpSetUniformMatrix3, Location: loc, Matrix3: m})
}

func (md *MemoryDevice) SetUniformUint(loc UniformLocation, v uint32) {
	md.record(Command{Op: OpSetUniformUint, Location: loc, Uint: v})
}

func (md *MemoryDevice) SetUniformInt(loc UniformLocation, v int32) {
	md.record(Command{Op: OpSetUniformInt, Location: loc, Int: v})
}

///////////////////////////////////////////////////////////////////////////
// Buffers and vertex arrays

func (md *MemoryDevice) NewBuffer(size int, data []byte, usage BufferUsage) (Buffer, error) {
	if size <= 0 {
		return 0, fmt.Errorf("invalid buffer size %d", size)
	}
	if data != nil && len(data) != size {
		return 0, fmt.Errorf("buffer size %d doesn't match initial data size %d", size, len(data))
	}

	b := Buffer(md.handle())
	buf := make([]byte, size)
	if data != nil {
		copy(buf, data)
		md.stats.upload(size)
	}
	md.buffers[b] = buf
	return b, nil
}

func (md *MemoryDevice) UpdateBuffer(b Buffer, offset int, data []byte) {
	buf, ok := md.buffers[b]
	if !ok {
		panic(fmt.Sprintf("UpdateBuffer: invalid buffer %d", b))
	}
	if offset < 0 || offset+len(data) > len(buf) {
		panic(fmt.Sprintf("UpdateBuffer: [%d,%d) out of range for %d-byte buffer %d", offset,
			offset+len(data), len(buf), b))
	}
	if len(data) == 0 {
		return
	}
	copy(buf[offset:], data)
	md.stats.upload(len(data))
	if md.recording {
		md.record(Command{Op: OpUpdateBuffer, Handle: uint32(b), Offset: offset, Data: slices.Clone(data)})
	}
}

func (md *MemoryDevice) DeleteBuffer(b Buffer) {
	delete(md.buffers, b)
}

func (md *MemoryDevice) NewVertexArray(desc VertexArrayDesc) (VertexArray, error) {
	for _, binding := range desc.Bindings {
		if _, ok := md.buffers[binding.Buffer]; !ok {
			return 0, fmt.Errorf("vertex array: invalid buffer %d", binding.Buffer)
		}
		for _, attr := range binding.Attribs {
			if attr.Components < 1 || attr.Components > 4 {
				return 0, fmt.Errorf("vertex array: attribute %d: invalid component count %d",
					attr.Location, attr.Components)
			}
		}
	}
	if desc.Indices != 0 {
		if _, ok := md.buffers[desc.Indices]; !ok {
			return 0, fmt.Errorf("vertex array: invalid index buffer %d", desc.Indices)
		}
	}

	va := VertexArray(md.handle())
	md.vertexArrays[va] = desc
	return va, nil
}

func (md *MemoryDevice) BindVertexArray(va VertexArray) {
	if _, ok := md.vertexArrays[va]; !ok && va != 0 {
		panic(fmt.Sprintf("BindVertexArray: invalid vertex array %d", va))
	}
	md.vertexArray = va
	md.record(Command{Op: OpBindVertexArray, Handle: uint32(va)})
}

func (md *MemoryDevice) DeleteVertexArray(va VertexArray) {
	delete(md.vertexArrays, va)
}

///////////////////////////////////////////////////////////////////////////
// Textures

func (md *MemoryDevice) CreateTextureFromImage(img image.Image) (Texture, error) {
	nx, ny := img.Bounds().Dx(), img.Bounds().Dy()
	if nx == 0 || ny == 0 {
		return Texture{}, fmt.Errorf("empty image")
	}
	tex := Texture{ID: md.handle(), Width: nx, Height: ny}
	md.textures[tex.ID] = tex
	md.lg.Debugf("Created tex id %d: %dx%d", tex.ID, nx, ny)
	return tex, nil
}

func (md *MemoryDevice) BindTexture(unit uint32, tex Texture) {
	if int(unit) >= len(md.boundTexture) {
		panic(fmt.Sprintf("BindTexture: invalid texture unit %d", unit))
	}
	md.boundTexture[unit] = tex.ID
	md.stats.TextureBinds++
	md.record(Command{Op: OpBindTexture, Unit: unit, Handle: tex.ID})
}

func (md *MemoryDevice) DeleteTexture(tex Texture) {
	delete(md.textures, tex.ID)
}

///////////////////////////////////////////////////////////////////////////
// State

func (md *MemoryDevice) EnableBlend() {
	md.record(Command{Op: OpEnableBlend})
}

func (md *MemoryDevice) EnableBackfaceCulling() {
	md.record(Command{Op: OpEnableBackfaceCulling})
}

func (md *MemoryDevice) EnablePrimitiveRestart(index uint32) {
	md.restart, md.restartIndex = true, index
	md.record(Command{Op: OpEnablePrimitiveRestart, Uint: index})
}

func (md *MemoryDevice) DisablePrimitiveRestart() {
	md.restart = false
	md.record(Command{Op: OpDisablePrimitiveRestart})
}

func (md *MemoryDevice) Viewport(x, y, width, height int32) {
	md.record(Command{Op: OpViewport, First: x, Count: y, Instances: width, Int: height})
}

func (md *MemoryDevice) Clear(RGBA) {
	md.record(Command{Op: OpClear})
}

///////////////////////////////////////////////////////////////////////////
// Drawing

func (md *MemoryDevice) checkDraw(what string, count int32) {
	if md.program == 0 {
		panic(what + ": no program bound")
	}
	if md.vertexArray == 0 {
		panic(what + ": no vertex array bound")
	}
	if count <= 0 {
		panic(fmt.Sprintf("%s: invalid count %d", what, count))
	}
}

func (md *MemoryDevice) drawCommand(op Op, p Primitive, first, count, instances int32) Command {
	return Command{Op: op, Primitive: p, First: first, Count: count, Instances: instances,
		Handle: uint32(md.vertexArray), Texture: md.boundTexture[0]}
}

func (md *MemoryDevice) DrawArrays(p Primitive, first, count int32) {
	md.checkDraw("DrawArrays", count)
	md.stats.draw(p, count, 0)
	md.record(md.drawCommand(OpDrawArrays, p, first, count, 0))
}

func (md *MemoryDevice) DrawElements(p Primitive, count int32) {
	md.checkDraw("DrawElements", count)
	idx := md.vertexArrays[md.vertexArray].Indices
	if idx == 0 {
		panic("DrawElements: vertex array has no index buffer")
	}
	if int(count)*2 > len(md.buffers[idx]) {
		panic(fmt.Sprintf("DrawElements: %d indices exceeds index buffer size", count))
	}
	md.stats.draw(p, count, 0)
	md.record(md.drawCommand(OpDrawElements, p, 0, count, 0))
}

func (md *MemoryDevice) DrawArraysInstanced(p Primitive, first, count, instances int32) {
	md.checkDraw("DrawArraysInstanced", count)
	if instances <= 0 {
		panic(fmt.Sprintf("DrawArraysInstanced: invalid instance count %d", instances))
	}
	md.stats.draw(p, count, instances)
	md.record(md.drawCommand(OpDrawArraysInstanced, p, first, count, instances))
}

///////////////////////////////////////////////////////////////////////////
// Timer queries

func (md *MemoryDevice) NewTimerQuery() (TimerQuery, error) {
	q := TimerQuery(md.handle())
	md.queries[q] = true
	return q, nil
}

func (md *MemoryDevice) BeginTimerQuery(q TimerQuery) {
	if md.activeQuery != 0 {
		panic("BeginTimerQuery: query already active")
	}
	md.activeQuery = q
	md.record(Command{Op: OpBeginTimerQuery, Handle: uint32(q)})
}

func (md *MemoryDevice) EndTimerQuery() {
	if md.activeQuery == 0 {
		panic("EndTimerQuery: no query active")
	}
	md.activeQuery = 0
	md.record(Command{Op: OpEndTimerQuery})
}

// WaitTimerQuery always returns zero since no device work is done.
func (md *MemoryDevice) WaitTimerQuery(q TimerQuery) time.Duration {
	return 0
}

func (md *MemoryDevice) DeleteTimerQuery(q TimerQuery) {
	delete(md.queries, q)
}
