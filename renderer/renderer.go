// renderer/renderer.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"image"
	"time"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Device defines an interface for the graphics device operations that the
// sprite renderers use. There are two implementations: OpenGL3Device,
// which drives an OpenGL 3.3 core context, and MemoryDevice, which keeps
// everything in memory and is used for headless runs and for tests.
//
// Methods that create resources return errors; all other methods assume
// that the handles they are given were returned by the same device.
type Device interface {
	// CompileProgram compiles and links the given shader stages; the
	// geometry stage is optional.
	CompileProgram(desc ShaderDesc) (Program, error)
	// UniformLocation returns the location of the named uniform in the
	// program, or -1 if there is no such active uniform.
	UniformLocation(p Program, name string) UniformLocation
	UseProgram(p Program)
	DeleteProgram(p Program)

	SetUniformMatrix4(loc UniformLocation, m mgl32.Mat4)
	// SetUniformMatrix3 takes the matrix in column-major order.
	SetUniformMatrix3(loc UniformLocation, m [9]float32)
	SetUniformUint(loc UniformLocation, v uint32)
	SetUniformInt(loc UniformLocation, v int32)

	// NewBuffer allocates a device buffer of the given size in bytes. If
	// data is non-nil, it gives the initial contents and must be size
	// bytes long.
	NewBuffer(size int, data []byte, usage BufferUsage) (Buffer, error)
	// UpdateBuffer overwrites the buffer's contents starting at offset.
	UpdateBuffer(b Buffer, offset int, data []byte)
	DeleteBuffer(b Buffer)

	// NewVertexArray returns a vertex array object that records the
	// given attribute layout and optional 16-bit index buffer.
	NewVertexArray(desc VertexArrayDesc) (VertexArray, error)
	BindVertexArray(va VertexArray)
	DeleteVertexArray(va VertexArray)

	// CreateTextureFromImage uploads the image as an RGBA8 texture. The
	// image is used as given; callers flip it first if needed.
	CreateTextureFromImage(img image.Image) (Texture, error)
	BindTexture(unit uint32, tex Texture)
	DeleteTexture(tex Texture)

	// EnableBlend enables src alpha, 1-src alpha blending.
	EnableBlend()
	// EnableBackfaceCulling enables culling of back faces with
	// counter-clockwise front faces.
	EnableBackfaceCulling()
	EnablePrimitiveRestart(index uint32)
	DisablePrimitiveRestart()
	Viewport(x, y, width, height int32)
	Clear(color RGBA)

	DrawArrays(p Primitive, first, count int32)
	// DrawElements draws count indices starting at the beginning of the
	// bound vertex array's 16-bit index buffer.
	DrawElements(p Primitive, count int32)
	DrawArraysInstanced(p Primitive, first, count, instances int32)

	NewTimerQuery() (TimerQuery, error)
	BeginTimerQuery(q TimerQuery)
	EndTimerQuery()
	// WaitTimerQuery blocks until the query's result is available and
	// returns the elapsed device time between its Begin and End.
	WaitTimerQuery(q TimerQuery) time.Duration
	DeleteTimerQuery(q TimerQuery)

	// Stats returns the statistics accumulated since the last call to
	// ResetStats.
	Stats() DeviceStats
	ResetStats()
	Info() DeviceInfo

	// Dispose releases all resources still held by the device.
	Dispose()
}

type Program uint32
type Buffer uint32
type VertexArray uint32
type TimerQuery uint32
type UniformLocation int32

// Texture is a device texture along with its dimensions in pixels.
type Texture struct {
	ID            uint32
	Width, Height int
}

// Valid reports whether the texture refers to a device texture.
func (t Texture) Valid() bool {
	return t.ID != 0
}

// ShaderDesc gives the GLSL source for each stage of a program. Name is
// used only in error messages and the log.
type ShaderDesc struct {
	Name     string
	Vertex   string
	Fragment string
	Geometry string
}

type BufferUsage int

const (
	StaticDraw BufferUsage = iota
	DynamicDraw
	StreamDraw
)

type Primitive int

const (
	Points Primitive = iota
	Triangles
	TriangleStrip
)

func (p Primitive) String() string {
	switch p {
	case Points:
		return "points"
	case Triangles:
		return "triangles"
	case TriangleStrip:
		return "triangle_strip"
	default:
		return "unknown"
	}
}

type AttribType int

const (
	Float32 AttribType = iota
	Uint16
	Uint8
)

// Size returns the size of a single component in bytes.
func (t AttribType) Size() int {
	switch t {
	case Float32:
		return 4
	case Uint16:
		return 2
	default:
		return 1
	}
}

// VertexAttrib describes one vertex attribute within a buffer. Integer
// types are converted to float, scaled to [0,1] if Normalized is set.
type VertexAttrib struct {
	Location   uint32
	Components int32
	Type       AttribType
	Normalized bool
	Stride     int32
	Offset     int
	// Divisor is 0 for per-vertex attributes and 1 for per-instance ones.
	Divisor uint32
}

// VertexBinding associates attributes with the buffer they are read from.
type VertexBinding struct {
	Buffer  Buffer
	Attribs []VertexAttrib
}

type VertexArrayDesc struct {
	Bindings []VertexBinding
	// Indices, if non-zero, is a buffer of uint16 indices used by
	// DrawElements.
	Indices Buffer
}

// DeviceInfo identifies the device for the log.
type DeviceInfo struct {
	Vendor, Renderer, Version, ShadingLanguage string
}

// Bytes returns the memory of the given slice as a byte slice without
// copying it.
func Bytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var t T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(t)))
}
