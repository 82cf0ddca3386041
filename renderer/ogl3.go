// renderer/ogl3.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"image"
	"strings"
	"time"
	"unsafe"

	"github.com/mmp/spritebench/log"
	"github.com/mmp/spritebench/util"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// OpenGL3Device implements Device using an OpenGL 3.3 core profile
// context, which must be current on the calling thread for all method
// calls.
type OpenGL3Device struct {
	lg              *log.Logger
	info            DeviceInfo
	stats           DeviceStats
	createdTextures map[uint32]int
	programs        map[Program]string
	buffers         map[Buffer]int
	vertexArrays    map[VertexArray]struct{}
	queries         map[TimerQuery]struct{}
}

// NewOpenGL3Device loads the OpenGL function pointers for the current
// context and returns a device that uses it.
func NewOpenGL3Device(lg *log.Logger) (*OpenGL3Device, error) {
	lg.Info("Starting OpenGL3Device initialization")
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	info := DeviceInfo{
		Vendor:          gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer:        gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:         gl.GoStr(gl.GetString(gl.VERSION)),
		ShadingLanguage: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	lg.Infof("OpenGL vendor %s renderer %s version %s GLSL %s", info.Vendor, info.Renderer,
		info.Version, info.ShadingLanguage)

	lg.Info("Finished OpenGL3Device initialization")
	return &OpenGL3Device{
		lg:              lg,
		info:            info,
		createdTextures: make(map[uint32]int),
		programs:        make(map[Program]string),
		buffers:         make(map[Buffer]int),
		vertexArrays:    make(map[VertexArray]struct{}),
		queries:         make(map[TimerQuery]struct{}),
	}, nil
}

func (ogl3 *OpenGL3Device) Info() DeviceInfo {
	return ogl3.info
}

func (ogl3 *OpenGL3Device) Stats() DeviceStats {
	return ogl3.stats
}

func (ogl3 *OpenGL3Device) ResetStats() {
	ogl3.stats = DeviceStats{}
}

func (ogl3 *OpenGL3Device) Dispose() {
	for va := range ogl3.vertexArrays {
		ogl3.DeleteVertexArray(va)
	}
	for b := range ogl3.buffers {
		ogl3.DeleteBuffer(b)
	}
	for p := range ogl3.programs {
		ogl3.DeleteProgram(p)
	}
	for q := range ogl3.queries {
		ogl3.DeleteTimerQuery(q)
	}
	for texid := range ogl3.createdTextures {
		gl.DeleteTextures(1, &texid)
	}
	clear(ogl3.createdTextures)
}

// checkError reports any pending OpenGL errors; core 3.3 has no debug
// output callback.
func (ogl3 *OpenGL3Device) checkError(what string) error {
	var errs []string
	for {
		e := gl.GetError()
		if e == gl.NO_ERROR {
			break
		}
		errs = append(errs, fmt.Sprintf("0x%04x", e))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s: OpenGL error %s", what, strings.Join(errs, ", "))
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////
// Programs

func compileShader(shaderType uint32, source string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	if shader == 0 {
		return 0, fmt.Errorf("unable to create shader")
	}
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", strings.TrimRight(log, "\x00\n"))
	}
	return shader, nil
}

func (ogl3 *OpenGL3Device) CompileProgram(desc ShaderDesc) (Program, error) {
	stages := []struct {
		name   string
		kind   uint32
		source string
	}{
		{"vertex shader", gl.VERTEX_SHADER, desc.Vertex},
		{"fragment shader", gl.FRAGMENT_SHADER, desc.Fragment},
		{"geometry shader", gl.GEOMETRY_SHADER, desc.Geometry},
	}

	var shaders []uint32
	deleteShaders := func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}
	for _, stage := range stages {
		if stage.source == "" {
			if stage.kind == gl.GEOMETRY_SHADER {
				continue
			}
			deleteShaders()
			return 0, fmt.Errorf("%s: %s: no source provided", desc.Name, stage.name)
		}
		s, err := compileShader(stage.kind, stage.source)
		if err != nil {
			deleteShaders()
			return 0, fmt.Errorf("%s: %s: %w", desc.Name, stage.name, err)
		}
		shaders = append(shaders, s)
	}

	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)
	for _, s := range shaders {
		gl.DetachShader(program, s)
	}
	deleteShaders()

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%s: link: %s", desc.Name, strings.TrimRight(log, "\x00\n"))
	}

	p := Program(program)
	ogl3.programs[p] = desc.Name
	ogl3.lg.Infof("Compiled program %q: id %d, %d stages", desc.Name, program, len(shaders))
	return p, nil
}

func (ogl3 *OpenGL3Device) UniformLocation(p Program, name string) UniformLocation {
	return UniformLocation(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (ogl3 *OpenGL3Device) UseProgram(p Program) {
	gl.UseProgram(uint32(p))
}

func (ogl3 *OpenGL3Device) DeleteProgram(p Program) {
	gl.DeleteProgram(uint32(p))
	delete(ogl3.programs, p)
}

func (ogl3 *OpenGL3Device) SetUniformMatrix4(loc UniformLocation, m mgl32.Mat4) {
	gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
}

func (ogl3 *OpenGL3Device) SetUniformMatrix3(loc UniformLocation, m [9]float32) {
	gl.UniformMatrix3fv(int32(loc), 1, false, &m[0])
}

func (ogl3 *OpenGL3Device) SetUniformUint(loc UniformLocation, v uint32) {
	gl.Uniform1ui(int32(loc), v)
}

func (ogl3 *OpenGL3Device) SetUniformInt(loc UniformLocation, v int32) {
	gl.Uniform1i(int32(loc), v)
}

///////////////////////////////////////////////////////////////////////////
// Buffers and vertex arrays

func glUsage(u BufferUsage) uint32 {
	switch u {
	case StaticDraw:
		return gl.STATIC_DRAW
	case StreamDraw:
		return gl.STREAM_DRAW
	default:
		return gl.DYNAMIC_DRAW
	}
}

func (ogl3 *OpenGL3Device) NewBuffer(size int, data []byte, usage BufferUsage) (Buffer, error) {
	if size <= 0 {
		return 0, fmt.Errorf("invalid buffer size %d", size)
	}
	if data != nil && len(data) != size {
		return 0, fmt.Errorf("buffer size %d doesn't match initial data size %d", size, len(data))
	}

	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("unable to create buffer")
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	var ptr unsafe.Pointer
	if data != nil {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(gl.ARRAY_BUFFER, size, ptr, glUsage(usage))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := ogl3.checkError("buffer"); err != nil {
		gl.DeleteBuffers(1, &id)
		return 0, err
	}
	if data != nil {
		ogl3.stats.upload(size)
	}

	ogl3.buffers[Buffer(id)] = size
	ogl3.lg.Debugf("Created buffer %d: %d bytes", id, size)
	return Buffer(id), nil
}

func (ogl3 *OpenGL3Device) UpdateBuffer(b Buffer, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.BufferSubData(gl.ARRAY_BUFFER, offset, len(data), gl.Ptr(data))
	ogl3.stats.upload(len(data))
}

func (ogl3 *OpenGL3Device) DeleteBuffer(b Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
	delete(ogl3.buffers, b)
}

func glAttribType(t AttribType) uint32 {
	switch t {
	case Float32:
		return gl.FLOAT
	case Uint16:
		return gl.UNSIGNED_SHORT
	default:
		return gl.UNSIGNED_BYTE
	}
}

func (ogl3 *OpenGL3Device) NewVertexArray(desc VertexArrayDesc) (VertexArray, error) {
	var id uint32
	gl.GenVertexArrays(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("unable to create vertex array")
	}

	gl.BindVertexArray(id)
	for _, binding := range desc.Bindings {
		gl.BindBuffer(gl.ARRAY_BUFFER, uint32(binding.Buffer))
		for _, attr := range binding.Attribs {
			gl.EnableVertexAttribArray(attr.Location)
			gl.VertexAttribPointer(attr.Location, attr.Components, glAttribType(attr.Type), attr.Normalized,
				attr.Stride, gl.PtrOffset(attr.Offset))
			gl.VertexAttribDivisor(attr.Location, attr.Divisor)
		}
	}
	if desc.Indices != 0 {
		// The element array binding is part of the vertex array state.
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(desc.Indices))
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := ogl3.checkError("vertex array"); err != nil {
		gl.DeleteVertexArrays(1, &id)
		return 0, err
	}

	ogl3.vertexArrays[VertexArray(id)] = struct{}{}
	return VertexArray(id), nil
}

func (ogl3 *OpenGL3Device) BindVertexArray(va VertexArray) {
	gl.BindVertexArray(uint32(va))
}

func (ogl3 *OpenGL3Device) DeleteVertexArray(va VertexArray) {
	id := uint32(va)
	gl.DeleteVertexArrays(1, &id)
	delete(ogl3.vertexArrays, va)
}

///////////////////////////////////////////////////////////////////////////
// Textures

func (ogl3 *OpenGL3Device) createdTexture(texid uint32, bytes int) {
	ogl3.createdTextures[texid] = bytes

	reduce := func(b int, total int) int { return total + b }
	sizes := make([]int, 0, len(ogl3.createdTextures))
	for _, b := range ogl3.createdTextures {
		sizes = append(sizes, b)
	}
	total := util.ReduceSlice(sizes, reduce, 0)
	mb := float32(total) / (1024 * 1024)

	ogl3.lg.Infof("Created tex id %d: %d bytes -> %.2f MiB of textures total", texid, bytes, mb)
}

func (ogl3 *OpenGL3Device) CreateTextureFromImage(img image.Image) (Texture, error) {
	ny, nx := img.Bounds().Dy(), img.Bounds().Dx()
	if nx == 0 || ny == 0 {
		return Texture{}, fmt.Errorf("empty image")
	}

	var texid uint32
	gl.GenTextures(1, &texid)
	if texid == 0 {
		return Texture{}, fmt.Errorf("unable to create texture")
	}

	var lastTexture int32
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &lastTexture)

	gl.BindTexture(gl.TEXTURE_2D, texid)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	rgba := toRGBA(img)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(nx), int32(ny), 0, gl.RGBA,
		gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba.Pix[0]))

	gl.BindTexture(gl.TEXTURE_2D, uint32(lastTexture))

	if err := ogl3.checkError("texture"); err != nil {
		gl.DeleteTextures(1, &texid)
		return Texture{}, err
	}

	ogl3.createdTexture(texid, 4*nx*ny)
	return Texture{ID: texid, Width: nx, Height: ny}, nil
}

func (ogl3 *OpenGL3Device) BindTexture(unit uint32, tex Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex.ID)
	ogl3.stats.TextureBinds++
}

func (ogl3 *OpenGL3Device) DeleteTexture(tex Texture) {
	gl.DeleteTextures(1, &tex.ID)
	delete(ogl3.createdTextures, tex.ID)
}

///////////////////////////////////////////////////////////////////////////
// State

func (ogl3 *OpenGL3Device) EnableBlend() {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

func (ogl3 *OpenGL3Device) EnableBackfaceCulling() {
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
}

func (ogl3 *OpenGL3Device) EnablePrimitiveRestart(index uint32) {
	gl.Enable(gl.PRIMITIVE_RESTART)
	gl.PrimitiveRestartIndex(index)
}

func (ogl3 *OpenGL3Device) DisablePrimitiveRestart() {
	gl.Disable(gl.PRIMITIVE_RESTART)
}

func (ogl3 *OpenGL3Device) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (ogl3 *OpenGL3Device) Clear(c RGBA) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

///////////////////////////////////////////////////////////////////////////
// Drawing

func glPrimitive(p Primitive) uint32 {
	switch p {
	case Points:
		return gl.POINTS
	case Triangles:
		return gl.TRIANGLES
	default:
		return gl.TRIANGLE_STRIP
	}
}

func (ogl3 *OpenGL3Device) DrawArrays(p Primitive, first, count int32) {
	gl.DrawArrays(glPrimitive(p), first, count)
	ogl3.stats.draw(p, count, 0)
}

func (ogl3 *OpenGL3Device) DrawElements(p Primitive, count int32) {
	gl.DrawElements(glPrimitive(p), count, gl.UNSIGNED_SHORT, gl.PtrOffset(0))
	ogl3.stats.draw(p, count, 0)
}

func (ogl3 *OpenGL3Device) DrawArraysInstanced(p Primitive, first, count, instances int32) {
	gl.DrawArraysInstanced(glPrimitive(p), first, count, instances)
	ogl3.stats.draw(p, count, instances)
}

///////////////////////////////////////////////////////////////////////////
// Timer queries

func (ogl3 *OpenGL3Device) NewTimerQuery() (TimerQuery, error) {
	var id uint32
	gl.GenQueries(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("unable to create timer query")
	}
	ogl3.queries[TimerQuery(id)] = struct{}{}
	return TimerQuery(id), nil
}

func (ogl3 *OpenGL3Device) BeginTimerQuery(q TimerQuery) {
	gl.BeginQuery(gl.TIME_ELAPSED, uint32(q))
}

func (ogl3 *OpenGL3Device) EndTimerQuery() {
	gl.EndQuery(gl.TIME_ELAPSED)
}

func (ogl3 *OpenGL3Device) WaitTimerQuery(q TimerQuery) time.Duration {
	// Reading QUERY_RESULT stalls until the result is available.
	var ns uint64
	gl.GetQueryObjectui64v(uint32(q), gl.QUERY_RESULT, &ns)
	return time.Duration(ns)
}

func (ogl3 *OpenGL3Device) DeleteTimerQuery(q TimerQuery) {
	id := uint32(q)
	gl.DeleteQueries(1, &id)
	delete(ogl3.queries, q)
}
