// sprite/sprite_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sprite

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"slices"
	"testing"
	"unsafe"

	"github.com/mmp/spritebench/math"
	"github.com/mmp/spritebench/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

func expectPanic(t *testing.T, what string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", what)
		}
	}()
	f()
}

func makeTexture(t *testing.T, md *renderer.MemoryDevice, nx, ny int) renderer.Texture {
	t.Helper()
	tex, err := md.CreateTextureFromImage(image.NewRGBA(image.Rect(0, 0, nx, ny)))
	if err != nil {
		t.Fatalf("CreateTextureFromImage: %v", err)
	}
	return tex
}

func makeRegion(t *testing.T, tex renderer.Texture, x0, y0, x1, y1 int) Region {
	t.Helper()
	r, err := RegionFromTexture(tex, x0, y0, x1, y1)
	if err != nil {
		t.Fatalf("RegionFromTexture: %v", err)
	}
	return r
}

func newRenderer(t *testing.T, kind Kind, md *renderer.MemoryDevice, capacity int) Renderer {
	t.Helper()
	r, err := New(kind, md, capacity, nil)
	if err != nil {
		t.Fatalf("%s: %v", kind, err)
	}
	return r
}

// spritesPerDraw returns the number of sprites submitted by a recorded
// draw call.
func spritesPerDraw(kind Kind, c renderer.Command) int {
	switch kind {
	case VertexBatched:
		return int(c.Count) / 5
	case CPUInstanced, GPUInstanced:
		return int(c.Instances)
	case GeometryBatched:
		return int(c.Count)
	default:
		return 1
	}
}

func allKinds() []Kind {
	var kinds []Kind
	for _, n := range KindNames() {
		k, _ := ParseKind(n)
		kinds = append(kinds, k)
	}
	return kinds
}

var origin = [2]float32{13, 18.5}

func TestRecordSizes(t *testing.T) {
	for _, test := range []struct {
		name string
		size uintptr
		want uintptr
	}{
		{"Color", unsafe.Sizeof(Color{}), 4},
		{"batchVertex", unsafe.Sizeof(batchVertex{}), 16},
		{"batchQuad", unsafe.Sizeof(batchQuad{}), 64},
		{"cpuInstance", unsafe.Sizeof(cpuInstance{}), 56},
		{"spriteInstance", unsafe.Sizeof(spriteInstance{}), 48},
	} {
		if test.size != test.want {
			t.Errorf("%s: size %d, expected %d", test.name, test.size, test.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	want := []string{"naive", "batch", "instance_cpu", "instance", "geometry", "geometry_batch"}
	if names := KindNames(); !slices.Equal(names, want) {
		t.Errorf("KindNames() = %v, expected %v", names, want)
	}
	for _, n := range want {
		k, err := ParseKind(n)
		if err != nil {
			t.Errorf("%s: unexpected error %v", n, err)
		} else if k.String() != n {
			t.Errorf("%s: round trip gave %q", n, k.String())
		}
	}
	if _, err := ParseKind("bogus"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("bogus: expected ErrUnknownKind, got %v", err)
	}
}

func TestNewCapacity(t *testing.T) {
	for _, kind := range allKinds() {
		md := renderer.NewMemoryDevice(nil)
		if kind.Batched() {
			for _, c := range []int{0, -1, kind.MaxCapacity() + 1} {
				if _, err := New(kind, md, c, nil); !errors.Is(err, ErrCapacity) {
					t.Errorf("%s: capacity %d: expected ErrCapacity, got %v", kind, c, err)
				}
			}
			if n := md.LiveResources(); n != 0 {
				t.Errorf("%s: %d resources leaked after failed construction", kind, n)
			}
			newRenderer(t, kind, md, 1).Dispose()
		} else {
			newRenderer(t, kind, md, 0).Dispose()
		}
		if n := md.LiveResources(); n != 0 {
			t.Errorf("%s: %d resources remain after Dispose", kind, n)
		}
	}
	if MaxBatchQuads*4-1 >= restartIndex {
		t.Errorf("MaxBatchQuads %d allows a vertex index equal to the restart index", MaxBatchQuads)
	}
}

func TestEmptyFrame(t *testing.T) {
	for _, kind := range allKinds() {
		md := renderer.NewMemoryDevice(nil)
		r := newRenderer(t, kind, md, 8)
		md.Record(true)
		r.Begin(mgl32.Ident4())
		r.End()
		if d := md.Draws(); len(d) != 0 {
			t.Errorf("%s: %d draws for an empty frame", kind, len(d))
		}
		r.Dispose()
	}
}

func TestCapacityFlush(t *testing.T) {
	for _, kind := range allKinds() {
		md := renderer.NewMemoryDevice(nil)
		region, _ := FullRegion(makeTexture(t, md, 26, 37))
		r := newRenderer(t, kind, md, 4)
		md.Record(true)

		r.Begin(mgl32.Ident4())
		for i := range 10 {
			r.DrawSprite(region, [2]float32{float32(i), 0}, [2]float32{26, 37}, origin, 0, White)
		}
		r.End()

		var counts []int
		for _, d := range md.Draws() {
			counts = append(counts, spritesPerDraw(kind, d))
		}
		want := []int{4, 4, 2}
		if !kind.Batched() {
			want = slices.Repeat([]int{1}, 10)
		}
		if !slices.Equal(counts, want) {
			t.Errorf("%s: sprites per draw %v, expected %v", kind, counts, want)
		}
		if s := md.Stats(); s.DrawCalls != len(want) {
			t.Errorf("%s: stats report %d draws, expected %d", kind, s.DrawCalls, len(want))
		}
		r.Dispose()
	}
}

func TestTextureSwitch(t *testing.T) {
	for _, kind := range allKinds() {
		if !kind.Batched() {
			continue
		}
		md := renderer.NewMemoryDevice(nil)
		a, _ := FullRegion(makeTexture(t, md, 26, 37))
		b, _ := FullRegion(makeTexture(t, md, 16, 16))
		r := newRenderer(t, kind, md, 100)
		md.Record(true)

		r.Begin(mgl32.Ident4())
		for _, region := range []Region{a, a, b, a} {
			r.DrawSprite(region, [2]float32{}, [2]float32{16, 16}, origin, 0, White)
		}
		r.End()

		draws := md.Draws()
		var counts []int
		var textures []uint32
		for _, d := range draws {
			counts = append(counts, spritesPerDraw(kind, d))
			textures = append(textures, d.Texture)
		}
		if !slices.Equal(counts, []int{2, 1, 1}) {
			t.Errorf("%s: sprites per draw %v, expected [2 1 1]", kind, counts)
		}
		if want := []uint32{a.Texture.ID, b.Texture.ID, a.Texture.ID}; !slices.Equal(textures, want) {
			t.Errorf("%s: draw textures %v, expected %v", kind, textures, want)
		}
		r.Dispose()
	}
}

func TestFlush(t *testing.T) {
	md := renderer.NewMemoryDevice(nil)
	region, _ := FullRegion(makeTexture(t, md, 26, 37))
	r, err := NewGPUInstanceRenderer(md, 16)
	if err != nil {
		t.Fatal(err)
	}
	md.Record(true)

	r.Begin(mgl32.Ident4())
	r.DrawSprite(region, [2]float32{}, [2]float32{26, 37}, origin, 0, White)
	r.DrawSprite(region, [2]float32{}, [2]float32{26, 37}, origin, 0, White)
	if r.Buffered() != 2 {
		t.Errorf("Buffered() = %d, expected 2", r.Buffered())
	}
	r.Flush()
	if r.Buffered() != 0 {
		t.Errorf("Buffered() = %d after Flush, expected 0", r.Buffered())
	}
	r.Flush()
	r.End()

	if d := md.Draws(); len(d) != 1 || d[0].Instances != 2 {
		t.Errorf("expected a single draw of 2 instances, got %+v", d)
	}
	if r.Capacity() != 16 {
		t.Errorf("Capacity() = %d, expected 16", r.Capacity())
	}
	r.Dispose()
}

// updates returns the data of the recorded buffer updates.
func updates(md *renderer.MemoryDevice) [][]byte {
	var u [][]byte
	for _, c := range md.Commands() {
		if c.Op == renderer.OpUpdateBuffer {
			u = append(u, c.Data)
		}
	}
	return u
}

func decode[T any](t *testing.T, data []byte) []T {
	t.Helper()
	var v T
	recs := make([]T, len(data)/int(unsafe.Sizeof(v)))
	if err := binary.Read(bytes.NewReader(data), binary.NativeEndian, recs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return recs
}

// referenceTransform composes the sprite matrix from mgl32's 2D
// homogeneous transformations.
func referenceTransform(pos, size, origin [2]float32, rotation float32) mgl32.Mat3 {
	return mgl32.Translate2D(pos[0]+origin[0], pos[1]+origin[1]).
		Mul3(mgl32.HomogRotate2D(rotation)).
		Mul3(mgl32.Translate2D(-origin[0], -origin[1])).
		Mul3(mgl32.Scale2D(size[0], size[1]))
}

type testSprite struct {
	pos, size [2]float32
	rotation  float32
	color     Color
}

var testSprites = []testSprite{
	{pos: [2]float32{0, 0}, size: [2]float32{26, 37}, color: White},
	{pos: [2]float32{100, 50}, size: [2]float32{26, 37}, rotation: math.Radians(90), color: Color{255, 0, 0, 128}},
	{pos: [2]float32{-20, 300}, size: [2]float32{52, 18}, rotation: math.Radians(217.5), color: Color{1, 2, 3, 4}},
	{pos: [2]float32{640.25, 360.75}, size: [2]float32{1, 1}, rotation: -1.25, color: Color{0, 0, 0, 0}},
}

func TestVertexBatchCorners(t *testing.T) {
	md := renderer.NewMemoryDevice(nil)
	tex := makeTexture(t, md, 64, 32)
	region := makeRegion(t, tex, 8, 4, 24, 20)
	r := newRenderer(t, VertexBatched, md, 16)
	md.Record(true)

	r.Begin(mgl32.Ident4())
	for _, s := range testSprites {
		r.DrawSprite(region, s.pos, s.size, origin, s.rotation, s.color)
	}
	r.End()

	u := updates(md)
	if len(u) != 1 {
		t.Fatalf("expected 1 buffer update, got %d", len(u))
	}
	quads := decode[batchQuad](t, u[0])
	if len(quads) != len(testSprites) {
		t.Fatalf("expected %d quads, got %d", len(testSprites), len(quads))
	}

	local := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	uv := [4][2]uint16{{8, 20}, {24, 20}, {24, 4}, {8, 4}}
	for i, s := range testSprites {
		m := referenceTransform(s.pos, s.size, origin, s.rotation)
		for j, v := range quads[i] {
			p := m.Mul3x1(mgl32.Vec3{local[j][0], local[j][1], 1})
			if !mgl32.FloatEqualThreshold(v.Pos[0], p[0], 1e-3) || !mgl32.FloatEqualThreshold(v.Pos[1], p[1], 1e-3) {
				t.Errorf("sprite %d corner %d: got %v, expected %v", i, j, v.Pos, p.Vec2())
			}
			if v.UV != uv[j] {
				t.Errorf("sprite %d corner %d: UV %v, expected %v", i, j, v.UV, uv[j])
			}
			if v.Color != s.color {
				t.Errorf("sprite %d corner %d: color %v, expected %v", i, j, v.Color, s.color)
			}
		}
	}
}

func TestCPUInstanceMatrices(t *testing.T) {
	md := renderer.NewMemoryDevice(nil)
	tex := makeTexture(t, md, 64, 32)
	region := makeRegion(t, tex, 8, 4, 24, 20)
	r := newRenderer(t, CPUInstanced, md, 16)
	md.Record(true)

	r.Begin(mgl32.Ident4())
	for _, s := range testSprites {
		r.DrawSprite(region, s.pos, s.size, origin, s.rotation, s.color)
	}
	r.End()

	u := updates(md)
	if len(u) != 1 {
		t.Fatalf("expected 1 buffer update, got %d", len(u))
	}
	insts := decode[cpuInstance](t, u[0])
	for i, s := range testSprites {
		// mgl32 matrices are stored column major, as the attribute is.
		ref := referenceTransform(s.pos, s.size, origin, s.rotation)
		for j := range 9 {
			if !mgl32.FloatEqualThreshold(insts[i].Model[j], ref[j], 1e-3) {
				t.Errorf("sprite %d: model %v, expected %v", i, insts[i].Model, ref)
				break
			}
		}
		if want := [4][2]uint16{{8, 20}, {8, 4}, {24, 20}, {24, 4}}; insts[i].UV != want {
			t.Errorf("sprite %d: UVs %v, expected %v", i, insts[i].UV, want)
		}
		if insts[i].Color != s.color {
			t.Errorf("sprite %d: color %v, expected %v", i, insts[i].Color, s.color)
		}
	}
}

func TestSpriteInstanceFields(t *testing.T) {
	for _, kind := range []Kind{GPUInstanced, Geometry, GeometryBatched} {
		md := renderer.NewMemoryDevice(nil)
		tex := makeTexture(t, md, 64, 32)
		region := makeRegion(t, tex, 0, 0, 64, 32)
		r := newRenderer(t, kind, md, 16)
		md.Record(true)

		r.Begin(mgl32.Ident4())
		for _, s := range testSprites {
			r.DrawSprite(region, s.pos, s.size, origin, s.rotation, s.color)
		}
		r.End()

		var insts []spriteInstance
		for _, data := range updates(md) {
			insts = append(insts, decode[spriteInstance](t, data)...)
		}
		if len(insts) != len(testSprites) {
			t.Fatalf("%s: expected %d records, got %d", kind, len(testSprites), len(insts))
		}
		for i, s := range testSprites {
			want := spriteInstance{
				Pos:      s.pos,
				Size:     s.size,
				Origin:   origin,
				Rotation: s.rotation,
				Color:    s.color,
				UV:       [4][2]uint16{{0, 32}, {0, 0}, {64, 32}, {64, 0}},
			}
			if insts[i] != want {
				t.Errorf("%s: sprite %d: got %+v, expected %+v", kind, i, insts[i], want)
			}
		}
		r.Dispose()
	}
}

func TestNaiveUniforms(t *testing.T) {
	md := renderer.NewMemoryDevice(nil)
	tex := makeTexture(t, md, 64, 32)
	a := makeRegion(t, tex, 8, 4, 24, 20)
	b := makeRegion(t, tex, 0, 0, 64, 32)
	r, err := NewNaiveRenderer(md)
	if err != nil {
		t.Fatal(err)
	}
	md.Record(true)

	s := testSprites[2]
	r.Begin(mgl32.Ident4())
	r.DrawSprite(a, s.pos, s.size, origin, s.rotation, s.color)
	r.DrawSprite(a, s.pos, s.size, origin, s.rotation, s.color)
	r.DrawSprite(b, s.pos, s.size, origin, s.rotation, s.color)
	r.End()

	// The UVs are only uploaded when the region changes.
	u := updates(md)
	if len(u) != 2 {
		t.Fatalf("expected 2 UV updates, got %d", len(u))
	}
	uv := decode[[2]float32](t, u[0])
	want := [][2]float32{{8. / 64, 20. / 32}, {8. / 64, 4. / 32}, {24. / 64, 20. / 32}, {24. / 64, 4. / 32}}
	if !slices.Equal(uv, want) {
		t.Errorf("UVs %v, expected %v", uv, want)
	}

	ref := referenceTransform(s.pos, s.size, origin, s.rotation)
	var models, colors int
	for _, c := range md.Commands() {
		switch c.Op {
		case renderer.OpSetUniformMatrix3:
			models++
			for j := range 9 {
				if !mgl32.FloatEqualThreshold(c.Matrix3[j], ref[j], 1e-3) {
					t.Errorf("model %v, expected %v", c.Matrix3, ref)
					break
				}
			}
		case renderer.OpSetUniformUint:
			colors++
			if c.Uint != 0x01020304 {
				t.Errorf("color uniform %#x, expected 0x01020304", c.Uint)
			}
		}
	}
	if models != 3 || colors != 3 {
		t.Errorf("got %d model and %d color uniforms, expected 3 of each", models, colors)
	}
	if d := md.Draws(); len(d) != 3 || d[0].Primitive != renderer.TriangleStrip || d[0].Count != 4 {
		t.Errorf("expected 3 4-vertex strip draws, got %+v", d)
	}
	r.Dispose()
}

func TestQuadIndices(t *testing.T) {
	want := []uint16{0, 3, 1, 2, 0xFFFF, 4, 7, 5, 6, 0xFFFF}
	if idx := quadIndices(2); !slices.Equal(idx, want) {
		t.Errorf("quadIndices(2) = %v, expected %v", idx, want)
	}

	idx := quadIndices(MaxBatchQuads)
	if slices.Max(slices.DeleteFunc(slices.Clone(idx), func(i uint16) bool { return i == restartIndex })) >= restartIndex {
		t.Errorf("vertex index collides with restart index")
	}
}

func TestPrimitiveRestart(t *testing.T) {
	md := renderer.NewMemoryDevice(nil)
	region, _ := FullRegion(makeTexture(t, md, 26, 37))
	r := newRenderer(t, VertexBatched, md, 4)

	r.Begin(mgl32.Ident4())
	if on, idx := md.PrimitiveRestart(); !on || idx != restartIndex {
		t.Errorf("primitive restart %v/%#x after Begin", on, idx)
	}
	r.DrawSprite(region, [2]float32{}, [2]float32{26, 37}, origin, 0, White)
	r.End()
	if on, _ := md.PrimitiveRestart(); on {
		t.Errorf("primitive restart still enabled after End")
	}
	r.Dispose()
}

func TestBeginEndContract(t *testing.T) {
	for _, kind := range allKinds() {
		md := renderer.NewMemoryDevice(nil)
		region, _ := FullRegion(makeTexture(t, md, 26, 37))
		r := newRenderer(t, kind, md, 4)
		draw := func() { r.DrawSprite(region, [2]float32{}, [2]float32{26, 37}, origin, 0, White) }

		expectPanic(t, kind.String()+": DrawSprite before Begin", draw)
		expectPanic(t, kind.String()+": End before Begin", r.End)
		if b, ok := r.(Batcher); ok {
			expectPanic(t, kind.String()+": Flush before Begin", b.Flush)
		}

		r.Begin(mgl32.Ident4())
		expectPanic(t, kind.String()+": nested Begin", func() { r.Begin(mgl32.Ident4()) })
		draw()
		r.End()

		expectPanic(t, kind.String()+": DrawSprite after End", draw)
		expectPanic(t, kind.String()+": End after End", r.End)

		// The renderer is usable for another frame.
		r.Begin(mgl32.Ident4())
		draw()
		r.End()
		r.Dispose()
	}
}

func TestRebindAcrossFrames(t *testing.T) {
	md := renderer.NewMemoryDevice(nil)
	region, _ := FullRegion(makeTexture(t, md, 26, 37))
	r := newRenderer(t, GeometryBatched, md, 4)
	md.Record(true)

	for range 2 {
		r.Begin(mgl32.Ident4())
		r.DrawSprite(region, [2]float32{}, [2]float32{26, 37}, origin, 0, White)
		r.End()
	}

	var binds int
	for _, c := range md.Commands() {
		if c.Op == renderer.OpBindTexture {
			binds++
		}
	}
	if binds != 2 {
		t.Errorf("expected the texture to be bound once per frame, got %d binds", binds)
	}
	r.Dispose()
}

func TestRegionFromTexture(t *testing.T) {
	md := renderer.NewMemoryDevice(nil)
	tex := makeTexture(t, md, 64, 32)

	r := makeRegion(t, tex, 16, 8, 32, 32)
	if r.U0() != 0.25 || r.V0() != 0.25 || r.U1() != 0.5 || r.V1() != 1 {
		t.Errorf("normalized bounds (%g,%g)-(%g,%g)", r.U0(), r.V0(), r.U1(), r.V1())
	}
	if full, _ := FullRegion(tex); full.X1 != 64 || full.Y1 != 32 {
		t.Errorf("FullRegion bounds %v", full)
	}

	for _, b := range [][4]int{{-1, 0, 4, 4}, {0, 0, 65, 4}, {8, 0, 4, 4}, {0, 10, 4, 4}, {0, 0, 4, 33}} {
		if _, err := RegionFromTexture(tex, b[0], b[1], b[2], b[3]); err == nil {
			t.Errorf("%v: expected error", b)
		}
	}
	if _, err := RegionFromTexture(renderer.Texture{}, 0, 0, 1, 1); err == nil {
		t.Errorf("expected error for invalid texture")
	}
}

func TestColorPacked(t *testing.T) {
	if p := (Color{R: 0x12, G: 0x34, B: 0x56, A: 0x78}).Packed(); p != 0x12345678 {
		t.Errorf("Packed() = %#x, expected 0x12345678", p)
	}
	if White.Packed() != 0xffffffff {
		t.Errorf("White.Packed() = %#x", White.Packed())
	}
}
