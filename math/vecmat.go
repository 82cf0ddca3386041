// math/vecmat.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// point 2f

// Points and vectors are [2]float32 so that they can be stored directly in
// vertex records.

// a+b
func Add2f(a [2]float32, b [2]float32) [2]float32 {
	return [2]float32{a[0] + b[0], a[1] + b[1]}
}

// a-b
func Sub2f(a [2]float32, b [2]float32) [2]float32 {
	return [2]float32{a[0] - b[0], a[1] - b[1]}
}

// a*s
func Scale2f(a [2]float32, s float32) [2]float32 {
	return [2]float32{s * a[0], s * a[1]}
}

func Length2f(v [2]float32) float32 {
	return Sqrt(v[0]*v[0] + v[1]*v[1])
}

func Distance2f(a [2]float32, b [2]float32) float32 {
	return Length2f(Sub2f(a, b))
}

///////////////////////////////////////////////////////////////////////////
// 3x3 matrix

// Matrix3 is a row-major 3x3 matrix; m[i][j] is the element in row i and
// column j. Points are column vectors, so the translation lives in the
// last column.
type Matrix3 [3][3]float32

// MakeMatrix3 returns the matrix with the given elements, given row by
// row.
func MakeMatrix3(m00, m01, m02, m10, m11, m12, m20, m21, m22 float32) Matrix3 {
	return Matrix3{{m00, m01, m02}, {m10, m11, m12}, {m20, m21, m22}}
}

func Identity3x3() Matrix3 {
	return MakeMatrix3(1, 0, 0, 0, 1, 0, 0, 0, 1)
}

// PostMultiply returns m*m2; transformations applied with the methods
// below act on points before m does.
func (m Matrix3) PostMultiply(m2 Matrix3) Matrix3 {
	var r Matrix3
	for i := range 3 {
		for j := range 3 {
			for k := range 3 {
				r[i][j] += m[i][k] * m2[k][j]
			}
		}
	}
	return r
}

func (m Matrix3) Scale(x, y float32) Matrix3 {
	return m.PostMultiply(MakeMatrix3(x, 0, 0, 0, y, 0, 0, 0, 1))
}

func (m Matrix3) Translate(x, y float32) Matrix3 {
	return m.PostMultiply(MakeMatrix3(1, 0, x, 0, 1, y, 0, 0, 1))
}

func (m Matrix3) Rotate(theta float32) Matrix3 {
	s, c := SinCos(theta)
	return m.PostMultiply(MakeMatrix3(c, -s, 0, s, c, 0, 0, 0, 1))
}

func (m Matrix3) TransformPoint(p [2]float32) [2]float32 {
	return [2]float32{
		m[0][0]*p[0] + m[0][1]*p[1] + m[0][2],
		m[1][0]*p[0] + m[1][1]*p[1] + m[1][2],
	}
}

// ColumnMajor returns the matrix elements in the column-major order that
// GLSL mat3 uniforms and attributes expect.
func (m Matrix3) ColumnMajor() [9]float32 {
	return [9]float32{
		m[0][0], m[1][0], m[2][0],
		m[0][1], m[1][1], m[2][1],
		m[0][2], m[1][2], m[2][2],
	}
}

// SpriteTransform returns the matrix that maps the unit quad [0,1]^2 to a
// sprite with the given position and size, rotated by rotation radians
// around origin. origin is relative to pos, so it is both the pivot of
// the rotation and the offset applied before scaling:
//
//	translate(pos+origin) * rotate(rotation) * translate(-origin) * scale(size)
//
// The shaders of the device-side strategies compose the same matrix, so
// any change here must be mirrored there.
func SpriteTransform(pos, size, origin [2]float32, rotation float32) Matrix3 {
	// Expanded form of the product above.
	s, c := SinCos(rotation)
	tx := pos[0] + origin[0] - c*origin[0] + s*origin[1]
	ty := pos[1] + origin[1] - s*origin[0] - c*origin[1]
	return MakeMatrix3(
		c*size[0], -s*size[1], tx,
		s*size[0], c*size[1], ty,
		0, 0, 1)
}

// QuadCorners returns the unit quad corners transformed by m in the order
// bottom-left, bottom-right, top-right, top-left, where "bottom" is local
// y=0.
func (m Matrix3) QuadCorners() [4][2]float32 {
	return [4][2]float32{
		m.TransformPoint([2]float32{0, 0}),
		m.TransformPoint([2]float32{1, 0}),
		m.TransformPoint([2]float32{1, 1}),
		m.TransformPoint([2]float32{0, 1}),
	}
}
