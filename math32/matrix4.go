// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package math32 is a float32 based matrix package for the 2D
// projection and model view transforms of the renderer.
package math32

import (
	"github.com/chewxy/math32"
)

// Pi is the float32 value of pi.
const Pi = math32.Pi

// DegToRad converts a number from degrees to radians
func DegToRad(degrees float32) float32 {
	return degrees * (Pi / 180)
}

// Matrix4 is a 4x4 matrix in column major order, the layout
// expected by GLSL mat4 uniforms.
type Matrix4 [16]float32

// Identity4 returns a new identity [Matrix4] matrix.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Ortho returns an orthographic projection matrix for the given
// clipping planes, with the same semantics as glOrtho.
func Ortho(left, right, bottom, top, near, far float32) Matrix4 {
	w := right - left
	h := top - bottom
	d := far - near
	m := Identity4()
	m[0] = 2 / w
	m[5] = 2 / h
	m[10] = -2 / d
	m[12] = -(right + left) / w
	m[13] = -(top + bottom) / h
	m[14] = -(far + near) / d
	return m
}

// ScreenOrtho returns the projection for a screen of the given size in
// pixels with the origin at the top left corner and y pointing down.
// Depth values from 0 to -far are visible, so larger layers can be
// placed in front by negating them.
func ScreenOrtho(width, height, far float32) Matrix4 {
	return Ortho(0, width, height, 0, -far, far)
}

// Translation4 returns a translation matrix.
func Translation4(x, y, z float32) Matrix4 {
	m := Identity4()
	m[12] = x
	m[13] = y
	m[14] = z
	return m
}

// Scale4 returns a scaling matrix.
func Scale4(x, y, z float32) Matrix4 {
	m := Identity4()
	m[0] = x
	m[5] = y
	m[10] = z
	return m
}

// RotationZ4 returns a matrix rotating by the given angle in radians
// around the z axis.
func RotationZ4(angle float32) Matrix4 {
	s, c := math32.Sincos(angle)
	m := Identity4()
	m[0] = c
	m[1] = s
	m[4] = -s
	m[5] = c
	return m
}

// Mul returns m * o, so o is applied first when transforming a vector.
func (m Matrix4) Mul(o Matrix4) Matrix4 {
	var r Matrix4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[c*4+k]
			}
			r[c*4+row] = sum
		}
	}
	return r
}

// MulPoint transforms the point (x, y, z, 1) by m and returns x, y, z.
func (m Matrix4) MulPoint(x, y, z float32) (float32, float32, float32) {
	return m[0]*x + m[4]*y + m[8]*z + m[12],
		m[1]*x + m[5]*y + m[9]*z + m[13],
		m[2]*x + m[6]*y + m[10]*z + m[14]
}

// Round rounds to the nearest integer, with halves away from zero.
func Round(v float32) float32 {
	return math32.Round(v)
}

// Abs returns the absolute value of v.
func Abs(v float32) float32 {
	return math32.Abs(v)
}
