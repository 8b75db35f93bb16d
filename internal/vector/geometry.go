/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// 2D geometry and affine transforms. Coordinates are float64 in the SVG
// document's user space unless a transform says otherwise.

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y float64 }

func (p Pt) Add(q Pt) Pt      { return Pt{p.X + q.X, p.Y + q.Y} }
func (p Pt) Sub(q Pt) Pt      { return Pt{p.X - q.X, p.Y - q.Y} }
func (p Pt) Mul(k float64) Pt { return Pt{p.X * k, p.Y * k} }
func (p Pt) Len() float64     { return math.Hypot(p.X, p.Y) }
func (p Pt) Eq(q Pt, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt { return Pt{r.X + r.W, r.Y + r.H} }

func (r Rect) Empty() bool { return r.W <= 0 && r.H <= 0 }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// bounds accumulates points into an axis-aligned box.
type bounds struct {
	minX, minY, maxX, maxY float64
	n                      int
}

func (b *bounds) add(p Pt) {
	if b.n == 0 {
		b.minX, b.maxX, b.minY, b.maxY = p.X, p.X, p.Y, p.Y
	} else {
		b.minX = math.Min(b.minX, p.X)
		b.maxX = math.Max(b.maxX, p.X)
		b.minY = math.Min(b.minY, p.Y)
		b.maxY = math.Max(b.maxY, p.Y)
	}
	b.n++
}

func (b *bounds) rect() Rect {
	if b.n == 0 {
		return Rect{}
	}
	return Rect{X: b.minX, Y: b.minY, W: b.maxX - b.minX, H: b.maxY - b.minY}
}

// Affine2D represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
// which matches the SVG matrix(a b c d e f) order.
type Affine2D struct{ A, B, C, D, E, F float64 }

var Identity = Affine2D{A: 1, D: 1}

// Mul returns m·n, i.e. n is applied first.
func (m Affine2D) Mul(n Affine2D) Affine2D {
	return Affine2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Then returns the transform that applies m and then n.
func (m Affine2D) Then(n Affine2D) Affine2D { return n.Mul(m) }

func (m Affine2D) Apply(p Pt) Pt {
	return Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// ApplyVector transforms a direction, ignoring translation.
func (m Affine2D) ApplyVector(p Pt) Pt {
	return Pt{X: m.A*p.X + m.C*p.Y, Y: m.B*p.X + m.D*p.Y}
}

// IsIdentity reports whether m is exactly the identity.
func (m Affine2D) IsIdentity() bool { return m == Identity }

// RotationDegrees is the angle of the transformed x axis.
func (m Affine2D) RotationDegrees() float64 {
	return math.Atan2(m.B, m.A) * 180 / math.Pi
}

// Invert computes the inverse of m; a singular matrix yields Identity.
func (m Affine2D) Invert() Affine2D {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Identity
	}
	invDet := 1 / det
	return Affine2D{
		A: m.D * invDet,
		B: -m.B * invDet,
		C: -m.C * invDet,
		D: m.A * invDet,
		E: (m.C*m.F - m.D*m.E) * invDet,
		F: (m.B*m.E - m.A*m.F) * invDet,
	}
}

func Translate(tx, ty float64) Affine2D { return Affine2D{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float64) Affine2D     { return Affine2D{A: sx, D: sy} }
func Rotate(rad float64) Affine2D {
	c, s := math.Cos(rad), math.Sin(rad)
	return Affine2D{A: c, B: s, C: -s, D: c}
}
func SkewX(rad float64) Affine2D { return Affine2D{A: 1, C: math.Tan(rad), D: 1} }
func SkewY(rad float64) Affine2D { return Affine2D{A: 1, B: math.Tan(rad), D: 1} }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
