/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// Shape is a drawable patch: a geometry descriptor plus its resolved style.
// Shapes are immutable once constructed; accessors return copies.
type Shape interface {
	Kind() ShapeKind
	ID() string
	Style() Style
	// Outline is the geometry as a path in document space.
	Outline() Path
	Bounds() Rect
}

type ShapeKind uint8

const (
	KindPathPatch ShapeKind = iota
	KindCircle
	KindEllipse
	KindPolygon
	KindRectangle
)

func (k ShapeKind) String() string {
	switch k {
	case KindPathPatch:
		return "path"
	case KindCircle:
		return "circle"
	case KindEllipse:
		return "ellipse"
	case KindPolygon:
		return "polygon"
	case KindRectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

type baseShape struct {
	id    string
	style Style
}

func (b *baseShape) ID() string { return b.id }

func (b *baseShape) Style() Style {
	s := b.style
	s.Dash.Lengths = append([]float64(nil), b.style.Dash.Lengths...)
	return s
}

func newBase(id string, st Style) baseShape {
	st.Dash.Lengths = append([]float64(nil), st.Dash.Lengths...)
	return baseShape{id: id, style: st}
}

// PathPatch is a free-form path.
type PathPatch struct {
	baseShape
	path Path
}

func NewPathPatch(id string, p Path, st Style) *PathPatch {
	return &PathPatch{baseShape: newBase(id, st), path: p.Transform(Identity)}
}

func (s *PathPatch) Kind() ShapeKind { return KindPathPatch }
func (s *PathPatch) Path() Path      { return s.path.Transform(Identity) }
func (s *PathPatch) Outline() Path   { return s.Path() }
func (s *PathPatch) Bounds() Rect    { return s.path.Bounds() }

// Circle is a center and radius.
type Circle struct {
	baseShape
	center Pt
	radius float64
}

func NewCircle(id string, center Pt, radius float64, st Style) *Circle {
	return &Circle{baseShape: newBase(id, st), center: center, radius: radius}
}

func (s *Circle) Kind() ShapeKind { return KindCircle }
func (s *Circle) Center() Pt      { return s.center }
func (s *Circle) Radius() float64 { return s.radius }
func (s *Circle) Outline() Path   { return ellipsePath(s.center, s.radius, s.radius, 0) }
func (s *Circle) Bounds() Rect {
	r := math.Abs(s.radius)
	return R(s.center.X-r, s.center.Y-r, 2*r, 2*r)
}

// Ellipse is a center, full width and height, and a rotation in degrees.
type Ellipse struct {
	baseShape
	center        Pt
	width, height float64
	angle         float64
}

func NewEllipse(id string, center Pt, width, height, angle float64, st Style) *Ellipse {
	return &Ellipse{baseShape: newBase(id, st), center: center, width: width, height: height, angle: angle}
}

func (s *Ellipse) Kind() ShapeKind { return KindEllipse }
func (s *Ellipse) Center() Pt      { return s.center }
func (s *Ellipse) Width() float64  { return s.width }
func (s *Ellipse) Height() float64 { return s.height }
func (s *Ellipse) Angle() float64  { return s.angle }
func (s *Ellipse) Outline() Path   { return ellipsePath(s.center, s.width/2, s.height/2, s.angle) }
func (s *Ellipse) Bounds() Rect {
	a, b := math.Abs(s.width/2), math.Abs(s.height/2)
	t := Radians(s.angle)
	c, sn := math.Cos(t), math.Sin(t)
	hx := math.Sqrt(a*a*c*c + b*b*sn*sn)
	hy := math.Sqrt(a*a*sn*sn + b*b*c*c)
	return R(s.center.X-hx, s.center.Y-hy, 2*hx, 2*hy)
}

// Polygon is an ordered point list, closed for SVG polygons and open for polylines.
type Polygon struct {
	baseShape
	points []Pt
	closed bool
}

func NewPolygon(id string, points []Pt, closed bool, st Style) *Polygon {
	return &Polygon{baseShape: newBase(id, st), points: append([]Pt(nil), points...), closed: closed}
}

func (s *Polygon) Kind() ShapeKind { return KindPolygon }
func (s *Polygon) Points() []Pt    { return append([]Pt(nil), s.points...) }
func (s *Polygon) Closed() bool    { return s.closed }

func (s *Polygon) Outline() Path {
	var p Path
	for i, pt := range s.points {
		if i == 0 {
			p.MoveTo(pt)
		} else {
			p.LineTo(pt)
		}
	}
	if s.closed && len(s.points) > 0 {
		p.Append([]Pt{s.points[0]}, ClosePolygon)
	}
	return p
}

func (s *Polygon) Bounds() Rect {
	var b bounds
	for _, pt := range s.points {
		b.add(pt)
	}
	return b.rect()
}

// Rectangle is an origin, size, and a rotation in degrees about the origin.
type Rectangle struct {
	baseShape
	xy            Pt
	width, height float64
	angle         float64
}

func NewRectangle(id string, xy Pt, width, height, angle float64, st Style) *Rectangle {
	return &Rectangle{baseShape: newBase(id, st), xy: xy, width: width, height: height, angle: angle}
}

func (s *Rectangle) Kind() ShapeKind { return KindRectangle }
func (s *Rectangle) XY() Pt          { return s.xy }
func (s *Rectangle) Width() float64  { return s.width }
func (s *Rectangle) Height() float64 { return s.height }
func (s *Rectangle) Angle() float64  { return s.angle }

func (s *Rectangle) corners() []Pt {
	m := Translate(s.xy.X, s.xy.Y).Mul(Rotate(Radians(s.angle)))
	return []Pt{
		m.Apply(Pt{0, 0}),
		m.Apply(Pt{s.width, 0}),
		m.Apply(Pt{s.width, s.height}),
		m.Apply(Pt{0, s.height}),
	}
}

func (s *Rectangle) Outline() Path {
	c := s.corners()
	var p Path
	p.MoveTo(c[0])
	p.LineTo(c[1])
	p.LineTo(c[2])
	p.LineTo(c[3])
	p.Append([]Pt{c[0]}, ClosePolygon)
	return p
}

func (s *Rectangle) Bounds() Rect {
	var b bounds
	for _, c := range s.corners() {
		b.add(c)
	}
	return b.rect()
}

// kappa places cubic control points so four segments approximate a quarter circle each.
const kappa = 0.5522847498307936

// ellipsePath builds a closed four-segment cubic approximation of an ellipse
// with radii rx, ry rotated by angle degrees around center.
func ellipsePath(center Pt, rx, ry, angle float64) Path {
	m := Translate(center.X, center.Y).Mul(Rotate(Radians(angle))).Mul(Scale(rx, ry))
	unit := [][3]Pt{
		{{1, kappa}, {kappa, 1}, {0, 1}},
		{{-kappa, 1}, {-1, kappa}, {-1, 0}},
		{{-1, -kappa}, {-kappa, -1}, {0, -1}},
		{{kappa, -1}, {1, -kappa}, {1, 0}},
	}
	var p Path
	p.MoveTo(m.Apply(Pt{1, 0}))
	for _, q := range unit {
		p.CubicTo(m.Apply(q[0]), m.Apply(q[1]), m.Apply(q[2]))
	}
	p.Append([]Pt{m.Apply(Pt{1, 0})}, ClosePolygon)
	return p
}
