/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package svgdoc

import (
	"math"

	"svgpatch/internal/vector"
)

type SegmentKind uint8

const (
	SegMove SegmentKind = iota
	SegLine
	SegCubic
	SegQuad
	SegArc
	SegClose
)

func (k SegmentKind) String() string {
	switch k {
	case SegMove:
		return "move"
	case SegLine:
		return "line"
	case SegCubic:
		return "cubic"
	case SegQuad:
		return "quad"
	case SegArc:
		return "arc"
	case SegClose:
		return "close"
	}
	return "unknown"
}

// Segment is one absolute drawing instruction of a path, in document
// space. Control is set for quadratics, Control1 and Control2 for cubics.
// A cubic may carry fewer than two controls when it was built by hand.
type Segment struct {
	Kind     SegmentKind
	Start    vector.Pt
	End      vector.Pt
	Control  *vector.Pt
	Control1 *vector.Pt
	Control2 *vector.Pt
	Arc      *ArcParams
}

// ArcParams keeps the endpoint parameterisation of an elliptical arc in the
// path's local space together with the transform to document space.
type ArcParams struct {
	Start, End vector.Pt
	Rx, Ry     float64
	// Rotation of the ellipse x axis, in degrees.
	Rotation  float64
	LargeArc  bool
	Sweep     bool
	Transform vector.Affine2D
}

// ArcCubics approximates an arc segment with n cubic Bezier pieces, each
// given as (control1, control2, end) in document space. n <= 0 picks one
// piece per started 30 degrees of sweep. Non-arc segments yield nil.
func (s Segment) ArcCubics(n int) [][3]vector.Pt {
	if s.Kind != SegArc || s.Arc == nil {
		return nil
	}
	return s.Arc.Cubics(n)
}

// maxPieceSweep bounds the sweep of a single cubic when the count is
// chosen automatically.
const maxPieceSweep = math.Pi / 6

func autoPieces(sweep float64) int {
	n := int(math.Ceil(math.Abs(sweep)/maxPieceSweep - 1e-9))
	if n < 1 {
		return 1
	}
	return n
}

// SweepAngle returns the signed sweep in radians, or 0 for a degenerate arc.
func (a *ArcParams) SweepAngle() float64 {
	e, ok := a.center()
	if !ok {
		return 0
	}
	return e.sweep
}

type ellipseArc struct {
	c        vector.Pt
	rx, ry   float64
	sin, cos float64
	start    float64
	sweep    float64
}

func (e ellipseArc) point(eta float64) vector.Pt {
	ac, bs := e.rx*math.Cos(eta), e.ry*math.Sin(eta)
	return vector.Pt{X: e.c.X + ac*e.cos - bs*e.sin, Y: e.c.Y + ac*e.sin + bs*e.cos}
}

func (e ellipseArc) prime(eta float64) vector.Pt {
	as, bc := e.rx*math.Sin(eta), e.ry*math.Cos(eta)
	return vector.Pt{X: -as*e.cos - bc*e.sin, Y: -as*e.sin + bc*e.cos}
}

// center converts the endpoint form to center form, scaling radii up when
// no ellipse fits the endpoints.
func (a *ArcParams) center() (ellipseArc, bool) {
	rx, ry := math.Abs(a.Rx), math.Abs(a.Ry)
	if rx == 0 || ry == 0 || a.Start == a.End {
		return ellipseArc{}, false
	}
	phi := vector.Radians(a.Rotation)
	sin, cos := math.Sincos(phi)
	dx, dy := (a.Start.X-a.End.X)/2, (a.Start.Y-a.End.Y)/2
	x1 := cos*dx + sin*dy
	y1 := -sin*dx + cos*dy

	if l := x1*x1/(rx*rx) + y1*y1/(ry*ry); l > 1 {
		k := math.Sqrt(l)
		rx *= k
		ry *= k
	}
	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := 0.0
	if num > 0 && den > 0 {
		coef = math.Sqrt(num / den)
	}
	if a.LargeArc == a.Sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx

	e := ellipseArc{
		c: vector.Pt{
			X: cos*cx1 - sin*cy1 + (a.Start.X+a.End.X)/2,
			Y: sin*cx1 + cos*cy1 + (a.Start.Y+a.End.Y)/2,
		},
		rx: rx, ry: ry, sin: sin, cos: cos,
	}
	ux, uy := (x1-cx1)/rx, (y1-cy1)/ry
	vx, vy := (-x1-cx1)/rx, (-y1-cy1)/ry
	e.start = math.Atan2(uy, ux)
	d := math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
	if !a.Sweep && d > 0 {
		d -= 2 * math.Pi
	} else if a.Sweep && d < 0 {
		d += 2 * math.Pi
	}
	e.sweep = d
	return e, true
}

// Cubics is ArcCubics on the parameters directly.
func (a *ArcParams) Cubics(n int) [][3]vector.Pt {
	e, ok := a.center()
	if n <= 0 {
		n = autoPieces(e.sweep)
	}
	out := make([][3]vector.Pt, 0, n)
	if !ok {
		// zero radius: the arc is a straight line to the end point
		d := a.End.Sub(a.Start)
		for i := 0; i < n; i++ {
			p0 := a.Start.Add(d.Mul(float64(i) / float64(n)))
			p1 := a.Start.Add(d.Mul(float64(i+1) / float64(n)))
			step := p1.Sub(p0)
			out = append(out, [3]vector.Pt{p0.Add(step.Mul(1.0 / 3)), p0.Add(step.Mul(2.0 / 3)), p1})
		}
	} else {
		// L. Maisonobe, "Drawing an elliptical arc using polylines,
		// quadratic or cubic Bezier curves", 2003.
		dEta := e.sweep / float64(n)
		tde := math.Tan(dEta / 2)
		alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3
		p0, d0 := a.Start, e.prime(e.start)
		for i := 1; i <= n; i++ {
			eta := e.start + dEta*float64(i)
			p := e.point(eta)
			if i == n {
				p = a.End
			}
			dp := e.prime(eta)
			out = append(out, [3]vector.Pt{p0.Add(d0.Mul(alpha)), p.Sub(dp.Mul(alpha)), p})
			p0, d0 = p, dp
		}
	}
	m := a.Transform
	if m == (vector.Affine2D{}) {
		m = vector.Identity
	}
	for i := range out {
		for j := range out[i] {
			out[i][j] = m.Apply(out[i][j])
		}
	}
	return out
}
