/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render draws a shape collection onto a page, as PDF through gofpdf
// or as PNG through rasterx.
package render

import (
	"fmt"
	"log/slog"
	"math"

	applog "svgpatch/internal/log"
	"svgpatch/internal/vector"
)

// Options controls the target surface. Lengths are points (1/72 in).
// The page origin is top-left with y growing downwards, as in SVG. The
// collection transform is applied first; Fit then scales the result
// uniformly into the page minus Margin and centres it.
type Options struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
	// DPI sets the PNG pixel size; PDF output ignores it.
	DPI        int
	Background string // #rrggbb[aa] or "none"
	Fit        bool
}

// DefaultOptions is an A4 portrait page at 150 DPI, fitted, on white.
func DefaultOptions() Options {
	return Options{
		PageWidth:  595.28,
		PageHeight: 841.89,
		Margin:     36,
		DPI:        150,
		Background: "#ffffff",
		Fit:        true,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.PageWidth <= 0 {
		o.PageWidth = d.PageWidth
	}
	if o.PageHeight <= 0 {
		o.PageHeight = d.PageHeight
	}
	if o.Margin < 0 || 2*o.Margin >= math.Min(o.PageWidth, o.PageHeight) {
		o.Margin = 0
	}
	if o.DPI <= 0 {
		o.DPI = d.DPI
	}
	if o.Background == "" {
		o.Background = d.Background
	}
	return o
}

// pixelScale converts points to pixels.
func (o Options) pixelScale() float64 { return float64(o.DPI) / 72 }

func (o Options) pixelSize() (int, int) {
	k := o.pixelScale()
	return int(math.Round(o.PageWidth * k)), int(math.Round(o.PageHeight * k))
}

func (o Options) background() (vector.Color, bool, error) {
	c, ok, err := vector.ParseHexa(o.Background)
	if err != nil {
		return vector.Color{}, false, fmt.Errorf("background: %w", err)
	}
	return c, ok, nil
}

// SurfaceTransform maps document space onto the page in points.
func SurfaceTransform(c *vector.Collection, o Options) vector.Affine2D {
	o = o.normalized()
	m := c.Transform()
	if !o.Fit {
		return m
	}
	return m.Then(fitRect(c.Bounds(), o))
}

// FitViewBox maps a document view box onto the page the way Fit maps
// shape bounds.
func FitViewBox(vb vector.Rect, o Options) vector.Affine2D {
	return fitRect(vb, o.normalized())
}

func fitRect(b vector.Rect, o Options) vector.Affine2D {
	availW := o.PageWidth - 2*o.Margin
	availH := o.PageHeight - 2*o.Margin
	var s float64
	switch {
	case b.W > 0 && b.H > 0:
		s = math.Min(availW/b.W, availH/b.H)
	case b.W > 0:
		s = availW / b.W
	case b.H > 0:
		s = availH / b.H
	default:
		s = 1
	}
	tx := o.Margin + (availW-b.W*s)/2 - b.X*s
	ty := o.Margin + (availH-b.H*s)/2 - b.Y*s
	return vector.Scale(s, s).Then(vector.Translate(tx, ty))
}

// sink receives replayed path commands.
type sink interface {
	moveTo(p vector.Pt)
	lineTo(p vector.Pt)
	quadTo(c, p vector.Pt)
	cubicTo(c1, c2, p vector.Pt)
	closePath()
}

// replay feeds commands to s. A drawing command without a current point
// starts a subpath at its end point.
func replay(s sink, cmds []vector.PathCmd) {
	open := false
	for _, c := range cmds {
		switch c.Op {
		case vector.OpMove:
			s.moveTo(c.Pts[0])
			open = true
		case vector.OpLine:
			if !open {
				s.moveTo(c.Pts[0])
				open = true
				continue
			}
			s.lineTo(c.Pts[0])
		case vector.OpQuad:
			if !open {
				s.moveTo(c.Pts[1])
				open = true
				continue
			}
			s.quadTo(c.Pts[0], c.Pts[1])
		case vector.OpCubic:
			if !open {
				s.moveTo(c.Pts[2])
				open = true
				continue
			}
			s.cubicTo(c.Pts[0], c.Pts[1], c.Pts[2])
		case vector.OpClose:
			if open {
				s.closePath()
			}
		}
	}
}

// paint is the resolved drawing state of one shape on a surface.
type paint struct {
	face, edge       vector.Color
	doFill, doStroke bool
	width            float64
	dash             []float64
	dashOffset       float64
	cap              vector.LineCap
	join             vector.LineJoin
	cmds             []vector.PathCmd
}

// prepare resolves a shape against the surface transform; width scales
// line widths and dash lengths from points to surface units. ok is false
// when nothing would be drawn.
func prepare(s vector.Shape, m vector.Affine2D, width float64, l *slog.Logger) (paint, bool) {
	st := s.Style()
	p := paint{cap: st.CapStyle(), join: st.JoinStyle()}
	p.face, p.doFill = st.FaceColor()
	p.edge, p.doStroke = st.EdgeColor()
	if !p.doFill && !p.doStroke {
		return p, false
	}
	cmds, err := s.Outline().Transform(m).Commands()
	if err != nil {
		l.Warn("skipping shape", slog.String("id", s.ID()), slog.Any("err", err))
		return p, false
	}
	p.cmds = cmds
	p.width = st.LineWidth * width
	if !st.Dash.Solid {
		var total float64
		for _, d := range st.Dash.Lengths {
			p.dash = append(p.dash, math.Abs(d)*p.width)
			total += math.Abs(d)
		}
		if total == 0 {
			p.dash = nil
		} else {
			p.dashOffset = st.Dash.Offset * p.width
		}
	}
	return p, true
}

func renderLogger(op string) *slog.Logger {
	return applog.WithOperation(applog.WithComponent("render"), op)
}
