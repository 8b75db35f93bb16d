/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"svgpatch/internal/vector"
)

// miterLimit is the SVG default stroke-miterlimit.
const miterLimit = 4

// Raster draws the collection into a new image sized from the page and DPI.
func Raster(c *vector.Collection, o Options) (*image.RGBA, error) {
	o = o.normalized()
	bg, hasBG, err := o.background()
	if err != nil {
		return nil, err
	}
	l := renderLogger("png")

	w, h := o.pixelSize()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if hasBG {
		draw.Draw(img, img.Bounds(), image.NewUniform(nrgba(bg)), image.Point{}, draw.Src)
	}

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	r := rasterx.NewDasher(w, h, scanner)

	k := o.pixelScale()
	m := SurfaceTransform(c, o).Then(vector.Scale(k, k))
	drawn := 0
	for _, s := range c.Shapes() {
		p, ok := prepare(s, m, k, l)
		if !ok {
			continue
		}
		rasterShape(r, p)
		drawn++
	}
	l.Debug("raster drawn", "shapes", drawn, "width", w, "height", h)
	return img, nil
}

// PNG encodes the raster of c to w.
func PNG(c *vector.Collection, w io.Writer, o Options) error {
	img, err := Raster(c, o)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PNGFile writes the PNG to path, creating parent directories.
func PNGFile(c *vector.Collection, path string, o Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := PNG(c, f, o); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func rasterShape(r *rasterx.Dasher, p paint) {
	if p.doFill {
		r.Clear()
		rf := &r.Filler
		rf.SetWinding(true)
		fs := &rasterSink{a: rf}
		replay(fs, p.cmds)
		fs.flush()
		rf.SetColor(nrgba(p.face))
		rf.Draw()
	}
	if p.doStroke && p.width > 0 {
		r.Clear()
		capFn := rasterx.ButtCap
		gap := rasterx.FlatGap
		switch p.cap {
		case vector.CapRound:
			capFn = rasterx.RoundCap
			gap = rasterx.RoundGap
		case vector.CapSquare:
			capFn = rasterx.SquareCap
		}
		r.SetStroke(fixed.Int26_6(p.width*64), fixed.Int26_6(miterLimit*64),
			capFn, nil, gap, joinMode(p.join), p.dash, p.dashOffset)
		ss := &rasterSink{a: r}
		replay(ss, p.cmds)
		ss.flush()
		r.SetColor(nrgba(p.edge))
		r.Draw()
	}
}

func joinMode(j vector.LineJoin) rasterx.JoinMode {
	switch j {
	case vector.JoinRound:
		return rasterx.Round
	case vector.JoinBevel:
		return rasterx.Bevel
	}
	return rasterx.Miter
}

func nrgba(c vector.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// rasterSink adapts replayed commands to a rasterx adder, bracketing every
// subpath with Start and Stop. Call flush after the last command.
type rasterSink struct {
	a     rasterx.Adder
	start vector.Pt
	open  bool
	// closed is set after closePath until the next command, which then
	// resumes from the subpath start.
	closed bool
}

func (s *rasterSink) moveTo(p vector.Pt) {
	s.flush()
	s.a.Start(fixedPt(p))
	s.start, s.open, s.closed = p, true, false
}

func (s *rasterSink) resume() {
	if s.closed {
		s.a.Start(fixedPt(s.start))
		s.open, s.closed = true, false
	}
}

func (s *rasterSink) lineTo(p vector.Pt) {
	s.resume()
	s.a.Line(fixedPt(p))
}

func (s *rasterSink) quadTo(c, p vector.Pt) {
	s.resume()
	s.a.QuadBezier(fixedPt(c), fixedPt(p))
}

func (s *rasterSink) cubicTo(c1, c2, p vector.Pt) {
	s.resume()
	s.a.CubeBezier(fixedPt(c1), fixedPt(c2), fixedPt(p))
}

func (s *rasterSink) closePath() {
	if s.open {
		s.a.Stop(true)
		s.open, s.closed = false, true
	}
}

func (s *rasterSink) flush() {
	if s.open {
		s.a.Stop(false)
		s.open = false
	}
	s.closed = false
}

func fixedPt(p vector.Pt) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(p.X * 64), Y: fixed.Int26_6(p.Y * 64)}
}
