/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"svgpatch/internal/vector"
)

// diffThreshold is the per-channel distance below which pixels match.
const diffThreshold = 32

var ErrSizeMismatch = errors.New("image sizes differ")

// Reference rasterizes the SVG source directly with oksvg, placing the view
// box vb the way FitViewBox does. It is an independent rendering used to
// check converted output.
func Reference(r io.Reader, vb vector.Rect, o Options) (*image.RGBA, error) {
	o = o.normalized()
	bg, hasBG, err := o.background()
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(r, oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	if vb.W <= 0 || vb.H <= 0 {
		return nil, fmt.Errorf("reference: empty view box %v", vb)
	}
	icon.ViewBox.X, icon.ViewBox.Y, icon.ViewBox.W, icon.ViewBox.H = vb.X, vb.Y, vb.W, vb.H

	k := o.pixelScale()
	m := FitViewBox(vb, o).Then(vector.Scale(k, k))
	lo := m.Apply(vb.Min())
	hi := m.Apply(vb.Max())
	icon.SetTarget(lo.X, lo.Y, hi.X-lo.X, hi.Y-lo.Y)

	w, h := o.pixelSize()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if hasBG {
		draw.Draw(img, img.Bounds(), image.NewUniform(nrgba(bg)), image.Point{}, draw.Src)
	}
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	renderLogger("reference").Debug("reference drawn", "width", w, "height", h)
	return img, nil
}

// DiffStats summarizes a pixel comparison.
type DiffStats struct {
	Pixels    int
	Different int
	MaxDelta  uint8
}

// Ratio is the share of differing pixels.
func (d DiffStats) Ratio() float64 {
	if d.Pixels == 0 {
		return 0
	}
	return float64(d.Different) / float64(d.Pixels)
}

// Diff compares two images of the same size channel by channel. A pixel
// differs when any channel is off by diffThreshold or more.
func Diff(a, b *image.RGBA) (DiffStats, error) {
	if a.Bounds().Size() != b.Bounds().Size() {
		return DiffStats{}, fmt.Errorf("%w: %v vs %v", ErrSizeMismatch, a.Bounds().Size(), b.Bounds().Size())
	}
	var st DiffStats
	sz := a.Bounds().Size()
	for y := 0; y < sz.Y; y++ {
		ra := a.Pix[y*a.Stride : y*a.Stride+4*sz.X]
		rb := b.Pix[y*b.Stride : y*b.Stride+4*sz.X]
		for x := 0; x < len(ra); x += 4 {
			st.Pixels++
			var worst uint8
			for i := 0; i < 4; i++ {
				if d := absDiff(ra[x+i], rb[x+i]); d > worst {
					worst = d
				}
			}
			if worst > st.MaxDelta {
				st.MaxDelta = worst
			}
			if worst >= diffThreshold {
				st.Different++
			}
		}
	}
	return st, nil
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
