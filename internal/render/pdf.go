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
	"io"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"svgpatch/internal/vector"
)

// PDF draws the collection on a single vector page.
func PDF(c *vector.Collection, w io.Writer, o Options) error {
	pdf, err := buildPDF(c, o)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// PDFFile writes the PDF to path, creating parent directories.
func PDFFile(c *vector.Collection, path string, o Options) error {
	pdf, err := buildPDF(c, o)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func buildPDF(c *vector.Collection, o Options) (*gofpdf.Fpdf, error) {
	o = o.normalized()
	bg, hasBG, err := o.background()
	if err != nil {
		return nil, err
	}
	l := renderLogger("pdf")

	// points give a 1:1 mapping from the surface transform
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: o.PageWidth, Ht: o.PageHeight},
	})
	pdf.SetCreator("svgpatch", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	if hasBG {
		pdf.SetAlpha(float64(bg.A)/255, "Normal")
		setFillColor(pdf, bg)
		pdf.Rect(0, 0, o.PageWidth, o.PageHeight, "F")
	}

	m := SurfaceTransform(c, o)
	drawn := 0
	for _, s := range c.Shapes() {
		p, ok := prepare(s, m, 1, l)
		if !ok {
			continue
		}
		drawPDFShape(pdf, p)
		drawn++
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	l.Debug("page drawn", "shapes", drawn)
	return pdf, nil
}

func drawPDFShape(pdf *gofpdf.Fpdf, p paint) {
	alpha := float64(p.face.A) / 255
	if !p.doFill {
		alpha = float64(p.edge.A) / 255
	}
	pdf.SetAlpha(alpha, "Normal")

	style := "D"
	switch {
	case p.doFill && p.doStroke:
		style = "FD"
	case p.doFill:
		style = "F"
	}
	if p.doFill {
		setFillColor(pdf, p.face)
	}
	if p.doStroke {
		setDrawColor(pdf, p.edge)
		pdf.SetLineWidth(p.width)
		pdf.SetLineCapStyle(capName(p.cap))
		pdf.SetLineJoinStyle(joinName(p.join))
		pdf.SetDashPattern(p.dash, p.dashOffset)
	}
	replay(pdfSink{pdf}, p.cmds)
	pdf.DrawPath(style)
}

type pdfSink struct{ pdf *gofpdf.Fpdf }

func (s pdfSink) moveTo(p vector.Pt)    { s.pdf.MoveTo(p.X, p.Y) }
func (s pdfSink) lineTo(p vector.Pt)    { s.pdf.LineTo(p.X, p.Y) }
func (s pdfSink) quadTo(c, p vector.Pt) { s.pdf.CurveTo(c.X, c.Y, p.X, p.Y) }
func (s pdfSink) closePath()            { s.pdf.ClosePath() }
func (s pdfSink) cubicTo(c1, c2, p vector.Pt) {
	s.pdf.CurveBezierCubicTo(c1.X, c1.Y, c2.X, c2.Y, p.X, p.Y)
}

func setDrawColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func capName(c vector.LineCap) string {
	switch c {
	case vector.CapRound:
		return "round"
	case vector.CapSquare:
		return "square"
	}
	return "butt"
}

func joinName(j vector.LineJoin) string {
	switch j {
	case vector.JoinRound:
		return "round"
	case vector.JoinBevel:
		return "bevel"
	}
	return "miter"
}
