/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package convert turns a parsed SVG tree into a flat list of drawable
// shapes with their resolved styles.
package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	applog "svgpatch/internal/log"
	"svgpatch/internal/svgdoc"
	"svgpatch/internal/vector"
)

// Converter holds conversion options. The zero value is ready to use and
// safe for concurrent calls.
type Converter struct {
	// ArcSegments is the number of cubic pieces per arc; 0 derives it
	// from each arc's sweep.
	ArcSegments int
	// Logger receives debug output; nil uses the package logger.
	Logger *slog.Logger
}

var defaultConverter = &Converter{}

// ConvertDocument parses the SVG file at path and converts it.
func ConvertDocument(path string, exclude ExcludeSet) ([]vector.Shape, error) {
	return defaultConverter.ConvertDocument(path, exclude)
}

// ConvertReader parses an SVG stream and converts it.
func ConvertReader(r io.Reader, exclude ExcludeSet) ([]vector.Shape, error) {
	return defaultConverter.ConvertReader(r, exclude)
}

// ConvertNode converts one node and, for groups, its non-excluded subtree.
func ConvertNode(n *svgdoc.Node, exclude ExcludeSet) ([]vector.Shape, error) {
	return defaultConverter.ConvertNode(n, exclude)
}

func (c *Converter) logger() *slog.Logger {
	l := c.Logger
	if l == nil {
		l = applog.WithComponent("convert")
	}
	return l
}

// ConvertDocument parses the file at path and converts it.
func (c *Converter) ConvertDocument(path string, exclude ExcludeSet) ([]vector.Shape, error) {
	doc, err := svgdoc.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return c.Convert(doc, exclude)
}

// ConvertReader parses an SVG document from r and converts it.
func (c *Converter) ConvertReader(r io.Reader, exclude ExcludeSet) ([]vector.Shape, error) {
	doc, err := svgdoc.Parse(r)
	if err != nil {
		return nil, err
	}
	return c.Convert(doc, exclude)
}

// Convert walks an already parsed document from its root.
func (c *Converter) Convert(doc *svgdoc.Document, exclude ExcludeSet) ([]vector.Shape, error) {
	l := applog.WithOperation(c.logger(), "document")
	ctx := applog.ContextWithDocument(context.Background(), doc.Source)
	w := walker{c: c, exclude: exclude}
	shapes, err := w.node(doc.Root)
	if err != nil {
		l.DebugContext(ctx, "conversion failed", slog.Any("err", err))
		return nil, err
	}
	l.DebugContext(ctx, "converted",
		slog.Int("shapes", len(shapes)),
		slog.Int("skipped", w.skipped),
		slog.Int("excluded", w.excluded))
	return shapes, nil
}

// ConvertNode converts the subtree rooted at n. n itself is not checked
// against exclude.
func (c *Converter) ConvertNode(n *svgdoc.Node, exclude ExcludeSet) ([]vector.Shape, error) {
	w := walker{c: c, exclude: exclude}
	return w.node(n)
}

// walker carries per-call state so a Converter stays shareable.
type walker struct {
	c        *Converter
	exclude  ExcludeSet
	skipped  int
	excluded int
}

func (w *walker) node(n *svgdoc.Node) ([]vector.Shape, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case svgdoc.KindGroup:
		return w.group(n)
	case svgdoc.KindOther:
		w.skipped++
		return nil, nil
	case svgdoc.KindPath, svgdoc.KindCircle, svgdoc.KindEllipse,
		svgdoc.KindPolygon, svgdoc.KindPolyline, svgdoc.KindRect:
		s, err := w.shape(n)
		if err != nil {
			return nil, err
		}
		return []vector.Shape{s}, nil
	}
	return nil, fmt.Errorf("node %q: unhandled kind %v", n.ID, n.Kind)
}

// group concatenates the shapes of every child whose id is not excluded.
// Excluded children are never entered, so their descendants go with them.
func (w *walker) group(n *svgdoc.Node) ([]vector.Shape, error) {
	var out []vector.Shape
	for _, child := range n.Children {
		if w.exclude.Has(child.ID) {
			w.excluded++
			continue
		}
		shapes, err := w.node(child)
		if err != nil {
			return nil, err
		}
		out = append(out, shapes...)
	}
	return out, nil
}

func (w *walker) shape(n *svgdoc.Node) (vector.Shape, error) {
	st, err := MapAttributes(n)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case svgdoc.KindPath:
		p, err := TranslateSegments(n.Segments, w.c.ArcSegments)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", n.ID, err)
		}
		return vector.NewPathPatch(n.ID, p, st), nil
	case svgdoc.KindCircle:
		return vector.NewCircle(n.ID, n.ImplicitCenter(), n.ImplicitRx(), st), nil
	case svgdoc.KindEllipse:
		return vector.NewEllipse(n.ID, n.ImplicitCenter(), 2*n.ImplicitRx(), 2*n.ImplicitRy(), n.Rotation(), st), nil
	case svgdoc.KindPolygon:
		return vector.NewPolygon(n.ID, n.ImplicitPoints(), true, st), nil
	case svgdoc.KindPolyline:
		return vector.NewPolygon(n.ID, n.ImplicitPoints(), false, st), nil
	case svgdoc.KindRect:
		xy := vector.Pt{X: n.ImplicitX(), Y: n.ImplicitY()}
		return vector.NewRectangle(n.ID, xy, n.ImplicitWidth(), n.ImplicitHeight(), n.Rotation(), st), nil
	}
	return nil, fmt.Errorf("node %q: %v is not a shape", n.ID, n.Kind)
}
