/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package svgdoc parses SVG documents into a read-only node tree with
// resolved presentation attributes, accumulated transforms and absolute
// path segments.
package svgdoc

import (
	"svgpatch/internal/vector"
)

// Kind is the closed set of node kinds the converter dispatches on.
type Kind uint8

const (
	KindOther Kind = iota
	KindGroup
	KindPath
	KindCircle
	KindEllipse
	KindPolygon
	KindPolyline
	KindRect
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindPath:
		return "path"
	case KindCircle:
		return "circle"
	case KindEllipse:
		return "ellipse"
	case KindPolygon:
		return "polygon"
	case KindPolyline:
		return "polyline"
	case KindRect:
		return "rect"
	default:
		return "other"
	}
}

var kindByTag = map[string]Kind{
	"svg":      KindGroup,
	"g":        KindGroup,
	"a":        KindGroup,
	"use":      KindGroup,
	"path":     KindPath,
	"circle":   KindCircle,
	"ellipse":  KindEllipse,
	"polygon":  KindPolygon,
	"polyline": KindPolyline,
	"rect":     KindRect,
}

// KindOf maps an element's local name to its node kind.
func KindOf(tag string) Kind {
	if k, ok := kindByTag[tag]; ok {
		return k
	}
	return KindOther
}

// Node is one element of a parsed document. Geometry fields hold the raw
// local values of the element; the Implicit accessors map them through
// Transform into document space.
type Node struct {
	Kind     Kind
	Tag      string
	ID       string
	Values   map[string]string
	Children []*Node

	// Transform is the accumulated transform of the element and all of
	// its ancestors.
	Transform vector.Affine2D

	Cx, Cy, Rx, Ry      float64
	X, Y, Width, Height float64
	Points              []vector.Pt
	Segments            []Segment

	vp viewport
}

// Value looks up a resolved presentation attribute.
func (n *Node) Value(name string) (string, bool) {
	v, ok := n.Values[name]
	return v, ok
}

func (n *Node) ImplicitCenter() vector.Pt {
	return n.Transform.Apply(vector.Pt{X: n.Cx, Y: n.Cy})
}

func (n *Node) ImplicitRx() float64 {
	return n.Transform.ApplyVector(vector.Pt{X: n.Rx}).Len()
}

func (n *Node) ImplicitRy() float64 {
	return n.Transform.ApplyVector(vector.Pt{Y: n.Ry}).Len()
}

// ImplicitX and ImplicitY give the transformed rectangle origin.
func (n *Node) ImplicitX() float64 {
	return n.Transform.Apply(vector.Pt{X: n.X, Y: n.Y}).X
}

func (n *Node) ImplicitY() float64 {
	return n.Transform.Apply(vector.Pt{X: n.X, Y: n.Y}).Y
}

func (n *Node) ImplicitWidth() float64 {
	return n.Transform.ApplyVector(vector.Pt{X: n.Width}).Len()
}

func (n *Node) ImplicitHeight() float64 {
	return n.Transform.ApplyVector(vector.Pt{Y: n.Height}).Len()
}

// Rotation is the angle in degrees of the transformed x axis.
func (n *Node) Rotation() float64 { return n.Transform.RotationDegrees() }

// ImplicitPoints returns the polygon or polyline points in document space.
func (n *Node) ImplicitPoints() []vector.Pt {
	out := make([]vector.Pt, len(n.Points))
	for i, p := range n.Points {
		out[i] = n.Transform.Apply(p)
	}
	return out
}

// Document is a parsed SVG source.
type Document struct {
	Source  string
	Root    *Node
	Width   float64
	Height  float64
	ViewBox vector.Rect

	ids map[string]*Node
}

// ByID returns the first node carrying id in document order.
func (d *Document) ByID(id string) (*Node, bool) {
	n, ok := d.ids[id]
	return n, ok
}

// Walk visits every node depth-first, parents before children. Returning
// false from fn skips the node's children.
func (d *Document) Walk(fn func(n *Node, depth int) bool) {
	if d == nil || d.Root == nil {
		return
	}
	walk(d.Root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}
