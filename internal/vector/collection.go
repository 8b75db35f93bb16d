/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Collection groups shapes so they can be drawn and transformed as one unit.
// Each shape keeps its own style; the collection only contributes a transform
// from document space onto whatever surface it is attached to.
type Collection struct {
	shapes []Shape
	xf     Affine2D
}

func NewCollection(shapes ...Shape) *Collection {
	c := &Collection{xf: Identity}
	c.shapes = append(c.shapes, shapes...)
	return c
}

func (c *Collection) Add(shapes ...Shape) { c.shapes = append(c.shapes, shapes...) }

// Shapes returns the shapes in insertion order.
func (c *Collection) Shapes() []Shape { return append([]Shape(nil), c.shapes...) }

func (c *Collection) Len() int { return len(c.shapes) }

func (c *Collection) Transform() Affine2D     { return c.xf }
func (c *Collection) SetTransform(m Affine2D) { c.xf = m }

// Translate composes a translation after the current transform.
func (c *Collection) Translate(tx, ty float64) *Collection {
	c.xf = c.xf.Then(Translate(tx, ty))
	return c
}

// Scale composes a scale after the current transform.
func (c *Collection) Scale(sx, sy float64) *Collection {
	c.xf = c.xf.Then(Scale(sx, sy))
	return c
}

// Bounds is the union of the transformed shape outlines.
func (c *Collection) Bounds() Rect {
	var b bounds
	for _, s := range c.shapes {
		for _, v := range s.Outline().Transform(c.xf).Vertices {
			b.add(v)
		}
	}
	return b.rect()
}

// Find returns the shapes converted from the element with the given id.
func (c *Collection) Find(id string) []Shape {
	var out []Shape
	for _, s := range c.shapes {
		if s.ID() == id {
			out = append(out, s)
		}
	}
	return out
}
