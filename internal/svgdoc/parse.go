/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package svgdoc

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"

	"svgpatch/internal/vector"
)

// element is the raw XML tree, kept so <use> can instantiate a subtree
// again under a different parent.
type element struct {
	tag      string
	attrs    map[string]string
	children []*element
	line     int
}

// Parse reads an SVG document from r.
func Parse(r io.Reader) (*Document, error) { return parse(r, "") }

// ParseString parses an in-memory SVG document.
func ParseString(s string) (*Document, error) { return parse(strings.NewReader(s), "") }

// ParseFile reads and parses the SVG file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Source: path, Err: err}
	}
	defer f.Close()
	return parse(bufio.NewReader(f), path)
}

func parse(r io.Reader, source string) (*Document, error) {
	root, err := readElements(r)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source = source
			return nil, pe
		}
		return nil, &ParseError{Source: source, Err: err}
	}
	b := newBuilder(source, root)
	if err := b.run(); err != nil {
		return nil, err
	}
	return b.doc, nil
}

func readElements(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	var root *element
	var stack []*element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, _ := dec.InputPos()
			return nil, &ParseError{Line: line, Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			line, _ := dec.InputPos()
			el := &element{tag: t.Name.Local, attrs: make(map[string]string, len(t.Attr)), line: line}
			for _, a := range t.Attr {
				el.attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &ParseError{Line: line, Err: errors.New("more than one root element")}
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if root == nil || root.tag != "svg" {
		return nil, &ParseError{Err: ErrNoRoot}
	}
	return root, nil
}

type builder struct {
	doc    *Document
	root   *element
	raw    map[string]*element
	vp     viewport
	active map[*element]bool
	// inUse counts enclosing <use> instantiations; cloned nodes are not
	// indexed by id.
	inUse int
}

func newBuilder(source string, root *element) *builder {
	b := &builder{
		doc:    &Document{Source: source, ids: map[string]*Node{}},
		root:   root,
		raw:    map[string]*element{},
		active: map[*element]bool{},
	}
	indexRaw(root, b.raw)
	return b
}

func indexRaw(el *element, idx map[string]*element) {
	if id := el.attrs["id"]; id != "" {
		if _, dup := idx[id]; !dup {
			idx[id] = el
		}
	}
	for _, c := range el.children {
		indexRaw(c, idx)
	}
}

func (b *builder) run() error {
	if err := b.viewport(); err != nil {
		return b.errorAt(b.root, err)
	}
	root, err := b.build(b.root, nil, vector.Identity)
	if err != nil {
		return err
	}
	b.doc.Root = root
	return nil
}

func (b *builder) errorAt(el *element, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	where := "<" + el.tag
	if id := el.attrs["id"]; id != "" {
		where += fmt.Sprintf(" id=%q", id)
	}
	where += ">"
	return &ParseError{Source: b.doc.Source, Line: el.line, Err: fmt.Errorf("%s: %w", where, err)}
}

// viewport reads width, height and viewBox of the root. Lengths in the
// document are relative to the viewBox when there is one.
func (b *builder) viewport() error {
	attrs := b.root.attrs
	var vb vector.Rect
	hasVB := false
	if s, ok := attrs["viewBox"]; ok && strings.TrimSpace(s) != "" {
		nums, err := ParseNumbers(s)
		if err != nil || len(nums) != 4 {
			return fmt.Errorf("%w: viewBox %q", ErrBadLength, s)
		}
		vb = vector.R(nums[0], nums[1], nums[2], nums[3])
		hasVB = true
	}
	ref := viewport{w: 100, h: 100}
	if hasVB {
		ref = viewport{w: vb.W, h: vb.H}
	}
	w, err := ref.optLength(attrs, "width", axisX, ref.w)
	if err != nil {
		return err
	}
	h, err := ref.optLength(attrs, "height", axisY, ref.h)
	if err != nil {
		return err
	}
	if !hasVB {
		vb = vector.R(0, 0, w, h)
	}
	b.doc.Width, b.doc.Height, b.doc.ViewBox = w, h, vb
	b.vp = viewport{w: vb.W, h: vb.H}
	return nil
}

func (b *builder) build(el *element, parentVals map[string]string, parentXf vector.Affine2D) (*Node, error) {
	if b.active[el] {
		return nil, b.errorAt(el, ErrUseCycle)
	}
	b.active[el] = true
	defer delete(b.active, el)

	n := &Node{
		Kind:      KindOf(el.tag),
		Tag:       el.tag,
		ID:        el.attrs["id"],
		Values:    resolveValues(parentVals, el.attrs),
		Transform: parentXf,
		vp:        b.vp,
	}
	if el.tag == "symbol" && b.inUse > 0 {
		n.Kind = KindGroup
	}
	if n.Values["display"] == "none" {
		n.Kind = KindOther
	}
	if s, ok := el.attrs["transform"]; ok {
		m, err := ParseTransform(s)
		if err != nil {
			return nil, b.errorAt(el, err)
		}
		n.Transform = parentXf.Mul(m)
	}
	if n.ID != "" && b.inUse == 0 {
		if _, dup := b.doc.ids[n.ID]; !dup {
			b.doc.ids[n.ID] = n
		}
	}
	if err := b.geometry(n, el); err != nil {
		return nil, b.errorAt(el, err)
	}

	if el.tag == "use" {
		return n, b.use(n, el)
	}
	for _, c := range el.children {
		child, err := b.build(c, n.Values, n.Transform)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// use instantiates the referenced element as the only child of n,
// shifted by the x and y attributes.
func (b *builder) use(n *Node, el *element) error {
	x, err := b.vp.optLength(el.attrs, "x", axisX, 0)
	if err != nil {
		return b.errorAt(el, err)
	}
	y, err := b.vp.optLength(el.attrs, "y", axisY, 0)
	if err != nil {
		return b.errorAt(el, err)
	}
	n.Transform = n.Transform.Mul(vector.Translate(x, y))
	href := strings.TrimSpace(el.attrs["href"])
	target, ok := b.raw[strings.TrimPrefix(href, "#")]
	if !ok || !strings.HasPrefix(href, "#") {
		return nil
	}
	b.inUse++
	defer func() { b.inUse-- }()
	child, err := b.build(target, n.Values, n.Transform)
	if err != nil {
		return err
	}
	n.Children = append(n.Children, child)
	return nil
}

func (b *builder) geometry(n *Node, el *element) error {
	vp := b.vp
	var err error
	get := func(name string, ax axis) float64 {
		if err != nil {
			return 0
		}
		var v float64
		v, err = vp.optLength(el.attrs, name, ax, 0)
		return v
	}
	switch n.Kind {
	case KindCircle:
		n.Cx, n.Cy = get("cx", axisX), get("cy", axisY)
		n.Rx = get("r", axisOther)
		n.Ry = n.Rx
	case KindEllipse:
		n.Cx, n.Cy = get("cx", axisX), get("cy", axisY)
		n.Rx, n.Ry = get("rx", axisX), get("ry", axisY)
		// SVG 2: a missing radius takes the other one
		if _, ok := el.attrs["rx"]; !ok || el.attrs["rx"] == "auto" {
			n.Rx = n.Ry
		}
		if _, ok := el.attrs["ry"]; !ok || el.attrs["ry"] == "auto" {
			n.Ry = n.Rx
		}
	case KindRect:
		n.X, n.Y = get("x", axisX), get("y", axisY)
		n.Width, n.Height = get("width", axisX), get("height", axisY)
		n.Rx, n.Ry = get("rx", axisX), get("ry", axisY)
	case KindPolygon, KindPolyline:
		nums, perr := ParseNumbers(el.attrs["points"])
		if perr != nil {
			return fmt.Errorf("points: %w", perr)
		}
		// an odd trailing coordinate is dropped
		for i := 0; i+1 < len(nums); i += 2 {
			n.Points = append(n.Points, vector.Pt{X: nums[i], Y: nums[i+1]})
		}
	case KindPath:
		segs, perr := ParsePathData(el.attrs["d"])
		if perr != nil {
			return perr
		}
		n.Segments = transformSegments(segs, n.Transform)
	case KindGroup:
		if el.tag == "svg" && el != b.root {
			// nested viewports are placed at x, y
			x, y := get("x", axisX), get("y", axisY)
			n.Transform = n.Transform.Mul(vector.Translate(x, y))
		}
	}
	return err
}
