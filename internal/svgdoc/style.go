/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package svgdoc

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/parser"

	"svgpatch/internal/vector"
)

// Presentation properties read from attributes and the style attribute.
// The value says whether descendants inherit it.
var presentation = map[string]bool{
	"fill":              true,
	"fill-opacity":      true,
	"fill-rule":         true,
	"stroke":            true,
	"stroke-opacity":    true,
	"stroke-width":      true,
	"stroke-dasharray":  true,
	"stroke-dashoffset": true,
	"stroke-linejoin":   true,
	"stroke-linecap":    true,
	"stroke-miterlimit": true,
	"color":             true,
	"visibility":        true,
	"opacity":           false,
	"display":           false,
}

// IsInherited reports whether a presentation property flows to children.
func IsInherited(name string) bool { return presentation[name] }

type decl struct{ name, value string }

// styleDecls splits an inline style attribute into declarations.
func styleDecls(style string) []decl {
	style = strings.TrimSpace(style)
	if style == "" {
		return nil
	}
	// the CSS parser wants a terminating semicolon
	if !strings.HasSuffix(style, ";") {
		style += ";"
	}
	parsed, err := parser.ParseDeclarations(style)
	if err != nil {
		return splitDecls(style)
	}
	out := make([]decl, 0, len(parsed))
	for _, d := range parsed {
		out = append(out, decl{strings.ToLower(strings.TrimSpace(d.Property)), strings.TrimSpace(d.Value)})
	}
	return out
}

// splitDecls is the lenient fallback for styles the CSS parser rejects.
func splitDecls(style string) []decl {
	var out []decl
	for _, pair := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		out = append(out, decl{strings.ToLower(strings.TrimSpace(k)), strings.TrimSpace(v)})
	}
	return out
}

// resolveValues merges inherited values, presentation attributes and the
// inline style, in increasing priority.
func resolveValues(parent, attrs map[string]string) map[string]string {
	vals := make(map[string]string, len(parent)+4)
	for k, v := range parent {
		if presentation[k] {
			vals[k] = v
		}
	}
	own := map[string]string{}
	for k, v := range attrs {
		if _, ok := presentation[k]; ok {
			own[k] = strings.TrimSpace(v)
		}
	}
	for _, d := range styleDecls(attrs["style"]) {
		if _, ok := presentation[d.name]; ok {
			own[d.name] = d.value
		}
	}
	for k, v := range own {
		if v == "inherit" {
			if pv, ok := parent[k]; ok {
				vals[k] = pv
			} else {
				delete(vals, k)
			}
			continue
		}
		vals[k] = v
	}
	return vals
}

// FillPaint resolves the fill color with fill-opacity folded into alpha.
// It is nil when fill is absent, "none", or an unresolved paint server.
func (n *Node) FillPaint() (*vector.Color, error) {
	return n.paint("fill", "fill-opacity")
}

// StrokePaint is FillPaint for the stroke.
func (n *Node) StrokePaint() (*vector.Color, error) {
	return n.paint("stroke", "stroke-opacity")
}

func (n *Node) paint(prop, opacityProp string) (*vector.Color, error) {
	v, ok := n.Values[prop]
	if !ok {
		return nil, nil
	}
	c, err := parsePaint(v, n.Values["color"])
	if err != nil || c == nil {
		return nil, err
	}
	if ov, ok := n.Values[opacityProp]; ok {
		op, err := ParseOpacity(ov)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", opacityProp, ov, err)
		}
		c.A = unit8(float64(c.A) / 255 * op)
	}
	return c, nil
}

// StrokeWidth resolves stroke-width to user units; absent means 1.
func (n *Node) StrokeWidth() (float64, error) {
	v, ok := n.Values["stroke-width"]
	if !ok {
		return 1, nil
	}
	w, err := n.vp.length(v, axisOther)
	if err != nil {
		return 0, err
	}
	if w < 0 {
		return 0, fmt.Errorf("%w: negative stroke-width %q", ErrBadLength, v)
	}
	return w, nil
}
