/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package convert

import (
	"strconv"
	"strings"

	"svgpatch/internal/svgdoc"
	"svgpatch/internal/vector"
)

// MapAttributes derives the drawing style of a node from its resolved
// presentation attributes. It reads nothing but the node.
func MapAttributes(n *svgdoc.Node) (vector.Style, error) {
	st := vector.DefaultStyle()
	attrErr := func(attr string, err error) error {
		v, _ := n.Value(attr)
		return &AttributeError{NodeID: n.ID, Attr: attr, Value: v, Err: err}
	}

	if v, ok := n.Value("fill"); ok && v != vector.None {
		st.Fill = true
	}
	fill, err := n.FillPaint()
	if err != nil {
		return vector.Style{}, attrErr("fill", err)
	}
	if fill != nil {
		st.FillColor = fill.Hexa()
	}
	stroke, err := n.StrokePaint()
	if err != nil {
		return vector.Style{}, attrErr("stroke", err)
	}
	if stroke != nil {
		st.StrokeColor = stroke.Hexa()
	}

	if v, ok := n.Value("opacity"); ok {
		op, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return vector.Style{}, attrErr("opacity", err)
		}
		st.Opacity = op
	}

	if st.LineWidth, err = n.StrokeWidth(); err != nil {
		return vector.Style{}, attrErr("stroke-width", err)
	}

	if st.Dash, err = dashPattern(n); err != nil {
		return vector.Style{}, err
	}

	if v, ok := n.Value("stroke-linejoin"); ok {
		st.Join = vector.KeywordOf(v)
	}
	if v, ok := n.Value("stroke-linecap"); ok {
		st.Cap = vector.KeywordOf(v)
	}
	return st, nil
}

func dashPattern(n *svgdoc.Node) (vector.Dash, error) {
	arr, ok := n.Value("stroke-dasharray")
	if !ok || strings.TrimSpace(arr) == vector.None {
		return vector.SolidDash, nil
	}
	off, ok := n.Value("stroke-dashoffset")
	if !ok {
		return vector.Dash{}, &AttributeError{NodeID: n.ID, Attr: "stroke-dashoffset", Err: ErrMissingAttribute}
	}
	offset, err := strconv.ParseFloat(strings.TrimSpace(off), 64)
	if err != nil {
		return vector.Dash{}, &AttributeError{NodeID: n.ID, Attr: "stroke-dashoffset", Value: off, Err: err}
	}
	fields := splitOnCommaOrSpace(arr)
	if len(fields) == 0 {
		return vector.Dash{}, &AttributeError{NodeID: n.ID, Attr: "stroke-dasharray", Value: arr, Err: strconv.ErrSyntax}
	}
	lengths := make([]float64, len(fields))
	for i, f := range fields {
		if lengths[i], err = strconv.ParseFloat(f, 64); err != nil {
			return vector.Dash{}, &AttributeError{NodeID: n.ID, Attr: "stroke-dasharray", Value: arr, Err: err}
		}
	}
	return vector.DashPattern(offset, lengths...), nil
}

func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
