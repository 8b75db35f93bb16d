/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package convert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svgpatch/internal/svgdoc"
	"svgpatch/internal/vector"
)

func node(id string, values map[string]string) *svgdoc.Node {
	return &svgdoc.Node{Kind: svgdoc.KindRect, ID: id, Values: values}
}

func TestMapAttributesDash(t *testing.T) {
	cases := []struct {
		name   string
		values map[string]string
		want   vector.Dash
	}{
		{"absent", map[string]string{}, vector.SolidDash},
		{"none", map[string]string{"stroke-dasharray": "none", "stroke-dashoffset": "garbage"}, vector.SolidDash},
		{"comma space", map[string]string{"stroke-dasharray": "5, 2", "stroke-dashoffset": "1"}, vector.DashPattern(1, 5, 2)},
		{"commas", map[string]string{"stroke-dasharray": "5,2,1", "stroke-dashoffset": "0"}, vector.DashPattern(0, 5, 2, 1)},
		{"spaces", map[string]string{"stroke-dasharray": "4 4", "stroke-dashoffset": "-2.5"}, vector.DashPattern(-2.5, 4, 4)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			st, err := MapAttributes(node("n", c.values))
			require.NoError(t, err)
			assert.Equal(t, c.want, st.Dash)
		})
	}
}

func TestMapAttributesDashString(t *testing.T) {
	st, err := MapAttributes(node("n", map[string]string{"stroke-dasharray": "5, 2", "stroke-dashoffset": "1"}))
	require.NoError(t, err)
	assert.Equal(t, "(1, [5, 2])", st.Dash.String())
}

func TestMapAttributesErrors(t *testing.T) {
	cases := []struct {
		name   string
		values map[string]string
		attr   string
	}{
		{"missing offset", map[string]string{"stroke-dasharray": "5 2"}, "stroke-dashoffset"},
		{"bad offset", map[string]string{"stroke-dasharray": "5 2", "stroke-dashoffset": "x"}, "stroke-dashoffset"},
		{"bad dash entry", map[string]string{"stroke-dasharray": "5 two", "stroke-dashoffset": "0"}, "stroke-dasharray"},
		{"empty dash", map[string]string{"stroke-dasharray": " , ", "stroke-dashoffset": "0"}, "stroke-dasharray"},
		{"bad opacity", map[string]string{"opacity": "half"}, "opacity"},
		{"bad fill", map[string]string{"fill": "#zzzzzz"}, "fill"},
		{"bad stroke width", map[string]string{"stroke-width": "wide"}, "stroke-width"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := MapAttributes(node("n7", c.values))
			var ae *AttributeError
			require.True(t, errors.As(err, &ae), "got %v", err)
			assert.Equal(t, c.attr, ae.Attr)
			assert.Equal(t, "n7", ae.NodeID)
			assert.Contains(t, ae.Error(), c.attr)
		})
	}
	_, err := MapAttributes(node("", map[string]string{"stroke-dasharray": "1"}))
	assert.ErrorIs(t, err, ErrMissingAttribute)
}

func TestMapAttributesColorsAndFlags(t *testing.T) {
	st, err := MapAttributes(node("n", map[string]string{
		"fill":            "url(#gradient)",
		"stroke":          "rgb(0, 0, 255)",
		"stroke-opacity":  "0.5",
		"opacity":         "0.25",
		"stroke-linejoin": "round",
		"stroke-linecap":  "square",
	}))
	require.NoError(t, err)
	assert.True(t, st.Fill, "a paint server still counts as filled")
	assert.Equal(t, "none", st.FillColor)
	assert.Equal(t, "#0000ff80", st.StrokeColor)
	assert.Equal(t, 0.25, st.Opacity)
	assert.Equal(t, vector.KeywordOf("round"), st.Join)
	assert.Equal(t, vector.KeywordOf("square"), st.Cap)
}

func TestMapAttributesFillNone(t *testing.T) {
	st, err := MapAttributes(node("n", map[string]string{"fill": "none", "stroke": "red"}))
	require.NoError(t, err)
	assert.False(t, st.Fill)
	assert.Equal(t, "none", st.FillColor)
	assert.Equal(t, "#ff0000ff", st.StrokeColor)
}

func TestMapAttributesIsPure(t *testing.T) {
	values := map[string]string{"fill": "red", "stroke-dasharray": "3 1", "stroke-dashoffset": "0"}
	n := node("n", values)
	a, err := MapAttributes(n)
	require.NoError(t, err)
	b, err := MapAttributes(n)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, values, 3)
}

func TestExcludeSet(t *testing.T) {
	var none ExcludeSet
	assert.False(t, none.Has("x"))
	s := NewExcludeSet("a", " b ", "")
	assert.True(t, s.Has("a"))
	assert.True(t, s.Has("b"))
	assert.False(t, s.Has(""))
	assert.Len(t, s, 2)
}
