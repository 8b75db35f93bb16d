/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package svgdoc

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSVG = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"
     width="200" height="100" viewBox="0 0 200 100">
  <g id="body" fill="red" opacity="0.5" transform="translate(10,20) scale(2)">
    <circle id="head" cx="5" cy="5" r="3"/>
    <rect id="box" x="1" y="2" width="4" height="6" style="fill: blue; stroke-width: 2"/>
    <text id="label">hi</text>
  </g>
  <path id="p" d="M0 0 L10 0" stroke="black" fill="inherit"/>
  <polygon id="tri" points="0,0 10,0 5,8 3"/>
</svg>`

func TestParseTreeShape(t *testing.T) {
	doc, err := ParseString(sampleSVG)
	require.NoError(t, err)
	require.NotNil(t, doc.Root)
	assert.Equal(t, KindGroup, doc.Root.Kind)
	assert.Equal(t, 200.0, doc.Width)
	assert.Equal(t, 100.0, doc.Height)
	assert.Equal(t, 200.0, doc.ViewBox.W)

	var ids []string
	doc.Walk(func(n *Node, _ int) bool {
		if n.ID != "" {
			ids = append(ids, n.ID)
		}
		return true
	})
	assert.Equal(t, []string{"body", "head", "box", "label", "p", "tri"}, ids)

	label, ok := doc.ByID("label")
	require.True(t, ok)
	assert.Equal(t, KindOther, label.Kind)

	tri, _ := doc.ByID("tri")
	assert.Equal(t, KindPolygon, tri.Kind)
	assert.Len(t, tri.Points, 3)
}

func TestParseInheritance(t *testing.T) {
	doc, err := ParseString(sampleSVG)
	require.NoError(t, err)

	head, _ := doc.ByID("head")
	assert.Equal(t, "red", head.Values["fill"])
	_, hasOpacity := head.Value("opacity")
	assert.False(t, hasOpacity, "opacity does not inherit")

	box, _ := doc.ByID("box")
	assert.Equal(t, "blue", box.Values["fill"], "style wins over inherited value")
	w, err := box.StrokeWidth()
	require.NoError(t, err)
	assert.Equal(t, 2.0, w)

	p, _ := doc.ByID("p")
	_, hasFill := p.Value("fill")
	assert.False(t, hasFill, "inherit with no parent value")
}

func TestImplicitGeometry(t *testing.T) {
	doc, err := ParseString(sampleSVG)
	require.NoError(t, err)

	head, _ := doc.ByID("head")
	assert.Equal(t, pt(20, 30), head.ImplicitCenter())
	assert.Equal(t, 6.0, head.ImplicitRx())
	assert.Equal(t, 6.0, head.ImplicitRy())
	assert.Equal(t, 0.0, head.Rotation())

	box, _ := doc.ByID("box")
	assert.Equal(t, 12.0, box.ImplicitX())
	assert.Equal(t, 24.0, box.ImplicitY())
	assert.Equal(t, 8.0, box.ImplicitWidth())
	assert.Equal(t, 12.0, box.ImplicitHeight())
}

func TestRotationFromTransform(t *testing.T) {
	doc, err := ParseString(`<svg><rect id="r" width="4" height="2" transform="rotate(90)"/>
		<ellipse id="e" rx="3" ry="1" transform="rotate(30) scale(2)"/></svg>`)
	require.NoError(t, err)
	r, _ := doc.ByID("r")
	assert.InDelta(t, 90, r.Rotation(), 1e-9)
	assert.InDelta(t, 4, r.ImplicitWidth(), 1e-9)

	e, _ := doc.ByID("e")
	assert.InDelta(t, 30, e.Rotation(), 1e-9)
	assert.InDelta(t, 6, e.ImplicitRx(), 1e-9)
	assert.InDelta(t, 2, e.ImplicitRy(), 1e-9)
}

func TestEllipseMissingRadius(t *testing.T) {
	doc, err := ParseString(`<svg><ellipse id="e" rx="4"/></svg>`)
	require.NoError(t, err)
	e, _ := doc.ByID("e")
	assert.Equal(t, 4.0, e.Ry)
}

func TestPathSegmentsInDocumentSpace(t *testing.T) {
	doc, err := ParseString(`<svg><g transform="translate(5,5)"><path id="p" d="M0 0 L10 0"/></g></svg>`)
	require.NoError(t, err)
	p, _ := doc.ByID("p")
	require.Len(t, p.Segments, 2)
	assert.Equal(t, pt(5, 5), p.Segments[0].End)
	assert.Equal(t, pt(15, 5), p.Segments[1].End)
}

func TestUseExpansion(t *testing.T) {
	doc, err := ParseString(`<svg xmlns:xlink="http://www.w3.org/1999/xlink">
		<defs><circle id="c" r="2" fill="green"/></defs>
		<use id="u" xlink:href="#c" x="10" y="5" stroke="black"/>
		<use id="dangling" href="#missing"/>
	</svg>`)
	require.NoError(t, err)

	u, ok := doc.ByID("u")
	require.True(t, ok)
	assert.Equal(t, KindGroup, u.Kind)
	require.Len(t, u.Children, 1)
	clone := u.Children[0]
	assert.Equal(t, KindCircle, clone.Kind)
	assert.Equal(t, pt(10, 5), clone.ImplicitCenter())
	assert.Equal(t, "black", clone.Values["stroke"])

	orig, _ := doc.ByID("c")
	assert.Equal(t, pt(0, 0), orig.ImplicitCenter())

	dangling, _ := doc.ByID("dangling")
	assert.Empty(t, dangling.Children)
}

func TestUseSymbolBecomesGroup(t *testing.T) {
	doc, err := ParseString(`<svg><symbol id="s"><rect width="1" height="1"/></symbol><use id="u" href="#s"/></svg>`)
	require.NoError(t, err)
	s, _ := doc.ByID("s")
	assert.Equal(t, KindOther, s.Kind)
	u, _ := doc.ByID("u")
	require.Len(t, u.Children, 1)
	assert.Equal(t, KindGroup, u.Children[0].Kind)
}

func TestUseCycle(t *testing.T) {
	_, err := ParseString(`<svg><g id="a"><use href="#a"/></g></svg>`)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.ErrorIs(t, err, ErrUseCycle)
}

func TestDisplayNoneIsOther(t *testing.T) {
	doc, err := ParseString(`<svg><g id="g" style="display:none"><circle r="1"/></g></svg>`)
	require.NoError(t, err)
	g, _ := doc.ByID("g")
	assert.Equal(t, KindOther, g.Kind)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"not xml":     "just some text",
		"wrong root":  "<html><body/></html>",
		"bad path":    `<svg><path d="M0 0 L"/></svg>`,
		"bad length":  `<svg><circle r="3furlongs"/></svg>`,
		"bad points":  `<svg><polygon points="0,0 x"/></svg>`,
		"bad viewBox": `<svg viewBox="0 0 10"/>`,
		"bad xform":   `<svg><g transform="wobble(2)"/></svg>`,
		"two roots":   `<svg/><svg/>`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := ParseString(src)
			assert.Nil(t, doc)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.NotEmpty(t, pe.Error())
		})
	}
}

func TestParseErrorNamesElement(t *testing.T) {
	_, err := ParseString(`<svg><path id="broken" d="Q"/></svg>`)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), `id="broken"`), err.Error())
	assert.ErrorIs(t, err, ErrBadPathData)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.svg")
	require.NoError(t, os.WriteFile(path, []byte(sampleSVG), 0o644))
	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.svg"))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestParseLatin1(t *testing.T) {
	src := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><svg><g id=\"caf\xe9\"/></svg>"
	doc, err := ParseString(src)
	require.NoError(t, err)
	_, ok := doc.ByID("café")
	assert.True(t, ok)
}

func TestWalkSkipsChildren(t *testing.T) {
	doc, err := ParseString(sampleSVG)
	require.NoError(t, err)
	n := 0
	doc.Walk(func(node *Node, depth int) bool {
		n++
		return node.ID != "body"
	})
	// root, body, p, tri
	assert.Equal(t, 4, n)
}

func TestPercentLengthsUseViewBox(t *testing.T) {
	doc, err := ParseString(`<svg viewBox="0 0 200 50"><rect id="r" width="50%" height="50%"/></svg>`)
	require.NoError(t, err)
	r, _ := doc.ByID("r")
	assert.Equal(t, 100.0, r.Width)
	assert.Equal(t, 25.0, r.Height)
}
