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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svgpatch/internal/vector"
)

func pt(x, y float64) vector.Pt { return vector.Pt{X: x, Y: y} }

func kinds(segs []Segment) []SegmentKind {
	out := make([]SegmentKind, len(segs))
	for i, s := range segs {
		out[i] = s.Kind
	}
	return out
}

func TestParsePathDataAbsoluteAndRelative(t *testing.T) {
	segs, err := ParsePathData("M10 10 l5 0 v5 H10 z")
	require.NoError(t, err)
	require.Equal(t, []SegmentKind{SegMove, SegLine, SegLine, SegLine, SegClose}, kinds(segs))
	assert.Equal(t, pt(15, 10), segs[1].End)
	assert.Equal(t, pt(15, 15), segs[2].End)
	assert.Equal(t, pt(10, 15), segs[3].End)
	assert.Equal(t, pt(10, 15), segs[4].Start)
	assert.Equal(t, pt(10, 10), segs[4].End)
}

func TestParsePathDataImplicitLineto(t *testing.T) {
	segs, err := ParsePathData("m1 1 2 0 0 2")
	require.NoError(t, err)
	require.Equal(t, []SegmentKind{SegMove, SegLine, SegLine}, kinds(segs))
	assert.Equal(t, pt(3, 1), segs[1].End)
	assert.Equal(t, pt(3, 3), segs[2].End)
}

func TestParsePathDataCompactNumbers(t *testing.T) {
	segs, err := ParsePathData("M0,0L10-5.5.5.5l1e1-1E0")
	require.NoError(t, err)
	require.Len(t, segs, 4)
	assert.Equal(t, pt(10, -5.5), segs[1].End)
	assert.Equal(t, pt(0.5, 0.5), segs[2].End)
	assert.Equal(t, pt(10.5, -0.5), segs[3].End)
}

func TestParsePathDataSmoothCurvesReflect(t *testing.T) {
	segs, err := ParsePathData("M0 0 C0 10 10 10 10 0 S20 -10 20 0 Q25 5 30 0 T40 0")
	require.NoError(t, err)
	require.Equal(t, []SegmentKind{SegMove, SegCubic, SegCubic, SegQuad, SegQuad}, kinds(segs))
	require.NotNil(t, segs[2].Control1)
	assert.Equal(t, pt(10, -10), *segs[2].Control1)
	assert.Equal(t, pt(20, -10), *segs[2].Control2)
	require.NotNil(t, segs[4].Control)
	assert.Equal(t, pt(35, -5), *segs[4].Control)
}

func TestParsePathDataSmoothWithoutPredecessor(t *testing.T) {
	segs, err := ParsePathData("M5 5 S10 10 20 5")
	require.NoError(t, err)
	assert.Equal(t, pt(5, 5), *segs[1].Control1)
}

func TestParsePathDataArcFlags(t *testing.T) {
	segs, err := ParsePathData("M0 0a5 5 0 1010 0")
	require.NoError(t, err)
	require.Len(t, segs, 2)
	arc := segs[1]
	require.Equal(t, SegArc, arc.Kind)
	require.NotNil(t, arc.Arc)
	assert.True(t, arc.Arc.LargeArc)
	assert.False(t, arc.Arc.Sweep)
	assert.Equal(t, pt(10, 0), arc.End)
}

func TestParsePathDataDegenerateArcs(t *testing.T) {
	segs, err := ParsePathData("M0 0 A0 5 0 0 1 10 0 A5 5 0 0 1 10 0")
	require.NoError(t, err)
	// zero radius draws a line; an arc onto its start point draws nothing
	assert.Equal(t, []SegmentKind{SegMove, SegLine}, kinds(segs))
}

func TestParsePathDataErrors(t *testing.T) {
	for _, d := range []string{"L10 10", "M0 0 L10", "M0 0 X5", "M0 0 A5 5 0 2 0 1 1", "M0 0 Z 5"} {
		_, err := ParsePathData(d)
		assert.ErrorIs(t, err, ErrBadPathData, d)
	}
	segs, err := ParsePathData("")
	require.NoError(t, err)
	assert.Empty(t, segs)
}

func TestArcCubicsSemicircle(t *testing.T) {
	segs, err := ParsePathData("M0 0 A5 5 0 0 1 10 0")
	require.NoError(t, err)
	arc := segs[1]

	auto := arc.ArcCubics(0)
	assert.Len(t, auto, 6)
	assert.InDelta(t, math.Pi, arc.Arc.SweepAngle(), 1e-9)

	two := arc.ArcCubics(2)
	require.Len(t, two, 2)
	assert.InDelta(t, 5, two[0][2].X, 1e-9)
	assert.InDelta(t, -5, two[0][2].Y, 1e-9)
	assert.Equal(t, pt(10, 0), two[1][2])

	for _, n := range []int{1, 3, 7} {
		assert.Len(t, arc.ArcCubics(n), n)
	}
}

func TestArcCubicsFollowTransform(t *testing.T) {
	segs, err := ParsePathData("M0 0 A5 5 0 0 1 10 0")
	require.NoError(t, err)
	moved := transformSegments(segs, vector.Translate(100, 0))
	c := moved[1].ArcCubics(2)
	assert.InDelta(t, 105, c[0][2].X, 1e-9)
	assert.InDelta(t, 110, c[1][2].X, 1e-9)
	assert.Equal(t, pt(100, 0), moved[1].Start)
}

func TestArcCubicsZeroRadiusIsStraight(t *testing.T) {
	a := &ArcParams{Start: pt(0, 0), End: pt(9, 0), Rx: 0, Ry: 3}
	c := a.Cubics(3)
	require.Len(t, c, 3)
	assert.Equal(t, pt(3, 0), c[0][2])
	assert.InDelta(t, 1, c[0][0].X, 1e-9)
	assert.Equal(t, pt(9, 0), c[2][2])
}

func TestArcRadiiScaledUp(t *testing.T) {
	// radius 1 cannot span 10 units; it grows to 5
	segs, err := ParsePathData("M0 0 A1 1 0 0 1 10 0")
	require.NoError(t, err)
	c := segs[1].ArcCubics(2)
	assert.InDelta(t, -5, c[0][2].Y, 1e-9)
}

func TestNonArcCubicsNil(t *testing.T) {
	assert.Nil(t, Segment{Kind: SegLine}.ArcCubics(4))
}

func TestParseTransform(t *testing.T) {
	m, err := ParseTransform("translate(10) scale(2)")
	require.NoError(t, err)
	assert.Equal(t, pt(12, 2), m.Apply(pt(1, 1)))

	m, err = ParseTransform("rotate(90, 5, 5)")
	require.NoError(t, err)
	p := m.Apply(pt(10, 5))
	assert.InDelta(t, 5, p.X, 1e-9)
	assert.InDelta(t, 10, p.Y, 1e-9)

	m, err = ParseTransform("matrix(1 0 0 1 3 4)")
	require.NoError(t, err)
	assert.Equal(t, vector.Translate(3, 4), m)

	m, err = ParseTransform("skewX(45)")
	require.NoError(t, err)
	assert.InDelta(t, 1, m.Apply(pt(0, 1)).X, 1e-9)

	for _, bad := range []string{"translate(1 2 3)", "spin(4)", "scale(", "rotate 4"} {
		_, err := ParseTransform(bad)
		assert.True(t, errors.Is(err, ErrBadTransform), bad)
	}
}

func TestParseNumbers(t *testing.T) {
	nums, err := ParseNumbers("5, 2 1.5,-3")
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 2, 1.5, -3}, nums)
	_, err = ParseNumbers("5, x")
	assert.Error(t, err)
}
