/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"fmt"
	"strconv"
	"strings"
)

// Styles and paint definitions.

type Color struct{ R, G, B, A uint8 }

var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Transparent = Color{0, 0, 0, 0}
)

// None is the color string for an absent paint.
const None = "none"

// Hexa formats c as #rrggbbaa.
func (c Color) Hexa() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseHexa reads #rgb, #rgba, #rrggbb or #rrggbbaa. The string "none"
// yields ok=false and no error.
func ParseHexa(s string) (c Color, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" || s == None {
		return Color{}, false, nil
	}
	if !strings.HasPrefix(s, "#") {
		return Color{}, false, fmt.Errorf("color %q: missing #", s)
	}
	h := s[1:]
	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	case 6, 8:
	default:
		return Color{}, false, fmt.Errorf("color %q: bad length", s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, false, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true, nil
}

// Keyword is an optional style keyword; Set is false when the attribute was
// absent and the backend default applies.
type Keyword struct {
	Value string
	Set   bool
}

func KeywordOf(v string) Keyword { return Keyword{Value: v, Set: true} }

func (k Keyword) String() string {
	if !k.Set {
		return "<unset>"
	}
	return k.Value
}

// Dash is either a solid line or an (offset, lengths) on/off pattern.
type Dash struct {
	Solid   bool
	Offset  float64
	Lengths []float64
}

// SolidDash is the continuous line pattern.
var SolidDash = Dash{Solid: true}

func DashPattern(offset float64, lengths ...float64) Dash {
	return Dash{Offset: offset, Lengths: lengths}
}

func (d Dash) String() string {
	if d.Solid {
		return "solid"
	}
	parts := make([]string, len(d.Lengths))
	for i, l := range d.Lengths {
		parts[i] = strconv.FormatFloat(l, 'g', -1, 64)
	}
	return fmt.Sprintf("(%s, [%s])", strconv.FormatFloat(d.Offset, 'g', -1, 64), strings.Join(parts, ", "))
}

// Style is the resolved drawing-attribute set of one shape.
type Style struct {
	Fill        bool
	FillColor   string // #rrggbbaa or "none"
	StrokeColor string // #rrggbbaa or "none"
	Opacity     float64
	LineWidth   float64
	Dash        Dash
	Join        Keyword
	Cap         Keyword
}

// DefaultStyle is what a node without presentation attributes maps to.
func DefaultStyle() Style {
	return Style{FillColor: None, StrokeColor: None, Opacity: 1, LineWidth: 1, Dash: SolidDash}
}

type LineCap uint8

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

type LineJoin uint8

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// CapStyle maps the optional keyword onto a cap; unset or unknown values
// fall back to butt.
func (s Style) CapStyle() LineCap {
	switch s.Cap.Value {
	case "round":
		return CapRound
	case "square", "projecting":
		return CapSquare
	default:
		return CapButt
	}
}

// JoinStyle maps the optional keyword onto a join; unset, unknown and the
// SVG2 arc variants fall back to miter.
func (s Style) JoinStyle() LineJoin {
	switch s.Join.Value {
	case "round":
		return JoinRound
	case "bevel":
		return JoinBevel
	default:
		return JoinMiter
	}
}

// FaceColor resolves the fill paint with opacity applied, ok=false when the
// shape is not filled.
func (s Style) FaceColor() (Color, bool) {
	if !s.Fill {
		return Color{}, false
	}
	return s.paint(s.FillColor)
}

// EdgeColor resolves the stroke paint with opacity applied.
func (s Style) EdgeColor() (Color, bool) {
	if s.LineWidth <= 0 {
		return Color{}, false
	}
	return s.paint(s.StrokeColor)
}

// paint parses a color and replaces its alpha with Opacity.
func (s Style) paint(hexa string) (Color, bool) {
	c, ok, err := ParseHexa(hexa)
	if err != nil || !ok {
		return Color{}, false
	}
	op := s.Opacity
	if op < 0 {
		op = 0
	} else if op > 1 {
		op = 1
	}
	c.A = uint8(op*255 + 0.5)
	return c, true
}
