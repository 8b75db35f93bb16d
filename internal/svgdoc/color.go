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
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"svgpatch/internal/vector"
)

// ParseColor parses a color value: named colors, #rgb, #rgba, #rrggbb,
// #rrggbbaa, rgb(), rgba(), hsl(), hsla(), transparent and currentColor.
// currentColor resolves against current, which defaults to black. "none"
// returns nil.
func ParseColor(s, current string) (*vector.Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "none":
		return nil, nil
	case "transparent":
		c := vector.Transparent
		return &c, nil
	case "currentcolor":
		cur := strings.TrimSpace(current)
		if cur == "" || strings.EqualFold(cur, "currentcolor") {
			c := vector.Black
			return &c, nil
		}
		return ParseColor(cur, "")
	}
	if cn, ok := colornames.Map[v]; ok {
		return &vector.Color{R: cn.R, G: cn.G, B: cn.B, A: cn.A}, nil
	}
	if strings.HasPrefix(v, "#") {
		c, ok, err := vector.ParseHexa(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadColor, err)
		}
		if !ok {
			return nil, nil
		}
		return &c, nil
	}
	name, args, ok := colorFunc(v)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	switch name {
	case "rgb", "rgba":
		return parseRGB(args, s)
	case "hsl", "hsla":
		return parseHSL(args, s)
	}
	return nil, fmt.Errorf("%w: %q", ErrBadColor, s)
}

// colorFunc splits "name(a, b c / d)" into the name and its arguments.
func colorFunc(v string) (string, []string, bool) {
	open := strings.IndexByte(v, '(')
	if open <= 0 || !strings.HasSuffix(v, ")") {
		return "", nil, false
	}
	inner := v[open+1 : len(v)-1]
	args := strings.FieldsFunc(inner, func(r rune) bool {
		return r == ',' || r == '/' || r == ' ' || r == '\t' || r == '\n'
	})
	return strings.TrimSpace(v[:open]), args, true
}

func parseRGB(args []string, src string) (*vector.Color, error) {
	if len(args) != 3 && len(args) != 4 {
		return nil, fmt.Errorf("%w: %q", ErrBadColor, src)
	}
	var ch [3]uint8
	for i := range ch {
		v, err := channel(args[i], 255)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadColor, src)
		}
		ch[i] = v
	}
	a := uint8(255)
	if len(args) == 4 {
		f, err := ParseOpacity(args[3])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadColor, src)
		}
		a = unit8(f)
	}
	return &vector.Color{R: ch[0], G: ch[1], B: ch[2], A: a}, nil
}

func parseHSL(args []string, src string) (*vector.Color, error) {
	if len(args) != 3 && len(args) != 4 {
		return nil, fmt.Errorf("%w: %q", ErrBadColor, src)
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadColor, src)
	}
	sat, err1 := percent(args[1])
	lig, err2 := percent(args[2])
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadColor, src)
	}
	r, g, b := hslToRGB(math.Mod(math.Mod(h, 360)+360, 360)/360, sat, lig)
	a := uint8(255)
	if len(args) == 4 {
		f, err := ParseOpacity(args[3])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadColor, src)
		}
		a = unit8(f)
	}
	return &vector.Color{R: unit8(r), G: unit8(g), B: unit8(b), A: a}, nil
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return hue(p, q, h+1.0/3), hue(p, q, h), hue(p, q, h-1.0/3)
}

func hue(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

// channel reads an integer or percentage color channel, clamped to hi.
func channel(s string, hi float64) (uint8, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		f, err := percent(s)
		if err != nil {
			return 0, err
		}
		return unit8(f), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return uint8(math.Round(clamp(f, 0, hi))), nil
}

func percent(s string) (float64, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, err
	}
	return clamp(f/100, 0, 1), nil
}

// ParseOpacity reads a number or percentage and clamps it to [0, 1].
func ParseOpacity(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		return percent(s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return clamp(f, 0, 1), nil
}

func unit8(f float64) uint8 { return uint8(math.Round(clamp(f, 0, 1) * 255)) }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// parsePaint resolves a fill or stroke value. url() references resolve to
// their fallback color, or nil when none is given.
func parsePaint(s, current string) (*vector.Color, error) {
	v := strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(v), "url(") {
		end := strings.IndexByte(v, ')')
		if end < 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		fallback := strings.TrimSpace(v[end+1:])
		if fallback == "" {
			return nil, nil
		}
		return ParseColor(fallback, current)
	}
	return ParseColor(v, current)
}
