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
)

// Pixels per unit at 96 dpi.
var unitScale = map[string]float64{
	"":   1,
	"px": 1,
	"pt": 96.0 / 72.0,
	"pc": 16,
	"mm": 96.0 / 25.4,
	"cm": 96.0 / 2.54,
	"in": 96,
}

const defaultFontSize = 16

type axis uint8

const (
	axisX axis = iota
	axisY
	axisOther
)

// viewport supplies the reference sizes for relative units.
type viewport struct {
	w, h float64
}

func (vp viewport) ref(ax axis) float64 {
	switch ax {
	case axisX:
		return vp.w
	case axisY:
		return vp.h
	default:
		return math.Sqrt((vp.w*vp.w + vp.h*vp.h) / 2)
	}
}

func (vp viewport) length(s string, ax axis) (float64, error) {
	return ParseLength(s, vp.ref(ax))
}

// ParseLength resolves an SVG length to user units. Percentages are taken
// of ref.
func ParseLength(s string, ref float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrBadLength)
	}
	num, unit := splitUnit(s)
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadLength, s)
	}
	switch unit {
	case "%":
		return v * ref / 100, nil
	case "em":
		return v * defaultFontSize, nil
	case "ex":
		return v * defaultFontSize / 2, nil
	}
	k, ok := unitScale[strings.ToLower(unit)]
	if !ok {
		return 0, fmt.Errorf("%w: unit %q", ErrBadLength, unit)
	}
	return v * k, nil
}

func splitUnit(s string) (num, unit string) {
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if c == '%' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			i--
			continue
		}
		break
	}
	return s[:i], s[i:]
}

// optLength parses an optional geometry attribute; absent or "auto" values
// give def.
func (vp viewport) optLength(attrs map[string]string, name string, ax axis, def float64) (float64, error) {
	s, ok := attrs[name]
	if !ok {
		return def, nil
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "auto" {
		return def, nil
	}
	return vp.length(s, ax)
}
