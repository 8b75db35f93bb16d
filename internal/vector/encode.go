/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"encoding/json"
	"fmt"
)

// EncodingVersion is written into every serialized shape list.
const EncodingVersion = 1

type shapesJSON struct {
	Version int         `json:"version"`
	Shapes  []shapeJSON `json:"shapes"`
}

type shapeJSON struct {
	Kind  string    `json:"kind"`
	ID    string    `json:"id,omitempty"`
	Style styleJSON `json:"style"`

	Vertices [][2]float64 `json:"vertices,omitempty"`
	Codes    []string     `json:"codes,omitempty"`

	Center *[2]float64  `json:"center,omitempty"`
	XY     *[2]float64  `json:"xy,omitempty"`
	Radius float64      `json:"radius,omitempty"`
	Width  float64      `json:"width,omitempty"`
	Height float64      `json:"height,omitempty"`
	Angle  float64      `json:"angle,omitempty"`
	Points [][2]float64 `json:"points,omitempty"`
	Closed *bool        `json:"closed,omitempty"`
}

type styleJSON struct {
	Fill        bool     `json:"fill"`
	FillColor   string   `json:"fill_color"`
	StrokeColor string   `json:"stroke_color"`
	Opacity     float64  `json:"opacity"`
	LineWidth   float64  `json:"line_width"`
	Dash        dashJSON `json:"dash"`
	Join        *string  `json:"join,omitempty"`
	Cap         *string  `json:"cap,omitempty"`
}

type dashJSON struct {
	Solid   bool      `json:"solid,omitempty"`
	Offset  float64   `json:"offset,omitempty"`
	Lengths []float64 `json:"lengths,omitempty"`
}

func pair(p Pt) *[2]float64 { return &[2]float64{p.X, p.Y} }

func pairs(ps []Pt) [][2]float64 {
	out := make([][2]float64, len(ps))
	for i, p := range ps {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func points(ps [][2]float64) []Pt {
	out := make([]Pt, len(ps))
	for i, p := range ps {
		out[i] = Pt{p[0], p[1]}
	}
	return out
}

func keywordPtr(k Keyword) *string {
	if !k.Set {
		return nil
	}
	v := k.Value
	return &v
}

func keywordFrom(s *string) Keyword {
	if s == nil {
		return Keyword{}
	}
	return KeywordOf(*s)
}

func encodeStyle(s Style) styleJSON {
	return styleJSON{
		Fill:        s.Fill,
		FillColor:   s.FillColor,
		StrokeColor: s.StrokeColor,
		Opacity:     s.Opacity,
		LineWidth:   s.LineWidth,
		Dash:        dashJSON{Solid: s.Dash.Solid, Offset: s.Dash.Offset, Lengths: s.Dash.Lengths},
		Join:        keywordPtr(s.Join),
		Cap:         keywordPtr(s.Cap),
	}
}

func decodeStyle(s styleJSON) Style {
	return Style{
		Fill:        s.Fill,
		FillColor:   s.FillColor,
		StrokeColor: s.StrokeColor,
		Opacity:     s.Opacity,
		LineWidth:   s.LineWidth,
		Dash:        Dash{Solid: s.Dash.Solid, Offset: s.Dash.Offset, Lengths: s.Dash.Lengths},
		Join:        keywordFrom(s.Join),
		Cap:         keywordFrom(s.Cap),
	}
}

// MarshalShapes serializes shapes to the versioned JSON document used by the
// CLI output and the conversion cache.
func MarshalShapes(shapes []Shape) ([]byte, error) {
	doc := shapesJSON{Version: EncodingVersion, Shapes: make([]shapeJSON, 0, len(shapes))}
	for _, s := range shapes {
		sj := shapeJSON{Kind: s.Kind().String(), ID: s.ID(), Style: encodeStyle(s.Style())}
		switch v := s.(type) {
		case *PathPatch:
			sj.Vertices = pairs(v.path.Vertices)
			sj.Codes = make([]string, len(v.path.Codes))
			for i, c := range v.path.Codes {
				sj.Codes[i] = c.String()
			}
		case *Circle:
			sj.Center, sj.Radius = pair(v.center), v.radius
		case *Ellipse:
			sj.Center, sj.Width, sj.Height, sj.Angle = pair(v.center), v.width, v.height, v.angle
		case *Polygon:
			closed := v.closed
			sj.Points, sj.Closed = pairs(v.points), &closed
		case *Rectangle:
			sj.XY, sj.Width, sj.Height, sj.Angle = pair(v.xy), v.width, v.height, v.angle
		default:
			return nil, fmt.Errorf("marshal shapes: unsupported shape %T", s)
		}
		doc.Shapes = append(doc.Shapes, sj)
	}
	return json.Marshal(doc)
}

// UnmarshalShapes is the inverse of MarshalShapes.
func UnmarshalShapes(data []byte) ([]Shape, error) {
	var doc shapesJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal shapes: %w", err)
	}
	if doc.Version != EncodingVersion {
		return nil, fmt.Errorf("unmarshal shapes: unsupported version %d", doc.Version)
	}
	out := make([]Shape, 0, len(doc.Shapes))
	for i, sj := range doc.Shapes {
		st := decodeStyle(sj.Style)
		switch sj.Kind {
		case "path":
			var p Path
			p.Vertices = points(sj.Vertices)
			for _, name := range sj.Codes {
				c, err := ParseCode(name)
				if err != nil {
					return nil, fmt.Errorf("unmarshal shapes: shape %d: %w", i, err)
				}
				p.Codes = append(p.Codes, c)
			}
			out = append(out, NewPathPatch(sj.ID, p, st))
		case "circle":
			if sj.Center == nil {
				return nil, fmt.Errorf("unmarshal shapes: shape %d: circle without center", i)
			}
			out = append(out, NewCircle(sj.ID, Pt{sj.Center[0], sj.Center[1]}, sj.Radius, st))
		case "ellipse":
			if sj.Center == nil {
				return nil, fmt.Errorf("unmarshal shapes: shape %d: ellipse without center", i)
			}
			out = append(out, NewEllipse(sj.ID, Pt{sj.Center[0], sj.Center[1]}, sj.Width, sj.Height, sj.Angle, st))
		case "polygon":
			closed := sj.Closed != nil && *sj.Closed
			out = append(out, NewPolygon(sj.ID, points(sj.Points), closed, st))
		case "rectangle":
			if sj.XY == nil {
				return nil, fmt.Errorf("unmarshal shapes: shape %d: rectangle without xy", i)
			}
			out = append(out, NewRectangle(sj.ID, Pt{sj.XY[0], sj.XY[1]}, sj.Width, sj.Height, sj.Angle, st))
		default:
			return nil, fmt.Errorf("unmarshal shapes: shape %d: unknown kind %q", i, sj.Kind)
		}
	}
	return out, nil
}
