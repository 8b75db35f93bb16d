/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

func TestDefaultStyle(t *testing.T) {
	s := DefaultStyle()
	if s.Fill || s.FillColor != "none" || s.StrokeColor != "none" || s.Opacity != 1 || !s.Dash.Solid {
		t.Fatalf("unexpected default style: %+v", s)
	}
	if s.Join.Set || s.Cap.Set {
		t.Fatalf("join/cap must be unset by default")
	}
	if s.Dash.String() != "solid" {
		t.Fatalf("dash string = %q", s.Dash.String())
	}
}

func TestParseHexa(t *testing.T) {
	cases := map[string]Color{
		"#ff000080": {255, 0, 0, 128},
		"#00ff00":   {0, 255, 0, 255},
		"#00f":      {0, 0, 255, 255},
		"#0008":     {0, 0, 0, 136},
	}
	for in, want := range cases {
		got, ok, err := ParseHexa(in)
		if err != nil || !ok || got != want {
			t.Fatalf("ParseHexa(%q) = %+v, %v, %v", in, got, ok, err)
		}
		if again, _, _ := ParseHexa(got.Hexa()); again != got {
			t.Fatalf("Hexa round trip for %q: %s", in, got.Hexa())
		}
	}
	if _, ok, err := ParseHexa("none"); ok || err != nil {
		t.Fatalf("none should be absent without error")
	}
	for _, bad := range []string{"red", "#12345", "#zzzzzz"} {
		if _, _, err := ParseHexa(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestFaceAndEdgeColorApplyOpacity(t *testing.T) {
	s := DefaultStyle()
	s.FillColor = "#ff0000ff"
	if _, ok := s.FaceColor(); ok {
		t.Fatalf("unfilled style must not report a face color")
	}
	s.Fill = true
	s.Opacity = 0.5
	c, ok := s.FaceColor()
	if !ok || c.R != 255 || c.A != 128 {
		t.Fatalf("face color = %+v, %v", c, ok)
	}
	if _, ok := s.EdgeColor(); ok {
		t.Fatalf("stroke none must not report an edge color")
	}
	s.StrokeColor = "#000000ff"
	s.LineWidth = 0
	if _, ok := s.EdgeColor(); ok {
		t.Fatalf("zero line width must not report an edge color")
	}
}

func TestCapAndJoinMapping(t *testing.T) {
	s := DefaultStyle()
	if s.CapStyle() != CapButt || s.JoinStyle() != JoinMiter {
		t.Fatalf("unset keywords should map to backend defaults")
	}
	s.Cap = KeywordOf("round")
	s.Join = KeywordOf("bevel")
	if s.CapStyle() != CapRound || s.JoinStyle() != JoinBevel {
		t.Fatalf("unexpected mapping: %v %v", s.CapStyle(), s.JoinStyle())
	}
}

func TestDashString(t *testing.T) {
	if got := DashPattern(1, 5, 2).String(); got != "(1, [5, 2])" {
		t.Fatalf("dash string = %q", got)
	}
}
