/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"testing"

	"svgpatch/internal/vector"
)

func TestMarshalledShapesConformToSchema(t *testing.T) {
	st := vector.DefaultStyle()
	st.Dash = vector.DashPattern(1, 5, 2)
	st.Join = vector.KeywordOf("round")
	shapes := append(sampleShapes(),
		vector.NewEllipse("e", vector.Pt{X: 1, Y: 2}, 4, 2, 30, st),
		vector.NewPolygon("pl", []vector.Pt{{X: 0, Y: 0}, {X: 1, Y: 1}}, false, st),
		vector.NewRectangle("r", vector.Pt{X: 0, Y: 0}, 3, 4, 0, st),
	)
	data, err := vector.MarshalShapes(shapes)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := ValidatePayload(data); err != nil {
		t.Fatalf("payload does not conform to schema: %v", err)
	}
}

func TestValidatePayload_Rejects(t *testing.T) {
	cases := map[string]string{
		"version":    `{"version":2,"shapes":[]}`,
		"color":      `{"version":1,"shapes":[{"kind":"circle","center":[0,0],"style":{"fill":false,"fill_color":"red","stroke_color":"none","opacity":1,"line_width":1,"dash":{"solid":true}}}]}`,
		"code":       `{"version":1,"shapes":[{"kind":"path","codes":["ARC"],"style":{"fill":false,"fill_color":"none","stroke_color":"none","opacity":1,"line_width":1,"dash":{"solid":true}}}]}`,
		"pair":       `{"version":1,"shapes":[{"kind":"circle","center":[0],"style":{"fill":false,"fill_color":"none","stroke_color":"none","opacity":1,"line_width":1,"dash":{"solid":true}}}]}`,
		"no shapes":  `{"version":1}`,
		"not object": `[1,2]`,
	}
	for name, payload := range cases {
		if err := ValidatePayload([]byte(payload)); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("%s: want ErrInvalidPayload, got %v", name, err)
		}
	}
}
