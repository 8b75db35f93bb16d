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
	"fmt"
)

// ParseError reports a source that could not be read as an SVG document.
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	src := e.Source
	if src == "" {
		src = "<input>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("svg parse %s:%d: %v", src, e.Line, e.Err)
	}
	return fmt.Sprintf("svg parse %s: %v", src, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	ErrNoRoot       = errors.New("no <svg> root element")
	ErrBadPathData  = errors.New("malformed path data")
	ErrBadTransform = errors.New("malformed transform")
	ErrBadLength    = errors.New("malformed length")
	ErrBadColor     = errors.New("malformed color")
	ErrUseCycle     = errors.New("<use> reference cycle")
)
