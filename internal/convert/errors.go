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
	"fmt"
)

// ErrNoCurrentVertex is returned for a close segment that has no vertex
// before it to repeat.
var ErrNoCurrentVertex = errors.New("close segment without a current vertex")

// ErrMissingAttribute marks a presentation attribute that a shape needs but
// the node does not carry.
var ErrMissingAttribute = errors.New("attribute missing")

// IndexError reports a path whose segments are in an impossible order.
type IndexError struct {
	Segment int
	Err     error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("segment %d: %v", e.Segment, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }

// AttributeError reports a presentation attribute that is missing or
// malformed where a value is required.
type AttributeError struct {
	NodeID string
	Attr   string
	Value  string
	Err    error
}

func (e *AttributeError) Error() string {
	id := e.NodeID
	if id == "" {
		id = "<anonymous>"
	}
	if errors.Is(e.Err, ErrMissingAttribute) {
		return fmt.Sprintf("node %s: %s: %v", id, e.Attr, e.Err)
	}
	return fmt.Sprintf("node %s: %s=%q: %v", id, e.Attr, e.Value, e.Err)
}

func (e *AttributeError) Unwrap() error { return e.Err }
