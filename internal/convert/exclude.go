/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package convert

import "strings"

// ExcludeSet holds node identifiers to leave out together with their
// subtrees. A nil set excludes nothing.
type ExcludeSet map[string]struct{}

// NewExcludeSet builds a set from ids; blank ids are ignored so anonymous
// nodes are never excluded by accident.
func NewExcludeSet(ids ...string) ExcludeSet {
	s := make(ExcludeSet, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// Has reports whether id is excluded.
func (s ExcludeSet) Has(id string) bool {
	if id == "" {
		return false
	}
	_, ok := s[id]
	return ok
}
