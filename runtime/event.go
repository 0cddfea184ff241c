// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.

package runtime

import (
	"fmt"
	"sort"
	"strings"
)

// Event is a (name, parameters) pair. Two events are equal iff their names
// and parameter maps are equal; equality (and the canonical key used to
// index the event table) is independent of parameter insertion order.
type Event struct {
	Name       string
	Parameters map[string]interface{}
}

// NewEvent builds an Event, defaulting Parameters to an empty (non-nil) map.
func NewEvent(name string, parameters map[string]interface{}) Event {
	if parameters == nil {
		parameters = map[string]interface{}{}
	}
	return Event{Name: name, Parameters: parameters}
}

// Equal reports whether e and other carry the same name and the same
// parameter mapping, key-for-key and value-for-value.
func (e Event) Equal(other Event) bool {
	if e.Name != other.Name {
		return false
	}
	if len(e.Parameters) != len(other.Parameters) {
		return false
	}
	for k, v := range e.Parameters {
		ov, ok := other.Parameters[k]
		if !ok || fmt.Sprintf("%v", v) != fmt.Sprintf("%v", ov) {
			return false
		}
	}
	return true
}

// key returns a canonical string representation suitable for use as a map
// key: the name followed by its parameters sorted by key name, so
// insertion order never affects equality-by-key.
func (e Event) key() string {
	keys := make([]string, 0, len(e.Parameters))
	for k := range e.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(e.Name)
	for _, k := range keys {
		fmt.Fprintf(&b, "\x1f%s=%v", k, e.Parameters[k])
	}
	return b.String()
}

// CompletedBranchEvent is the synthetic event fired exactly once when the
// branch identified by id finishes.
func CompletedBranchEvent(branchID string) Event {
	return NewEvent(fmt.Sprintf("completed_branch_%s", branchID), nil)
}
