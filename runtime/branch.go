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

import "github.com/gmofishsauce/ev3sim/blocks"

// Branch is one scheduler task: a cursor walking a chain of blocks.
// Branch identity equals its root block's id.
type Branch struct {
	Root         *blocks.Block
	Step         uint64
	CurrentBlock *blocks.Block
	ParentBranch *string // root id of the parent branch, if spawned by a call/parallel
	Lock         *Event  // nil means runnable
}

// ID returns the branch's identity: its root block's id.
func (b *Branch) ID() string {
	return b.Root.ID
}

// Locked reports whether the branch is currently suspended on an event.
func (b *Branch) Locked() bool {
	return b.Lock != nil
}
