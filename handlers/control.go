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

package handlers

import (
	"github.com/gmofishsauce/ev3sim/blocks"
	"github.com/gmofishsauce/ev3sim/runtime"
)

// handleOnStartLike registers a root block's HANDLER statement as the
// event handler for an event named after the block's own type. Both
// "pxt-on-start" and "forever" use this pattern: the Simulator later
// triggers the event by that same name to spawn the chain's branch.
func handleOnStartLike(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	handler, ok := b.Statements["HANDLER"]
	if !ok || handler == nil {
		return nil
	}
	rt.RegisterEventHandler(b.Type, handler, nil)
	return nil
}

// handleControlRunInParallel spawns a new, independent branch rooted at
// the block's HANDLER statement. Unlike a function call, the caller does
// not wait on the new branch's completion.
func handleControlRunInParallel(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	handler, ok := b.Statements["HANDLER"]
	if !ok || handler == nil {
		return nil
	}
	rt.AddBranch(handler, nil)
	return nil
}

// handlePxtControlsFor is accepted but a no-op: the source's own
// implementation has no effect beyond sequencing to the next block.
func handlePxtControlsFor(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	return nil
}

func registerControlHandlers(rt *runtime.Runtime) {
	rt.RegisterHandler("pxt-on-start", handleOnStartLike)
	rt.RegisterHandler("forever", handleOnStartLike)
	rt.RegisterHandler("controlRunInParallel", handleControlRunInParallel)
	rt.RegisterHandler("pxtControlsFor", handlePxtControlsFor)
}
