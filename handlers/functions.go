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
	"github.com/pkg/errors"
)

// handleProceduresDefNoReturn registers the block's STACK statement as a
// callable function under its NAME field. Parameter lists are parsed but
// not bound to values; the source itself never implements argument
// passing for user-defined functions.
func handleProceduresDefNoReturn(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	name, ok := b.Fields["NAME"]
	if !ok {
		return errors.New("handlers: procedures_defnoreturn missing NAME field")
	}
	stack, ok := b.Statements["STACK"]
	if !ok || stack == nil {
		return errors.New("handlers: procedures_defnoreturn missing STACK statement")
	}
	rt.RegisterFunction(name.Value, stack)
	return nil
}

// handleProceduresCallNoReturn spawns a new branch for the named
// function's body and locks the calling branch on the callee's
// completion event, so the caller resumes only once the callee finishes.
func handleProceduresCallNoReturn(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	name, ok := b.Fields["NAME"]
	if !ok {
		return errors.New("handlers: procedures_callnoreturn missing NAME field")
	}
	callee, err := rt.CallFunction(name.Value)
	if err != nil {
		return err
	}
	ev := runtime.CompletedBranchEvent(callee.ID())
	br.Lock = &ev
	return nil
}

func registerFunctionHandlers(rt *runtime.Runtime) {
	rt.RegisterHandler("procedures_defnoreturn", handleProceduresDefNoReturn)
	rt.RegisterHandler("procedures_callnoreturn", handleProceduresCallNoReturn)
}
