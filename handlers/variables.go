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

// handleVariablesSet writes the evaluated VALUE into the runtime's
// variable table, keyed by the VAR field's id (not its display name).
func handleVariablesSet(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	variable, ok := b.Fields["VAR"]
	if !ok {
		return errors.New("handlers: variablesSet missing VAR field")
	}
	v, ok := b.Values["VALUE"]
	if !ok {
		return errors.New("handlers: variablesSet missing VALUE value")
	}
	value, err := EvaluateValue(rt, v)
	if err != nil {
		return err
	}
	rt.SetVariable(variable.ID, value)
	return nil
}

func registerVariableHandlers(rt *runtime.Runtime) {
	rt.RegisterHandler("variablesSet", handleVariablesSet)
}
