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
	"github.com/gmofishsauce/ev3sim/brick"
	"github.com/gmofishsauce/ev3sim/runtime"
)

// Brick fetches the Brick instance from the runtime's globals map, by the
// "brick" convention every Simulator establishes at construction time.
// Panics if no brick has been registered: that is a wiring bug, not a
// recoverable runtime condition.
func Brick(rt *runtime.Runtime) *brick.Brick {
	b, ok := rt.Globals["brick"].(*brick.Brick)
	if !ok || b == nil {
		panic("handlers: runtime.Globals[\"brick\"] is not populated")
	}
	return b
}

// Register installs every handler this package implements into rt. It is
// a builder-style registration step, called once per Simulator rather
// than relying on a process-wide global table.
func Register(rt *runtime.Runtime) {
	registerVariableHandlers(rt)
	registerMotorHandlers(rt)
	registerSensorHandlers(rt)
	registerTimingHandlers(rt)
	registerControlHandlers(rt)
	registerFunctionHandlers(rt)
	registerConsoleHandlers(rt)
	registerScreenHandlers(rt)
	registerStatusLightHandlers(rt)
}
