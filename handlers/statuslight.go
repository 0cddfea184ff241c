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
	"github.com/gmofishsauce/ev3sim/brick"
	"github.com/gmofishsauce/ev3sim/runtime"
	"github.com/pkg/errors"
)

var statusLightPatterns = map[string]brick.StatusLightPattern{
	"off":         brick.StatusLightOff,
	"green":       brick.StatusLightGreen,
	"red":         brick.StatusLightRed,
	"orange":      brick.StatusLightOrange,
	"greenFlash":  brick.StatusLightGreenFlash,
	"redFlash":    brick.StatusLightRedFlash,
	"orangeFlash": brick.StatusLightOrangeFlash,
	"greenPulse":  brick.StatusLightGreenPulse,
	"redPulse":    brick.StatusLightRedPulse,
	"orangePulse": brick.StatusLightOrangePulse,
}

// handleLedSetPattern sets the brick's status light to the named pattern.
func handleLedSetPattern(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	f, ok := b.Fields["pattern"]
	if !ok {
		return errors.New("handlers: ledSetPattern missing pattern field")
	}
	pattern, ok := statusLightPatterns[f.Value]
	if !ok {
		return errors.Errorf("handlers: unknown status light pattern %q", f.Value)
	}
	Brick(rt).Status = pattern
	return nil
}

// handleLedSetColor is a convenience alias some MakeCode programs use
// instead of ledSetPattern; it accepts the plain color names only (no
// flash/pulse variants).
func handleLedSetColor(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	f, ok := b.Fields["color"]
	if !ok {
		return errors.New("handlers: ledSetColor missing color field")
	}
	pattern, ok := statusLightPatterns[f.Value]
	if !ok {
		return errors.Errorf("handlers: unknown status light color %q", f.Value)
	}
	switch pattern {
	case brick.StatusLightOff, brick.StatusLightGreen, brick.StatusLightRed, brick.StatusLightOrange:
	default:
		return errors.Errorf("handlers: ledSetColor accepts plain colors only, got %q", f.Value)
	}
	Brick(rt).Status = pattern
	return nil
}

func registerStatusLightHandlers(rt *runtime.Runtime) {
	rt.RegisterHandler("ledSetPattern", handleLedSetPattern)
	rt.RegisterHandler("ledSetColor", handleLedSetColor)
}
