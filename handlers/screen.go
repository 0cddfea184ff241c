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
	"strconv"

	"github.com/gmofishsauce/ev3sim/blocks"
	"github.com/gmofishsauce/ev3sim/runtime"
	"github.com/pkg/errors"
)

// handleDeviceClearScreen blanks the screen buffer, matching
// Brick.clear_screen's whole-screen mode.
func handleDeviceClearScreen(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	Brick(rt).ClearScreen()
	return nil
}

// handleDeviceScreenShow evaluates the block's "value" expression and
// sets the single pixel named by the "x"/"y" fields, the minimal screen
// write operation the brick model supports.
func handleDeviceScreenShow(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	v, ok := b.Values["value"]
	if !ok {
		return errors.New("handlers: deviceScreenShow missing value")
	}
	result, err := EvaluateValue(rt, v)
	if err != nil {
		return err
	}

	x, err := fieldIntLiteral(b, "x")
	if err != nil {
		return err
	}
	y, err := fieldIntLiteral(b, "y")
	if err != nil {
		return err
	}

	on := result != nil && result != 0 && result != ""
	Brick(rt).SetPixel(x, y, on)
	return nil
}

func fieldIntLiteral(b *blocks.Block, name string) (int, error) {
	f, ok := b.Fields[name]
	if !ok {
		return 0, errors.Errorf("handlers: block %q missing field %q", b.Type, name)
	}
	n, err := strconv.Atoi(f.Value)
	if err != nil {
		return 0, errors.Wrapf(err, "handlers: field %q=%q is not an integer", name, f.Value)
	}
	return n, nil
}

func registerScreenHandlers(rt *runtime.Runtime) {
	rt.RegisterHandler("deviceClearScreen", handleDeviceClearScreen)
	rt.RegisterHandler("deviceScreenShow", handleDeviceScreenShow)
}
