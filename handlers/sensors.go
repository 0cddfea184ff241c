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

// handleButtonWaitUntil locks the branch on a brick button event, naming
// the button and the event kind (pressed/released/bumped) the block
// waits for.
func handleButtonWaitUntil(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	button, err := requiredField(b, "button")
	if err != nil {
		return err
	}
	event, err := requiredField(b, "event")
	if err != nil {
		return err
	}

	ev := runtime.NewEvent("buttonEvent", map[string]interface{}{
		"button": button,
		"event":  event,
	})
	br.Lock = &ev
	return nil
}

// handleTouchWaitUntil locks the branch on a touch sensor event.
func handleTouchWaitUntil(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	sensor, err := requiredField(b, "this")
	if err != nil {
		return err
	}
	event, err := requiredField(b, "event")
	if err != nil {
		return err
	}

	ev := runtime.NewEvent("touchEvent", map[string]interface{}{
		"event":  event,
		"sensor": sensor,
	})
	br.Lock = &ev
	return nil
}

// handleUltrasonicWait locks the branch on an ultrasonic proximity event.
func handleUltrasonicWait(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	sensor, err := requiredField(b, "this")
	if err != nil {
		return err
	}
	event, err := requiredField(b, "event")
	if err != nil {
		return err
	}

	ev := runtime.NewEvent("ultrasonicOn", map[string]interface{}{
		"event":  event,
		"sensor": sensor,
	})
	br.Lock = &ev
	return nil
}

// handleColorPauseUntilColorDetected locks the branch until the named
// color sensor reports the color evaluated out of the block's "color"
// value. The registered block type carries the source's doubled
// "Detected" spelling verbatim.
func handleColorPauseUntilColorDetected(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	colorVal, ok := b.Values["color"]
	if !ok {
		return errors.New("handlers: colorpauseUntilColorDetectedDetected missing color value")
	}
	color, err := EvaluateValue(rt, colorVal)
	if err != nil {
		return err
	}
	sensor, err := requiredField(b, "this")
	if err != nil {
		return err
	}

	ev := runtime.NewEvent("colorOnColorDetected", map[string]interface{}{
		"color":  color,
		"sensor": sensor,
	})
	br.Lock = &ev
	return nil
}

// handleColorPauseUntilLightDetected locks the branch until the named
// color sensor reports a reflected/ambient light change of the requested
// mode.
func handleColorPauseUntilLightDetected(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	mode, err := requiredField(b, "mode")
	if err != nil {
		return err
	}
	sensor, err := requiredField(b, "this")
	if err != nil {
		return err
	}

	ev := runtime.NewEvent("colorOnLightDetected", map[string]interface{}{
		"mode":   mode,
		"sensor": sensor,
	})
	br.Lock = &ev
	return nil
}

func requiredField(b *blocks.Block, name string) (string, error) {
	f, ok := b.Fields[name]
	if !ok {
		return "", errors.Errorf("handlers: block %q missing field %q", b.Type, name)
	}
	return f.Value, nil
}

func registerSensorHandlers(rt *runtime.Runtime) {
	rt.RegisterHandler("buttonWaitUntil", handleButtonWaitUntil)
	rt.RegisterHandler("touchWaitUntil", handleTouchWaitUntil)
	rt.RegisterHandler("ultrasonicWait", handleUltrasonicWait)
	rt.RegisterHandler("colorpauseUntilColorDetectedDetected", handleColorPauseUntilColorDetected)
	rt.RegisterHandler("colorPauseUntilLightDetected", handleColorPauseUntilLightDetected)
}
