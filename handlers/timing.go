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
	"time"

	"github.com/gmofishsauce/ev3sim/blocks"
	"github.com/gmofishsauce/ev3sim/runtime"
	"github.com/pkg/errors"
)

// handleDevicePause locks the branch for the requested number of
// milliseconds, resolved against the runtime's wall clock rather than the
// placeholder "interrupt" event the source leaves as a TODO.
func handleDevicePause(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	v, ok := b.Values["pause"]
	if !ok {
		return errors.New("handlers: device_pause missing pause value")
	}
	ms, err := EvaluateValue(rt, v)
	if err != nil {
		return err
	}
	d, err := durationFromValue(ms, time.Millisecond)
	if err != nil {
		return err
	}
	rt.SchedulePause(br, d)
	return nil
}

// handleControlWaitUs is device_pause's microsecond-granularity sibling.
func handleControlWaitUs(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	v, ok := b.Values["micros"]
	if !ok {
		return errors.New("handlers: controlWaitUs missing micros value")
	}
	us, err := EvaluateValue(rt, v)
	if err != nil {
		return err
	}
	d, err := durationFromValue(us, time.Microsecond)
	if err != nil {
		return err
	}
	rt.SchedulePause(br, d)
	return nil
}

func durationFromValue(v interface{}, unit time.Duration) (time.Duration, error) {
	n, ok := v.(int)
	if !ok {
		return 0, errors.Errorf("handlers: expected integer duration, got %T", v)
	}
	return time.Duration(n) * unit, nil
}

func registerTimingHandlers(rt *runtime.Runtime) {
	rt.RegisterHandler("device_pause", handleDevicePause)
	rt.RegisterHandler("controlWaitUs", handleControlWaitUs)
}
