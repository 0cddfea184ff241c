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

// motorLabelField reads the motor-label field under either of its two
// observed names ("motor" or "motors" depending on block type).
func motorLabelField(b *blocks.Block) (string, error) {
	if f, ok := b.Fields["motor"]; ok {
		return f.Value, nil
	}
	if f, ok := b.Fields["motors"]; ok {
		return f.Value, nil
	}
	return "", errors.New("handlers: block has no motor/motors field")
}

func eachTargetMotor(rt *runtime.Runtime, b *blocks.Block, fn func(m *brick.Motor) error) error {
	label, err := motorLabelField(b)
	if err != nil {
		return err
	}
	targets, err := ParseMotorLabel(label)
	if err != nil {
		return err
	}

	bk := Brick(rt)
	for _, t := range targets {
		m, err := bk.Motor(t.Port, t.Type)
		if err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}

func handleMotorRun(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	speedVal, ok := b.Values["speed"]
	if !ok {
		return errors.New("handlers: motorRun missing speed value")
	}
	speed, err := EvaluateValue(rt, speedVal)
	if err != nil {
		return err
	}
	speedInt, _ := speed.(int)

	return eachTargetMotor(rt, b, func(m *brick.Motor) error {
		m.Speed = speedInt
		return nil
	})
}

func handleMotorStop(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	return eachTargetMotor(rt, b, func(m *brick.Motor) error {
		m.Speed = 0
		return nil
	})
}

func handleMotorReset(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	return eachTargetMotor(rt, b, func(m *brick.Motor) error {
		m.Angle = 0
		m.Count = 0
		return nil
	})
}

func handleMotorClearCount(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	return eachTargetMotor(rt, b, func(m *brick.Motor) error {
		m.Count = 0
		return nil
	})
}

func handleMotorStopAll(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	bk := Brick(rt)
	for _, m := range bk.Motors {
		if m != nil {
			m.Speed = 0
		}
	}
	return nil
}

func handleMotorResetAll(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	bk := Brick(rt)
	for _, m := range bk.Motors {
		if m != nil {
			m.Angle = 0
			m.Count = 0
		}
	}
	return nil
}

func handleOutputMotorSetBrakeMode(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	val, ok := b.Values["brake"]
	if !ok || val.Shadow == nil {
		return errors.New("handlers: outputMotorSetBrakeMode missing brake value")
	}
	mode := brick.BrakeModeCoast
	if f, ok := val.Shadow.Fields["on"]; ok && f.Value == "true" {
		mode = brick.BrakeModeBrake
	}

	return eachTargetMotor(rt, b, func(m *brick.Motor) error {
		m.BrakeMode = mode
		return nil
	})
}

func registerMotorHandlers(rt *runtime.Runtime) {
	rt.RegisterHandler("motorRun", handleMotorRun)
	rt.RegisterHandler("motorStop", handleMotorStop)
	rt.RegisterHandler("motorReset", handleMotorReset)
	rt.RegisterHandler("motorClearCount", handleMotorClearCount)
	rt.RegisterHandler("motorStopAll", handleMotorStopAll)
	rt.RegisterHandler("motorResetAll", handleMotorResetAll)
	rt.RegisterHandler("outputMotorSetBrakeMode", handleOutputMotorSetBrakeMode)
}
