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

// Package handlers implements the per-block-type effect functions that
// mutate the brick model, register event handlers, set branch locks,
// spawn branches, or define/call functions.
package handlers

import (
	"strconv"

	"github.com/gmofishsauce/ev3sim/blocks"
	"github.com/gmofishsauce/ev3sim/runtime"
	"github.com/pkg/errors"
)

var ErrUnknownValueType = errors.New("handlers: unknown value (shadow) type")

// EvaluateValue dispatches on the nested shadow's declared type and
// returns its scalar Go value. rt is consulted only for the
// "variablesGet" shadow (the variable-read counterpart to variablesSet).
func EvaluateValue(rt *runtime.Runtime, v *blocks.Value) (interface{}, error) {
	if v == nil || v.Shadow == nil {
		return nil, errors.Wrap(ErrUnknownValueType, "nil value or shadow")
	}

	shadow := v.Shadow
	switch shadow.Type {
	case "math_number", "motorSpeedPicker", "timePicker":
		return fieldInt(shadow, fieldNameFor(shadow.Type))

	case "text", "colorEnumPicker", "screen_image_picker":
		return fieldRaw(shadow, fieldNameFor(shadow.Type)), nil

	case "math_number_minmax":
		return fieldInt(shadow, "SLIDER")

	case "variablesGet":
		f, ok := shadow.Fields["VAR"]
		if !ok {
			return nil, errors.New("handlers: variables_get shadow missing VAR field")
		}
		return rt.Variables[f.ID], nil

	default:
		return nil, errors.Wrapf(ErrUnknownValueType, "%q", shadow.Type)
	}
}

// fieldNameFor returns the conventional single-field name MakeCode uses
// for each scalar shadow type.
func fieldNameFor(shadowType string) string {
	switch shadowType {
	case "math_number":
		return "NUM"
	case "motorSpeedPicker":
		return "speed"
	case "timePicker":
		return "timePicker"
	case "text":
		return "TEXT"
	case "colorEnumPicker":
		return "color"
	case "screen_image_picker":
		return "screen_image_picker"
	default:
		return ""
	}
}

func fieldRaw(shadow *blocks.Shadow, name string) string {
	f, ok := shadow.Fields[name]
	if !ok {
		return ""
	}
	return f.Value
}

func fieldInt(shadow *blocks.Shadow, name string) (int, error) {
	f, ok := shadow.Fields[name]
	if !ok {
		return 0, errors.Errorf("handlers: shadow %q missing field %q", shadow.Type, name)
	}
	n, err := strconv.Atoi(f.Value)
	if err != nil {
		return 0, errors.Wrapf(err, "handlers: parsing integer field %q=%q", name, f.Value)
	}
	return n, nil
}
