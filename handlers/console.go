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
	"fmt"

	"github.com/gmofishsauce/ev3sim/blocks"
	"github.com/gmofishsauce/ev3sim/runtime"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// handleConsoleLog prints the block's literal text value to the
// simulator's console log, mirroring the source's print-to-stdout
// behavior via structured logging instead.
func handleConsoleLog(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	v, ok := b.Values["text"]
	if !ok || v.Shadow == nil {
		return errors.New("handlers: console_log missing text value")
	}
	text := v.Shadow.Fields["TEXT"]
	msg := ""
	if text != nil {
		msg = text.Value
	}
	log.Info().Str("console", msg).Msg("console_log")
	return nil
}

// handleConsoleLogValue prints "name=value" for an evaluated name/value
// pair.
func handleConsoleLogValue(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {
	nameVal, ok := b.Values["name"]
	if !ok {
		return errors.New("handlers: consoleLogValue missing name value")
	}
	valueVal, ok := b.Values["value"]
	if !ok {
		return errors.New("handlers: consoleLogValue missing value value")
	}

	name, err := EvaluateValue(rt, nameVal)
	if err != nil {
		return err
	}
	value, err := EvaluateValue(rt, valueVal)
	if err != nil {
		return err
	}

	log.Info().Str("console", fmt.Sprintf("%v=%v", name, value)).Msg("consoleLogValue")
	return nil
}

func registerConsoleHandlers(rt *runtime.Runtime) {
	rt.RegisterHandler("console_log", handleConsoleLog)
	rt.RegisterHandler("consoleLogValue", handleConsoleLogValue)
}
