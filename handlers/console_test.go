// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// Unit tests for the console logging handlers.

package handlers

import (
	"testing"

	"github.com/gmofishsauce/ev3sim/blocks"
	"github.com/stretchr/testify/require"
)

func TestConsoleLogAcceptsLiteralText(t *testing.T) {
	rt, _ := newTestRuntime()
	b := &blocks.Block{
		Type: "console_log",
		Values: map[string]*blocks.Value{
			"text": {
				Shadow: &blocks.Shadow{
					Type:   "text",
					Fields: map[string]*blocks.Field{"TEXT": {Value: "hello"}},
				},
			},
		},
	}
	require.NoError(t, handleConsoleLog(rt, b, nil))
}

func TestConsoleLogValueEvaluatesBothOperands(t *testing.T) {
	rt, _ := newTestRuntime()
	rt.SetVariable("x", 5)
	b := &blocks.Block{
		Type: "consoleLogValue",
		Values: map[string]*blocks.Value{
			"name": {
				Shadow: &blocks.Shadow{Type: "text", Fields: map[string]*blocks.Field{"TEXT": {Value: "x"}}},
			},
			"value": {
				Shadow: &blocks.Shadow{Type: "variablesGet", Fields: map[string]*blocks.Field{"VAR": {ID: "x"}}},
			},
		},
	}
	require.NoError(t, handleConsoleLogValue(rt, b, nil))
}
