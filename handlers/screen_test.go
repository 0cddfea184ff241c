// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// Unit tests for the supplemented screen handlers.

package handlers

import (
	"testing"

	"github.com/gmofishsauce/ev3sim/blocks"
	"github.com/stretchr/testify/require"
)

func TestDeviceClearScreenBlanksBuffer(t *testing.T) {
	rt, bk := newTestRuntime()
	bk.SetPixel(3, 3, true)

	require.NoError(t, handleDeviceClearScreen(rt, &blocks.Block{Type: "deviceClearScreen"}, nil))
	require.False(t, bk.Screen[3][3])
}

func TestDeviceScreenShowSetsPixelFromEvaluatedValue(t *testing.T) {
	rt, bk := newTestRuntime()
	b := &blocks.Block{
		Type:   "deviceScreenShow",
		Fields: map[string]*blocks.Field{"x": {Value: "10"}, "y": {Value: "20"}},
		Values: map[string]*blocks.Value{"value": speedValue("1")},
	}

	require.NoError(t, handleDeviceScreenShow(rt, b, nil))
	require.True(t, bk.Screen[20][10])
}
