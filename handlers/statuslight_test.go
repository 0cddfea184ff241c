// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// Unit tests for the supplemented status light handlers.

package handlers

import (
	"testing"

	"github.com/gmofishsauce/ev3sim/blocks"
	"github.com/gmofishsauce/ev3sim/brick"
	"github.com/stretchr/testify/require"
)

func TestLedSetPatternAcceptsFlashVariant(t *testing.T) {
	rt, bk := newTestRuntime()
	b := &blocks.Block{Type: "ledSetPattern", Fields: map[string]*blocks.Field{"pattern": {Value: "greenFlash"}}}

	require.NoError(t, handleLedSetPattern(rt, b, nil))
	require.Equal(t, brick.StatusLightGreenFlash, bk.Status)
}

func TestLedSetColorRejectsUnknownColor(t *testing.T) {
	rt, _ := newTestRuntime()
	b := &blocks.Block{Type: "ledSetColor", Fields: map[string]*blocks.Field{"color": {Value: "purple"}}}
	require.Error(t, handleLedSetColor(rt, b, nil))
}
