// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// Unit tests for variablesSet and the variablesGet shadow it pairs with.

package handlers

import (
	"testing"

	"github.com/gmofishsauce/ev3sim/blocks"
	"github.com/stretchr/testify/require"
)

func TestVariablesSetWritesByID(t *testing.T) {
	rt, _ := newTestRuntime()
	b := &blocks.Block{
		Type:   "variablesSet",
		Fields: map[string]*blocks.Field{"VAR": {ID: "count-0", VariableType: "number"}},
		Values: map[string]*blocks.Value{"VALUE": speedValue("7")},
	}

	require.NoError(t, handleVariablesSet(rt, b, nil))
	require.Equal(t, 7, rt.Variables["count-0"])
}

func TestVariablesGetReadsBackWhatWasSet(t *testing.T) {
	rt, _ := newTestRuntime()
	rt.SetVariable("count-0", 42)

	v := &blocks.Value{
		Shadow: &blocks.Shadow{
			Type:   "variablesGet",
			Fields: map[string]*blocks.Field{"VAR": {ID: "count-0"}},
		},
	}
	got, err := EvaluateValue(rt, v)
	require.NoError(t, err)
	require.Equal(t, 42, got)
}
