// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// Unit tests for user-defined function registration and calls.

package handlers

import (
	"testing"

	"github.com/gmofishsauce/ev3sim/blocks"
	"github.com/stretchr/testify/require"
)

func TestProceduresDefThenCallSpawnsBranchAtStack(t *testing.T) {
	rt, _ := newTestRuntime()
	stack := &blocks.Block{ID: "stack", Type: "noop"}
	def := &blocks.Block{
		ID:         "def",
		Type:       "procedures_defnoreturn",
		Fields:     map[string]*blocks.Field{"NAME": {Value: "doThing"}, "PARAMS": {Value: ""}},
		Statements: map[string]*blocks.Block{"STACK": stack},
	}

	require.NoError(t, handleProceduresDefNoReturn(rt, def, nil))
	require.Empty(t, rt.LiveBranches())

	call := &blocks.Block{ID: "call", Type: "procedures_callnoreturn", Fields: map[string]*blocks.Field{"NAME": {Value: "doThing"}}}
	caller := rt.AddBranch(call, nil)
	require.NoError(t, handleProceduresCallNoReturn(rt, call, caller))

	require.Len(t, rt.LiveBranches(), 2)
	require.True(t, caller.Locked(), "caller should lock on the callee's completion event")
	require.Equal(t, "completed_branch_stack", caller.Lock.Name)
}

func TestProceduresCallUnknownFunctionFails(t *testing.T) {
	rt, _ := newTestRuntime()
	call := &blocks.Block{Type: "procedures_callnoreturn", Fields: map[string]*blocks.Field{"NAME": {Value: "missing"}}}
	require.Error(t, handleProceduresCallNoReturn(rt, call, nil))
}
