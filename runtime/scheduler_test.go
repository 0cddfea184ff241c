// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// Unit tests for the branch scheduler.

package runtime

import (
	"fmt"
	"testing"
	"time"

	"github.com/gmofishsauce/ev3sim/blocks"
	"github.com/stretchr/testify/require"
)

var chainSeq int

// chain builds n blocks of the given type linked by Next, returning the
// head. Each call uses a fresh id prefix so branches built from identical
// block types never collide on branch identity (which equals root id).
func chain(blockType string, n int) *blocks.Block {
	chainSeq++
	prefix := idFor(blockType, chainSeq)

	var head, tail *blocks.Block
	for i := 0; i < n; i++ {
		b := &blocks.Block{
			ID:         idFor(prefix, i),
			Type:       blockType,
			Fields:     map[string]*blocks.Field{},
			Values:     map[string]*blocks.Value{},
			Statements: map[string]*blocks.Block{},
		}
		if head == nil {
			head = b
		} else {
			tail.Next = b
		}
		tail = b
	}
	return head
}

func idFor(prefix string, i int) string {
	return fmt.Sprintf("%s-%d", prefix, i)
}

func newTestRuntime() *Runtime {
	doc := &blocks.Document{}
	rt := New(doc)
	rt.RegisterHandler("noop", func(rt *Runtime, b *blocks.Block, br *Branch) error {
		return nil
	})
	return rt
}

func TestRoundRobinInterleavesTwoBranches(t *testing.T) {
	rt := newTestRuntime()
	a := chain("noop", 3)
	b := chain("noop", 3)
	brA := rt.AddBranch(a, nil)
	brB := rt.AddBranch(b, nil)

	var order []*Branch
	for i := 0; i < 6; i++ {
		res, err := rt.Step()
		require.NoError(t, err)
		require.NotNil(t, res)
		order = append(order, res.ProcessedBranch)
	}

	require.Equal(t, []*Branch{brA, brB, brA, brB, brA, brB}, order)
	require.Empty(t, rt.LiveBranches())
}

func TestStepOnEmptyBranchListIsIdempotent(t *testing.T) {
	rt := newTestRuntime()
	res, err := rt.Step()
	require.NoError(t, err)
	require.Nil(t, res)

	res, err = rt.Step()
	require.NoError(t, err)
	require.Nil(t, res)
}

func TestDisabledBlockIsSkippedButCounts(t *testing.T) {
	rt := newTestRuntime()
	var executed []string
	rt.RegisterHandler("trace", func(rt *Runtime, b *blocks.Block, br *Branch) error {
		executed = append(executed, b.ID)
		return nil
	})

	head := &blocks.Block{ID: "h1", Type: "trace"}
	disabled := &blocks.Block{ID: "h2", Type: "trace", Disabled: true}
	tail := &blocks.Block{ID: "h3", Type: "trace"}
	head.Next = disabled
	disabled.Next = tail

	rt.AddBranch(head, nil)

	res, err := rt.Step()
	require.NoError(t, err)
	require.False(t, res.CompletedBranch)

	res, err = rt.Step() // the disabled block: skipped, but still a step
	require.NoError(t, err)
	require.False(t, res.CompletedBranch)

	res, err = rt.Step()
	require.NoError(t, err)
	require.True(t, res.CompletedBranch)

	require.Equal(t, []string{"h1", "h3"}, executed)
}

func TestUnknownBlockTypeIsFatal(t *testing.T) {
	rt := newTestRuntime()
	rt.AddBranch(&blocks.Block{ID: "x", Type: "totallyUnknownBlock"}, nil)

	_, err := rt.Step()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnknownBlockType)
}

func TestLockedBranchIsSkippedWithoutDispatch(t *testing.T) {
	rt := newTestRuntime()
	var calls int
	rt.RegisterHandler("noop", func(rt *Runtime, b *blocks.Block, br *Branch) error {
		calls++
		return nil
	})

	br := rt.AddBranch(chain("noop", 2), nil)
	ev := NewEvent("buttonEvent", map[string]interface{}{"button": "brick.buttonEnter"})
	br.Lock = &ev

	res, err := rt.Step()
	require.NoError(t, err)
	require.False(t, res.CompletedBranch)
	require.Equal(t, 0, calls)
	require.True(t, br.Locked())
}

func TestTriggerEventWakesWaitingBranchAtNextStep(t *testing.T) {
	rt := newTestRuntime()
	var executed []string
	rt.RegisterHandler("mark", func(rt *Runtime, b *blocks.Block, br *Branch) error {
		executed = append(executed, b.ID)
		return nil
	})

	first := &blocks.Block{ID: "first", Type: "mark"}
	second := &blocks.Block{ID: "second", Type: "mark"}
	first.Next = second

	br := rt.AddBranch(first, nil)

	_, err := rt.Step() // executes "first"
	require.NoError(t, err)

	ev := NewEvent("buttonEvent", map[string]interface{}{"button": "brick.buttonEnter", "event": "ButtonEvent.Pressed"})
	br.Lock = &ev

	res, err := rt.Step() // branch is locked: skipped, no dispatch
	require.NoError(t, err)
	require.False(t, calledSecond(executed))
	require.NotNil(t, res)

	rt.TriggerEvent("buttonEvent", map[string]interface{}{"button": "brick.buttonEnter", "event": "ButtonEvent.Pressed"})
	require.False(t, br.Locked())

	_, err = rt.Step() // now executes "second"
	require.NoError(t, err)
	require.True(t, calledSecond(executed))
}

func calledSecond(executed []string) bool {
	for _, e := range executed {
		if e == "second" {
			return true
		}
	}
	return false
}

func TestCompletedBranchFiresSyntheticEventExactlyOnce(t *testing.T) {
	rt := newTestRuntime()
	caller := rt.AddBranch(chain("noop", 1), nil)

	callee := rt.AddBranch(chain("noop", 1), nil)
	completion := CompletedBranchEvent(callee.ID())
	caller.Lock = &completion

	// Step the caller: it's locked, skipped.
	res, err := rt.Step()
	require.NoError(t, err)
	require.False(t, res.CompletedBranch)
	require.True(t, caller.Locked())

	// Step the callee: completes, firing completed_branch_<id>.
	res, err = rt.Step()
	require.NoError(t, err)
	require.True(t, res.CompletedBranch)
	require.False(t, caller.Locked(), "caller should wake once callee completes")
}

func TestDevicePauseWakesAfterWallClockDeadline(t *testing.T) {
	rt := newTestRuntime()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rt.SetClock(func() time.Time { return now })

	br := rt.AddBranch(chain("noop", 2), nil)
	rt.SchedulePause(br, 5*time.Second)
	require.True(t, br.Locked())

	res, err := rt.Step() // still before deadline
	require.NoError(t, err)
	require.True(t, br.Locked())
	require.False(t, res.CompletedBranch)

	now = now.Add(6 * time.Second)

	_, err = rt.Step() // deadline elapsed: woken, then dispatched
	require.NoError(t, err)
	require.False(t, br.Locked())
}
