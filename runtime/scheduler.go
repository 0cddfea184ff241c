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

package runtime

// StepResult reports what happened during one call to Step.
type StepResult struct {
	ProcessedBranch *Branch
	CompletedBranch bool
}

// Step advances the scheduler by one unit of work. It returns nil if no
// branches exist. Due wall-clock timers (device_pause/controlWaitUs) are
// drained before the round-robin branch is considered, so a branch whose
// pause has elapsed becomes runnable in the same Step call that notices
// the deadline has passed.
func (rt *Runtime) Step() (*StepResult, error) {
	rt.wakeDueTimers()

	if len(rt.branches) == 0 {
		return nil, nil
	}

	idx := rt.currentIndex
	br := rt.branches[idx]

	if br.Locked() {
		rt.advanceRoundRobin()
		return &StepResult{ProcessedBranch: br, CompletedBranch: false}, nil
	}

	if !br.CurrentBlock.Disabled {
		if err := rt.dispatch(br.CurrentBlock, br); err != nil {
			return nil, err
		}
	}

	if br.CurrentBlock.Next != nil {
		br.Step++
		br.CurrentBlock = br.CurrentBlock.Next
		rt.advanceRoundRobin()
		return &StepResult{ProcessedBranch: br, CompletedBranch: false}, nil
	}

	rt.completeBranch(idx)
	return &StepResult{ProcessedBranch: br, CompletedBranch: true}, nil
}

func (rt *Runtime) advanceRoundRobin() {
	rt.currentIndex = (rt.currentIndex + 1) % len(rt.branches)
}

// completeBranch removes the branch at idx, fires its completion event
// for any caller waiting on it, and fixes up the round-robin index.
func (rt *Runtime) completeBranch(idx int) {
	id := rt.branches[idx].ID()

	rt.TriggerEvent(CompletedBranchEvent(id).Name, nil)

	rt.branches = append(rt.branches[:idx], rt.branches[idx+1:]...)

	switch {
	case len(rt.branches) == 0:
		rt.currentIndex = -1
	case idx >= len(rt.branches):
		rt.currentIndex = 0
	default:
		rt.currentIndex = idx
	}
}

// wakeDueTimers clears the lock on every branch whose pause deadline has
// elapsed, per the wall-clock resolution chosen for device_pause/
// controlWaitUs.
func (rt *Runtime) wakeDueTimers() {
	fired := rt.timers.due(rt.clock())
	for _, ev := range fired {
		for _, br := range rt.branches {
			if br.Lock != nil && br.Lock.Equal(ev) {
				br.Lock = nil
			}
		}
	}
}

// LiveBranches returns the current branch list. Callers must not mutate
// the returned slice.
func (rt *Runtime) LiveBranches() []*Branch {
	return rt.branches
}
