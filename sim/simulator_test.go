// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// Unit tests for Simulator's start/step/forever composition.

package sim

import (
	"testing"

	"github.com/gmofishsauce/ev3sim/blocks"
	"github.com/gmofishsauce/ev3sim/project"
	"github.com/stretchr/testify/require"
)

func simpleDoc() *blocks.Document {
	body := &blocks.Block{ID: "forever-body", Type: "console_log", Values: map[string]*blocks.Value{
		"text": {Shadow: &blocks.Shadow{Type: "text", Fields: map[string]*blocks.Field{"TEXT": {Value: "tick"}}}},
	}}
	forever := &blocks.Block{
		ID:         "forever-root",
		Type:       "forever",
		Statements: map[string]*blocks.Block{"HANDLER": body},
	}
	return &blocks.Document{Roots: []*blocks.Block{forever}}
}

func TestSimulatorStartSpawnsForeverBranch(t *testing.T) {
	s := New(&project.Project{Metadata: &project.Metadata{Name: "test"}}, simpleDoc())

	require.NoError(t, s.Start(PortConfig{
		Motors:  map[string]string{"A": "large"},
		Sensors: map[string]string{"1": "touch"},
	}))

	require.Equal(t, "large", s.Brick.Motors["A"].Type)
	require.Len(t, s.Runtime.LiveBranches(), 1)
	require.Equal(t, "forever-body", s.Runtime.LiveBranches()[0].ID())
}

func TestSimulatorStepRetriggersForeverOnCompletion(t *testing.T) {
	s := New(&project.Project{}, simpleDoc())
	require.NoError(t, s.Start(PortConfig{}))

	_, err := s.Step() // completes the single-block forever body
	require.NoError(t, err)

	require.Len(t, s.Runtime.LiveBranches(), 1, "forever should be re-triggered, never dry")
	require.Equal(t, "forever-body", s.Runtime.LiveBranches()[0].ID())
}
