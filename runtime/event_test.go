// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// Unit tests for Event equality.

package runtime

import "testing"

func TestEventEqualityIsOrderIndependent(t *testing.T) {
	a := NewEvent("buttonEvent", map[string]interface{}{"button": "brick.buttonEnter", "event": "ButtonEvent.Pressed"})
	b := NewEvent("buttonEvent", map[string]interface{}{"event": "ButtonEvent.Pressed", "button": "brick.buttonEnter"})

	if !a.Equal(b) {
		t.Fatal("events with the same name and parameters (different insertion order) should be equal")
	}
	if a.key() != b.key() {
		t.Fatal("canonical keys should match regardless of parameter insertion order")
	}
}

func TestEventInequalityOnDifferingParameters(t *testing.T) {
	a := NewEvent("buttonEvent", map[string]interface{}{"button": "brick.buttonEnter"})
	b := NewEvent("buttonEvent", map[string]interface{}{"button": "brick.buttonUp"})

	if a.Equal(b) {
		t.Fatal("events with different parameter values should not be equal")
	}
}

func TestEventInequalityOnDifferingName(t *testing.T) {
	a := NewEvent("buttonEvent", nil)
	b := NewEvent("touchEvent", nil)

	if a.Equal(b) {
		t.Fatal("events with different names should not be equal")
	}
}
