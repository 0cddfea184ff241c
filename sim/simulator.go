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

// Package sim composes the project extractor, the block forest, the
// runtime, and the brick model into the single object a driver session
// talks to: create, start, step, and trigger_event.
package sim

import (
	"github.com/gmofishsauce/ev3sim/blocks"
	"github.com/gmofishsauce/ev3sim/brick"
	"github.com/gmofishsauce/ev3sim/handlers"
	"github.com/gmofishsauce/ev3sim/project"
	"github.com/gmofishsauce/ev3sim/runtime"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// PortConfig names the motor/sensor types to populate at each physical
// port, keyed by port letter/number ("A".."D", "1".."4").
type PortConfig struct {
	Motors  map[string]string
	Sensors map[string]string
}

// Simulator owns one running instance of a project: its parsed block
// forest, the scheduler runtime, and the brick model the runtime mutates.
// A driver session creates exactly one Simulator per connection.
type Simulator struct {
	Project *project.Project
	Runtime *runtime.Runtime
	Brick   *brick.Brick

	forever *runtime.Branch
}

// New wires a fresh Runtime and Brick for doc, the already-parsed
// main.blocks document. It does not start the program; call Start for that.
func New(p *project.Project, doc *blocks.Document) *Simulator {
	rt := runtime.New(doc)
	bk := brick.New()
	rt.Globals["brick"] = bk
	handlers.Register(rt)

	return &Simulator{
		Project: p,
		Runtime: rt,
		Brick:   bk,
	}
}

// Start populates the brick's ports, runs the definition pass over every
// root block, triggers pxt-on-start (spawning the program's start
// branches), then triggers forever once and remembers the spawned
// branch so Step can re-trigger it on completion.
func (s *Simulator) Start(ports PortConfig) error {
	for port, motorType := range ports.Motors {
		s.Brick.PopulateMotor(brick.MotorPort(port), motorType)
	}
	for port, sensorType := range ports.Sensors {
		s.Brick.PopulateSensor(brick.SensorPort(port), sensorType)
	}

	if err := s.Runtime.Start(); err != nil {
		return errors.Wrap(err, "sim: runtime.Start")
	}

	s.Runtime.TriggerEvent("pxt-on-start", nil)
	s.triggerForever()
	return nil
}

func (s *Simulator) triggerForever() {
	before := len(s.Runtime.LiveBranches())
	s.Runtime.TriggerEvent("forever", nil)
	live := s.Runtime.LiveBranches()
	if len(live) > before {
		s.forever = live[len(live)-1]
	}
}

// Step advances the scheduler by one unit of work. If the step completed
// the distinguished forever branch, Step re-triggers "forever" so the
// loop never runs dry, per the forever-loop invariant.
func (s *Simulator) Step() (*runtime.StepResult, error) {
	res, err := s.Runtime.Step()
	if err != nil {
		return nil, errors.Wrap(err, "sim: runtime.Step")
	}
	if res != nil && res.CompletedBranch && s.forever != nil && res.ProcessedBranch.ID() == s.forever.ID() {
		log.Debug().Str("branch", s.forever.ID()).Msg("sim: forever branch completed, re-triggering")
		s.forever = nil
		s.triggerForever()
	}
	return res, nil
}

// Run calls Step until no branches remain live or maxSteps steps have been
// taken, returning the number of steps taken. Intended for headless/batch use; the driver protocol's
// interactive "step" command calls Step directly instead.
func (s *Simulator) Run(maxSteps int) (int, error) {
	n := 0
	for len(s.Runtime.LiveBranches()) > 0 && n < maxSteps {
		if _, err := s.Step(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// TriggerEvent forwards to the runtime, spawning branches and clearing
// matching locks.
func (s *Simulator) TriggerEvent(name string, parameters map[string]interface{}) {
	s.Runtime.TriggerEvent(name, parameters)
}
