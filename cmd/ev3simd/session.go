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

package main

import (
	"bufio"
	"encoding/json"
	"net"

	"github.com/gmofishsauce/ev3sim/blocks"
	"github.com/gmofishsauce/ev3sim/brick"
	"github.com/gmofishsauce/ev3sim/project"
	"github.com/gmofishsauce/ev3sim/sim"
	"github.com/gmofishsauce/ev3sim/uf2"
	"github.com/rs/zerolog/log"
)

// request is one line of the driver protocol's newline-delimited JSON
// wire format.
type request struct {
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args"`
}

type response struct {
	OK       bool            `json:"ok"`
	Error    string          `json:"error,omitempty"`
	Snapshot *brick.Snapshot `json:"snapshot,omitempty"`
}

type createArgs struct {
	UF2 []byte `json:"uf2"`
}

type startArgs struct {
	Motors  map[string]string `json:"motors"`
	Sensors map[string]string `json:"sensors"`
}

type stepArgs struct {
	Count int `json:"count"`
}

type triggerEventArgs struct {
	Event      string                 `json:"event"`
	Parameters map[string]interface{} `json:"parameters"`
}

// session isolates one driver connection's Simulator, per the
// one-simulation-per-client requirement: the server may be
// multi-threaded, but every command on this connection is handled
// serially against exactly one Simulator.
type session struct {
	conn        net.Conn
	maxRunSteps int
	sim         *sim.Simulator
}

func handleConnection(conn net.Conn, maxRunSteps int) {
	defer conn.Close()
	s := &session{conn: conn, maxRunSteps: maxRunSteps}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	enc := json.NewEncoder(conn)

	for scanner.Scan() {
		var req request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			enc.Encode(response{OK: false, Error: err.Error()})
			continue
		}

		resp := s.dispatch(req)
		if err := enc.Encode(resp); err != nil {
			log.Error().Err(err).Msg("ev3simd: writing response")
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("ev3simd: connection read error")
	}
}

func (s *session) dispatch(req request) response {
	switch req.Command {
	case "create":
		return s.create(req.Args)
	case "start":
		return s.start(req.Args)
	case "step":
		return s.step(req.Args)
	case "trigger_event":
		return s.triggerEvent(req.Args)
	default:
		return response{OK: false, Error: "ev3simd: unknown command " + req.Command}
	}
}

func (s *session) create(raw json.RawMessage) response {
	var args createArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return response{OK: false, Error: err.Error()}
	}

	archive, err := uf2.Parse(args.UF2)
	if err != nil {
		return response{OK: false, Error: err.Error()}
	}

	p, err := project.First(archive.ExtractBinary())
	if err != nil {
		return response{OK: false, Error: err.Error()}
	}

	source, ok := p.Source["main.blocks"]
	if !ok {
		return response{OK: false, Error: "ev3simd: project source has no main.blocks"}
	}

	doc, err := blocks.Parse(source)
	if err != nil {
		return response{OK: false, Error: err.Error()}
	}

	s.sim = sim.New(p, doc)
	return response{OK: true}
}

func (s *session) start(raw json.RawMessage) response {
	if s.sim == nil {
		return response{OK: false, Error: "ev3simd: no simulator created on this connection"}
	}
	var args startArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return response{OK: false, Error: err.Error()}
	}

	if err := s.sim.Start(sim.PortConfig{Motors: args.Motors, Sensors: args.Sensors}); err != nil {
		return response{OK: false, Error: err.Error()}
	}
	return response{OK: true}
}

func (s *session) step(raw json.RawMessage) response {
	if s.sim == nil {
		return response{OK: false, Error: "ev3simd: no simulator created on this connection"}
	}
	args := stepArgs{Count: 1}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return response{OK: false, Error: err.Error()}
		}
	}
	if args.Count <= 0 {
		args.Count = 1
	}
	if args.Count > s.maxRunSteps {
		return response{OK: false, Error: "ev3simd: step count exceeds configured maximum"}
	}

	for i := 0; i < args.Count; i++ {
		if _, err := s.sim.Step(); err != nil {
			return response{OK: false, Error: err.Error()}
		}
	}

	return response{OK: true, Snapshot: s.sim.Brick.Snapshot()}
}

func (s *session) triggerEvent(raw json.RawMessage) response {
	if s.sim == nil {
		return response{OK: false, Error: "ev3simd: no simulator created on this connection"}
	}
	var args triggerEventArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return response{OK: false, Error: err.Error()}
	}

	s.sim.TriggerEvent(args.Event, args.Parameters)
	return response{OK: true}
}
