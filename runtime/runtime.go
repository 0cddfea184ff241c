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

// Package runtime implements the cooperative, multi-branch block-chain
// scheduler: the event table, branch queue, round-robin step, and
// lock/unlock discipline described by the simulator's core design.
package runtime

import (
	"fmt"
	"strings"
	"time"

	"github.com/gmofishsauce/ev3sim/blocks"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownBlockType = errors.New("runtime: unknown block type")
	ErrUnknownFunction   = errors.New("runtime: unknown function")
)

// HandlerFunc is the uniform signature every block-type handler implements.
// It may mutate rt (variables, globals), register event handlers or
// functions, set br.Lock, or append new branches via rt.AddBranch.
type HandlerFunc func(rt *Runtime, block *blocks.Block, branch *Branch) error

type eventTableEntry struct {
	event Event
	heads []*blocks.Block
}

// Runtime holds all mutable simulation state for one block forest: the
// event table, function table, variable table, branch list, and the
// per-type handler registry. The brick model lives in Globals["brick"] by
// convention, matching the source's use of an explicit globals map rather
// than a language-level global.
type Runtime struct {
	Document  *blocks.Document
	Variables map[string]interface{}
	Globals   map[string]interface{}

	handlers  map[string]HandlerFunc
	events    map[string]*eventTableEntry
	functions map[string]*blocks.Block

	branches     []*Branch
	currentIndex int // -1 when branches is empty

	timers timerQueue
	clock  func() time.Time

	log zerolog.Logger
}

// New creates an empty Runtime over the given parsed block document.
func New(doc *blocks.Document) *Runtime {
	return &Runtime{
		Document:     doc,
		Variables:    make(map[string]interface{}),
		Globals:      make(map[string]interface{}),
		handlers:     make(map[string]HandlerFunc),
		events:       make(map[string]*eventTableEntry),
		functions:    make(map[string]*blocks.Block),
		currentIndex: -1,
		clock:        timeNow,
		log:          log.With().Str("component", "runtime").Logger(),
	}
}

// RegisterHandler installs the handler for a block type, overwriting any
// previous registration for that type.
func (rt *Runtime) RegisterHandler(blockType string, h HandlerFunc) {
	rt.handlers[blockType] = h
}

// SetVariable writes the runtime variable table by variable id.
func (rt *Runtime) SetVariable(id string, value interface{}) {
	rt.Variables[id] = value
}

// RegisterEventHandler registers head to run (in a fresh branch) whenever
// Event(name, parameters) is triggered.
func (rt *Runtime) RegisterEventHandler(name string, head *blocks.Block, parameters map[string]interface{}) {
	ev := NewEvent(name, parameters)
	key := ev.key()
	entry, ok := rt.events[key]
	if !ok {
		entry = &eventTableEntry{event: ev}
		rt.events[key] = entry
	}
	entry.heads = append(entry.heads, head)
}

// RegisterFunction registers head under name for later CallFunction calls.
func (rt *Runtime) RegisterFunction(name string, head *blocks.Block) {
	rt.functions[name] = head
}

// Start invokes every root block of the document once with a nil branch:
// the definition pass that causes pxt-on-start and similar root blocks to
// register their event handlers and functions. No branches exist when
// Start returns.
func (rt *Runtime) Start() error {
	for _, root := range rt.Document.Roots {
		if err := rt.dispatch(root, nil); err != nil {
			return err
		}
	}
	return nil
}

// AddBranch appends a new branch rooted at root, optionally recording
// parent as the spawning branch's id, and returns it.
func (rt *Runtime) AddBranch(root *blocks.Block, parent *string) *Branch {
	br := &Branch{
		Root:         root,
		CurrentBlock: root,
		ParentBranch: parent,
	}
	rt.branches = append(rt.branches, br)
	if rt.currentIndex < 0 {
		rt.currentIndex = 0
	}
	return br
}

// CallFunction spawns a new branch for the named function's body. It
// returns the new branch so the caller's handler can lock on its
// completion event; returns ErrUnknownFunction if name was never
// registered.
func (rt *Runtime) CallFunction(name string) (*Branch, error) {
	head, ok := rt.functions[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownFunction, "%q", name)
	}
	return rt.AddBranch(head, nil), nil
}

// TriggerEvent constructs Event(name, parameters) and (a) spawns a new
// branch for every head registered under that exact event, in
// registration order, then (b) clears the lock of every existing branch
// whose lock equals that event. Both passes run synchronously before
// TriggerEvent returns.
func (rt *Runtime) TriggerEvent(name string, parameters map[string]interface{}) {
	ev := NewEvent(name, parameters)

	if entry, ok := rt.events[ev.key()]; ok {
		for _, head := range entry.heads {
			rt.AddBranch(head, nil)
		}
	}

	for _, br := range rt.branches {
		if br.Lock != nil && br.Lock.Equal(ev) {
			br.Lock = nil
		}
	}
}

func (rt *Runtime) dispatch(block *blocks.Block, branch *Branch) error {
	h, ok := rt.handlers[block.Type]
	if !ok {
		rt.log.Error().Str("block_type", block.Type).Str("block_id", block.ID).
			Msg("runtime: unknown block type")
		return errors.Wrap(ErrUnknownBlockType, unknownBlockDiagnostic(block))
	}
	return h(rt, block, branch)
}

// unknownBlockDiagnostic renders a ready-to-paste handler stub naming the
// unhandled type and its fields/values, so the pluggable handler catalog
// can be extended from the error message alone.
func unknownBlockDiagnostic(b *blocks.Block) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "no handler registered for block type %q (id=%s)\n", b.Type, b.ID)
	fmt.Fprintf(&sb, "fields:")
	for name := range b.Fields {
		fmt.Fprintf(&sb, " %s", name)
	}
	fmt.Fprintf(&sb, "\nvalues:")
	for name := range b.Values {
		fmt.Fprintf(&sb, " %s", name)
	}
	fmt.Fprintf(&sb, "\nstatements:")
	for name := range b.Statements {
		fmt.Fprintf(&sb, " %s", name)
	}
	fmt.Fprintf(&sb, "\n\nfunc handle%s(rt *runtime.Runtime, b *blocks.Block, br *runtime.Branch) error {\n\t// TODO: implement %s\n\treturn nil\n}\n",
		exportedName(b.Type), b.Type)
	return sb.String()
}

// exportedName turns a block type like "motorRun" into a Go-ish exported
// stub name "MotorRun" for the diagnostic's pasteable handler signature.
func exportedName(blockType string) string {
	if blockType == "" {
		return "Block"
	}
	cleaned := strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, blockType)
	return strings.ToUpper(cleaned[:1]) + cleaned[1:]
}
