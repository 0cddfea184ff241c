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

// Package blocks parses a MakeCode "main.blocks" XML document into a forest
// of typed Block nodes with fields, values (shadows), statements, and next
// pointers.
package blocks

// Field is a leaf attribute of a block: a named, typed scalar.
type Field struct {
	Name         string
	ID           string
	VariableType string
	Value        string
}

// Shadow is the inline leaf expression carried by a Value.
type Shadow struct {
	Type   string
	Fields map[string]*Field
}

// Value wraps a named Shadow nested inside a block's <value> element.
type Value struct {
	Name   string
	Shadow *Shadow
}

// Block is one node of the visual program.
type Block struct {
	ID         string
	Type       string
	X, Y       float64
	HasXY      bool
	Disabled   bool
	Fields     map[string]*Field
	Values     map[string]*Value
	Statements map[string]*Block
	Next       *Block
}

// VariableDefinition is one entry of the document's top-level <variables>
// block.
type VariableDefinition struct {
	Type string
	ID   string
	Name string
}

// Document is the full parse result of a main.blocks file: every top-level
// variable definition plus every top-level block chain head, in document
// order.
type Document struct {
	Variables []VariableDefinition
	Roots     []*Block
}
