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

package blocks

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"
)

var ErrBadSourceXML = errors.New("blocks: malformed source XML")

// Parse reads a main.blocks XML document and returns the variable table
// and the forest of top-level block chains it declares.
func Parse(xmlSource string) (*Document, error) {
	root, err := xmlquery.Parse(strings.NewReader(xmlSource))
	if err != nil {
		return nil, errors.Wrap(ErrBadSourceXML, err.Error())
	}

	top := firstElement(root)
	if top == nil {
		return nil, errors.Wrap(ErrBadSourceXML, "empty document")
	}

	doc := &Document{}
	for c := top.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch localName(c) {
		case "variables":
			doc.Variables = parseVariables(c)
		case "block":
			b, err := parseBlock(c)
			if err != nil {
				return nil, err
			}
			doc.Roots = append(doc.Roots, b)
		}
	}

	return doc, nil
}

// firstElement finds the first element node in the tree rooted at n (n
// itself if n is already an element, otherwise its first element child,
// recursively — xmlquery.Parse returns a synthetic DocumentNode wrapper).
func firstElement(n *xmlquery.Node) *xmlquery.Node {
	if n.Type == xmlquery.ElementNode {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := firstElement(c); found != nil {
			return found
		}
	}
	return nil
}

// localName strips any XML namespace prefix from a node's tag.
func localName(n *xmlquery.Node) string {
	if idx := strings.IndexByte(n.Data, ':'); idx >= 0 {
		return n.Data[idx+1:]
	}
	return n.Data
}

func attr(n *xmlquery.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func parseVariables(n *xmlquery.Node) []VariableDefinition {
	var defs []VariableDefinition
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode || localName(c) != "variable" {
			continue
		}
		vtype, _ := attr(c, "type")
		id, _ := attr(c, "id")
		defs = append(defs, VariableDefinition{
			Type: vtype,
			ID:   id,
			Name: strings.TrimSpace(c.InnerText()),
		})
	}
	return defs
}

// parseBlock recursively parses a <block> element, including its next
// pointer, into a *Block.
func parseBlock(n *xmlquery.Node) (*Block, error) {
	b := &Block{
		Fields:     make(map[string]*Field),
		Values:     make(map[string]*Value),
		Statements: make(map[string]*Block),
	}

	if id, ok := attr(n, "id"); ok {
		b.ID = id
	}
	if typ, ok := attr(n, "type"); ok {
		b.Type = typ
	}
	if xs, ok := attr(n, "x"); ok {
		if x, err := strconv.ParseFloat(xs, 64); err == nil {
			b.X = x
			b.HasXY = true
		}
	}
	if ys, ok := attr(n, "y"); ok {
		if y, err := strconv.ParseFloat(ys, 64); err == nil {
			b.Y = y
			b.HasXY = true
		}
	}
	if ds, ok := attr(n, "disabled"); ok {
		b.Disabled = ds == "true"
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}

		switch localName(c) {
		case "field":
			f, err := parseField(c)
			if err != nil {
				return nil, err
			}
			b.Fields[f.Name] = f

		case "value":
			v, err := parseValue(c)
			if err != nil {
				return nil, err
			}
			b.Values[v.Name] = v

		case "statement":
			name, _ := attr(c, "name")
			head := firstChildElement(c)
			if head == nil || localName(head) != "block" {
				return nil, errors.Wrap(ErrBadSourceXML, "statement missing child block")
			}
			child, err := parseBlock(head)
			if err != nil {
				return nil, err
			}
			b.Statements[name] = child

		case "next":
			head := firstChildElement(c)
			if head == nil || localName(head) != "block" {
				return nil, errors.Wrap(ErrBadSourceXML, "next missing child block")
			}
			next, err := parseBlock(head)
			if err != nil {
				return nil, err
			}
			b.Next = next
		}
	}

	return b, nil
}

func firstChildElement(n *xmlquery.Node) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

func parseField(n *xmlquery.Node) (*Field, error) {
	name, ok := attr(n, "name")
	if !ok {
		return nil, errors.Wrap(ErrBadSourceXML, "field missing name attribute")
	}
	f := &Field{
		Name:  name,
		Value: strings.TrimSpace(n.InnerText()),
	}
	if id, ok := attr(n, "id"); ok {
		f.ID = id
	}
	if vt, ok := attr(n, "variabletype"); ok {
		f.VariableType = vt
	}
	return f, nil
}

func parseValue(n *xmlquery.Node) (*Value, error) {
	name, ok := attr(n, "name")
	if !ok {
		return nil, errors.Wrap(ErrBadSourceXML, "value missing name attribute")
	}

	shadowNode := firstChildElement(n)
	if shadowNode == nil || localName(shadowNode) != "shadow" {
		return nil, errors.Wrap(ErrBadSourceXML, "value missing shadow child")
	}

	shadowType, _ := attr(shadowNode, "type")
	shadow := &Shadow{Type: shadowType, Fields: make(map[string]*Field)}
	for c := shadowNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode || localName(c) != "field" {
			continue
		}
		f, err := parseField(c)
		if err != nil {
			return nil, err
		}
		shadow.Fields[f.Name] = f
	}

	return &Value{Name: name, Shadow: shadow}, nil
}
