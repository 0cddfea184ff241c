// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// Unit tests for the block source XML parser.

package blocks

import "testing"

const sampleDoc = `<xml xmlns="https://developers.google.com/blockly/xml">
  <variables>
    <variable type="number" id="v1">count</variable>
  </variables>
  <block type="pxt-on-start" id="b1" x="0" y="0">
    <statement name="HANDLER">
      <block type="variablesSet" id="b2">
        <field name="VAR" id="v1" variabletype="number">count</field>
        <value name="VALUE">
          <shadow type="math_number">
            <field name="NUM">10</field>
          </shadow>
        </value>
        <next>
          <block type="motorRun" id="b3" disabled="true">
            <field name="motors">motors.largeA</field>
          </block>
        </next>
      </block>
    </statement>
  </block>
</xml>`

func TestParseTopLevelVariablesAndRoots(t *testing.T) {
	doc, err := Parse(sampleDoc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(doc.Variables) != 1 {
		t.Fatalf("len(Variables) = %d, want 1", len(doc.Variables))
	}
	v := doc.Variables[0]
	if v.Type != "number" || v.ID != "v1" || v.Name != "count" {
		t.Fatalf("Variables[0] = %+v, unexpected", v)
	}

	if len(doc.Roots) != 1 {
		t.Fatalf("len(Roots) = %d, want 1", len(doc.Roots))
	}
	root := doc.Roots[0]
	if root.Type != "pxt-on-start" || !root.HasXY || root.X != 0 || root.Y != 0 {
		t.Fatalf("root = %+v, unexpected", root)
	}
}

func TestParseStatementsFieldsValuesAndNext(t *testing.T) {
	doc, err := Parse(sampleDoc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	root := doc.Roots[0]
	handler, ok := root.Statements["HANDLER"]
	if !ok {
		t.Fatal("expected HANDLER statement on root block")
	}
	if handler.Type != "variablesSet" {
		t.Fatalf("handler.Type = %q, want variablesSet", handler.Type)
	}

	varField, ok := handler.Fields["VAR"]
	if !ok || varField.ID != "v1" || varField.VariableType != "number" {
		t.Fatalf("Fields[VAR] = %+v, unexpected", varField)
	}

	val, ok := handler.Values["VALUE"]
	if !ok || val.Shadow == nil || val.Shadow.Type != "math_number" {
		t.Fatalf("Values[VALUE] = %+v, unexpected", val)
	}
	if val.Shadow.Fields["NUM"].Value != "10" {
		t.Fatalf("shadow NUM field = %q, want 10", val.Shadow.Fields["NUM"].Value)
	}

	next := handler.Next
	if next == nil || next.Type != "motorRun" || !next.Disabled {
		t.Fatalf("next = %+v, want disabled motorRun block", next)
	}
}

func TestParseRejectsEmptyDocument(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Fatal("expected error for empty document")
	}
}
