package models

import "fmt"

// DirectiveKind operator decision code as typed on the adjudication channel
type DirectiveKind string

const (
	DirectiveDelete  DirectiveKind = "0"
	DirectiveCorrect DirectiveKind = "2"
)

// Correctable field names (operator vocabulary, case-sensitive)
const (
	FieldSysA   = "sysA"
	FieldDiaA   = "diaA"
	FieldSysO   = "sysO"
	FieldDiaO   = "diaO"
	FieldMapO   = "mapO"
	FieldWeight = "weight"
	FieldHeight = "height"
)

// PressureFields fields offered for pressure range/ordering failures
var PressureFields = []string{FieldSysA, FieldDiaA, FieldSysO, FieldDiaO, FieldMapO}

// AnthropometricFields fields offered for BMI failures
var AnthropometricFields = []string{FieldWeight, FieldHeight}

// Directive one adjudication decision for one record.
// Field and Value are only meaningful for DirectiveCorrect.
type Directive struct {
	RecordID int64         `json:"recordId"`
	Kind     DirectiveKind `json:"kind"`
	Field    string        `json:"field,omitempty"`
	Value    float64       `json:"value,omitempty"`
}

func (d Directive) String() string {
	switch d.Kind {
	case DirectiveDelete:
		return fmt.Sprintf("record %d: delete", d.RecordID)
	case DirectiveCorrect:
		return fmt.Sprintf("record %d: set %s=%g", d.RecordID, d.Field, d.Value)
	default:
		return fmt.Sprintf("record %d: unknown directive %q", d.RecordID, string(d.Kind))
	}
}
