package validator

import (
	"fmt"
	"sort"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
)

// RuleGroup independent group of validity rules
type RuleGroup string

const (
	// GroupRange pressure fields present and within bounds
	GroupRange RuleGroup = "range"
	// GroupOrdering SYS > DIA per method, MAP > DIA for OSC
	GroupOrdering RuleGroup = "ordering"
	// GroupAnthropometric bmi within bounds when height and weight are known
	GroupAnthropometric RuleGroup = "anthropometric"
)

// Groups all rule groups in evaluation order
var Groups = []RuleGroup{GroupRange, GroupOrdering, GroupAnthropometric}

// Violation one failed rule on one record
type Violation struct {
	Group  RuleGroup
	Field  string
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s %s", v.Group, v.Field, v.Reason)
}

// Report per-record validity masks, one per rule group, keyed by record index
type Report struct {
	Range          map[int]bool
	Ordering       map[int]bool
	Anthropometric map[int]bool
}

// Mask returns the mask of group g
func (r Report) Mask(g RuleGroup) map[int]bool {
	switch g {
	case GroupRange:
		return r.Range
	case GroupOrdering:
		return r.Ordering
	case GroupAnthropometric:
		return r.Anthropometric
	}
	return nil
}

// Invalid sorted indices flagged invalid by group g
func (r Report) Invalid(g RuleGroup) []int {
	var out []int
	for i, ok := range r.Mask(g) {
		if !ok {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// InvalidCount number of records failing at least one group
func (r Report) InvalidCount() int {
	failed := make(map[int]struct{})
	for _, g := range Groups {
		for _, i := range r.Invalid(g) {
			failed[i] = struct{}{}
		}
	}
	return len(failed)
}

// AllValid every record passes every group
func (r Report) AllValid() bool {
	return r.InvalidCount() == 0
}

// Validate evaluates every record against the bounds. It is pure: running it
// twice on the same records yields the same report.
func Validate(records []models.Record, b Bounds) Report {
	rep := Report{
		Range:          make(map[int]bool, len(records)),
		Ordering:       make(map[int]bool, len(records)),
		Anthropometric: make(map[int]bool, len(records)),
	}
	for i := range records {
		rep.Range[i] = true
		rep.Ordering[i] = true
		rep.Anthropometric[i] = true
		for _, v := range Check(&records[i], b) {
			rep.Mask(v.Group)[i] = false
		}
	}
	return rep
}

// Check lists the rule violations of one record
func Check(r *models.Record, b Bounds) []Violation {
	var out []Violation

	for _, f := range models.PressureFields {
		v, _ := r.Value(f)
		if v == nil {
			out = append(out, Violation{Group: GroupRange, Field: f, Reason: "is missing"})
			continue
		}
		if iv, ok := b[f]; ok && !iv.Contains(*v) {
			out = append(out, Violation{Group: GroupRange, Field: f, Reason: fmt.Sprintf("%g outside %s", *v, iv)})
		}
	}

	out = append(out, greater(r.SysPressureA, r.DiasPressureA, models.FieldSysA, models.FieldDiaA)...)
	out = append(out, greater(r.SysPressureO, r.DiasPressureO, models.FieldSysO, models.FieldDiaO)...)
	out = append(out, greater(r.MeanPressureO, r.DiasPressureO, models.FieldMapO, models.FieldDiaO)...)

	if r.Height != nil && r.Weight != nil && r.BMI != nil {
		if iv, ok := b[FieldBMI]; ok && !iv.Contains(*r.BMI) {
			out = append(out, Violation{
				Group:  GroupAnthropometric,
				Field:  FieldBMI,
				Reason: fmt.Sprintf("%.2f outside %s (height %g, weight %g)", *r.BMI, iv, *r.Height, *r.Weight),
			})
		}
	}

	return out
}

// greater only evaluates when both operands are present; missing operands
// are already reported by the range group.
func greater(hi, lo *float64, hiField, loField string) []Violation {
	if hi == nil || lo == nil || *hi > *lo {
		return nil
	}
	return []Violation{{
		Group:  GroupOrdering,
		Field:  hiField,
		Reason: fmt.Sprintf("%g not greater than %s %g", *hi, loField, *lo),
	}}
}
