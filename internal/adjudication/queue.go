package adjudication

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/validator"
)

var (
	// ErrRejectedDirective directive outside the vocabulary offered for its case
	ErrRejectedDirective = errors.New("rejected directive")
	// ErrNoCase no pending case for the record index
	ErrNoCase = errors.New("no adjudication case")
)

// Case one flagged record waiting for an operator decision
type Case struct {
	Index      int
	Record     models.Record
	Groups     []validator.RuleGroup
	Fields     []string
	Violations []validator.Violation
}

// Accepts reports whether field may be corrected in this case
func (c Case) Accepts(field string) bool {
	for _, f := range c.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Queue pending adjudication decisions, keyed by record index. Front ends
// (terminal, replay file, ...) consume Pending and feed Resolve.
type Queue struct {
	cases      []Case
	byIndex    map[int]int
	directives map[int]models.Directive
}

// NewQueue builds one case per record failing any rule group. Pressure
// failures (range or ordering) offer the pressure fields, BMI failures offer
// weight and height; a record failing both is offered both lists.
func NewQueue(records []models.Record, rep validator.Report, bounds validator.Bounds) *Queue {
	flagged := make(map[int][]validator.RuleGroup)
	for _, g := range validator.Groups {
		for _, i := range rep.Invalid(g) {
			flagged[i] = append(flagged[i], g)
		}
	}

	indices := make([]int, 0, len(flagged))
	for i := range flagged {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	q := &Queue{
		byIndex:    make(map[int]int, len(indices)),
		directives: make(map[int]models.Directive),
	}
	for _, i := range indices {
		groups := flagged[i]
		var fields []string
		pressure, anthropometric := false, false
		for _, g := range groups {
			switch g {
			case validator.GroupRange, validator.GroupOrdering:
				pressure = true
			case validator.GroupAnthropometric:
				anthropometric = true
			}
		}
		if pressure {
			fields = append(fields, models.PressureFields...)
		}
		if anthropometric {
			fields = append(fields, models.AnthropometricFields...)
		}

		rec := records[i]
		q.byIndex[i] = len(q.cases)
		q.cases = append(q.cases, Case{
			Index:      i,
			Record:     rec,
			Groups:     groups,
			Fields:     fields,
			Violations: validator.Check(&rec, bounds),
		})
	}
	return q
}

// Len number of cases, resolved or not
func (q *Queue) Len() int { return len(q.cases) }

// Pending cases without a directive, in record order
func (q *Queue) Pending() []Case {
	var out []Case
	for _, c := range q.cases {
		if _, ok := q.directives[c.Index]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// Done every case has a directive
func (q *Queue) Done() bool {
	return len(q.directives) == len(q.cases)
}

// CaseForRecord finds the case of a record ID
func (q *Queue) CaseForRecord(id int64) (Case, bool) {
	for _, c := range q.cases {
		if c.Record.ID == id {
			return c, true
		}
	}
	return Case{}, false
}

// Resolve validates and stores the directive of the case at index.
// Resolving an already decided case replaces the earlier directive.
func (q *Queue) Resolve(index int, d models.Directive) error {
	pos, ok := q.byIndex[index]
	if !ok {
		return fmt.Errorf("%w at index %d", ErrNoCase, index)
	}
	c := q.cases[pos]
	d.RecordID = c.Record.ID

	switch d.Kind {
	case models.DirectiveDelete:
		d.Field, d.Value = "", 0
	case models.DirectiveCorrect:
		if !c.Accepts(d.Field) {
			return fmt.Errorf("%w: field %q not offered for record %d (choose from %v)",
				ErrRejectedDirective, d.Field, c.Record.ID, c.Fields)
		}
		if math.IsNaN(d.Value) || math.IsInf(d.Value, 0) {
			return fmt.Errorf("%w: value for record %d is not finite", ErrRejectedDirective, c.Record.ID)
		}
	default:
		return fmt.Errorf("%w: kind %q for record %d", ErrRejectedDirective, string(d.Kind), c.Record.ID)
	}

	q.directives[index] = d
	return nil
}

// Directives decisions keyed by record index (copy)
func (q *Queue) Directives() map[int]models.Directive {
	out := make(map[int]models.Directive, len(q.directives))
	for k, v := range q.directives {
		out[k] = v
	}
	return out
}
