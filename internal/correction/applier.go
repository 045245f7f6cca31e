package correction

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/store"

	"go.uber.org/zap"
)

var (
	// ErrUnknownField correct directive names a field outside the operator vocabulary
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownDirective directive kind is neither delete nor correct
	ErrUnknownDirective = errors.New("unknown directive")
	// ErrIndexOutOfRange directive index does not address a record
	ErrIndexOutOfRange = errors.New("record index out of range")
)

// Result summary of one apply pass
type Result struct {
	Corrected int
	Deleted   int
}

// Applier applies adjudication directives to the record store
type Applier struct {
	logger *zap.Logger
}

// NewApplier creates a correction applier
func NewApplier(logger *zap.Logger) *Applier {
	return &Applier{logger: logger}
}

// Apply executes directives keyed by record index. Every directive is
// checked before any record changes, so a rejected batch leaves the store
// untouched. Corrections are applied in place and bmi is recomputed when
// height or weight changes. Deletions are removed in one filter step at the
// end so indices stay stable during the pass.
func (a *Applier) Apply(s *store.Store, directives map[int]models.Directive) (Result, error) {
	var res Result
	for _, idx := range sortedIndices(directives) {
		if err := check(s, idx, directives[idx]); err != nil {
			return res, err
		}
	}

	deletions := make(map[int]struct{})
	for _, idx := range sortedIndices(directives) {
		d := directives[idx]
		rec := s.At(idx)
		switch d.Kind {
		case models.DirectiveDelete:
			deletions[idx] = struct{}{}
		case models.DirectiveCorrect:
			if err := Correct(rec, d.Field, d.Value); err != nil {
				return res, fmt.Errorf("directive %s: %w", d, err)
			}
			res.Corrected++
			a.logger.Debug("Applied correction",
				zap.Int64("record_id", rec.ID),
				zap.String("field", d.Field),
				zap.Float64("value", d.Value),
			)
		}
	}

	res.Deleted = s.RemoveIndices(deletions)
	return res, nil
}

// check reports whether d can be applied to the record at idx without
// modifying anything
func check(s *store.Store, idx int, d models.Directive) error {
	if idx < 0 || idx >= s.Len() {
		return fmt.Errorf("directive %s: %w (%d)", d, ErrIndexOutOfRange, idx)
	}
	rec := s.At(idx)
	if d.RecordID != 0 && d.RecordID != rec.ID {
		return fmt.Errorf("directive %s addresses record %d at index %d", d, rec.ID, idx)
	}
	switch d.Kind {
	case models.DirectiveDelete:
		return nil
	case models.DirectiveCorrect:
		if err := checkValue(d.Field, d.Value); err != nil {
			return fmt.Errorf("directive %s: %w", d, err)
		}
		if _, ok := rec.Value(d.Field); !ok {
			return fmt.Errorf("directive %s: %w %q", d, ErrUnknownField, d.Field)
		}
		return nil
	default:
		return fmt.Errorf("directive %s: %w", d, ErrUnknownDirective)
	}
}

func checkValue(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("value for %s is not finite", field)
	}
	return nil
}

func sortedIndices(directives map[int]models.Directive) []int {
	idx := make([]int, 0, len(directives))
	for i := range directives {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// Correct overwrites one field and refreshes dependent values
func Correct(r *models.Record, field string, value float64) error {
	if err := checkValue(field, value); err != nil {
		return err
	}
	if !r.SetValue(field, value) {
		return fmt.Errorf("%w %q", ErrUnknownField, field)
	}
	if field == models.FieldHeight || field == models.FieldWeight {
		r.BMI = ComputeBMI(r.Height, r.Weight)
	}
	return nil
}
