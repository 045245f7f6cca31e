package validator

import (
	"fmt"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
)

// Interval closed physiological range
type Interval struct {
	Min float64
	Max float64
}

// Contains reports Min <= v <= Max
func (i Interval) Contains(v float64) bool {
	return v >= i.Min && v <= i.Max
}

func (i Interval) String() string {
	return fmt.Sprintf("[%g, %g]", i.Min, i.Max)
}

// FieldBMI bounds key for body mass index
const FieldBMI = "bmi"

// Bounds physiological bounds keyed by operator field name
type Bounds map[string]Interval

// DefaultBounds bounds used for the study dataset (mmHg, kg/m²)
func DefaultBounds() Bounds {
	return Bounds{
		models.FieldSysA: {Min: 50, Max: 250},
		models.FieldDiaA: {Min: 30, Max: 150},
		models.FieldSysO: {Min: 50, Max: 250},
		models.FieldDiaO: {Min: 30, Max: 150},
		models.FieldMapO: {Min: 40, Max: 160},
		FieldBMI:         {Min: 15, Max: 60},
	}
}

// Validate checks that every pressure field and bmi has an interval with Min <= Max
func (b Bounds) Validate() error {
	for _, f := range append(append([]string{}, models.PressureFields...), FieldBMI) {
		iv, ok := b[f]
		if !ok {
			return fmt.Errorf("bounds: missing interval for %s", f)
		}
		if iv.Min > iv.Max {
			return fmt.Errorf("bounds: empty interval for %s %s", f, iv)
		}
	}
	return nil
}
