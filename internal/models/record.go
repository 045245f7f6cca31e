package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record one patient-visit measurement event (one element of the raw JSON array).
// Nullable source fields are pointers; json null decodes to nil.
type Record struct {
	ID           int64      `json:"id"`
	PersonalID   PersonalID `json:"personalId"`
	CreationDate *Timestamp `json:"creationDate"`
	Birthday     *Timestamp `json:"birthday"`

	// Anthropometrics
	Gender   *string  `json:"gender"`
	Height   *float64 `json:"height"` // cm
	Weight   *float64 `json:"weight"` // kg
	BMI      *float64 `json:"bmi"`
	ArmSize  *float64 `json:"armSize"` // cm
	CuffType *string  `json:"cuffType"`

	// Categorical
	RhythmDisorder     *string `json:"rhythmDisorder"`
	Hypertension       *string `json:"hypertension"`
	HypertensionClassA *string `json:"hypertensionClassA"`
	HypertensionClassO *string `json:"hypertensionClassO"`
	Method             *string `json:"method"`

	// Medications is carried through loading only; it is never exported.
	Medications json.RawMessage `json:"medications,omitempty"`

	// Pressures (mmHg); A = auscultatory, O = oscillometric
	SysPressureA  *float64 `json:"sysPressureA"`
	DiasPressureA *float64 `json:"diasPressureA"`
	SysPressureO  *float64 `json:"sysPressureO"`
	DiasPressureO *float64 `json:"diasPressureO"`
	MeanPressureO *float64 `json:"meanPressureO"`

	// Derived during cleaning
	Age        *int `json:"-"`
	Incomplete bool `json:"-"`
}

// PersonalID raw personal identifier; the source exports it either as a
// number or as a string, both decode to the same textual form.
type PersonalID string

// UnmarshalJSON accepts numbers and strings
func (p *PersonalID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*p = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("personalId: %w", err)
		}
		*p = PersonalID(strings.TrimSpace(v))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("personalId: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*p = PersonalID(strconv.FormatInt(i, 10))
		return nil
	}
	// 7 and 7.0 are the same patient
	if f, err := n.Float64(); err == nil && math.Abs(f) < 1<<53 && f == math.Trunc(f) {
		*p = PersonalID(strconv.FormatInt(int64(f), 10))
		return nil
	}
	*p = PersonalID(n.String())
	return nil
}

// Float returns a pointer to v
func Float(v float64) *float64 { return &v }

// String returns a pointer to v
func String(v string) *string { return &v }

// Int returns a pointer to v
func Int(v int) *int { return &v }
