package models

// OutputRecord exported shape of a cleaned record. Field order follows the
// raw input: birthday is replaced by age in place, medications is dropped and
// incomplete is appended.
type OutputRecord struct {
	ID           int64      `json:"id"`
	PersonalID   string     `json:"personalId"`
	CreationDate *Timestamp `json:"creationDate"`
	Age          *int       `json:"age"`

	Gender   *string  `json:"gender"`
	Height   *float64 `json:"height"`
	Weight   *float64 `json:"weight"`
	BMI      *float64 `json:"bmi"`
	ArmSize  *float64 `json:"armSize"`
	CuffType *string  `json:"cuffType"`

	RhythmDisorder     *string `json:"rhythmDisorder"`
	Hypertension       *string `json:"hypertension"`
	HypertensionClassA *string `json:"hypertensionClassA"`
	HypertensionClassO *string `json:"hypertensionClassO"`
	Method             *string `json:"method"`

	SysPressureA  float64 `json:"sysPressureA"`
	DiasPressureA float64 `json:"diasPressureA"`
	SysPressureO  float64 `json:"sysPressureO"`
	DiasPressureO float64 `json:"diasPressureO"`
	MeanPressureO float64 `json:"meanPressureO"`

	Incomplete bool `json:"incomplete"`
}

// ToOutput converts a cleaned record. Pressures are non-null after
// validation; a nil pressure here exports as 0.
func (r *Record) ToOutput() OutputRecord {
	return OutputRecord{
		ID:                 r.ID,
		PersonalID:         string(r.PersonalID),
		CreationDate:       r.CreationDate,
		Age:                r.Age,
		Gender:             r.Gender,
		Height:             r.Height,
		Weight:             r.Weight,
		BMI:                r.BMI,
		ArmSize:            r.ArmSize,
		CuffType:           r.CuffType,
		RhythmDisorder:     r.RhythmDisorder,
		Hypertension:       r.Hypertension,
		HypertensionClassA: r.HypertensionClassA,
		HypertensionClassO: r.HypertensionClassO,
		Method:             r.Method,
		SysPressureA:       deref(r.SysPressureA),
		DiasPressureA:      deref(r.DiasPressureA),
		SysPressureO:       deref(r.SysPressureO),
		DiasPressureO:      deref(r.DiasPressureO),
		MeanPressureO:      deref(r.MeanPressureO),
		Incomplete:         r.Incomplete,
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
