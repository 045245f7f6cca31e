package correction

import (
	"math"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
)

// ComputeBMI weight(kg) / height(m)², rounded to two decimals.
// Nil when either input is missing or zero.
func ComputeBMI(heightCm, weightKg *float64) *float64 {
	if heightCm == nil || weightKg == nil || *heightCm == 0 || *weightKg == 0 {
		return nil
	}
	m := *heightCm / 100
	bmi := math.Round(*weightKg/(m*m)*100) / 100
	return &bmi
}

// RepairStats counts of anthropometric repairs
type RepairStats struct {
	BMIRecomputed   int
	BMICleared      int
	CuffTypeCleared int
}

// RepairAnthropometrics makes bmi consistent with height and weight and
// clears cuffType where armSize is unknown.
func RepairAnthropometrics(records []models.Record) RepairStats {
	var st RepairStats
	for i := range records {
		r := &records[i]

		bmi := ComputeBMI(r.Height, r.Weight)
		switch {
		case bmi == nil && r.BMI != nil:
			st.BMICleared++
		case bmi != nil && (r.BMI == nil || *r.BMI != *bmi):
			st.BMIRecomputed++
		}
		r.BMI = bmi

		if r.ArmSize == nil && r.CuffType != nil {
			r.CuffType = nil
			st.CuffTypeCleared++
		}
	}
	return st
}
