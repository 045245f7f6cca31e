package completeness

import "github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"

// Incomplete true when armSize, height or weight is missing
func Incomplete(r *models.Record) bool {
	return r.ArmSize == nil || r.Height == nil || r.Weight == nil
}

// FlagAll sets the incomplete flag on every record and returns how many are incomplete
func FlagAll(records []models.Record) int {
	n := 0
	for i := range records {
		records[i].Incomplete = Incomplete(&records[i])
		if records[i].Incomplete {
			n++
		}
	}
	return n
}
