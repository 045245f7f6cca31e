package age

import (
	"fmt"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
)

// Stats result counters of a column derivation
type Stats struct {
	Derived       int
	MissingBirth  int
	YearCorrected int
}

// DeriveColumn ages for every record, nil where the birthday is unknown.
// A record without a creation timestamp but with a birthday is an error.
func DeriveColumn(records []models.Record) ([]*int, Stats, error) {
	var st Stats
	out := make([]*int, len(records))
	for i := range records {
		r := &records[i]
		if r.Birthday == nil {
			st.MissingBirth++
			continue
		}
		if r.CreationDate == nil {
			return nil, st, fmt.Errorf("record %d: %w creationDate", r.ID, ErrMissingTimestamp)
		}
		birth, corrected := CorrectBirthYear(r.Birthday.Time)
		if corrected {
			st.YearCorrected++
		}
		years, err := Years(r.CreationDate.Time, birth)
		if err != nil {
			return nil, st, fmt.Errorf("record %d: %w", r.ID, err)
		}
		out[i] = models.Int(years)
		st.Derived++
	}
	return out, st, nil
}
