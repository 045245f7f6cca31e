package age

import (
	"errors"
	"fmt"
	"time"
)

// Birth-year data-entry patch: a two-digit year typed into the form was stored
// as 20xx. Only 2054 occurs in the dataset. Remove once the form is fixed.
const (
	misparsedBirthYear = 2054
	correctedBirthYear = 1954
)

var (
	// ErrNegativeAge birth timestamp after the creation timestamp
	ErrNegativeAge = errors.New("birth date after record creation")
	// ErrMissingTimestamp creation timestamp absent
	ErrMissingTimestamp = errors.New("missing timestamp")
)

// CorrectBirthYear rewrites the misparsed 2054 birth year to 1954 and reports
// whether it did.
func CorrectBirthYear(birth time.Time) (time.Time, bool) {
	if birth.Year() != misparsedBirthYear {
		return birth, false
	}
	return time.Date(correctedBirthYear, birth.Month(), birth.Day(),
		birth.Hour(), birth.Minute(), birth.Second(), birth.Nanosecond(), birth.Location()), true
}

// Years whole calendar years from birth to creation (floor). Both dates are
// read in the offset they were recorded in.
func Years(creation, birth time.Time) (int, error) {
	cy, cm, cd := creation.Date()
	by, bm, bd := birth.Date()

	years := cy - by
	if cm < bm || (cm == bm && cd < bd) {
		years--
	}
	if years < 0 {
		return 0, fmt.Errorf("%w: born %s, recorded %s", ErrNegativeAge,
			birth.Format("2006-01-02"), creation.Format("2006-01-02"))
	}
	return years, nil
}

// Derive applies the birth-year patch and computes the age
func Derive(creation, birth time.Time) (int, error) {
	birth, _ = CorrectBirthYear(birth)
	return Years(creation, birth)
}
