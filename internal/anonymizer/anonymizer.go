package anonymizer

import (
	"errors"
	"fmt"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
)

const (
	tokenPrefix = "pac_"
	// MaxPatients capacity of the zero-padded 4-digit token
	MaxPatients = 9999
)

var (
	// ErrTokenOverflow more distinct patients than the token width can hold
	ErrTokenOverflow = errors.New("anonymization token overflow")
	// ErrEmptyID record without a personal identifier
	ErrEmptyID = errors.New("empty personal identifier")
)

// Anonymizer assigns pac_0001, pac_0002, ... to raw identifiers in order of
// first appearance. The same raw ID always gets the same token.
type Anonymizer struct {
	tokens map[models.PersonalID]string
	order  []models.PersonalID
}

// New creates an empty anonymizer
func New() *Anonymizer {
	return &Anonymizer{tokens: make(map[models.PersonalID]string)}
}

// Token returns the token of raw, assigning the next one on first sight
func (a *Anonymizer) Token(raw models.PersonalID) (string, error) {
	if raw == "" {
		return "", ErrEmptyID
	}
	if tok, ok := a.tokens[raw]; ok {
		return tok, nil
	}
	if len(a.order) >= MaxPatients {
		return "", fmt.Errorf("%w: patient %d exceeds %d", ErrTokenOverflow, len(a.order)+1, MaxPatients)
	}
	a.order = append(a.order, raw)
	tok := fmt.Sprintf("%s%04d", tokenPrefix, len(a.order))
	a.tokens[raw] = tok
	return tok, nil
}

// Anonymize maps a column of raw identifiers to tokens
func (a *Anonymizer) Anonymize(raw []models.PersonalID) ([]string, error) {
	out := make([]string, len(raw))
	for i, id := range raw {
		tok, err := a.Token(id)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = tok
	}
	return out, nil
}

// Patients number of distinct identifiers seen
func (a *Anonymizer) Patients() int { return len(a.order) }
