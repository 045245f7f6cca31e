package repository

import (
	"context"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/adjudication"
)

// VocabularyRepository source of the categorical translation tables,
// keyed by field then source value.
type VocabularyRepository interface {
	LoadTables(ctx context.Context) (map[string]map[string]string, error)
}

var (
	_ VocabularyRepository      = (*PostgresVocabularyRepository)(nil)
	_ adjudication.SessionStore = (*RedisSessionStore)(nil)
)
