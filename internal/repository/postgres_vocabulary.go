package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// ErrEmptyVocabulary vocabulary_mapping holds no rows
var ErrEmptyVocabulary = errors.New("vocabulary mapping table is empty")

// PostgresVocabularyRepository reads translation tables from vocabulary_mapping
//
//	vocabulary_mapping(category text, source_value text, target_value text,
//	                   PRIMARY KEY (category, source_value))
type PostgresVocabularyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresVocabularyRepository creates the repository
func NewPostgresVocabularyRepository(db *sql.DB, logger *zap.Logger) *PostgresVocabularyRepository {
	return &PostgresVocabularyRepository{db: db, logger: logger}
}

// LoadTables returns every mapping grouped by category. Table validation
// (totality, injectivity) is left to the translator.
func (r *PostgresVocabularyRepository) LoadTables(ctx context.Context) (map[string]map[string]string, error) {
	query := `
		SELECT
			category,
			source_value,
			target_value
		FROM vocabulary_mapping
		ORDER BY category, source_value
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query vocabulary mapping: %w", err)
	}
	defer rows.Close()

	tables := make(map[string]map[string]string)
	count := 0
	for rows.Next() {
		var category, source string
		var target sql.NullString
		if err := rows.Scan(&category, &source, &target); err != nil {
			return nil, fmt.Errorf("failed to scan vocabulary mapping: %w", err)
		}
		if !target.Valid || target.String == "" {
			return nil, fmt.Errorf("vocabulary mapping %s/%q has no target value", category, source)
		}
		table, ok := tables[category]
		if !ok {
			table = make(map[string]string)
			tables[category] = table
		}
		if prev, dup := table[source]; dup && prev != target.String {
			return nil, fmt.Errorf("vocabulary mapping %s/%q maps to both %q and %q", category, source, prev, target.String)
		}
		table[source] = target.String
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vocabulary mapping: %w", err)
	}
	if count == 0 {
		return nil, ErrEmptyVocabulary
	}

	r.logger.Debug("Loaded vocabulary mapping",
		zap.Int("categories", len(tables)),
		zap.Int("entries", count),
	)
	return tables, nil
}

// SeedTables inserts tables into vocabulary_mapping in one transaction.
// Existing (category, source_value) rows are left untouched. It returns the
// number of inserted rows.
func (r *PostgresVocabularyRepository) SeedTables(ctx context.Context, tables map[string]map[string]string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vocabulary_mapping (category, source_value, target_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (category, source_value) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare vocabulary insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, category := range sortedKeys(tables) {
		table := tables[category]
		for _, source := range sortedKeys(table) {
			res, err := stmt.ExecContext(ctx, category, source, table[source])
			if err != nil {
				return 0, fmt.Errorf("failed to insert vocabulary mapping %s/%q: %w", category, source, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return 0, fmt.Errorf("failed to get rows affected: %w", err)
			}
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit vocabulary seed: %w", err)
	}
	r.logger.Info("Seeded vocabulary mapping", zap.Int("inserted", inserted))
	return inserted, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
