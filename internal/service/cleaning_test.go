package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/adjudication"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/config"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/store"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/translator"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const rawDataset = `[
  {"id": 103, "personalId": 9, "creationDate": "2025-06-01T10:00:00.000+02:00", "birthday": "2054-06-01T00:00:00.000+02:00",
   "gender": "Žena", "height": 165, "weight": 60, "bmi": 30, "armSize": 28, "cuffType": "Střední",
   "rhythmDisorder": "Ne", "hypertension": "Ano", "hypertensionClassA": "Normální", "hypertensionClassO": "Optimální",
   "method": "Nejdříve auskultační", "medications": ["x"],
   "sysPressureA": 120, "diasPressureA": 80, "sysPressureO": 124, "diasPressureO": 78, "meanPressureO": 93},
  {"id": 5, "personalId": 1, "creationDate": "2025-01-01T10:00:00.000+01:00",
   "sysPressureA": 120, "diasPressureA": 80, "sysPressureO": 124, "diasPressureO": 78, "meanPressureO": 93},
  {"id": 101, "personalId": "7", "creationDate": "2025-06-02T10:00:00.000+02:00", "birthday": null,
   "gender": "Muž", "height": 180, "weight": 80, "bmi": null, "armSize": null, "cuffType": "Velká",
   "sysPressureA": 1200, "diasPressureA": 80, "sysPressureO": 124, "diasPressureO": 78, "meanPressureO": 93},
  {"id": 102, "personalId": 3, "creationDate": "2025-06-03T10:00:00.000+02:00",
   "sysPressureA": 120, "diasPressureA": 130, "sysPressureO": 124, "diasPressureO": 78, "meanPressureO": 93},
  {"id": 100, "personalId": 7, "creationDate": "2025-06-01T09:00:00.000+02:00",
   "gender": "Jiné", "height": 170, "weight": 70, "armSize": 30, "cuffType": "Střední", "method": "Něco jiného",
   "sysPressureA": 130, "diasPressureA": 85, "sysPressureO": 128, "diasPressureO": 84, "meanPressureO": 99}
]`

type fakeSessionStore struct {
	saved   map[int64]models.Directive
	cleared []string
}

func (f *fakeSessionStore) LoadDirectives(ctx context.Context, sessionID string) (map[int64]models.Directive, error) {
	return map[int64]models.Directive{}, nil
}

func (f *fakeSessionStore) SaveDirective(ctx context.Context, sessionID string, d models.Directive) error {
	if f.saved == nil {
		f.saved = make(map[int64]models.Directive)
	}
	f.saved[d.RecordID] = d
	return nil
}

func (f *fakeSessionStore) Clear(ctx context.Context, sessionID string) error {
	f.cleared = append(f.cleared, sessionID)
	return nil
}

func setupService(t *testing.T, directives string, sessions adjudication.SessionStore) (*CleaningService, *config.Config) {
	t.Helper()
	dir := t.TempDir()

	input := filepath.Join(dir, "raw.json")
	require.NoError(t, os.WriteFile(input, []byte(rawDataset), 0o600))

	cfg := &config.Config{}
	cfg.Pipeline.InputPath = input
	cfg.Pipeline.OutputPath = filepath.Join(dir, "cleaned.json")
	cfg.Pipeline.XLSXOutputPath = filepath.Join(dir, "cleaned.xlsx")
	cfg.Pipeline.ParquetOutputPath = filepath.Join(dir, "cleaned.parquet")
	cfg.Pipeline.MinRecordID = 100

	prompter, err := adjudication.NewReplayPrompter(strings.NewReader(directives))
	require.NoError(t, err)

	tr, err := translator.NewBuiltin()
	require.NoError(t, err)

	svc, err := NewCleaningService(cfg, validator.DefaultBounds(), prompter, sessions, "session-1", tr, zap.NewNop())
	require.NoError(t, err)
	return svc, cfg
}

func readOutput(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestCleaningService_Run(t *testing.T) {
	sessions := &fakeSessionStore{}
	svc, cfg := setupService(t, `[
		{"recordId": 101, "kind": "2", "field": "sysA", "value": 120},
		{"recordId": 102, "kind": "0"}
	]`, sessions)

	sum, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, sum.Loaded)
	assert.Equal(t, 1, sum.TestEntries)
	assert.Equal(t, 2, sum.Flagged)
	assert.Equal(t, 1, sum.Corrected)
	assert.Equal(t, 1, sum.Deleted)
	assert.Equal(t, 2, sum.Patients)
	assert.Equal(t, 1, sum.AgesDerived)
	assert.Equal(t, 1, sum.Incomplete)
	assert.Equal(t, 3, sum.Exported)
	assert.Len(t, sum.Outputs, 3)

	assert.Len(t, sessions.saved, 2)
	assert.Equal(t, []string{"session-1"}, sessions.cleared)

	out := readOutput(t, cfg.Pipeline.OutputPath)
	require.Len(t, out, 3)

	assert.Equal(t, 100.0, out[0]["id"])
	assert.Equal(t, 101.0, out[1]["id"])
	assert.Equal(t, 103.0, out[2]["id"])

	assert.Equal(t, "pac_0001", out[0]["personalId"])
	assert.Equal(t, "pac_0001", out[1]["personalId"])
	assert.Equal(t, "pac_0002", out[2]["personalId"])

	assert.Equal(t, "other", out[0]["gender"])
	assert.Equal(t, "man", out[1]["gender"])
	assert.Equal(t, "woman", out[2]["gender"])
	assert.Nil(t, out[0]["method"])
	assert.Equal(t, "auscultatory first", out[2]["method"])
	assert.Equal(t, "adult", out[2]["cuffType"])

	assert.Equal(t, 120.0, out[1]["sysPressureA"])
	assert.Nil(t, out[1]["cuffType"])
	assert.Equal(t, true, out[1]["incomplete"])
	assert.Equal(t, false, out[2]["incomplete"])

	assert.Nil(t, out[0]["age"])
	assert.Equal(t, 71.0, out[2]["age"])
	assert.Equal(t, 22.04, out[2]["bmi"])
	assert.Equal(t, "2025-06-01T10:00:00.000+02:00", out[2]["creationDate"])
	_, hasBirthday := out[2]["birthday"]
	assert.False(t, hasBirthday)
	_, hasMedications := out[2]["medications"]
	assert.False(t, hasMedications)

	for _, p := range []string{cfg.Pipeline.XLSXOutputPath, cfg.Pipeline.ParquetOutputPath} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}

func TestCleaningService_IntegrityFailure(t *testing.T) {
	svc, cfg := setupService(t, `[
		{"recordId": 101, "kind": "2", "field": "diaA", "value": 70},
		{"recordId": 102, "kind": "0"}
	]`, nil)

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIntegrity))
	assert.Contains(t, err.Error(), "record 101")

	_, statErr := os.Stat(cfg.Pipeline.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCleaningService_MissingDirective(t *testing.T) {
	svc, cfg := setupService(t, `[{"recordId": 101, "kind": "0"}]`, nil)

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, adjudication.ErrNoDirective))

	_, statErr := os.Stat(cfg.Pipeline.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCleaningService_MissingInput(t *testing.T) {
	svc, cfg := setupService(t, `[]`, nil)
	cfg.Pipeline.InputPath = filepath.Join(t.TempDir(), "absent.json")

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input")
}

func TestNewCleaningService_RejectsIncompleteBounds(t *testing.T) {
	tr, err := translator.NewBuiltin()
	require.NoError(t, err)

	bounds := validator.DefaultBounds()
	delete(bounds, models.FieldMapO)

	svc, err := NewCleaningService(&config.Config{}, bounds, nil, nil, "s", tr, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "missing interval for mapO")
}

func TestCleaningService_DuplicateRecordID(t *testing.T) {
	svc, cfg := setupService(t, `[{"recordId": 101, "kind": "0"}]`, nil)
	dup := `[
	  {"id": 101, "personalId": 7, "sysPressureA": 1200, "diasPressureA": 80, "sysPressureO": 124, "diasPressureO": 78, "meanPressureO": 93},
	  {"id": 101, "personalId": 8, "sysPressureA": 120, "diasPressureA": 130, "sysPressureO": 124, "diasPressureO": 78, "meanPressureO": 93}
	]`
	require.NoError(t, os.WriteFile(cfg.Pipeline.InputPath, []byte(dup), 0o600))

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDuplicateID)

	_, statErr := os.Stat(cfg.Pipeline.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}
