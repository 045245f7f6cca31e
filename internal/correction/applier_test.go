package correction

import (
	"errors"
	"math"
	"testing"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore() *store.Store {
	return store.New([]models.Record{
		{ID: 100, SysPressureA: models.Float(120), DiasPressureA: models.Float(80), Height: models.Float(180), Weight: models.Float(80)},
		{ID: 101, SysPressureA: models.Float(1200), DiasPressureA: models.Float(80)},
		{ID: 102, SysPressureA: models.Float(130), DiasPressureA: models.Float(85), Height: models.Float(17.5), Weight: models.Float(70)},
		{ID: 103, SysPressureA: models.Float(140), DiasPressureA: models.Float(90)},
	})
}

func TestApply_CorrectAndDelete(t *testing.T) {
	s := newStore()
	a := NewApplier(zap.NewNop())

	res, err := a.Apply(s, map[int]models.Directive{
		1: {RecordID: 101, Kind: models.DirectiveCorrect, Field: models.FieldSysA, Value: 120},
		2: {RecordID: 102, Kind: models.DirectiveDelete},
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Corrected: 1, Deleted: 1}, res)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, int64(100), s.At(0).ID)
	assert.Equal(t, int64(101), s.At(1).ID)
	assert.Equal(t, 120.0, *s.At(1).SysPressureA)
	// survivors keep their values
	assert.Equal(t, int64(103), s.At(2).ID)
	assert.Equal(t, 140.0, *s.At(2).SysPressureA)
	assert.Equal(t, 90.0, *s.At(2).DiasPressureA)
}

func TestApply_HeightCorrectionRecomputesBMI(t *testing.T) {
	s := newStore()
	a := NewApplier(zap.NewNop())

	_, err := a.Apply(s, map[int]models.Directive{
		2: {Kind: models.DirectiveCorrect, Field: models.FieldHeight, Value: 175},
	})
	require.NoError(t, err)
	require.NotNil(t, s.At(2).BMI)
	assert.Equal(t, 22.86, *s.At(2).BMI)
}

func TestApply_UnknownFieldIsRejected(t *testing.T) {
	s := newStore()
	a := NewApplier(zap.NewNop())

	_, err := a.Apply(s, map[int]models.Directive{
		1: {Kind: models.DirectiveCorrect, Field: "SYSA", Value: 120},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownField))
	assert.Equal(t, 1200.0, *s.At(1).SysPressureA)
}

func TestApply_RejectsBadDirectives(t *testing.T) {
	a := NewApplier(zap.NewNop())

	_, err := a.Apply(newStore(), map[int]models.Directive{9: {Kind: models.DirectiveDelete}})
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))

	_, err = a.Apply(newStore(), map[int]models.Directive{0: {Kind: "1"}})
	assert.True(t, errors.Is(err, ErrUnknownDirective))

	_, err = a.Apply(newStore(), map[int]models.Directive{0: {RecordID: 555, Kind: models.DirectiveDelete}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "addresses record 100")

	s := newStore()
	_, err = a.Apply(s, map[int]models.Directive{
		0: {Kind: models.DirectiveDelete},
		1: {Kind: models.DirectiveCorrect, Field: models.FieldSysA, Value: math.NaN()},
	})
	require.Error(t, err)
	assert.Equal(t, 4, s.Len(), "nothing is removed when the pass fails")
}

func TestApply_RejectedBatchLeavesRecordsUntouched(t *testing.T) {
	s := newStore()
	a := NewApplier(zap.NewNop())

	_, err := a.Apply(s, map[int]models.Directive{
		0: {RecordID: 100, Kind: models.DirectiveCorrect, Field: models.FieldHeight, Value: 175},
		1: {RecordID: 101, Kind: models.DirectiveCorrect, Field: models.FieldSysA, Value: 120},
		2: {RecordID: 102, Kind: models.DirectiveCorrect, Field: "pulse", Value: 60},
		3: {RecordID: 103, Kind: models.DirectiveCorrect, Field: models.FieldDiaA, Value: 70},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownField))

	assert.Equal(t, 180.0, *s.At(0).Height)
	assert.Nil(t, s.At(0).BMI)
	assert.Equal(t, 1200.0, *s.At(1).SysPressureA)
	assert.Equal(t, 90.0, *s.At(3).DiasPressureA)
	assert.Equal(t, 4, s.Len())
}

func TestComputeBMI(t *testing.T) {
	assert.Equal(t, 24.69, *ComputeBMI(models.Float(180), models.Float(80)))
	assert.Nil(t, ComputeBMI(nil, models.Float(80)))
	assert.Nil(t, ComputeBMI(models.Float(180), nil))
	assert.Nil(t, ComputeBMI(models.Float(0), models.Float(80)))
	assert.Nil(t, ComputeBMI(models.Float(180), models.Float(0)))
}

func TestRepairAnthropometrics(t *testing.T) {
	records := []models.Record{
		{ID: 100, Height: models.Float(180), Weight: models.Float(80), BMI: models.Float(30), ArmSize: models.Float(31), CuffType: models.String("Střední")},
		{ID: 101, Height: nil, Weight: models.Float(80), BMI: models.Float(24), CuffType: models.String("Velká")},
		{ID: 102, Height: models.Float(180), Weight: models.Float(80), BMI: models.Float(24.69)},
	}

	st := RepairAnthropometrics(records)

	assert.Equal(t, RepairStats{BMIRecomputed: 1, BMICleared: 1, CuffTypeCleared: 1}, st)
	assert.Equal(t, 24.69, *records[0].BMI)
	assert.Equal(t, "Střední", *records[0].CuffType)
	assert.Nil(t, records[1].BMI)
	assert.Nil(t, records[1].CuffType)
	assert.Equal(t, 24.69, *records[2].BMI)
}
