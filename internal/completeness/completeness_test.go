package completeness

import (
	"testing"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIncomplete(t *testing.T) {
	missingHeight := models.Record{Height: nil, Weight: models.Float(70), ArmSize: models.Float(30)}
	assert.True(t, Incomplete(&missingHeight))

	complete := models.Record{Height: models.Float(170), Weight: models.Float(70), ArmSize: models.Float(30)}
	assert.False(t, Incomplete(&complete))

	missingArm := models.Record{Height: models.Float(170), Weight: models.Float(70)}
	assert.True(t, Incomplete(&missingArm))
}

func TestFlagAll(t *testing.T) {
	records := []models.Record{
		{ID: 1, Height: models.Float(170), Weight: models.Float(70), ArmSize: models.Float(30)},
		{ID: 2, Weight: models.Float(70), ArmSize: models.Float(30)},
		{ID: 3},
	}
	assert.Equal(t, 2, FlagAll(records))
	assert.False(t, records[0].Incomplete)
	assert.True(t, records[1].Incomplete)
	assert.True(t, records[2].Incomplete)
}
