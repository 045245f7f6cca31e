package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/translator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintExportVocabulary_SingleCategory(t *testing.T) {
	tr, err := translator.NewBuiltin()
	require.NoError(t, err)

	var buf bytes.Buffer
	printExportVocabulary(&buf, tr, translator.FieldRhythmDisorder)

	out := buf.String()
	assert.Contains(t, out, `"no"`)
	assert.Contains(t, out, `<- "Ne"`)
	assert.Contains(t, out, `<- "Ano"`)
	assert.NotContains(t, out, translator.FieldGender)
	assert.Less(t, strings.Index(out, `"no"`), strings.Index(out, `"yes"`))
}

func TestPrintExportVocabulary_AllFields(t *testing.T) {
	tr, err := translator.NewBuiltin()
	require.NoError(t, err)

	var buf bytes.Buffer
	printExportVocabulary(&buf, tr, "")

	for _, field := range translator.Fields {
		assert.Contains(t, buf.String(), field)
	}
}

func TestExtraKeys(t *testing.T) {
	got := map[string]string{"b": "1", "a": "2", "c": "3"}
	want := map[string]string{"b": "1"}
	assert.Equal(t, []string{"a", "c"}, extraKeys(got, want))
	assert.Empty(t, extraKeys(want, got))
}
