package exporter

import (
	"fmt"
	"io"
	"os"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
)

// Exporter writes the cleaned dataset to a sink
type Exporter interface {
	Name() string
	Export(w io.Writer, rows []models.OutputRecord) error
}

// Rows converts cleaned records into their exported shape
func Rows(records []models.Record) []models.OutputRecord {
	rows := make([]models.OutputRecord, len(records))
	for i := range records {
		rows[i] = records[i].ToOutput()
	}
	return rows
}

// WriteFile exports rows into path, creating or truncating it.
func WriteFile(path string, e Exporter, rows []models.OutputRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s output: %w", e.Name(), err)
	}
	if err := e.Export(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s output %s: %w", e.Name(), path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s output %s: %w", e.Name(), path, err)
	}
	return nil
}

// column one exported field for tabular sinks
type column struct {
	name  string
	width float64
	value func(r *models.OutputRecord) any
}

// columns tabular layout, same order as the JSON document
var columns = []column{
	{"id", 8, func(r *models.OutputRecord) any { return r.ID }},
	{"personalId", 12, func(r *models.OutputRecord) any { return r.PersonalID }},
	{"creationDate", 30, func(r *models.OutputRecord) any {
		if r.CreationDate == nil {
			return nil
		}
		return r.CreationDate.String()
	}},
	{"age", 6, func(r *models.OutputRecord) any { return intValue(r.Age) }},
	{"gender", 10, func(r *models.OutputRecord) any { return stringValue(r.Gender) }},
	{"height", 8, func(r *models.OutputRecord) any { return floatValue(r.Height) }},
	{"weight", 8, func(r *models.OutputRecord) any { return floatValue(r.Weight) }},
	{"bmi", 8, func(r *models.OutputRecord) any { return floatValue(r.BMI) }},
	{"armSize", 8, func(r *models.OutputRecord) any { return floatValue(r.ArmSize) }},
	{"cuffType", 14, func(r *models.OutputRecord) any { return stringValue(r.CuffType) }},
	{"rhythmDisorder", 14, func(r *models.OutputRecord) any { return stringValue(r.RhythmDisorder) }},
	{"hypertension", 14, func(r *models.OutputRecord) any { return stringValue(r.Hypertension) }},
	{"hypertensionClassA", 30, func(r *models.OutputRecord) any { return stringValue(r.HypertensionClassA) }},
	{"hypertensionClassO", 30, func(r *models.OutputRecord) any { return stringValue(r.HypertensionClassO) }},
	{"method", 20, func(r *models.OutputRecord) any { return stringValue(r.Method) }},
	{"sysPressureA", 12, func(r *models.OutputRecord) any { return r.SysPressureA }},
	{"diasPressureA", 12, func(r *models.OutputRecord) any { return r.DiasPressureA }},
	{"sysPressureO", 12, func(r *models.OutputRecord) any { return r.SysPressureO }},
	{"diasPressureO", 12, func(r *models.OutputRecord) any { return r.DiasPressureO }},
	{"meanPressureO", 12, func(r *models.OutputRecord) any { return r.MeanPressureO }},
	{"incomplete", 10, func(r *models.OutputRecord) any { return r.Incomplete }},
}

func stringValue(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func intValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
