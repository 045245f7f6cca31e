package exporter

import (
	"fmt"
	"io"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"

	"github.com/parquet-go/parquet-go"
)

// ParquetRow Parquet-compatible output row. Pointer fields are optional columns.
type ParquetRow struct {
	ID                 int64    `parquet:"id"`
	PersonalID         string   `parquet:"personal_id"`
	CreationDate       string   `parquet:"creation_date"`
	Age                *int64   `parquet:"age"`
	Gender             *string  `parquet:"gender"`
	Height             *float64 `parquet:"height"`
	Weight             *float64 `parquet:"weight"`
	BMI                *float64 `parquet:"bmi"`
	ArmSize            *float64 `parquet:"arm_size"`
	CuffType           *string  `parquet:"cuff_type"`
	RhythmDisorder     *string  `parquet:"rhythm_disorder"`
	Hypertension       *string  `parquet:"hypertension"`
	HypertensionClassA *string  `parquet:"hypertension_class_a"`
	HypertensionClassO *string  `parquet:"hypertension_class_o"`
	Method             *string  `parquet:"method"`
	SysPressureA       float64  `parquet:"sys_pressure_a"`
	DiasPressureA      float64  `parquet:"dias_pressure_a"`
	SysPressureO       float64  `parquet:"sys_pressure_o"`
	DiasPressureO      float64  `parquet:"dias_pressure_o"`
	MeanPressureO      float64  `parquet:"mean_pressure_o"`
	Incomplete         bool     `parquet:"incomplete"`
}

const parquetFlushInterval = 100_000

// ParquetExporter snappy-compressed Parquet file
type ParquetExporter struct{}

func (ParquetExporter) Name() string { return "parquet" }

func (ParquetExporter) Export(w io.Writer, rows []models.OutputRecord) error {
	writer := parquet.NewGenericWriter[ParquetRow](w,
		parquet.Compression(&parquet.Snappy),
	)

	batch := make([]ParquetRow, 0, min(len(rows), parquetFlushInterval))
	for i := range rows {
		batch = append(batch, toParquetRow(&rows[i]))
		if len(batch) == parquetFlushInterval {
			if _, err := writer.Write(batch); err != nil {
				return fmt.Errorf("failed to write parquet rows: %w", err)
			}
			// Flush row group periodically to bound memory usage
			if err := writer.Flush(); err != nil {
				return fmt.Errorf("failed to flush parquet row group: %w", err)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if _, err := writer.Write(batch); err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func toParquetRow(r *models.OutputRecord) ParquetRow {
	row := ParquetRow{
		ID:                 r.ID,
		PersonalID:         r.PersonalID,
		Gender:             r.Gender,
		Height:             r.Height,
		Weight:             r.Weight,
		BMI:                r.BMI,
		ArmSize:            r.ArmSize,
		CuffType:           r.CuffType,
		RhythmDisorder:     r.RhythmDisorder,
		Hypertension:       r.Hypertension,
		HypertensionClassA: r.HypertensionClassA,
		HypertensionClassO: r.HypertensionClassO,
		Method:             r.Method,
		SysPressureA:       r.SysPressureA,
		DiasPressureA:      r.DiasPressureA,
		SysPressureO:       r.SysPressureO,
		DiasPressureO:      r.DiasPressureO,
		MeanPressureO:      r.MeanPressureO,
		Incomplete:         r.Incomplete,
	}
	if r.CreationDate != nil {
		row.CreationDate = r.CreationDate.String()
	}
	if r.Age != nil {
		age := int64(*r.Age)
		row.Age = &age
	}
	return row
}
