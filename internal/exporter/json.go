package exporter

import (
	"encoding/json"
	"io"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
)

// JSONExporter pretty-printed JSON array, non-ASCII text written as-is
type JSONExporter struct{}

func (JSONExporter) Name() string { return "json" }

func (JSONExporter) Export(w io.Writer, rows []models.OutputRecord) error {
	if rows == nil {
		rows = []models.OutputRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rows)
}
