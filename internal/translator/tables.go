package translator

import "github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"

// Categorical field names (JSON keys)
const (
	FieldGender             = "gender"
	FieldRhythmDisorder     = "rhythmDisorder"
	FieldHypertension       = "hypertension"
	FieldHypertensionClassA = "hypertensionClassA"
	FieldHypertensionClassO = "hypertensionClassO"
	FieldMethod             = "method"
	FieldCuffType           = "cuffType"
)

// Fields every translated categorical field, in export order
var Fields = []string{
	FieldGender,
	FieldCuffType,
	FieldRhythmDisorder,
	FieldHypertension,
	FieldHypertensionClassA,
	FieldHypertensionClassO,
	FieldMethod,
}

// Accessor returns the address of a categorical field of r
func Accessor(field string) (func(r *models.Record) **string, bool) {
	switch field {
	case FieldGender:
		return func(r *models.Record) **string { return &r.Gender }, true
	case FieldRhythmDisorder:
		return func(r *models.Record) **string { return &r.RhythmDisorder }, true
	case FieldHypertension:
		return func(r *models.Record) **string { return &r.Hypertension }, true
	case FieldHypertensionClassA:
		return func(r *models.Record) **string { return &r.HypertensionClassA }, true
	case FieldHypertensionClassO:
		return func(r *models.Record) **string { return &r.HypertensionClassO }, true
	case FieldMethod:
		return func(r *models.Record) **string { return &r.Method }, true
	case FieldCuffType:
		return func(r *models.Record) **string { return &r.CuffType }, true
	}
	return nil, false
}

var hypertensionClasses = map[string]string{
	"Optimální":                       "optimal",
	"Normální":                        "normal",
	"Vysoký normální":                 "high normal",
	"Hypertenze 1. stupně":            "grade 1 hypertension",
	"Hypertenze 2. stupně":            "grade 2 hypertension",
	"Hypertenze 3. stupně":            "grade 3 hypertension",
	"Izolovaná systolická hypertenze": "isolated systolic hypertension",
}

// BuiltinTables Czech form vocabulary -> English export vocabulary
var BuiltinTables = map[string]map[string]string{
	FieldGender: {
		"Muž":  "man",
		"Žena": "woman",
		"Jiné": "other",
	},
	FieldRhythmDisorder: {
		"Ano": "yes",
		"Ne":  "no",
	},
	FieldHypertension: {
		"Ano":      "yes",
		"Ne":       "no",
		"Neví":     "unknown",
		"Léčená":   "treated",
		"Neléčená": "untreated",
	},
	FieldHypertensionClassA: hypertensionClasses,
	FieldHypertensionClassO: hypertensionClasses,
	FieldMethod: {
		"Nejdříve auskultační":    "auscultatory first",
		"Nejdříve oscilometrická": "oscillometric first",
	},
	FieldCuffType: {
		"Dětská":   "child",
		"Malá":     "small adult",
		"Střední":  "adult",
		"Velká":    "large adult",
		"Stehenní": "thigh",
	},
}

// SourceVocabulary closed source enumeration of each field; values outside
// it (empty answers, "Neuvedeno", ...) are treated as missing.
func SourceVocabulary(field string) []string {
	table := BuiltinTables[field]
	out := make([]string, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	return out
}
