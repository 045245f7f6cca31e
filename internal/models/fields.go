package models

// Value returns the numeric field addressed by an operator field name
func (r *Record) Value(field string) (*float64, bool) {
	switch field {
	case FieldSysA:
		return r.SysPressureA, true
	case FieldDiaA:
		return r.DiasPressureA, true
	case FieldSysO:
		return r.SysPressureO, true
	case FieldDiaO:
		return r.DiasPressureO, true
	case FieldMapO:
		return r.MeanPressureO, true
	case FieldWeight:
		return r.Weight, true
	case FieldHeight:
		return r.Height, true
	}
	return nil, false
}

// SetValue overwrites the numeric field addressed by an operator field name.
// It reports false for names outside the operator vocabulary.
func (r *Record) SetValue(field string, v float64) bool {
	switch field {
	case FieldSysA:
		r.SysPressureA = Float(v)
	case FieldDiaA:
		r.DiasPressureA = Float(v)
	case FieldSysO:
		r.SysPressureO = Float(v)
	case FieldDiaO:
		r.DiasPressureO = Float(v)
	case FieldMapO:
		r.MeanPressureO = Float(v)
	case FieldWeight:
		r.Weight = Float(v)
	case FieldHeight:
		r.Height = Float(v)
	default:
		return false
	}
	return true
}
