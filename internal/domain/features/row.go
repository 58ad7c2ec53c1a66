// Package features assembles encoded survey answers into the fixed-order
// feature row consumed by the trained transformer.
//
// The column order is a binary contract with the externally trained model. It
// must not be permuted, renamed or resized without retraining.
package features

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// NumColumns is the width of every feature row.
const NumColumns = 23

// ErrSchemaMismatch reports an answer count that differs from the column count.
var ErrSchemaMismatch = errors.New("schema mismatch")

var columns = [NumColumns]string{
	"general_health",
	"physical_health_days",
	"mental_health_days",
	"has_health_plan",
	"meets_aerobic_guidelines",
	"physical_activity_150min",
	"muscle_strengthening",
	"high_blood_pressure",
	"high_cholesterol",
	"heart_disease",
	"lifetime_asthma",
	"arthritis",
	"sex",
	"age",
	"height_inches",
	"bmi",
	"education_level",
	"income_group",
	"smoking_status",
	"alcohol_consumption",
	"binge_drinking",
	"heavy_drinking",
	"difficulty_walking",
}

// Columns returns the column names in row order.
func Columns() []string {
	out := make([]string, NumColumns)
	copy(out, columns[:])
	return out
}

// Row is one encoded survey. Position i always holds column i.
type Row struct {
	values [NumColumns]float64
}

// Assemble builds a Row from answers already ordered by Columns.
func Assemble(answers []float64) (Row, error) {
	if len(answers) != NumColumns {
		return Row{}, fmt.Errorf("got %d answers, want %d: %w", len(answers), NumColumns, ErrSchemaMismatch)
	}
	var r Row
	copy(r.values[:], answers)
	return r, nil
}

// Len returns the row width.
func (r Row) Len() int { return NumColumns }

// Values returns a copy of the encoded values in column order.
func (r Row) Values() []float64 {
	out := make([]float64, NumColumns)
	copy(out, r.values[:])
	return out
}

// At returns the value at position i.
func (r Row) At(i int) float64 { return r.values[i] }

// Get returns the value for a named column.
func (r Row) Get(name string) (float64, bool) {
	for i, c := range columns {
		if c == name {
			return r.values[i], true
		}
	}
	return 0, false
}

// MarshalJSON writes the row as an object whose keys follow column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
