package artifact

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/okian/diabcheck/internal/domain/features"
	"github.com/okian/diabcheck/internal/domain/inference"
)

// KindStandardScaler identifies a standardizing transformer document.
const KindStandardScaler = "standard_scaler"

// scalerDoc is the on-disk form of a fitted standard scaler.
type scalerDoc struct {
	Kind    string    `json:"kind" jsonschema:"enum=standard_scaler"`
	Columns []string  `json:"columns" jsonschema:"minItems=1"`
	Mean    []float64 `json:"mean" jsonschema:"minItems=1"`
	Scale   []float64 `json:"scale" jsonschema:"minItems=1"`
}

// StandardScaler centers each column on its fitted mean and divides by its
// fitted scale.
type StandardScaler struct {
	columns []string
	mean    *mat.VecDense
	scale   *mat.VecDense
}

var _ inference.Transformer = (*StandardScaler)(nil)

// NewStandardScaler validates fitted parameters and returns a scaler.
func NewStandardScaler(columns []string, mean, scale []float64) (*StandardScaler, error) {
	n := len(columns)
	switch {
	case n == 0:
		return nil, fmt.Errorf("scaler has no columns: %w", inference.ErrArtifactLoad)
	case len(mean) != n:
		return nil, fmt.Errorf("scaler has %d columns but %d means: %w", n, len(mean), inference.ErrArtifactLoad)
	case len(scale) != n:
		return nil, fmt.Errorf("scaler has %d columns but %d scales: %w", n, len(scale), inference.ErrArtifactLoad)
	}
	for i, s := range scale {
		if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("scale for %s is %v: %w", columns[i], s, inference.ErrArtifactLoad)
		}
		if math.IsNaN(mean[i]) || math.IsInf(mean[i], 0) {
			return nil, fmt.Errorf("mean for %s is %v: %w", columns[i], mean[i], inference.ErrArtifactLoad)
		}
	}

	return &StandardScaler{
		columns: append([]string(nil), columns...),
		mean:    mat.NewVecDense(n, append([]float64(nil), mean...)),
		scale:   mat.NewVecDense(n, append([]float64(nil), scale...)),
	}, nil
}

// Columns returns the fitted column order.
func (s *StandardScaler) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Transform returns (row - mean) / scale.
func (s *StandardScaler) Transform(_ context.Context, row features.Row) ([]float64, error) {
	if row.Len() != len(s.columns) {
		return nil, fmt.Errorf("row has %d values, scaler expects %d: %w", row.Len(), len(s.columns), inference.ErrTransform)
	}

	x := mat.NewVecDense(row.Len(), row.Values())
	var out mat.VecDense
	out.SubVec(x, s.mean)
	out.DivElemVec(&out, s.scale)

	result := make([]float64, out.Len())
	for i := range result {
		v := out.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("column %s transformed to %v: %w", s.columns[i], v, inference.ErrTransform)
		}
		result[i] = v
	}
	return result, nil
}
