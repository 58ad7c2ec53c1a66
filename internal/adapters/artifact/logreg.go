package artifact

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/okian/diabcheck/internal/domain/inference"
)

// Logistic regression defaults.
const (
	KindLogisticRegression = "logistic_regression"
	defaultThreshold       = 0.5
)

// logRegDoc is the on-disk form of a trained logistic regression.
type logRegDoc struct {
	Kind         string    `json:"kind" jsonschema:"enum=logistic_regression"`
	Coefficients []float64 `json:"coefficients" jsonschema:"minItems=1"`
	Intercept    float64   `json:"intercept"`
	Threshold    float64   `json:"threshold,omitempty" jsonschema:"exclusiveMinimum=0,exclusiveMaximum=1"`
}

// LogisticRegression classifies by thresholding sigmoid(w·x + b).
type LogisticRegression struct {
	coef      *mat.VecDense
	intercept float64
	threshold float64
}

var _ inference.Classifier = (*LogisticRegression)(nil)

// NewLogisticRegression validates trained parameters. A zero threshold
// selects the default of 0.5.
func NewLogisticRegression(coef []float64, intercept, threshold float64) (*LogisticRegression, error) {
	if len(coef) == 0 {
		return nil, fmt.Errorf("classifier has no coefficients: %w", inference.ErrArtifactLoad)
	}
	for i, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficient %d is %v: %w", i, c, inference.ErrArtifactLoad)
		}
	}
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, fmt.Errorf("intercept is %v: %w", intercept, inference.ErrArtifactLoad)
	}
	if threshold == 0 {
		threshold = defaultThreshold
	}
	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("threshold %v outside (0, 1): %w", threshold, inference.ErrArtifactLoad)
	}

	return &LogisticRegression{
		coef:      mat.NewVecDense(len(coef), append([]float64(nil), coef...)),
		intercept: intercept,
		threshold: threshold,
	}, nil
}

// Features returns the number of coefficients.
func (m *LogisticRegression) Features() int { return m.coef.Len() }

// Classify returns Diabetic when the predicted probability reaches the
// threshold.
func (m *LogisticRegression) Classify(_ context.Context, x []float64) (inference.Label, error) {
	if len(x) != m.coef.Len() {
		return inference.NotDiabetic, fmt.Errorf("input has %d values, model expects %d: %w", len(x), m.coef.Len(), inference.ErrInference)
	}

	z := mat.Dot(m.coef, mat.NewVecDense(len(x), x)) + m.intercept
	p := sigmoid(z)
	if math.IsNaN(p) {
		return inference.NotDiabetic, fmt.Errorf("probability is NaN: %w", inference.ErrInference)
	}
	if p >= m.threshold {
		return inference.Diabetic, nil
	}
	return inference.NotDiabetic, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
