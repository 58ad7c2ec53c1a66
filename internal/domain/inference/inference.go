// Package inference defines the contract between an assembled feature row and
// the externally trained transformer and classifier.
package inference

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/diabcheck/internal/domain/features"
)

// Sentinel error kinds. These allow errors.Is from callers.
var (
	ErrArtifactLoad = errors.New("artifact load failed")
	ErrTransform    = errors.New("transform failed")
	ErrInference    = errors.New("inference failed")
)

// Label is the binary classifier output.
type Label int

const (
	NotDiabetic Label = 0
	Diabetic    Label = 1
)

// Message returns the fixed text shown for a prediction.
func (l Label) Message() string {
	if l == Diabetic {
		return "Based on your answers, you are predicted to be diabetic."
	}
	return "Based on your answers, you are predicted not to be diabetic."
}

// Valid reports whether l is one of the two defined labels.
func (l Label) Valid() bool { return l == NotDiabetic || l == Diabetic }

// Transformer rescales a feature row into the representation the classifier
// was trained on.
type Transformer interface {
	// Columns returns the ordered column names the transformer was fitted on.
	Columns() []string
	Transform(ctx context.Context, row features.Row) ([]float64, error)
}

// Classifier produces a label from a transformed row.
type Classifier interface {
	// Features returns the expected input width.
	Features() int
	Classify(ctx context.Context, x []float64) (Label, error)
}

// Predictor turns a feature row into a label.
type Predictor interface {
	Predict(ctx context.Context, row features.Row) (Label, error)
}

// Adapter chains a Transformer and a Classifier. Both are read-only after
// construction and safe to share between requests.
type Adapter struct {
	transformer Transformer
	classifier  Classifier
}

// NewAdapter returns an Adapter over loaded artifacts.
func NewAdapter(t Transformer, c Classifier) (*Adapter, error) {
	if t == nil {
		return nil, fmt.Errorf("transformer is nil: %w", ErrArtifactLoad)
	}
	if c == nil {
		return nil, fmt.Errorf("classifier is nil: %w", ErrArtifactLoad)
	}
	return &Adapter{transformer: t, classifier: c}, nil
}

// Predict transforms row and classifies the result. Nothing is retried.
func (a *Adapter) Predict(ctx context.Context, row features.Row) (Label, error) {
	if err := checkColumns(a.transformer.Columns()); err != nil {
		return NotDiabetic, err
	}

	x, err := a.transformer.Transform(ctx, row)
	if err != nil {
		if errors.Is(err, ErrTransform) {
			return NotDiabetic, err
		}
		return NotDiabetic, fmt.Errorf("%w: %w", ErrTransform, err)
	}

	if want := a.classifier.Features(); len(x) != want {
		return NotDiabetic, fmt.Errorf("transformed row has %d values, classifier expects %d: %w", len(x), want, ErrInference)
	}

	label, err := a.classifier.Classify(ctx, x)
	if err != nil {
		if errors.Is(err, ErrInference) {
			return NotDiabetic, err
		}
		return NotDiabetic, fmt.Errorf("%w: %w", ErrInference, err)
	}
	if !label.Valid() {
		return NotDiabetic, fmt.Errorf("classifier returned label %d: %w", label, ErrInference)
	}
	return label, nil
}

// checkColumns verifies the transformer was fitted on exactly the row schema.
func checkColumns(fitted []string) error {
	want := features.Columns()
	if len(fitted) != len(want) {
		return fmt.Errorf("transformer expects %d columns, row has %d: %w", len(fitted), len(want), ErrTransform)
	}
	for i := range want {
		if fitted[i] != want[i] {
			return fmt.Errorf("column %d: transformer expects %q, row has %q: %w", i, fitted[i], want[i], ErrTransform)
		}
	}
	return nil
}
