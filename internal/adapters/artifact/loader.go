// Package artifact loads the externally trained transformer and classifier
// from JSON documents exported by the training pipeline.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/okian/diabcheck/internal/domain/inference"
)

// Load reads both artifacts and returns a ready Adapter. It is the only place
// artifacts are read; callers pass the result down explicitly.
func Load(ctx context.Context, transformerPath, classifierPath string) (*inference.Adapter, error) {
	t, err := LoadTransformer(ctx, transformerPath)
	if err != nil {
		return nil, err
	}
	c, err := LoadClassifier(ctx, classifierPath)
	if err != nil {
		return nil, err
	}
	if len(t.Columns()) != c.Features() {
		return nil, fmt.Errorf("transformer emits %d values but classifier expects %d: %w",
			len(t.Columns()), c.Features(), inference.ErrArtifactLoad)
	}
	return inference.NewAdapter(t, c)
}

// LoadTransformer reads a standard scaler document.
func LoadTransformer(_ context.Context, path string) (*StandardScaler, error) {
	var doc scalerDoc
	if err := readDocument(path, KindStandardScaler, &doc); err != nil {
		return nil, err
	}
	s, err := NewStandardScaler(doc.Columns, doc.Mean, doc.Scale)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadClassifier reads a logistic regression document.
func LoadClassifier(_ context.Context, path string) (*LogisticRegression, error) {
	var doc logRegDoc
	if err := readDocument(path, KindLogisticRegression, &doc); err != nil {
		return nil, err
	}
	m, err := NewLogisticRegression(doc.Coefficients, doc.Intercept, doc.Threshold)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// readDocument reads, validates and decodes one artifact file into dst.
func readDocument(path, name string, dst any) error {
	if path == "" {
		return fmt.Errorf("%s path is empty: %w", name, inference.ErrArtifactLoad)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", inference.ErrArtifactLoad, path, err)
	}
	if err := validateDocument(name, dst, raw); err != nil {
		return fmt.Errorf("%w: %s: %w", inference.ErrArtifactLoad, path, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: decode %s: %w", inference.ErrArtifactLoad, path, err)
	}
	return nil
}
