package probe

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/diabcheck/internal/adapters/artifact"
	service "github.com/okian/diabcheck/internal/app"
	"github.com/okian/diabcheck/internal/domain/survey"
	"github.com/okian/diabcheck/pkg/logger"
)

// ReadAnswers loads an answers file. YAML and JSON are both accepted; the
// answers may sit at the top level or under an "answers" key. Choice labels
// that look like numbers, such as 0, need no quoting.
func ReadAnswers(path string) (map[string]survey.Raw, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAnswersFile, path, err)
	}

	raw := k.Raw()
	if nested, ok := raw["answers"].(map[string]interface{}); ok {
		raw = nested
	}

	answers := make(map[string]survey.Raw, len(raw))
	for key, v := range raw {
		convert := survey.FromValue
		if q, ok := survey.Lookup(key); ok {
			convert = q.ValueFor
		}
		r, err := convert(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrAnswersFile, key, err)
		}
		answers[key] = r
	}
	return answers, nil
}

// PredictFile loads the artifacts and predicts for the answers in path
// without a server.
func PredictFile(ctx context.Context, transformerPath, classifierPath, path string) (service.Outcome, error) {
	answers, err := ReadAnswers(path)
	if err != nil {
		return service.Outcome{}, err
	}

	adapter, err := artifact.Load(ctx, transformerPath, classifierPath)
	if err != nil {
		return service.Outcome{}, err
	}

	svc := service.New(service.WithPredictor(adapter), service.WithLogger(logger.Named("probe")))
	if err := svc.Start(ctx); err != nil {
		return service.Outcome{}, err
	}
	defer svc.Stop()

	return svc.Predict(ctx, answers)
}
