// Package service sequences the survey encoder, the feature assembler and the
// inference adapter, and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/diabcheck/internal/domain/features"
	"github.com/okian/diabcheck/internal/domain/inference"
	"github.com/okian/diabcheck/internal/domain/survey"
	"github.com/okian/diabcheck/pkg/logger"
	"github.com/okian/diabcheck/pkg/metrics"
)

// Form is the catalog the presentation layer renders.
type Form struct {
	Title        string            `json:"title"`
	Instructions string            `json:"instructions"`
	Questions    []survey.Question `json:"questions"`
}

// Outcome is the result of one successful prediction.
type Outcome struct {
	ID      uuid.UUID       `json:"id"`
	Label   inference.Label `json:"prediction"`
	Message string          `json:"message"`
	Row     features.Row    `json:"features"`
}

// Service implements the API dependencies for the survey predictor.
type Service struct {
	mu sync.RWMutex

	predictor    inference.Predictor
	title        string
	instructions string

	started bool
	logger  logger.Logger

	requests    atomic.Int64
	predictions [2]atomic.Int64
	errorsMu    sync.Mutex
	errorKinds  map[string]int64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPredictor sets the loaded inference adapter.
func WithPredictor(p inference.Predictor) Option {
	return func(s *Service) {
		if p != nil {
			s.predictor = p
		}
	}
}

// WithTitle overrides the form title and instructions.
func WithTitle(title, instructions string) Option {
	return func(s *Service) {
		if title != "" {
			s.title = title
		}
		if instructions != "" {
			s.instructions = instructions
		}
	}
}

// New constructs a new Service.
func New(opts ...Option) *Service {
	s := &Service{
		title:        survey.Title,
		instructions: survey.Instructions,
		errorKinds:   make(map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start marks the service ready. It fails when no predictor was supplied.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.predictor == nil {
		metrics.SetArtifactsLoaded(false)
		return fmt.Errorf("service has no predictor: %w", inference.ErrArtifactLoad)
	}

	s.started = true
	metrics.SetArtifactsLoaded(true)
	s.logger.Info(ctx, "survey service started",
		logger.Int("questions", survey.Len()),
		logger.Int("columns", features.NumColumns),
	)
	return nil
}

// Stop marks the service stopped. Loaded artifacts are left untouched.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	metrics.SetArtifactsLoaded(false)
	s.logger.Info(context.Background(), "survey service stopped")
}

// Ready reports whether the service can serve predictions.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Questions returns a copy of the questionnaire in column order.
func (s *Service) Questions() []survey.Question {
	return survey.Questions()
}

// Form returns the title, instructions and questions.
func (s *Service) Form() Form {
	return Form{Title: s.title, Instructions: s.instructions, Questions: s.Questions()}
}

// Predict encodes answers in column order, assembles a row and classifies it.
// Unknown and missing keys change the answer count and fail with
// features.ErrSchemaMismatch.
func (s *Service) Predict(ctx context.Context, answers map[string]survey.Raw) (Outcome, error) {
	s.requests.Add(1)

	s.mu.RLock()
	started, predictor, log := s.started, s.predictor, s.logger
	s.mu.RUnlock()
	if !started {
		return Outcome{}, s.fail(ctx, log, fmt.Errorf("service not started: %w", inference.ErrArtifactLoad))
	}

	id := uuid.New()
	log = log.With(logger.String("request_id", id.String()))

	if err := checkKeys(answers); err != nil {
		return Outcome{}, s.fail(ctx, log, err)
	}

	questions := survey.Questions()
	codes := make([]float64, 0, len(questions))
	for _, q := range questions {
		code, err := q.Encode(answers[q.Key])
		if err != nil {
			return Outcome{}, s.fail(ctx, log, err)
		}
		codes = append(codes, code)
	}

	row, err := features.Assemble(codes)
	if err != nil {
		return Outcome{}, s.fail(ctx, log, err)
	}

	start := time.Now()
	label, err := predictor.Predict(ctx, row)
	metrics.RecordInferenceLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err == nil && !label.Valid() {
		err = fmt.Errorf("predictor returned label %d: %w", label, inference.ErrInference)
	}
	if err != nil {
		return Outcome{}, s.fail(ctx, log, err)
	}

	s.predictions[label].Add(1)
	metrics.RecordPrediction(strconv.Itoa(int(label)))
	log.Debug(ctx, "prediction served", logger.Int("label", int(label)))

	return Outcome{ID: id, Label: label, Message: label.Message(), Row: row}, nil
}

// checkKeys rejects answer sets whose keys differ from the catalog.
func checkKeys(answers map[string]survey.Raw) error {
	var unknown, missing []string
	for key := range answers {
		if _, ok := survey.Lookup(key); !ok {
			unknown = append(unknown, key)
		}
	}
	for _, col := range features.Columns() {
		if _, ok := answers[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(unknown) == 0 && len(missing) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("got %d answers, want %d (unknown %v, missing %v): %w",
		len(answers), features.NumColumns, unknown, missing, features.ErrSchemaMismatch)
}

// fail logs and counts err, then returns it unchanged.
func (s *Service) fail(ctx context.Context, log logger.Logger, err error) error {
	kind := KindOf(err)

	s.errorsMu.Lock()
	s.errorKinds[kind]++
	s.errorsMu.Unlock()
	metrics.RecordPredictionError(kind)

	if log == nil {
		log = logger.Get()
	}
	fields := []logger.Field{logger.String("kind", kind), logger.Error(err)}
	switch kind {
	case KindTransform, KindInference, KindArtifactUnavailable, KindInternal:
		log.Error(ctx, "prediction failed", fields...)
	default:
		log.Warn(ctx, "answers rejected", fields...)
	}
	return err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	s.errorsMu.Lock()
	errs := make(map[string]int64, len(s.errorKinds))
	for k, v := range s.errorKinds {
		errs[k] = v
	}
	s.errorsMu.Unlock()

	return map[string]interface{}{
		"started":  started,
		"requests": s.requests.Load(),
		"predictions": map[string]int64{
			"not_diabetic": s.predictions[inference.NotDiabetic].Load(),
			"diabetic":     s.predictions[inference.Diabetic].Load(),
		},
		"errors": errs,
	}
}

// Error kinds shared by logs, metrics and the HTTP API.
const (
	KindUnknownOption       = "unknown_option"
	KindNotNumeric          = "not_numeric"
	KindUnknownQuestion     = "unknown_question"
	KindSchemaMismatch      = "schema_mismatch"
	KindTransform           = "transform_error"
	KindInference           = "inference_error"
	KindArtifactUnavailable = "artifact_unavailable"
	KindInternal            = "internal_error"
)

// KindOf classifies err into one of the Kind constants.
func KindOf(err error) string {
	switch {
	case errors.Is(err, survey.ErrUnknownOption):
		return KindUnknownOption
	case errors.Is(err, survey.ErrNotNumeric):
		return KindNotNumeric
	case errors.Is(err, survey.ErrUnknownQuestion):
		return KindUnknownQuestion
	case errors.Is(err, features.ErrSchemaMismatch):
		return KindSchemaMismatch
	case errors.Is(err, inference.ErrTransform):
		return KindTransform
	case errors.Is(err, inference.ErrInference):
		return KindInference
	case errors.Is(err, inference.ErrArtifactLoad):
		return KindArtifactUnavailable
	default:
		return KindInternal
	}
}
