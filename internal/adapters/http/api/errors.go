package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/diabcheck/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotReady   = errors.New("predictor not ready")

	ErrTrailingData = errors.New("unexpected data after JSON body")
)

// KindError tags an error with the operation that produced it.
type KindError struct {
	Op   string
	Kind error
	Err  error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *KindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// WrapKind tags err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &KindError{Op: op, Kind: kind, Err: err}
}

// NewKind returns an error carrying only op and kind.
func NewKind(op string, kind error) error {
	return &KindError{Op: op, Kind: kind}
}

const codeBadRequest = "bad_request"

// statusFor maps a service error kind to an HTTP status.
func statusFor(code string) int {
	switch code {
	case service.KindUnknownOption, service.KindNotNumeric, service.KindUnknownQuestion,
		service.KindSchemaMismatch, codeBadRequest:
		return http.StatusBadRequest
	case service.KindArtifactUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
