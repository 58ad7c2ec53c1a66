// Package probe exercises a running diabcheck server with generated survey
// sessions and predicts offline from an answers file.
package probe

import (
	"errors"
	"time"
)

// Sentinel kinds for probe failures.
var (
	ErrServer       = errors.New("server request failed")
	ErrVerification = errors.New("verification failed")
	ErrAnswersFile  = errors.New("answers file invalid")
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Sessions int           // Number of survey sessions to submit
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Verbose  bool          // Log every failed session
}

// Session is one complete set of answers keyed by question key. Values are
// option labels or numbers.
type Session map[string]any

// predictRequest mirrors the body of POST /predict.
type predictRequest struct {
	Answers Session `json:"answers"`
}

// predictResponse mirrors a successful /predict response.
type predictResponse struct {
	ID         string `json:"id"`
	Prediction int    `json:"prediction"`
	Diabetic   bool   `json:"diabetic"`
	Message    string `json:"message"`
}

// errorResponse mirrors an API error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Stats holds run statistics.
type Stats struct {
	SessionsGenerated int
	SessionsSubmitted int
	Diabetic          int
	NotDiabetic       int
	Failed            int
	RejectionsChecked int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
