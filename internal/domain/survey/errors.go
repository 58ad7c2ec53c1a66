package survey

import "errors"

// Sentinel kinds for encoding errors. These allow errors.Is from callers.
var (
	ErrUnknownOption   = errors.New("unknown option")
	ErrNotNumeric      = errors.New("answer is not numeric")
	ErrUnknownQuestion = errors.New("unknown question")
)
