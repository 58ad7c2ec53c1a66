// Package survey defines the health questionnaire and the encoding of raw
// answers into the numeric codes the trained model expects.
package survey

import (
	"fmt"
)

// Kind is the input kind of a question.
type Kind int

const (
	// KindChoice questions accept one label from a fixed option set.
	KindChoice Kind = iota
	// KindNumeric questions accept a number that is passed through unchanged.
	KindNumeric
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindChoice:
		return "choice"
	case KindNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "choice":
		*k = KindChoice
	case "numeric":
		*k = KindNumeric
	default:
		return fmt.Errorf("unknown question kind %q", text)
	}
	return nil
}

// Option is one selectable label and its fixed code.
type Option struct {
	Label string  `json:"label"`
	Code  float64 `json:"code"`
}

// Range is a suggested numeric range shown to the user. It is never enforced.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Question is a single survey prompt. Key doubles as the feature column name.
type Question struct {
	Key     string   `json:"key"`
	Prompt  string   `json:"prompt"`
	Kind    Kind     `json:"kind"`
	Options []Option `json:"options,omitempty"`
	Hint    *Range   `json:"hint,omitempty"`
}

// Labels returns the option labels in display order.
func (q Question) Labels() []string {
	labels := make([]string, len(q.Options))
	for i, o := range q.Options {
		labels[i] = o.Label
	}
	return labels
}

// Encode converts a raw answer into the question's float code.
//
// Choice questions require an exact label match; anything else, including a
// number, fails with ErrUnknownOption. Numeric questions return the number
// unchanged and fail with ErrNotNumeric for a label.
func (q Question) Encode(raw Raw) (float64, error) {
	switch q.Kind {
	case KindChoice:
		if raw.numeric {
			return 0, fmt.Errorf("%s: got number %v: %w", q.Key, raw.number, ErrUnknownOption)
		}
		for _, o := range q.Options {
			if o.Label == raw.text {
				return o.Code, nil
			}
		}
		return 0, fmt.Errorf("%s: %q: %w", q.Key, raw.text, ErrUnknownOption)
	case KindNumeric:
		if !raw.numeric {
			return 0, fmt.Errorf("%s: %q: %w", q.Key, raw.text, ErrNotNumeric)
		}
		return raw.number, nil
	default:
		return 0, fmt.Errorf("%s: unsupported kind %d: %w", q.Key, q.Kind, ErrUnknownQuestion)
	}
}

// Encode looks up a question by key and encodes raw against it.
func Encode(key string, raw Raw) (float64, error) {
	q, ok := Lookup(key)
	if !ok {
		return 0, fmt.Errorf("%q: %w", key, ErrUnknownQuestion)
	}
	return q.Encode(raw)
}
