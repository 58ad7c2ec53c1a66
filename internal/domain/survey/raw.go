package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Raw is one answer as supplied by the presentation layer: either a choice
// label or a number.
type Raw struct {
	text    string
	number  float64
	numeric bool
}

// Choice wraps a selected option label.
func Choice(label string) Raw { return Raw{text: label} }

// Number wraps a numeric entry.
func Number(v float64) Raw { return Raw{number: v, numeric: true} }

// IsNumber reports whether the raw answer holds a number.
func (r Raw) IsNumber() bool { return r.numeric }

// String renders the raw value for logs and error messages.
func (r Raw) String() string {
	if r.numeric {
		return strconv.FormatFloat(r.number, 'g', -1, 64)
	}
	return r.text
}

// UnmarshalJSON accepts a JSON string (a label) or a JSON number.
func (r *Raw) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("answer must not be null")
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Choice(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("answer must be a string or a number: %s", data)
	}
	*r = Number(f)
	return nil
}

// MarshalJSON writes the label as a string and a number as a number.
func (r Raw) MarshalJSON() ([]byte, error) {
	if r.numeric {
		return json.Marshal(r.number)
	}
	return json.Marshal(r.text)
}

// FromValue converts a decoded config or JSON value into a Raw. Strings
// become choices, numeric kinds become numbers.
func FromValue(v any) (Raw, error) {
	switch t := v.(type) {
	case string:
		return Choice(t), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Raw{}, fmt.Errorf("invalid number %q: %w", t, err)
		}
		return Number(f), nil
	default:
		return Raw{}, fmt.Errorf("unsupported answer type %T", v)
	}
}

// ValueFor converts a decoded config value for question q. Config formats
// such as YAML read an unquoted label like 0 as a number, so numbers given
// to a choice question are matched as their label text.
func (q Question) ValueFor(v any) (Raw, error) {
	r, err := FromValue(v)
	if err != nil {
		return Raw{}, err
	}
	if q.Kind == KindChoice && r.numeric {
		return Choice(r.String()), nil
	}
	return r, nil
}
