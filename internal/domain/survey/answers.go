package survey

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/okian/diabcheck/internal/domain/features"
)

// Answers is a complete or partial answer set keyed by question key.
type Answers map[string]Raw

// UnmarshalJSON decodes a JSON object of answers. A key given more than once
// fails with features.ErrSchemaMismatch instead of keeping the last value.
func (a *Answers) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("answers must be a JSON object")
	}

	out := make(Answers, Len())
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in answers", tok)
		}
		if _, dup := out[key]; dup {
			return fmt.Errorf("answer %q given more than once: %w", key, features.ErrSchemaMismatch)
		}
		var r Raw
		if err := dec.Decode(&r); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		out[key] = r
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*a = out
	return nil
}
