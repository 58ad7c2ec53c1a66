package artifact

import (
	"encoding/json"
	"fmt"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache caches compiled schemas by document name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// compiledSchema reflects v's Go type into a JSON Schema and compiles it.
// The Go document struct is the only definition of the artifact format.
func compiledSchema(name string, v any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	r := &invopop.Reflector{
		Anonymous:      true,
		ExpandedStruct: true,
		DoNotReference: true,
	}
	defBytes, err := json.Marshal(r.Reflect(v))
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", name, err)
	}

	// The compiler expects a parsed JSON value, not raw bytes.
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource %s: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}

	actual, _ := schemaCache.LoadOrStore(name, compiled)
	return actual.(*jsonschema.Schema), nil
}

// validateDocument checks raw JSON against the schema reflected from v.
func validateDocument(name string, v any, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	compiled, err := compiledSchema(name, v)
	if err != nil {
		return err
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
