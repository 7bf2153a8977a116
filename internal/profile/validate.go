package profile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateJSONAgainstSchema checks a raw profile document against the policy
// schema before any of its knobs reach the pipeline. Profiles arrive from
// config files and API callers, so a schema violation is a caller error, not
// a run finding.
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	raw, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("encoding profile schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("profile.json", bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("registering profile schema: %w", err)
	}
	schema, err := compiler.Compile("profile.json")
	if err != nil {
		return fmt.Errorf("compiling profile schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding profile document: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("profile document rejected by schema: %w", err)
	}
	return nil
}
