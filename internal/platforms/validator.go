package platforms

import (
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonschema"
)

// ValidateSettings validates platform-specific settings against the
// platform's JSON Schema. Platforms without a schema accept anything.
func (c *Catalog) ValidateSettings(platform string, settings map[string]interface{}) error {
	meta, ok := c.Get(platform)
	if !ok {
		return fmt.Errorf("unknown platform: %s", platform)
	}

	schemaData, err := c.schemaBytes(meta)
	if err != nil {
		return fmt.Errorf("failed to read settings schema: %w", err)
	}
	if schemaData == nil {
		return nil
	}

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(schemaData)
	if err != nil {
		return fmt.Errorf("failed to compile settings schema: %w", err)
	}

	result := schema.Validate(settings)
	if !result.IsValid() {
		var errorMessages []string
		for field, evalErr := range result.Errors {
			errorMessages = append(errorMessages, fmt.Sprintf("%s: %s", field, evalErr.Error()))
		}
		return fmt.Errorf("settings validation failed: %s", strings.Join(errorMessages, "; "))
	}

	return nil
}
