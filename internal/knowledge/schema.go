package knowledge

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Entry schemas. Field names are camelCase; the snake_case spellings of older
// documents are accepted too.
const symptomEntrySchema = `{
  "type": "object",
  "properties": {
    "possibleCauses":     {"type": "array", "items": {"type": "string"}},
    "possible_causes":    {"type": "array", "items": {"type": "string"}},
    "advice":             {"type": "string"},
    "redFlags":           {"type": "array", "items": {"type": "string"}},
    "red_flags":          {"type": "array", "items": {"type": "string"}},
    "duration":           {"type": "string"},
    "whenToSeeDoctor":    {"type": "string"},
    "when_to_see_doctor": {"type": "string"}
  }
}`

const topicEntrySchema = `{
  "oneOf": [
    {"type": "string"},
    {
      "type": "object",
      "required": ["info"],
      "properties": {
        "info":      {"type": "string"},
        "tips":      {"type": "array", "items": {"type": "string"}},
        "resources": {"type": "array", "items": {"type": "string"}}
      }
    }
  ]
}`

var (
	symptomSchema = mustSchema(symptomEntrySchema)
	topicSchema   = mustSchema(topicEntrySchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("knowledge: invalid entry schema: %v", err))
	}
	return s
}

// validateEntry checks a decoded entry against schema.
func validateEntry(schema *gojsonschema.Schema, value interface{}) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("schema validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
