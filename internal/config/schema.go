package config

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchemaJSON is the JSON Schema every configuration file must satisfy
// before typed decoding. Unknown keys are rejected so a typo degrades into a
// clear error instead of a silently ignored setting.
const configSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "httpmon configuration",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "url": {"type": "string"},
    "concurrency": {"type": "integer", "minimum": 0},
    "timeout": {
      "oneOf": [
        {"type": "string"},
        {"type": "number", "minimum": 0}
      ]
    },
    "thinktime": {"type": "number", "minimum": 0},
    "interval": {
      "oneOf": [
        {"type": "string"},
        {"type": "number", "minimum": 0}
      ]
    },
    "open": {"type": "boolean"},
    "count": {"type": "integer", "minimum": 0},
    "maxIdleConnsPerHost": {"type": "integer", "minimum": 0},
    "maxConnsPerHost": {"type": "integer", "minimum": 0},
    "insecureSkipVerify": {"type": "boolean"},
    "userAgent": {"type": "string"},
    "headers": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    }
  }
}`

var configSchema = jsonschema.MustCompileString("config.json", configSchemaJSON)

// validateDocument checks a JSON-shaped document against the configuration
// schema, flattening nested schema errors into per-field messages.
func validateDocument(doc interface{}) error {
	err := configSchema.Validate(doc)
	if err == nil {
		return nil
	}

	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}

	errs := &ValidationErrors{}
	collectSchemaErrors(validationErr, errs)
	if errs.HasErrors() {
		return errs
	}
	return err
}

// collectSchemaErrors walks the cause tree and keeps the leaf messages,
// which carry the specific violations.
func collectSchemaErrors(err *jsonschema.ValidationError, errs *ValidationErrors) {
	if len(err.Causes) == 0 {
		field := strings.TrimPrefix(err.InstanceLocation, "/")
		errs.Add(field, err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, errs)
	}
}
