package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	gherrors "github.com/systmms/ghenv/internal/errors"
)

// Settings is the optional .ghenv.yaml file. Every key is optional;
// a missing file means all defaults.
type Settings struct {
	File                    string `yaml:"file,omitempty" json:"file,omitempty"`
	Store                   string `yaml:"store,omitempty" json:"store,omitempty"`
	Repo                    string `yaml:"repo,omitempty" json:"repo,omitempty"`
	PropagationDelaySeconds *int   `yaml:"propagation_delay_seconds,omitempty" json:"propagation_delay_seconds,omitempty"`
	MetricsFile             string `yaml:"metrics_file,omitempty" json:"metrics_file,omitempty"`
}

// settingsSchema validates .ghenv.yaml before it is trusted. Unknown
// keys are rejected so typos surface instead of silently applying
// defaults.
const settingsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "file": {"type": "string", "minLength": 1},
    "store": {"type": "string", "enum": ["secrets", "variables"]},
    "repo": {"type": "string", "pattern": "^[^/]+/[^/]+$"},
    "propagation_delay_seconds": {"type": "integer", "minimum": 0, "maximum": 300},
    "metrics_file": {"type": "string", "minLength": 1}
  }
}`

// LoadSettings reads and validates the settings file. An empty path
// means DefaultSettingsPath, and then a missing file yields empty
// settings. An explicitly named file must exist.
func LoadSettings(path string) (*Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultSettingsPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return nil, gherrors.ConfigError{
					Field:      "config",
					Value:      path,
					Message:    "settings file not found",
					Suggestion: "Check the --config path, or drop the flag to use defaults",
				}
			}
			return &Settings{}, nil
		}
		return nil, gherrors.UserError{
			Message:    "Failed to read settings file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	return parseSettings(path, data)
}

func parseSettings(path string, data []byte) (*Settings, error) {
	// The raw map keeps unknown keys and original value types so the
	// schema can report them; the struct decode would drop both.
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, gherrors.ConfigError{
			Field:      "config",
			Value:      path,
			Message:    "invalid YAML syntax in settings file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters",
		}
	}

	if err := validateSettings(path, raw); err != nil {
		return nil, err
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, gherrors.ConfigError{
			Field:      "config",
			Value:      path,
			Message:    "invalid settings file",
			Suggestion: "Check the field types in " + path,
		}
	}
	return &settings, nil
}

// validateSettings checks the decoded document against the embedded
// JSON schema.
func validateSettings(path string, raw map[string]interface{}) error {
	if raw == nil {
		return nil
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal settings for validation: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(settingsSchema)
	documentLoader := gojsonschema.NewBytesLoader(jsonData)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var messages []string
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return gherrors.ConfigError{
			Field:      "config",
			Value:      path,
			Message:    "invalid settings: " + strings.Join(messages, "; "),
			Suggestion: "Fix the listed fields in " + path,
		}
	}

	return nil
}
