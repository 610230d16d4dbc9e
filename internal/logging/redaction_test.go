package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/systmms/ghenv/internal/logging"
)

// TestSecretRedactionAtInfoLevel verifies secrets are redacted in Info-level logs
func TestSecretRedactionAtInfoLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, false, true)

	secretValue := "super-secret-password-12345"
	logger.Info("Set secret: %s", logging.Secret(secretValue))

	output := buf.String()
	assert.Contains(t, output, "[REDACTED]", "Log should contain redaction marker")
	assert.NotContains(t, output, secretValue, "Log must not contain actual secret value")
	assert.Contains(t, output, "Set secret", "Log should contain message text")
}

// TestSecretRedactionAtDebugLevel verifies secrets are redacted in Debug-level logs
func TestSecretRedactionAtDebugLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, true, true)

	secretValue := "debug-secret-api-key-67890"
	logger.Debug("Writing value: %s", logging.Secret(secretValue))

	output := buf.String()
	assert.Contains(t, output, "[REDACTED]", "Debug log should contain redaction marker")
	assert.NotContains(t, output, secretValue, "Debug log must not contain actual secret value")
	assert.Contains(t, output, "[DEBUG]", "Should indicate debug level")
}

// TestMultipleSecretsRedaction verifies multiple secrets in the same log line are all redacted
func TestMultipleSecretsRedaction(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, false, true)

	secret1 := "password-123"
	secret2 := "api-key-456"
	secret3 := "token-789"

	logger.Info("Credentials: password=%s, api_key=%s, token=%s",
		logging.Secret(secret1),
		logging.Secret(secret2),
		logging.Secret(secret3))

	output := buf.String()
	assert.Equal(t, 3, strings.Count(output, "[REDACTED]"), "All three secrets should be redacted")
	assert.NotContains(t, output, secret1)
	assert.NotContains(t, output, secret2)
	assert.NotContains(t, output, secret3)
}

// TestSecretRedactionInErrorMessages verifies secrets are redacted in error contexts
func TestSecretRedactionInErrorMessages(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, false, true)

	secretValue := "error-context-secret-999"
	logger.Error("Remote write failed for value: %s", logging.Secret(secretValue))

	output := buf.String()
	assert.Contains(t, output, "[REDACTED]")
	assert.NotContains(t, output, secretValue)
	assert.Contains(t, output, "Remote write failed")
}

// TestSecretRedactionAcrossLogLevels verifies redaction works at all log levels
func TestSecretRedactionAcrossLogLevels(t *testing.T) {
	t.Parallel()

	secretValue := "multi-level-secret-abc"

	levels := []struct {
		name  string
		debug bool
		logFn func(*logging.Logger, string, ...interface{})
	}{
		{"info", false, (*logging.Logger).Info},
		{"warn", false, (*logging.Logger).Warn},
		{"error", false, (*logging.Logger).Error},
		{"debug", true, (*logging.Logger).Debug},
	}

	for _, tt := range levels {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := logging.NewWithWriter(&buf, tt.debug, true)

			tt.logFn(logger, "Secret: %s", logging.Secret(secretValue))

			output := buf.String()
			assert.Contains(t, output, "[REDACTED]")
			assert.NotContains(t, output, secretValue)
		})
	}
}

// TestNonSecretDataNotRedacted verifies public data passes through untouched
func TestNonSecretDataNotRedacted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, false, true)

	publicValue := "API_KEY"
	secretValue := "private-secret-123"

	logger.Info("Setting %s to %s", publicValue, logging.Secret(secretValue))

	output := buf.String()
	assert.Contains(t, output, publicValue, "Entry names should not be redacted")
	assert.Contains(t, output, "[REDACTED]")
	assert.NotContains(t, output, secretValue)
}
