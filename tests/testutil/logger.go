package testutil

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/systmms/ghenv/internal/logging"
)

// safeBuffer is a bytes.Buffer guarded by a mutex so captured loggers
// can be read while code under test is still writing.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *safeBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// LogCapture wraps a real logging.Logger that writes into an in-memory
// buffer, so tests can verify log content and that secrets are redacted.
//
// Example usage:
//
//	capture := NewLogCapture(t)
//	code.Run(capture.Logger)
//
//	capture.AssertContains(t, "✓")
//	capture.AssertRedacted(t, "password123")
type LogCapture struct {
	Logger *logging.Logger
	buffer *safeBuffer
}

// NewLogCapture creates a capture with debug output disabled and color
// stripped.
func NewLogCapture(t *testing.T) *LogCapture {
	t.Helper()
	return NewLogCaptureWithDebug(t, false)
}

// NewLogCaptureWithDebug creates a capture that also records Debug
// messages when debug is true.
func NewLogCaptureWithDebug(t *testing.T, debug bool) *LogCapture {
	t.Helper()

	buf := &safeBuffer{}
	return &LogCapture{
		Logger: logging.NewWithWriter(buf, debug, true),
		buffer: buf,
	}
}

// Output returns the captured log output as a string.
func (c *LogCapture) Output() string {
	return c.buffer.String()
}

// Clear discards captured output, for reuse across test cases.
func (c *LogCapture) Clear() {
	c.buffer.Reset()
}

// Lines returns the non-empty log lines in order.
func (c *LogCapture) Lines() []string {
	var result []string
	for _, line := range strings.Split(c.Output(), "\n") {
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return result
}

// AssertContains asserts that the log output contains the substring.
func (c *LogCapture) AssertContains(t *testing.T, substr string) {
	t.Helper()
	assert.Contains(t, c.Output(), substr, "Expected log output to contain %q", substr)
}

// AssertNotContains asserts that the log output does NOT contain the
// substring. Useful for verifying values never reach the logs.
func (c *LogCapture) AssertNotContains(t *testing.T, substr string) {
	t.Helper()
	assert.NotContains(t, c.Output(), substr, "Expected log output to NOT contain %q", substr)
}

// AssertRedacted asserts that a secret value is redacted in the output:
// the value itself must be absent and the [REDACTED] marker present.
func (c *LogCapture) AssertRedacted(t *testing.T, secretValue string) {
	t.Helper()

	output := c.Output()
	assert.NotContains(t, output, secretValue,
		"Secret value %q should be redacted, but appears in logs", secretValue)
	assert.Contains(t, output, "[REDACTED]",
		"Expected [REDACTED] marker in logs when secret is used")
}

// AssertLogCount asserts that a log level appears an exact number of
// times. Levels are "info", "warn", "error" and "debug".
func (c *LogCapture) AssertLogCount(t *testing.T, level string, count int) {
	t.Helper()

	var marker string
	switch level {
	case "info":
		marker = "✓"
	case "warn":
		marker = "⚠"
	case "error":
		marker = "✗"
	case "debug":
		marker = "[DEBUG]"
	default:
		t.Fatalf("Unknown log level: %s", level)
	}

	actual := strings.Count(c.Output(), marker)
	assert.Equal(t, count, actual,
		"Expected %d %s log messages, got %d", count, level, actual)
}

// AssertEmpty asserts that no log output was captured.
func (c *LogCapture) AssertEmpty(t *testing.T) {
	t.Helper()
	assert.Empty(t, c.Output(), "Expected no log output")
}
