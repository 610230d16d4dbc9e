package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/ghenv/internal/sync"
)

// hasCallWithPrefix reports whether any recorded gh invocation starts
// with the given command-line prefix. The probe name carries a random
// suffix, so exact keys cannot be asserted.
func hasCallWithPrefix(keys []string, prefix string) bool {
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func TestTestConfCommand_VariablesPass(t *testing.T) {
	mock := authedMock()
	mock.AddResponse("gh --version", gh.Version())
	mock.AddResponse("gh variable set GHENV_TEST_", gh.OK())
	mock.AddResponse("gh api repos/acme/widgets/actions/variables/GHENV_TEST_",
		gh.Variable("GHENV_TEST_PROBE", "test_value_12345"))
	mock.AddResponse("gh variable delete GHENV_TEST_", gh.OK())
	cfg, capture := newTestConfig(t, "variables", mock)

	cmd := NewTestConfCommand(cfg)
	require.NoError(t, runCommand(cmd))

	capture.AssertContains(t, "Using gh version 2.40.0")
	capture.AssertContains(t, "Authentication OK")
	capture.AssertContains(t, "Repository: acme/widgets")
	capture.AssertContains(t, "Created test variable GHENV_TEST_")
	capture.AssertContains(t, "Verified test variable exists")
	capture.AssertContains(t, "Verified test variable value matches")
	capture.AssertContains(t, "Deleted test variable")
	capture.AssertContains(t, "All tests passed! Configuration is working correctly.")
}

func TestTestConfCommand_SecretProbeNotVisible(t *testing.T) {
	mock := authedMock()
	mock.AddResponse("gh --version", gh.Version())
	mock.AddResponse("gh secret set GHENV_TEST_", gh.OK())
	mock.AddResponse("gh secret list", gh.SecretList("UNRELATED"))
	mock.AddResponse("gh secret delete GHENV_TEST_", gh.OK())
	cfg, capture := newTestConfig(t, "secrets", mock)

	cmd := NewTestConfCommand(cfg)
	err := runCommand(cmd)

	require.Error(t, err)
	var verification *sync.VerificationError
	require.ErrorAs(t, err, &verification)
	assert.Contains(t, verification.Reason, "not visible")

	assert.True(t, hasCallWithPrefix(mock.CallKeys(), "gh secret delete GHENV_TEST_"),
		"probe must be cleaned up after a failed verification")
	capture.AssertContains(t, "Deleted test secret")
}

func TestTestConfCommand_CreateFails(t *testing.T) {
	mock := authedMock()
	mock.AddResponse("gh --version", gh.Version())
	mock.AddResponse("gh variable set GHENV_TEST_", gh.Forbidden())
	cfg, _ := newTestConfig(t, "variables", mock)

	cmd := NewTestConfCommand(cfg)
	err := runCommand(cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "variables set failed")
	assert.False(t, hasCallWithPrefix(mock.CallKeys(), "gh variable delete"),
		"nothing to clean up when the probe was never created")
}

func TestTestConfCommand_CleanupFailureWarns(t *testing.T) {
	mock := authedMock()
	mock.AddResponse("gh --version", gh.Version())
	mock.AddResponse("gh variable set GHENV_TEST_", gh.OK())
	mock.AddResponse("gh api repos/acme/widgets/actions/variables/GHENV_TEST_",
		gh.Variable("GHENV_TEST_PROBE", "test_value_12345"))
	mock.AddResponse("gh variable delete GHENV_TEST_", gh.Forbidden())
	cfg, capture := newTestConfig(t, "variables", mock)

	cmd := NewTestConfCommand(cfg)
	require.NoError(t, runCommand(cmd))

	capture.AssertContains(t, "Failed to delete test variable")
	capture.AssertContains(t, "may still exist")
	capture.AssertContains(t, "All tests passed!")
}
