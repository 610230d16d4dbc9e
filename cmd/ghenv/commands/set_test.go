package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/ghenv/internal/envfile"
	"github.com/systmms/ghenv/internal/github"
)

func TestSetCommand_SecretsPushedInFileOrder(t *testing.T) {
	mock := authedMock()
	mock.AddResponse("gh secret set API_KEY", gh.OK())
	mock.AddResponse("gh secret set DB_PASSWORD", gh.OK())
	cfg, capture := newTestConfig(t, "secrets", mock)
	writeFile(t, cfg.Path, "API_KEY=secret-one\nDB_PASSWORD=secret-two\n")

	cmd := NewSetCommand(cfg)
	require.NoError(t, runCommand(cmd))

	assert.Equal(t, []string{
		"gh auth status",
		"gh repo view --json nameWithOwner -q .nameWithOwner",
		"gh secret set API_KEY --body secret-one --repo acme/widgets",
		"gh secret set DB_PASSWORD --body secret-two --repo acme/widgets",
	}, mock.CallKeys())

	capture.AssertContains(t, "Set secret API_KEY")
	capture.AssertContains(t, "Set secret DB_PASSWORD")
	capture.AssertContains(t, "Successfully set 2 secret(s) in acme/widgets")
	capture.AssertNotContains(t, "secret-one")
	capture.AssertNotContains(t, "secret-two")
}

func TestSetCommand_SkipsEmptyValues(t *testing.T) {
	mock := authedMock()
	mock.AddResponse("gh secret set API_KEY", gh.OK())
	cfg, capture := newTestConfig(t, "secrets", mock)
	writeFile(t, cfg.Path, "API_KEY=real\nPENDING=\n")

	cmd := NewSetCommand(cfg)
	require.NoError(t, runCommand(cmd))

	capture.AssertContains(t, "Skipping PENDING: empty value")
	capture.AssertContains(t, "Successfully set 1 secret(s) in acme/widgets")
	for _, key := range mock.CallKeys() {
		assert.NotContains(t, key, "PENDING")
	}
}

func TestSetCommand_AllValuesEmpty(t *testing.T) {
	mock := authedMock()
	cfg, capture := newTestConfig(t, "secrets", mock)
	writeFile(t, cfg.Path, "ALPHA=\nBRAVO=\n")

	cmd := NewSetCommand(cfg)
	require.NoError(t, runCommand(cmd))

	capture.AssertContains(t, "Nothing to set: all 2 entries")
	assert.Equal(t, 2, mock.CallCount(), "auth and repo discovery only")
}

func TestSetCommand_EmptyFile(t *testing.T) {
	mock := authedMock()
	cfg, capture := newTestConfig(t, "secrets", mock)
	writeFile(t, cfg.Path, "# nothing here yet\n\n")

	cmd := NewSetCommand(cfg)
	require.NoError(t, runCommand(cmd))

	capture.AssertContains(t, "No entries found in")
}

func TestSetCommand_MissingFile(t *testing.T) {
	cfg, _ := newTestConfig(t, "secrets", authedMock())

	cmd := NewSetCommand(cfg)
	err := runCommand(cmd)

	require.Error(t, err)
	var notFound *envfile.FileNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, cfg.Path, notFound.Path)
}

func TestSetCommand_VariablesNeedYesWhenNonInteractive(t *testing.T) {
	mock := authedMock()
	cfg, _ := newTestConfig(t, "variables", mock)
	cfg.NonInteractive = true
	writeFile(t, cfg.Path, "LOG_LEVEL=debug\n")

	cmd := NewSetCommand(cfg)
	err := runCommand(cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirmation required")
	for _, key := range mock.CallKeys() {
		assert.NotContains(t, key, "variable set")
	}
}

func TestSetCommand_VariablesWithYes(t *testing.T) {
	mock := authedMock()
	mock.AddResponse("gh variable set LOG_LEVEL", gh.OK())
	cfg, capture := newTestConfig(t, "variables", mock)
	writeFile(t, cfg.Path, "LOG_LEVEL=debug\n")

	cmd := NewSetCommand(cfg)
	require.NoError(t, runCommand(cmd, "--yes"))

	capture.AssertContains(t, "Set variable LOG_LEVEL")
	capture.AssertContains(t, "Successfully set 1 variable(s) in acme/widgets")
}

func TestSetCommand_StopsAtFirstFailure(t *testing.T) {
	mock := authedMock()
	mock.AddResponse("gh secret set ALPHA", gh.OK())
	mock.AddResponse("gh secret set BRAVO", gh.Forbidden())
	cfg, capture := newTestConfig(t, "secrets", mock)
	writeFile(t, cfg.Path, "ALPHA=a1\nBRAVO=b2\nCHARLIE=c3\n")

	cmd := NewSetCommand(cfg)
	err := runCommand(cmd)

	require.Error(t, err)
	var remoteErr *github.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "BRAVO", remoteErr.Name)

	capture.AssertContains(t, "Set secret ALPHA")
	capture.AssertContains(t, "Stopped after secret BRAVO failed: 1 set, 1 never attempted")
	for _, key := range mock.CallKeys() {
		assert.NotContains(t, key, "CHARLIE")
	}
}
