package github_test

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gherrors "github.com/systmms/ghenv/internal/errors"
	"github.com/systmms/ghenv/internal/github"
	"github.com/systmms/ghenv/tests/testutil"
)

var gh testutil.GHMockResponses

func TestCheckAuth(t *testing.T) {
	t.Parallel()

	t.Run("authenticated", func(t *testing.T) {
		t.Parallel()

		mock := testutil.NewMockCommandExecutor()
		mock.AddResponse("gh auth status", gh.AuthStatusOK())

		capture := testutil.NewLogCapture(t)
		cli := github.NewCLIWithExecutor(capture.Logger, mock)

		require.NoError(t, cli.CheckAuth(context.Background()))
		mock.AssertCallCount(t, "gh", 1)
	})

	t.Run("logged out", func(t *testing.T) {
		t.Parallel()

		mock := testutil.NewMockCommandExecutor()
		mock.AddResponse("gh auth status", gh.AuthStatusLoggedOut())

		capture := testutil.NewLogCapture(t)
		cli := github.NewCLIWithExecutor(capture.Logger, mock)

		err := cli.CheckAuth(context.Background())
		require.Error(t, err)

		var authErr *github.AuthError
		require.True(t, errors.As(err, &authErr))
		assert.Contains(t, authErr.Stderr, "gh auth login")
	})

	t.Run("gh not installed", func(t *testing.T) {
		t.Parallel()

		mock := testutil.NewMockCommandExecutor()
		mock.AddResponse("gh auth status", testutil.MockResponse{
			Err: &exec.Error{Name: "gh", Err: exec.ErrNotFound},
		})

		capture := testutil.NewLogCapture(t)
		cli := github.NewCLIWithExecutor(capture.Logger, mock)

		err := cli.CheckAuth(context.Background())
		require.Error(t, err)

		var userErr gherrors.UserError
		require.True(t, errors.As(err, &userErr))
		assert.Contains(t, userErr.Suggestion, "cli.github.com")
	})
}

func TestResolveRepository(t *testing.T) {
	t.Parallel()

	t.Run("resolves owner and name", func(t *testing.T) {
		t.Parallel()

		mock := testutil.NewMockCommandExecutor()
		mock.AddResponse("gh repo view", gh.RepoView("acme/widgets"))

		capture := testutil.NewLogCapture(t)
		cli := github.NewCLIWithExecutor(capture.Logger, mock)

		repo, err := cli.ResolveRepository(context.Background())
		require.NoError(t, err)
		assert.Equal(t, github.Repository{Owner: "acme", Name: "widgets"}, repo)
		assert.Equal(t, "acme/widgets", repo.String())
	})

	t.Run("not in a repository", func(t *testing.T) {
		t.Parallel()

		mock := testutil.NewMockCommandExecutor()
		mock.AddResponse("gh repo view", gh.RepoViewNoRepository())

		capture := testutil.NewLogCapture(t)
		cli := github.NewCLIWithExecutor(capture.Logger, mock)

		_, err := cli.ResolveRepository(context.Background())
		require.Error(t, err)

		var noRepo *github.NoRepositoryError
		require.True(t, errors.As(err, &noRepo))
		assert.Contains(t, noRepo.Stderr, "not a git repository")
	})

	t.Run("garbled output", func(t *testing.T) {
		t.Parallel()

		mock := testutil.NewMockCommandExecutor()
		mock.AddResponse("gh repo view", testutil.MockResponse{Stdout: []byte("just-a-name\n")})

		capture := testutil.NewLogCapture(t)
		cli := github.NewCLIWithExecutor(capture.Logger, mock)

		_, err := cli.ResolveRepository(context.Background())
		require.Error(t, err)

		var noRepo *github.NoRepositoryError
		assert.True(t, errors.As(err, &noRepo))
	})
}

func TestVersion(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockCommandExecutor()
	mock.AddResponse("gh --version", testutil.MockResponse{
		Stdout: []byte("gh version 2.40.0 (2024-01-09)\nhttps://github.com/cli/cli/releases/tag/v2.40.0\n"),
	})

	capture := testutil.NewLogCapture(t)
	cli := github.NewCLIWithExecutor(capture.Logger, mock)

	version, err := cli.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gh version 2.40.0 (2024-01-09)", version)
}

func TestDebugLoggingShowsCommandLine(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockCommandExecutor()
	mock.AddResponse("gh auth status", gh.AuthStatusOK())

	capture := testutil.NewLogCaptureWithDebug(t, true)
	cli := github.NewCLIWithExecutor(capture.Logger, mock)

	require.NoError(t, cli.CheckAuth(context.Background()))
	capture.AssertContains(t, "gh auth status")
}
