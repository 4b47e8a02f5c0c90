package usecase

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/tclindner/bitbucket-server-cli/internal/gateway"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the Bitbucket gateway without
// making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Projects(ctx context.Context) ([]gateway.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.Project), args.Error(1)
}

func (m *mockFetcher) ProjectGroupPermissions(ctx context.Context, projectKey string) ([]gateway.GroupPermission, error) {
	args := m.Called(ctx, projectKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.GroupPermission), args.Error(1)
}

func (m *mockFetcher) ProjectUserPermissions(ctx context.Context, projectKey string) ([]gateway.UserPermission, error) {
	args := m.Called(ctx, projectKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.UserPermission), args.Error(1)
}

func (m *mockFetcher) Repos(ctx context.Context, projectKey string) ([]gateway.Repo, error) {
	args := m.Called(ctx, projectKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.Repo), args.Error(1)
}

func (m *mockFetcher) RepoGroupPermissions(ctx context.Context, projectKey, repoSlug string) ([]gateway.GroupPermission, error) {
	args := m.Called(ctx, projectKey, repoSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.GroupPermission), args.Error(1)
}

func (m *mockFetcher) RepoUserPermissions(ctx context.Context, projectKey, repoSlug string) ([]gateway.UserPermission, error) {
	args := m.Called(ctx, projectKey, repoSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.UserPermission), args.Error(1)
}

func (m *mockFetcher) PullRequests(ctx context.Context, projectKey, repoSlug, state string) ([]gateway.PullRequest, error) {
	args := m.Called(ctx, projectKey, repoSlug, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.PullRequest), args.Error(1)
}

func (m *mockFetcher) PullRequestCommits(ctx context.Context, projectKey, repoSlug string, pullRequestID int64) ([]gateway.Commit, error) {
	args := m.Called(ctx, projectKey, repoSlug, pullRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.Commit), args.Error(1)
}

func (m *mockFetcher) PullRequestTaskCount(ctx context.Context, projectKey, repoSlug string, pullRequestID int64) (gateway.TaskCount, error) {
	args := m.Called(ctx, projectKey, repoSlug, pullRequestID)
	if args.Get(0) == nil {
		return gateway.TaskCount{}, args.Error(1)
	}
	return args.Get(0).(gateway.TaskCount), args.Error(1)
}

func (m *mockFetcher) PullRequestIssues(ctx context.Context, projectKey, repoSlug string, pullRequestID int64) ([]gateway.Issue, error) {
	args := m.Called(ctx, projectKey, repoSlug, pullRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.Issue), args.Error(1)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
