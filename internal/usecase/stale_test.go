package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tclindner/bitbucket-server-cli/internal/config"
	"github.com/tclindner/bitbucket-server-cli/internal/gateway"
)

func openPullRequest(id int64, title, author string, created, updated time.Time) gateway.PullRequest {
	pr := gateway.PullRequest{
		ID:          id,
		Title:       title,
		State:       "OPEN",
		CreatedDate: created.UnixMilli(),
		UpdatedDate: updated.UnixMilli(),
	}
	pr.Author.User.Name = author
	pr.Author.User.DisplayName = author
	pr.FromRef.DisplayID = "feature/widget"
	pr.ToRef.DisplayID = "main"
	return pr
}

func TestStaleAuditor_AuditProject_ThresholdBoundary(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	threshold := 14 * 24 * time.Hour

	// One pull request aged exactly at the threshold and one a millisecond
	// older. Only the strictly older one is stale.
	atThreshold := openPullRequest(1, "At threshold", "Jane Doe",
		now.Add(-30*24*time.Hour), now.Add(-threshold))
	overThreshold := openPullRequest(2, "Over threshold", "John Smith",
		now.Add(-30*24*time.Hour), now.Add(-threshold-time.Millisecond))

	fetcher := new(mockFetcher)
	fetcher.On("Repos", mock.Anything, "ABC").Return([]gateway.Repo{repo("ABC", "repo-a")}, nil)
	fetcher.On("PullRequests", mock.Anything, "ABC", "repo-a", "OPEN").
		Return([]gateway.PullRequest{atThreshold, overThreshold}, nil)

	auditor := NewStaleAuditor(fetcher, threshold, testLogger())
	auditor.now = func() time.Time { return now }

	stale, err := auditor.AuditProject(context.Background(), config.StaleProjectConfig{Project: "ABC"})

	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, int64(2), stale[0].ID)
	assert.Equal(t, "Over threshold", stale[0].Title)
	assert.Equal(t, "John Smith", stale[0].Author)
	assert.Equal(t, "feature/widget", stale[0].FromBranch)
	assert.Equal(t, "main", stale[0].ToBranch)
	fetcher.AssertExpectations(t)
}

func TestStaleAuditor_AuditProject_ProjectOverride(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)

	// Aged 3 days: stale under the project's "2 days" override even though
	// the global threshold is 2 weeks.
	pr := openPullRequest(1, "Aging", "Jane Doe",
		now.Add(-5*24*time.Hour), now.Add(-3*24*time.Hour))

	fetcher := new(mockFetcher)
	fetcher.On("Repos", mock.Anything, "ABC").Return([]gateway.Repo{repo("ABC", "repo-a")}, nil)
	fetcher.On("PullRequests", mock.Anything, "ABC", "repo-a", "OPEN").
		Return([]gateway.PullRequest{pr}, nil)

	auditor := NewStaleAuditor(fetcher, 14*24*time.Hour, testLogger())
	auditor.now = func() time.Time { return now }

	stale, err := auditor.AuditProject(context.Background(), config.StaleProjectConfig{
		Project:           "ABC",
		DefinitionOfStale: "2 days",
	})

	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, int64(1), stale[0].ID)
}

func TestStaleAuditor_AuditProject_ExcludedRepo(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("Repos", mock.Anything, "ABC").Return([]gateway.Repo{
		repo("ABC", "repo-a"),
		repo("ABC", "repo-b"),
	}, nil)
	fetcher.On("PullRequests", mock.Anything, "ABC", "repo-a", "OPEN").
		Return([]gateway.PullRequest{}, nil)

	auditor := NewStaleAuditor(fetcher, 14*24*time.Hour, testLogger())
	stale, err := auditor.AuditProject(context.Background(), config.StaleProjectConfig{
		Project:       "ABC",
		ExcludedRepos: []string{"repo-b"},
	})

	require.NoError(t, err)
	assert.Empty(t, stale)
	fetcher.AssertNotCalled(t, "PullRequests", mock.Anything, "ABC", "repo-b", "OPEN")
}

func TestStaleAuditor_AuditProject_FetchFailure(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("Repos", mock.Anything, "ABC").Return([]gateway.Repo{
		repo("ABC", "repo-a"),
		repo("ABC", "repo-b"),
	}, nil)
	fetcher.On("PullRequests", mock.Anything, "ABC", "repo-a", "OPEN").
		Return(nil, errors.New("bitbucket api error"))
	fetcher.On("PullRequests", mock.Anything, "ABC", "repo-b", "OPEN").
		Return([]gateway.PullRequest{}, nil).Maybe()

	auditor := NewStaleAuditor(fetcher, 14*24*time.Hour, testLogger())
	stale, err := auditor.AuditProject(context.Background(), config.StaleProjectConfig{Project: "ABC"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "repo ABC/repo-a pull requests")
	assert.Nil(t, stale)
}

func TestStaleAuditor_AuditProject_BadOverride(t *testing.T) {
	fetcher := new(mockFetcher)
	auditor := NewStaleAuditor(fetcher, 14*24*time.Hour, testLogger())

	_, err := auditor.AuditProject(context.Background(), config.StaleProjectConfig{
		Project:           "ABC",
		DefinitionOfStale: "a fortnight",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "project ABC definition of stale")
	fetcher.AssertNotCalled(t, "Repos", mock.Anything, "ABC")
}
