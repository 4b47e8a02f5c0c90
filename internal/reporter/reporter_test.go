package reporter

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/tclindner/bitbucket-server-cli/internal/domain"
	"github.com/tclindner/bitbucket-server-cli/internal/usecase"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestWritePermissions(t *testing.T) {
	t.Run("no discrepancies", func(t *testing.T) {
		var buf bytes.Buffer
		WritePermissions(&buf, nil)

		assert.Contains(t, buf.String(), "No permission errors found!")
	})

	t.Run("project and repo discrepancies", func(t *testing.T) {
		var buf bytes.Buffer
		WritePermissions(&buf, []domain.PermissionDiscrepancy{
			{Project: "ABC", Entity: domain.EntityUsers, EntityName: "Jane Doe", Permission: "PROJECT_ADMIN"},
			{Project: "ABC", Repo: "repo-a", Entity: domain.EntityGroup, EntityName: "dev-team", Permission: "REPO_WRITE"},
		})

		out := buf.String()
		assert.Contains(t, out, "Project permission error detected")
		assert.Contains(t, out, "Repo permission error detected")
		assert.Contains(t, out, "Users: Jane Doe")
		assert.Contains(t, out, "Group: dev-team")
		assert.Contains(t, out, "Repo: repo-a")
		assert.Contains(t, out, "2 permission errors found.")
	})

	t.Run("singular count", func(t *testing.T) {
		var buf bytes.Buffer
		WritePermissions(&buf, []domain.PermissionDiscrepancy{
			{Project: "ABC", Entity: domain.EntityUsers, EntityName: "Jane Doe", Permission: "PROJECT_ADMIN"},
		})

		assert.Contains(t, buf.String(), "1 permission error found.")
	})
}

func TestWriteStalePullRequests(t *testing.T) {
	t.Run("no stale pull requests", func(t *testing.T) {
		var buf bytes.Buffer
		WriteStalePullRequests(&buf, nil, time.Now())

		assert.Contains(t, buf.String(), "No stale pull requests found!")
	})

	t.Run("one stale pull request", func(t *testing.T) {
		now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)
		var buf bytes.Buffer
		WriteStalePullRequests(&buf, []domain.StalePullRequest{
			{
				Project:     "ABC",
				Repo:        "repo-a",
				ID:          42,
				Title:       "Add widget",
				Author:      "Jane Doe",
				CreatedDate: now.Add(-60 * 24 * time.Hour),
				UpdatedDate: now.Add(-21 * 24 * time.Hour),
				FromBranch:  "feature/widget",
				ToBranch:    "main",
			},
		}, now)

		out := buf.String()
		assert.Contains(t, out, "Stale pr detected")
		assert.Contains(t, out, "ID: 42")
		assert.Contains(t, out, "Title: Add widget")
		assert.Contains(t, out, "Author: Jane Doe")
		assert.Contains(t, out, "feature/widget --> main")
		assert.Contains(t, out, "ago")
		assert.Contains(t, out, "Created On: 2024-04-16")
		assert.Contains(t, out, "1 stale pull request found.")
	})
}

func statsFixture() *domain.RunningStats {
	s := domain.NewRunningStats(domain.PullRequestFact{
		Project:        "ABC",
		Repo:           "repo-a",
		CreatedWeekDay: time.Monday,
		MergedWeekDay:  time.Wednesday,
		Age:            48 * time.Hour,
		CommitCount:    3,
		TaskCount:      1,
		IssueKeys:      "ABC-1",
	})
	s.Update(domain.PullRequestFact{
		Project:        "ABC",
		Repo:           "repo-a",
		CreatedWeekDay: time.Wednesday,
		MergedWeekDay:  time.Wednesday,
		Age:            24 * time.Hour,
		CommitCount:    1,
	})
	return s
}

func TestWriteOverallStats(t *testing.T) {
	var buf bytes.Buffer
	WriteOverallStats(&buf, map[string]*domain.RunningStats{usecase.OverallKey: statsFixture()})

	out := buf.String()
	assert.Contains(t, out, "Overall stats")
	assert.Contains(t, out, "Total number of PRs: 2")
	assert.Contains(t, out, "Total number of commits: 4")
	assert.Contains(t, out, "Total number of tasks: 1")
	assert.Contains(t, out, "Average number of commits: 2.00")
	assert.Contains(t, out, "Average number of tasks: 0.50")
	assert.Contains(t, out, "Issues Resolved: ABC-1")
	assert.Contains(t, out, "Wednesday")
	assert.Contains(t, out, "100.00%")
}

func TestWriteProjectStats(t *testing.T) {
	var buf bytes.Buffer
	WriteProjectStats(&buf, map[string]*domain.RunningStats{"ABC": statsFixture()})

	out := buf.String()
	assert.Contains(t, out, "Project level stats")
	assert.Contains(t, out, "Project: ABC")
}

func TestWriteRepoStats(t *testing.T) {
	var buf bytes.Buffer
	WriteRepoStats(&buf, map[string]*domain.RunningStats{"ABC|repo-a": statsFixture()})

	out := buf.String()
	assert.Contains(t, out, "Repo level stats")
	assert.Contains(t, out, "Project: ABC")
	assert.Contains(t, out, "Repo: repo-a")
}
