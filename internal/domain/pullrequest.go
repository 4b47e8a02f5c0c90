package domain

import "time"

// StalePullRequest describes an open pull request whose last update is
// older than the configured staleness threshold.
type StalePullRequest struct {
	Project     string
	Repo        string
	ID          int64
	Title       string
	Author      string
	CreatedDate time.Time
	UpdatedDate time.Time
	FromBranch  string
	ToBranch    string
}

// PullRequestFact is the per-merged-pull-request tuple consumed by the
// aggregator. Weekdays are derived from the created/updated timestamps in
// the machine's local timezone.
type PullRequestFact struct {
	Project        string
	Repo           string
	ID             int64
	CreatedWeekDay time.Weekday
	MergedWeekDay  time.Weekday
	Age            time.Duration
	CommitCount    int
	TaskCount      int
	IssueKeys      string
}
