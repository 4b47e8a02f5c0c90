package domain

import (
	"time"

	"github.com/montanaflynn/stats"
)

// RunningStats accumulates pull request metrics for one aggregation key.
// The weekday counters are indexed like time.Weekday, 0=Sunday through
// 6=Saturday. Every field is monotonically non-decreasing once the
// accumulator exists.
type RunningStats struct {
	Count        int
	SumOfAge     time.Duration
	SumOfCommits int
	SumOfTasks   int
	IssueKeys    string
	CreatedOnDay [7]int
	MergedOnDay  [7]int
}

// NewRunningStats seeds an accumulator with its first fact.
func NewRunningStats(fact PullRequestFact) *RunningStats {
	s := &RunningStats{
		Count:        1,
		SumOfAge:     fact.Age,
		SumOfCommits: fact.CommitCount,
		SumOfTasks:   fact.TaskCount,
		IssueKeys:    fact.IssueKeys,
	}
	s.CreatedOnDay[fact.CreatedWeekDay]++
	s.MergedOnDay[fact.MergedWeekDay]++
	return s
}

// Update folds one more fact into the accumulator.
func (s *RunningStats) Update(fact PullRequestFact) {
	s.Count++
	s.SumOfAge += fact.Age
	s.SumOfCommits += fact.CommitCount
	s.SumOfTasks += fact.TaskCount
	s.appendIssueKeys(fact.IssueKeys)
	s.CreatedOnDay[fact.CreatedWeekDay]++
	s.MergedOnDay[fact.MergedWeekDay]++
}

func (s *RunningStats) appendIssueKeys(issueKeys string) {
	if issueKeys == "" {
		return
	}
	if s.IssueKeys == "" {
		s.IssueKeys = issueKeys
		return
	}
	s.IssueKeys += ", " + issueKeys
}

// AvgAge returns the mean pull request age.
func (s *RunningStats) AvgAge() time.Duration {
	return s.SumOfAge / time.Duration(s.Count)
}

// AvgCommits returns the mean number of commits per pull request.
func (s *RunningStats) AvgCommits() float64 {
	return float64(s.SumOfCommits) / float64(s.Count)
}

// AvgTasks returns the mean number of resolved tasks per pull request.
func (s *RunningStats) AvgTasks() float64 {
	return float64(s.SumOfTasks) / float64(s.Count)
}

// PctCreatedOn returns the share of pull requests created on the given
// weekday, rounded to two places for display.
func (s *RunningStats) PctCreatedOn(day time.Weekday) float64 {
	return s.pct(s.CreatedOnDay[day])
}

// PctMergedOn returns the share of pull requests merged on the given
// weekday, rounded to two places for display.
func (s *RunningStats) PctMergedOn(day time.Weekday) float64 {
	return s.pct(s.MergedOnDay[day])
}

func (s *RunningStats) pct(n int) float64 {
	pct, err := stats.Round(float64(n)/float64(s.Count)*100, 2)
	if err != nil {
		return 0
	}
	return pct
}
