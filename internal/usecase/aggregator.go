package usecase

import (
	"github.com/tclindner/bitbucket-server-cli/internal/domain"
)

// OverallKey is the aggregation key covering every harvested pull request.
const OverallKey = "overall"

// Aggregator folds pull request facts into running statistics at three
// granularities: overall, per project, and per project|repo pair.
type Aggregator struct {
	overallStats map[string]*domain.RunningStats
	projectStats map[string]*domain.RunningStats
	repoStats    map[string]*domain.RunningStats
}

// NewAggregator creates a new Aggregator instance with empty tables.
func NewAggregator() *Aggregator {
	return &Aggregator{
		overallStats: make(map[string]*domain.RunningStats),
		projectStats: make(map[string]*domain.RunningStats),
		repoStats:    make(map[string]*domain.RunningStats),
	}
}

// Aggregate folds facts in input order into all three tables. Accumulators
// are created lazily on the first fact for a key and updated in place
// afterwards.
func (a *Aggregator) Aggregate(facts []domain.PullRequestFact) {
	for _, fact := range facts {
		update(a.overallStats, OverallKey, fact)
		update(a.projectStats, fact.Project, fact)
		update(a.repoStats, fact.Project+"|"+fact.Repo, fact)
	}
}

func update(table map[string]*domain.RunningStats, key string, fact domain.PullRequestFact) {
	if entry, ok := table[key]; ok {
		entry.Update(fact)
		return
	}
	table[key] = domain.NewRunningStats(fact)
}

// OverallStats returns the single-entry overall table.
func (a *Aggregator) OverallStats() map[string]*domain.RunningStats {
	return a.overallStats
}

// ProjectStats returns the per-project table keyed by project key.
func (a *Aggregator) ProjectStats() map[string]*domain.RunningStats {
	return a.projectStats
}

// RepoStats returns the per-repo table keyed by "projectKey|repoSlug".
func (a *Aggregator) RepoStats() map[string]*domain.RunningStats {
	return a.repoStats
}
