package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tclindner/bitbucket-server-cli/internal/config"
	"github.com/tclindner/bitbucket-server-cli/internal/domain"
	"github.com/tclindner/bitbucket-server-cli/internal/gateway"
)

// Harvester materializes one fact per merged pull request whose last
// update falls inside the stats window.
type Harvester struct {
	fetcher gateway.Fetcher
	start   time.Time
	end     time.Time
	logger  *logrus.Logger
}

// NewHarvester creates a new Harvester instance for the given window.
// Both bounds are inclusive.
func NewHarvester(fetcher gateway.Fetcher, start, end time.Time, logger *logrus.Logger) *Harvester {
	return &Harvester{
		fetcher: fetcher,
		start:   start,
		end:     end,
		logger:  logger,
	}
}

// HarvestProject harvests every non-excluded repo of one project
// concurrently. A single failure anywhere aborts the project's harvest.
func (h *Harvester) HarvestProject(ctx context.Context, cfg config.StatsProjectConfig) ([]domain.PullRequestFact, error) {
	repos, err := h.fetcher.Repos(ctx, cfg.Project)
	if err != nil {
		return nil, fmt.Errorf("project %s repos: %w", cfg.Project, err)
	}

	var (
		mu    sync.Mutex
		facts []domain.PullRequestFact
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, repo := range repos {
		if slices.Contains(cfg.ExcludedRepos, repo.Slug) {
			h.logger.Debugf("skipping excluded repo %s/%s", cfg.Project, repo.Slug)
			continue
		}
		repo := repo
		g.Go(func() error {
			found, err := h.harvestRepo(ctx, cfg.Project, repo)
			if err != nil {
				return err
			}
			mu.Lock()
			facts = append(facts, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h.logger.Infof("%s project harvest complete", cfg.Project)
	return facts, nil
}

func (h *Harvester) harvestRepo(ctx context.Context, project string, repo gateway.Repo) ([]domain.PullRequestFact, error) {
	pullRequests, err := h.fetcher.PullRequests(ctx, repo.Project.Key, repo.Slug, "MERGED")
	if err != nil {
		return nil, fmt.Errorf("repo %s/%s pull requests: %w", repo.Project.Key, repo.Slug, err)
	}

	startMillis, endMillis := h.start.UnixMilli(), h.end.UnixMilli()
	var (
		mu    sync.Mutex
		facts []domain.PullRequestFact
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, pr := range pullRequests {
		if pr.UpdatedDate < startMillis || pr.UpdatedDate > endMillis {
			continue
		}
		pr := pr
		g.Go(func() error {
			fact, err := h.buildFact(ctx, project, repo, pr)
			if err != nil {
				return err
			}
			mu.Lock()
			facts = append(facts, fact)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return facts, nil
}

// buildFact fetches the three pull request details concurrently and
// constructs the fact only once all of them have succeeded.
func (h *Harvester) buildFact(ctx context.Context, project string, repo gateway.Repo, pr gateway.PullRequest) (domain.PullRequestFact, error) {
	var (
		commitCount int
		taskCount   int
		issueKeys   []string
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		commits, err := h.fetcher.PullRequestCommits(ctx, repo.Project.Key, repo.Slug, pr.ID)
		if err != nil {
			return fmt.Errorf("pull request %s/%s/%d commits: %w", repo.Project.Key, repo.Slug, pr.ID, err)
		}
		commitCount = len(commits)
		return nil
	})
	g.Go(func() error {
		tasks, err := h.fetcher.PullRequestTaskCount(ctx, repo.Project.Key, repo.Slug, pr.ID)
		if err != nil {
			return fmt.Errorf("pull request %s/%s/%d task count: %w", repo.Project.Key, repo.Slug, pr.ID, err)
		}
		taskCount = tasks.Resolved
		return nil
	})
	g.Go(func() error {
		issues, err := h.fetcher.PullRequestIssues(ctx, repo.Project.Key, repo.Slug, pr.ID)
		if err != nil {
			return fmt.Errorf("pull request %s/%s/%d issues: %w", repo.Project.Key, repo.Slug, pr.ID, err)
		}
		for _, issue := range issues {
			issueKeys = append(issueKeys, issue.Key)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.PullRequestFact{}, err
	}

	return domain.PullRequestFact{
		Project:        project,
		Repo:           repo.Slug,
		ID:             pr.ID,
		CreatedWeekDay: time.UnixMilli(pr.CreatedDate).Weekday(),
		MergedWeekDay:  time.UnixMilli(pr.UpdatedDate).Weekday(),
		Age:            time.Duration(pr.UpdatedDate-pr.CreatedDate) * time.Millisecond,
		CommitCount:    commitCount,
		TaskCount:      taskCount,
		IssueKeys:      strings.Join(issueKeys, ", "),
	}, nil
}
