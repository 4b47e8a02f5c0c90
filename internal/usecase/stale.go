package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tclindner/bitbucket-server-cli/internal/config"
	"github.com/tclindner/bitbucket-server-cli/internal/domain"
	"github.com/tclindner/bitbucket-server-cli/internal/gateway"
)

// StaleAuditor flags open pull requests whose last update is older than
// the staleness threshold.
type StaleAuditor struct {
	fetcher          gateway.Fetcher
	defaultThreshold time.Duration
	logger           *logrus.Logger
	now              func() time.Time
}

// NewStaleAuditor creates a new StaleAuditor instance with the global
// staleness threshold. Projects may override it per config entry.
func NewStaleAuditor(fetcher gateway.Fetcher, defaultThreshold time.Duration, logger *logrus.Logger) *StaleAuditor {
	return &StaleAuditor{
		fetcher:          fetcher,
		defaultThreshold: defaultThreshold,
		logger:           logger,
		now:              time.Now,
	}
}

// AuditProject audits every non-excluded repo of one project. Repos are
// audited concurrently and a single repo failure aborts the project's
// audit.
func (a *StaleAuditor) AuditProject(ctx context.Context, cfg config.StaleProjectConfig) ([]domain.StalePullRequest, error) {
	threshold := a.defaultThreshold
	if cfg.DefinitionOfStale != "" {
		parsed, err := config.ParseHumanDuration(cfg.DefinitionOfStale)
		if err != nil {
			return nil, fmt.Errorf("project %s definition of stale: %w", cfg.Project, err)
		}
		threshold = parsed
	}

	repos, err := a.fetcher.Repos(ctx, cfg.Project)
	if err != nil {
		return nil, fmt.Errorf("project %s repos: %w", cfg.Project, err)
	}

	var (
		mu    sync.Mutex
		stale []domain.StalePullRequest
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, repo := range repos {
		if slices.Contains(cfg.ExcludedRepos, repo.Slug) {
			a.logger.Debugf("skipping excluded repo %s/%s", cfg.Project, repo.Slug)
			continue
		}
		repo := repo
		g.Go(func() error {
			pullRequests, err := a.fetcher.PullRequests(ctx, repo.Project.Key, repo.Slug, "OPEN")
			if err != nil {
				return fmt.Errorf("repo %s/%s pull requests: %w", repo.Project.Key, repo.Slug, err)
			}
			found := a.flagStale(cfg.Project, repo.Slug, pullRequests, threshold)
			mu.Lock()
			stale = append(stale, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.Infof("%s project audit complete", cfg.Project)
	return stale, nil
}

// flagStale keeps pull requests strictly older than the threshold. The
// clock is read per evaluation, so a long walk compares against fresh
// timestamps.
func (a *StaleAuditor) flagStale(project, repoSlug string, pullRequests []gateway.PullRequest, threshold time.Duration) []domain.StalePullRequest {
	var stale []domain.StalePullRequest
	for _, pr := range pullRequests {
		age := a.now().Sub(time.UnixMilli(pr.UpdatedDate))
		if age <= threshold {
			continue
		}
		stale = append(stale, domain.StalePullRequest{
			Project:     project,
			Repo:        repoSlug,
			ID:          pr.ID,
			Title:       pr.Title,
			Author:      pr.Author.User.DisplayName,
			CreatedDate: time.UnixMilli(pr.CreatedDate),
			UpdatedDate: time.UnixMilli(pr.UpdatedDate),
			FromBranch:  pr.FromRef.DisplayID,
			ToBranch:    pr.ToRef.DisplayID,
		})
	}
	return stale
}
