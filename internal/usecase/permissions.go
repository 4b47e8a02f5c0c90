// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tclindner/bitbucket-server-cli/internal/config"
	"github.com/tclindner/bitbucket-server-cli/internal/domain"
	"github.com/tclindner/bitbucket-server-cli/internal/gateway"
)

// PermissionAuditor reconciles the project and repo ACLs observed on the
// server against the expected permission maps from configuration.
type PermissionAuditor struct {
	fetcher gateway.Fetcher
	logger  *logrus.Logger
}

// NewPermissionAuditor creates a new PermissionAuditor instance.
func NewPermissionAuditor(fetcher gateway.Fetcher, logger *logrus.Logger) *PermissionAuditor {
	return &PermissionAuditor{
		fetcher: fetcher,
		logger:  logger,
	}
}

// observedEntry is a kind-neutral view of one (entity, permission) pair.
type observedEntry struct {
	name        string
	displayName string
	permission  string
}

func groupEntries(perms []gateway.GroupPermission) []observedEntry {
	entries := make([]observedEntry, 0, len(perms))
	for _, p := range perms {
		entries = append(entries, observedEntry{
			name:        p.Group.Name,
			displayName: p.Group.Name,
			permission:  p.Permission,
		})
	}
	return entries
}

func userEntries(perms []gateway.UserPermission) []observedEntry {
	entries := make([]observedEntry, 0, len(perms))
	for _, p := range perms {
		entries = append(entries, observedEntry{
			name:        p.User.Name,
			displayName: p.User.DisplayName,
			permission:  p.Permission,
		})
	}
	return entries
}

// AuditProject diffs every scope of one configured project: project-level
// users and groups, then users and groups of every repo under the project.
// Repos are never excluded here; permission coverage is always complete.
// All scope fetches run concurrently and the first failure aborts the
// whole audit.
func (a *PermissionAuditor) AuditProject(ctx context.Context, cfg config.ProjectPermissionConfig) ([]domain.PermissionDiscrepancy, error) {
	var (
		mu            sync.Mutex
		discrepancies []domain.PermissionDiscrepancy
	)
	collect := func(found []domain.PermissionDiscrepancy) {
		mu.Lock()
		discrepancies = append(discrepancies, found...)
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		groups, err := a.fetcher.ProjectGroupPermissions(ctx, cfg.Project)
		if err != nil {
			return fmt.Errorf("project %s group permissions: %w", cfg.Project, err)
		}
		collect(diffPermissions(cfg.Project, "", domain.EntityGroup, groupEntries(groups), cfg.ProjectPermissions.Groups))
		return nil
	})
	g.Go(func() error {
		users, err := a.fetcher.ProjectUserPermissions(ctx, cfg.Project)
		if err != nil {
			return fmt.Errorf("project %s user permissions: %w", cfg.Project, err)
		}
		collect(diffPermissions(cfg.Project, "", domain.EntityUsers, userEntries(users), cfg.ProjectPermissions.Users))
		return nil
	})
	g.Go(func() error {
		repos, err := a.fetcher.Repos(ctx, cfg.Project)
		if err != nil {
			return fmt.Errorf("project %s repos: %w", cfg.Project, err)
		}

		rg, ctx := errgroup.WithContext(ctx)
		for _, repo := range repos {
			repo := repo
			rg.Go(func() error {
				groups, err := a.fetcher.RepoGroupPermissions(ctx, repo.Project.Key, repo.Slug)
				if err != nil {
					return fmt.Errorf("repo %s/%s group permissions: %w", repo.Project.Key, repo.Slug, err)
				}
				collect(diffPermissions(cfg.Project, repo.Slug, domain.EntityGroup, groupEntries(groups), cfg.RepoPermissions.Groups))
				return nil
			})
			rg.Go(func() error {
				users, err := a.fetcher.RepoUserPermissions(ctx, repo.Project.Key, repo.Slug)
				if err != nil {
					return fmt.Errorf("repo %s/%s user permissions: %w", repo.Project.Key, repo.Slug, err)
				}
				collect(diffPermissions(cfg.Project, repo.Slug, domain.EntityUsers, userEntries(users), cfg.RepoPermissions.Users))
				return nil
			})
		}
		return rg.Wait()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.Infof("%s project audit complete", cfg.Project)
	return discrepancies, nil
}

// diffPermissions runs both diff passes for one scope and entity kind:
// observed entries with a missing or mismatched expected entry, then
// expected entries absent from the observed set (reported with the
// expected permission). Name comparison is exact and case-sensitive.
func diffPermissions(project, repo string, kind domain.EntityKind, observed []observedEntry, expected map[string]string) []domain.PermissionDiscrepancy {
	var discrepancies []domain.PermissionDiscrepancy

	seen := make(map[string]bool, len(observed))
	for _, entry := range observed {
		seen[entry.name] = true
		expectedPermission, ok := expected[entry.name]
		if !ok || expectedPermission != entry.permission {
			discrepancies = append(discrepancies, domain.PermissionDiscrepancy{
				Project:    project,
				Repo:       repo,
				Entity:     kind,
				EntityName: entry.displayName,
				Permission: entry.permission,
			})
		}
	}

	for name, permission := range expected {
		if !seen[name] {
			discrepancies = append(discrepancies, domain.PermissionDiscrepancy{
				Project:    project,
				Repo:       repo,
				Entity:     kind,
				EntityName: name,
				Permission: permission,
			})
		}
	}

	return discrepancies
}
