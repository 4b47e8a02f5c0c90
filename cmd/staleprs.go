package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tclindner/bitbucket-server-cli/internal/config"
	"github.com/tclindner/bitbucket-server-cli/internal/domain"
	"github.com/tclindner/bitbucket-server-cli/internal/reporter"
	"github.com/tclindner/bitbucket-server-cli/internal/usecase"
)

var stalePrsCmd = &cobra.Command{
	Use:     "stale-prs",
	Aliases: []string{"sp"},
	Short:   "Flags open pull requests that have gone stale",
	Long: `Scans the open pull requests of every configured project and flags
those whose last update is older than the configured staleness
threshold, e.g. "2 weeks".`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		configFile, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadStaleConfig(configFile)
		if err != nil {
			fatal(err)
		}
		threshold, err := config.ParseHumanDuration(cfg.DefinitionOfStale)
		if err != nil {
			fatal(err)
		}

		fetcher, err := newFetcher(logger)
		if err != nil {
			fatal(err)
		}
		auditor := usecase.NewStaleAuditor(fetcher, threshold, logger)

		var (
			mu    sync.Mutex
			stale []domain.StalePullRequest
		)
		g, ctx := errgroup.WithContext(ctx)
		for _, project := range cfg.Projects {
			project := project
			g.Go(func() error {
				found, err := auditor.AuditProject(ctx, project)
				if err != nil {
					return err
				}
				mu.Lock()
				stale = append(stale, found...)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			fatal(fmt.Errorf("stale pull request audit failed: %w", err))
		}

		reporter.WriteStalePullRequests(os.Stdout, stale, time.Now())
		printCompletion()
	},
}

func init() {
	rootCmd.AddCommand(stalePrsCmd)
	stalePrsCmd.Flags().StringP("config", "c", "", "Path to the stale-prs config file (default ~/.bitbucket-server-cli/stalePrsConfig.json)")
}
