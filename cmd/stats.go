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

var statsCmd = &cobra.Command{
	Use:     "pr-stats",
	Aliases: []string{"s"},
	Short:   "Aggregates merged pull request statistics over a date range",
	Long: `Harvests the merged pull requests of the given projects that fall inside
a date range and aggregates them into overall, per-project, and per-repo
statistics: counts, averages, weekday distributions, and the Jira issues
they resolved.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		startDate, _ := cmd.Flags().GetString("start-date")
		endDate, _ := cmd.Flags().GetString("end-date")
		relativeRange, _ := cmd.Flags().GetString("range")
		start, end, err := config.ResolveStatsWindow(startDate, endDate, relativeRange, time.Now())
		if err != nil {
			fatal(err)
		}

		projectsCSV, _ := cmd.Flags().GetString("projects")
		configFile, _ := cmd.Flags().GetString("config")
		projects, err := config.StatsProjects(projectsCSV, configFile)
		if err != nil {
			fatal(err)
		}

		fetcher, err := newFetcher(logger)
		if err != nil {
			fatal(err)
		}
		harvester := usecase.NewHarvester(fetcher, start, end, logger)

		var (
			mu    sync.Mutex
			facts []domain.PullRequestFact
		)
		g, ctx := errgroup.WithContext(ctx)
		for _, project := range projects {
			project := project
			g.Go(func() error {
				found, err := harvester.HarvestProject(ctx, project)
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
			fatal(fmt.Errorf("pull request stats harvest failed: %w", err))
		}

		aggregator := usecase.NewAggregator()
		aggregator.Aggregate(facts)

		reporter.WriteOverallStats(os.Stdout, aggregator.OverallStats())
		reporter.WriteProjectStats(os.Stdout, aggregator.ProjectStats())
		reporter.WriteRepoStats(os.Stdout, aggregator.RepoStats())
		printCompletion()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("projects", "p", "", "Comma separated list of project keys to harvest (required)")
	statsCmd.MarkFlagRequired("projects")
	statsCmd.Flags().StringP("start-date", "s", "", "Window start date (MM/DD/YYYY), used with --end-date")
	statsCmd.Flags().StringP("end-date", "e", "", "Window end date (MM/DD/YYYY), used with --start-date")
	statsCmd.Flags().StringP("range", "r", "", `Relative window anchored to today, e.g. "2 weeks"`)
	statsCmd.Flags().StringP("config", "c", "", "Path to an optional pr-stats config file with excluded repos")
}
