package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tclindner/bitbucket-server-cli/internal/config"
	"github.com/tclindner/bitbucket-server-cli/internal/domain"
	"github.com/tclindner/bitbucket-server-cli/internal/reporter"
	"github.com/tclindner/bitbucket-server-cli/internal/usecase"
)

var permissionsCmd = &cobra.Command{
	Use:     "audit-permissions",
	Aliases: []string{"ap"},
	Short:   "Audits project and repo permissions against expected configuration",
	Long: `Audits the group and user permissions of every configured project and
all of its repos, reporting entries that are missing, unexpected, or
hold the wrong permission level.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		configFile, _ := cmd.Flags().GetString("config")
		entries, err := config.LoadPermissionsConfig(configFile)
		if err != nil {
			fatal(err)
		}

		fetcher, err := newFetcher(logger)
		if err != nil {
			fatal(err)
		}
		auditor := usecase.NewPermissionAuditor(fetcher, logger)

		var (
			mu            sync.Mutex
			discrepancies []domain.PermissionDiscrepancy
		)
		g, ctx := errgroup.WithContext(ctx)
		for _, entry := range entries {
			entry := entry
			g.Go(func() error {
				found, err := auditor.AuditProject(ctx, entry)
				if err != nil {
					return err
				}
				mu.Lock()
				discrepancies = append(discrepancies, found...)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			fatal(fmt.Errorf("permission audit failed: %w", err))
		}

		reporter.WritePermissions(os.Stdout, discrepancies)
		printCompletion()
	},
}

func init() {
	rootCmd.AddCommand(permissionsCmd)
	permissionsCmd.Flags().StringP("config", "c", "", "Path to the permissions config file (default ~/.bitbucket-server-cli/permissionsConfig.json)")
}
