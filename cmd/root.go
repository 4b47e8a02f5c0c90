// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tclindner/bitbucket-server-cli/internal/config"
	"github.com/tclindner/bitbucket-server-cli/internal/gateway"
)

var rootCmd = &cobra.Command{
	Use:   "bitbucket-server-cli",
	Short: "A CLI tool to audit Bitbucket Server projects.",
	Long: `bitbucket-server-cli audits Bitbucket Server projects over the REST API.
It can reconcile project and repo permissions against an expected
configuration, flag open pull requests that have gone stale, and
aggregate merged pull request statistics over a date range.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// newLogger builds the command logger. Output is discarded unless the
// verbose flag is set, in which case debug logs go to standard error.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	if verbose {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// newFetcher wires the Bitbucket gateway from environment credentials.
func newFetcher(logger *logrus.Logger) (gateway.Fetcher, error) {
	apiConfig, err := config.LoadAPIConfig()
	if err != nil {
		return nil, err
	}
	return gateway.NewClient(apiConfig.BaseURL, apiConfig.Username, apiConfig.Password, logger), nil
}

func fatal(err error) {
	color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, err)
	os.Exit(1)
}

func printCompletion() {
	color.New(color.FgGreen, color.Bold).Println("bitbucket-server-cli completed successfully")
}
