package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ryo246912/gh-perfeed/internal/config"
)

type rootOptions struct {
	envFile  string
	logLevel string
	repo     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "perfeed",
		Short:        "Summarize pull requests and weekly activity with an LLM",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "dotenv file to read settings from")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVarP(&opts.repo, "repo", "R", "", "repository as OWNER/REPO (defaults to the current repository)")

	cmd.AddCommand(newPRCmd(opts), newShowCmd(opts), newWeeklyCmd(opts))
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
