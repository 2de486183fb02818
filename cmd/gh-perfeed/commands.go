package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryo246912/gh-perfeed/internal/service"
	"github.com/ryo246912/gh-perfeed/internal/ui"
)

func newPRCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pr [number]",
		Short: "Summarize one pull request",
		Long:  "Summarize one pull request. Without a number, pick one of your pull requests opened in the last 14 days.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			selector := service.NewPRSelector(a.client, a.repo, &ui.DefaultPrompter{})
			prNumber, err := selector.PRNumber(ctx, args)
			if err != nil {
				return fmt.Errorf("failed to get PR number: %w", err)
			}

			summarizer := service.NewPRSummarizer(a.client, a.diffs, a.llm, a.prompts.PRSummary, a.log)
			summary, metadata, err := summarizer.Run(ctx, a.repo.GetName(), prNumber)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(map[string]any{"summary": summary, "metadata": metadata}, "", "  ")
			if err != nil {
				return err
			}
			return a.display.Show(fmt.Sprintf("## #%d %s\n\n```json\n%s\n```\n", prNumber, summary.Title, out))
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var withFiles bool

	cmd := &cobra.Command{
		Use:   "show <number>",
		Short: "Print the aggregated pull request as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			prNumber, err := service.NewPRSelector(a.client, a.repo, &ui.DefaultPrompter{}).PRNumber(ctx, args)
			if err != nil {
				return err
			}

			pr, err := service.LoadPR(ctx, a.client, a.repo.GetName(), prNumber, withFiles)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(pr.ToMap())
		},
	}
	cmd.Flags().BoolVar(&withFiles, "files", false, "include per-file patches")
	return cmd
}

func newWeeklyCmd(opts *rootOptions) *cobra.Command {
	var (
		start string
		users []string
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Write a weekly report of the pull requests users closed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := service.ParseWeekStart(start, time.Local); err != nil {
				return err
			}

			a, err := newApp(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			logins, err := service.NewPRSelector(a.client, a.repo, &ui.DefaultPrompter{}).Users(ctx, users)
			if err != nil {
				return err
			}

			if !yes {
				prompter := &ui.DefaultPrompter{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}
				ok, err := prompter.Confirm(fmt.Sprintf("Summarize %s/%s for %v starting %s?", a.repo.GetOwner(), a.repo.GetName(), logins, start))
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("weekly summary cancelled")
				}
			}

			summarizer := service.NewPRSummarizer(a.client, a.diffs, a.llm, a.prompts.PRSummary, a.log)
			weekly := service.NewWeeklySummarizer(a.client, summarizer, a.llm, a.prompts.WeeklySummary, a.display, a.log)
			return weekly.Run(ctx, logins, a.repo.GetName(), start)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day of the week, a Sunday or Monday (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&users, "users", nil, "comma separated logins (defaults to you)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}
