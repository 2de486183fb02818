// Package service holds the summarization workflows.
package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ryo246912/gh-perfeed/internal/github"
	"github.com/ryo246912/gh-perfeed/internal/llm"
	"github.com/ryo246912/gh-perfeed/internal/models"
	"github.com/ryo246912/gh-perfeed/internal/prompt"
)

// Summarizer produces the summary of a single PR
type Summarizer interface {
	Run(ctx context.Context, repo string, prNumber int) (models.PRSummary, models.PRSummaryMetadata, error)
}

// PRSummarizer asks the LLM for a structured summary of one PR
type PRSummarizer struct {
	provider github.Provider
	diffs    github.DiffFetcher
	llm      llm.Client
	tmpl     prompt.Template
	log      *zap.SugaredLogger
	now      func() time.Time
}

// NewPRSummarizer creates a new summarizer instance
func NewPRSummarizer(provider github.Provider, diffs github.DiffFetcher, client llm.Client, tmpl prompt.Template, log *zap.SugaredLogger) *PRSummarizer {
	return &PRSummarizer{
		provider: provider,
		diffs:    diffs,
		llm:      client,
		tmpl:     tmpl,
		log:      log,
		now:      time.Now,
	}
}

// Run fetches the PR and its diff, renders the prompts and parses the LLM reply
func (s *PRSummarizer) Run(ctx context.Context, repo string, prNumber int) (models.PRSummary, models.PRSummaryMetadata, error) {
	pr, err := s.provider.GetPR(ctx, repo, prNumber)
	if err != nil {
		return models.PRSummary{}, models.PRSummaryMetadata{}, errors.Wrapf(err, "failed to get PR #%d", prNumber)
	}

	diff, err := s.diffs.FetchDiff(ctx, pr.DiffURL)
	if err != nil {
		return models.PRSummary{}, models.PRSummaryMetadata{}, errors.Wrapf(err, "failed to get diff of PR #%d", prNumber)
	}

	schema, err := models.PRSummarySchema()
	if err != nil {
		return models.PRSummary{}, models.PRSummaryMetadata{}, err
	}

	system, user, err := s.tmpl.Render(map[string]any{
		"author":      pr.Author,
		"title":       pr.Title,
		"description": pr.Description,
		"code":        diff,
		"comments":    pr.ToMap()["comments"],
		"PRSummary":   schema,
	})
	if err != nil {
		return models.PRSummary{}, models.PRSummaryMetadata{}, errors.Wrapf(err, "failed to render prompts for PR #%d", prNumber)
	}

	s.log.Debugw("requesting pr summary", "repo", repo, "pr", prNumber, "model", s.llm.Model())
	raw, err := s.llm.ChatCompletion(ctx, system, user)
	if err != nil {
		return models.PRSummary{}, models.PRSummaryMetadata{}, errors.Wrapf(err, "failed to summarize PR #%d", prNumber)
	}

	curated, err := llm.CurateJSON(raw)
	if err != nil {
		return models.PRSummary{}, models.PRSummaryMetadata{}, errors.Wrapf(err, "PR #%d", prNumber)
	}
	summary, err := models.ParsePRSummary(curated)
	if err != nil {
		return models.PRSummary{}, models.PRSummaryMetadata{}, errors.Wrapf(err, "PR #%d", prNumber)
	}

	metadata := models.PRSummaryMetadata{
		Repo:        repo,
		Author:      pr.Author,
		PRNumber:    pr.Number,
		LLMProvider: s.llm.Provider(),
		Model:       s.llm.Model(),
		PRCreatedAt: pr.CreatedAt,
		PRMergedAt:  pr.MergedAt,
		CreatedAt:   s.now().UTC().Truncate(time.Second),
	}
	return summary, metadata, nil
}

// LoadPR returns the aggregated PR, with its changed files when withFiles is set
func LoadPR(ctx context.Context, provider github.Provider, repo string, prNumber int, withFiles bool) (models.PullRequest, error) {
	pr, err := provider.GetPR(ctx, repo, prNumber)
	if err != nil {
		return models.PullRequest{}, errors.Wrapf(err, "failed to get PR #%d", prNumber)
	}
	if !withFiles {
		return *pr, nil
	}

	files, err := provider.ListPRFiles(ctx, repo, prNumber)
	if err != nil {
		return models.PullRequest{}, errors.Wrapf(err, "failed to list files of PR #%d", prNumber)
	}
	return pr.WithCodeDiff(files), nil
}
