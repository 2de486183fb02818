package main

import (
	"fmt"
	"strings"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/cli/go-gh/v2/pkg/repository"
	"go.uber.org/zap"

	"github.com/ryo246912/gh-perfeed/internal/config"
	"github.com/ryo246912/gh-perfeed/internal/github"
	"github.com/ryo246912/gh-perfeed/internal/llm"
	"github.com/ryo246912/gh-perfeed/internal/logger"
	"github.com/ryo246912/gh-perfeed/internal/prompt"
	"github.com/ryo246912/gh-perfeed/internal/ui"
)

// RepositoryAdapter adapts repository.Repository to our interface
type RepositoryAdapter struct {
	repo repository.Repository
}

func (r *RepositoryAdapter) GetOwner() string {
	return r.repo.Owner
}

func (r *RepositoryAdapter) GetName() string {
	return r.repo.Name
}

// app holds the dependencies shared by every subcommand
type app struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	repo    *RepositoryAdapter
	client  *github.Client
	diffs   *github.HTTPDiffFetcher
	llm     *llm.OpenAIClient
	prompts prompt.Set
	display ui.Display
}

func newApp(opts *rootOptions) (*app, error) {
	cfg, err := config.NewConfig(opts.envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	repo, err := resolveRepository(opts.repo, cfg.GitHub)
	if err != nil {
		return nil, err
	}

	token := cfg.GitHub.Token
	if token == "" {
		token, _ = auth.TokenForHost(cfg.GitHub.Host)
	}

	client, err := github.NewClient(repo.Owner, api.ClientOptions{Host: cfg.GitHub.Host, AuthToken: token}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	prompts, err := prompt.Load(cfg.Prompts.File)
	if err != nil {
		return nil, err
	}

	log.Debugw("configured", "repo", repo.Owner+"/"+repo.Name, "host", cfg.GitHub.Host, "llm", cfg.LLM.Provider, "model", cfg.LLM.Model)

	return &app{
		cfg:     cfg,
		log:     log,
		repo:    &RepositoryAdapter{repo: repo},
		client:  client,
		diffs:   github.NewDiffFetcher(token),
		llm:     llmClient,
		prompts: prompts,
		display: ui.NewMarkdownDisplay(),
	}, nil
}

// resolveRepository prefers the --repo flag, then the git remote of the working directory.
// A bare repository name is completed with github.owner.
func resolveRepository(flag string, cfg config.GitHubConfig) (repository.Repository, error) {
	if flag == "" {
		repo, err := repository.Current()
		if err != nil {
			return repository.Repository{}, fmt.Errorf("failed to get current repository: %w", err)
		}
		return repo, nil
	}

	if !strings.Contains(flag, "/") {
		if cfg.Owner == "" {
			return repository.Repository{}, fmt.Errorf("repository %q has no owner and github.owner is not set", flag)
		}
		return repository.Repository{Host: cfg.Host, Owner: cfg.Owner, Name: flag}, nil
	}

	repo, err := repository.Parse(flag)
	if err != nil {
		return repository.Repository{}, fmt.Errorf("invalid repository %q: %w", flag, err)
	}
	return repo, nil
}
