package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ryo246912/gh-perfeed/internal/github"
	"github.com/ryo246912/gh-perfeed/internal/ui"
)

// pickerLookback bounds the PRs offered by the interactive picker
const pickerLookback = 14 * 24 * time.Hour

// PRSelector resolves which PR and which users a command works on
type PRSelector struct {
	searcher github.Searcher
	repo     github.RepositoryInfo
	prompter ui.Prompter
	now      func() time.Time
}

// NewPRSelector creates a new selector instance
func NewPRSelector(searcher github.Searcher, repo github.RepositoryInfo, prompter ui.Prompter) *PRSelector {
	return &PRSelector{
		searcher: searcher,
		repo:     repo,
		prompter: prompter,
		now:      time.Now,
	}
}

// PRNumber parses the PR number from args, or lets the user pick one of their recent PRs
func (s *PRSelector) PRNumber(ctx context.Context, args []string) (int, error) {
	if len(args) >= 1 {
		prNumber, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, errors.Wrap(err, "invalid PR number")
		}
		if prNumber <= 0 {
			return 0, errors.New("PR number must be positive")
		}
		return prNumber, nil
	}

	self, err := s.searcher.GetCurrentUserLogin(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get current user")
	}

	since := s.now().Add(-pickerLookback)
	prs, err := s.searcher.SearchPullRequests(ctx, github.AuthoredQuery(s.repo.GetOwner(), s.repo.GetName(), self, since))
	if err != nil {
		return 0, errors.Wrap(err, "failed to search PRs")
	}

	return s.prompter.SelectPR(prs)
}

// Users validates the given logins, defaulting to the authenticated user
func (s *PRSelector) Users(ctx context.Context, users []string) ([]string, error) {
	if len(users) == 0 {
		self, err := s.searcher.GetCurrentUserLogin(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get current user")
		}
		return []string{self}, nil
	}

	seen := make(map[string]bool, len(users))
	valid := make([]string, 0, len(users))
	for _, user := range users {
		user = strings.TrimPrefix(strings.TrimSpace(user), "@")
		if user == "" {
			return nil, errors.New("user name cannot be empty")
		}
		if seen[user] {
			continue
		}
		seen[user] = true
		valid = append(valid, user)
	}
	return valid, nil
}
