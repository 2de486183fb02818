package github

import (
	"context"
	"time"

	"github.com/ryo246912/gh-perfeed/internal/models"
)

// Provider defines the read-only operations the summarizers need from a hosting API
type Provider interface {
	GetPR(ctx context.Context, repo string, prNumber int) (*models.PullRequest, error)
	ListPRComments(ctx context.Context, repo string, prNumber int) ([]models.PRComment, error)
	ListPRNumbers(ctx context.Context, owner, repo string, start, end time.Time) ([]int, error)
	SearchPRs(ctx context.Context, repo string, start, end time.Time, usernames []string, closedOnly bool) ([]int, error)
	ListPRFiles(ctx context.Context, repo string, prNumber int) ([]models.FileDiff, error)
}

// Searcher finds PRs for interactive selection
type Searcher interface {
	GetCurrentUserLogin(ctx context.Context) (string, error)
	SearchPullRequests(ctx context.Context, query string) ([]models.PRInfo, error)
}

// DiffFetcher downloads raw unified diff text
type DiffFetcher interface {
	FetchDiff(ctx context.Context, url string) (string, error)
}

// RepositoryInfo defines repository information interface
type RepositoryInfo interface {
	GetOwner() string
	GetName() string
}

// Ensure Client implements the provider interfaces
var (
	_ Provider    = (*Client)(nil)
	_ Searcher    = (*Client)(nil)
	_ DiffFetcher = (*HTTPDiffFetcher)(nil)
)
