package github

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ryo246912/gh-perfeed/internal/models"
)

// MockProvider implements Provider for testing. Safe for concurrent use.
type MockProvider struct {
	// Control test behavior
	PRs            map[int]*models.PullRequest
	PRErrors       map[int]error
	Comments       []models.PRComment
	CommentsError  error
	PRNumbers      []int
	PRNumbersError error
	SearchResult   []int
	SearchError    error
	Files          []models.FileDiff
	FilesError     error

	mu sync.Mutex

	// Track method calls
	GetPRCalls      []int
	SearchPRsCalled bool

	// Store call arguments for verification
	LastRepo       string
	LastStart      time.Time
	LastEnd        time.Time
	LastUsernames  []string
	LastClosedOnly bool
}

// GetPR returns the configured PR or error for prNumber
func (m *MockProvider) GetPR(ctx context.Context, repo string, prNumber int) (*models.PullRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPRCalls = append(m.GetPRCalls, prNumber)
	m.LastRepo = repo

	if err, ok := m.PRErrors[prNumber]; ok {
		return nil, err
	}
	pr, ok := m.PRs[prNumber]
	if !ok {
		return nil, NewNotFoundError(prNumber)
	}
	return pr, nil
}

// ListPRComments mocks the merged comment listing
func (m *MockProvider) ListPRComments(ctx context.Context, repo string, prNumber int) ([]models.PRComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRepo = repo
	return m.Comments, m.CommentsError
}

// ListPRNumbers mocks the windowed PR listing
func (m *MockProvider) ListPRNumbers(ctx context.Context, owner, repo string, start, end time.Time) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRepo = repo
	m.LastStart = start
	m.LastEnd = end
	return m.PRNumbers, m.PRNumbersError
}

// SearchPRs mocks the author filtered PR listing
func (m *MockProvider) SearchPRs(ctx context.Context, repo string, start, end time.Time, usernames []string, closedOnly bool) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchPRsCalled = true
	m.LastRepo = repo
	m.LastStart = start
	m.LastEnd = end
	m.LastUsernames = usernames
	m.LastClosedOnly = closedOnly
	return m.SearchResult, m.SearchError
}

// ListPRFiles mocks the file listing
func (m *MockProvider) ListPRFiles(ctx context.Context, repo string, prNumber int) ([]models.FileDiff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRepo = repo
	return m.Files, m.FilesError
}

// GetPRCallCount returns how many times GetPR ran
func (m *MockProvider) GetPRCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GetPRCalls)
}

// MockDiffFetcher implements DiffFetcher for testing
type MockDiffFetcher struct {
	Diff  string
	Error error

	mu   sync.Mutex
	URLs []string
}

// FetchDiff returns the configured diff
func (m *MockDiffFetcher) FetchDiff(ctx context.Context, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.URLs = append(m.URLs, url)
	return m.Diff, m.Error
}

// MockSearcher implements Searcher for testing
type MockSearcher struct {
	Login      string
	LoginError error
	PRs        []models.PRInfo
	PRsError   error

	// Track method calls
	LoginCalled bool
	LastQuery   string
}

// GetCurrentUserLogin returns the configured login
func (m *MockSearcher) GetCurrentUserLogin(ctx context.Context) (string, error) {
	m.LoginCalled = true
	return m.Login, m.LoginError
}

// SearchPullRequests records query and returns the configured PRs
func (m *MockSearcher) SearchPullRequests(ctx context.Context, query string) ([]models.PRInfo, error) {
	m.LastQuery = query
	return m.PRs, m.PRsError
}

// MockRepository for testing
type MockRepository struct {
	Owner string
	Name  string
}

func (m *MockRepository) GetOwner() string { return m.Owner }
func (m *MockRepository) GetName() string  { return m.Name }

// Helper functions for creating test data
func CreateTestPRs(count int, author string) map[int]*models.PullRequest {
	prs := make(map[int]*models.PullRequest, count)
	for i := 1; i <= count; i++ {
		created := time.Date(2024, 10, 21, 9, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour)
		merged := created.Add(2 * time.Hour)
		prs[i] = &models.PullRequest{
			Number:           i,
			Title:            fmt.Sprintf("Test PR #%d", i),
			State:            "closed",
			Author:           author,
			Reviewers:        []string{fmt.Sprintf("reviewer%d", i)},
			CreatedAt:        created,
			FirstCommittedAt: created.Add(-time.Hour),
			Description:      fmt.Sprintf("Description of PR #%d", i),
			DiffURL:          fmt.Sprintf("https://github.com/owner/repo/pull/%d.diff", i),
			Comments:         []models.PRComment{},
			DiffLines:        models.DiffLines(i*10, i),
			MergedAt:         &merged,
		}
	}
	return prs
}

// Error helpers for testing error conditions
func NewNotFoundError(prNumber int) error {
	return fmt.Errorf("pull request #%d not found", prNumber)
}

func NewAPIError(message string) error {
	return fmt.Errorf("API error: %s", message)
}
