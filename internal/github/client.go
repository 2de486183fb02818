package github

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	gogithub "github.com/google/go-github/v54/github"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ryo246912/gh-perfeed/internal/models"
)

// perPage is the largest page size the REST API accepts.
const perPage = 100

// Client wraps GitHub API clients for a single owner (user or organization)
type Client struct {
	owner string
	rest  *api.RESTClient
	gql   *api.GraphQLClient
	log   *zap.SugaredLogger
}

// NewClient builds REST and GraphQL clients from opts. An empty AuthToken falls back to gh's stored credentials.
func NewClient(owner string, opts api.ClientOptions, log *zap.SugaredLogger) (*Client, error) {
	restClient, err := api.NewRESTClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	gqlClient, err := api.NewGraphQLClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL client: %w", err)
	}

	return &Client{
		owner: owner,
		rest:  restClient,
		gql:   gqlClient,
		log:   log,
	}, nil
}

// Owner returns the repository owner the client is bound to
func (c *Client) Owner() string {
	return c.owner
}

// GetCurrentUserLogin fetches current user's login
func (c *Client) GetCurrentUserLogin(ctx context.Context) (string, error) {
	var user gogithub.User
	if err := c.rest.DoWithContext(ctx, http.MethodGet, "user", nil, &user); err != nil {
		return "", fmt.Errorf("failed to fetch current user: %w", err)
	}
	return user.GetLogin(), nil
}

// GetPR fetches a pull request and aggregates its commits, reviews and comments
func (c *Client) GetPR(ctx context.Context, repo string, prNumber int) (*models.PullRequest, error) {
	var pr gogithub.PullRequest
	path := fmt.Sprintf("repos/%s/%s/pulls/%d", c.owner, repo, prNumber)
	if err := c.rest.DoWithContext(ctx, http.MethodGet, path, nil, &pr); err != nil {
		return nil, fmt.Errorf("failed to fetch pull request #%d: %w", prNumber, err)
	}
	return c.toPullRequest(ctx, repo, &pr)
}

func (c *Client) toPullRequest(ctx context.Context, repo string, pr *gogithub.PullRequest) (*models.PullRequest, error) {
	number := pr.GetNumber()
	base := fmt.Sprintf("repos/%s/%s/pulls/%d", c.owner, repo, number)

	var (
		commits  []*gogithub.RepositoryCommit
		reviews  []*gogithub.PullRequestReview
		comments []models.PRComment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		commits, err = getAll[*gogithub.RepositoryCommit](gctx, c.rest, base+"/commits")
		if err != nil {
			return fmt.Errorf("failed to fetch commits: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		reviews, err = getAll[*gogithub.PullRequestReview](gctx, c.rest, base+"/reviews")
		if err != nil {
			return fmt.Errorf("failed to fetch reviews: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		comments, err = c.ListPRComments(gctx, repo, number)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to aggregate pull request #%d: %w", number, err)
	}

	author := pr.GetUser().GetLogin()
	result := &models.PullRequest{
		Number:           number,
		Title:            pr.GetTitle(),
		State:            pr.GetState(),
		Author:           author,
		Reviewers:        c.reviewers(reviews, author),
		CreatedAt:        pr.GetCreatedAt().Time.UTC(),
		FirstCommittedAt: firstCommittedAt(commits),
		Description:      pr.GetBody(),
		DiffURL:          pr.GetDiffURL(),
		Comments:         comments,
		DiffLines:        models.DiffLines(pr.GetAdditions(), pr.GetDeletions()),
		MergedAt:         utcPtr(pr.MergedAt),
	}

	c.log.Debugw("fetched pull request",
		"repo", repo,
		"number", number,
		"commits", len(commits),
		"reviews", len(reviews),
		"comments", len(comments),
	)
	return result, nil
}

// reviewers returns the distinct review authors other than the PR author and bots, sorted
func (c *Client) reviewers(reviews []*gogithub.PullRequestReview, author string) []string {
	userSet := make(map[string]struct{}) // Use map as set
	for _, review := range reviews {
		login := review.GetUser().GetLogin()
		if c.isValidUser(login, review.GetUser().GetType(), author) {
			userSet[login] = struct{}{}
		}
	}

	users := make([]string, 0, len(userSet))
	for u := range userSet {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// isValidUser checks if user counts as a reviewer of a PR opened by author
func (c *Client) isValidUser(login, userType, author string) bool {
	return login != author &&
		!strings.HasSuffix(login, "[bot]") &&
		userType != "Bot" &&
		login != ""
}

// firstCommittedAt returns the earliest commit author date, or the zero time without commits
func firstCommittedAt(commits []*gogithub.RepositoryCommit) time.Time {
	var first time.Time
	for _, commit := range commits {
		date := commit.GetCommit().GetAuthor().GetDate().Time
		if date.IsZero() {
			continue
		}
		if first.IsZero() || date.Before(first) {
			first = date
		}
	}
	if first.IsZero() {
		return first
	}
	return first.UTC()
}

// ListPRComments fetches issue and review comments concurrently and merges them by creation time
func (c *Client) ListPRComments(ctx context.Context, repo string, prNumber int) ([]models.PRComment, error) {
	var issueComments, reviewComments []models.PRComment

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		issueComments, err = c.listIssueComments(gctx, repo, prNumber)
		return err
	})
	g.Go(func() error {
		var err error
		reviewComments, err = c.listReviewComments(gctx, repo, prNumber)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergeComments(issueComments, reviewComments), nil
}

func (c *Client) listIssueComments(ctx context.Context, repo string, prNumber int) ([]models.PRComment, error) {
	path := fmt.Sprintf("repos/%s/%s/issues/%d/comments", c.owner, repo, prNumber)
	raw, err := getAll[*gogithub.IssueComment](ctx, c.rest, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issue comments: %w", err)
	}

	comments := make([]models.PRComment, 0, len(raw))
	for _, comment := range raw {
		comments = append(comments, models.PRComment{
			ID:        comment.GetID(),
			Type:      models.IssueComment,
			User:      comment.GetUser().GetLogin(),
			UserType:  comment.GetUser().GetType(),
			Body:      comment.Body,
			CreatedAt: comment.GetCreatedAt().Time.UTC(),
			HTMLURL:   comment.HTMLURL,
		})
	}
	return comments, nil
}

func (c *Client) listReviewComments(ctx context.Context, repo string, prNumber int) ([]models.PRComment, error) {
	path := fmt.Sprintf("repos/%s/%s/pulls/%d/comments", c.owner, repo, prNumber)
	raw, err := getAll[*gogithub.PullRequestComment](ctx, c.rest, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch review comments: %w", err)
	}

	comments := make([]models.PRComment, 0, len(raw))
	for _, comment := range raw {
		comments = append(comments, models.PRComment{
			ID:          comment.GetID(),
			Type:        models.ReviewComment,
			User:        comment.GetUser().GetLogin(),
			UserType:    comment.GetUser().GetType(),
			DiffHunk:    comment.DiffHunk,
			Body:        comment.Body,
			CreatedAt:   comment.GetCreatedAt().Time.UTC(),
			InReplyToID: comment.InReplyTo,
			HTMLURL:     comment.HTMLURL,
		})
	}
	return comments, nil
}

// mergeComments concatenates comment groups and orders them ascending by created_at.
// Ties keep their group order.
func mergeComments(groups ...[]models.PRComment) []models.PRComment {
	size := 0
	for _, group := range groups {
		size += len(group)
	}

	merged := make([]models.PRComment, 0, size)
	for _, group := range groups {
		merged = append(merged, group...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})
	return merged
}

// ListPRFiles fetches the per-file patches of a pull request
func (c *Client) ListPRFiles(ctx context.Context, repo string, prNumber int) ([]models.FileDiff, error) {
	path := fmt.Sprintf("repos/%s/%s/pulls/%d/files", c.owner, repo, prNumber)
	raw, err := getAll[*gogithub.CommitFile](ctx, c.rest, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch files of pull request #%d: %w", prNumber, err)
	}

	files := make([]models.FileDiff, 0, len(raw))
	for _, f := range raw {
		files = append(files, models.FileDiff{
			Filename: f.GetFilename(),
			Status:   f.GetStatus(),
			Patch:    f.GetPatch(),
		})
	}
	return files, nil
}

// ListPRNumbers returns closed PRs of owner/repo created within [start, end], newest first
func (c *Client) ListPRNumbers(ctx context.Context, owner, repo string, start, end time.Time) ([]int, error) {
	return c.listNumbersInWindow(ctx, owner, repo, "closed", start, end, nil)
}

// SearchPRs returns PRs created within [start, end] and authored by one of usernames
func (c *Client) SearchPRs(ctx context.Context, repo string, start, end time.Time, usernames []string, closedOnly bool) ([]int, error) {
	authors := make(map[string]struct{}, len(usernames))
	for _, u := range usernames {
		authors[u] = struct{}{}
	}

	state := "all"
	if closedOnly {
		state = "closed"
	}

	return c.listNumbersInWindow(ctx, c.owner, repo, state, start, end, func(pr *gogithub.PullRequest) bool {
		_, ok := authors[pr.GetUser().GetLogin()]
		return ok
	})
}

// listNumbersInWindow pages through PRs sorted by creation, newest first, and keeps those created
// within [start, end] that also pass keep. Paging stops at the first page with fewer than perPage
// PRs inside the window.
func (c *Client) listNumbersInWindow(ctx context.Context, owner, repo, state string, start, end time.Time, keep func(*gogithub.PullRequest) bool) ([]int, error) {
	numbers := []int{}
	for page := 1; ; page++ {
		path := fmt.Sprintf("repos/%s/%s/pulls?state=%s&sort=created&direction=desc&per_page=%d&page=%d",
			owner, repo, state, perPage, page)

		var prs []*gogithub.PullRequest
		if err := c.rest.DoWithContext(ctx, http.MethodGet, path, nil, &prs); err != nil {
			return nil, fmt.Errorf("failed to list pull requests: %w", err)
		}

		matched := 0
		for _, pr := range prs {
			if !inWindow(pr.GetCreatedAt().Time, start, end) {
				continue
			}
			matched++
			if keep == nil || keep(pr) {
				numbers = append(numbers, pr.GetNumber())
			}
		}

		c.log.Debugw("listed pull request page",
			"repo", owner+"/"+repo,
			"page", page,
			"received", len(prs),
			"in_window", matched,
		)

		// TODO: skip pages newer than the window instead of stopping, so windows older than the
		// most recent 100 PRs are not reported empty.
		if matched < perPage {
			return numbers, nil
		}
	}
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// getAll drains a list endpoint page by page until a short page
func getAll[T any](ctx context.Context, rest *api.RESTClient, path string) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		var batch []T
		if err := rest.DoWithContext(ctx, http.MethodGet, withPage(path, page), nil, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			return all, nil
		}
	}
}

func withPage(path string, page int) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sper_page=%d&page=%d", path, sep, perPage, page)
}

func utcPtr(ts *gogithub.Timestamp) *time.Time {
	if ts == nil || ts.Time.IsZero() {
		return nil
	}
	t := ts.Time.UTC()
	return &t
}
