package github

import (
	"context"
	"fmt"
	"time"

	graphql "github.com/cli/shurcooL-graphql"

	"github.com/ryo246912/gh-perfeed/internal/models"
)

// AuthoredQuery builds a search query for PRs of owner/repo opened by author since the given day
func AuthoredQuery(owner, repo, author string, since time.Time) string {
	return fmt.Sprintf("repo:%s/%s is:pr author:%s created:>=%s sort:created-desc",
		owner, repo, author, since.Format("2006-01-02"))
}

// SearchPullRequests runs an issue search restricted to pull requests, following every result page
func (c *Client) SearchPullRequests(ctx context.Context, query string) ([]models.PRInfo, error) {
	var q struct {
		Search struct {
			Nodes []struct {
				PullRequest struct {
					Number    int
					Title     string
					State     string
					CreatedAt time.Time
					Author    struct {
						Login string
					}
				} `graphql:"... on PullRequest"`
			}
			PageInfo struct {
				HasNextPage bool
				EndCursor   string
			}
		} `graphql:"search(type: ISSUE, query: $query, first: $first, after: $endCursor)"`
	}

	variables := map[string]interface{}{
		"query":     graphql.String(query),
		"first":     graphql.Int(perPage),
		"endCursor": (*graphql.String)(nil),
	}

	var found []models.PRInfo
	for {
		if err := c.gql.QueryWithContext(ctx, "SearchPullRequests", &q, variables); err != nil {
			return nil, fmt.Errorf("failed to search pull requests: %w", err)
		}

		for _, node := range q.Search.Nodes {
			pr := node.PullRequest
			// non-PR nodes decode as zero values
			if pr.Number == 0 {
				continue
			}
			found = append(found, models.PRInfo{
				Number:    pr.Number,
				Title:     pr.Title,
				Author:    pr.Author.Login,
				State:     pr.State,
				CreatedAt: pr.CreatedAt.UTC(),
			})
		}

		if !q.Search.PageInfo.HasNextPage {
			return found, nil
		}
		variables["endCursor"] = graphql.String(q.Search.PageInfo.EndCursor)
	}
}
