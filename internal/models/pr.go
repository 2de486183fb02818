package models

import (
	"fmt"
	"time"
)

// CommentType tags a comment with the endpoint it came from
type CommentType string

const (
	IssueComment  CommentType = "issue_comment"
	ReviewComment CommentType = "review_comment"
)

// PRInfo is the light PR record shown in selection lists
type PRInfo struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// FileDiff is the patch of a single file touched by a PR
type FileDiff struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Patch    string `json:"patch"`
}

// PRComment is an issue comment or a review comment on a PR
type PRComment struct {
	ID          int64       `json:"id"`
	Type        CommentType `json:"type"`
	User        string      `json:"user"`
	UserType    string      `json:"user_type"`
	DiffHunk    *string     `json:"diff_hunk"`
	Body        *string     `json:"body"`
	CreatedAt   time.Time   `json:"created_at"`
	InReplyToID *int64      `json:"in_reply_to_id"`
	HTMLURL     *string     `json:"html_url"`
}

// PullRequest is the aggregated view of a PR built from several API endpoints.
// Reviewers never contains the author or bot accounts.
type PullRequest struct {
	Number           int         `json:"number"`
	Title            string      `json:"title"`
	State            string      `json:"state"`
	Author           string      `json:"author"`
	Reviewers        []string    `json:"reviewers"`
	CreatedAt        time.Time   `json:"created_at"`
	FirstCommittedAt time.Time   `json:"first_committed_at"`
	Description      string      `json:"description"`
	CodeDiff         []FileDiff  `json:"code_diff"`
	DiffURL          string      `json:"diff_url"`
	Comments         []PRComment `json:"comments"`
	DiffLines        string      `json:"diff_lines"`
	MergedAt         *time.Time  `json:"merged_at"`
}

// DiffLines formats line counts the way GitHub shows them, e.g. "+10 -2".
func DiffLines(additions, deletions int) string {
	return fmt.Sprintf("+%d -%d", additions, deletions)
}

// WithCodeDiff returns a copy of the PR carrying the given file diffs.
func (p PullRequest) WithCodeDiff(files []FileDiff) PullRequest {
	p.CodeDiff = append([]FileDiff(nil), files...)
	return p
}

func (f FileDiff) ToMap() map[string]any {
	return map[string]any{
		"filename": f.Filename,
		"status":   f.Status,
		"patch":    f.Patch,
	}
}

func (c PRComment) ToMap() map[string]any {
	return map[string]any{
		"id":             c.ID,
		"type":           string(c.Type),
		"user":           c.User,
		"user_type":      c.UserType,
		"diff_hunk":      stringOrNil(c.DiffHunk),
		"body":           stringOrNil(c.Body),
		"created_at":     FormatTime(c.CreatedAt),
		"in_reply_to_id": int64OrNil(c.InReplyToID),
		"html_url":       stringOrNil(c.HTMLURL),
	}
}

// ToMap converts the PR to plain key/values. Unset optionals map to nil.
func (p PullRequest) ToMap() map[string]any {
	var codeDiff []map[string]any
	if p.CodeDiff != nil {
		codeDiff = make([]map[string]any, 0, len(p.CodeDiff))
		for _, f := range p.CodeDiff {
			codeDiff = append(codeDiff, f.ToMap())
		}
	}

	comments := make([]map[string]any, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, c.ToMap())
	}

	reviewers := append([]string{}, p.Reviewers...)

	m := map[string]any{
		"number":             p.Number,
		"title":              p.Title,
		"state":              p.State,
		"author":             p.Author,
		"reviewers":          reviewers,
		"created_at":         FormatTime(p.CreatedAt),
		"first_committed_at": FormatTime(p.FirstCommittedAt),
		"description":        p.Description,
		"code_diff":          nil,
		"diff_url":           p.DiffURL,
		"comments":           comments,
		"diff_lines":         p.DiffLines,
		"merged_at":          nil,
	}
	if codeDiff != nil {
		m["code_diff"] = codeDiff
	}
	if p.MergedAt != nil {
		m["merged_at"] = FormatTime(*p.MergedAt)
	}
	return m
}

// FormatTime renders t as RFC 3339 in UTC ("2024-10-21T09:00:00Z").
// The zero time renders as an empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func int64OrNil(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}
