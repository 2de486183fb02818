package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }

func TestFileDiff_ToMap(t *testing.T) {
	f := FileDiff{Filename: "test_file.go", Status: "modified", Patch: "@@ -1,2 +1,2 @@"}

	assert.Equal(t, map[string]any{
		"filename": "test_file.go",
		"status":   "modified",
		"patch":    "@@ -1,2 +1,2 @@",
	}, f.ToMap())
}

func TestPRComment_ToMap(t *testing.T) {
	created := time.Date(2023, 10, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		comment  PRComment
		expected map[string]any
	}{
		{
			name: "all fields set",
			comment: PRComment{
				ID:          123,
				Type:        ReviewComment,
				User:        "test_user",
				UserType:    "User",
				DiffHunk:    strPtr("@@ -1 +1 @@"),
				Body:        strPtr("This is a comment."),
				CreatedAt:   created,
				InReplyToID: int64Ptr(456),
				HTMLURL:     strPtr("http://example.com/comment/123"),
			},
			expected: map[string]any{
				"id":             int64(123),
				"type":           "review_comment",
				"user":           "test_user",
				"user_type":      "User",
				"diff_hunk":      "@@ -1 +1 @@",
				"body":           "This is a comment.",
				"created_at":     "2023-10-01T10:00:00Z",
				"in_reply_to_id": int64(456),
				"html_url":       "http://example.com/comment/123",
			},
		},
		{
			name: "optional fields unset",
			comment: PRComment{
				ID:        123,
				Type:      IssueComment,
				User:      "test_user",
				UserType:  "User",
				CreatedAt: created,
			},
			expected: map[string]any{
				"id":             int64(123),
				"type":           "issue_comment",
				"user":           "test_user",
				"user_type":      "User",
				"diff_hunk":      nil,
				"body":           nil,
				"created_at":     "2023-10-01T10:00:00Z",
				"in_reply_to_id": nil,
				"html_url":       nil,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.comment.ToMap()
			assert.Equal(t, tt.expected, got)
			// unset optionals are present with a nil value, never omitted
			for _, key := range []string{"diff_hunk", "body", "in_reply_to_id", "html_url"} {
				_, ok := got[key]
				assert.True(t, ok, "key %q missing", key)
			}
		})
	}
}

func TestPullRequest_ToMap(t *testing.T) {
	fileDiff := FileDiff{Filename: "test_file.go", Status: "modified", Patch: "@@ -1,2 +1,2 @@"}
	comment := PRComment{
		ID:        123,
		Type:      IssueComment,
		User:      "test_user",
		UserType:  "User",
		DiffHunk:  strPtr("@@ -1 +1 @@"),
		Body:      strPtr("This is a comment."),
		CreatedAt: time.Date(2023, 10, 1, 10, 0, 0, 0, time.UTC),
	}
	pr := PullRequest{
		Number:           1,
		Title:            "Fix issue",
		State:            "open",
		Author:           "contributor",
		Reviewers:        []string{"reviewer1", "reviewer2"},
		CreatedAt:        time.Date(2023, 9, 30, 12, 0, 0, 0, time.UTC),
		FirstCommittedAt: time.Date(2023, 9, 29, 15, 0, 0, 0, time.UTC),
		Description:      "This PR fixes an issue.",
		CodeDiff:         []FileDiff{fileDiff},
		DiffURL:          "http://example.com/diff/1",
		Comments:         []PRComment{comment},
		DiffLines:        DiffLines(10, 2),
	}

	assert.Equal(t, map[string]any{
		"number":             1,
		"title":              "Fix issue",
		"state":              "open",
		"author":             "contributor",
		"reviewers":          []string{"reviewer1", "reviewer2"},
		"created_at":         "2023-09-30T12:00:00Z",
		"first_committed_at": "2023-09-29T15:00:00Z",
		"description":        "This PR fixes an issue.",
		"code_diff":          []map[string]any{fileDiff.ToMap()},
		"diff_url":           "http://example.com/diff/1",
		"comments":           []map[string]any{comment.ToMap()},
		"diff_lines":         "+10 -2",
		"merged_at":          nil,
	}, pr.ToMap())
}

func TestPullRequest_ToMapMergedWithoutFiles(t *testing.T) {
	merged := time.Date(2023, 10, 2, 8, 30, 0, 0, time.FixedZone("JST", 9*60*60))
	pr := PullRequest{Number: 7, MergedAt: &merged}

	m := pr.ToMap()
	assert.Equal(t, "2023-10-01T23:30:00Z", m["merged_at"])
	assert.Nil(t, m["code_diff"])
	assert.Equal(t, []map[string]any{}, m["comments"])
}

func TestPullRequest_WithCodeDiff(t *testing.T) {
	pr := PullRequest{Number: 1}
	files := []FileDiff{{Filename: "a.go", Status: "added", Patch: "+x"}}

	withFiles := pr.WithCodeDiff(files)
	files[0].Filename = "changed.go"

	assert.Nil(t, pr.CodeDiff)
	require.Len(t, withFiles.CodeDiff, 1)
	assert.Equal(t, "a.go", withFiles.CodeDiff[0].Filename)
}

func TestDiffLines(t *testing.T) {
	assert.Equal(t, "+10 -2", DiffLines(10, 2))
	assert.Equal(t, "+0 -0", DiffLines(0, 0))
}

func TestPRComment_JSONKeepsNulls(t *testing.T) {
	c := PRComment{ID: 1, Type: IssueComment, User: "u", UserType: "User"}

	b, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	v, ok := decoded["in_reply_to_id"]
	assert.True(t, ok)
	assert.Nil(t, v)
}
