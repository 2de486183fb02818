package service

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ryo246912/gh-perfeed/internal/github"
	"github.com/ryo246912/gh-perfeed/internal/llm"
	"github.com/ryo246912/gh-perfeed/internal/models"
	"github.com/ryo246912/gh-perfeed/internal/prompt"
)

const validSummary = `{"title":"Add cache","type":"feature","summary":"Adds a cache.","key_changes":["cache"],"impact":"low","review_highlights":[]}`

var testTemplate = prompt.Template{
	System: "schema: {{ .PRSummary }}",
	User:   "{{ .author }}|{{ .title }}|{{ .description }}|{{ .code }}|{{ len .comments }}",
}

func newTestPRSummarizer(provider github.Provider, client llm.Client, tmpl prompt.Template) *PRSummarizer {
	s := NewPRSummarizer(provider, &github.MockDiffFetcher{Diff: "+added line"}, client, tmpl, zap.NewNop().Sugar())
	s.now = func() time.Time {
		return time.Date(2024, 10, 28, 18, 30, 15, 999, time.FixedZone("JST", 9*60*60))
	}
	return s
}

func TestPRSummarizer_Run(t *testing.T) {
	provider := &github.MockProvider{PRs: github.CreateTestPRs(1, "alice")}
	client := &llm.MockClient{Response: validSummary, ProviderName: "ollama", ModelName: "llama3.1:8b"}
	s := newTestPRSummarizer(provider, client, testTemplate)

	summary, meta, err := s.Run(context.Background(), "repo", 1)
	require.NoError(t, err)

	assert.Equal(t, "Add cache", summary.Title)
	assert.Equal(t, "feature", summary.Type)
	assert.Equal(t, []string{"cache"}, summary.KeyChanges)

	pr := provider.PRs[1]
	assert.Equal(t, models.PRSummaryMetadata{
		Repo:        "repo",
		Author:      "alice",
		PRNumber:    1,
		LLMProvider: "ollama",
		Model:       "llama3.1:8b",
		PRCreatedAt: pr.CreatedAt,
		PRMergedAt:  pr.MergedAt,
		CreatedAt:   time.Date(2024, 10, 28, 9, 30, 15, 0, time.UTC),
	}, meta)
	assert.Equal(t, "2024-10-28T09:30:15Z", models.FormatTime(meta.CreatedAt))

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].System, `"impact"`)
	assert.Equal(t, "alice|Test PR #1|Description of PR #1|+added line|0", calls[0].User)
}

func TestPRSummarizer_Run_Replies(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		expectError error
	}{
		{
			name:  "fenced with trailing comma",
			reply: "Here you go:\n```json\n{\"title\":\"Fix\",\"type\":\"bugfix\",\"summary\":\"Fixes it.\",\"key_changes\":[],\"impact\":\"high\",\"review_highlights\":[],}\n```",
		},
		{
			name:        "no json",
			reply:       "I could not read the diff.",
			expectError: llm.ErrNoJSON,
		},
		{
			name:        "invalid enum",
			reply:       `{"title":"Fix","type":"hotfix","summary":"Fixes it.","impact":"high"}`,
			expectError: models.ErrInvalidSummary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &github.MockProvider{PRs: github.CreateTestPRs(1, "alice")}
			s := newTestPRSummarizer(provider, &llm.MockClient{Response: tt.reply}, testTemplate)

			summary, _, err := s.Run(context.Background(), "repo", 1)
			if tt.expectError != nil {
				assert.True(t, errors.Is(err, tt.expectError), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "bugfix", summary.Type)
		})
	}
}

func TestPRSummarizer_Run_MissingTemplateVariable(t *testing.T) {
	provider := &github.MockProvider{PRs: github.CreateTestPRs(1, "alice")}
	client := &llm.MockClient{Response: validSummary}
	tmpl := prompt.Template{System: "s", User: "{{ .reviewer }}"}
	s := newTestPRSummarizer(provider, client, tmpl)

	_, _, err := s.Run(context.Background(), "repo", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reviewer")
	assert.Empty(t, client.Calls())
}

func TestPRSummarizer_Run_UpstreamErrors(t *testing.T) {
	t.Run("get pr", func(t *testing.T) {
		provider := &github.MockProvider{PRErrors: map[int]error{7: github.NewAPIError("rate limited")}}
		client := &llm.MockClient{Response: validSummary}
		s := newTestPRSummarizer(provider, client, testTemplate)

		_, _, err := s.Run(context.Background(), "repo", 7)
		assert.ErrorContains(t, err, "failed to get PR #7")
		assert.Empty(t, client.Calls())
	})

	t.Run("diff", func(t *testing.T) {
		provider := &github.MockProvider{PRs: github.CreateTestPRs(1, "alice")}
		client := &llm.MockClient{Response: validSummary}
		s := newTestPRSummarizer(provider, client, testTemplate)
		s.diffs = &github.MockDiffFetcher{Error: errors.New("status 404")}

		_, _, err := s.Run(context.Background(), "repo", 1)
		assert.ErrorContains(t, err, "failed to get diff of PR #1")
		assert.Empty(t, client.Calls())
	})

	t.Run("llm", func(t *testing.T) {
		provider := &github.MockProvider{PRs: github.CreateTestPRs(1, "alice")}
		s := newTestPRSummarizer(provider, &llm.MockClient{Error: errors.New("timeout")}, testTemplate)

		_, _, err := s.Run(context.Background(), "repo", 1)
		assert.ErrorContains(t, err, "timeout")
	})
}

func TestLoadPR(t *testing.T) {
	files := []models.FileDiff{{Filename: "main.go", Status: "modified", Patch: "@@ -1 +1 @@"}}
	provider := &github.MockProvider{PRs: github.CreateTestPRs(2, "alice"), Files: files}

	pr, err := LoadPR(context.Background(), provider, "repo", 2, false)
	require.NoError(t, err)
	assert.Equal(t, 2, pr.Number)
	assert.Nil(t, pr.CodeDiff)

	pr, err = LoadPR(context.Background(), provider, "repo", 2, true)
	require.NoError(t, err)
	assert.Equal(t, files, pr.CodeDiff)
	assert.Nil(t, provider.PRs[2].CodeDiff)

	provider.FilesError = github.NewAPIError("boom")
	_, err = LoadPR(context.Background(), provider, "repo", 2, true)
	assert.ErrorContains(t, err, "failed to list files of PR #2")
}
