package models

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePRSummary(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		expectError bool
		invalid     bool
	}{
		{
			name: "valid summary",
			raw: `{"title":"Add retries","type":"feature","summary":"Retries failed uploads.",
				"key_changes":["retry loop"],"impact":"medium","review_highlights":[]}`,
		},
		{
			name:        "not json",
			raw:         `Here is the summary`,
			expectError: true,
		},
		{
			name:        "missing title",
			raw:         `{"type":"feature","summary":"x","impact":"low"}`,
			expectError: true,
			invalid:     true,
		},
		{
			name:        "unknown type",
			raw:         `{"title":"t","type":"hotfix","summary":"x","impact":"low"}`,
			expectError: true,
			invalid:     true,
		},
		{
			name:        "unknown impact",
			raw:         `{"title":"t","type":"bugfix","summary":"x","impact":"huge"}`,
			expectError: true,
			invalid:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParsePRSummary(tt.raw)
			if !tt.expectError {
				require.NoError(t, err)
				assert.Equal(t, "Add retries", s.Title)
				assert.Equal(t, []string{"retry loop"}, s.KeyChanges)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalidSummary))
		})
	}
}

func TestPRSummarySchema(t *testing.T) {
	schema, err := PRSummarySchema()
	require.NoError(t, err)

	var decoded struct {
		Properties map[string]struct {
			Enum []string `json:"enum"`
		} `json:"properties"`
		Required []string `json:"required"`
	}
	require.NoError(t, json.Unmarshal([]byte(schema), &decoded))

	for _, key := range []string{"title", "type", "summary", "key_changes", "impact", "review_highlights"} {
		assert.Contains(t, decoded.Properties, key)
	}
	assert.Equal(t, []string{"low", "medium", "high"}, decoded.Properties["impact"].Enum)
	assert.Contains(t, decoded.Required, "title")
}
