package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryo246912/gh-perfeed/internal/config"
	"github.com/ryo246912/gh-perfeed/internal/service"
)

func TestResolveRepository(t *testing.T) {
	tests := []struct {
		name          string
		flag          string
		cfg           config.GitHubConfig
		expectedOwner string
		expectedName  string
		expectError   bool
	}{
		{
			name:          "owner and name",
			flag:          "octo/hello",
			expectedOwner: "octo",
			expectedName:  "hello",
		},
		{
			name:          "bare name uses configured owner",
			flag:          "hello",
			cfg:           config.GitHubConfig{Host: "github.com", Owner: "octo"},
			expectedOwner: "octo",
			expectedName:  "hello",
		},
		{
			name:        "bare name without owner",
			flag:        "hello",
			expectError: true,
		},
		{
			name:        "too many segments",
			flag:        "a/b/c/d",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := resolveRepository(tt.flag, tt.cfg)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedOwner, repo.Owner)
			assert.Equal(t, tt.expectedName, repo.Name)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"pr", "show", "weekly"})
}

func TestWeeklyCmd_ValidatesBeforeLoading(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectError error
		contains    string
	}{
		{
			name:     "missing start",
			args:     []string{"weekly"},
			contains: `required flag(s) "start" not set`,
		},
		{
			name:        "tuesday",
			args:        []string{"weekly", "--start", "2024-10-22"},
			expectError: service.ErrInvalidWeekStart,
		},
		{
			name:        "bad date",
			args:        []string{"weekly", "--start", "last monday"},
			expectError: service.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			if tt.expectError != nil {
				assert.True(t, errors.Is(err, tt.expectError), "got %v", err)
			}
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}
