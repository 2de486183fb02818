package models

import (
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// ErrInvalidSummary is returned when an LLM summary does not satisfy the PRSummary schema.
var ErrInvalidSummary = errors.New("invalid pr summary")

var (
	summaryTypes  = []string{"feature", "bugfix", "refactor", "docs", "test", "chore"}
	summaryImpact = []string{"low", "medium", "high"}
)

// PRSummary is the structured summary the LLM produces for one PR.
type PRSummary struct {
	Title            string   `json:"title" jsonschema_description:"One line restating what the PR does"`
	Type             string   `json:"type" jsonschema:"enum=feature,enum=bugfix,enum=refactor,enum=docs,enum=test,enum=chore"`
	Summary          string   `json:"summary" jsonschema_description:"Short paragraph describing the change and its motivation"`
	KeyChanges       []string `json:"key_changes" jsonschema_description:"Most significant technical modifications"`
	Impact           string   `json:"impact" jsonschema:"enum=low,enum=medium,enum=high"`
	ReviewHighlights []string `json:"review_highlights" jsonschema_description:"Notable feedback raised in the review discussion"`
}

// Validate checks required fields and enum members.
func (s PRSummary) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return errors.Wrap(ErrInvalidSummary, "title is required")
	}
	if strings.TrimSpace(s.Summary) == "" {
		return errors.Wrap(ErrInvalidSummary, "summary is required")
	}
	if !slices.Contains(summaryTypes, s.Type) {
		return errors.Wrapf(ErrInvalidSummary, "type %q is not one of %s", s.Type, strings.Join(summaryTypes, ", "))
	}
	if !slices.Contains(summaryImpact, s.Impact) {
		return errors.Wrapf(ErrInvalidSummary, "impact %q is not one of %s", s.Impact, strings.Join(summaryImpact, ", "))
	}
	return nil
}

// ParsePRSummary decodes and validates a JSON summary.
func ParsePRSummary(raw string) (PRSummary, error) {
	var s PRSummary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return PRSummary{}, errors.Wrap(err, "decode pr summary")
	}
	if err := s.Validate(); err != nil {
		return PRSummary{}, err
	}
	return s, nil
}

var (
	schemaOnce sync.Once
	schemaText string
	schemaErr  error
)

// PRSummarySchema returns the JSON schema of PRSummary, as handed to the LLM.
func PRSummarySchema() (string, error) {
	schemaOnce.Do(func() {
		r := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
		b, err := json.MarshalIndent(r.Reflect(&PRSummary{}), "", "  ")
		if err != nil {
			schemaErr = errors.Wrap(err, "marshal pr summary schema")
			return
		}
		schemaText = string(b)
	})
	return schemaText, schemaErr
}

// PRSummaryMetadata records where a summary came from.
type PRSummaryMetadata struct {
	Repo        string     `json:"repo"`
	Author      string     `json:"author"`
	PRNumber    int        `json:"pr_number"`
	LLMProvider string     `json:"llm_provider"`
	Model       string     `json:"model"`
	PRCreatedAt time.Time  `json:"pr_created_at"`
	PRMergedAt  *time.Time `json:"pr_merged_at"`
	// CreatedAt is the generation time, UTC with second precision.
	CreatedAt time.Time `json:"created_at"`
}
