package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ryo246912/gh-perfeed/internal/github"
	"github.com/ryo246912/gh-perfeed/internal/llm"
	"github.com/ryo246912/gh-perfeed/internal/models"
	"github.com/ryo246912/gh-perfeed/internal/prompt"
	"github.com/ryo246912/gh-perfeed/internal/ui"
)

// DateLayout is the accepted start-of-week format
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate      = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidWeekStart = errors.New("start day must be a Sunday or Monday")
	ErrNoPRsFound       = errors.New("no pull requests found")
)

// ParseWeekStart parses day in loc and checks it is a Sunday or Monday
func ParseWeekStart(day string, loc *time.Location) (time.Time, error) {
	start, err := time.ParseInLocation(DateLayout, day, loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidDate, "%q", day)
	}
	if wd := start.Weekday(); wd != time.Monday && wd != time.Sunday {
		return time.Time{}, errors.Wrapf(ErrInvalidWeekStart, "%s is a %s", day, wd)
	}
	return start, nil
}

// WeeklySummarizer reports on the PRs a set of users closed during one week
type WeeklySummarizer struct {
	provider   github.Provider
	summarizer Summarizer
	llm        llm.Client
	tmpl       prompt.Template
	display    ui.Display
	log        *zap.SugaredLogger

	loc *time.Location
	now func() time.Time
}

// NewWeeklySummarizer creates a new weekly summarizer. Dates are read in the local time zone.
func NewWeeklySummarizer(provider github.Provider, summarizer Summarizer, client llm.Client, tmpl prompt.Template, display ui.Display, log *zap.SugaredLogger) *WeeklySummarizer {
	return &WeeklySummarizer{
		provider:   provider,
		summarizer: summarizer,
		llm:        client,
		tmpl:       tmpl,
		display:    display,
		log:        log,
		loc:        time.Local,
		now:        time.Now,
	}
}

type summaryResult struct {
	number  int
	summary models.PRSummary
	err     error
}

// Run summarizes every closed PR of users in [startOfWeek, startOfWeek+6d] and shows the weekly report.
// Individual PR failures are dropped from the report; finding no PR at all is an error.
func (w *WeeklySummarizer) Run(ctx context.Context, users []string, repo, startOfWeek string) error {
	start, err := ParseWeekStart(startOfWeek, w.loc)
	if err != nil {
		return err
	}
	end := start.AddDate(0, 0, 6)

	w.log.Infow("summarizing week", "repo", repo, "users", users, "start", start, "end", end)
	began := w.now()

	numbers, err := w.provider.SearchPRs(ctx, repo, start, end, users, true)
	if err != nil {
		return errors.Wrap(err, "failed to search PRs")
	}
	if len(numbers) == 0 {
		return errors.Wrapf(ErrNoPRsFound, "check the user ids and the date: %v from %s to %s", users, start.Format(DateLayout), end.Format(DateLayout))
	}
	w.log.Infow("summarizing pull requests", "numbers", numbers)

	results := w.summarizeAll(ctx, repo, numbers)

	var failures *multierror.Error
	summaries := make([]string, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			failures = multierror.Append(failures, r.err)
			continue
		}
		b, err := json.Marshal(r.summary)
		if err != nil {
			failures = multierror.Append(failures, errors.Wrapf(err, "PR #%d", r.number))
			continue
		}
		summaries = append(summaries, string(b))
	}
	if failures != nil {
		w.log.Warnw("dropping pull requests that failed to summarize", "failed", failures.Len(), "error", failures.Error())
	}
	w.log.Infow("summarized pull requests", "count", len(summaries), "elapsed", w.now().Sub(began))

	schema, err := models.PRSummarySchema()
	if err != nil {
		return err
	}
	system, user, err := w.tmpl.Render(map[string]any{
		"PRSummary":    schema,
		"pr_summaries": summaries,
	})
	if err != nil {
		return errors.Wrap(err, "failed to render weekly prompts")
	}

	report, err := w.llm.ChatCompletion(ctx, system, user)
	if err != nil {
		return errors.Wrap(err, "failed to write weekly report")
	}
	return w.display.Show(report)
}

// summarizeAll runs one summarizer per PR concurrently. Each goroutine owns its result slot.
func (w *WeeklySummarizer) summarizeAll(ctx context.Context, repo string, numbers []int) []summaryResult {
	results := make([]summaryResult, len(numbers))

	var wg sync.WaitGroup
	for i, n := range numbers {
		wg.Add(1)
		go func(i, n int) {
			defer wg.Done()
			summary, _, err := w.summarizer.Run(ctx, repo, n)
			results[i] = summaryResult{number: n, summary: summary, err: err}
		}(i, n)
	}
	wg.Wait()

	return results
}
