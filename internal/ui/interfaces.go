package ui

import (
	"io"
	"os"
	"sync"

	"github.com/ryo246912/gh-perfeed/internal/models"
)

// Prompter defines interface for user interaction
type Prompter interface {
	SelectPR(prs []models.PRInfo) (int, error)
	Confirm(label string) (bool, error)
}

// Display presents a finished report
type Display interface {
	Show(markdown string) error
}

// DefaultPrompter implements the actual prompting logic
type DefaultPrompter struct {
	In  io.Reader
	Out io.Writer
}

// SelectPR prompts user to select a PR
func (p *DefaultPrompter) SelectPR(prs []models.PRInfo) (int, error) {
	return SelectPR(prs)
}

// Confirm asks a yes/no question on the terminal
func (p *DefaultPrompter) Confirm(label string) (bool, error) {
	in, out := p.In, p.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return Confirm(in, out, label)
}

// MockPrompter for testing
type MockPrompter struct {
	SelectedPRNumber int
	PRSelectionError error

	Confirmed         bool
	ConfirmationError error

	// Call tracking
	SelectPRCalled bool
	ConfirmCalled  bool
	LastPRs        []models.PRInfo
	LastLabel      string
}

// SelectPR mocks PR selection
func (m *MockPrompter) SelectPR(prs []models.PRInfo) (int, error) {
	m.SelectPRCalled = true
	m.LastPRs = prs
	return m.SelectedPRNumber, m.PRSelectionError
}

// Confirm mocks confirmation
func (m *MockPrompter) Confirm(label string) (bool, error) {
	m.ConfirmCalled = true
	m.LastLabel = label
	return m.Confirmed, m.ConfirmationError
}

// MockDisplay records shown reports. Safe for concurrent use.
type MockDisplay struct {
	Error error

	mu    sync.Mutex
	shown []string
}

// Show records markdown
func (m *MockDisplay) Show(markdown string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown = append(m.shown, markdown)
	return m.Error
}

// Shown returns every report passed to Show
func (m *MockDisplay) Shown() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.shown...)
}

var (
	_ Prompter = (*DefaultPrompter)(nil)
	_ Display  = (*MarkdownDisplay)(nil)
)
