package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/cli/go-gh/v2/pkg/markdown"
	"github.com/cli/go-gh/v2/pkg/term"
)

const defaultWrap = 100

// MarkdownDisplay renders Markdown for terminals and writes it raw to pipes and files
type MarkdownDisplay struct {
	out    io.Writer
	render bool
	theme  string
	wrap   int
}

// NewMarkdownDisplay inspects the process's stdout
func NewMarkdownDisplay() *MarkdownDisplay {
	t := term.FromEnv()
	wrap := defaultWrap
	if w, _, err := t.Size(); err == nil && w > 0 && w < wrap {
		wrap = w
	}
	return &MarkdownDisplay{
		out:    t.Out(),
		render: t.IsTerminalOutput(),
		theme:  t.Theme(),
		wrap:   wrap,
	}
}

// NewPlainDisplay writes reports to out unrendered
func NewPlainDisplay(out io.Writer) *MarkdownDisplay {
	return &MarkdownDisplay{out: out}
}

func (d *MarkdownDisplay) Show(text string) error {
	if d.render {
		rendered, err := markdown.Render(text, markdown.WithTheme(d.theme), markdown.WithWrap(d.wrap))
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		text = rendered
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := io.WriteString(d.out, text); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
