package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-runewidth"

	"github.com/ryo246912/gh-perfeed/internal/models"
)

const titleWidth = 75

// FormatPRRow renders one picker line
func FormatPRRow(pr models.PRInfo) string {
	return fmt.Sprintf(
		"#%s %s %s %s %s",
		PadRight(fmt.Sprintf("%-6d", pr.Number), 7),
		PadRight(runewidth.Truncate(pr.Title, titleWidth, "..."), titleWidth),
		PadRight(pr.Author, 15),
		PadRight(strings.ToLower(pr.State), 8),
		pr.CreatedAt.Local().Format("2006-01-02 15:04"),
	)
}

func SelectPR(prs []models.PRInfo) (int, error) {
	if len(prs) == 0 {
		return 0, fmt.Errorf("no pull requests found")
	}

	items := make([]string, len(prs))
	for i, pr := range prs {
		items[i] = FormatPRRow(pr)
	}

	prompt := promptui.Select{
		Label: "Select PR",
		Items: items,
		Size:  12,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
		StartInSearchMode: true,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return 0, fmt.Errorf("prompt failed: %w", err)
	}
	return prs[idx].Number, nil
}

// Confirm asks label until the answer is yes or no
func Confirm(in io.Reader, out io.Writer, label string) (bool, error) {
	var answer string
	for {
		fmt.Fprintf(out, "%s (y/n): ", label)
		if _, err := fmt.Fscan(in, &answer); err != nil {
			return false, fmt.Errorf("failed to read confirmation: %w", err)
		}
		switch strings.ToLower(answer) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		default:
			fmt.Fprintln(out, "Please enter 'y' or 'n'.")
		}
	}
}
