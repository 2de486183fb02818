package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// PadRight pads str with spaces to width terminal cells
func PadRight(str string, width int) string {
	if w := runewidth.StringWidth(str); w < width {
		return str + strings.Repeat(" ", width-w)
	}
	return str
}
