package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// DisplayWidth returns the number of terminal cells s occupies. Hangul
// syllables take two cells.
func DisplayWidth(s string) int {
	return lipgloss.Width(s)
}

// Table creates a formatted table for output
type Table struct {
	headers  []string
	rows     [][]string
	maxWidth int // Maximum total table width
}

// NewTable creates a new table
func NewTable(headers ...string) *Table {
	return &Table{
		headers:  headers,
		rows:     [][]string{},
		maxWidth: 120, // Default max width
	}
}

// SetMaxWidth sets the maximum table width
func (t *Table) SetMaxWidth(width int) {
	t.maxWidth = width
}

// AddRow adds a row to the table
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.headers))
	copy(row, values)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table to w
func (t *Table) Render(w io.Writer) {
	if len(t.headers) == 0 {
		return
	}

	// Calculate column widths with padding
	widths := make([]int, len(t.headers))
	totalWidth := 0
	for i, h := range t.headers {
		widths[i] = DisplayWidth(h)
		for _, row := range t.rows {
			if cw := DisplayWidth(row[i]); cw > widths[i] {
				widths[i] = cw
			}
		}
		widths[i] += 2              // Padding
		totalWidth += widths[i] + 1 // +1 for separator
	}

	// Adjust if too wide
	if totalWidth > t.maxWidth {
		excess := totalWidth - t.maxWidth
		// Reduce largest columns first
		for excess > 0 {
			maxIdx := 0
			for i := 1; i < len(widths); i++ {
				if widths[i] > widths[maxIdx] {
					maxIdx = i
				}
			}
			if widths[maxIdx] > 10 {
				widths[maxIdx]--
				excess--
			} else {
				break
			}
		}
	}

	border := func(left, mid, right string) {
		fmt.Fprint(w, left)
		for i, cw := range widths {
			fmt.Fprint(w, strings.Repeat("─", cw))
			if i < len(widths)-1 {
				fmt.Fprint(w, mid)
			}
		}
		fmt.Fprintln(w, right)
	}
	line := func(values []string) {
		fmt.Fprint(w, "│")
		for i, v := range values {
			fmt.Fprint(w, " "+pad(truncate(v, widths[i]-2), widths[i]-2)+" │")
		}
		fmt.Fprintln(w)
	}

	border("┌", "┬", "┐")
	line(t.headers)
	border("├", "┼", "┤")
	for _, row := range t.rows {
		line(row)
	}
	border("└", "┴", "┘")
}

// pad right-pads s with spaces to the given display width
func pad(s string, width int) string {
	if gap := width - DisplayWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// truncate truncates a string to max display width with ellipsis
func truncate(s string, maxLen int) string {
	if DisplayWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}
