package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// SubtleStyle renders low-emphasis status text, such as per-file separators.
var SubtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// successStyle renders a completed progress bar's final message.
var successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

// ProgressBar reports per-item progress for a long-running command to
// stderr. It does not repaint a line in place; each Increment/Complete call
// writes one line, which plays well with the structured logging also
// interleaved on stderr.
type ProgressBar struct {
	label string
	total int
	done  int
}

// NewProgressBar returns a ProgressBar that will track total items under label.
func NewProgressBar(total int, label string) *ProgressBar {
	return &ProgressBar{label: label, total: total}
}

// Increment records one completed item and prints its status.
func (p *ProgressBar) Increment(msg string) {
	p.done++
	fmt.Fprintln(os.Stderr, SubtleStyle.Render(fmt.Sprintf("[%s %d/%d]", p.label, p.done, p.total)), msg)
}

// Complete prints a final summary line for the bar.
func (p *ProgressBar) Complete(msg string) {
	fmt.Fprintln(os.Stderr, successStyle.Render(fmt.Sprintf("%s: %s", p.label, msg)))
}
