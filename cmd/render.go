package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("#818cf8")
	colorGreen  = lipgloss.Color("#34d399")
	colorOrange = lipgloss.Color("#fbbf24")
	colorRed    = lipgloss.Color("#f87171")
	colorMuted  = lipgloss.Color("#6F6E69")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	labelStyle  = lipgloss.NewStyle().Width(24)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+headerStyle.Render(title))
	fmt.Fprintln(w, "  "+mutedStyle.Render(strings.Repeat("─", lipgloss.Width(title))))
}

func printRow(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s%s\n", labelStyle.Render(label), value)
}

// scoreStyle colours a score the way the dashboard gauge does
func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 750:
		return lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	case score >= 650:
		return lipgloss.NewStyle().Bold(true).Foreground(colorOrange)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(colorRed)
}

// bar draws a horizontal share bar of at most width cells
func bar(share float64, width int) string {
	n := int(share / 100 * float64(width))
	if n < 0 {
		n = 0
	}
	if n > width {
		n = width
	}
	return lipgloss.NewStyle().Foreground(colorAccent).Render(strings.Repeat("█", n)) +
		mutedStyle.Render(strings.Repeat("░", width-n))
}
