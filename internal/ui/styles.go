package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Color scheme
var (
	// Primary colors
	ColorPrimary   = lipgloss.Color("#00D9FF")
	ColorSecondary = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorDanger    = lipgloss.Color("#EF4444")
	ColorInfo      = lipgloss.Color("#3B82F6")

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#9CA3AF")
	ColorTextMuted     = lipgloss.Color("#6B7280")

	// Background colors
	ColorBgSecondary = lipgloss.Color("#374151")
	ColorBgHover     = lipgloss.Color("#4B5563")
)

// Common styles
var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Italic(true)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTextPrimary).
			Background(ColorBgSecondary).
			Padding(0, 1)

	// Status styles
	StyleStatusReady = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Bold(true)

	StyleStatusNotReady = lipgloss.NewStyle().
				Foreground(ColorDanger).
				Bold(true)

	StyleStatusPending = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	// stopped or disabled resources that can be started again
	StyleStatusIdle = lipgloss.NewStyle().
				Foreground(ColorInfo).
				Bold(true)

	// Key binding styles
	StyleKey = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	StyleKeyDesc = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgSecondary).
			Padding(0, 1)

	StyleBorderSelected = StyleBorder.
				BorderForeground(ColorPrimary)

	StyleModal = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorDanger).
			Padding(1, 3)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleHighlight = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	StyleTextSecondary = lipgloss.NewStyle().
				Foreground(ColorTextSecondary)

	StyleTextMuted = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	// Selection style (for highlighting selected row in lists)
	StyleSelected = lipgloss.NewStyle().
			Background(ColorBgHover).
			Foreground(ColorPrimary).
			Bold(true)
)

// RenderKeyBinding renders a key binding help text
func RenderKeyBinding(key, desc string) string {
	return fmt.Sprintf("%s %s", StyleKey.Render(key), StyleKeyDesc.Render(desc))
}

// ansiRegex matches ANSI color codes
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes ANSI color codes from a string
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// visualLength returns the display width of s, ignoring ANSI codes and
// counting wide characters twice.
func visualLength(s string) int {
	return runewidth.StringWidth(stripANSI(s))
}

// padRight pads a string to the specified width (handling ANSI codes correctly)
func padRight(s string, width int) string {
	vlen := visualLength(s)
	if vlen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-vlen)
}

// truncate truncates a string to maxLen display width, adding "..." if truncated
func truncate(s string, maxLen int) string {
	stripped := stripANSI(s)
	width := runewidth.StringWidth(stripped)

	if width <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return runewidth.Truncate(stripped, maxLen, "")
	}

	return runewidth.Truncate(stripped, maxLen-3, "") + "..."
}

// RenderStatus colours a console resource status
func RenderStatus(status string) string {
	switch strings.ToLower(status) {
	case "running", "available", "in-use", "completed", "active", "healthy", "enabled":
		return StyleStatusReady.Render(status)
	case "error", "failed", "unhealthy", "terminated", "deleted", "suspended":
		return StyleStatusNotReady.Render(status)
	case "pending", "stopping", "shutting-down", "creating", "deleting", "attaching", "detaching", "rebooting":
		return StyleStatusPending.Render(status)
	case "stopped", "disabled":
		return StyleStatusIdle.Render(status)
	default:
		return status
	}
}

// renderSeparator returns a horizontal separator line, safely handling window width
func renderSeparator(width int) string {
	const minWidth = 10
	lineWidth := width - 2

	if lineWidth < minWidth {
		lineWidth = minWidth
	}

	return strings.Repeat("─", lineWidth)
}

// wrapLine wraps a long line into chunks of at most maxWidth display
// columns; continuation chunks leave room for indentWidth.
func wrapLine(line string, maxWidth int, indentWidth int) []string {
	stripped := stripANSI(line)

	if runewidth.StringWidth(stripped) <= maxWidth {
		return []string{line}
	}

	var result []string
	currentLine := ""
	lineWidth := maxWidth

	for _, r := range stripped {
		charWidth := runewidth.RuneWidth(r)

		if runewidth.StringWidth(currentLine)+charWidth > lineWidth {
			if currentLine != "" {
				result = append(result, currentLine)
			}
			currentLine = string(r)
			lineWidth = maxWidth - indentWidth
		} else {
			currentLine += string(r)
		}
	}

	if currentLine != "" {
		result = append(result, currentLine)
	}

	return result
}
