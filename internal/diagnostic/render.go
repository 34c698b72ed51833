package diagnostic

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	stageStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	posStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	caretStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// Render returns the plain single-line form of the diagnostic,
// suitable for logs and non-terminal consumers.
func (d *Diagnostic) Render() string {
	return d.Error()
}

// RenderStyled returns a colored, multi-line rendering for terminals.
// When source is non-empty the offending line is shown with carets
// under the reported extent, or under the single reported column when
// no extent is known.
func (d *Diagnostic) RenderStyled(source string) string {
	var sb strings.Builder

	sb.WriteString(stageStyle.Render(d.Kind.String() + " error"))
	if d.Pos.IsValid() {
		sb.WriteString(" at ")
		sb.WriteString(posStyle.Render(d.Pos.String()))
	}
	sb.WriteString(": ")
	sb.WriteString(messageStyle.Render(d.Message))

	if source != "" && d.Pos.IsValid() {
		if line, ok := sourceLine(source, d.Pos.Line); ok {
			sb.WriteString("\n")
			sb.WriteString(fmt.Sprintf("%4d | %s\n", d.Pos.Line, line))
			sb.WriteString("     | ")
			sb.WriteString(strings.Repeat(" ", max(d.Pos.Column-1, 0)))
			sb.WriteString(caretStyle.Render(strings.Repeat("^", d.caretWidth(line))))
		}
	}
	return sb.String()
}

// caretWidth derives the underline length from the diagnostic's span,
// clamped to the visible line. Spanless or multi-line diagnostics get a
// single caret.
func (d *Diagnostic) caretWidth(line string) int {
	width := 1
	if d.Span.IsValid() && d.Span.Start.Line == d.Span.End.Line {
		width = max(d.Span.End.Column-d.Span.Start.Column, 1)
	}
	if remaining := len(line) - (d.Pos.Column - 1); width > remaining {
		width = max(remaining, 1)
	}
	return width
}

// sourceLine extracts the 1-based nth line of source.
func sourceLine(source string, n int) (string, bool) {
	lines := strings.Split(source, "\n")
	if n < 1 || n > len(lines) {
		return "", false
	}
	return lines[n-1], true
}
