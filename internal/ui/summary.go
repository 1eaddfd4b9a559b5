package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Summary describes a finished merge for display.
type Summary struct {
	Output   string
	Bytes    int
	Files    int
	Headers  int // headers flattened into the output
	Bodies   int
	Lines    int
	Markers  int
	Warnings int
}

var (
	summaryLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	summaryValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	summaryWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	summaryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// RenderSummary draws s as a two-column box at most width cells wide.
func RenderSummary(s Summary, width int) string {
	rows := [][2]string{
		{"output", s.Output},
		{"bytes", fmt.Sprint(s.Bytes)},
		{"files", fmt.Sprint(s.Files)},
		{"headers", fmt.Sprint(s.Headers)},
		{"bodies", fmt.Sprint(s.Bodies)},
		{"lines", fmt.Sprint(s.Lines)},
		{"#line markers", fmt.Sprint(s.Markers)},
		{"warnings", fmt.Sprint(s.Warnings)},
	}

	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, len(r[0]))
	}
	// рамка + отступы + пробел между колонками
	valueWidth := max(width-labelWidth-5, 8)

	var b strings.Builder
	for i, r := range rows {
		label := summaryLabelStyle.Render(fmt.Sprintf("%-*s", labelWidth, r[0]))
		valueStyle := summaryValueStyle
		if r[0] == "warnings" && s.Warnings > 0 {
			valueStyle = summaryWarnStyle
		}
		b.WriteString(label)
		b.WriteString(" ")
		b.WriteString(valueStyle.Render(truncate(r[1], valueWidth)))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return summaryBoxStyle.Render(b.String())
}
