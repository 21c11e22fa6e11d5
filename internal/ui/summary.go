package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerCellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true).PaddingRight(2)
	nameCellStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingRight(2)
	numberCellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).PaddingRight(2).Align(lipgloss.Right)
	reasonCellStyles = map[string]lipgloss.Style{
		"transition":  lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		"deviation":   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"end-of-data": lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
	summaryFrameStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)
)

// SummaryRow describes the clip applied to one species.
type SummaryRow struct {
	Species     string
	Kept        int
	Dropped     int
	Transitions int
	Reason      string
}

// RenderSummary formats rows as a bordered table.
func RenderSummary(rows []SummaryRow) string {
	if len(rows) == 0 {
		return summaryFrameStyle.Render(subtitleStyle.Render("No species clipped"))
	}

	nameWidth := len("Species")
	for _, row := range rows {
		nameWidth = max(nameWidth, lipgloss.Width(row.Species))
	}

	header := []string{
		headerCellStyle.Width(nameWidth + 2).Render("Species"),
		headerCellStyle.Render("Kept"),
		headerCellStyle.Render("Dropped"),
		headerCellStyle.Render("Transitions"),
		headerCellStyle.Render("Reason"),
	}

	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			nameCellStyle.Width(nameWidth+2).Render(row.Species),
			numberCellStyle.Width(len("Kept")+2).Render(fmt.Sprint(row.Kept)),
			numberCellStyle.Width(len("Dropped")+2).Render(fmt.Sprint(row.Dropped)),
			numberCellStyle.Width(len("Transitions")+2).Render(fmt.Sprint(row.Transitions)),
			reasonStyle(row.Reason).Render(row.Reason),
		))
	}

	return summaryFrameStyle.Render(strings.Join(lines, "\n"))
}

func reasonStyle(reason string) lipgloss.Style {
	if style, ok := reasonCellStyles[reason]; ok {
		return style
	}
	return nameCellStyle
}
