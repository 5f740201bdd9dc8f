package report

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/starford/tiwaz/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// Console renders a terminal summary of r.
func Console(r *Report) string {
	rows := make([][]string, 0, len(r.Modules)+1)
	for _, m := range r.Modules {
		rows = append(rows, statsCells(m.Name, m.Stats))
	}
	rows = append(rows, statsCells("total", r.Totals))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))).
		Headers("MODULE", "TOTAL", "COMPLETED", "PLACEHOLDER", "TEMPLATE").
		Rows(rows...)

	parts := []string{
		titleStyle.Render(r.Project.Name + " documentation"),
		t.String(),
	}
	if r.Synthesis.Enabled {
		line := fmt.Sprintf("synthesized %d, failed %d", r.Synthesis.Succeeded, r.Synthesis.Failed)
		if r.Synthesis.Failed > 0 {
			parts = append(parts, warnStyle.Render(line))
		} else {
			parts = append(parts, okStyle.Render(line))
		}
	}
	if r.Validated {
		parts = append(parts, issuesLine(r.Issues))
	}
	for _, w := range r.Warnings {
		parts = append(parts, mutedStyle.Render("warning: "+w))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func issuesLine(issues models.Issues) string {
	if issues.Total() == 0 {
		return okStyle.Render("no consistency issues")
	}
	return warnStyle.Render(fmt.Sprintf("%d broken references, %d orphan documents",
		len(issues.BrokenReferences), len(issues.OrphanDocuments)))
}
