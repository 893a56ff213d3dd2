package report

import (
	"fmt"
	"strings"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cleanStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	threatStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1)
)

// actionStyle colors an applied action
func actionStyle(a models.Action) lipgloss.Style {
	switch a {
	case models.ActionDelete:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	case models.ActionQuarantine:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	case models.ActionAllow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	default:
		return warnStyle
	}
}

// printConsole prints results with colors
func (g *Generator) printConsole(results *models.ScanResults) {
	fmt.Fprintln(g.out, renderConsole(results))
}

func renderConsole(results *models.ScanResults) string {
	var sb strings.Builder

	title := "SCAN COMPLETE"
	if results.Cancelled {
		title = "SCAN CANCELLED"
	}
	sb.WriteString("\n" + titleStyle.Render(title) + "\n\n")

	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-10s", label+":")) + " " + value
	}
	lines := []string{
		row("Path", results.ScanPath),
		row("Files", fmt.Sprintf("%d scanned, %d skipped", results.ScannedFiles, results.SkippedFiles)),
		row("Dirs", fmt.Sprintf("%d", results.TotalDirs)),
		row("Duration", FormatDuration(results.Duration)),
	}
	if results.Stats != nil {
		lines = append(lines, row("Hashed", FormatSize(results.Stats.TotalSize)))
		if n := results.Stats.ReadErrors; n > 0 {
			lines = append(lines, row("Errors", warnStyle.Render(fmt.Sprintf("%d", n))))
		}
	}
	sb.WriteString(summaryStyle.Render(strings.Join(lines, "\n")) + "\n\n")

	if results.ThreatsFound == 0 {
		sb.WriteString("  " + cleanStyle.Render("✓ No threats detected") + "\n")
		return sb.String()
	}

	sb.WriteString("  " + threatStyle.Render(fmt.Sprintf("⚠ THREATS FOUND: %d", results.ThreatsFound)) + "\n\n")
	sb.WriteString(ruleStyle.Render(strings.Repeat("─", 63)) + "\n")

	for i, d := range results.Detections {
		action := string(d.Action)
		if action == "" {
			action = "failed"
		}
		sb.WriteString(fmt.Sprintf("\n  [%d] %s\n", i+1, pathStyle.Render(d.Path)))
		sb.WriteString(fmt.Sprintf("      %s %s\n", labelStyle.Render("Match:  "), dimStyle.Render(d.Digest.String())))
		sb.WriteString(fmt.Sprintf("      %s %s\n", labelStyle.Render("Action: "), actionStyle(d.Action).Render(action)))
		if d.Error != "" {
			sb.WriteString(fmt.Sprintf("      %s %s\n", labelStyle.Render("Error:  "), warnStyle.Render(d.Error)))
		}
	}

	sb.WriteString("\n" + ruleStyle.Render(strings.Repeat("─", 63)) + "\n")
	if s := results.Stats; s != nil {
		sb.WriteString(fmt.Sprintf("  Deleted %d, quarantined %d, whitelisted %d, failed %d\n",
			s.Deleted, s.Quarantined, s.Allowed, s.DispositionErrors))
	}
	return sb.String()
}
