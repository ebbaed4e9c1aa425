package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/sagesweep/internal/teardown"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorYellow = lipgloss.Color("#eab308")
	colorRed    = lipgloss.Color("#ef4444")
	colorDim    = lipgloss.Color("#6b7280")
)

func outcomeColor(o teardown.Outcome) lipgloss.Color {
	switch o {
	case teardown.OutcomeSucceeded:
		return colorGreen
	case teardown.OutcomePartial, teardown.OutcomeSkipped:
		return colorYellow
	case teardown.OutcomeFailed:
		return colorRed
	default:
		return colorDim
	}
}

// renderSummary produces the end-of-run summary: one line per domain and
// the batch outcome.
func renderSummary(report *teardown.Report, styled bool) string {
	style := func(c lipgloss.Color) lipgloss.Style {
		if !styled {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(c)
	}
	title := lipgloss.NewStyle()
	if styled {
		title = title.Bold(true)
	}

	var b strings.Builder
	heading := "Teardown summary"
	if report.DryRun {
		heading += " (dry run)"
	}
	b.WriteString(title.Render(heading))
	b.WriteString("\n")

	for _, d := range report.Domains {
		name := d.DomainID
		if d.DomainName != "" {
			name = fmt.Sprintf("%s (%s)", d.DomainID, d.DomainName)
		}
		verb := "resources"
		if report.DryRun {
			verb = "would delete"
		}
		fmt.Fprintf(&b, "  %-40s %s  %s\n",
			name,
			style(outcomeColor(d.Outcome)).Render(fmt.Sprintf("%-13s", d.Outcome)),
			style(colorDim).Render(fmt.Sprintf("%d %s, %d failed", d.Count(), verb, len(d.Failures))))
	}

	fmt.Fprintf(&b, "Outcome: %s", style(outcomeColor(report.Outcome)).Render(string(report.Outcome)))
	return b.String()
}
