package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hammamikhairi/vitalsvoice/internal/advice"
	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/export"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))
)

// RenderHistory draws one page of readings as a table with a page footer.
func RenderHistory(p domain.ReadingPage) string {
	if p.Total == 0 {
		return secondaryStyle.Render("  No readings yet.")
	}

	rows := make([][]string, 0, len(p.Readings))
	for _, r := range p.Readings {
		rows = append(rows, []string{
			export.FormatIST(r.Timestamp),
			levelStyle(advice.Classify(domain.MetricTemperature, r.Temperature)).Render(fmt.Sprintf("%.1f", r.Temperature)),
			levelStyle(advice.Classify(domain.MetricHeartRate, r.HeartRate)).Render(plain(r.HeartRate)),
			levelStyle(advice.Classify(domain.MetricHumidity, r.Humidity)).Render(plain(r.Humidity)),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(export.Header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteByte('\n')
	b.WriteString(secondaryStyle.Render(pageFooter(p)))
	return b.String()
}

func pageFooter(p domain.ReadingPage) string {
	return fmt.Sprintf("  Page %d of %d (%d readings)", p.Page, p.TotalPages, p.Total)
}

// RenderAdvice formats the current recommendations as a bullet list.
func RenderAdvice(recs []string) string {
	if len(recs) == 0 {
		return secondaryStyle.Render("  No recommendations yet.")
	}
	lines := make([]string, len(recs))
	for i, r := range recs {
		lines[i] = primaryStyle.Render("  • " + r)
	}
	return strings.Join(lines, "\n")
}
