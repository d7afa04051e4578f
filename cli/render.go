package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"loan-amortizer/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
)

func renderSchedule(schedule domain.AmortizationSchedule) string {
	rows := make([][]string, 0, len(schedule)+1)
	for _, e := range schedule {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(e.Year), 10),
			money(e.Payment),
			money(e.PrincipalPaid),
			money(e.InterestPaid),
			money(e.RemainingBalance),
		})
	}
	rows = append(rows, []string{
		"Total",
		money(schedule.TotalPaid()),
		money(schedule.TotalPrincipal()),
		money(schedule.TotalInterest()),
		"",
	})

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Year", "Payment", "Principal", "Interest", "Balance").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.String()
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
