package reportcalc

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const chatReportMaxRows = 20

// FormatAgentReport renders an agent's report as a Telegram HTML message
// with a fixed-width table: top rows, a totals line, and an overflow note
// when the window held more players than the table shows.
func FormatAgentReport(agentName, periodLabel string, rows []PlayerTotals) string {
	if len(rows) == 0 {
		return fmt.Sprintf("No data available for %s.", periodLabel)
	}

	var totalProfit, totalTips, totalAgent decimal.Decimal
	for _, r := range rows {
		totalProfit = totalProfit.Add(r.TotalProfit)
		totalTips = totalTips.Add(r.TotalTips)
		totalAgent = totalAgent.Add(r.AgentTips)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s - %s Report</b>\n\n", agentName, periodLabel)
	fmt.Fprintf(&b, "<b>Summary:</b>\n")
	fmt.Fprintf(&b, "Total Profit: $%s\n", totalProfit.StringFixed(2))
	fmt.Fprintf(&b, "Total Tips: $%s\n", totalTips.StringFixed(2))
	fmt.Fprintf(&b, "Agent Tips: $%s\n\n", totalAgent.StringFixed(2))

	b.WriteString("<b>Player Details:</b>\n<pre>")
	fmt.Fprintf(&b, "%-9s %-12s %6s %10s %10s %10s\n", "ID", "Name", "Deal%", "Profit", "Tips", "Agent")
	b.WriteString(strings.Repeat("-", 62) + "\n")

	shown := rows
	if len(shown) > chatReportMaxRows {
		shown = shown[:chatReportMaxRows]
	}
	for _, r := range shown {
		fmt.Fprintf(&b, "%-9s %-12s %6s %10s %10s %10s\n",
			clip(r.PlayerID, 9),
			clip(r.PlayerName, 12),
			r.DealRateDisplay.StringFixed(1),
			r.TotalProfit.StringFixed(2),
			r.TotalTips.StringFixed(2),
			r.AgentTips.StringFixed(2),
		)
	}
	b.WriteString(strings.Repeat("-", 62) + "\n")
	fmt.Fprintf(&b, "%-9s %-12s %6s %10s %10s %10s\n", "TOTAL", "", "",
		totalProfit.StringFixed(2), totalTips.StringFixed(2), totalAgent.StringFixed(2))
	b.WriteString("</pre>")

	if len(rows) > chatReportMaxRows {
		fmt.Fprintf(&b, "\n... and %d more players", len(rows)-chatReportMaxRows)
	}
	return b.String()
}

// clip truncates on runes so a multi-byte name never yields broken UTF-8
// in the chat table.
func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
