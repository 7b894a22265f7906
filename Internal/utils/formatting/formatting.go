package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/fazecat/stockpilot/Internal/types"
)

// RepeatString repeats a string n times
func RepeatString(s string, count int) string {
	result := ""
	for i := 0; i < count; i++ {
		result += s
	}
	return result
}

// Separator returns a line separator of given width
func Separator(width int) string {
	return RepeatString("=", width)
}

// ParseDate parses a date string in multiple formats
func ParseDate(dateStr string) time.Time {
	formats := []string{
		"2006-01-02", // YYYY-MM-DD (standard)
		"02/01/2006", // DD/MM/YYYY
		"02.01.2006", // DD.MM.YYYY
		"01-02-2006", // MM-DD-YYYY (US format)
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t
		}
	}

	return time.Time{}
}

// PlanTable renders ranked trade plans as an aligned console table.
func PlanTable(plans []types.TradePlan) string {
	if len(plans) == 0 {
		return "No qualifying candidates this run.\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-4s %-7s %6s %9s %9s %9s %7s %11s %10s %-12s %s\n",
		"#", "Ticker", "Score", "Entry", "Stop", "Target", "Shares", "Invested", "Profit", "Trend", "VWAP"))
	b.WriteString(RepeatString("-", 100) + "\n")

	for i, p := range plans {
		vwap := "below"
		if p.AboveVWAP {
			vwap = "above"
		}
		b.WriteString(fmt.Sprintf("%-4d %-7s %6.2f %9.2f %9.2f %9.2f %7d %11.2f %10.2f %-12s %s\n",
			i+1, p.Ticker, p.Score, p.EntryPrice, p.StopLoss, p.Target,
			p.Shares, p.TotalInvested, p.PotentialProfit, string(p.Trend), vwap))
	}
	return b.String()
}

// RejectionSummary aggregates skipped tickers per reason for display.
func RejectionSummary(reasons []string) string {
	if len(reasons) == 0 {
		return ""
	}

	counts := make(map[string]int)
	order := []string{}
	for _, r := range reasons {
		if counts[r] == 0 {
			order = append(order, r)
		}
		counts[r]++
	}

	var b strings.Builder
	b.WriteString("Rejections by reason:\n")
	for _, r := range order {
		b.WriteString(fmt.Sprintf("  %-20s %d\n", r, counts[r]))
	}
	return b.String()
}
