package report

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/jurusan/internal/llm"
	"github.com/abhisek/jurusan/internal/store"
	"github.com/abhisek/jurusan/internal/ui/theme"
)

// LLMEvents writes one line per LLM request event.
func LLMEvents(w io.Writer, events []store.LLMEventRecord) {
	if len(events) == 0 {
		lipgloss.Fprintln(w, theme.Hint.Render("No LLM events found."))
		return
	}
	lipgloss.Fprintf(w, "%-5s  %-19s  %-12s  %-28s  %6s  %6s  %7s  %s\n",
		"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
	lipgloss.Fprintln(w, theme.Separator(100))
	for _, e := range events {
		ok := theme.Recommended.Render("✓")
		if !e.Success {
			ok = theme.Failed.Render("✗")
		}
		lipgloss.Fprintf(w, "%-5d  %-19s  %-12s  %-28s  %6d  %6d  %7d  %s\n",
			e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(e.Purpose, 12), truncate(e.Model, 28),
			e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
	}
}

// LLMEvent writes one event with its captured request and response.
func LLMEvent(w io.Writer, e *store.LLMEventRecord) {
	lipgloss.Fprintf(w, "ID:        %d\n", e.ID)
	lipgloss.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	lipgloss.Fprintf(w, "Provider:  %s\n", e.Provider)
	lipgloss.Fprintf(w, "Model:     %s\n", e.Model)
	lipgloss.Fprintf(w, "Purpose:   %s\n", e.Purpose)
	lipgloss.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	lipgloss.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
	if cost, ok := llm.EstimateCost(e.Model, e.InputTokens, e.OutputTokens); ok {
		lipgloss.Fprintf(w, "Cost:      %s\n", FormatCost(cost))
	}
	lipgloss.Fprintf(w, "Success:   %v\n", e.Success)
	if e.ErrorMessage != "" {
		lipgloss.Fprintf(w, "Error:     %s\n", theme.Failed.Render(e.ErrorMessage))
	}

	for _, part := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		lipgloss.Fprintln(w)
		lipgloss.Fprintln(w, theme.Separator(60))
		lipgloss.Fprintln(w, theme.Label.Render(part.title))
		lipgloss.Fprintln(w, theme.Separator(60))
		if part.body == "" {
			lipgloss.Fprintln(w, theme.Hint.Render("(not captured)"))
			continue
		}
		lipgloss.Fprintln(w, part.body)
	}
}

// LLMUsage writes token usage per purpose and estimated cost per model.
func LLMUsage(w io.Writer, byPurpose, byModel []store.LLMUsage) {
	if len(byPurpose) == 0 {
		lipgloss.Fprintln(w, theme.Hint.Render("No LLM usage recorded yet."))
		return
	}

	lipgloss.Fprintln(w, theme.Title.Render("Usage by Purpose"))
	lipgloss.Fprintln(w, theme.Separator(72))
	lipgloss.Fprintf(w, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	lipgloss.Fprintln(w, theme.Separator(72))

	var calls, in, out int
	for _, u := range byPurpose {
		lipgloss.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			truncate(u.Purpose, 16), u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	lipgloss.Fprintln(w, theme.Separator(72))
	lipgloss.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)

	if len(byModel) == 0 {
		return
	}

	lipgloss.Fprintln(w)
	lipgloss.Fprintln(w, theme.Title.Render("Estimated Cost (USD)"))
	lipgloss.Fprintln(w, theme.Separator(72))
	lipgloss.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	lipgloss.Fprintln(w, theme.Separator(72))

	var total float64
	var unknown []string
	for _, u := range byModel {
		cost := "?"
		if c, ok := llm.EstimateCost(u.Model, u.InputTokens, u.OutputTokens); ok {
			total += c
			cost = FormatCost(c)
		} else {
			unknown = append(unknown, u.Model)
		}
		lipgloss.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
			truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
	}

	lipgloss.Fprintln(w, theme.Separator(72))
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	lipgloss.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", FormatCost(total))
	if len(unknown) > 0 {
		lipgloss.Fprintln(w)
		lipgloss.Fprintln(w, theme.Hint.Render("Pricing unavailable for: "+strings.Join(unknown, ", ")))
	}
}

// FormatCost formats a USD amount, keeping four decimals below a cent.
func FormatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
