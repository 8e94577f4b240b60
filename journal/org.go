package journal

import (
	"fmt"
	"strings"
)

// FormatTradeOrg renders a Trade as an Org-mode block suitable for pasting into a journal.
// Structured facts go in a PROPERTIES drawer for search; the Thesis/Execution/Review
// headings are left for the narrative.
func FormatTradeOrg(t Trade) string {
	heading := fmt.Sprintf("** Trade: %s %s (%s)", orDash(t.Symbol), orDash(t.Date), shortID(t.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":TRADE_ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":DATE: %s\n", t.Date))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":ACCOUNT: %s\n", t.Account))
	b.WriteString(fmt.Sprintf(":MODEL: %s\n", t.Model))
	b.WriteString(fmt.Sprintf(":SESSION: %s\n", t.Session))
	b.WriteString(fmt.Sprintf(":ENTRY_TF: %s\n", t.EntryTF))
	b.WriteString(fmt.Sprintf(":POSITION: %s\n", t.Position))
	if t.RiskPercent != nil {
		b.WriteString(fmt.Sprintf(":RISK_PERCENT: %.2f\n", *t.RiskPercent))
	}
	b.WriteString(fmt.Sprintf(":REALISED_R: %s\n", FormatR(t.RealisedR)))
	b.WriteString(fmt.Sprintf(":MAX_R: %s\n", FormatR(t.MaxR)))
	b.WriteString(fmt.Sprintf(":SETUP_GRADE: %s\n", t.SetupGrade))
	b.WriteString(fmt.Sprintf(":KEY_LEVELS: %s\n", strings.Join(t.KeyLevels, ", ")))
	b.WriteString(fmt.Sprintf(":MISTAKES: %s\n", strings.Join(t.Mistakes, ", ")))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n")
	if t.Notes != "" {
		for _, line := range strings.Split(strings.TrimSpace(t.Notes), "\n") {
			b.WriteString("- " + line + "\n")
		}
	} else {
		b.WriteString("- \n")
	}
	if t.Screenshots != "" {
		b.WriteString(fmt.Sprintf("\n[[%s]]\n", t.Screenshots))
	}

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

// shortID keeps the random tail of a ULID; the leading characters only
// encode the timestamp and repeat across trades logged together.
func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
