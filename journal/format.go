package journal

import (
	"fmt"
	"time"
)

// FormatR renders an R multiple with an explicit sign, e.g. "+1.50R".
func FormatR(r float64) string {
	sign := ""
	if r >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2fR", sign, r)
}

// FormatDate renders a YYYY-MM-DD trade date as DD/MM/YYYY. Anything that
// does not parse is returned as is.
func FormatDate(date string) string {
	if date == "" {
		return ""
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}
