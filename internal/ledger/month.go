package ledger

import (
	"fmt"
	"time"
)

// Supported locales for monthly tab titles.
const (
	LocaleRU = "ru"
	LocaleEN = "en"
)

var monthsRU = [12]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// MonthTitle returns the tab title for the month containing ts, e.g. "Январь 2025".
// Unknown locales fall back to Russian.
func MonthTitle(ts time.Time, locale string) string {
	name := monthsRU[ts.Month()-1]
	if locale == LocaleEN {
		name = ts.Month().String()
	}
	return fmt.Sprintf("%s %d", name, ts.Year())
}
