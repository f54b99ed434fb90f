package utils

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var germanPrinter = message.NewPrinter(language.German)

// FormatEuro renders an amount the German way with a leading euro sign.
// Whole amounts end in ",-", e.g. "€ 10.000,-"; others keep two decimals,
// e.g. "€ 9.999,50".
func FormatEuro(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	if rounded.Equal(rounded.Truncate(0)) {
		return "€ " + germanPrinter.Sprintf("%d", rounded.IntPart()) + ",-"
	}
	f, _ := rounded.Float64()
	return "€ " + germanPrinter.Sprintf("%.2f", f)
}

// FormatKilometres renders a distance with German digit grouping, e.g. "5.000 KM".
func FormatKilometres(km decimal.Decimal) string {
	rounded := km.Round(2)
	if rounded.Equal(rounded.Truncate(0)) {
		return germanPrinter.Sprintf("%d", rounded.IntPart()) + " KM"
	}
	f, _ := rounded.Float64()
	return germanPrinter.Sprintf("%.2f", f) + " KM"
}

// FormatPercent renders a percentage rounded to whole units, e.g. "67 %".
func FormatPercent(p float64) string {
	return strings.TrimSpace(germanPrinter.Sprintf("%.0f", p)) + " %"
}
