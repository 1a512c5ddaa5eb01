package schema

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/oakwood-commons/uideck/internal/record"
)

// Missing is shown for absent values by the formatting renderers.
const Missing = "N/A"

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency renders a number with two decimals and no grouping: $1299.99.
func Currency(v any, _ record.Record) string {
	n, ok := record.Number(v)
	if v == nil || !ok {
		return Missing
	}
	return "$" + strconv.FormatFloat(n, 'f', 2, 64)
}

// GroupedCurrency renders a number with locale grouping: $250,000.
func GroupedCurrency(v any, r record.Record) string {
	g := Grouped(v, r)
	if g == Missing {
		return g
	}
	return "$" + g
}

// Grouped renders a number with locale grouping and up to three decimals.
func Grouped(v any, _ record.Record) string {
	n, ok := record.Number(v)
	if v == nil || !ok {
		return Missing
	}
	return printer.Sprintf("%v", number.Decimal(n, number.MaxFractionDigits(3)))
}

// Years renders an experience figure: 8 years.
func Years(v any, _ record.Record) string {
	if v == nil {
		return Missing
	}
	return record.Stringify(v) + " years"
}

// Rating renders a five point rating: 4.5 / 5 ⭐.
func Rating(v any, _ record.Record) string {
	if v == nil {
		return Missing
	}
	return record.Stringify(v) + " / 5 ⭐"
}

// LocaleDate renders a YYYY-MM-DD date as M/D/YYYY.
func LocaleDate(v any, _ record.Record) string {
	s := record.Stringify(v)
	if s == "" {
		return Missing
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return s
	}
	return t.Format("1/2/2006")
}
