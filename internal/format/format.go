// Package format renders amounts, dates and projected durations for display.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/templui/ahorros/internal/forecast"
	"github.com/templui/ahorros/internal/model"
)

const (
	DefaultLocale   = "es-AR"
	DefaultCurrency = "USD"
)

type Formatter struct {
	tag     language.Tag
	lang    string
	printer *message.Printer
	text    *message.Printer
	unit    currency.Unit
	symbol  string
}

// New builds a Formatter. An unknown locale falls back to DefaultLocale and an
// unknown ISO currency code to DefaultCurrency. symbol may be empty, in which
// case the ISO code is printed.
func New(locale, isoCurrency, symbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	unit, err := currency.ParseISO(isoCurrency)
	if err != nil {
		unit = currency.MustParseISO(DefaultCurrency)
	}
	if symbol == "" {
		symbol = unit.String()
	}

	base, _ := tag.Base()
	baseTag := language.Make(base.String())

	return &Formatter{
		tag:     tag,
		lang:    base.String(),
		printer: message.NewPrinter(tag),
		text:    message.NewPrinter(baseTag),
		unit:    unit,
		symbol:  symbol,
	}
}

func (f *Formatter) Locale() string {
	return f.tag.String()
}

func (f *Formatter) CurrencyCode() string {
	return f.unit.String()
}

// Number groups digits the way the locale does, without fraction digits.
func (f *Formatter) Number(v float64) string {
	return f.printer.Sprint(number.Decimal(math.Round(v), number.MaxFractionDigits(0)))
}

// Currency formats v as a whole amount prefixed with the currency symbol.
func (f *Formatter) Currency(v float64) string {
	return f.symbol + " " + f.Number(v)
}

// Monthly formats a monthly rate, e.g. "US$ 263/mes".
func (f *Formatter) Monthly(v float64) string {
	return f.Currency(v) + f.text.Sprintf("/month")
}

func (f *Formatter) Percent(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}

// Date renders an ISO calendar date with an abbreviated month name. Strings
// that do not parse are returned unchanged.
func (f *Formatter) Date(iso string) string {
	d, err := time.Parse(model.DateLayout, strings.TrimSpace(iso))
	if err != nil {
		return iso
	}
	month := monthAbbrev(f.lang, d.Month())
	if f.lang == "en" {
		return fmt.Sprintf("%s %d, %d", month, d.Day(), d.Year())
	}
	return fmt.Sprintf("%d %s %d", d.Day(), month, d.Year())
}

// Duration renders a projected time to goal: completed, unknown, months, or
// years and months.
func (f *Formatter) Duration(d forecast.Duration) string {
	switch {
	case d.Completed || (!d.Unknown && d.Months <= 0):
		return f.text.Sprintf("Completed")
	case d.Unknown:
		return f.text.Sprintf("No estimate")
	case d.Months == 1:
		return f.text.Sprintf("1 month")
	case d.Months < 12:
		return f.text.Sprintf("%d months", d.Months)
	}

	years := d.Months / 12
	months := d.Months % 12
	switch {
	case months == 0 && years == 1:
		return f.text.Sprintf("1 year")
	case months == 0:
		return f.text.Sprintf("%d years", years)
	case years == 1:
		return f.text.Sprintf("1 year and %d months", months)
	default:
		return f.text.Sprintf("%d years and %d months", years, months)
	}
}
