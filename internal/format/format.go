// Package format renders amounts and percentages for statements using locale rules.
package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter formats numbers for a single locale.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Formatter for a BCP 47 locale such as "ar-LY" or "en".
// Unknown locales fall back to the closest known match.
func New(locale string) *Formatter {
	tag := language.Make(locale)
	return &Formatter{tag: tag, printer: message.NewPrinter(tag)}
}

// Locale is the resolved language tag.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Money formats an amount with two decimals and grouping.
func (f *Formatter) Money(v float64) string {
	return f.printer.Sprintf("%.2f", v)
}

// Whole formats a value rounded to an integer with grouping.
func (f *Formatter) Whole(v float64) string {
	return f.printer.Sprintf("%.0f", v)
}

// Percent formats a percentage with one decimal.
func (f *Formatter) Percent(v float64) string {
	return f.printer.Sprintf("%.1f%%", v)
}

// Date formats a calendar date.
func (f *Formatter) Date(t time.Time) string {
	return t.Format("2006-01-02")
}
