// Package render turns API records into the HTML fragments shown in the
// bookkeeping page. Everything here is pure and safe to call concurrently.
package render

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"bookkeeping-web/internal/domain/loan"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes & < > " ' for interpolation into markup. The zero
// string stands for a missing value and yields "".
func EscapeHTML(s string) string {
	if s == "" {
		return ""
	}
	return htmlEscaper.Replace(s)
}

// FormatDate reorders an ISO YYYY-MM-DD date into MM/DD/YYYY without any
// time zone handling. Missing dates render as N/A; anything that does not
// split into three parts is returned unchanged.
func FormatDate(iso string) string {
	if iso == "" {
		return "N/A"
	}
	parts := strings.Split(iso, "-")
	if len(parts) != 3 {
		return iso
	}
	return parts[1] + "/" + parts[2] + "/" + parts[0]
}

// Money formats loan amounts for one locale.
type Money struct {
	printer  *message.Printer
	fallback string
	// symbolAfter puts the symbol behind the number, "1.234,50 $".
	symbolAfter bool
}

// Languages whose standard currency pattern is "#,##0.00 ¤".
var symbolAfterLanguages = map[string]bool{
	"bg": true, "cs": true, "da": true, "de": true, "el": true, "es": true,
	"et": true, "fi": true, "fr": true, "hr": true, "hu": true, "it": true,
	"lt": true, "lv": true, "nb": true, "no": true, "pl": true, "pt-PT": true,
	"ro": true, "ru": true, "sk": true, "sl": true, "sr": true, "sv": true,
	"uk": true,
}

// Regions that keep the symbol in front although their language does not.
var symbolBeforeRegions = map[string]bool{"de-AT": true, "de-CH": true, "de-LI": true}

func symbolAfter(tag language.Tag) bool {
	base, _ := tag.Base()
	region, _ := tag.Region()
	lr := base.String() + "-" + region.String()
	if symbolBeforeRegions[lr] {
		return false
	}
	return symbolAfterLanguages[base.String()] || symbolAfterLanguages[lr]
}

// NewMoney builds a formatter for locale (a BCP 47 tag such as "en-US").
// fallback is the currency used when a loan carries none.
func NewMoney(locale, fallback string) *Money {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	return &Money{
		printer:     message.NewPrinter(tag),
		fallback:    strings.ToUpper(fallback),
		symbolAfter: symbolAfter(tag),
	}
}

// Loan formats the loan amount in its own currency, or the fallback one.
func (m *Money) Loan(l loan.Loan) string {
	return m.Format(l.Amount, l.CurrencyOr(m.fallback))
}

// Format renders amount in the given currency with the locale's grouping and
// decimal separators, the currency's standard number of decimals and the
// symbol on the side the locale writes it.
func (m *Money) Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = m.fallback
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code + " " + m.number(amount, 2)
	}
	scale, _ := currency.Standard.Rounding(unit)
	sym := m.printer.Sprint(currency.Symbol(unit))
	sign := ""
	if amount.IsNegative() {
		sign, amount = "-", amount.Neg()
	}
	if m.symbolAfter {
		return sign + m.number(amount, scale) + "\u00a0" + sym
	}
	return sign + sym + m.number(amount, scale)
}

func (m *Money) number(amount decimal.Decimal, scale int) string {
	v := amount.Round(int32(scale)).InexactFloat64()
	return m.printer.Sprintf(fmt.Sprintf("%%.%df", scale), v)
}
