// Package money renders Storefront money values the way an en-US currency
// formatter does: CLDR symbol, currency scale, grouped thousands.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	ErrUnknownCurrency = errors.New("unknown currency code")
	ErrInvalidAmount   = errors.New("invalid money amount")
)

// Zero is what an absent cart renders as.
const Zero = "$0.00"

var printer = message.NewPrinter(language.AmericanEnglish)

// Format renders m, e.g. {"19.99","USD"} as "$19.99" and {"1000","JPY"} as "¥1,000".
func Format(m domain.Money) (string, error) {
	unit, err := currency.ParseISO(m.CurrencyCode)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, m.CurrencyCode)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(m.Amount))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidAmount, m.Amount)
	}

	scale, _ := currency.Standard.Rounding(unit)
	symbol := printer.Sprint(currency.Symbol(unit))

	digits := amount.Abs().StringFixed(int32(scale))
	intPart, frac, _ := strings.Cut(digits, ".")

	var b strings.Builder
	if amount.Round(int32(scale)).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	b.WriteString(group(intPart))
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String(), nil
}

// MustFormat is Format for values already known to be well formed; bad input
// falls back to "<amount> <code>".
func MustFormat(m domain.Money) string {
	s, err := Format(m)
	if err != nil {
		return strings.TrimSpace(m.Amount + " " + m.CurrencyCode)
	}
	return s
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
