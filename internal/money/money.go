// Package money formats monetary amounts and exposes the localization
// attributes (symbol, ISO code, precision, separators) that prompt templates
// embed so the model mirrors the user's formatting.
package money

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
)

// Preferences describes how amounts in one currency are rendered.
type Preferences struct {
	Symbol    string
	ISO       string
	Precision int
	Separator string // decimal separator
	Delimiter string // thousands delimiter
}

// Formatter renders amounts for a single currency.
type Formatter struct {
	prefs Preferences
}

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"CAD": "CA$",
	"AUD": "A$",
	"CHF": "CHF ",
	"BRL": "R$",
	"MXN": "MX$",
}

// Currencies that conventionally swap the decimal and thousands marks.
var commaDecimal = map[string]bool{
	"EUR": true,
	"BRL": true,
}

// NewFormatter builds a Formatter for the given ISO 4217 code. Unknown codes
// degrade to a code-prefixed rendering with two decimal places rather than
// failing, since formatting sits on the tolerant snapshot path.
func NewFormatter(code string) *Formatter {
	code = strings.ToUpper(strings.TrimSpace(code))
	prefs := Preferences{
		ISO:       code,
		Symbol:    code + " ",
		Precision: 2,
		Separator: ".",
		Delimiter: ",",
	}

	if unit, err := currency.ParseISO(code); err == nil {
		prefs.ISO = unit.String()
		if scale, _ := currency.Cash.Rounding(unit); scale >= 0 {
			prefs.Precision = scale
		}
	}
	if sym, ok := symbols[code]; ok {
		prefs.Symbol = sym
	}
	if commaDecimal[code] {
		prefs.Separator = ","
		prefs.Delimiter = "."
	}

	return &Formatter{prefs: prefs}
}

// Preferences returns the localization attributes for this currency.
func (f *Formatter) Preferences() Preferences {
	return f.prefs
}

// Format renders an amount like "$1,234.56" or "-€1.234,56".
func (f *Formatter) Format(amount float64) string {
	sign := ""
	if amount < 0 || (amount == 0 && math.Signbit(amount)) {
		sign = "-"
		amount = -amount
	}

	fixed := fmt.Sprintf("%.*f", f.prefs.Precision, amount)
	intPart := fixed
	fracPart := ""
	if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
		intPart = fixed[:idx]
		fracPart = fixed[idx+1:]
	}

	grouped := groupThousands(intPart, f.prefs.Delimiter)
	out := sign + f.prefs.Symbol + grouped
	if fracPart != "" {
		out += f.prefs.Separator + fracPart
	}
	return out
}

func groupThousands(digits, delimiter string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(delimiter)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
