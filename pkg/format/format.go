// Package format renders amounts for display.
package format

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Fallback is returned when an amount cannot be formatted.
const Fallback = "0.00"

var defaultFormatter = New(language.AmericanEnglish)

// Currency formats the amount as a currency string for the default locale, e.g. "$12.30".
func Currency(amount decimal.Decimal) string {
	return defaultFormatter.Format(amount)
}

// SetDefault sets the locale used by Currency.
func SetDefault(tag language.Tag) {
	defaultFormatter = New(tag)
}

// Formatter formats amounts in the currency of a locale.
//
// The zero value is usable and always returns Fallback.
type Formatter struct {
	digits func(amount float64) string
	symbol string
	scale  int
	after  bool
}

// nbsp separates the amount from a symbol written after it.
const nbsp = "\u00a0"

// suffixLanguages write the currency symbol after the amount, e.g. "12,30 €" in German.
var suffixLanguages = map[language.Base]bool{}

func init() {
	for _, b := range []string{"bg", "cs", "da", "de", "el", "et", "fi", "fr", "hr", "hu", "is", "it", "lt", "lv", "nb", "nn", "pl", "ro", "ru", "sk", "sl", "sr", "sv", "uk", "vi"} {
		suffixLanguages[language.MustParseBase(b)] = true
	}
}

func symbolAfter(tag language.Tag) bool {
	base, _ := tag.Base()
	region, _ := tag.Region()

	// Only the European variants, "R$ 12,30" and "$12.30" elsewhere
	switch base.String() {
	case "es", "pt":
		return region.String() == "ES" || region.String() == "PT"
	}

	return suffixLanguages[base]
}

// New returns a Formatter for the currency used in the region of the tag.
func New(tag language.Tag) Formatter {
	unit, confidence := currency.FromTag(tag)
	if confidence == language.No {
		log.Warn().Str("locale", tag.String()).Msg("no currency for locale, amounts will not be formatted")
		return Formatter{}
	}

	p := message.NewPrinter(tag)
	scale, _ := currency.Standard.Rounding(unit)

	// Without a language, the international symbol (e.g. "US$") would be used
	symbol := p.Sprint(currency.Symbol(unit))
	if _, confidence := tag.Base(); confidence != language.Exact {
		symbol = p.Sprint(currency.NarrowSymbol(unit))
	}

	return Formatter{
		digits: func(amount float64) string {
			return p.Sprint(number.Decimal(amount, number.Scale(scale)))
		},
		symbol: symbol,
		scale:  scale,
		after:  symbolAfter(tag),
	}
}

// Format renders the amount rounded to the standard scale of the currency.
// Amounts that only differ in their scale, like 12.3 and 12.30, render identically.
func (f Formatter) Format(amount decimal.Decimal) (s string) {
	if f.digits == nil {
		return Fallback
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("formatting %s failed: %v", amount, r)
			s = Fallback
		}
	}()

	rounded := amount.Round(int32(f.scale))
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	digits := f.digits(rounded.InexactFloat64())
	if digits == "" || strings.Contains(digits, "%!") {
		return Fallback
	}

	if f.after {
		return sign + digits + nbsp + f.symbol
	}

	return sign + f.symbol + digits
}
