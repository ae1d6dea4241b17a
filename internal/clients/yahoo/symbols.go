package yahoo

import (
	"regexp"
	"strings"
)

// Accepted symbol shapes. Anything else is rejected before a network call.
var (
	equityPattern  = regexp.MustCompile(`^[A-Z]{1,5}$`)            // AAPL
	indexPattern   = regexp.MustCompile(`^\^[A-Z0-9]+(\.[A-Z]+)?$`) // ^GSPC, ^TA125.TA
	futuresPattern = regexp.MustCompile(`^[A-Z]+=F$`)              // GC=F
	foreignPattern = regexp.MustCompile(`^[A-Z0-9]+\.[A-Z]+$`)     // VOD.L, BMW.DE
	cryptoPattern  = regexp.MustCompile(`^[A-Z]+-[A-Z]+$`)         // BTC-USD
	isinPattern    = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)
)

// ValidFormat reports whether the input looks like a quotable symbol.
func ValidFormat(symbol string) bool {
	return equityPattern.MatchString(symbol) ||
		indexPattern.MatchString(symbol) ||
		futuresPattern.MatchString(symbol) ||
		foreignPattern.MatchString(symbol) ||
		cryptoPattern.MatchString(symbol) ||
		isinPattern.MatchString(symbol)
}

// LooksLikeISIN reports whether the input resembles an ISIN (2-letter
// country code, 9 alphanumerics, 1 check digit). Such inputs go through
// symbol search before querying.
func LooksLikeISIN(input string) bool {
	return isinPattern.MatchString(input) && !equityPattern.MatchString(input)
}

// IsIndexSymbol reports whether the symbol is a caret-prefixed index.
func IsIndexSymbol(symbol string) bool {
	return strings.HasPrefix(symbol, "^")
}

// ImpliedYieldFromIndexPrice converts a treasury index quote into a yield
// fraction. The upstream encodes treasury yield quotes as a price equal to
// the percentage yield (^TNX at 4.20 means 4.20%). This convention is
// upstream-specific and undocumented; it lives here so the assumption is
// easy to revisit.
func ImpliedYieldFromIndexPrice(price float64) float64 {
	return price / 100
}
