package yahoo

import "testing"

func TestValidFormat(t *testing.T) {
	valid := []string{"AAPL", "MSFT", "V", "^GSPC", "^TA125.TA", "GC=F", "VOD.L", "BMW.DE", "BTC-USD", "US0378331005"}
	for _, s := range valid {
		if !ValidFormat(s) {
			t.Errorf("ValidFormat(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "aapl", "TOOLONGG", "AAPL!", "123456", "^", "=F", "-USD"}
	for _, s := range invalid {
		if ValidFormat(s) {
			t.Errorf("ValidFormat(%q) = true, want false", s)
		}
	}
}

func TestLooksLikeISIN(t *testing.T) {
	if !LooksLikeISIN("US0378331005") {
		t.Error("US0378331005 should look like an ISIN")
	}
	if !LooksLikeISIN("IE00B4L5Y983") {
		t.Error("IE00B4L5Y983 should look like an ISIN")
	}
	// Plain tickers must never be routed through search.
	if LooksLikeISIN("AAPL") {
		t.Error("AAPL must not look like an ISIN")
	}
	if LooksLikeISIN("BRK.B") {
		t.Error("BRK.B must not look like an ISIN")
	}
}

func TestIsIndexSymbol(t *testing.T) {
	if !IsIndexSymbol("^TNX") {
		t.Error("^TNX is an index symbol")
	}
	if IsIndexSymbol("TNX") {
		t.Error("TNX is not an index symbol")
	}
}

func TestImpliedYieldFromIndexPrice(t *testing.T) {
	if got := ImpliedYieldFromIndexPrice(4.2); got != 0.042 {
		t.Errorf("ImpliedYieldFromIndexPrice(4.2) = %v, want 0.042", got)
	}
}
