package parser

import (
	"testing"
)

func TestResolveYear_StatementDateHeader(t *testing.T) {
	lines := []string{
		"Standard Bank",
		"Current Account Statement",
		"Statement Date : 05 March 2023",
		"GROCERY STORE 45.00- 03 06 1200.00",
	}

	year, matched := ResolveYear(lines, 0)
	if year != 2023 {
		t.Errorf("year: got %d, want 2023", year)
	}
	if !matched {
		t.Error("expected matched=true for statement date header")
	}
}

func TestResolveYear_HeaderAnywhere(t *testing.T) {
	// Position in the line list must not matter.
	lines := []string{
		"page 3 of 7",
		"some noise",
		"more noise",
		"statement date : 1 january 2022",
	}

	year, matched := ResolveYear(lines, 0)
	if year != 2022 || !matched {
		t.Errorf("got (%d, %v), want (2022, true)", year, matched)
	}
}

func TestResolveYear_BareDateFallback(t *testing.T) {
	lines := []string{
		"FNB Premier Cheque Account",
		"Period ending 28 February 2021",
	}

	year, matched := ResolveYear(lines, 0)
	if year != 2021 || !matched {
		t.Errorf("got (%d, %v), want (2021, true)", year, matched)
	}
}

func TestResolveYear_NoMatchUsesDefault(t *testing.T) {
	lines := []string{
		"no dates here",
		"03 Jan POS PURCHASE", // day + abbreviation is not a full date
	}

	year, matched := ResolveYear(lines, 0)
	if year != DefaultStatementYear {
		t.Errorf("year: got %d, want %d", year, DefaultStatementYear)
	}
	if matched {
		t.Error("expected matched=false when falling back to the default")
	}
}

func TestResolveYear_OverrideWins(t *testing.T) {
	lines := []string{"Statement Date : 05 March 2023"}

	year, matched := ResolveYear(lines, 2019)
	if year != 2019 || !matched {
		t.Errorf("got (%d, %v), want (2019, true)", year, matched)
	}
}
