package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// netWorthDoc builds a flattened net-worth snapshot from its lines.
func netWorthDoc(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestExtractNetWorth_StructuredSection(t *testing.T) {
	text := netWorthDoc(
		"Net worth",
		"$2,500,000.00",
		"Account",
		"Type",
		"Balance",
		"Cash",
		"$51,234.56",
		"Apple Federal Credit Union",
		"Advantage Checking - Ending in 1234",
		"Checking",
		"$51,234.56",
		"6/1/2025 9:15 AM",
		"Charles Schwab",
		"Schwab Brokerage Individual",
		"Investment",
		"$450,000.00",
		"6/1/2025 9:20 AM",
	)

	accounts, err := ExtractNetWorth(text)
	if err != nil {
		t.Fatalf("ExtractNetWorth failed: %v", err)
	}

	var checking, brokerage *Account
	for i := range accounts {
		switch accounts[i].Name {
		case "Advantage Checking - Ending in 1234":
			checking = &accounts[i]
		case "Schwab Brokerage Individual":
			brokerage = &accounts[i]
		}
	}

	if checking == nil {
		t.Fatal("checking account not extracted")
	}
	if checking.Type != "Checking" || checking.Category != CategoryCash {
		t.Errorf("checking type/category = %q/%q, want Checking/Cash", checking.Type, checking.Category)
	}
	if !checking.Balance.Equal(decimal.RequireFromString("51234.56")) {
		t.Errorf("checking balance = %s, want 51234.56", checking.Balance)
	}
	if checking.Provider != "Apple Federal Credit Union" {
		t.Errorf("checking provider = %q", checking.Provider)
	}
	if checking.Date != "6/1/2025 9:15 AM" {
		t.Errorf("checking date = %q", checking.Date)
	}

	if brokerage == nil {
		t.Fatal("brokerage account not extracted")
	}
	if brokerage.Category != CategoryBrokerage {
		t.Errorf("brokerage category = %q, want %q", brokerage.Category, CategoryBrokerage)
	}
}

func TestExtractNetWorth_TotalRowAlwaysLastAndUnique(t *testing.T) {
	text := netWorthDoc(
		"ALL ACCOUNTS",
		"$2,500,000.00",
		"Account",
		"Type",
		"Balance",
		"Cash",
		"$1,000.00",
		"Wells Fargo",
		"Everyday Checking - Ending in 9876",
		"Checking",
		"$1,000.00",
		"6/1/2025 9:15 AM",
	)

	accounts, err := ExtractNetWorth(text)
	if err != nil {
		t.Fatalf("ExtractNetWorth failed: %v", err)
	}

	totals := 0
	for _, acc := range accounts {
		if acc.Category == CategoryTotal {
			totals++
		}
	}
	if totals != 1 {
		t.Fatalf("got %d Total rows, want exactly 1", totals)
	}

	last := accounts[len(accounts)-1]
	if last.Category != CategoryTotal {
		t.Fatalf("last record category = %q, want Total", last.Category)
	}
	if last.Name != "TOTAL NET WORTH" || last.Provider != "Summary" {
		t.Errorf("total row = %q/%q, want TOTAL NET WORTH/Summary", last.Name, last.Provider)
	}
	// The page's own printed figure beats the summed balances.
	if !last.Balance.Equal(decimal.RequireFromString("2500000.00")) {
		t.Errorf("total = %s, want 2500000.00", last.Balance)
	}
}

func TestExtractNetWorth_SummedTotalWhenNoPrintedFigure(t *testing.T) {
	text := netWorthDoc(
		"Net worth",
		"Account",
		"Type",
		"Balance",
		"Cash",
		"$1,000.00",
		"Wells Fargo",
		"Everyday Checking - Ending in 9876",
		"Checking",
		"$1,000.00",
		"6/1/2025 9:15 AM",
		"Chase",
		"Chase Savings - Ending in 1111",
		"Savings",
		"$500.00",
		"6/1/2025 9:16 AM",
	)

	accounts, err := ExtractNetWorth(text)
	if err != nil {
		t.Fatalf("ExtractNetWorth failed: %v", err)
	}
	last := accounts[len(accounts)-1]
	if !last.Balance.Equal(decimal.RequireFromString("1500.00")) {
		t.Errorf("summed total = %s, want 1500.00", last.Balance)
	}
}

func TestExtractNetWorth_NoIndicators(t *testing.T) {
	_, err := ExtractNetWorth("a grocery list, not a dashboard")
	if !errors.Is(err, ErrNoIndicators) {
		t.Fatalf("err = %v, want ErrNoIndicators", err)
	}
}

func TestExtractNetWorth_StructuredHeaderMissing(t *testing.T) {
	_, err := ExtractNetWorth("Net worth\nbut no account table follows\n")
	if !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("err = %v, want ErrSectionNotFound", err)
	}
}

func TestExtractNetWorth_LiabilitySign(t *testing.T) {
	text := netWorthDoc(
		"Net worth",
		"Account",
		"Type",
		"Balance",
		"Credit",
		"-$500.00",
		"Brex",
		"Brex Card Account",
		"Personal",
		"-$500.00",
		"6/1/2025 9:15 AM",
	)

	accounts, err := ExtractNetWorth(text)
	if err != nil {
		t.Fatalf("ExtractNetWorth failed: %v", err)
	}

	for _, acc := range accounts {
		if acc.Name == "Brex Card Account" {
			if !acc.Balance.Equal(decimal.RequireFromString("-500.00")) {
				t.Errorf("balance = %s, want -500.00", acc.Balance)
			}
			if acc.Category != CategoryCredit {
				t.Errorf("category = %q, want Credit", acc.Category)
			}
			return
		}
	}
	t.Fatal("Brex Card Account not extracted")
}

func TestExtractNetWorth_PropertyEntries(t *testing.T) {
	text := netWorthDoc(
		"Net worth",
		"Account",
		"Type",
		"Balance",
		"Cash",
		"$1,000.00",
		"Truist",
		"Truist Checking - Ending in 2222",
		"Checking",
		"$1,000.00",
		"6/1/2025 9:15 AM",
		"Other Asset",
		"Home (Zestimate)",
		"$850,000.00",
		"123 Maplewood Ct",
		"5/30/2025",
	)

	accounts, err := ExtractNetWorth(text)
	if err != nil {
		t.Fatalf("ExtractNetWorth failed: %v", err)
	}

	for _, acc := range accounts {
		if strings.HasPrefix(acc.Name, "Home (Zestimate)") {
			if acc.Name != "Home (Zestimate) - 123 Maplewood Ct" {
				t.Errorf("property name = %q, want address appended", acc.Name)
			}
			if acc.Type != "Property" || acc.Category != CategoryOther {
				t.Errorf("property type/category = %q/%q", acc.Type, acc.Category)
			}
			if acc.Provider != "Empower Manual" {
				t.Errorf("property provider = %q, want Empower Manual", acc.Provider)
			}
			if !acc.Balance.Equal(decimal.RequireFromString("850000.00")) {
				t.Errorf("property balance = %s, want 850000.00", acc.Balance)
			}
			return
		}
	}
	t.Fatal("property entry not extracted")
}

func TestExtractNetWorth_ProviderFirstLayout(t *testing.T) {
	text := netWorthDoc(
		"Net worth",
		"Account",
		"Type",
		"Balance",
		"Cash",
		"$1,000.00",
		"Truist",
		"Truist Checking - Ending in 2222",
		"Checking",
		"$1,000.00",
		"6/1/2025 9:15 AM",
		"",
		"Bluevine",
		"               Bluevine Business Checking",
		"Checking",
		"$12,345.67",
		"6/1/2025 10:00 AM",
	)

	accounts, err := ExtractNetWorth(text)
	if err != nil {
		t.Fatalf("ExtractNetWorth failed: %v", err)
	}

	for _, acc := range accounts {
		if acc.Name == "Bluevine Business Checking" {
			if acc.Provider != "Bluevine" {
				t.Errorf("provider = %q, want Bluevine", acc.Provider)
			}
			return
		}
	}
	t.Fatal("indented provider-first account not extracted")
}

func TestExtractNetWorth_AccountFirstLayout(t *testing.T) {
	text := netWorthDoc(
		"Net worth",
		"Account",
		"Type",
		"Balance",
		"Cash",
		"$1,000.00",
		"Truist",
		"Truist Checking - Ending in 2222",
		"Checking",
		"$1,000.00",
		"6/1/2025 9:15 AM",
		"",
		"Webull Investment Holdings",
		"               Webull",
		"Investment",
		"$9,876.54",
		"6/1/2025 11:00 AM",
	)

	accounts, err := ExtractNetWorth(text)
	if err != nil {
		t.Fatalf("ExtractNetWorth failed: %v", err)
	}

	for _, acc := range accounts {
		if acc.Name == "Webull Investment Holdings" && acc.Provider == "Webull" {
			if acc.Category != CategoryBrokerage {
				t.Errorf("category = %q, want %q", acc.Category, CategoryBrokerage)
			}
			return
		}
	}
	t.Fatal("account-first layout not extracted")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		typ   string
		name  string
		group string
		want  string
	}{
		{"Checking", "", "", CategoryCash},
		{"Savings", "", "", CategoryCash},
		{"Investment", "", "", CategoryBrokerage},
		{"Cryptocurrency", "", "", CategoryBrokerage},
		{"401k Traditional", "", "", CategoryRetirement},
		{"IRA SEP", "", "", CategoryRetirement},
		{"Personal", "", "", CategoryCredit},
		{"Line of Credit", "", "", CategoryLoan},
		{"Mortgage", "", "", CategoryMortgage},
		{"Assets", "", "", CategoryOther},
		{"Unknown", "Lake House Zestimate", "", CategoryOther},
		{"Unknown", "Something Else", "", CategoryOther},
		// Group context trumps the nominal type.
		{"Investment", "", "Other Asset", CategoryOther},
	}
	for _, tt := range tests {
		if got := classify(tt.typ, tt.name, tt.group); got != tt.want {
			t.Errorf("classify(%q, %q, %q) = %q, want %q", tt.typ, tt.name, tt.group, got, tt.want)
		}
	}
}

func TestParseMoney_SignNormalization(t *testing.T) {
	a, err := parseMoney("-$1,234.56")
	if err != nil {
		t.Fatal(err)
	}
	b, err := parseMoney("-1234.56")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Errorf("-$1,234.56 parsed as %s, -1234.56 as %s; want identical", a, b)
	}
	if !a.Equal(decimal.RequireFromString("-1234.56")) {
		t.Errorf("parsed = %s, want -1234.56", a)
	}
}
