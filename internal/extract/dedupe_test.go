package extract

import (
	"testing"

	"github.com/shopspring/decimal"
)

func acct(name, typ, balance, provider string) Account {
	return Account{
		Name:     name,
		Type:     typ,
		Balance:  decimal.RequireFromString(balance),
		Category: classify(typ, name, ""),
		Provider: provider,
		Date:     "Unknown",
	}
}

func TestDedupeAccounts_ExactDuplicates(t *testing.T) {
	accounts := []Account{
		acct("Everyday Checking", "Checking", "1000.00", "Wells Fargo"),
		acct("Everyday Checking", "Checking", "1000.00", "Wells Fargo"),
	}
	got := dedupeAccounts(accounts)
	if len(got) != 1 {
		t.Fatalf("got %d accounts, want 1", len(got))
	}
}

func TestDedupeAccounts_KeepsLongerNameOnSameBalance(t *testing.T) {
	// Two passes rediscovering the same card under different framings:
	// the more descriptive name survives.
	accounts := []Account{
		acct("Brex", "Personal", "-500.00", "Brex"),
		acct("Brex Card Account", "Personal", "-500.00", "Brex"),
	}
	got := dedupeAccounts(accounts)
	if len(got) != 1 {
		t.Fatalf("got %d accounts, want 1", len(got))
	}
	if got[0].Name != "Brex Card Account" {
		t.Errorf("kept %q, want Brex Card Account", got[0].Name)
	}
}

func TestDedupeAccounts_CryptoProviderSpecialCase(t *testing.T) {
	accounts := []Account{
		acct("Cryptocurrency", "Cryptocurrency", "4321.00", "Coinbase"),
		acct("Coinbase Crypto", "Cryptocurrency", "4321.00", "Coinbase"),
	}
	got := dedupeAccounts(accounts)
	if len(got) != 1 {
		t.Fatalf("got %d accounts, want 1", len(got))
	}
	if got[0].Name != "Coinbase Crypto" {
		t.Errorf("kept %q, want Coinbase Crypto", got[0].Name)
	}
}

func TestDedupeAccounts_DistinctAccountsSameBalanceKept(t *testing.T) {
	accounts := []Account{
		acct("Everyday Checking", "Checking", "1000.00", "Wells Fargo"),
		acct("Premier Savings", "Savings", "1000.00", "Chase"),
	}
	got := dedupeAccounts(accounts)
	if len(got) != 2 {
		t.Fatalf("got %d accounts, want 2: same balance alone is not a duplicate", len(got))
	}
}
