package extract

import "strings"

// dedupeAccounts removes accounts rediscovered by more than one scanning
// pass. Stage one drops exact duplicates keyed by (name, balance,
// provider). Stage two groups the rest by balance and merges records that
// are the same underlying account under different textual framings,
// keeping the more descriptive (longer) name.
func dedupeAccounts(accounts []Account) []Account {
	type key struct {
		name     string
		balance  string
		provider string
	}
	seen := make(map[key]bool)
	exact := make([]Account, 0, len(accounts))
	for _, acc := range accounts {
		k := key{acc.Name, acc.Balance.String(), acc.Provider}
		if seen[k] {
			continue
		}
		seen[k] = true
		exact = append(exact, acc)
	}

	// Group by balance, preserving first-seen order of the groups.
	groups := make(map[string][]Account)
	var order []string
	for _, acc := range exact {
		b := acc.Balance.String()
		if _, ok := groups[b]; !ok {
			order = append(order, b)
		}
		groups[b] = append(groups[b], acc)
	}

	var unique []Account
	for _, b := range order {
		group := groups[b]
		if len(group) == 1 {
			unique = append(unique, group[0])
			continue
		}

		skip := make([]bool, len(group))
		for i, acc := range group {
			if skip[i] {
				continue
			}
			duplicate := false
			for j, other := range group {
				if i == j || skip[j] {
					continue
				}
				if !sameUnderlyingAccount(acc, other) {
					continue
				}
				if len(acc.Name) >= len(other.Name) {
					skip[j] = true
				} else {
					duplicate = true
					break
				}
			}
			if !duplicate {
				unique = append(unique, acc)
			}
		}
	}

	return unique
}

// sameUnderlyingAccount reports whether two same-balance records are the
// same real-world account rendered differently: one name contained in the
// other, both names embedding the same provider, or the crypto-provider
// special case (a generic "Cryptocurrency" row and a "Coinbase Crypto"
// row under the same Coinbase provider).
func sameUnderlyingAccount(a, b Account) bool {
	nameA := strings.ToLower(a.Name)
	nameB := strings.ToLower(b.Name)
	provA := strings.ToLower(a.Provider)
	provB := strings.ToLower(b.Provider)

	if strings.Contains(provA, "coinbase") && strings.Contains(provB, "coinbase") &&
		(strings.Contains(nameA, "crypto") || strings.Contains(nameB, "crypto")) {
		return true
	}
	if strings.Contains(nameA, nameB) || strings.Contains(nameB, nameA) {
		return true
	}
	if provA != "" && strings.Contains(nameA, provA) && strings.Contains(nameB, provA) {
		return true
	}
	if nameA == "cryptocurrency" && strings.Contains(provA, "coinbase") &&
		strings.Contains(nameB, "coinbase") && strings.Contains(provB, "coinbase") {
		return true
	}
	return false
}
