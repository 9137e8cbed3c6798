package extract

import "strings"

// classify maps an account's type to its category. group is the section
// header context the row was found under: anything under "Other Asset" is
// always Other no matter what its nominal type says.
func classify(accountType, accountName, group string) string {
	if group == "Other Asset" {
		return CategoryOther
	}

	switch t := strings.ToLower(accountType); {
	case t == "checking" || t == "savings":
		return CategoryCash
	case t == "investment" || t == "cryptocurrency":
		return CategoryBrokerage
	case strings.Contains(t, "401k") || strings.Contains(t, "ira"):
		return CategoryRetirement
	case t == "personal":
		return CategoryCredit
	case t == "line of credit":
		return CategoryLoan
	case t == "mortgage":
		return CategoryMortgage
	case t == "assets" || t == "property":
		return CategoryOther
	}

	// Unrecognized type: a property-looking name still routes to Other,
	// and so does everything else.
	name := strings.ToLower(accountName)
	for _, kw := range propertyNameKeywords {
		if strings.Contains(name, kw) {
			return CategoryOther
		}
	}
	return CategoryOther
}
