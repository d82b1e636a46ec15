package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Labels offered when adding an item.
const (
	LabelFood       = "Food"
	LabelMedication = "Medication"
	LabelCleaning   = "Cleaning"
	LabelOther      = "Other"
)

// hstRate is the harmonized sales tax applied to every non-food label.
var hstRate = decimal.RequireFromString("0.13")

// HSTRate returns the harmonized sales tax rate.
func HSTRate() decimal.Decimal {
	return hstRate
}

// Labels returns the item labels in display order.
func Labels() []string {
	return []string{LabelFood, LabelMedication, LabelCleaning, LabelOther}
}

// TaxRate maps an item label to its tax rate. Food is exempt, everything
// else (including unknown or empty labels) pays HST.
func TaxRate(label string) decimal.Decimal {
	if strings.EqualFold(strings.TrimSpace(label), LabelFood) {
		return decimal.Zero
	}
	return hstRate
}
