package core

import "github.com/shopspring/decimal"

// CategorySummary is a compact totals view of one category.
type CategorySummary struct {
	Name     string
	Items    int
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Summarize computes a category's totals.
func Summarize(c Category) CategorySummary {
	return CategorySummary{
		Name:     c.Name,
		Items:    len(c.Items),
		Subtotal: c.Subtotal(),
		Tax:      c.TotalTax(),
		Total:    c.TotalPrice(),
	}
}

// SummarizeAll folds several categories into one summary with the given name.
func SummarizeAll(name string, categories []Category) CategorySummary {
	out := CategorySummary{Name: name, Subtotal: decimal.Zero, Tax: decimal.Zero, Total: decimal.Zero}
	for _, c := range categories {
		s := Summarize(c)
		out.Items += s.Items
		out.Subtotal = out.Subtotal.Add(s.Subtotal)
		out.Tax = out.Tax.Add(s.Tax)
		out.Total = out.Total.Add(s.Total)
	}
	return out
}
