package helpers

import (
	"log"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a provider amount string ("60.50") to a decimal.
// An unparsable value degrades to zero instead of failing the batch; the
// record is still mirrored so an operator can inspect it.
func ParseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		log.Printf("⚠️  Unparsable amount %q, storing 0", s)
		return decimal.Zero
	}
	return d
}

// ExclVat strips VAT from a VAT-inclusive amount: incl / (1 + rate),
// rounded to 2 decimals.
func ExclVat(incl decimal.Decimal, vatRate decimal.Decimal) decimal.Decimal {
	return incl.Div(decimal.NewFromInt(1).Add(vatRate)).Round(2)
}
