package domain

import "github.com/shopspring/decimal"

// Pricing holds the delivery surcharge policy. SurchargePercent 5 means 5%; 0
// disables the surcharge.
type Pricing struct {
	SurchargePercent int64
}

func (p Pricing) Surcharge(total decimal.Decimal, delivery bool) decimal.Decimal {
	if !delivery || p.SurchargePercent <= 0 {
		return decimal.Zero
	}
	return total.Mul(decimal.NewFromInt(p.SurchargePercent)).Div(decimal.NewFromInt(100)).Round(2)
}
