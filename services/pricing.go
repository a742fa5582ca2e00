package services

import (
	"strings"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

func lineTotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}

// moneyFloat rounds to two places for storage and JSON.
func moneyFloat(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// toMinorUnits converts an amount to paise/cents for the gateways.
func toMinorUnits(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// formatMoney renders amount for humans, e.g. ₹1,299.00.
func formatMoney(amount decimal.Decimal, currency string) string {
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency) + " "
	}
	ac := accounting.Accounting{Symbol: symbol, Precision: 2, Thousand: ",", Decimal: "."}
	return ac.FormatMoney(moneyFloat(amount))
}
