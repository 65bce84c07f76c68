package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var currencySymbols = map[string]string{
	"NGN": "₦",
	"USD": "$",
	"GBP": "£",
	"EUR": "€",
}

// FormatMoney renders amount with the currency symbol, thousand separators and 2 decimals.
// An empty currency defaults to NGN.
func FormatMoney(amount float64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "NGN"
	}
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	kobo := int64(math.Round(amount * 100))
	whole, frac := kobo/100, kobo%100
	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, formatThousand(whole), frac)
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}

// FormatAmount renders amount with thousand separators and 2 decimals, without a symbol.
func FormatAmount(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	kobo := int64(math.Round(amount * 100))
	return fmt.Sprintf("%s%s.%02d", sign, formatThousand(kobo/100), kobo%100)
}
