package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney форматирует сумму с двумя знаками после точки и разделителями тысяч: 1,234.50.
func FormatMoney(amount decimal.Decimal) string {
	return moneyPrinter.Sprintf("%.2f", amount.Round(2).InexactFloat64())
}
