package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

func TestBusinessInvoice(t *testing.T) {
	order := domain.NewOrder(1, 42, orderDate, domain.NewFlatRateDiscount(dec("1")), domain.NewInvoiceStrategy(true))
	require.NoError(t, order.SetLine(product("Brawndo", "1500.00"), 2))

	require.Equal(t, "Your business account has been charged: $3,000.00\n"+
		"Please see your Brawndo© merchandising representative for itemised details.", order.InvoiceText())

	sub := domain.NewSubscriptionOrder(2, 42, orderDate, domain.NewFlatRateDiscount(dec("1")), domain.NewInvoiceStrategy(true), 2)
	require.NoError(t, sub.SetLine(product("Brawndo", "1.50"), 2))

	require.Equal(t, "Your business account will be charged: $3.00 each week, with a total overall cost of: $6.00\n"+
		"Please see your Brawndo© merchandising representative for itemised details.", sub.InvoiceText())
}

func TestPersonalSubscriptionInvoice(t *testing.T) {
	sub := domain.NewSubscriptionOrder(2, 42, orderDate, domain.NewFlatRateDiscount(dec("0.5")), domain.NewInvoiceStrategy(false), 10)
	require.NoError(t, sub.SetLine(product("Salts", "4.00"), 1))
	require.NoError(t, sub.SetLine(product("Brawndo", "2.00"), 2))

	require.Equal(t, "Thank you for your Brawndo© order!\n"+
		"Your order comes to: $4.00 each week, with a total overall cost of: $40.00\n"+
		"Please see below for details:\n"+
		"\tProduct name: Brawndo\tQty: 2\tCost per unit: $2.00\tSubtotal: $4.00\n"+
		"\tProduct name: Salts\tQty: 1\tCost per unit: $4.00\tSubtotal: $4.00\n", sub.InvoiceText())
}

func TestInvoiceFromKind(t *testing.T) {
	inv, err := domain.InvoiceFromKind(domain.InvoiceBusiness)
	require.NoError(t, err)
	require.Equal(t, domain.InvoiceBusiness, inv.Kind())

	_, err = domain.InvoiceFromKind("fax")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":           "0.00",
		"24":          "24.00",
		"1234.5":      "1,234.50",
		"1234567.891": "1,234,567.89",
	}
	for in, want := range cases {
		require.Equal(t, want, domain.FormatMoney(dec(in)), "input %s", in)
	}
}
