package domain

import (
	"fmt"
	"strings"
)

// InvoiceKind определяет формат счёта по типу клиента.
type InvoiceKind string

const (
	InvoiceBusiness InvoiceKind = "business"
	InvoicePersonal InvoiceKind = "personal"
)

const invoiceBrand = "Brawndo©"

// InvoiceStrategy рендерит текст счёта. Формулировки для разовых заказов и подписок
// различаются, поэтому у стратегии отдельный метод на каждый вариант заказа.
type InvoiceStrategy interface {
	SingleInvoice(order *Order) string
	SubscriptionInvoice(order *Order) string
	Kind() InvoiceKind
}

// NewInvoiceStrategy выбирает стратегию по классификации клиента.
func NewInvoiceStrategy(isBusiness bool) InvoiceStrategy {
	if isBusiness {
		return BusinessInvoice{}
	}
	return PersonalInvoice{}
}

// InvoiceFromKind восстанавливает стратегию из сохранённого значения.
func InvoiceFromKind(kind InvoiceKind) (InvoiceStrategy, error) {
	switch kind {
	case InvoiceBusiness:
		return BusinessInvoice{}, nil
	case InvoicePersonal:
		return PersonalInvoice{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown invoice kind %q", ErrInvalidArgument, kind)
	}
}

// BusinessInvoice - краткий счёт со ссылкой на бизнес-аккаунт без детализации.
type BusinessInvoice struct{}

func (BusinessInvoice) Kind() InvoiceKind { return InvoiceBusiness }

func (BusinessInvoice) SingleInvoice(order *Order) string {
	return fmt.Sprintf("Your business account has been charged: $%s"+
		"\nPlease see your %s merchandising representative for itemised details.",
		FormatMoney(order.TotalCost()), invoiceBrand)
}

func (BusinessInvoice) SubscriptionInvoice(order *Order) string {
	return fmt.Sprintf("Your business account will be charged: $%s each week, with a total overall cost of: $%s"+
		"\nPlease see your %s merchandising representative for itemised details.",
		FormatMoney(order.RecurringCost()), FormatMoney(order.TotalCost()), invoiceBrand)
}

// PersonalInvoice - детализированный счёт по каждой позиции.
type PersonalInvoice struct{}

func (PersonalInvoice) Kind() InvoiceKind { return InvoicePersonal }

func (PersonalInvoice) SingleInvoice(order *Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Thank you for your %s order!\n", invoiceBrand)
	fmt.Fprintf(&sb, "Your order comes to: $%s\n", FormatMoney(order.TotalCost()))
	sb.WriteString("Please see below for details:\n")
	writeInvoiceLines(&sb, order.Lines())
	return sb.String()
}

func (PersonalInvoice) SubscriptionInvoice(order *Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Thank you for your %s order!\n", invoiceBrand)
	fmt.Fprintf(&sb, "Your order comes to: $%s each week, with a total overall cost of: $%s\n",
		FormatMoney(order.RecurringCost()), FormatMoney(order.TotalCost()))
	sb.WriteString("Please see below for details:\n")
	writeInvoiceLines(&sb, order.Lines())
	return sb.String()
}

func writeInvoiceLines(sb *strings.Builder, lines []Line) {
	for _, line := range lines {
		fmt.Fprintf(sb, "\tProduct name: %s\tQty: %d\tCost per unit: $%s\tSubtotal: $%s\n",
			line.Product.Name(),
			line.Qty,
			FormatMoney(line.Product.Cost()),
			FormatMoney(line.Subtotal()))
	}
}

var (
	_ InvoiceStrategy = BusinessInvoice{}
	_ InvoiceStrategy = PersonalInvoice{}
)
