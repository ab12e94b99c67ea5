package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderKind различает разовый заказ и подписку.
type OrderKind string

const (
	// OrderKindSingle - разовый заказ.
	OrderKindSingle OrderKind = "single"
	// OrderKindSubscription - подписка с фиксированным числом отправок.
	OrderKindSubscription OrderKind = "subscription"
)

const notFinalisedMarker = "*NOT FINALISED*"

// Line - позиция заказа: продукт и количество.
type Line struct {
	Product Product
	Qty     int
}

// Subtotal - стоимость позиции без скидки.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Cost().Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Order - агрегат заказа. Стоимость считается привязанной стратегией скидки,
// текст счёта - стратегией счёта. После Finalise позиции менять нельзя.
type Order struct {
	id         int64
	customerID int64
	createdAt  time.Time
	kind       OrderKind
	shipments  int
	discount   DiscountStrategy
	invoice    InvoiceStrategy
	lines      map[ProductKey]Line
	finalised  bool
}

// NewOrder создаёт разовый заказ.
func NewOrder(id, customerID int64, createdAt time.Time, discount DiscountStrategy, invoice InvoiceStrategy) *Order {
	return &Order{
		id:         id,
		customerID: customerID,
		createdAt:  createdAt,
		kind:       OrderKindSingle,
		discount:   discount,
		invoice:    invoice,
		lines:      make(map[ProductKey]Line),
	}
}

// NewSubscriptionOrder создаёт подписку на shipments отправок.
func NewSubscriptionOrder(id, customerID int64, createdAt time.Time, discount DiscountStrategy, invoice InvoiceStrategy, shipments int) *Order {
	order := NewOrder(id, customerID, createdAt, discount, invoice)
	order.kind = OrderKindSubscription
	order.shipments = shipments
	return order
}

func (o *Order) ID() int64 {
	return o.id
}

func (o *Order) CustomerID() int64 {
	return o.customerID
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) Kind() OrderKind {
	return o.kind
}

func (o *Order) IsSubscription() bool {
	return o.kind == OrderKindSubscription
}

func (o *Order) Finalised() bool {
	return o.finalised
}

func (o *Order) Discount() DiscountStrategy {
	return o.discount
}

func (o *Order) Invoice() InvoiceStrategy {
	return o.invoice
}

// Shipments возвращает число отправок; для разового заказа - 1.
func (o *Order) Shipments() int {
	if o.kind != OrderKindSubscription {
		return 1
	}
	return o.shipments
}

// SetLine задаёт количество продукта. Продукты сопоставляются по значению, поэтому
// пересобранный из сети равный продукт перезаписывает существующую позицию.
// qty == 0 удаляет позицию.
func (o *Order) SetLine(product Product, qty int) error {
	if o.finalised {
		return fmt.Errorf("%w: order %d", ErrOrderFinalised, o.id)
	}
	if qty < 0 {
		return fmt.Errorf("%w: quantity %d must not be negative", ErrInvalidArgument, qty)
	}

	key := product.Key()
	if qty == 0 {
		delete(o.lines, key)
		return nil
	}
	if existing, ok := o.lines[key]; ok {
		// Сохраняем уже лежащий в заказе экземпляр продукта.
		product = existing.Product
	}
	o.lines[key] = Line{Product: product, Qty: qty}
	return nil
}

// Quantity возвращает количество продукта в заказе или 0.
func (o *Order) Quantity(product Product) int {
	return o.lines[product.Key()].Qty
}

// Lines возвращает позиции, отсортированные по (имя, цена).
func (o *Order) Lines() []Line {
	lines := slices.Collect(maps.Values(o.lines))
	slices.SortFunc(lines, func(a, b Line) int {
		return compareProducts(a.Product, b.Product)
	})
	return lines
}

// basketCost - стоимость одной отправки с учётом скидки.
func (o *Order) basketCost() decimal.Decimal {
	if o.discount == nil {
		return fullCost(o.Lines())
	}
	return o.discount.Cost(o.Lines())
}

// TotalCost - итоговая стоимость; для подписки умножается на число отправок.
func (o *Order) TotalCost() decimal.Decimal {
	cost := o.basketCost()
	if o.kind == OrderKindSubscription {
		cost = cost.Mul(decimal.NewFromInt(int64(o.shipments)))
	}
	return cost
}

// RecurringCost - стоимость одной отправки со скидкой. Для разового заказа совпадает с TotalCost.
func (o *Order) RecurringCost() decimal.Decimal {
	return o.basketCost()
}

// InvoiceText рендерит счёт стратегией, привязанной к заказу.
func (o *Order) InvoiceText() string {
	if o.invoice == nil {
		return ""
	}
	if o.kind == OrderKindSubscription {
		return o.invoice.SubscriptionInvoice(o)
	}
	return o.invoice.SingleInvoice(o)
}

// Finalise необратимо фиксирует заказ.
func (o *Order) Finalise() {
	o.finalised = true
}

// Copy возвращает независимую копию с теми же стратегиями и глубокой копией позиций.
func (o *Order) Copy() *Order {
	cp := *o
	cp.lines = maps.Clone(o.lines)
	if cp.lines == nil {
		cp.lines = make(map[ProductKey]Line)
	}
	return &cp
}

// ShortDescription - однострочное описание заказа.
func (o *Order) ShortDescription() string {
	var desc string
	if o.kind == OrderKindSubscription {
		desc = fmt.Sprintf("ID:%d $%s per shipment, $%s total",
			o.id, FormatMoney(o.RecurringCost()), FormatMoney(o.TotalCost()))
	} else {
		desc = fmt.Sprintf("ID:%d $%s", o.id, FormatMoney(o.TotalCost()))
	}
	if !o.finalised {
		desc += " " + notFinalisedMarker
	}
	return desc
}

// LongDescription - подробное описание с позициями, скидкой и итогами.
func (o *Order) LongDescription() string {
	lines := o.Lines()
	full := fullCost(lines)
	discounted := o.RecurringCost()

	var sb strings.Builder
	if !o.finalised {
		sb.WriteString(notFinalisedMarker + "\n")
	}
	fmt.Fprintf(&sb, "Order details (id #%d)\n", o.id)
	fmt.Fprintf(&sb, "Date: %s\n", o.createdAt.Format(time.DateOnly))
	if o.kind == OrderKindSubscription {
		fmt.Fprintf(&sb, "Number of shipments: %d\n", o.shipments)
	}
	sb.WriteString("Products:\n")
	for _, line := range lines {
		fmt.Fprintf(&sb, "\tProduct name: %s\tQty: %d\tUnit cost: $%s\tSubtotal: $%s\n",
			line.Product.Name(),
			line.Qty,
			FormatMoney(line.Product.Cost()),
			FormatMoney(line.Subtotal()))
	}
	fmt.Fprintf(&sb, "\tDiscount: -$%s\n", FormatMoney(full.Sub(discounted)))
	if o.kind == OrderKindSubscription {
		fmt.Fprintf(&sb, "Recurring cost: $%s\n", FormatMoney(discounted))
	}
	fmt.Fprintf(&sb, "Total cost: $%s\n", FormatMoney(o.TotalCost()))
	return sb.String()
}

func fullCost(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}
