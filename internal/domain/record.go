package domain

import (
	"fmt"
	"time"
)

// LineRecord - позиция заказа в хранимом виде.
type LineRecord struct {
	ProductKey ProductKey
	Qty        int
}

// OrderRecord - форма заказа для внешнего хранилища. Продукты хранятся ключами
// и восстанавливаются через каталог.
type OrderRecord struct {
	ID         int64
	CustomerID int64
	CreatedAt  time.Time
	Finalised  bool
	Kind       OrderKind
	Shipments  int
	Discount   DiscountPolicy
	Invoice    InvoiceKind
	Lines      []LineRecord
}

// Record возвращает хранимое представление заказа.
func (o *Order) Record() OrderRecord {
	lines := o.Lines()
	records := make([]LineRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, LineRecord{ProductKey: line.Product.Key(), Qty: line.Qty})
	}

	rec := OrderRecord{
		ID:         o.id,
		CustomerID: o.customerID,
		CreatedAt:  o.createdAt,
		Finalised:  o.finalised,
		Kind:       o.kind,
		Lines:      records,
	}
	if o.kind == OrderKindSubscription {
		rec.Shipments = o.shipments
	}
	if o.discount != nil {
		rec.Discount = o.discount.Policy()
	}
	if o.invoice != nil {
		rec.Invoice = o.invoice.Kind()
	}
	return rec
}

// RestoreOrder собирает агрегат из хранимой записи, разрешая продукты через каталог.
func RestoreOrder(rec OrderRecord, catalog ProductCatalog) (*Order, error) {
	discount, err := DiscountFromPolicy(rec.Discount)
	if err != nil {
		return nil, fmt.Errorf("restore order %d: %w", rec.ID, err)
	}
	invoice, err := InvoiceFromKind(rec.Invoice)
	if err != nil {
		return nil, fmt.Errorf("restore order %d: %w", rec.ID, err)
	}

	var order *Order
	switch rec.Kind {
	case OrderKindSubscription:
		order = NewSubscriptionOrder(rec.ID, rec.CustomerID, rec.CreatedAt, discount, invoice, rec.Shipments)
	case OrderKindSingle, "":
		order = NewOrder(rec.ID, rec.CustomerID, rec.CreatedAt, discount, invoice)
	default:
		return nil, fmt.Errorf("restore order %d: %w: unknown order kind %q", rec.ID, ErrInvalidArgument, rec.Kind)
	}

	for _, line := range rec.Lines {
		product, err := catalog.Get(line.ProductKey)
		if err != nil {
			return nil, fmt.Errorf("restore order %d line %s: %w", rec.ID, line.ProductKey, err)
		}
		if err := order.SetLine(product, line.Qty); err != nil {
			return nil, fmt.Errorf("restore order %d: %w", rec.ID, err)
		}
	}

	// Финализируем после заполнения позиций, иначе SetLine отклонит запись.
	if rec.Finalised {
		order.Finalise()
	}
	return order, nil
}
