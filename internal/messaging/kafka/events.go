package kafka

import (
	"strconv"
	"time"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

// EventType определяет тип события
type EventType string

const (
	// EventTypeInvoiceDispatched - счёт передан в канал доставки.
	EventTypeInvoiceDispatched EventType = "invoice.dispatched"
)

// Topics для Kafka
const (
	TopicInvoiceDispatch = "erp.invoice.dispatch"
)

// Kafka headers
const (
	HeaderEventType     = "x-event-type"
	HeaderContactMethod = "x-contact-method"
)

// InvoiceEvent - сообщение для внешнего сервиса доставки счетов.
type InvoiceEvent struct {
	EventType   EventType `json:"event_type"`
	Method      string    `json:"method"`
	CustomerID  int64     `json:"customer_id"`
	Recipient   string    `json:"recipient"`
	Destination []string  `json:"destination"`
	Invoice     string    `json:"invoice"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewInvoiceEvent собирает событие из доставки.
func NewInvoiceEvent(delivery domain.Delivery, at time.Time) *InvoiceEvent {
	recipient := delivery.FirstName
	if delivery.LastName != "" {
		if recipient != "" {
			recipient += " "
		}
		recipient += delivery.LastName
	}
	return &InvoiceEvent{
		EventType:   EventTypeInvoiceDispatched,
		Method:      string(delivery.Method),
		CustomerID:  delivery.CustomerID,
		Recipient:   recipient,
		Destination: append([]string(nil), delivery.Destination...),
		Invoice:     delivery.Invoice,
		Timestamp:   at,
	}
}

// Key - ключ партиционирования: события одного клиента идут в одну партицию.
func (e *InvoiceEvent) Key() string {
	return strconv.FormatInt(e.CustomerID, 10)
}
