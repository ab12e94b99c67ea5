package kafka

import (
	"time"

	"github.com/IBM/sarama"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

// InvoiceSender публикует счета в Kafka для каналов без прямой интеграции
// (мерчендайзер, голубиная почта): доставку выполняет внешний потребитель топика.
type InvoiceSender struct {
	producer *Producer
	topic    string
	now      func() time.Time
}

// NewInvoiceSender создаёт отправителя. Пустой topic заменяется TopicInvoiceDispatch.
func NewInvoiceSender(producer *Producer, topic string) *InvoiceSender {
	if topic == "" {
		topic = TopicInvoiceDispatch
	}
	return &InvoiceSender{producer: producer, topic: topic, now: time.Now}
}

// Send публикует InvoiceEvent с ключом по клиенту.
func (s *InvoiceSender) Send(delivery domain.Delivery) error {
	event := NewInvoiceEvent(delivery, s.now().UTC())
	return s.producer.PublishEvent(s.topic, event.Key(), event,
		sarama.RecordHeader{Key: []byte(HeaderEventType), Value: []byte(event.EventType)},
		sarama.RecordHeader{Key: []byte(HeaderContactMethod), Value: []byte(event.Method)},
	)
}

var _ domain.InvoiceSender = (*InvoiceSender)(nil)
