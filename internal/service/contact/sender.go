package contact

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

// LogSender пишет счёт в лог вместо реальной доставки.
type LogSender struct {
	logger *log.Entry
}

// NewLogSender создаёт отправителя. nil logger заменяется логгером по умолчанию.
func NewLogSender(logger *log.Entry) *LogSender {
	if logger == nil {
		logger = log.WithField("component", "invoice-log-sender")
	}
	return &LogSender{logger: logger}
}

// Send логирует доставку и всегда завершается успешно.
func (s *LogSender) Send(delivery domain.Delivery) error {
	s.logger.WithFields(log.Fields{
		"method":      delivery.Method,
		"customer_id": delivery.CustomerID,
		"recipient":   strings.TrimSpace(delivery.FirstName + " " + delivery.LastName),
		"destination": strings.Join(delivery.Destination, ", "),
	}).Info(delivery.Invoice)
	return nil
}

// MockSender - конфигурируемая заглушка InvoiceSender для тестов.
type MockSender struct {
	mu sync.Mutex

	// Errs задаёт ошибку для конкретного канала.
	Errs map[domain.ContactMethod]error

	Deliveries []domain.Delivery
	Calls      int
}

// NewMockSender возвращает mock с успешной отправкой по всем каналам.
func NewMockSender() *MockSender {
	return &MockSender{Errs: make(map[domain.ContactMethod]error)}
}

// Send запоминает доставку и возвращает настроенную ошибку канала.
func (m *MockSender) Send(delivery domain.Delivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if err := m.Errs[delivery.Method]; err != nil {
		return err
	}
	m.Deliveries = append(m.Deliveries, delivery)
	return nil
}

// Last возвращает последнюю успешную доставку.
func (m *MockSender) Last() (domain.Delivery, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Deliveries) == 0 {
		return domain.Delivery{}, false
	}
	return m.Deliveries[len(m.Deliveries)-1], true
}

// errUnsupportedMethod возвращается отправителем, обслуживающим только часть каналов.
var errUnsupportedMethod = errors.New("contact method is not supported by sender")

func requireMethod(delivery domain.Delivery, method domain.ContactMethod) error {
	if delivery.Method != method {
		return fmt.Errorf("%w: %s", errUnsupportedMethod, delivery.Method)
	}
	return nil
}

var (
	_ domain.InvoiceSender = (*LogSender)(nil)
	_ domain.InvoiceSender = (*MockSender)(nil)
)
