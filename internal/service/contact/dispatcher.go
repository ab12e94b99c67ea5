package contact

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/erp/internal/domain"
	"github.com/vladislavdragonenkov/erp/internal/metrics"
)

// Options задаёт параметры Dispatcher.
type Options struct {
	Logger  *log.Entry
	Metrics *metrics.OrderMetrics
	Senders map[domain.ContactMethod]domain.InvoiceSender
}

// Option настраивает Dispatcher.
type Option func(*Options)

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithMetrics задаёт метрики доставки.
func WithMetrics(m *metrics.OrderMetrics) Option {
	return func(opts *Options) {
		opts.Metrics = m
	}
}

// WithSender переопределяет отправителя для конкретного канала.
func WithSender(method domain.ContactMethod, sender domain.InvoiceSender) Option {
	return func(opts *Options) {
		if opts.Senders == nil {
			opts.Senders = make(map[domain.ContactMethod]domain.InvoiceSender)
		}
		opts.Senders[method] = sender
	}
}

// Dispatcher выбирает канал доставки счёта по списку приоритетов.
type Dispatcher struct {
	fallback domain.InvoiceSender
	senders  map[domain.ContactMethod]domain.InvoiceSender
	logger   *log.Entry
	metrics  *metrics.OrderMetrics
}

// NewDispatcher создаёт диспетчер. sender используется для каналов,
// для которых не задан отдельный отправитель через WithSender.
func NewDispatcher(sender domain.InvoiceSender, options ...Option) *Dispatcher {
	var opts Options
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "contact-dispatcher")
	}

	return &Dispatcher{
		fallback: sender,
		senders:  opts.Senders,
		logger:   logger,
		metrics:  opts.Metrics,
	}
}

func (d *Dispatcher) senderFor(method domain.ContactMethod) domain.InvoiceSender {
	if sender, ok := d.senders[method]; ok && sender != nil {
		return sender
	}
	return d.fallback
}

// DispatchNames разбирает имена каналов без учёта регистра и вызывает Dispatch.
// Неизвестные имена пропускаются.
func (d *Dispatcher) DispatchNames(customer domain.Customer, invoice string, names []string) (domain.ContactMethod, bool) {
	return d.Dispatch(customer, invoice, domain.ParseContactPriority(names))
}

// Dispatch перебирает каналы в порядке priority и отправляет счёт через первый
// доступный. Каналы вне списка не используются. Пустой список заменяется
// DefaultContactPriority. Ошибка отправки переводит к следующему каналу.
func (d *Dispatcher) Dispatch(customer domain.Customer, invoice string, priority []domain.ContactMethod) (domain.ContactMethod, bool) {
	if len(priority) == 0 {
		priority = domain.DefaultContactPriority()
	}

	logger := d.logger.WithField("customer_id", customer.ID)
	for _, method := range priority {
		ch, ok := channels[method]
		if !ok || !ch.available(customer) {
			continue
		}

		sender := d.senderFor(method)
		if sender == nil {
			logger.WithField("method", method).Warn("no invoice sender configured for contact method")
			d.metrics.RecordDispatch(string(method), metrics.ResultError)
			continue
		}

		delivery := domain.Delivery{
			Method:      method,
			CustomerID:  customer.ID,
			FirstName:   customer.FirstName,
			LastName:    customer.LastName,
			Destination: ch.destination(customer),
			Invoice:     invoice,
		}
		if err := sender.Send(delivery); err != nil {
			logger.WithError(err).WithField("method", method).Warn("invoice send failed, trying next contact method")
			d.metrics.RecordDispatch(string(method), metrics.ResultError)
			continue
		}

		d.metrics.RecordDispatch(string(method), metrics.ResultOK)
		logger.WithField("method", method).Info("invoice dispatched")
		return method, true
	}

	d.metrics.RecordDispatchExhausted()
	logger.Warn("invoice was not dispatched: no requested contact method is available")
	return "", false
}
