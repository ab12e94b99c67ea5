package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Значения label result.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// OrderMetrics содержит метрики жизненного цикла заказов и сессий.
// Методы безопасно вызывать на nil.
type OrderMetrics struct {
	// Заказы
	ordersCreated   *prometheus.CounterVec
	ordersFinalised prometheus.Counter
	ordersRemoved   prometheus.Counter

	// Доставка счетов
	invoiceDispatch  *prometheus.CounterVec
	dispatchExhausts prometheus.Counter

	// Unit-of-Work
	commitEntries  *prometheus.CounterVec
	commitDuration prometheus.Histogram

	// Сессии
	activeSessions prometheus.Gauge
	sessionsReaped prometheus.Counter
}

// NewOrderMetrics создаёт метрики в DefaultRegisterer.
func NewOrderMetrics() *OrderMetrics {
	return NewOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewOrderMetricsWithRegisterer создаёт метрики в указанном registerer.
// Повторная регистрация возвращает уже существующие коллекторы.
func NewOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "erp_orders_created_total",
			Help: "Total number of orders created grouped by kind",
		}, []string{"kind"}),
		ordersFinalised: registerCounter(registerer, prometheus.CounterOpts{
			Name: "erp_orders_finalised_total",
			Help: "Total number of orders finalised",
		}),
		ordersRemoved: registerCounter(registerer, prometheus.CounterOpts{
			Name: "erp_orders_removed_total",
			Help: "Total number of orders removed",
		}),
		invoiceDispatch: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "erp_invoice_dispatch_total",
			Help: "Total number of invoice send attempts grouped by contact method and result",
		}, []string{"method", "result"}),
		dispatchExhausts: registerCounter(registerer, prometheus.CounterOpts{
			Name: "erp_invoice_dispatch_exhausted_total",
			Help: "Total number of dispatches where no requested contact method succeeded",
		}),
		commitEntries: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "erp_uow_commit_entries_total",
			Help: "Total number of unit-of-work entries committed grouped by state and result",
		}, []string{"state", "result"}),
		commitDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "erp_uow_commit_duration_seconds",
			Help:    "Duration of unit-of-work commits in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}),
		activeSessions: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "erp_active_sessions",
			Help: "Number of currently logged in sessions",
		}),
		sessionsReaped: registerCounter(registerer, prometheus.CounterOpts{
			Name: "erp_sessions_reaped_total",
			Help: "Total number of idle sessions logged out by the reaper",
		}),
	}
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *OrderMetrics) RecordOrderCreated(kind string) {
	if m == nil {
		return
	}
	m.ordersCreated.WithLabelValues(kind).Inc()
}

// RecordOrderFinalised увеличивает счётчик финализированных заказов.
func (m *OrderMetrics) RecordOrderFinalised() {
	if m == nil {
		return
	}
	m.ordersFinalised.Inc()
}

// RecordOrderRemoved увеличивает счётчик удалённых заказов.
func (m *OrderMetrics) RecordOrderRemoved() {
	if m == nil {
		return
	}
	m.ordersRemoved.Inc()
}

// RecordDispatch фиксирует попытку отправки счёта по каналу.
func (m *OrderMetrics) RecordDispatch(method string, result string) {
	if m == nil {
		return
	}
	m.invoiceDispatch.WithLabelValues(method, result).Inc()
}

// RecordDispatchExhausted фиксирует, что ни один запрошенный канал не сработал.
func (m *OrderMetrics) RecordDispatchExhausted() {
	if m == nil {
		return
	}
	m.dispatchExhausts.Inc()
}

// RecordCommitEntry фиксирует обработку одной записи Unit-of-Work.
func (m *OrderMetrics) RecordCommitEntry(state string, result string) {
	if m == nil {
		return
	}
	m.commitEntries.WithLabelValues(state, result).Inc()
}

// RecordCommitDuration записывает длительность commit.
func (m *OrderMetrics) RecordCommitDuration(duration time.Duration) {
	if m == nil {
		return
	}
	m.commitDuration.Observe(duration.Seconds())
}

// RecordSessionOpened увеличивает количество активных сессий.
func (m *OrderMetrics) RecordSessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// RecordSessionClosed уменьшает количество активных сессий.
func (m *OrderMetrics) RecordSessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

// RecordSessionReaped увеличивает счётчик сессий, закрытых по простою.
func (m *OrderMetrics) RecordSessionReaped() {
	if m == nil {
		return
	}
	m.sessionsReaped.Inc()
}
