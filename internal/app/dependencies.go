package app

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/erp/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/erp/internal/metrics"
	"github.com/vladislavdragonenkov/erp/internal/service/auth"
	"github.com/vladislavdragonenkov/erp/internal/service/contact"
	"github.com/vladislavdragonenkov/erp/internal/service/session"
	"github.com/vladislavdragonenkov/erp/internal/storage/memory"
	"github.com/vladislavdragonenkov/erp/internal/storage/postgres"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Catalog    *memory.ProductCatalog
	Auth       *auth.MockService
	Dispatcher *contact.Dispatcher
	Metrics    *metrics.OrderMetrics
	Sessions   *session.Service

	storage  storageDependencies
	producer *kafka.Producer
	logger   *log.Entry
}

// NewDependencies создаёт и инициализирует все зависимости приложения.
// Каталог продуктов всегда держится в памяти: продукты восстанавливаются по ключу.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	catalog := memory.NewProductCatalog(memory.SeedProducts(memory.NewBlobStore())...)

	storage, err := initStorage(ctx, cfg, catalog, logger)
	if err != nil {
		return nil, err
	}

	authSvc := auth.NewMockService()
	if err := authSvc.AddUser(cfg.Username, cfg.Password); err != nil {
		closeStorage(storage, logger)
		return nil, fmt.Errorf("register user: %w", err)
	}

	orderMetrics := metrics.NewOrderMetrics()
	producer := initKafkaProducer(cfg.KafkaBrokers, logger)
	dispatcher := newDispatcher(cfg, producer, orderMetrics, logger)

	sessions := session.NewService(
		authSvc,
		storage.orders,
		storage.customers,
		catalog,
		dispatcher,
		session.WithLogger(logger.WithField("component", "order-session")),
		session.WithMetrics(orderMetrics),
	)

	return &Dependencies{
		Catalog:    catalog,
		Auth:       authSvc,
		Dispatcher: dispatcher,
		Metrics:    orderMetrics,
		Sessions:   sessions,
		storage:    storage,
		producer:   producer,
		logger:     logger,
	}, nil
}

// Postgres возвращает подключение к PostgreSQL или nil для хранилища в памяти.
func (d *Dependencies) Postgres() *postgres.Store {
	return d.storage.pg
}

// Close фиксирует журналы открытых сессий и освобождает внешние подключения.
func (d *Dependencies) Close() error {
	var errs []error
	if err := d.Sessions.LogoutAll(); err != nil {
		errs = append(errs, fmt.Errorf("logout sessions: %w", err))
	}
	closeKafka(d.producer, d.logger)
	closeStorage(d.storage, d.logger)
	return errors.Join(errs...)
}

func closeStorage(storage storageDependencies, logger *log.Entry) {
	if storage.pg == nil {
		return
	}
	if err := storage.pg.Close(); err != nil {
		logger.WithError(err).Warn("failed to close postgres store")
	}
}
