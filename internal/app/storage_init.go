package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/erp/internal/domain"
	"github.com/vladislavdragonenkov/erp/internal/storage/memory"
	"github.com/vladislavdragonenkov/erp/internal/storage/postgres"
)

type storageDependencies struct {
	orders    domain.OrderStore
	customers domain.CustomerStore
	pg        *postgres.Store
}

func initStorage(ctx context.Context, cfg Config, catalog domain.ProductCatalog, logger *log.Entry) (storageDependencies, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	if driver == "" {
		driver = StorageDriverMemory
	}

	switch driver {
	case StorageDriverMemory:
		logger.Info("storage driver: memory")
		return storageDependencies{
			orders:    memory.NewOrderStore(),
			customers: memory.NewCustomerStore(memory.SeedCustomers()...),
		}, nil
	case StorageDriverPostgres:
		return initPostgresStorage(ctx, cfg, catalog, logger)
	default:
		return storageDependencies{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func initPostgresStorage(ctx context.Context, cfg Config, catalog domain.ProductCatalog, logger *log.Entry) (storageDependencies, error) {
	dsn := strings.TrimSpace(cfg.PostgresDSN)
	if dsn == "" {
		return storageDependencies{}, errors.New("postgres storage requires a DSN")
	}

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		return storageDependencies{}, err
	}

	if cfg.PostgresAutoMigrate {
		if err := store.MigrateUp(ctx, 0); err != nil {
			_ = store.Close()
			return storageDependencies{}, fmt.Errorf("auto-migrate: %w", err)
		}
		logger.Info("postgres migrations applied")
	}

	customers := postgres.NewCustomerStore(store)
	if cfg.PostgresSeedCustomers {
		if err := customers.Upsert(ctx, memory.SeedCustomers()...); err != nil {
			_ = store.Close()
			return storageDependencies{}, fmt.Errorf("seed customers: %w", err)
		}
	}

	logger.Info("storage driver: postgres")
	return storageDependencies{
		orders:    postgres.NewOrderStore(store, catalog),
		customers: customers,
		pg:        store,
	}, nil
}
