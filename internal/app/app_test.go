package app

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/erp/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/erp/internal/health"
	"github.com/vladislavdragonenkov/erp/internal/service/session"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.GRPCAddr = "127.0.0.1:0"
	cfg.MetricsAddr = "127.0.0.1:0"
	return cfg
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":50051", cfg.GRPCAddr)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.True(t, cfg.PostgresAutoMigrate)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.SMTP.Host)
	assert.NotEmpty(t, cfg.Username)
	assert.Positive(t, cfg.SessionReapInterval)
	assert.Greater(t, cfg.SessionIdleTTL, cfg.SessionReapInterval)
}

func TestNewDependencies_MemorySessionRoundTrip(t *testing.T) {
	cfg := testConfig()

	deps, err := NewDependencies(context.Background(), cfg, log.WithField("test", "memory-deps"))
	require.NoError(t, err)
	assert.Nil(t, deps.Postgres())

	sess, err := deps.Sessions.Login(cfg.Username, cfg.Password)
	require.NoError(t, err)

	orderID, err := sess.CreateOrder(session.CreateOrderParams{
		CustomerID:         1,
		Discount:           domain.DiscountFlatRate,
		DiscountPercentage: 20,
	})
	require.NoError(t, err)

	products, err := sess.AllProducts()
	require.NoError(t, err)
	require.NotEmpty(t, products)
	require.NoError(t, sess.SetOrderLine(orderID, products[0], 2))

	sent, err := sess.FinaliseOrder(orderID, []string{"email"})
	require.NoError(t, err)
	assert.True(t, sent)

	// Close фиксирует журнал открытой сессии.
	require.NoError(t, deps.Close())
	assert.Equal(t, 0, deps.Sessions.ActiveSessions())
	assert.False(t, deps.Auth.Valid(sess.Token()))

	again, err := NewDependencies(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer func() { _ = again.Close() }()
	_, err = again.Sessions.Login(cfg.Username, "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestNewDependencies_PostgresRequiresDSN(t *testing.T) {
	cfg := testConfig()
	cfg.StorageDriver = StorageDriverPostgres

	_, err := NewDependencies(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSN")
}

func TestNewDependencies_UnsupportedDriver(t *testing.T) {
	cfg := testConfig()
	cfg.StorageDriver = "sqlite"

	_, err := NewDependencies(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage driver")
}

func TestNewDependencies_PostgresSuccess(t *testing.T) {
	dsn := strings.TrimSpace(os.Getenv("ERP_POSTGRES_TEST_DSN"))
	if dsn == "" {
		t.Skip("postgres dsn is not available")
	}

	cfg := testConfig()
	cfg.StorageDriver = StorageDriverPostgres
	cfg.PostgresDSN = dsn

	deps, err := NewDependencies(context.Background(), cfg, log.WithField("test", "postgres-deps"))
	if err != nil {
		t.Skipf("postgres is not available for app integration test: %v", err)
	}
	defer func() { _ = deps.Close() }()

	require.NotNil(t, deps.Postgres())
	check := newHealthHandler(cfg, deps).Evaluate()
	assert.Equal(t, healthcheck.StatusHealthy, check.Status)
}

func TestSplitBrokers(t *testing.T) {
	assert.Nil(t, splitBrokers(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitBrokers(" a:9092 ,, b:9092 "))
	assert.Nil(t, initKafkaProducer(" , ", log.WithField("test", "kafka")))
}

func TestNewHealthHandler_SessionsCapacity(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSessions = 1

	deps, err := NewDependencies(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer func() { _ = deps.Close() }()

	handler := newHealthHandler(cfg, deps)
	assert.Equal(t, healthcheck.StatusHealthy, handler.Evaluate().Status)

	for range 2 {
		_, err := deps.Sessions.Login(cfg.Username, cfg.Password)
		require.NoError(t, err)
	}
	assert.Equal(t, healthcheck.StatusDegraded, handler.Evaluate().Status)
}

func TestRun_MemoryGracefulShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(150 * time.Millisecond)
		cancel()
	}()

	err := Run(ctx, testConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_InvalidStorageDriver(t *testing.T) {
	cfg := testConfig()
	cfg.StorageDriver = "invalid-driver"

	err := Run(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "unsupported storage driver") {
		t.Fatalf("expected unsupported storage driver error, got %v", err)
	}
}
