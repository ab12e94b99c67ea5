package app

import (
	"time"

	"github.com/vladislavdragonenkov/erp/internal/service/contact"
)

const (
	// StorageDriverMemory хранит заказы и клиентов в памяти процесса.
	StorageDriverMemory = "memory"
	// StorageDriverPostgres хранит заказы и клиентов в PostgreSQL.
	StorageDriverPostgres = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	GRPCAddr    string
	MetricsAddr string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool
	// PostgresSeedCustomers загружает демо-клиентов в пустую или существующую таблицу.
	PostgresSeedCustomers bool

	// KafkaBrokers - список брокеров через запятую; пустая строка отключает Kafka.
	KafkaBrokers      string
	KafkaInvoiceTopic string

	// SMTP.Host пустой - письма только логируются.
	SMTP contact.SMTPConfig

	// Учётная запись, которую принимает встроенный аутентификатор.
	Username string
	Password string

	SessionReapInterval time.Duration
	SessionIdleTTL      time.Duration
	// MaxSessions - порог, после которого /healthz отмечает сессии как degraded.
	MaxSessions int
}

// DefaultConfig возвращает конфигурацию для локального запуска.
func DefaultConfig() Config {
	return Config{
		GRPCAddr:              ":50051",
		MetricsAddr:           ":9090",
		StorageDriver:         StorageDriverMemory,
		PostgresAutoMigrate:   true,
		PostgresSeedCustomers: true,
		KafkaInvoiceTopic:     "erp.invoice.dispatch",
		SMTP: contact.SMTPConfig{
			Port:        587,
			FromAddress: "invoices@brawndo.example",
			FromName:    "Brawndo Invoices",
		},
		Username:            "clerk",
		Password:            "clerk",
		SessionReapInterval: time.Minute,
		SessionIdleTTL:      30 * time.Minute,
		MaxSessions:         100,
	}
}
