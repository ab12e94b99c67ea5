package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Переменные окружения, переопределяющие DefaultConfig.
const (
	EnvGRPCAddr              = "ERP_GRPC_ADDR"
	EnvMetricsAddr           = "ERP_METRICS_ADDR"
	EnvStorageDriver         = "ERP_STORAGE_DRIVER"
	EnvPostgresDSN           = "ERP_POSTGRES_DSN"
	EnvPostgresAutoMigrate   = "ERP_POSTGRES_AUTO_MIGRATE"
	EnvPostgresSeedCustomers = "ERP_POSTGRES_SEED_CUSTOMERS"
	EnvKafkaBrokers          = "ERP_KAFKA_BROKERS"
	EnvKafkaInvoiceTopic     = "ERP_KAFKA_INVOICE_TOPIC"
	EnvSMTPHost              = "ERP_SMTP_HOST"
	EnvSMTPPort              = "ERP_SMTP_PORT"
	EnvSMTPUsername          = "ERP_SMTP_USERNAME"
	EnvSMTPPassword          = "ERP_SMTP_PASSWORD"
	EnvSMTPFrom              = "ERP_SMTP_FROM"
	EnvUsername              = "ERP_USERNAME"
	EnvPassword              = "ERP_PASSWORD"
	EnvSessionReapInterval   = "ERP_SESSION_REAP_INTERVAL"
	EnvSessionIdleTTL        = "ERP_SESSION_IDLE_TTL"
	EnvMaxSessions           = "ERP_MAX_SESSIONS"
)

// EnvLookup совместим с os.LookupEnv.
type EnvLookup func(key string) (string, bool)

// ConfigFromEnv накладывает переменные окружения на DefaultConfig.
// Некорректные значения не прерывают запуск: остаётся значение по умолчанию,
// а причина попадает в warnings.
func ConfigFromEnv(lookup EnvLookup) (Config, []string) {
	cfg := DefaultConfig()
	var warnings []string

	warn := func(key, raw string, err error) {
		warnings = append(warnings, fmt.Sprintf("%s=%q ignored: %v", key, raw, err))
	}
	str := func(key string, dst *string) {
		if raw, ok := lookup(key); ok && strings.TrimSpace(raw) != "" {
			*dst = strings.TrimSpace(raw)
		}
	}
	boolean := func(key string, dst *bool) {
		raw, ok := lookup(key)
		if !ok {
			return
		}
		value, err := parseBool(raw)
		if err != nil {
			warn(key, raw, err)
			return
		}
		*dst = value
	}
	positiveInt := func(key string, dst *int) {
		raw, ok := lookup(key)
		if !ok {
			return
		}
		value, err := parseInt(raw, func(v int) bool { return v > 0 }, "must be > 0")
		if err != nil {
			warn(key, raw, err)
			return
		}
		*dst = value
	}
	positiveDuration := func(key string, dst *time.Duration) {
		raw, ok := lookup(key)
		if !ok {
			return
		}
		value, err := parseDuration(raw, func(v time.Duration) bool { return v > 0 }, "must be > 0")
		if err != nil {
			warn(key, raw, err)
			return
		}
		*dst = value
	}

	str(EnvGRPCAddr, &cfg.GRPCAddr)
	str(EnvMetricsAddr, &cfg.MetricsAddr)
	str(EnvStorageDriver, &cfg.StorageDriver)
	cfg.StorageDriver = strings.ToLower(cfg.StorageDriver)
	str(EnvPostgresDSN, &cfg.PostgresDSN)
	boolean(EnvPostgresAutoMigrate, &cfg.PostgresAutoMigrate)
	boolean(EnvPostgresSeedCustomers, &cfg.PostgresSeedCustomers)
	str(EnvKafkaBrokers, &cfg.KafkaBrokers)
	str(EnvKafkaInvoiceTopic, &cfg.KafkaInvoiceTopic)
	str(EnvSMTPHost, &cfg.SMTP.Host)
	positiveInt(EnvSMTPPort, &cfg.SMTP.Port)
	str(EnvSMTPUsername, &cfg.SMTP.Username)
	str(EnvSMTPPassword, &cfg.SMTP.Password)
	str(EnvSMTPFrom, &cfg.SMTP.FromAddress)
	str(EnvUsername, &cfg.Username)
	str(EnvPassword, &cfg.Password)
	positiveDuration(EnvSessionReapInterval, &cfg.SessionReapInterval)
	positiveDuration(EnvSessionIdleTTL, &cfg.SessionIdleTTL)
	positiveInt(EnvMaxSessions, &cfg.MaxSessions)

	return cfg, warnings
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool value %q", raw)
	}
}

func parseInt(raw string, valid func(int) bool, rule string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if !valid(value) {
		return 0, fmt.Errorf("%d %s", value, rule)
	}
	return value, nil
}

func parseDuration(raw string, valid func(time.Duration) bool, rule string) (time.Duration, error) {
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if !valid(value) {
		return 0, fmt.Errorf("%s %s", value, rule)
	}
	return value, nil
}
