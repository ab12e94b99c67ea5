package app

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/erp/internal/domain"
	"github.com/vladislavdragonenkov/erp/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/erp/internal/metrics"
	"github.com/vladislavdragonenkov/erp/internal/service/contact"
)

// kafkaChannels доставляются внешним потребителем топика счетов.
var kafkaChannels = []domain.ContactMethod{
	domain.ContactMerchandiser,
	domain.ContactCarrierPigeon,
}

// initKafkaProducer инициализирует Kafka producer если brokers не пустой.
// Ошибка подключения не фатальна: каналы остаются на логирующем отправителе.
func initKafkaProducer(brokers string, logger *log.Entry) *kafka.Producer {
	brokerList := splitBrokers(brokers)
	if len(brokerList) == 0 {
		return nil
	}

	producer, err := kafka.NewProducer(brokerList)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil
	}

	logger.WithField("brokers", brokerList).Info("kafka producer initialized")
	return producer
}

func splitBrokers(brokers string) []string {
	var out []string
	for _, broker := range strings.Split(brokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			out = append(out, broker)
		}
	}
	return out
}

// closeKafka закрывает Kafka producer если он не nil.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}

// newDispatcher собирает цепочку каналов: SMTP для Email, Kafka для
// мерчендайзера и голубиной почты, остальное логируется.
func newDispatcher(cfg Config, producer *kafka.Producer, m *metrics.OrderMetrics, logger *log.Entry) *contact.Dispatcher {
	options := []contact.Option{
		contact.WithLogger(logger.WithField("component", "contact-dispatcher")),
		contact.WithMetrics(m),
	}

	if strings.TrimSpace(cfg.SMTP.Host) != "" {
		options = append(options, contact.WithSender(domain.ContactEmail, contact.NewEmailSender(cfg.SMTP)))
		logger.WithField("smtp_host", cfg.SMTP.Host).Info("email channel uses smtp")
	}

	if producer != nil {
		sender := kafka.NewInvoiceSender(producer, cfg.KafkaInvoiceTopic)
		for _, method := range kafkaChannels {
			options = append(options, contact.WithSender(method, sender))
		}
	}

	return contact.NewDispatcher(contact.NewLogSender(logger.WithField("component", "invoice-log-sender")), options...)
}
