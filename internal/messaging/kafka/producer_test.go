package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer, log.WithField("component", "kafka-producer-test"))

	mockProducer.ExpectSendMessageAndSucceed()

	event := NewInvoiceEvent(domain.Delivery{Method: domain.ContactEmail, CustomerID: 1}, time.Now())
	if err := producer.PublishEvent(TopicInvoiceDispatch, event.Key(), event); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer, nil)

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := NewInvoiceEvent(domain.Delivery{Method: domain.ContactEmail, CustomerID: 1}, time.Now())
	if err := producer.PublishEvent(TopicInvoiceDispatch, event.Key(), event); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewInvoiceEvent(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	destination := []string{"coop-17"}
	delivery := domain.Delivery{
		Method:      domain.ContactCarrierPigeon,
		CustomerID:  4,
		FirstName:   "Frito",
		LastName:    "Pendejo",
		Destination: destination,
		Invoice:     "Thank you",
	}

	event := NewInvoiceEvent(delivery, at)
	destination[0] = "mutated"

	if event.EventType != EventTypeInvoiceDispatched {
		t.Errorf("expected event type %s, got %s", EventTypeInvoiceDispatched, event.EventType)
	}
	if event.Recipient != "Frito Pendejo" {
		t.Errorf("unexpected recipient %q", event.Recipient)
	}
	if event.Destination[0] != "coop-17" {
		t.Error("destination must be copied")
	}
	if event.Key() != "4" {
		t.Errorf("unexpected key %q", event.Key())
	}
	if !event.Timestamp.Equal(at) {
		t.Errorf("unexpected timestamp %s", event.Timestamp)
	}
}

func TestInvoiceSender_PublishesEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	sender := NewInvoiceSender(NewProducerFromSync(mockProducer, nil), "")
	sender.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	mockProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != TopicInvoiceDispatch {
			t.Errorf("unexpected topic %s", msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "3" {
			t.Errorf("unexpected key %s", key)
		}
		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var event InvoiceEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return err
		}
		if event.Method != string(domain.ContactMerchandiser) || event.Invoice != "invoice text" {
			t.Errorf("unexpected event %+v", event)
		}
		if len(msg.Headers) != 2 || string(msg.Headers[1].Value) != string(domain.ContactMerchandiser) {
			t.Errorf("unexpected headers %+v", msg.Headers)
		}
		return nil
	})

	err := sender.Send(domain.Delivery{
		Method:      domain.ContactMerchandiser,
		CustomerID:  3,
		Destination: []string{"Upgrayedd"},
		Invoice:     "invoice text",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestInvoiceSender_PropagatesFailure(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	sender := NewInvoiceSender(NewProducerFromSync(mockProducer, nil), "custom.topic")

	mockProducer.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)

	if err := sender.Send(domain.Delivery{Method: domain.ContactCarrierPigeon, CustomerID: 4}); err == nil {
		t.Fatal("expected send error")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}
