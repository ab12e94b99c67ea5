package contact

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/erp/internal/domain"
	"github.com/vladislavdragonenkov/erp/internal/metrics"
)

func emailAndPhoneCustomer() domain.Customer {
	return domain.Customer{
		ID:        7,
		FirstName: "Joe",
		LastName:  "Bauers",
		Email:     "joe@example.com",
		Phone:     "+61 400 000 001",
	}
}

func TestDispatch_SkipsUnavailable(t *testing.T) {
	sender := NewMockSender()
	dispatcher := NewDispatcher(sender)

	method, ok := dispatcher.Dispatch(emailAndPhoneCustomer(), "invoice", []domain.ContactMethod{
		domain.ContactMail,
		domain.ContactEmail,
		domain.ContactSMS,
	})
	require.True(t, ok)
	require.Equal(t, domain.ContactEmail, method)

	delivery, ok := sender.Last()
	require.True(t, ok)
	require.Equal(t, domain.ContactEmail, delivery.Method)
	require.Equal(t, []string{"joe@example.com"}, delivery.Destination)
	require.Equal(t, "invoice", delivery.Invoice)
	require.Equal(t, 1, sender.Calls)
}

func TestDispatch_EmptyPriorityUsesDefault(t *testing.T) {
	sender := NewMockSender()
	dispatcher := NewDispatcher(sender)

	customer := emailAndPhoneCustomer()
	customer.Merchandiser = "Upgrayedd"
	customer.BusinessName = "Costco"

	method, ok := dispatcher.Dispatch(customer, "invoice", nil)
	require.True(t, ok)
	require.Equal(t, domain.ContactMerchandiser, method)

	// Только телефон: SMS в порядок по умолчанию не входит, поэтому звонок.
	method, ok = dispatcher.Dispatch(domain.Customer{ID: 8, Phone: "123"}, "invoice", []domain.ContactMethod{})
	require.True(t, ok)
	require.Equal(t, domain.ContactPhoneCall, method)
}

func TestDispatch_NoFallbackOutsideList(t *testing.T) {
	sender := NewMockSender()
	dispatcher := NewDispatcher(sender)

	_, ok := dispatcher.Dispatch(emailAndPhoneCustomer(), "invoice", []domain.ContactMethod{
		domain.ContactMail,
		domain.ContactCarrierPigeon,
	})
	require.False(t, ok)
	require.Zero(t, sender.Calls)
}

func TestDispatch_SMSLastInListDoesNotFail(t *testing.T) {
	dispatcher := NewDispatcher(NewMockSender())

	_, ok := dispatcher.Dispatch(domain.Customer{ID: 1, Email: "a@b.c"}, "invoice", []domain.ContactMethod{domain.ContactSMS})
	require.False(t, ok)
}

func TestDispatch_SendErrorFallsThrough(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewOrderMetricsWithRegisterer(reg)

	sender := NewMockSender()
	sender.Errs[domain.ContactEmail] = errors.New("smtp down")
	dispatcher := NewDispatcher(sender, WithMetrics(m))

	method, ok := dispatcher.Dispatch(emailAndPhoneCustomer(), "invoice", []domain.ContactMethod{
		domain.ContactEmail,
		domain.ContactSMS,
	})
	require.True(t, ok)
	require.Equal(t, domain.ContactSMS, method)
	require.Equal(t, 2, sender.Calls)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Equal(t, 1.0, counterValue(families, "erp_invoice_dispatch_total", "email", metrics.ResultError))
	require.Equal(t, 1.0, counterValue(families, "erp_invoice_dispatch_total", "sms", metrics.ResultOK))
}

func TestDispatch_PerMethodSender(t *testing.T) {
	fallback := NewMockSender()
	email := NewMockSender()
	dispatcher := NewDispatcher(fallback, WithSender(domain.ContactEmail, email))

	_, ok := dispatcher.Dispatch(emailAndPhoneCustomer(), "invoice", []domain.ContactMethod{domain.ContactEmail})
	require.True(t, ok)
	require.Equal(t, 1, email.Calls)
	require.Zero(t, fallback.Calls)
}

func TestDispatch_NoSenderConfigured(t *testing.T) {
	dispatcher := NewDispatcher(nil, WithSender(domain.ContactSMS, NewMockSender()))

	method, ok := dispatcher.Dispatch(emailAndPhoneCustomer(), "invoice", []domain.ContactMethod{
		domain.ContactEmail,
		domain.ContactSMS,
	})
	require.True(t, ok)
	require.Equal(t, domain.ContactSMS, method)
}

func TestDispatchNames(t *testing.T) {
	sender := NewMockSender()
	dispatcher := NewDispatcher(sender)

	customer := domain.Customer{ID: 3, PigeonCoopID: "coop-17", Phone: "555"}
	method, ok := dispatcher.DispatchNames(customer, "invoice", []string{"telegram", "Carrier Pigeon", "SMS"})
	require.True(t, ok)
	require.Equal(t, domain.ContactCarrierPigeon, method)

	// Список только из неизвестных имён после разбора пуст, берётся порядок по умолчанию.
	method, ok = dispatcher.DispatchNames(customer, "invoice", []string{"fax"})
	require.True(t, ok)
	require.Equal(t, domain.ContactCarrierPigeon, method)
}

func TestAvailable(t *testing.T) {
	customer := domain.Customer{Merchandiser: "Upgrayedd"}
	require.False(t, Available(customer, domain.ContactMerchandiser))

	customer.BusinessName = "Costco"
	require.True(t, Available(customer, domain.ContactMerchandiser))
	require.False(t, Available(customer, "fax"))
}

func TestKnownMethods(t *testing.T) {
	require.Equal(t, []string{"Carrier Pigeon", "Email", "Mail", "Merchandiser", "Phone call", "SMS"}, KnownMethods())
}

func counterValue(families []*dto.MetricFamily, name string, labels ...string) float64 {
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if matchLabels(metric.GetLabel(), labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(pairs []*dto.LabelPair, values []string) bool {
	if len(pairs) != len(values) {
		return false
	}
	for i, pair := range pairs {
		if pair.GetValue() != values[i] {
			return false
		}
	}
	return true
}
