package contact

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

type fakeSMTP struct {
	from   string
	to     []string
	body   bytes.Buffer
	closed bool
	err    error
}

func (f *fakeSMTP) Send(from string, to []string, msg io.WriterTo) error {
	if f.err != nil {
		return f.err
	}
	f.from = from
	f.to = to
	_, err := msg.WriteTo(&f.body)
	return err
}

func (f *fakeSMTP) Close() error {
	f.closed = true
	return nil
}

func newTestEmailSender(conn *fakeSMTP) *EmailSender {
	sender := NewEmailSender(SMTPConfig{
		Host:        "localhost",
		Port:        2525,
		FromAddress: "billing@brawndo.example",
		FromName:    "Brawndo Billing",
	})
	sender.dial = func() (gomail.SendCloser, error) { return conn, nil }
	return sender
}

func TestEmailSender_Send(t *testing.T) {
	conn := &fakeSMTP{}
	sender := newTestEmailSender(conn)

	err := sender.Send(domain.Delivery{
		Method:      domain.ContactEmail,
		CustomerID:  1,
		FirstName:   "Joe",
		LastName:    "Bauers",
		Destination: []string{"joe@example.com"},
		Invoice:     "Your order comes to: $24.00",
	})
	require.NoError(t, err)
	require.True(t, conn.closed)
	require.Equal(t, "billing@brawndo.example", conn.from)
	require.Equal(t, []string{"joe@example.com"}, conn.to)
	require.Contains(t, conn.body.String(), "Your order comes to: $24.00")
	require.Contains(t, conn.body.String(), "Subject:")
}

func TestEmailSender_RejectsOtherMethods(t *testing.T) {
	conn := &fakeSMTP{}
	sender := newTestEmailSender(conn)

	err := sender.Send(domain.Delivery{Method: domain.ContactSMS, Destination: []string{"555"}})
	require.ErrorIs(t, err, errUnsupportedMethod)
	require.False(t, conn.closed)
}

func TestEmailSender_SendError(t *testing.T) {
	conn := &fakeSMTP{err: errors.New("relay denied")}
	sender := newTestEmailSender(conn)

	err := sender.Send(domain.Delivery{Method: domain.ContactEmail, Destination: []string{"joe@example.com"}})
	require.Error(t, err)
	require.True(t, conn.closed)
}

func TestLogSender(t *testing.T) {
	require.NoError(t, NewLogSender(nil).Send(domain.Delivery{Method: domain.ContactMail, Invoice: "text"}))
}
