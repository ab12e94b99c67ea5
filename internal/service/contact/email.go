package contact

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

const invoiceSubject = "Your Brawndo© invoice"

// SMTPConfig - параметры SMTP-сервера для канала Email.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// EmailSender доставляет счёт письмом через SMTP. Обслуживает только канал Email.
type EmailSender struct {
	config SMTPConfig
	dial   func() (gomail.SendCloser, error)
}

// NewEmailSender создаёт отправителя поверх gomail.Dialer.
func NewEmailSender(config SMTPConfig) *EmailSender {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	return &EmailSender{
		config: config,
		dial:   dialer.Dial,
	}
}

// Send отправляет письмо на адрес из delivery.Destination.
func (s *EmailSender) Send(delivery domain.Delivery) error {
	if err := requireMethod(delivery, domain.ContactEmail); err != nil {
		return err
	}
	if len(delivery.Destination) == 0 || delivery.Destination[0] == "" {
		return fmt.Errorf("%w: empty email address", domain.ErrInvalidArgument)
	}

	conn, err := s.dial()
	if err != nil {
		return fmt.Errorf("failed to connect to smtp: %w", err)
	}
	defer conn.Close()

	if err := gomail.Send(conn, s.newMessage(delivery)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailSender) newMessage(delivery domain.Delivery) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetAddressHeader("To", delivery.Destination[0], strings.TrimSpace(delivery.FirstName+" "+delivery.LastName))
	m.SetHeader("Subject", invoiceSubject)
	m.SetBody("text/plain", delivery.Invoice)
	return m
}

var _ domain.InvoiceSender = (*EmailSender)(nil)
