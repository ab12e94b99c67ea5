package domain

import (
	"fmt"
	"strings"
)

// ContactMethod - канал доставки счёта клиенту.
type ContactMethod string

const (
	ContactSMS           ContactMethod = "sms"
	ContactMail          ContactMethod = "mail"
	ContactEmail         ContactMethod = "email"
	ContactPhoneCall     ContactMethod = "phone_call"
	ContactMerchandiser  ContactMethod = "merchandiser"
	ContactCarrierPigeon ContactMethod = "carrier_pigeon"
)

// AllContactMethods перечисляет все известные каналы.
func AllContactMethods() []ContactMethod {
	return []ContactMethod{
		ContactSMS,
		ContactMail,
		ContactEmail,
		ContactPhoneCall,
		ContactMerchandiser,
		ContactCarrierPigeon,
	}
}

// DefaultContactPriority используется, когда клиент не передал свой порядок.
// SMS в порядок по умолчанию не входит.
func DefaultContactPriority() []ContactMethod {
	return []ContactMethod{
		ContactMerchandiser,
		ContactEmail,
		ContactCarrierPigeon,
		ContactMail,
		ContactPhoneCall,
	}
}

// Valid проверяет, что канал относится к поддерживаемым значениям.
func (m ContactMethod) Valid() bool {
	switch m {
	case ContactSMS, ContactMail, ContactEmail, ContactPhoneCall, ContactMerchandiser, ContactCarrierPigeon:
		return true
	default:
		return false
	}
}

// DisplayName возвращает человекочитаемое имя канала.
func (m ContactMethod) DisplayName() string {
	switch m {
	case ContactSMS:
		return "SMS"
	case ContactMail:
		return "Mail"
	case ContactEmail:
		return "Email"
	case ContactPhoneCall:
		return "Phone call"
	case ContactMerchandiser:
		return "Merchandiser"
	case ContactCarrierPigeon:
		return "Carrier Pigeon"
	default:
		return string(m)
	}
}

// ParseContactMethod распознаёт имя канала без учёта регистра.
// Пробелы, дефисы и подчёркивания между словами эквивалентны.
func ParseContactMethod(name string) (ContactMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(normalized)

	switch normalized {
	case "sms":
		return ContactSMS, nil
	case "mail":
		return ContactMail, nil
	case "email":
		return ContactEmail, nil
	case "phonecall":
		return ContactPhoneCall, nil
	case "merchandiser":
		return ContactMerchandiser, nil
	case "carrierpigeon":
		return ContactCarrierPigeon, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownContactMethod, name)
	}
}

// ParseContactPriority переводит список имён в каналы, пропуская неизвестные.
// Порядок и дубликаты сохраняются.
func ParseContactPriority(names []string) []ContactMethod {
	result := make([]ContactMethod, 0, len(names))
	for _, name := range names {
		method, err := ParseContactMethod(name)
		if err != nil {
			continue
		}
		result = append(result, method)
	}
	return result
}
