package contact

import (
	"slices"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

// channel описывает предикат доступности канала и извлечение реквизитов клиента.
type channel struct {
	available   func(c domain.Customer) bool
	destination func(c domain.Customer) []string
}

var channels = map[domain.ContactMethod]channel{
	domain.ContactSMS: {
		available:   func(c domain.Customer) bool { return c.Phone != "" },
		destination: func(c domain.Customer) []string { return []string{c.Phone} },
	},
	domain.ContactMail: {
		available:   domain.Customer.HasPostalAddress,
		destination: func(c domain.Customer) []string { return []string{c.Address, c.Suburb, c.State, c.Postcode} },
	},
	domain.ContactEmail: {
		available:   func(c domain.Customer) bool { return c.Email != "" },
		destination: func(c domain.Customer) []string { return []string{c.Email} },
	},
	domain.ContactPhoneCall: {
		available:   func(c domain.Customer) bool { return c.Phone != "" },
		destination: func(c domain.Customer) []string { return []string{c.Phone} },
	},
	domain.ContactMerchandiser: {
		available:   func(c domain.Customer) bool { return c.Merchandiser != "" && c.BusinessName != "" },
		destination: func(c domain.Customer) []string { return []string{c.Merchandiser, c.BusinessName} },
	},
	domain.ContactCarrierPigeon: {
		available:   func(c domain.Customer) bool { return c.PigeonCoopID != "" },
		destination: func(c domain.Customer) []string { return []string{c.PigeonCoopID} },
	},
}

// Available сообщает, хватает ли у клиента данных для канала.
func Available(customer domain.Customer, method domain.ContactMethod) bool {
	ch, ok := channels[method]
	return ok && ch.available(customer)
}

// KnownMethods возвращает отсортированные отображаемые имена всех каналов.
func KnownMethods() []string {
	names := make([]string, 0, len(channels))
	for _, method := range domain.AllContactMethods() {
		names = append(names, method.DisplayName())
	}
	slices.Sort(names)
	return names
}
