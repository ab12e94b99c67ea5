package domain

// Customer - данные клиента, доступные ядру только на чтение.
// Пустая строка означает, что поле не заполнено и соответствующий канал недоступен.
type Customer struct {
	ID           int64
	FirstName    string
	LastName     string
	Phone        string
	Email        string
	Address      string
	Suburb       string
	State        string
	Postcode     string
	Merchandiser string
	BusinessName string
	PigeonCoopID string
}

// FullName склеивает имя и фамилию.
func (c Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// HasPostalAddress проверяет, что заполнены все части почтового адреса.
func (c Customer) HasPostalAddress() bool {
	return c.Address != "" && c.Suburb != "" && c.State != "" && c.Postcode != ""
}
