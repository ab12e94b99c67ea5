package domain

// BlobInterner дедуплицирует блоки данных продуктов по содержимому.
type BlobInterner interface {
	// Intern возвращает общий экземпляр блока с таким же содержимым; для nil - nil.
	Intern(data []float64) *Blob
}

// ProductCatalog - каталог продуктов только на чтение.
type ProductCatalog interface {
	// List возвращает все продукты каталога.
	List() ([]Product, error)
	// Get возвращает продукт по ключу или ErrProductNotFound.
	Get(key ProductKey) (Product, error)
}

// CustomerStore - источник данных о клиентах.
type CustomerStore interface {
	// ListIDs возвращает идентификаторы всех клиентов.
	ListIDs() ([]int64, error)
	// Get возвращает клиента или ErrCustomerNotFound.
	Get(id int64) (Customer, error)
}

// Token - непрозрачный токен сессии.
type Token string

// Authenticator выдаёт и отзывает токены сессий.
type Authenticator interface {
	// Login возвращает токен или ErrInvalidCredentials.
	Login(username, password string) (Token, error)
	// Logout отзывает токен.
	Logout(token Token) error
	// Valid проверяет, что токен выдан и не отозван.
	Valid(token Token) bool
}

// Delivery - данные для отправки счёта по конкретному каналу.
type Delivery struct {
	Method      ContactMethod
	CustomerID  int64
	FirstName   string
	LastName    string
	Destination []string
	Invoice     string
}

// InvoiceSender доставляет счёт клиенту по каналу из Delivery.Method.
type InvoiceSender interface {
	Send(delivery Delivery) error
}
