package domain

import "errors"

var (
	// ErrAuthRequired возвращается, если у сессии нет действующего токена.
	ErrAuthRequired = errors.New("authentication required")
	// ErrInvalidCredentials - логин или пароль не подошли.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidArgument - некорректные входные параметры (процент скидки, клиент, тип скидки).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOrderFinalised - попытка изменить позиции уже финализированного заказа.
	ErrOrderFinalised = errors.New("order already finalised")
	// ErrOrderNotFound возвращается, если заказ не найден ни в сессии, ни в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrCustomerNotFound возвращается, если клиента с таким ID нет.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound возвращается каталогом, если ключ продукта неизвестен.
	ErrProductNotFound = errors.New("product not found")
	// ErrUnknownContactMethod - имя канала доставки не распознано.
	ErrUnknownContactMethod = errors.New("unknown contact method")
	// ErrSenderNotConfigured - для канала доставки не настроен отправитель.
	ErrSenderNotConfigured = errors.New("invoice sender is not configured")
)

// IsNotFound проверяет, является ли ошибка промахом поиска (заказ, клиент, продукт).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound)
}
