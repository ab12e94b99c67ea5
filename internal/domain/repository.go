package domain

// OrderStore описывает хранилище зафиксированных заказов.
type OrderStore interface {
	// Get возвращает независимую копию заказа или ErrOrderNotFound.
	Get(id int64) (*Order, error)
	// Put сохраняет заказ, перезаписывая запись с тем же ID.
	Put(order *Order) error
	// Delete удаляет заказ. Возвращает ErrOrderNotFound, если записи нет.
	Delete(id int64) error
	// NextID выдаёт следующий свободный идентификатор заказа.
	NextID() (int64, error)
	// ListIDs возвращает идентификаторы всех сохранённых заказов по возрастанию.
	ListIDs() ([]int64, error)
}
