package memory

import (
	"slices"
	"sync"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

// orderStoreInMemory - in-memory реализация OrderStore.
type orderStoreInMemory struct {
	mu     sync.RWMutex
	items  map[int64]*domain.Order
	lastID int64
}

// NewOrderStore возвращает in-memory хранилище для локальной разработки и тестов.
func NewOrderStore() domain.OrderStore {
	return &orderStoreInMemory{
		items: make(map[int64]*domain.Order),
	}
}

// Get возвращает копию заказа или ErrOrderNotFound.
func (s *orderStoreInMemory) Get(id int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.items[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order.Copy(), nil
}

// Put сохраняет копию заказа, перезаписывая запись с тем же ID.
func (s *orderStoreInMemory) Put(order *domain.Order) error {
	if order == nil {
		return domain.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Копия защищает хранилище от мутаций объекта сессией.
	s.items[order.ID()] = order.Copy()
	if order.ID() > s.lastID {
		s.lastID = order.ID()
	}
	return nil
}

// Delete удаляет заказ или возвращает ErrOrderNotFound.
func (s *orderStoreInMemory) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(s.items, id)
	return nil
}

// NextID выдаёт идентификаторы по возрастанию, не переиспользуя удалённые.
func (s *orderStoreInMemory) NextID() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	return s.lastID, nil
}

// ListIDs возвращает идентификаторы сохранённых заказов по возрастанию.
func (s *orderStoreInMemory) ListIDs() ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

var _ domain.OrderStore = (*orderStoreInMemory)(nil)
