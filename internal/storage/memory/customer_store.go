package memory

import (
	"slices"
	"sync"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

// customerStoreInMemory - in-memory справочник клиентов.
type customerStoreInMemory struct {
	mu    sync.RWMutex
	items map[int64]domain.Customer
}

// NewCustomerStore возвращает справочник, заполненный переданными клиентами.
func NewCustomerStore(customers ...domain.Customer) domain.CustomerStore {
	s := &customerStoreInMemory{items: make(map[int64]domain.Customer, len(customers))}
	for _, c := range customers {
		s.items[c.ID] = c
	}
	return s
}

// ListIDs возвращает идентификаторы клиентов по возрастанию.
func (s *customerStoreInMemory) ListIDs() ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Get возвращает клиента или ErrCustomerNotFound.
func (s *customerStoreInMemory) Get(id int64) (domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.items[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return c, nil
}

var _ domain.CustomerStore = (*customerStoreInMemory)(nil)
