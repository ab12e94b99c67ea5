package session

import (
	"slices"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

// customerEntry - запись кеша: ID известен, данные подгружаются при первом обращении.
type customerEntry struct {
	loaded   bool
	customer domain.Customer
}

// customerCache запоминает список ID клиентов и лениво загружает их данные.
// Принадлежит одной сессии и защищается её мьютексом.
type customerCache struct {
	store   domain.CustomerStore
	entries map[int64]*customerEntry
}

func newCustomerCache(store domain.CustomerStore) *customerCache {
	return &customerCache{
		store:   store,
		entries: make(map[int64]*customerEntry),
	}
}

// ids загружает список клиентов при первом вызове и возвращает его по возрастанию.
func (c *customerCache) ids() ([]int64, error) {
	if len(c.entries) == 0 {
		ids, err := c.store.ListIDs()
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			c.entries[id] = &customerEntry{}
		}
	}

	result := make([]int64, 0, len(c.entries))
	for id := range c.entries {
		result = append(result, id)
	}
	slices.Sort(result)
	return result, nil
}

// contains проверяет, что клиент с таким ID существует.
func (c *customerCache) contains(id int64) (bool, error) {
	if _, err := c.ids(); err != nil {
		return false, err
	}
	_, ok := c.entries[id]
	return ok, nil
}

// get возвращает клиента, загружая его из хранилища при первом обращении.
func (c *customerCache) get(id int64) (domain.Customer, error) {
	ok, err := c.contains(id)
	if err != nil {
		return domain.Customer{}, err
	}
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}

	entry := c.entries[id]
	if !entry.loaded {
		customer, err := c.store.Get(id)
		if err != nil {
			return domain.Customer{}, err
		}
		entry.customer = customer
		entry.loaded = true
	}
	return entry.customer, nil
}
