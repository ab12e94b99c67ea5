package memory

import (
	"slices"
	"sync"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

// ProductCatalog - in-memory каталог продуктов только на чтение.
type ProductCatalog struct {
	mu    sync.RWMutex
	order []domain.ProductKey
	items map[domain.ProductKey]domain.Product
}

// NewProductCatalog собирает каталог из готовых продуктов. Дубликаты по значению
// схлопываются в одну запись.
func NewProductCatalog(products ...domain.Product) *ProductCatalog {
	c := &ProductCatalog{items: make(map[domain.ProductKey]domain.Product, len(products))}
	for _, p := range products {
		c.add(p)
	}
	return c
}

func (c *ProductCatalog) add(p domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[p.Key()]; exists {
		return
	}
	c.items[p.Key()] = p
	c.order = append(c.order, p.Key())
}

// List возвращает продукты в порядке добавления.
func (c *ProductCatalog) List() ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]domain.Product, 0, len(c.order))
	for _, key := range c.order {
		result = append(result, c.items[key])
	}
	return result, nil
}

// Get возвращает продукт по ключу или ErrProductNotFound.
func (c *ProductCatalog) Get(key domain.ProductKey) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.items[key]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

// Keys возвращает ключи продуктов в порядке добавления.
func (c *ProductCatalog) Keys() []domain.ProductKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.order)
}

var _ domain.ProductCatalog = (*ProductCatalog)(nil)
