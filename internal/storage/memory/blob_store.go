package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

// BlobStore - контентно-адресуемая таблица блоков данных продуктов.
// Таблица только пополняется: запись вставляется, если блока с таким хешем ещё нет.
type BlobStore struct {
	mu    sync.RWMutex
	items map[domain.BlobSum]*domain.Blob
}

// NewBlobStore создаёт пустую таблицу блоков.
func NewBlobStore() *BlobStore {
	return &BlobStore{items: make(map[domain.BlobSum]*domain.Blob)}
}

// Intern возвращает общий экземпляр блока с таким же содержимым.
func (s *BlobStore) Intern(data []float64) *domain.Blob {
	if data == nil {
		return nil
	}
	candidate := domain.NewBlob(data)
	sum := candidate.Sum()

	s.mu.RLock()
	blob, ok := s.items[sum]
	s.mu.RUnlock()
	if ok && blob.Equal(candidate) {
		return blob
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Другой писатель мог успеть вставить блок между RUnlock и Lock.
	if existing, ok := s.items[sum]; ok {
		if existing.Equal(candidate) {
			return existing
		}
		// Коллизия sha256: блок не разделяется.
		return candidate
	}
	s.items[sum] = candidate
	return candidate
}

// Len возвращает количество уникальных блоков.
func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

var _ domain.BlobInterner = (*BlobStore)(nil)
