package auth

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

// MockService - in-memory Authenticator с bcrypt-хешами паролей.
// Подходит для локального запуска и тестов.
type MockService struct {
	mu     sync.RWMutex
	users  map[string][]byte
	tokens map[domain.Token]string

	LoginCalls  int
	LogoutCalls int
}

// NewMockService возвращает сервис без пользователей.
func NewMockService() *MockService {
	return &MockService{
		users:  make(map[string][]byte),
		tokens: make(map[domain.Token]string),
	}
}

// AddUser регистрирует пользователя, сохраняя bcrypt-хеш пароля.
func (m *MockService) AddUser(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[username] = hash
	return nil
}

// Login сверяет пароль с хешем и выдаёт новый токен.
func (m *MockService) Login(username, password string) (domain.Token, error) {
	m.mu.Lock()
	m.LoginCalls++
	hash, ok := m.users[username]
	m.mu.Unlock()

	if !ok {
		return "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token := domain.Token(uuid.NewString())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = username
	return token, nil
}

// Logout отзывает токен. Повторный вызов не считается ошибкой.
func (m *MockService) Logout(token domain.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LogoutCalls++
	delete(m.tokens, token)
	return nil
}

// Valid проверяет, что токен выдан и не отозван.
func (m *MockService) Valid(token domain.Token) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.tokens[token]
	return ok
}

var _ domain.Authenticator = (*MockService)(nil)
