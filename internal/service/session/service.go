package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/erp/internal/domain"
	"github.com/vladislavdragonenkov/erp/internal/metrics"
)

// InvoiceDispatcher доставляет текст счёта клиенту по списку приоритетов каналов.
type InvoiceDispatcher interface {
	DispatchNames(customer domain.Customer, invoice string, names []string) (domain.ContactMethod, bool)
}

// Options задаёт параметры Service.
type Options struct {
	Logger  *log.Entry
	Metrics *metrics.OrderMetrics
	Clock   func() time.Time
}

// Option настраивает Service.
type Option func(*Options)

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithMetrics задаёт метрики заказов и сессий.
func WithMetrics(m *metrics.OrderMetrics) Option {
	return func(opts *Options) {
		opts.Metrics = m
	}
}

// WithClock подменяет источник времени.
func WithClock(clock func() time.Time) Option {
	return func(opts *Options) {
		opts.Clock = clock
	}
}

// Service выдаёт сессии и хранит общие зависимости. Каждая сессия владеет
// своим Unit-of-Work и кешем клиентов.
type Service struct {
	auth       domain.Authenticator
	orders     domain.OrderStore
	customers  domain.CustomerStore
	catalog    domain.ProductCatalog
	dispatcher InvoiceDispatcher

	logger  *log.Entry
	metrics *metrics.OrderMetrics
	clock   func() time.Time

	mu       sync.Mutex
	sessions map[domain.Token]*Session
}

// NewService собирает фасад поверх внешних зависимостей.
func NewService(
	auth domain.Authenticator,
	orders domain.OrderStore,
	customers domain.CustomerStore,
	catalog domain.ProductCatalog,
	dispatcher InvoiceDispatcher,
	options ...Option,
) *Service {
	var opts Options
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "order-session")
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		auth:       auth,
		orders:     orders,
		customers:  customers,
		catalog:    catalog,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    opts.Metrics,
		clock:      clock,
		sessions:   make(map[domain.Token]*Session),
	}
}

// Login аутентифицирует пользователя и открывает новую сессию.
func (s *Service) Login(username, password string) (*Session, error) {
	token, err := s.auth.Login(username, password)
	if err != nil {
		return nil, fmt.Errorf("login %q: %w", username, err)
	}

	session := newSession(s, token, username)

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	s.metrics.RecordSessionOpened()
	session.logger.Info("session opened")
	return session, nil
}

// ActiveSessions возвращает количество открытых сессий.
func (s *Service) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// LogoutIdle закрывает сессии, неактивные с момента before. Сессии, чей
// commit не удался, остаются открытыми; ошибки объединяются.
func (s *Service) LogoutIdle(before time.Time) (int, error) {
	closed, err := s.logoutMatching(func(session *Session) bool {
		return session.LastActive().Before(before)
	})
	for range closed {
		s.metrics.RecordSessionReaped()
	}
	return closed, err
}

// LogoutAll закрывает все открытые сессии.
func (s *Service) LogoutAll() error {
	_, err := s.logoutMatching(func(*Session) bool { return true })
	return err
}

func (s *Service) logoutMatching(match func(*Session) bool) (int, error) {
	s.mu.Lock()
	selected := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		if match(session) {
			selected = append(selected, session)
		}
	}
	s.mu.Unlock()

	// Logout берёт мьютекс сессии и затем s.mu, поэтому вызывается без s.mu.
	closed := 0
	var errs []error
	for _, session := range selected {
		if err := session.Logout(); err != nil {
			if errors.Is(err, domain.ErrAuthRequired) {
				// Токен отозван в обход сессии: журнал сохранить уже нельзя.
				if s.forget(session.Token()) {
					session.logger.Warn("dropped session with revoked token")
					s.metrics.RecordSessionClosed()
				}
				continue
			}
			errs = append(errs, err)
			continue
		}
		closed++
	}
	return closed, errors.Join(errs...)
}

func (s *Service) forget(token domain.Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[token]
	delete(s.sessions, token)
	return ok
}
