package session

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/erp/internal/domain"
	"github.com/vladislavdragonenkov/erp/internal/service/contact"
	"github.com/vladislavdragonenkov/erp/internal/service/uow"
)

// CreateOrderParams - параметры нового заказа.
type CreateOrderParams struct {
	CustomerID int64
	// Date - дата заказа; нулевое значение заменяется текущим временем.
	Date           time.Time
	IsBusiness     bool
	IsSubscription bool
	Discount       domain.DiscountKind
	// DiscountThreshold - порог количества для DiscountBulk.
	DiscountThreshold int
	// DiscountPercentage - процент скидки в диапазоне [0,100].
	DiscountPercentage int
	// Shipments - число отправок подписки.
	Shipments int
}

// Session - сессия пользователя. Все операции сериализуются мьютексом сессии
// и требуют действующего токена.
type Session struct {
	mu        sync.Mutex
	svc       *Service
	token     domain.Token
	username  string
	loggedOut bool

	work      *uow.UnitOfWork
	customers *customerCache

	lastActive atomic.Int64
	logger     *log.Entry
}

func newSession(svc *Service, token domain.Token, username string) *Session {
	logger := svc.logger.WithField("user", username)
	s := &Session{
		svc:       svc,
		token:     token,
		username:  username,
		work:      uow.New(svc.orders, uow.WithLogger(logger), uow.WithMetrics(svc.metrics)),
		customers: newCustomerCache(svc.customers),
		logger:    logger,
	}
	s.touch()
	return s
}

// Token возвращает токен сессии.
func (s *Session) Token() domain.Token {
	return s.token
}

// Username возвращает имя пользователя.
func (s *Session) Username() string {
	return s.username
}

// LastActive возвращает время последней операции.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(s.svc.clock().UnixNano())
}

// begin захватывает мьютекс сессии и проверяет токен. Вызывающий обязан вызвать s.mu.Unlock.
func (s *Session) begin() error {
	s.mu.Lock()
	if s.loggedOut || !s.svc.auth.Valid(s.token) {
		s.mu.Unlock()
		return domain.ErrAuthRequired
	}
	s.touch()
	return nil
}

// CreateOrder создаёт заказ и регистрирует его в журнале как новый.
func (s *Session) CreateOrder(params CreateOrderParams) (int64, error) {
	if err := s.begin(); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()

	discount, err := domain.NewDiscount(params.Discount, params.DiscountPercentage, params.DiscountThreshold)
	if err != nil {
		return 0, err
	}

	ok, err := s.customers.contains(params.CustomerID)
	if err != nil {
		return 0, fmt.Errorf("load customers: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: unknown customer %d", domain.ErrInvalidArgument, params.CustomerID)
	}
	if params.IsSubscription && params.Shipments <= 0 {
		return 0, fmt.Errorf("%w: subscription needs a positive number of shipments, got %d",
			domain.ErrInvalidArgument, params.Shipments)
	}

	id, err := s.svc.orders.NextID()
	if err != nil {
		return 0, fmt.Errorf("allocate order id: %w", err)
	}

	date := params.Date
	if date.IsZero() {
		date = s.svc.clock()
	}
	invoice := domain.NewInvoiceStrategy(params.IsBusiness)

	var order *domain.Order
	if params.IsSubscription {
		order = domain.NewSubscriptionOrder(id, params.CustomerID, date, discount, invoice, params.Shipments)
	} else {
		order = domain.NewOrder(id, params.CustomerID, date, discount, invoice)
	}
	s.work.RegisterNew(order)

	s.svc.metrics.RecordOrderCreated(string(order.Kind()))
	s.logger.WithFields(log.Fields{
		"order_id":    id,
		"customer_id": params.CustomerID,
		"kind":        order.Kind(),
	}).Debug("order created")
	return id, nil
}

// SetOrderLine задаёт количество продукта в заказе. Заказ из хранилища
// регистрируется в журнале как изменённый.
func (s *Session) SetOrderLine(orderID int64, product domain.Product, qty int) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	if order, ok := s.work.Lookup(orderID); ok {
		return order.SetLine(product, qty)
	}

	order, err := s.svc.orders.Get(orderID)
	if err != nil {
		return fmt.Errorf("load order %d: %w", orderID, err)
	}
	if err := order.SetLine(product, qty); err != nil {
		return err
	}
	s.work.RegisterDirty(order)
	return nil
}

// findOrder ищет заказ в журнале, затем в хранилище. fromStore сообщает,
// что заказ загружен из хранилища и журналу ещё не известен.
func (s *Session) findOrder(orderID int64) (order *domain.Order, fromStore bool, err error) {
	if order, ok := s.work.Lookup(orderID); ok {
		return order, false, nil
	}
	order, err = s.svc.orders.Get(orderID)
	if err != nil {
		return nil, false, err
	}
	return order, true, nil
}

// FindOrder возвращает копию заказа из журнала или хранилища.
func (s *Session) FindOrder(orderID int64) (*domain.Order, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	order, _, err := s.findOrder(orderID)
	if err != nil {
		return nil, err
	}
	return order.Copy(), nil
}

// OrderTotalCost возвращает итоговую стоимость заказа; для неизвестного заказа - ноль.
func (s *Session) OrderTotalCost(orderID int64) (decimal.Decimal, error) {
	if err := s.begin(); err != nil {
		return decimal.Zero, err
	}
	defer s.mu.Unlock()

	order, _, err := s.findOrder(orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return order.TotalCost(), nil
}

// FinaliseOrder финализирует заказ, формирует счёт и отправляет его по первому
// доступному каналу из priority. Результат - удалось ли доставить счёт.
func (s *Session) FinaliseOrder(orderID int64, priority []string) (bool, error) {
	if err := s.begin(); err != nil {
		return false, err
	}
	defer s.mu.Unlock()

	order, fromStore, err := s.findOrder(orderID)
	if err != nil {
		return false, fmt.Errorf("finalise order %d: %w", orderID, err)
	}

	customer, err := s.customers.get(order.CustomerID())
	if err != nil {
		return false, fmt.Errorf("finalise order %d: %w", orderID, err)
	}

	order.Finalise()
	if fromStore {
		s.work.RegisterDirty(order)
	}
	s.svc.metrics.RecordOrderFinalised()

	method, sent := s.svc.dispatcher.DispatchNames(customer, order.InvoiceText(), priority)
	s.logger.WithFields(log.Fields{
		"order_id": orderID,
		"method":   method,
		"sent":     sent,
	}).Info("order finalised")
	return sent, nil
}

// RemoveOrder помечает заказ из журнала удалённым или удаляет сохранённый заказ
// из хранилища сразу. false - заказа нет.
func (s *Session) RemoveOrder(orderID int64) (bool, error) {
	if err := s.begin(); err != nil {
		return false, err
	}
	defer s.mu.Unlock()

	if order, ok := s.work.Lookup(orderID); ok {
		s.work.RegisterDeleted(order)
		s.svc.metrics.RecordOrderRemoved()
		return true, nil
	}

	if err := s.svc.orders.Delete(orderID); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("remove order %d: %w", orderID, err)
	}
	s.svc.metrics.RecordOrderRemoved()
	return true, nil
}

// AllOrders возвращает ID сохранённых и новых заказов без помеченных на удаление.
func (s *Session) AllOrders() ([]int64, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	stored, err := s.svc.orders.ListIDs()
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	deleted := s.work.DeletedIDs()
	ids := make([]int64, 0, len(stored))
	for _, id := range append(stored, s.work.PendingNewIDs()...) {
		if _, skip := slices.BinarySearch(deleted, id); skip {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// AllCustomerIDs возвращает ID клиентов; список загружается один раз за сессию.
func (s *Session) AllCustomerIDs() ([]int64, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	return s.customers.ids()
}

// Customer возвращает клиента, загружая его данные при первом обращении.
func (s *Session) Customer(id int64) (domain.Customer, error) {
	if err := s.begin(); err != nil {
		return domain.Customer{}, err
	}
	defer s.mu.Unlock()

	return s.customers.get(id)
}

// AllProducts возвращает каталог продуктов.
func (s *Session) AllProducts() ([]domain.Product, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	return s.svc.catalog.List()
}

// OrderLongDesc возвращает подробное описание заказа; false - заказа нет.
func (s *Session) OrderLongDesc(orderID int64) (string, bool, error) {
	return s.describe(orderID, (*domain.Order).LongDescription)
}

// OrderShortDesc возвращает краткое описание заказа; false - заказа нет.
func (s *Session) OrderShortDesc(orderID int64) (string, bool, error) {
	return s.describe(orderID, (*domain.Order).ShortDescription)
}

func (s *Session) describe(orderID int64, render func(*domain.Order) string) (string, bool, error) {
	if err := s.begin(); err != nil {
		return "", false, err
	}
	defer s.mu.Unlock()

	order, _, err := s.findOrder(orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return render(order), true, nil
}

// KnownContactMethods возвращает отображаемые имена всех каналов доставки.
func (s *Session) KnownContactMethods() ([]string, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	return contact.KnownMethods(), nil
}

// PendingChanges возвращает количество записей в журнале сессии.
func (s *Session) PendingChanges() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.work.Len()
}

// Logout сохраняет журнал и отзывает токен. Если commit не удался, сессия
// остаётся открытой, а неудачные записи ждут повторного Logout.
func (s *Session) Logout() error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	if err := s.work.Commit(); err != nil {
		s.logger.WithError(err).Error("logout aborted: failed to commit orders")
		return fmt.Errorf("logout: %w", err)
	}
	if err := s.svc.auth.Logout(s.token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.loggedOut = true
	s.svc.forget(s.token)
	s.svc.metrics.RecordSessionClosed()
	s.logger.Info("session closed")
	return nil
}
