package uow

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/erp/internal/domain"
	"github.com/vladislavdragonenkov/erp/internal/metrics"
)

// State - состояние заказа в журнале.
type State string

const (
	// StateNew - заказ создан в сессии и ещё не сохранён.
	StateNew State = "new"
	// StateDirty - сохранённый заказ изменён в сессии.
	StateDirty State = "dirty"
	// StateClean - заказ совпадает с сохранённым.
	StateClean State = "clean"
	// StateDeleted - заказ помечен на удаление.
	StateDeleted State = "deleted"
)

type entry struct {
	order *domain.Order
	state State
}

// Options задаёт параметры UnitOfWork.
type Options struct {
	Logger  *log.Entry
	Metrics *metrics.OrderMetrics
}

// Option настраивает UnitOfWork.
type Option func(*Options)

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithMetrics задаёт метрики commit.
func WithMetrics(m *metrics.OrderMetrics) Option {
	return func(opts *Options) {
		opts.Metrics = m
	}
}

// UnitOfWork - журнал отложенных изменений заказов одной сессии.
// Не потокобезопасен: владелец сериализует вызовы.
type UnitOfWork struct {
	store   domain.OrderStore
	entries map[int64]entry
	logger  *log.Entry
	metrics *metrics.OrderMetrics
}

// New создаёт пустой журнал поверх store.
func New(store domain.OrderStore, options ...Option) *UnitOfWork {
	var opts Options
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "order-uow")
	}

	return &UnitOfWork{
		store:   store,
		entries: make(map[int64]entry),
		logger:  logger,
		metrics: opts.Metrics,
	}
}

func (u *UnitOfWork) register(order *domain.Order, state State) {
	if order == nil {
		return
	}
	// Повторная регистрация перезаписывает состояние.
	u.entries[order.ID()] = entry{order: order, state: state}
}

// RegisterNew отмечает заказ как созданный в сессии.
func (u *UnitOfWork) RegisterNew(order *domain.Order) { u.register(order, StateNew) }

// RegisterDirty отмечает сохранённый заказ как изменённый.
func (u *UnitOfWork) RegisterDirty(order *domain.Order) { u.register(order, StateDirty) }

// RegisterClean отмечает заказ как совпадающий с хранилищем.
func (u *UnitOfWork) RegisterClean(order *domain.Order) { u.register(order, StateClean) }

// RegisterDeleted помечает заказ на удаление.
func (u *UnitOfWork) RegisterDeleted(order *domain.Order) { u.register(order, StateDeleted) }

// Lookup возвращает заказ только в состояниях new и dirty. Для остальных
// вызывающий сам обращается к хранилищу.
func (u *UnitOfWork) Lookup(id int64) (*domain.Order, bool) {
	e, ok := u.entries[id]
	if !ok || (e.state != StateNew && e.state != StateDirty) {
		return nil, false
	}
	return e.order, true
}

// State возвращает состояние заказа в журнале.
func (u *UnitOfWork) State(id int64) (State, bool) {
	e, ok := u.entries[id]
	return e.state, ok
}

// PendingNewIDs возвращает ID несохранённых новых заказов по возрастанию.
func (u *UnitOfWork) PendingNewIDs() []int64 {
	return u.idsIn(StateNew)
}

// DeletedIDs возвращает ID заказов, помеченных на удаление.
func (u *UnitOfWork) DeletedIDs() []int64 {
	return u.idsIn(StateDeleted)
}

func (u *UnitOfWork) idsIn(state State) []int64 {
	ids := make([]int64, 0)
	for id, e := range u.entries {
		if e.state == state {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Len возвращает количество записей в журнале.
func (u *UnitOfWork) Len() int {
	return len(u.entries)
}

// Commit переносит журнал в хранилище по возрастанию ID: new → Put,
// dirty → Delete + Put, deleted → Delete, если запись есть в хранилище.
// Успешно обработанные записи удаляются из журнала, неудачные остаются
// для повторного Commit, их ошибки объединяются.
func (u *UnitOfWork) Commit() error {
	started := time.Now()
	defer func() {
		u.metrics.RecordCommitDuration(time.Since(started))
	}()

	ids := slices.Sorted(maps.Keys(u.entries))
	var errs []error
	for _, id := range ids {
		e := u.entries[id]
		if err := u.commitEntry(id, e); err != nil {
			u.metrics.RecordCommitEntry(string(e.state), metrics.ResultError)
			u.logger.WithError(err).WithFields(log.Fields{
				"order_id": id,
				"state":    e.state,
			}).Warn("failed to commit order, entry kept in journal")
			errs = append(errs, fmt.Errorf("commit order %d (%s): %w", id, e.state, err))
			continue
		}
		u.metrics.RecordCommitEntry(string(e.state), metrics.ResultOK)
		delete(u.entries, id)
	}

	if len(errs) == 0 && len(ids) > 0 {
		u.logger.WithField("entries", len(ids)).Debug("unit of work committed")
	}
	return errors.Join(errs...)
}

func (u *UnitOfWork) commitEntry(id int64, e entry) error {
	switch e.state {
	case StateNew:
		return u.store.Put(e.order)
	case StateDirty:
		if err := u.store.Delete(id); err != nil && !errors.Is(err, domain.ErrOrderNotFound) {
			return err
		}
		return u.store.Put(e.order)
	case StateDeleted:
		if _, err := u.store.Get(id); err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) {
				// Заказ не доходил до хранилища.
				return nil
			}
			return err
		}
		if err := u.store.Delete(id); err != nil && !errors.Is(err, domain.ErrOrderNotFound) {
			return err
		}
		return nil
	default:
		return nil
	}
}
