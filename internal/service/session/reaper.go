package session

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

const (
	defaultReapInterval = time.Minute
	defaultIdleTTL      = 30 * time.Minute
)

var sessionReaperRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "erp_session_reaper_runs_total",
	Help: "Total number of idle session reaper runs grouped by result.",
}, []string{"result"})

// ReaperOptions задаёт параметры воркера закрытия неактивных сессий.
type ReaperOptions struct {
	Logger   *log.Entry
	Interval time.Duration
	IdleTTL  time.Duration
}

// ReaperOption настраивает Reaper.
type ReaperOption func(*ReaperOptions)

// WithReaperLogger задаёт logger для воркера.
func WithReaperLogger(logger *log.Entry) ReaperOption {
	return func(opts *ReaperOptions) {
		opts.Logger = logger
	}
}

// WithReapInterval задаёт интервал между проходами.
func WithReapInterval(interval time.Duration) ReaperOption {
	return func(opts *ReaperOptions) {
		opts.Interval = interval
	}
}

// WithIdleTTL задаёт время простоя, после которого сессия закрывается.
func WithIdleTTL(ttl time.Duration) ReaperOption {
	return func(opts *ReaperOptions) {
		opts.IdleTTL = ttl
	}
}

// Reaper периодически закрывает неактивные сессии, сохраняя их журналы.
type Reaper struct {
	svc      *Service
	logger   *log.Entry
	interval time.Duration
	idleTTL  time.Duration
}

// NewReaper создаёт воркер закрытия сессий.
func NewReaper(svc *Service, options ...ReaperOption) *Reaper {
	opts := ReaperOptions{
		Interval: defaultReapInterval,
		IdleTTL:  defaultIdleTTL,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "session-reaper")
	}

	if opts.Interval <= 0 {
		opts.Interval = defaultReapInterval
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultIdleTTL
	}

	return &Reaper{
		svc:      svc,
		logger:   logger,
		interval: opts.Interval,
		idleTTL:  opts.IdleTTL,
	}
}

// Run запускает периодические проходы до отмены ctx.
func (r *Reaper) Run(ctx context.Context) {
	if r.svc == nil {
		r.logger.Warn("session reaper is disabled: service is nil")
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Reap(r.svc.clock())
		}
	}
}

// Reap закрывает сессии, неактивные дольше idleTTL относительно now.
func (r *Reaper) Reap(now time.Time) int {
	closed, err := r.svc.LogoutIdle(now.Add(-r.idleTTL))
	if err != nil {
		sessionReaperRunsTotal.WithLabelValues("error").Inc()
		r.logger.WithError(err).Warn("session reaper run finished with errors")
		return closed
	}

	sessionReaperRunsTotal.WithLabelValues("ok").Inc()
	if closed > 0 {
		r.logger.WithField("closed", closed).Info("idle sessions closed")
	}
	return closed
}
