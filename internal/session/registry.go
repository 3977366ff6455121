// Package session owns the cart manager of every shopper session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/notify"
	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/fjod/go_cart/storefront/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Config struct {
	// IdleTTL is how long an untouched manager stays in memory.
	IdleTTL       time.Duration
	SweepInterval time.Duration
	// MaxNotifications bounds each session's pending toast queue.
	MaxNotifications int
}

func DefaultConfig() Config {
	return Config{
		IdleTTL:          30 * time.Minute,
		SweepInterval:    time.Minute,
		MaxNotifications: 10,
	}
}

// Session is one shopper's manager plus the notifications it produced since
// they were last drained.
type Session struct {
	ID            string
	Manager       *service.Manager
	Notifications *notify.Queue
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

type Registry struct {
	api  service.CartAPI
	ids  store.CartIDStore
	sink service.EventSink
	log  *zap.Logger
	cfg  Config
	now  func() time.Time

	sfg     singleflight.Group
	mu      sync.Mutex
	entries map[string]*entry

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewRegistry starts the idle sweep; call Close to stop it.
func NewRegistry(api service.CartAPI, ids store.CartIDStore, sink service.EventSink, cfg Config, log *zap.Logger) *Registry {
	def := DefaultConfig()
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = def.IdleTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = def.SweepInterval
	}
	if cfg.MaxNotifications <= 0 {
		cfg.MaxNotifications = def.MaxNotifications
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		api:     api,
		ids:     ids,
		sink:    sink,
		log:     log,
		cfg:     cfg,
		now:     time.Now,
		entries: make(map[string]*entry),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go r.sweepLoop()
	return r
}

// Session returns the session's manager, creating and initializing it on
// first use. Concurrent first requests share one initialization. When
// initialization fails the session is still returned together with the error
// so callers can render the failure; the next mutation retries.
func (r *Registry) Session(ctx context.Context, id string) (*Session, error) {
	if s := r.lookup(id); s != nil {
		return s, nil
	}

	type result struct {
		session *Session
		err     error
	}
	v, _, _ := r.sfg.Do(id, func() (interface{}, error) {
		if s := r.lookup(id); s != nil {
			return result{session: s}, nil
		}
		s := r.build(id)
		// Shared by every waiter, so one caller going away must not cancel it.
		err := s.Manager.Init(context.WithoutCancel(ctx))

		r.mu.Lock()
		r.entries[id] = &entry{session: s, lastSeen: r.now()}
		r.mu.Unlock()
		return result{session: s, err: err}, nil
	})
	res := v.(result)
	return res.session, res.err
}

func (r *Registry) build(id string) *Session {
	queue := notify.NewQueue(r.cfg.MaxNotifications)
	opts := []service.Option{
		service.WithSession(id),
		service.WithLogger(r.log),
		service.WithNotifier(notify.Multi{queue, notify.Log{Logger: r.log.With(zap.String("session", id))}}),
	}
	if r.sink != nil {
		opts = append(opts, service.WithEventSink(r.sink))
	}
	return &Session{
		ID:            id,
		Manager:       service.NewManager(r.api, store.SessionSlot(r.ids, id), opts...),
		Notifications: queue,
	}
}

func (r *Registry) lookup(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil
	}
	e.lastSeen = r.now()
	return e.session
}

// ForgetCart drops whatever a session remembers about cartID, typically
// after checkout converted it into an order. Unknown carts are ignored.
func (r *Registry) ForgetCart(ctx context.Context, cartID string) error {
	id, err := r.ids.SessionFor(ctx, cartID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup session of cart %s: %w", cartID, err)
	}

	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if ok {
		err = e.session.Manager.Forget(ctx)
	} else {
		err = r.ids.Delete(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("forget cart %s: %w", cartID, err)
	}
	r.log.Info("cart forgotten", zap.String("cart_id", cartID), zap.String("session", id))
	return nil
}

// Len reports how many managers are in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) sweepLoop() {
	defer close(r.done)
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.evictIdle()
		}
	}
}

// evictIdle drops managers idle for longer than IdleTTL. Busy managers stay.
func (r *Registry) evictIdle() int {
	cutoff := r.now().Add(-r.cfg.IdleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) && e.session.Manager.Pending() == 0 {
			delete(r.entries, id)
			evicted++
		}
	}
	if evicted > 0 {
		r.log.Debug("evicted idle sessions", zap.Int("count", evicted))
	}
	return evicted
}

func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		close(r.stop)
		<-r.done
	})
}
