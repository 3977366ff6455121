// Package notify carries short user-facing messages ("toasts") from cart
// operations to whatever displays them.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

type Notifier interface {
	Notify(kind Kind, message string)
}

type Notification struct {
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Nop drops everything.
type Nop struct{}

func (Nop) Notify(Kind, string) {}

// Log writes notifications to a zap logger.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Notify(kind Kind, message string) {
	if l.Logger == nil {
		return
	}
	if kind == Error {
		l.Logger.Warn("cart notification", zap.String("kind", string(kind)), zap.String("message", message))
		return
	}
	l.Logger.Debug("cart notification", zap.String("kind", string(kind)), zap.String("message", message))
}

// Multi fans a notification out to every notifier.
type Multi []Notifier

func (m Multi) Notify(kind Kind, message string) {
	for _, n := range m {
		n.Notify(kind, message)
	}
}

// Queue buffers the most recent notifications until Drain is called.
// Once full the oldest entry is dropped.
type Queue struct {
	mu    sync.Mutex
	max   int
	items []Notification
	now   func() time.Time
}

func NewQueue(max int) *Queue {
	if max <= 0 {
		max = 10
	}
	return &Queue{max: max, now: time.Now}
}

func (q *Queue) Notify(kind Kind, message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == q.max {
		q.items = q.items[1:]
	}
	q.items = append(q.items, Notification{Kind: kind, Message: message, At: q.now()})
}

// Drain returns and removes everything queued so far.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// Recorder keeps every notification; handy in tests.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(kind Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Kind: kind, Message: message})
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
