// Package notify holds the single transient message shown to a shopper after
// an asynchronous action completes.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DefaultTTL is the dismissal delay used at every call site.
const DefaultTTL = 3 * time.Second

type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier is what components use to surface outcomes.
type Notifier interface {
	Show(message string, kind Kind) Notification
}

// Presenter holds at most one notification. A newer Show overwrites the
// current one; nothing is queued.
type Presenter struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notification
	timer   *time.Timer
}

func NewPresenter(ttl time.Duration) *Presenter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Presenter{ttl: ttl}
}

func (p *Presenter) Show(message string, kind Kind) Notification {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Kind:      kind,
		ExpiresAt: time.Now().Add(p.ttl),
	}
	p.stopTimer()
	p.current = &n

	id := n.ID
	p.timer = time.AfterFunc(p.ttl, func() { p.expire(id) })
	return n
}

// Dismiss removes the visible notification before its timeout.
func (p *Presenter) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopTimer()
	p.current = nil
}

// Current returns the visible notification, if any.
func (p *Presenter) Current() (Notification, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return Notification{}, false
	}
	return *p.current, true
}

// Close stops any pending dismissal timer.
func (p *Presenter) Close() {
	p.Dismiss()
}

// expire only clears the notification it was scheduled for; a superseded
// timer that already fired must not remove its successor.
func (p *Presenter) expire(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil && p.current.ID == id {
		p.current = nil
		p.timer = nil
	}
}

func (p *Presenter) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
