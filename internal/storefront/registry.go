// Package storefront holds the live per-session state of the shop: the cart
// controller, the notification slot and the checkout in progress.
package storefront

import (
	"sync"
	"time"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/notify"
)

// Workspace is everything a single browser session sees.
type Workspace struct {
	SessionID string
	Cart      *cart.Controller
	Notices   *notify.Presenter

	mu       sync.Mutex
	checkout *checkout.Flow
}

// Checkout returns the flow in progress, if any.
func (w *Workspace) Checkout() (*checkout.Flow, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.checkout, w.checkout != nil
}

// BeginCheckout replaces any previous flow with one built on quote.
func (w *Workspace) BeginCheckout(quote cart.Quote) *checkout.Flow {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.checkout = checkout.NewFlow(w.SessionID, quote)
	return w.checkout
}

func (w *Workspace) close() {
	w.Cart.Close()
	w.Notices.Close()
}

// TokenSource builds the token lookup for a session.
type TokenSource func(sessionID string) cart.TokenFunc

type Options struct {
	Tokens          TokenSource
	Publisher       events.Publisher
	Logger          *logger.Logger
	ResyncDelay     time.Duration
	NotificationTTL time.Duration
}

// Registry maps session ids to their workspaces, creating them on first use.
type Registry struct {
	backend cart.Backend
	opts    Options

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry(b cart.Backend, opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &Registry{
		backend:    b,
		opts:       opts,
		workspaces: make(map[string]*Workspace),
	}
}

func (r *Registry) Get(sessionID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.workspaces[sessionID]; ok {
		return w
	}

	notices := notify.NewPresenter(r.opts.NotificationTTL)
	w := &Workspace{
		SessionID: sessionID,
		Notices:   notices,
		Cart: cart.NewController(r.backend, cart.Options{
			SessionID:   sessionID,
			Token:       r.opts.Tokens(sessionID),
			Notifier:    notices,
			Publisher:   r.opts.Publisher,
			Logger:      r.opts.Logger,
			ResyncDelay: r.opts.ResyncDelay,
		}),
	}
	r.workspaces[sessionID] = w
	r.opts.Logger.Debug("Created workspace for session %s", sessionID)
	return w
}

// Drop discards a session's workspace, stopping its timers.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	w, ok := r.workspaces[sessionID]
	delete(r.workspaces, sessionID)
	r.mu.Unlock()

	if ok {
		w.close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Close drops every workspace.
func (r *Registry) Close() {
	r.mu.Lock()
	all := r.workspaces
	r.workspaces = make(map[string]*Workspace)
	r.mu.Unlock()

	for _, w := range all {
		w.close()
	}
}
