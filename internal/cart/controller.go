package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/backend"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/notify"
)

const resyncTimeout = 15 * time.Second

// Backend is the subset of the origin client the controller needs.
type Backend interface {
	GetCart(ctx context.Context, token string) (*backend.Cart, error)
	AddToCart(ctx context.Context, token, slug string, quantity int) error
	RemoveFromCart(ctx context.Context, token, slug string) error
}

// TokenFunc yields the bearer token of the owning session, or
// backend.ErrNoSession.
type TokenFunc func(ctx context.Context) (string, error)

type Options struct {
	SessionID   string
	Token       TokenFunc
	Notifier    notify.Notifier
	Publisher   events.Publisher
	Logger      *logger.Logger
	ResyncDelay time.Duration
}

// Controller mirrors one session's server cart and the shopper's in-flight
// quantity edits. Every mutation is followed by a full reload; nothing is
// patched incrementally.
type Controller struct {
	backend     Backend
	sessionID   string
	token       TokenFunc
	notifier    notify.Notifier
	publisher   events.Publisher
	logger      *logger.Logger
	resyncDelay time.Duration

	mu         sync.Mutex
	loaded     bool
	snapshot   Snapshot
	quantities map[string]int
	knownGood  map[string]int
	updating   map[string]bool
	resync     *time.Timer
	closed     bool
	wg         sync.WaitGroup
}

func NewController(b Backend, opts Options) *Controller {
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &Controller{
		backend:     b,
		sessionID:   opts.SessionID,
		token:       opts.Token,
		notifier:    opts.Notifier,
		publisher:   opts.Publisher,
		logger:      opts.Logger.With("session_id", opts.SessionID),
		resyncDelay: opts.ResyncDelay,
		quantities:  map[string]int{},
		knownGood:   map[string]int{},
		updating:    map[string]bool{},
	}
}

// Load fetches the cart and replaces the snapshot. The displayed quantities
// are reset to the server's, discarding any local edit.
func (c *Controller) Load(ctx context.Context) (View, error) {
	token, err := c.sessionToken(ctx)
	if err != nil {
		return c.View(), err
	}

	remote, err := c.backend.GetCart(ctx, token)
	if err != nil {
		c.logger.Error("Error fetching cart: %v", err)
		return c.View(), fmt.Errorf("failed to fetch cart: %w", err)
	}

	lines := linesFromCart(remote)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = Snapshot{Lines: lines}
	c.quantities = make(map[string]int, len(lines))
	c.knownGood = make(map[string]int, len(lines))
	for _, l := range lines {
		c.quantities[l.ProductKey] = l.Quantity
		c.knownGood[l.ProductKey] = l.Quantity
	}
	c.loaded = true
	return c.viewLocked(), nil
}

// SetQuantity shows q immediately, sends it to the backend and schedules a
// reload. A cart that was never loaded is loaded first. On failure the
// displayed quantity reverts to the last value the server confirmed. q < 1 is
// rejected without any change.
func (c *Controller) SetQuantity(ctx context.Context, key string, q int) (View, error) {
	if q < 1 {
		return c.View(), ErrInvalidQuantity
	}

	token, err := c.sessionToken(ctx)
	if err != nil {
		return c.View(), err
	}

	// A fresh workspace has no snapshot to look the line up in yet.
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()
	if !loaded {
		if view, err := c.Load(ctx); err != nil {
			return view, err
		}
	}

	c.mu.Lock()
	if !c.snapshot.Contains(key) {
		c.mu.Unlock()
		return c.View(), ErrUnknownLine
	}
	c.quantities[key] = q
	c.updating[key] = true
	c.mu.Unlock()

	err = c.backend.AddToCart(ctx, token, key, q)

	c.mu.Lock()
	c.updating[key] = false
	if err != nil {
		if prev, ok := c.knownGood[key]; ok {
			c.quantities[key] = prev
		}
	} else {
		c.knownGood[key] = q
	}
	c.mu.Unlock()

	c.scheduleResync()

	ev := events.New(events.CartQuantityUpdated, c.sessionID)
	ev.ProductKey = key
	ev.Quantity = q
	ev.Success = boolPtr(err == nil)

	if err != nil {
		c.logger.Error("Error updating quantity of %s: %v", key, err)
		ev.Message = err.Error()
		c.publish(ctx, ev)
		c.notify(backend.UserMessage(err, "Failed to update quantity"), notify.KindError)
		return c.View(), fmt.Errorf("failed to update quantity: %w", err)
	}

	c.publish(ctx, ev)
	return c.View(), nil
}

// AddItem adds quantity of a product from a listing page and reloads.
func (c *Controller) AddItem(ctx context.Context, key string, quantity int) (View, error) {
	if quantity < 1 {
		return c.View(), ErrInvalidQuantity
	}

	token, err := c.sessionToken(ctx)
	if err != nil {
		return c.View(), err
	}

	if err := c.backend.AddToCart(ctx, token, key, quantity); err != nil {
		c.logger.Error("Error adding %s to cart: %v", key, err)
		c.notify(backend.UserMessage(err, "Failed to add to cart"), notify.KindError)
		return c.View(), fmt.Errorf("failed to add to cart: %w", err)
	}
	c.notify("Added to cart", notify.KindSuccess)

	ev := events.New(events.CartQuantityUpdated, c.sessionID)
	ev.ProductKey = key
	ev.Quantity = quantity
	ev.Success = boolPtr(true)
	c.publish(ctx, ev)

	return c.Load(ctx)
}

// RemoveLine deletes a line on the backend and then reloads regardless of the
// outcome. The line is never removed locally ahead of the reload.
func (c *Controller) RemoveLine(ctx context.Context, key string) (View, error) {
	token, err := c.sessionToken(ctx)
	if err != nil {
		return c.View(), err
	}

	removeErr := c.backend.RemoveFromCart(ctx, token, key)

	ev := events.New(events.CartLineRemoved, c.sessionID)
	ev.ProductKey = key
	ev.Success = boolPtr(removeErr == nil)
	if removeErr != nil {
		c.logger.Error("Error removing %s: %v", key, removeErr)
		ev.Message = removeErr.Error()
		c.notify(backend.UserMessage(removeErr, "Failed to remove item"), notify.KindError)
	}
	c.publish(ctx, ev)

	view, loadErr := c.Load(ctx)
	if removeErr != nil {
		return view, fmt.Errorf("failed to remove item: %w", removeErr)
	}
	return view, loadErr
}

// View renders the current snapshot with effective quantities and a freshly
// computed total.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	view := View{
		Loaded: c.loaded,
		Lines:  make([]LineView, 0, len(c.snapshot.Lines)),
	}
	for _, l := range c.snapshot.Lines {
		q := effectiveQuantity(l, c.quantities)
		view.Lines = append(view.Lines, LineView{
			ProductKey:     l.ProductKey,
			DisplayName:    l.DisplayName,
			ImageRef:       l.ImageRef,
			UnitPrice:      l.UnitPrice,
			Quantity:       q,
			ServerQuantity: l.Quantity,
			LineTotal:      LineTotal(l.UnitPrice, q),
			Updating:       c.updating[l.ProductKey],
		})
	}
	view.TotalPrice = ComputeTotal(c.snapshot.Lines, c.quantities)
	view.TotalDisplay = FormatAmount(view.TotalPrice)
	return view
}

// Snapshot returns a copy of the last loaded server cart.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Lines: append([]Line(nil), c.snapshot.Lines...)}
}

// Quote freezes the displayed cart for checkout.
func (c *Controller) Quote() (Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded || len(c.snapshot.Lines) == 0 {
		return Quote{}, ErrEmptyCart
	}

	items := make([]Line, 0, len(c.snapshot.Lines))
	for _, l := range c.snapshot.Lines {
		l.Quantity = effectiveQuantity(l, c.quantities)
		items = append(items, l)
	}
	return Quote{
		Items:      items,
		TotalPrice: ComputeTotal(items, nil),
	}, nil
}

// Wait blocks until any scheduled reload has run.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels a pending reload and waits for a running one.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	if c.resync != nil && c.resync.Stop() {
		c.wg.Done()
	}
	c.resync = nil
	c.mu.Unlock()
	c.wg.Wait()
}

// scheduleResync arms one delayed reload. Mutations landing before it fires
// push it back rather than stacking reloads.
func (c *Controller) scheduleResync() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.resync != nil && c.resync.Stop() {
		c.resync.Reset(c.resyncDelay)
		return
	}

	c.wg.Add(1)
	c.resync = time.AfterFunc(c.resyncDelay, func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), resyncTimeout)
		defer cancel()
		if _, err := c.Load(ctx); err != nil {
			c.logger.Error("Cart resync failed: %v", err)
		}
	})
}

func (c *Controller) sessionToken(ctx context.Context) (string, error) {
	if c.token == nil {
		c.notify(LoginRequiredMessage, notify.KindError)
		return "", ErrLoginRequired
	}
	token, err := c.token(ctx)
	if err != nil || token == "" {
		if err != nil && !errors.Is(err, backend.ErrNoSession) {
			c.logger.Error("Failed to read session token: %v", err)
		}
		c.notify(LoginRequiredMessage, notify.KindError)
		return "", ErrLoginRequired
	}
	return token, nil
}

func (c *Controller) notify(message string, kind notify.Kind) {
	if c.notifier != nil {
		c.notifier.Show(message, kind)
	}
}

func (c *Controller) publish(ctx context.Context, ev events.Event) {
	if err := c.publisher.Publish(ctx, ev); err != nil {
		c.logger.Error("Failed to publish %s: %v", ev.Type, err)
	}
}

func boolPtr(b bool) *bool { return &b }
