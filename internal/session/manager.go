// Package session owns the bearer token of each browser session. No other
// package reads or clears tokens directly.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/backend"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/models"

	"github.com/google/uuid"
)

// EndListener is told when a session ends so per-session state can be
// dropped.
type EndListener func(id string)

type Manager struct {
	store     Store
	publisher events.Publisher
	logger    *logger.Logger
	listeners []EndListener
}

func NewManager(store Store, publisher events.Publisher, logger *logger.Logger) *Manager {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Manager{store: store, publisher: publisher, logger: logger}
}

// OnEnd registers fn to run after any session ends.
func (m *Manager) OnEnd(fn EndListener) {
	m.listeners = append(m.listeners, fn)
}

// Begin creates a session from a successful login.
func (m *Manager) Begin(ctx context.Context, login *backend.LoginResponse) (*models.Session, error) {
	if login == nil || login.Access == "" {
		return nil, backend.ErrNoSession
	}

	sess := &models.Session{
		ID:           uuid.New().String(),
		Token:        login.Access,
		RefreshToken: login.Refresh,
	}
	if len(login.User) > 0 && string(login.User) != "null" {
		sess.User = string(login.User)
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	m.logger.Debug("Session %s started", sess.ID)
	return sess, nil
}

// Lookup returns the session or ErrNotFound.
func (m *Manager) Lookup(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	return m.store.Get(ctx, id)
}

// Token returns the bearer token of id, or backend.ErrNoSession when the
// session is absent.
func (m *Manager) Token(ctx context.Context, id string) (string, error) {
	sess, err := m.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", backend.ErrNoSession
		}
		return "", err
	}
	if sess.Token == "" {
		return "", backend.ErrNoSession
	}
	return sess.Token, nil
}

// User decodes the user object stored at login into v.
func (m *Manager) User(ctx context.Context, id string, v interface{}) error {
	sess, err := m.Lookup(ctx, id)
	if err != nil {
		return err
	}
	if sess.User == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(sess.User), v); err != nil {
		return fmt.Errorf("failed to decode session user: %w", err)
	}
	return nil
}

// End destroys the session. Ending an unknown session is not an error.
func (m *Manager) End(ctx context.Context, id, reason string) error {
	if id == "" {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}

	ev := events.New(events.SessionEnded, id)
	ev.Message = reason
	if err := m.publisher.Publish(ctx, ev); err != nil {
		m.logger.Error("Failed to publish session end: %v", err)
	}

	for _, fn := range m.listeners {
		fn(id)
	}
	m.logger.Debug("Session %s ended: %s", id, reason)
	return nil
}

// EndOnUnauthorized ends the session when err is a 401 from the backend and
// reports whether it did.
func (m *Manager) EndOnUnauthorized(ctx context.Context, id string, err error) bool {
	if !backend.IsUnauthorized(err) {
		return false
	}
	if endErr := m.End(ctx, id, "unauthorized"); endErr != nil {
		m.logger.Error("Failed to end session %s: %v", id, endErr)
	}
	return true
}

// TokenFunc binds Token to one session id.
func (m *Manager) TokenFunc(id string) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		return m.Token(ctx, id)
	}
}
