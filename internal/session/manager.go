package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/templui/ahorros/internal/model"
)

var ErrInvalidPrincipal = errors.New("principal has no id")

// Manager holds at most one current session and lets callers observe who is
// signed in.
type Manager struct {
	services Services

	mu       sync.Mutex
	current  *Session
	next     int
	watchers map[int]chan *model.Principal
}

func NewManager(services Services) *Manager {
	return &Manager{
		services: services,
		watchers: make(map[int]chan *model.Principal),
	}
}

// SignIn replaces any current session with a new one for principal. The
// previous session is closed first.
func (m *Manager) SignIn(ctx context.Context, principal model.Principal) (*Session, error) {
	if principal.IsZero() {
		return nil, ErrInvalidPrincipal
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.current.Close()
	}
	m.current = New(ctx, principal, m.services)
	m.notify(&principal)

	slog.Debug("session started", "user_id", principal.ID)
	return m.current, nil
}

func (m *Manager) SignOut() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return
	}
	slog.Debug("session ended", "user_id", m.current.principal.ID)
	m.current.Close()
	m.current = nil
	m.notify(nil)
}

func (m *Manager) Current() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, ErrNoSession
	}
	return m.current, nil
}

// Watch delivers the current principal immediately and again on every sign
// in or out; nil means signed out. Only the latest value is buffered.
func (m *Manager) Watch() (<-chan *model.Principal, func()) {
	ch := make(chan *model.Principal, 1)

	m.mu.Lock()
	id := m.next
	m.next++
	m.watchers[id] = ch
	if m.current != nil {
		p := m.current.principal
		ch <- &p
	} else {
		ch <- nil
	}
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.watchers, id)
			m.mu.Unlock()
		})
	}
}

// notify must be called with mu held.
func (m *Manager) notify(p *model.Principal) {
	for _, ch := range m.watchers {
		var v *model.Principal
		if p != nil {
			c := *p
			v = &c
		}
		select {
		case ch <- v:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}
