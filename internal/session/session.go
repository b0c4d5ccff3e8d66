// Package session tracks which role shell each viewer is logged into.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"perf-manage/internal/model"
)

var (
	ErrNoSession = errors.New("not logged in")
	ErrForbidden = errors.New("role not allowed for this user")
	ErrUnknown   = errors.New("unknown role")
)

// Session is one viewer's login into a role.
type Session struct {
	Token      string
	UserID     uint
	TelegramID int64
	Role       model.Role
	LoggedInAt time.Time
	ExpiresAt  time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Policy decides whether a Telegram user may log into a role.
type Policy func(telegramID int64, role model.Role) bool

// AllowAll lets anyone into any role.
func AllowAll(int64, model.Role) bool { return true }

// Manager keeps sessions in memory, keyed by user id.
type Manager struct {
	ttl      time.Duration
	policy   Policy
	mu       sync.Mutex
	sessions map[uint]Session
	now      func() time.Time
}

// NewManager builds a manager whose sessions last ttl; zero ttl never expires.
func NewManager(ttl time.Duration, policy Policy) *Manager {
	if policy == nil {
		policy = AllowAll
	}
	return &Manager{
		ttl:      ttl,
		policy:   policy,
		sessions: make(map[uint]Session),
		now:      time.Now,
	}
}

// Login replaces any previous session of the user with a fresh one.
func (m *Manager) Login(user model.User, role model.Role) (Session, error) {
	if _, ok := model.ParseRole(string(role)); !ok {
		return Session{}, ErrUnknown
	}
	if !m.policy(user.TelegramID, role) {
		return Session{}, ErrForbidden
	}

	now := m.now()
	s := Session{
		Token:      uuid.NewString(),
		UserID:     user.ID,
		TelegramID: user.TelegramID,
		Role:       role,
		LoggedInAt: now,
	}
	if m.ttl > 0 {
		s.ExpiresAt = now.Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[user.ID] = s
	return s, nil
}

// Logout reports whether a session existed.
func (m *Manager) Logout(userID uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[userID]
	delete(m.sessions, userID)
	return ok
}

// Current returns the user's live session. Expired sessions are dropped.
func (m *Manager) Current(userID uint) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return Session{}, ErrNoSession
	}
	if s.Expired(m.now()) {
		delete(m.sessions, userID)
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Active lists live sessions, pruning expired ones.
func (m *Manager) Active() []Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	out := make([]Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			continue
		}
		out = append(out, s)
	}
	return out
}
