// Package session runs focus sessions: one countdown per owner that hands the
// finished session to a completion callback.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrSessionActive is returned when an owner already has a running session.
var ErrSessionActive = errors.New("a focus session is already running")

// Session is a running focus session.
type Session struct {
	OwnerID   string
	QuestID   string
	Minutes   int
	StartedAt time.Time

	timer *Timer
}

// Remaining returns the countdown left on the session.
func (s *Session) Remaining() time.Duration {
	return s.timer.Remaining()
}

// Manager keeps at most one active Session per owner.
// All methods are safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	minute time.Duration
	active map[string]*Session // owner id → session
	logger *zap.Logger
}

// NewManager creates a Manager in which one session minute lasts minute.
//
// Precondition: minute > 0; logger must be non-nil.
func NewManager(minute time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		minute: minute,
		active: make(map[string]*Session),
		logger: logger,
	}
}

// Start begins a session of minutes for ownerID. onComplete runs in its own
// goroutine when the countdown elapses, after the session is removed from the
// active set.
//
// Precondition: minutes > 0; onComplete must not be nil.
// Postcondition: returns the running Session, or ErrSessionActive.
func (m *Manager) Start(ownerID, questID string, minutes int, onComplete func(*Session)) (*Session, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("session length must be positive, got %d", minutes)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if cur, ok := m.active[ownerID]; ok {
		return nil, fmt.Errorf("%w: quest %s", ErrSessionActive, cur.QuestID)
	}

	sess := &Session{OwnerID: ownerID, QuestID: questID, Minutes: minutes, StartedAt: time.Now()}
	sess.timer = NewTimer(time.Duration(minutes)*m.minute, func() {
		m.mu.Lock()
		if m.active[ownerID] == sess {
			delete(m.active, ownerID)
		}
		m.mu.Unlock()
		m.logger.Info("focus session elapsed",
			zap.String("owner", ownerID),
			zap.String("quest", questID),
			zap.Int("minutes", minutes),
		)
		onComplete(sess)
	})
	m.active[ownerID] = sess

	m.logger.Info("focus session started",
		zap.String("owner", ownerID),
		zap.String("quest", questID),
		zap.Int("minutes", minutes),
	)
	return sess, nil
}

// Cancel stops ownerID's session. It returns the session and true only when
// the completion callback was prevented.
func (m *Manager) Cancel(ownerID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.active[ownerID]
	if !ok {
		return nil, false
	}
	delete(m.active, ownerID)
	if !sess.timer.Cancel() {
		return nil, false
	}
	m.logger.Info("focus session cancelled",
		zap.String("owner", ownerID),
		zap.String("quest", sess.QuestID),
	)
	return sess, true
}

// Active returns ownerID's running session.
func (m *Manager) Active(ownerID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.active[ownerID]
	return sess, ok
}

// StopAll cancels every running session and returns how many were stopped.
func (m *Manager) StopAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for owner, sess := range m.active {
		if sess.timer.Cancel() {
			n++
		}
		delete(m.active, owner)
	}
	return n
}
