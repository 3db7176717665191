package http

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kjstillabower/weather-form/internal/display"
	"github.com/kjstillabower/weather-form/internal/form"
	"github.com/kjstillabower/weather-form/internal/observability"
)

// SessionCookieName carries the session id between page loads.
const SessionCookieName = "weatherform_session"

// HandlerFactory builds the form handler for a new session's page.
type HandlerFactory func(page *display.Page, prompter form.Prompter) (*form.Handler, error)

// Session is one visitor's page: its own display state, form handler and any
// alerts raised since the page was last rendered.
type Session struct {
	ID      string
	Page    *display.Page
	Handler *form.Handler

	mu       sync.Mutex
	alerts   []string
	lastSeen time.Time
}

// Alert queues a message for the next render.
func (s *Session) Alert(message string) {
	s.mu.Lock()
	s.alerts = append(s.alerts, message)
	s.mu.Unlock()
}

// TakeAlerts returns and clears the queued messages.
func (s *Session) TakeAlerts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	alerts := s.alerts
	s.alerts = nil
	return alerts
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// SessionStore keeps sessions in memory and expires them after an idle timeout.
type SessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
	newHandler  HandlerFactory
	now         func() time.Time
}

// NewSessionStore returns an empty store. idleTimeout <= 0 disables expiry.
func NewSessionStore(idleTimeout time.Duration, newHandler HandlerFactory) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		newHandler:  newHandler,
		now:         time.Now,
	}
}

// Get returns the live session named by id, or false when it is unknown or expired.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.touch(now)
	return sess, true
}

// Create starts a session with a fresh hidden page.
func (s *SessionStore) Create() (*Session, error) {
	sess := &Session{
		ID:   uuid.New().String(),
		Page: display.NewPage(),
	}
	h, err := s.newHandler(sess.Page, sess)
	if err != nil {
		return nil, fmt.Errorf("session handler: %w", err)
	}
	sess.Handler = h

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	sess.lastSeen = now
	s.sessions[sess.ID] = sess
	observability.SessionsActive.Set(float64(len(s.sessions)))
	return sess, nil
}

// FromRequest resolves the session cookie, creating a session (and setting the
// cookie on w) when the request has none or it expired.
func (s *SessionStore) FromRequest(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if sess, ok := s.Get(c.Value); ok {
			return sess, nil
		}
	}
	sess, err := s.Create()
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.now())
	return len(s.sessions)
}

func (s *SessionStore) sweepLocked(now time.Time) {
	if s.idleTimeout <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if sess.idleSince(now) >= s.idleTimeout {
			delete(s.sessions, id)
		}
	}
	observability.SessionsActive.Set(float64(len(s.sessions)))
}
