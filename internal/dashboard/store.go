package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultSessionTTL is how long an idle session is kept before it is swept.
const DefaultSessionTTL = 30 * time.Minute

// Listener is told about every event that may have changed a session's state.
type Listener interface {
	EventApplied(ctx context.Context, sessionID string, ev Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(ctx context.Context, sessionID string, ev Event)

func (f ListenerFunc) EventApplied(ctx context.Context, sessionID string, ev Event) {
	f(ctx, sessionID, ev)
}

// session owns one State. mu serializes handlers so each runs to completion
// before the next one starts.
type session struct {
	mu       sync.Mutex
	state    *State
	lastSeen time.Time // guarded by Store.mu
}

// Store keeps one dashboard State per browser session.
type Store struct {
	mu        sync.Mutex
	sessions  map[string]*session
	listeners []Listener

	catalogue *Catalogue
	newIDs    func() IDSource
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// Option is a function that configures a Store.
type Option func(*Store)

// WithTTL sets how long an idle session survives.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		s.ttl = d
	}
}

// WithIDSource sets the factory called once per new session for its
// notification ids.
func WithIDSource(newIDs func() IDSource) Option {
	return func(s *Store) {
		s.newIDs = newIDs
	}
}

// WithCatalogue replaces the default event catalogue.
func WithCatalogue(c *Catalogue) Option {
	return func(s *Store) {
		s.catalogue = c
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions:  make(map[string]*session),
		catalogue: DefaultCatalogue(),
		newIDs:    func() IDSource { return NewSequenceIDs(firstGeneratedID) },
		ttl:       DefaultSessionTTL,
		now:       time.Now,
		logger:    slog.Default().With("service", "dashboard"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalogue returns the events this store dispatches.
func (s *Store) Catalogue() *Catalogue {
	return s.catalogue
}

// AddListener registers l for all sessions.
func (s *Store) AddListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// get returns the session for id, starting a new one if needed.
func (s *Store) get(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{state: New(s.newIDs())}
		s.sessions[id] = sess
		activeSessions.Inc()
		s.logger.Debug("Dashboard session started", "session_id", id)
	}
	sess.lastSeen = s.now()
	return sess
}

// Snapshot returns a copy of the session's current state, starting the
// session if it does not exist yet.
func (s *Store) Snapshot(id string) (State, error) {
	if id == "" {
		return State{}, ErrSessionIDMissing
	}
	sess := s.lock(id)
	defer sess.mu.Unlock()
	return sess.state.Snapshot(), nil
}

// Peek returns a copy of the session's state without starting the session or
// counting as activity. ok is false once the session has ended.
func (s *Store) Peek(id string) (state State, ok bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return State{}, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state.Snapshot(), true
}

// lock returns the live session for id with its mu held. A session swept or
// ended while the caller waited for mu is discarded and looked up again.
func (s *Store) lock(id string) *session {
	for {
		sess := s.get(id)
		sess.mu.Lock()

		s.mu.Lock()
		live := s.sessions[id] == sess
		s.mu.Unlock()
		if live {
			return sess
		}
		sess.mu.Unlock()
	}
}

// Apply dispatches ev against the session and returns the resulting state.
// A *ValidationError is returned together with the (otherwise unchanged)
// state so the caller can render field messages next to it.
func (s *Store) Apply(ctx context.Context, id string, ev Event) (State, error) {
	if id == "" {
		return State{}, ErrSessionIDMissing
	}
	sess := s.lock(id)
	err := s.catalogue.Dispatch(sess.state, ev)
	snap := sess.state.Snapshot()
	sess.mu.Unlock()

	var verr *ValidationError
	switch {
	case err == nil:
		eventsApplied.WithLabelValues(string(ev.Name), "ok").Inc()
	case errors.As(err, &verr):
		eventsApplied.WithLabelValues(string(ev.Name), "invalid").Inc()
		for _, f := range verr.Fields {
			validationFailures.WithLabelValues(f.Field).Inc()
		}
	default:
		eventsApplied.WithLabelValues(s.metricLabel(ev.Name), "rejected").Inc()
		return snap, err
	}

	for _, l := range s.snapshotListeners() {
		l.EventApplied(ctx, id, ev)
	}
	return snap, err
}

// metricLabel keeps client-supplied names out of the label set.
func (s *Store) metricLabel(name EventName) string {
	if _, ok := s.catalogue.Lookup(name); ok {
		return string(name)
	}
	return "unknown"
}

func (s *Store) snapshotListeners() []Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// End discards a session immediately.
func (s *Store) End(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		delete(s.sessions, id)
		activeSessions.Dec()
	}
}

// Sweep ends every session idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		activeSessions.Sub(float64(removed))
		s.logger.Info("Swept idle dashboard sessions", "removed", removed, "remaining", len(s.sessions))
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is canceled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
