// Package session implements the hybrid authentication core: stateless
// signed tokens plus a server-side registry of privileged sessions with
// sliding idle expiry.
package session

import (
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

// DefaultIdleTimeout is the inactivity window after which a session expires.
const DefaultIdleTimeout = 30 * time.Minute

// A Session binds an opaque id to a privileged user identity.
// Values handed out by the registry are copies, never shared records.
type Session struct {
	ID            string    `json:"session_id"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
	Active        bool      `json:"active"`
}

// Stats summarizes the registry content for monitoring.
type Stats struct {
	ActiveSessions int            `json:"total_active_sessions"`
	ActiveUsers    int            `json:"total_active_users"`
	SessionsByRole map[string]int `json:"sessions_by_role"`
}

// A Registry is the authoritative in-memory store of privileged sessions.
// It maintains two indexes, id to record and user id to session ids, and
// every mutation touches both under the same lock.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	byUser   map[string]map[string]struct{}

	idleTimeout time.Duration
	privileged  map[string]struct{}
	now         func() time.Time
}

// NewRegistry returns an empty registry tracking sessions for the given
// privileged roles. A non-positive idleTimeout falls back to the default.
func NewRegistry(idleTimeout time.Duration, privilegedRoles []string) *Registry {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}

	privileged := make(map[string]struct{}, len(privilegedRoles))
	for _, role := range privilegedRoles {
		privileged[role] = struct{}{}
	}

	return &Registry{
		sessions:    make(map[string]*Session),
		byUser:      make(map[string]map[string]struct{}),
		idleTimeout: idleTimeout,
		privileged:  privileged,
		now:         time.Now,
	}
}

// Tracks returns true if the given role is subject to session tracking.
func (r *Registry) Tracks(role string) bool {
	_, ok := r.privileged[role]
	return ok
}

// IdleTimeout returns the configured inactivity window.
func (r *Registry) IdleTimeout() time.Duration {
	return r.idleTimeout
}

// Create registers a new session for the given user and returns its id.
// It returns false for roles that are not session tracked.
func (r *Registry) Create(userID, email, role string) (string, bool) {
	if !r.Tracks(role) {
		return "", false
	}

	id := uuid.Must(uuid.NewV4()).String()

	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.now()
	r.sessions[id] = &Session{
		ID:            id,
		UserID:        userID,
		Email:         email,
		Role:          role,
		CreatedAt:     t,
		LastHeartbeat: t,
		Active:        true,
	}

	ids, ok := r.byUser[userID]
	if !ok {
		ids = make(map[string]struct{})
		r.byUser[userID] = ids
	}
	ids[id] = struct{}{}

	return id, true
}

// RenewHeartbeat extends the session's idle-expiry window.
// It returns false if the session is absent or inactive. The timestamp only
// moves forward so concurrent renewals converge on the latest value.
func (r *Registry) RenewHeartbeat(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.renewLocked(id)
}

// IsValid reports whether the session exists, is active and has not
// idle-expired. It never mutates the registry.
func (r *Registry) IsValid(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	return ok && session.Active && !r.expiredLocked(session)
}

// ValidateAndRenew checks the session validity and renews its heartbeat as
// one atomic step. The gate uses it to avoid a check-then-renew race: an
// invalidation serialized before the call makes it return false, one
// serialized after leaves the session invalid anyway.
func (r *Registry) ValidateAndRenew(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok || !session.Active || r.expiredLocked(session) {
		return false
	}
	return r.renewLocked(id)
}

// Lookup returns a copy of the session record, expired or not.
func (r *Registry) Lookup(id string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *session, true
}

// Invalidate marks the session inactive and removes it from both indexes.
// It is idempotent: a second call on the same id returns false.
func (r *Registry) Invalidate(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return false
	}

	session.Active = false
	r.removeLocked(session)
	return true
}

// InvalidateAllForUser invalidates every session of the given user and
// clears the user's index entry. It returns the number of removed sessions.
func (r *Registry) InvalidateAllForUser(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for id := range r.byUser[userID] {
		if session, ok := r.sessions[id]; ok {
			session.Active = false
			delete(r.sessions, id)
			n++
		}
	}
	delete(r.byUser, userID)
	return n
}

// SessionsForUser returns copies of the user's active, non-expired sessions.
func (r *Registry) SessionsForUser(userID string) []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]Session, 0, len(r.byUser[userID]))
	for id := range r.byUser[userID] {
		session, ok := r.sessions[id]
		// A stale index entry counts as already invalid.
		if !ok || !session.Active || r.expiredLocked(session) {
			continue
		}
		sessions = append(sessions, *session)
	}
	return sessions
}

// ListActive returns copies of all active, non-expired sessions.
func (r *Registry) ListActive() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		if !session.Active || r.expiredLocked(session) {
			continue
		}
		sessions = append(sessions, *session)
	}
	return sessions
}

// Stats returns counters over the active, non-expired sessions.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		ActiveSessions: len(r.sessions),
		ActiveUsers:    len(r.byUser),
		SessionsByRole: make(map[string]int),
	}
	for _, session := range r.sessions {
		if session.Active && !r.expiredLocked(session) {
			stats.SessionsByRole[session.Role]++
		}
	}
	return stats
}

// Sweep evicts every inactive or idle-expired session from both indexes and
// returns the number of evicted records. Valid records are left untouched.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for _, session := range r.sessions {
		if session.Active && !r.expiredLocked(session) {
			continue
		}
		session.Active = false
		r.removeLocked(session)
		n++
	}
	return n
}

func (r *Registry) renewLocked(id string) bool {
	session, ok := r.sessions[id]
	if !ok || !session.Active {
		return false
	}
	if t := r.now(); t.After(session.LastHeartbeat) {
		session.LastHeartbeat = t
	}
	return true
}

func (r *Registry) expiredLocked(session *Session) bool {
	return r.now().Sub(session.LastHeartbeat) > r.idleTimeout
}

func (r *Registry) removeLocked(session *Session) {
	delete(r.sessions, session.ID)

	ids, ok := r.byUser[session.UserID]
	if !ok {
		return
	}
	delete(ids, session.ID)
	if len(ids) == 0 {
		delete(r.byUser, session.UserID)
	}
}
