// Package session persists drill-down viewer state between requests.
//
// A [Session] remembers which chart a viewer is looking at and which parent
// category (if any) they have drilled into, so a stateless API server can
// rebuild a drilldown.Selector on every request:
//
//	sess := session.New("portfolio", session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or expired
//	}
//	sel := drilldown.New(ds.Normalized(), cfg)
//	_ = sel.Restore(sess.Active)
//
// Backends:
//   - [MemoryStore]: single-process servers and tests
//   - [FileStore]: one JSON file per session
//   - [RedisStore]: shared state for multi-instance deployments
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist or has expired.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidID is returned for IDs that are not session UUIDs.
	ErrInvalidID = errors.New("invalid session id")
)

// NoSelection is the Active value of a session viewing parent categories.
const NoSelection = -1

// DefaultTTL is the default session lifetime. Every update extends it.
const DefaultTTL = 30 * time.Minute

// Session is one viewer's drill-down position on a chart.
type Session struct {
	ID        string    `json:"id"`
	ChartID   string    `json:"chart_id"`
	Active    int       `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// New creates a session on chartID viewing parents.
func New(chartID string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		ChartID:   chartID,
		Active:    NoSelection,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch records an update and slides the expiry forward.
func (s *Session) Touch(ttl time.Duration) {
	s.UpdatedAt = time.Now()
	s.ExpiresAt = s.UpdatedAt.Add(ttl)
}

// ValidateID checks that id is a session UUID. Stores call it before using
// an ID as a file name or key.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session until its ExpiresAt.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
