package remote

import (
	"context"
	"strings"
	"sync"

	"github.com/julianstephens/lifelog/internal/logger"
)

// NoOwner is reported when no identity could be resolved.
const NoOwner = "none"

// Session memoizes the mirror's owner identity for the life of the process.
// A nil mirror yields a session that never resolves an owner.
type Session struct {
	mirror Mirror

	mu       sync.Mutex
	owner    string
	resolved bool
}

func NewSession(mirror Mirror) *Session {
	return &Session{mirror: mirror}
}

// Mirror returns the underlying mirror, which may be nil.
func (s *Session) Mirror() Mirror {
	if s == nil {
		return nil
	}
	return s.mirror
}

// CurrentOwner returns the cached owner, resolving it on first use.
// Failures are logged and reported as (NoOwner, false); they are not cached,
// so the next call tries again.
func (s *Session) CurrentOwner(ctx context.Context) (string, bool) {
	if s == nil || s.mirror == nil {
		return NoOwner, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resolved {
		return s.owner, true
	}

	owner, err := s.mirror.WhoAmI(ctx)
	if err != nil {
		logger.Warn("Failed to resolve remote owner", "error", err)
		return NoOwner, false
	}
	owner = strings.TrimSpace(owner)
	if owner == "" || owner == NoOwner {
		logger.Warn("Remote connection has no identity")
		return NoOwner, false
	}

	s.owner = owner
	s.resolved = true
	logger.Debug("Resolved remote owner", "owner", owner)
	return owner, true
}

// Invalidate forgets the cached owner, e.g. after logout.
func (s *Session) Invalidate() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.owner = ""
	s.resolved = false
	s.mu.Unlock()
}
