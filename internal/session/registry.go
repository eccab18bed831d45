package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"attendly/api/internal/ids"
	"attendly/api/internal/models"
	"attendly/api/internal/security"
)

var (
	ErrInvalid = errors.New("session invalid")
	ErrExpired = errors.New("session expired")
)

// IPMismatchPolicy decides what happens when a validated request arrives
// from a different IP than the one the session was created with.
type IPMismatchPolicy string

const (
	// IPMismatchLog records a security event but lets the request through.
	IPMismatchLog IPMismatchPolicy = "log"
	// IPMismatchInvalidate removes the session and fails the request.
	IPMismatchInvalidate IPMismatchPolicy = "invalidate"
)

type Config struct {
	TokenSecret      string
	TokenTTL         time.Duration
	IdleTimeout      time.Duration
	MaxPerPrincipal  int
	IPMismatchPolicy IPMismatchPolicy
}

// Registry is the in-memory table of active sessions. It owns its table
// exclusively: every read-modify-write happens under the registry lock, so
// two concurrent validations can never both pass an expiry check.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

func New(cfg Config, log zerolog.Logger) *Registry {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 24 * time.Hour
	}
	if cfg.MaxPerPrincipal <= 0 {
		cfg.MaxPerPrincipal = 3
	}
	if cfg.IPMismatchPolicy == "" {
		cfg.IPMismatchPolicy = IPMismatchLog
	}
	return &Registry{
		sessions: make(map[string]*models.Session),
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Close drops every session. The registry must not be used afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = make(map[string]*models.Session)
}

// Create registers a session for the principal and returns a signed bearer
// token embedding the session/principal identity with the configured expiry.
// When the principal already holds the maximum number of sessions, the one
// least recently active is evicted to make room.
func (r *Registry) Create(principalID string, kind models.PrincipalKind, companyID, principalName, clientIP, userAgent string) (string, models.Session, error) {
	now := r.now()
	s := &models.Session{
		ID:             ids.New(),
		PrincipalID:    principalID,
		PrincipalName:  principalName,
		PrincipalKind:  kind,
		CompanyID:      companyID,
		IPAddress:      clientIP,
		UserAgent:      userAgent,
		CreatedAt:      now,
		LastActivityAt: now,
		Active:         true,
	}

	token, err := security.GenerateSessionToken(r.cfg.TokenSecret, *s, r.cfg.TokenTTL)
	if err != nil {
		return "", models.Session{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictOldestLocked(principalID, kind, r.cfg.MaxPerPrincipal-1)
	r.sessions[s.ID] = s

	return token, *s, nil
}

// evictOldestLocked removes sessions for the principal until at most keep
// remain, least recently active first. Caller must hold the write lock.
func (r *Registry) evictOldestLocked(principalID string, kind models.PrincipalKind, keep int) {
	var matching []*models.Session
	for _, s := range r.sessions {
		if s.PrincipalID == principalID && s.PrincipalKind == kind {
			matching = append(matching, s)
		}
	}
	if len(matching) <= keep {
		return
	}

	sort.Slice(matching, func(i, j int) bool {
		return matching[i].LastActivityAt.Before(matching[j].LastActivityAt)
	})
	for _, s := range matching[:len(matching)-keep] {
		delete(r.sessions, s.ID)
		r.log.Info().
			Str("session_id", s.ID).
			Str("principal_id", principalID).
			Msg("session evicted by concurrent session limit")
	}
}

// Validate verifies the bearer token, checks the backing session is still
// live, refreshes its activity timestamp and returns a copy of it.
func (r *Registry) Validate(token string, clientIP string) (models.Session, error) {
	claims, err := security.ParseSessionToken(token, r.cfg.TokenSecret)
	if err != nil {
		return models.Session{}, ErrInvalid
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[claims.SessionID]
	if !ok || !s.Active {
		return models.Session{}, ErrInvalid
	}

	now := r.now()
	if now.Sub(s.LastActivityAt) > r.cfg.IdleTimeout {
		delete(r.sessions, s.ID)
		return models.Session{}, ErrExpired
	}

	if clientIP != "" && s.IPAddress != "" && clientIP != s.IPAddress {
		r.log.Warn().
			Str("session_id", s.ID).
			Str("principal_id", s.PrincipalID).
			Str("session_ip", s.IPAddress).
			Str("request_ip", clientIP).
			Msg("session ip mismatch")
		if r.cfg.IPMismatchPolicy == IPMismatchInvalidate {
			delete(r.sessions, s.ID)
			return models.Session{}, ErrInvalid
		}
	}

	s.LastActivityAt = now
	return *s, nil
}

// Invalidate removes the session. Removing an unknown session is a no-op.
func (r *Registry) Invalidate(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// InvalidateAllForPrincipal removes every session matching both the
// principal id and kind, returning how many were removed.
func (r *Registry) InvalidateAllForPrincipal(principalID string, kind models.PrincipalKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.PrincipalID == principalID && s.PrincipalKind == kind {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// ListForPrincipal returns copies of the principal's live sessions, most
// recently active first.
func (r *Registry) ListForPrincipal(principalID string, kind models.PrincipalKind) []models.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Session
	for _, s := range r.sessions {
		if s.PrincipalID == principalID && s.PrincipalKind == kind {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivityAt.After(out[j].LastActivityAt)
	})
	return out
}

const sweepBatchSize = 256

// Sweep removes sessions idle past the timeout, independent of the lazy
// expiry on the validation path. Candidates are collected under the read
// lock and removed in small batches so a large table never stalls
// concurrent validations.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.cfg.IdleTimeout)

	r.mu.RLock()
	var candidates []string
	for id, s := range r.sessions {
		if s.LastActivityAt.Before(cutoff) {
			candidates = append(candidates, id)
		}
	}
	r.mu.RUnlock()

	removed := 0
	for start := 0; start < len(candidates); start += sweepBatchSize {
		end := start + sweepBatchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		r.mu.Lock()
		for _, id := range candidates[start:end] {
			// Re-check: the session may have been validated since the scan.
			if s, ok := r.sessions[id]; ok && s.LastActivityAt.Before(cutoff) {
				delete(r.sessions, id)
				removed++
			}
		}
		r.mu.Unlock()
	}

	if removed > 0 {
		r.log.Info().Int("removed", removed).Msg("session sweep completed")
	}
	return removed
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
