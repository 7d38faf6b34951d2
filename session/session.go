// Package session holds the single source of truth for the current user's
// authentication and file-selection state, and the route-guard decision made
// from it. State is restored from and persisted to durable local storage
// under two keys: one for the user profile, one for the selected files.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Storage keys. Both are removed together on logout; the selection key is
// removed on its own when the selection empties while a user remains.
const (
	keyUser          = "user"
	keySelectedFiles = "selectedFiles"
)

// UserProfile is the authenticated user as reported by the identity
// provider. The access token is short-lived and only used for follow-up API
// calls.
type UserProfile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PictureURL  string `json:"picture"`
	AccessToken string `json:"accessToken"`
}

// SelectedItem is a reference to a remote file or folder chosen by the user.
// Uniqueness by ID is the provider's responsibility, not enforced here.
type SelectedItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// KV is the durable storage the store persists to.
type KV interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
	Delete(key string) error
}

// Snapshot is a point-in-time read of the session state.
type Snapshot struct {
	User          *UserProfile
	SelectedFiles []SelectedItem
	Loading       bool
	LastError     string
}

// IsAuthenticated reports whether a user is present.
func (s Snapshot) IsAuthenticated() bool { return s.User != nil }

// HasSelectedFiles reports whether at least one file is selected.
func (s Snapshot) HasSelectedFiles() bool { return len(s.SelectedFiles) > 0 }

// Store holds the session state. All mutation goes through its methods.
type Store struct {
	mu      sync.RWMutex
	kv      KV
	log     *zap.Logger
	user    *UserProfile
	sel     []SelectedItem
	loading bool
	lastErr string
}

// New creates a store and restores any persisted user and selection from kv.
// Malformed stored data is discarded and the offending entry removed; it is
// never fatal. The store reports loading until restoration completes.
func New(kv KV, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{kv: kv, log: log, loading: true}
	s.restore()
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	return s
}

func (s *Store) restore() {
	if raw, ok, err := s.kv.Get(keyUser); err != nil {
		s.log.Warn("failed to read stored user", zap.Error(err))
	} else if ok {
		var u UserProfile
		if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
			s.log.Warn("discarding malformed stored user", zap.Error(err))
			if err := s.kv.Delete(keyUser); err != nil {
				s.log.Warn("failed to remove malformed user entry", zap.Error(err))
			}
		} else {
			s.user = &u
		}
	}

	// A selection without a user is stale; both entries are always cleared
	// together on logout, so treat it like any other malformed entry.
	if raw, ok, err := s.kv.Get(keySelectedFiles); err != nil {
		s.log.Warn("failed to read stored selection", zap.Error(err))
	} else if ok {
		var items []SelectedItem
		if err := json.Unmarshal([]byte(raw), &items); err != nil || s.user == nil {
			s.log.Warn("discarding malformed stored selection", zap.Error(err))
			if err := s.kv.Delete(keySelectedFiles); err != nil {
				s.log.Warn("failed to remove malformed selection entry", zap.Error(err))
			}
		} else {
			s.sel = items
		}
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Loading: s.loading, LastError: s.lastErr}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	if len(s.sel) > 0 {
		snap.SelectedFiles = append([]SelectedItem(nil), s.sel...)
	}
	return snap
}

// SetUser replaces the current user. Setting a nil user also clears the
// selection and removes both durable entries.
func (s *Store) SetUser(p *UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.clearLocked()
		return
	}
	u := *p
	s.user = &u
	raw, err := json.Marshal(u)
	if err != nil {
		s.log.Warn("failed to encode user for storage", zap.Error(err))
		return
	}
	if err := s.kv.Put(keyUser, string(raw)); err != nil {
		s.log.Warn("failed to persist user", zap.Error(err))
	}
}

// SetSelectedFiles replaces the selection. Non-empty selections are
// persisted; an empty selection removes the durable entry (only meaningful
// while a user is present, since a nil user already cleared both entries).
func (s *Store) SetSelectedFiles(items []SelectedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = append([]SelectedItem(nil), items...)
	if len(items) == 0 {
		s.sel = nil
		if s.user != nil {
			if err := s.kv.Delete(keySelectedFiles); err != nil {
				s.log.Warn("failed to remove selection entry", zap.Error(err))
			}
		}
		return
	}
	raw, err := json.Marshal(s.sel)
	if err != nil {
		s.log.Warn("failed to encode selection for storage", zap.Error(err))
		return
	}
	if err := s.kv.Put(keySelectedFiles, string(raw)); err != nil {
		s.log.Warn("failed to persist selection", zap.Error(err))
	}
}

// SetError records a user-visible error message; an empty string clears it.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

// RevokeFunc revokes an access token with the identity provider.
type RevokeFunc func(ctx context.Context, accessToken string) error

// Logout revokes the current token via revoke (best-effort; failures are
// logged, never surfaced), then clears the user and selection and removes
// both durable entries.
func (s *Store) Logout(ctx context.Context, revoke RevokeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil && revoke != nil {
		if err := revoke(ctx, s.user.AccessToken); err != nil {
			s.log.Warn("token revocation failed", zap.Error(err))
		}
	}
	s.clearLocked()
}

func (s *Store) clearLocked() {
	s.user = nil
	s.sel = nil
	s.lastErr = ""
	if err := s.kv.Delete(keyUser); err != nil {
		s.log.Warn("failed to remove user entry", zap.Error(err))
	}
	if err := s.kv.Delete(keySelectedFiles); err != nil {
		s.log.Warn("failed to remove selection entry", zap.Error(err))
	}
}
