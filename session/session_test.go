package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driveview/localstore"
)

func newKV(t *testing.T) *localstore.Store {
	t.Helper()
	kv, err := localstore.Open("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestFreshSession(t *testing.T) {
	s := New(newKV(t), nil)
	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.False(t, snap.IsAuthenticated())
	assert.False(t, snap.HasSelectedFiles())
	assert.Equal(t, RedirectLogin, Evaluate(snap))
}

func TestRestoreStoredSession(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.Put("user", `{"id":"u1","name":"Ada","email":"ada@example.com","accessToken":"tok"}`))
	require.NoError(t, kv.Put("selectedFiles", `[{"id":"f1","name":"A","url":"urlA"}]`))

	s := New(kv, nil)
	snap := s.Snapshot()
	require.True(t, snap.IsAuthenticated())
	assert.Equal(t, "u1", snap.User.ID)
	assert.Equal(t, "tok", snap.User.AccessToken)
	require.True(t, snap.HasSelectedFiles())
	assert.Equal(t, "f1", snap.SelectedFiles[0].ID)
	assert.Equal(t, Render, Evaluate(snap))
}

func TestRestoreStoredUserWithoutSelection(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.Put("user", `{"id":"u1","name":"Ada"}`))

	s := New(kv, nil)
	snap := s.Snapshot()
	assert.True(t, snap.IsAuthenticated())
	assert.False(t, snap.HasSelectedFiles())
	// Onboarding phase 2: the guard still sends this user to the login view.
	assert.Equal(t, RedirectLogin, Evaluate(snap))
}

func TestRestoreMalformedEntries(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		selected string
	}{
		{"garbage user", `{{{not json`, `[{"id":"f1"}]`},
		{"user without id", `{"name":"nobody"}`, `[]`},
		{"garbage selection", `{"id":"u1"}`, `not an array`},
		{"both garbage", `42`, `"str"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newKV(t)
			require.NoError(t, kv.Put("user", tt.user))
			require.NoError(t, kv.Put("selectedFiles", tt.selected))

			s := New(kv, nil)
			snap := s.Snapshot()

			if tt.name == "garbage selection" {
				// Only the selection entry was bad; the user survives.
				assert.True(t, snap.IsAuthenticated())
			}
			assert.False(t, snap.HasSelectedFiles())

			// Offending entries are removed, not left to fail again.
			if !snap.IsAuthenticated() {
				_, ok, err := kv.Get("user")
				require.NoError(t, err)
				assert.False(t, ok, "malformed user entry should be removed")
			}
			if !snap.HasSelectedFiles() {
				_, ok, err := kv.Get("selectedFiles")
				require.NoError(t, err)
				assert.False(t, ok, "malformed selection entry should be removed")
			}
		})
	}
}

func TestRestoreDiscardsOrphanSelection(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.Put("selectedFiles", `[{"id":"f1","name":"A","url":"urlA"}]`))

	s := New(kv, nil)
	assert.False(t, s.Snapshot().HasSelectedFiles())
	_, ok, err := kv.Get("selectedFiles")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetUserPersists(t *testing.T) {
	kv := newKV(t)
	s := New(kv, nil)
	s.SetUser(&UserProfile{ID: "u1", Name: "Ada", Email: "ada@example.com", AccessToken: "tok"})

	raw, ok, err := kv.Get("user")
	require.NoError(t, err)
	require.True(t, ok)
	var stored UserProfile
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, "u1", stored.ID)
	assert.Equal(t, "tok", stored.AccessToken)
}

func TestSetUserNilClearsEverything(t *testing.T) {
	kv := newKV(t)
	s := New(kv, nil)
	s.SetUser(&UserProfile{ID: "u1"})
	s.SetSelectedFiles([]SelectedItem{{ID: "f1", Name: "A", URL: "urlA"}})

	s.SetUser(nil)

	snap := s.Snapshot()
	assert.False(t, snap.IsAuthenticated())
	assert.False(t, snap.HasSelectedFiles())
	for _, key := range []string{"user", "selectedFiles"} {
		_, ok, err := kv.Get(key)
		require.NoError(t, err)
		assert.Falsef(t, ok, "entry %q should be absent", key)
	}
}

func TestSetSelectedFiles(t *testing.T) {
	kv := newKV(t)
	s := New(kv, nil)
	s.SetUser(&UserProfile{ID: "u1"})

	items := []SelectedItem{
		{ID: "f1", Name: "A", URL: "urlA"},
		{ID: "f2", Name: "B", URL: "urlB"},
	}
	s.SetSelectedFiles(items)

	snap := s.Snapshot()
	require.True(t, snap.HasSelectedFiles())
	assert.Equal(t, items, snap.SelectedFiles)

	raw, ok, err := kv.Get("selectedFiles")
	require.NoError(t, err)
	require.True(t, ok)
	var stored []SelectedItem
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, items, stored)

	// Emptying the selection removes the durable entry but keeps the user.
	s.SetSelectedFiles(nil)
	assert.False(t, s.Snapshot().HasSelectedFiles())
	_, ok, err = kv.Get("selectedFiles")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = kv.Get("user")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLogout(t *testing.T) {
	kv := newKV(t)
	s := New(kv, nil)
	s.SetUser(&UserProfile{ID: "u1", AccessToken: "tok"})
	s.SetSelectedFiles([]SelectedItem{{ID: "f1"}})

	var revoked string
	s.Logout(context.Background(), func(_ context.Context, accessToken string) error {
		revoked = accessToken
		return nil
	})

	assert.Equal(t, "tok", revoked)
	snap := s.Snapshot()
	assert.False(t, snap.IsAuthenticated())
	assert.False(t, snap.HasSelectedFiles())
	assert.Equal(t, RedirectLogin, Evaluate(snap))
	for _, key := range []string{"user", "selectedFiles"} {
		_, ok, err := kv.Get(key)
		require.NoError(t, err)
		assert.Falsef(t, ok, "entry %q should be absent", key)
	}
}

func TestLogoutRevocationFailureStillClears(t *testing.T) {
	kv := newKV(t)
	s := New(kv, nil)
	s.SetUser(&UserProfile{ID: "u1", AccessToken: "tok"})

	s.Logout(context.Background(), func(context.Context, string) error {
		return errors.New("revocation endpoint unreachable")
	})

	assert.False(t, s.Snapshot().IsAuthenticated())
	_, ok, err := kv.Get("user")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New(newKV(t), nil)
	s.SetUser(&UserProfile{ID: "u1"})
	s.SetSelectedFiles([]SelectedItem{{ID: "f1", Name: "A"}})

	snap := s.Snapshot()
	snap.User.ID = "mutated"
	snap.SelectedFiles[0].Name = "mutated"

	fresh := s.Snapshot()
	assert.Equal(t, "u1", fresh.User.ID)
	assert.Equal(t, "A", fresh.SelectedFiles[0].Name)
}
