// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/agentdesk/internal/api"
	"github.com/jeranaias/agentdesk/internal/localstore"
	"github.com/jeranaias/agentdesk/internal/model"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	kv, err := localstore.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return NewSession(kv)
}

func TestSessionRestoreEmpty(t *testing.T) {
	s := newSession(t)
	snap, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap.User)
	assert.Nil(t, snap.Prefs)
	assert.Empty(t, snap.Cookies)

	st := snap.Apply(New())
	assert.False(t, st.LoggedIn())
	assert.True(t, st.SidebarOpen)
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	user := &model.User{ID: 4, Username: "ana", IsStaff: true}
	cookies := []api.SavedCookie{{Name: "sessionid", Value: "abc"}, {Name: "csrftoken", Value: "tok"}}
	require.NoError(t, s.SaveLogin(ctx, user, cookies))
	require.NoError(t, s.SavePrefs(ctx, Prefs{SidebarOpen: false}))

	snap, err := s.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.User)
	assert.Equal(t, "ana", snap.User.Username)
	assert.True(t, snap.User.IsAdmin())
	assert.Equal(t, cookies, snap.Cookies)

	st := snap.Apply(New())
	assert.True(t, st.LoggedIn())
	assert.False(t, st.SidebarOpen)
}

func TestSessionClearKeepsPrefs(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	require.NoError(t, s.SaveLogin(ctx, &model.User{Username: "ana"}, nil))
	require.NoError(t, s.SavePrefs(ctx, Prefs{SidebarOpen: true}))
	require.NoError(t, s.Clear(ctx))

	snap, err := s.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Cookies)
	require.NotNil(t, snap.Prefs)
	assert.True(t, snap.Prefs.SidebarOpen)
}

func TestSaveLoginRejectsNilUser(t *testing.T) {
	s := newSession(t)
	assert.Error(t, s.SaveLogin(context.Background(), nil, nil))
}
