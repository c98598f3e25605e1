// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jeranaias/agentdesk/internal/api"
	"github.com/jeranaias/agentdesk/internal/localstore"
	"github.com/jeranaias/agentdesk/internal/model"
)

// Prefs are the UI preferences kept across runs.
type Prefs struct {
	SidebarOpen bool `json:"sidebar_open"`
}

// Snapshot is everything Session restores at startup.
type Snapshot struct {
	User    *model.User
	Cookies []api.SavedCookie
	Prefs   *Prefs
}

// Session persists the user record, session cookies and preferences.
type Session struct {
	kv *localstore.Store
}

// NewSession wraps an open localstore.
func NewSession(kv *localstore.Store) *Session {
	return &Session{kv: kv}
}

// Restore loads the persisted snapshot. Missing entries are left nil.
func (s *Session) Restore(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	var user model.User
	ok, err := s.kv.GetJSON(ctx, localstore.KeyUser, &user)
	if err != nil {
		return snap, errors.Wrap(err, "restore user")
	}
	if ok {
		snap.User = &user
	}

	if _, err := s.kv.GetJSON(ctx, localstore.KeyCookies, &snap.Cookies); err != nil {
		return snap, errors.Wrap(err, "restore cookies")
	}

	var prefs Prefs
	ok, err = s.kv.GetJSON(ctx, localstore.KeyUIPrefs, &prefs)
	if err != nil {
		return snap, errors.Wrap(err, "restore preferences")
	}
	if ok {
		snap.Prefs = &prefs
	}
	return snap, nil
}

// SaveLogin records a successful login.
func (s *Session) SaveLogin(ctx context.Context, user *model.User, cookies []api.SavedCookie) error {
	if user == nil {
		return errors.New("save login: nil user")
	}
	if err := s.kv.PutJSON(ctx, localstore.KeyUser, user); err != nil {
		return errors.Wrap(err, "save user")
	}
	return s.SaveCookies(ctx, cookies)
}

// SaveCookies stores the current session cookies.
func (s *Session) SaveCookies(ctx context.Context, cookies []api.SavedCookie) error {
	if cookies == nil {
		cookies = []api.SavedCookie{}
	}
	return errors.Wrap(s.kv.PutJSON(ctx, localstore.KeyCookies, cookies), "save cookies")
}

// SavePrefs stores the UI preferences.
func (s *Session) SavePrefs(ctx context.Context, p Prefs) error {
	return errors.Wrap(s.kv.PutJSON(ctx, localstore.KeyUIPrefs, p), "save preferences")
}

// Clear forgets the user and cookies. Preferences are kept.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, localstore.KeyUser); err != nil {
		return errors.Wrap(err, "clear user")
	}
	return errors.Wrap(s.kv.Delete(ctx, localstore.KeyCookies), "clear cookies")
}

// Apply folds a restored snapshot into st.
func (snap Snapshot) Apply(st State) State {
	if snap.Prefs != nil {
		st.SidebarOpen = snap.Prefs.SidebarOpen
	}
	if snap.User != nil {
		st = st.WithUser(snap.User)
	}
	return st
}
