// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package localstore is agentdesk's local persistent storage: a small SQLite
// key/value table that survives restarts.
//
// It holds the signed-in user record (key "user"), the session cookies, and UI
// preferences. Absence of the user record means "logged out".
//
// # Usage
//
//	st, err := localstore.Open(path)
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	err = st.PutJSON(ctx, localstore.KeyUser, user)
//	ok, err := st.GetJSON(ctx, localstore.KeyUser, &user)
package localstore
