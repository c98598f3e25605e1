// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	st, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st, path
}

func TestPutGetDelete(t *testing.T) {
	st, _ := openTemp(t)
	ctx := context.Background()

	_, ok, err := st.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Put(ctx, "k", []byte("v1")))
	require.NoError(t, st.Put(ctx, "k", []byte("v2")))

	v, ok, err := st.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2", string(v))

	require.NoError(t, st.Delete(ctx, "k"))
	require.NoError(t, st.Delete(ctx, "k"))
	_, ok, err = st.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJSONRoundTripSurvivesReopen(t *testing.T) {
	st, path := openTemp(t)
	ctx := context.Background()

	type prefs struct {
		SidebarOpen bool `json:"sidebar_open"`
	}
	require.NoError(t, st.PutJSON(ctx, KeyUIPrefs, prefs{SidebarOpen: true}))
	require.NoError(t, st.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	var got prefs
	ok, err := reopened.GetJSON(ctx, KeyUIPrefs, &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.SidebarOpen)
}

func TestKeysPrefix(t *testing.T) {
	st, _ := openTemp(t)
	ctx := context.Background()

	for _, k := range []string{"draft:2", "draft:1", "user", "draft_x"} {
		require.NoError(t, st.Put(ctx, k, []byte("x")))
	}
	keys, err := st.Keys(ctx, "draft:")
	require.NoError(t, err)
	assert.Equal(t, []string{"draft:1", "draft:2"}, keys)
}

func TestClosedStore(t *testing.T) {
	st, _ := openTemp(t)
	require.NoError(t, st.Close())
	require.NoError(t, st.Close())

	_, _, err := st.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, st.Put(context.Background(), "k", nil), ErrClosed)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
