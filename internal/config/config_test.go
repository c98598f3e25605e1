// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config directory at a temp dir and clears env overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetDir(dir)
	t.Cleanup(func() { SetDir("") })
	for _, k := range []string{"AGENTDESK_API_URL", "VITE_API_URL", "AGENTDESK_TIMEOUT", "AGENTDESK_LOG_LEVEL", "AGENTDESK_THEME"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8000/api", cfg.API.BaseURL)
	assert.Equal(t, 120, cfg.API.TimeoutSecs)
	assert.Equal(t, ModelsContractMapping, cfg.API.ModelsContract)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().API, cfg.API)
}

func TestLoad_TOMLWithDefaultsFilled(t *testing.T) {
	dir := isolate(t)
	content := "[api]\nbase_url = \"https://chat.example.com/api\"\nmodels_contract = \"array\"\n\n[ui]\ntheme = \"light\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://chat.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, ModelsContractArray, cfg.API.ModelsContract)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, 120, cfg.API.TimeoutSecs)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := isolate(t)
	content := `{"api": {"base_url": "http://10.0.0.2:8000/api", "timeout_secs": 30}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.2:8000/api", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSecs)
}

func TestLoad_BrokenFileReturnsDefaultsAndError(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[api\nbroken"), 0600))

	cfg, err := Load()
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, Default().API.BaseURL, cfg.API.BaseURL)
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("VITE_API_URL", "http://vite:8000/api")
	t.Setenv("AGENTDESK_TIMEOUT", "45")
	t.Setenv("AGENTDESK_LOG_LEVEL", "DEBUG")
	t.Setenv("AGENTDESK_THEME", "light")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://vite:8000/api", cfg.API.BaseURL)
	assert.Equal(t, 45, cfg.API.TimeoutSecs)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "light", cfg.UI.Theme)

	t.Setenv("AGENTDESK_API_URL", "http://primary:8000/api")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "http://primary:8000/api", cfg.API.BaseURL)
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "not a url"
	cfg.API.TimeoutSecs = 0
	cfg.API.ModelsContract = "sniff"
	cfg.UI.Theme = "neon"

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"api.base_url", "api.timeout_secs", "api.models_contract", "ui.theme"}, fields)
}

func TestSaveAndReload(t *testing.T) {
	dir := isolate(t)
	cfg := Default()
	cfg.UI.Compact = true
	cfg.API.BaseURL = "https://saved.example.com/api"

	require.NoError(t, Save(cfg))

	path := filepath.Join(dir, "config.toml")
	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.True(t, loaded.UI.Compact)
	assert.Equal(t, "https://saved.example.com/api", loaded.API.BaseURL)
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("ui.theme", "light"))
	v, err := cfg.Get("ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "light", v)

	require.NoError(t, cfg.Set("api.timeout_secs", "60"))
	assert.Equal(t, 60, cfg.API.TimeoutSecs)

	require.NoError(t, cfg.Set("ui.sidebar_open", "false"))
	assert.False(t, cfg.UI.SidebarOpen)

	_, err = cfg.Get("api.nope")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("api.base_url.deep", "x"))
}

func TestPathsDefaultUnderConfigDir(t *testing.T) {
	dir := isolate(t)
	cfg := Default()

	store, err := cfg.StorePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "session.db"), store)

	logPath, err := cfg.LogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "agentdesk.log"), logPath)
}

func TestLoadFromPath_WrapsCause(t *testing.T) {
	dir := isolate(t)

	missing := filepath.Join(dir, "missing.toml")
	_, err := LoadFromPath(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load TOML config from "+missing)
	assert.True(t, os.IsNotExist(errors.Cause(err)))

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("[api\nbase_url = "), 0600))
	_, err = LoadFromPath(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode TOML file")
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	reloaded := make(chan *Config, 4)
	w, err := Watch(path, 20*time.Millisecond, func(cfg *Config, err error) {
		if err == nil {
			reloaded <- cfg
		}
	})
	require.NoError(t, err)
	defer w.Close()

	cfg := Default()
	cfg.UI.Theme = "light"
	require.NoError(t, SaveTOML(cfg, path))

	select {
	case got := <-reloaded:
		assert.Equal(t, "light", got.UI.Theme)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report a reload")
	}
}

func TestWatch_NilCallback(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "config.toml"), 0, nil)
	assert.Error(t, err)
}
