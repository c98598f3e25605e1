// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/jeranaias/agentdesk/internal/api"
	"github.com/jeranaias/agentdesk/internal/config"
	"github.com/jeranaias/agentdesk/internal/localstore"
	"github.com/jeranaias/agentdesk/internal/logging"
	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/store"
)

// env is the per-invocation wiring: config, logger, API client and the
// persisted session.
type env struct {
	cfg     *config.Config
	cfgPath string
	client  *api.Client
	kv      *localstore.Store
	session *store.Session
	snap    store.Snapshot

	closeLog func() error
}

// loadConfig resolves the config from --config or the default location and
// applies the flag overrides. warn is a non-fatal load problem; defaults were
// used in its place.
func loadConfig(flags *rootFlags) (cfg *config.Config, path string, warn error, err error) {
	if flags.configPath != "" {
		path = flags.configPath
		config.SetDir(filepath.Dir(path))
		if _, statErr := os.Stat(path); statErr == nil {
			cfg, err = config.LoadFromPath(path)
			if err != nil {
				return nil, path, nil, &ConfigError{Err: err}
			}
		}
	} else {
		path, err = config.ConfigPathTOML()
		if err != nil {
			return nil, "", nil, &ConfigError{Err: err}
		}
	}

	if cfg == nil {
		cfg, warn = config.Load()
		if cfg == nil {
			return nil, path, nil, &ConfigError{Err: warn}
		}
	}

	if flags.apiURL != "" {
		cfg.API.BaseURL = flags.apiURL
	}
	if flags.debug {
		cfg.Log.Level = "debug"
	}
	return cfg, path, warn, nil
}

// openEnv loads config, installs the logger, builds the API client and
// restores the stored session into it.
func openEnv(cmd *cobra.Command, flags *rootFlags) (*env, error) {
	cfg, path, warn, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	closeLog, err := logging.Setup(logging.Options{Path: logPath, Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}
	if warn != nil {
		slog.Warn("CONFIG_LOAD", "path", path, "error", warn)
		fmt.Fprintln(cmd.ErrOrStderr(), WarningStyle.Render("Warning:")+" "+warn.Error()+" (using defaults)")
	}

	client, err := api.New(api.Options{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        time.Duration(cfg.API.TimeoutSecs) * time.Second,
		RateLimit:      cfg.API.RateLimitRPS,
		Burst:          cfg.API.RateLimitBurst,
		ModelsContract: api.ModelsContract(cfg.API.ModelsContract),
	})
	if err != nil {
		closeLog()
		return nil, &ConfigError{Err: err}
	}

	storePath, err := cfg.StorePath()
	if err != nil {
		closeLog()
		return nil, &ConfigError{Err: err}
	}
	kv, err := localstore.Open(storePath)
	if err != nil {
		closeLog()
		return nil, err
	}

	e := &env{
		cfg:      cfg,
		cfgPath:  path,
		client:   client,
		kv:       kv,
		session:  store.NewSession(kv),
		closeLog: closeLog,
	}

	snap, err := e.session.Restore(cmd.Context())
	if err != nil {
		slog.Warn("SESSION_RESTORE", "error", err)
	}
	e.snap = snap
	client.RestoreCookies(snap.Cookies)

	slog.Debug("CLI_START", "command", commandName(cmd), "api", client.BaseURL(), "logged_in", snap.User != nil)
	return e, nil
}

// Close releases the store and the log file.
func (e *env) Close() error {
	err := e.kv.Close()
	if cerr := e.closeLog(); err == nil {
		err = cerr
	}
	return err
}

// requireUser returns the stored user or ErrNotLoggedIn.
func (e *env) requireUser() (*model.User, error) {
	if e.snap.User == nil {
		return nil, ErrNotLoggedIn
	}
	return e.snap.User, nil
}

// requireAdmin returns the stored user when it holds the admin role.
func (e *env) requireAdmin() (*model.User, error) {
	user, err := e.requireUser()
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, fmt.Errorf("%s is not an administrator", user.Username)
	}
	return user, nil
}

// check clears the stored session when the backend rejects it. A 403 means the
// session is valid but lacks rights, so it is left alone.
func (e *env) check(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && errors.Is(err, api.ErrUnauthorized) && !apiErr.Forbidden() {
		slog.Info("SESSION_EXPIRED", "action", apiErr.Action)
		e.client.ClearCookies()
		if cerr := e.session.Clear(ctx); cerr != nil {
			slog.Warn("SESSION_CLEAR", "error", cerr)
		}
		e.snap.User = nil
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	return err
}

// saveCookies persists the jar after calls that may rotate the session.
func (e *env) saveCookies(ctx context.Context) {
	if e.snap.User == nil {
		return
	}
	if err := e.session.SaveCookies(ctx, e.client.Cookies()); err != nil {
		slog.Warn("SESSION_SAVE", "error", err)
	}
}

// detectLang derives the collation language from LC_ALL or LANG.
func detectLang() language.Tag {
	for _, key := range []string{"LC_ALL", "LC_COLLATE", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if tag, err := language.Parse(strings.ReplaceAll(v, "_", "-")); err == nil {
			return tag
		}
	}
	return language.English
}
