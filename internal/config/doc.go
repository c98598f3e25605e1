// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for agentdesk.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: main configuration structure
//   - APIConfig: backend URL, timeouts, rate limits, models contract
//   - UIConfig: theme and layout preferences
//   - Watcher: fsnotify-based live reload
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - --api-url flag (applied by the CLI)
//   - Environment variables (AGENTDESK_*, VITE_API_URL)
//   - ~/.agentdesk/config.toml
//   - ~/.agentdesk/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	timeout := time.Duration(cfg.API.TimeoutSecs) * time.Second
package config
