// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jeranaias/agentdesk/internal/config"
)

func newConfigCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and edit the configuration",
	}
	cmd.AddCommand(
		newConfigShowCmd(flags),
		newConfigInitCmd(flags),
		newConfigPathCmd(flags),
		newConfigGetCmd(flags),
		newConfigSetCmd(flags),
	)
	return cmd
}

func newConfigShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, warn, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if warn != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), WarningStyle.Render("Warning:")+" "+warn.Error()+" (using defaults)")
			}
			return flags.emit(cmd, cfg, func(w io.Writer) {
				fmt.Fprintln(w, DimStyle.Render("# "+path))
				fmt.Fprint(w, cfg.String())
			})
		},
	}
}

func newConfigInitCmd(flags *rootFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath(flags)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return &usageError{err: fmt.Errorf("%s already exists; use --force to overwrite", path)}
			}

			cfg := config.Default()
			if flags.apiURL != "" {
				cfg.API.BaseURL = flags.apiURL
			}
			if err := cfg.Validate(); err != nil {
				return &ConfigError{Err: err}
			}
			if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
				return &ConfigError{Err: err}
			}
			if err := config.SaveTOML(cfg, path); err != nil {
				return &ConfigError{Err: err}
			}

			return flags.emit(cmd, map[string]string{"path": path}, func(w io.Writer) {
				fmt.Fprintf(w, "%s Wrote %s\n", RenderStatus("ok"), path)
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func newConfigPathCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config, session and log file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, _, err := loadConfig(flags)
			if err != nil {
				return err
			}
			dir, err := config.ConfigDir()
			if err != nil {
				return &ConfigError{Err: err}
			}
			storePath, err := cfg.StorePath()
			if err != nil {
				return &ConfigError{Err: err}
			}
			logPath, err := cfg.LogPath()
			if err != nil {
				return &ConfigError{Err: err}
			}

			data := ConfigPathData{ConfigDir: dir, ConfigFile: path, StorePath: storePath, LogPath: logPath}
			return flags.emit(cmd, data, func(w io.Writer) {
				fmt.Fprintln(w, RenderLabel("Config dir")+data.ConfigDir)
				fmt.Fprintln(w, RenderLabel("Config file")+data.ConfigFile)
				fmt.Fprintln(w, RenderLabel("Session store")+data.StorePath)
				fmt.Fprintln(w, RenderLabel("Log file")+data.LogPath)
			})
		},
	}
}

func newConfigGetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Print one setting",
		Example: "  agentdesk config get api.base_url",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := loadConfig(flags)
			if err != nil {
				return err
			}
			value, err := cfg.Get(args[0])
			if err != nil {
				return &ValidationError{Field: "key", Value: args[0], Reason: err.Error()}
			}
			return flags.emit(cmd, map[string]interface{}{args[0]: value}, func(w io.Writer) {
				fmt.Fprintln(w, value)
			})
		},
	}
}

func newConfigSetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Change one setting in the config file",
		Example: "  agentdesk config set ui.theme light",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath(flags)
			if err != nil {
				return err
			}

			// Edit the file contents only; env and flag overrides stay out of it.
			cfg := config.Default()
			if _, err := os.Stat(path); err == nil {
				if err := config.LoadTOML(cfg, path); err != nil {
					return &ConfigError{Err: err}
				}
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return &ValidationError{Field: "key", Value: args[0], Reason: err.Error()}
			}
			if err := cfg.Validate(); err != nil {
				return &ConfigError{Err: err}
			}
			if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
				return &ConfigError{Err: err}
			}
			if err := config.SaveTOML(cfg, path); err != nil {
				return &ConfigError{Err: err}
			}

			return flags.emit(cmd, map[string]string{args[0]: args[1]}, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s = %s\n", RenderStatus("ok"), args[0], args[1])
			})
		},
	}
}

// configFilePath is --config or the default TOML path.
func configFilePath(flags *rootFlags) (string, error) {
	if flags.configPath != "" {
		config.SetDir(filepath.Dir(flags.configPath))
		return flags.configPath, nil
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return "", &ConfigError{Err: err}
	}
	return path, nil
}
