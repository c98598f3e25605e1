// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// Build information, set by main from linker flags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	apiURL     string
	configPath string
	debug      bool
	json       bool
}

// NewRootCommand builds the agentdesk command tree.
func NewRootCommand() *cobra.Command {
	root, _ := newRoot()
	return root
}

func newRoot() (*cobra.Command, *rootFlags) {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "agentdesk",
		Short: "Terminal client for LLM agents",
		Long: `agentdesk talks to an agents backend: chat with configured agents,
organize conversations into folders, and (for administrators) manage agents
and launch agent-to-agent auto-chats.

Run without a subcommand to start the full-screen interface.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api-url", "", "backend API root, e.g. http://localhost:8000/api")
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.agentdesk/config.toml)")
	pf.BoolVar(&flags.debug, "debug", false, "log at debug level")
	pf.BoolVar(&flags.json, "json", false, "print machine-readable JSON")

	root.AddCommand(
		newLoginCmd(flags),
		newLogoutCmd(flags),
		newRegisterCmd(flags),
		newWhoamiCmd(flags),
		newAgentsCmd(flags),
		newConversationsCmd(flags),
		newFoldersCmd(flags),
		newChatCmd(flags),
		newAutoChatCmd(flags),
		newConfigCmd(flags),
		newTUICmd(flags),
		newVersionCmd(flags),
	)
	return root, flags
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(args []string) int {
	root, flags := newRoot()
	root.SetArgs(args)

	cmd, err := root.ExecuteC()
	if err == nil {
		return ExitSuccess
	}
	if flags.json {
		_ = NewJSONErrorResponse(commandName(cmd), err).Write(root.OutOrStdout())
	} else {
		fmt.Fprintln(root.ErrOrStderr(), ErrorStyle.Render("Error:")+" "+err.Error())
	}
	return ExitCode(err)
}

// commandName is the command path without the binary name, e.g. "agents list".
func commandName(cmd *cobra.Command) string {
	if cmd == nil {
		return ""
	}
	path := cmd.CommandPath()
	if i := strings.IndexByte(path, ' '); i >= 0 {
		return path[i+1:]
	}
	return path
}

// emit prints data as a JSON envelope in --json mode and calls human otherwise.
func (f *rootFlags) emit(cmd *cobra.Command, data interface{}, human func(w io.Writer)) error {
	if f.json {
		return NewJSONResponse(commandName(cmd), data).Write(cmd.OutOrStdout())
	}
	human(cmd.OutOrStdout())
	return nil
}

func newVersionCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := VersionData{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
			return flags.emit(cmd, data, func(w io.Writer) {
				fmt.Fprintf(w, "agentdesk %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
			})
		},
	}
}
