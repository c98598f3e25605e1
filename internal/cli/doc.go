// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the agentdesk command line.
//
// Running agentdesk with no subcommand starts the terminal interface. The
// subcommands cover the same backend operations for scripting:
//
//	agentdesk login | logout | register | whoami
//	agentdesk agents list | models | duplicate | delete
//	agentdesk conversations list | show | delete | move | export
//	agentdesk folders list | create | rename | delete
//	agentdesk chat                 line-mode chat with history
//	agentdesk autochat             launch an agent-to-agent exchange
//	agentdesk config show | init | path | get | set
//	agentdesk version
//
// Global flags: --api-url, --config, --debug, --json.
//
// The session (user record and cookies) is shared with the terminal
// interface through the local session store.
package cli
