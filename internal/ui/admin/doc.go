// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package admin implements the agent administration screens: the agent list,
// the create/edit form and the auto-chat launcher. The screens are only
// reachable by admin users; the app router enforces that.
package admin
