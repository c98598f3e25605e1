// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the agentdesk TUI.

Components are value types: Update returns the updated component instead of
mutating it, so screens can hold them inside their own value models.

# Modals

Alert (alert.go) - Blocking error dialog naming the failed action.
Confirm (confirm.go) - Yes/no prompt for destructive actions.
AccessDenied (denied.go) - Shown in place of a screen the user may not open.

# Chrome

Header (header.go) - Brand, navigation and signed-in user.
StatusBar (statusbar.go) - Key hints and a transient status line.
Toasts (toast.go) - Auto-dismissing success and status notices.

# Forms

Form (form.go) - Labeled fields with focus cycling, used by the auth and
admin screens.
*/
package components
