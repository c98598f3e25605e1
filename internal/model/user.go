// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// AdministratorsGroup is the backend group that grants admin access.
const AdministratorsGroup = "Administrators"

// User is the authenticated account returned by the auth endpoints.
type User struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email,omitempty"`
	FirstName   string   `json:"first_name,omitempty"`
	LastName    string   `json:"last_name,omitempty"`
	IsStaff     bool     `json:"is_staff"`
	IsSuperuser bool     `json:"is_superuser"`
	IsAdminFlag bool     `json:"is_admin"`
	Groups      []string `json:"groups,omitempty"`
}

// IsAdmin reports whether the user may reach admin-only screens.
// A nil user is never an admin.
func (u *User) IsAdmin() bool {
	if u == nil {
		return false
	}
	if u.IsAdminFlag || u.IsStaff || u.IsSuperuser {
		return true
	}
	for _, g := range u.Groups {
		if g == AdministratorsGroup {
			return true
		}
	}
	return false
}

// DisplayName returns the full name when known, otherwise the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full != "" {
		return full
	}
	return u.Username
}

// Registration is the payload for account creation.
type Registration struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// MinPasswordLength mirrors the backend's password rule.
const MinPasswordLength = 8

// Validate checks the fields the backend would reject.
func (r Registration) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, ValidationError{Field: "username", Message: "username is required"})
	}
	if r.Password == "" {
		errs = append(errs, ValidationError{Field: "password", Message: "password is required"})
	} else if len([]rune(r.Password)) < MinPasswordLength {
		errs = append(errs, ValidationError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Credentials is the payload for login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate requires both fields.
func (c Credentials) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(c.Username) == "" {
		errs = append(errs, ValidationError{Field: "username", Message: "username is required"})
	}
	if c.Password == "" {
		errs = append(errs, ValidationError{Field: "password", Message: "password is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
