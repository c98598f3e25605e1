// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package guard decides whether a screen may be shown to the current user.
//
// Evaluate is pure and is called on every render; nothing is cached.
package guard

import "github.com/jeranaias/agentdesk/internal/model"

// Route names a screen.
type Route string

const (
	RouteLogin    Route = "login"
	RouteRegister Route = "register"
	RouteChat     Route = "chat"
	RouteAdmin    Route = "admin"
)

// Path returns the URL-style path of the route, as shown in the header.
func (r Route) Path() string {
	switch r {
	case RouteChat:
		return "/"
	default:
		return "/" + string(r)
	}
}

// ParseRoute maps a path or name to a route.
func ParseRoute(s string) (Route, bool) {
	switch s {
	case "/", "chat", "":
		return RouteChat, true
	case "/admin", "admin":
		return RouteAdmin, true
	case "/login", "login":
		return RouteLogin, true
	case "/register", "register":
		return RouteRegister, true
	}
	return "", false
}

// Protected reports whether the route needs a signed-in user.
func (r Route) Protected() bool {
	return r == RouteChat || r == RouteAdmin
}

// AdminOnly reports whether the route needs admin rights.
func (r Route) AdminOnly() bool {
	return r == RouteAdmin
}

// Outcome is what the router should do.
type Outcome int

const (
	// Render shows the requested route.
	Render Outcome = iota
	// Redirect navigates to Decision.Target instead.
	Redirect
	// Denied renders the access-denied view in place.
	Denied
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// Decision is the result of Evaluate.
type Decision struct {
	Outcome Outcome
	// Target is set for Redirect.
	Target Route
}

// Evaluate applies, in order: protected routes need a user (else redirect to
// login); admin routes need User.IsAdmin (else access denied). A signed-in
// user asking for the login screen is sent to chat.
func Evaluate(route Route, user *model.User) Decision {
	if route.Protected() && user == nil {
		return Decision{Outcome: Redirect, Target: RouteLogin}
	}
	if route.AdminOnly() && !user.IsAdmin() {
		return Decision{Outcome: Denied}
	}
	if route == RouteLogin && user != nil {
		return Decision{Outcome: Redirect, Target: RouteChat}
	}
	return Decision{Outcome: Render}
}

// Resolve follows redirects and returns the route to show and whether it is
// denied.
func Resolve(route Route, user *model.User) (Route, bool) {
	for i := 0; i < 3; i++ {
		d := Evaluate(route, user)
		switch d.Outcome {
		case Redirect:
			route = d.Target
		case Denied:
			return route, true
		default:
			return route, false
		}
	}
	return route, false
}
