// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/agentdesk/internal/model"
)

func TestEvaluate(t *testing.T) {
	plain := &model.User{ID: 1, Username: "bob"}
	admin := &model.User{ID: 2, Username: "ana", IsStaff: true}
	grouped := &model.User{ID: 3, Groups: []string{model.AdministratorsGroup}}

	tests := []struct {
		name  string
		route Route
		user  *model.User
		want  Decision
	}{
		{"anonymous chat redirects", RouteChat, nil, Decision{Outcome: Redirect, Target: RouteLogin}},
		{"anonymous admin redirects", RouteAdmin, nil, Decision{Outcome: Redirect, Target: RouteLogin}},
		{"anonymous login renders", RouteLogin, nil, Decision{Outcome: Render}},
		{"anonymous register renders", RouteRegister, nil, Decision{Outcome: Render}},
		{"plain user chat renders", RouteChat, plain, Decision{Outcome: Render}},
		{"plain user admin denied", RouteAdmin, plain, Decision{Outcome: Denied}},
		{"staff admin renders", RouteAdmin, admin, Decision{Outcome: Render}},
		{"group admin renders", RouteAdmin, grouped, Decision{Outcome: Render}},
		{"signed-in login goes to chat", RouteLogin, plain, Decision{Outcome: Redirect, Target: RouteChat}},
		{"signed-in register renders", RouteRegister, plain, Decision{Outcome: Render}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.route, tt.user))
		})
	}
}

func TestResolve(t *testing.T) {
	route, denied := Resolve(RouteAdmin, nil)
	assert.Equal(t, RouteLogin, route)
	assert.False(t, denied)

	route, denied = Resolve(RouteAdmin, &model.User{})
	assert.Equal(t, RouteAdmin, route)
	assert.True(t, denied)

	route, denied = Resolve(RouteLogin, &model.User{})
	assert.Equal(t, RouteChat, route)
	assert.False(t, denied)
}

func TestParseRoute(t *testing.T) {
	for _, r := range []Route{RouteChat, RouteAdmin, RouteLogin, RouteRegister} {
		got, ok := ParseRoute(r.Path())
		assert.True(t, ok)
		assert.Equal(t, r, got)
	}
	_, ok := ParseRoute("/nope")
	assert.False(t, ok)
}
