// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "net/http"

// SavedCookie is a session cookie persisted between runs.
type SavedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Cookies returns the cookies the jar would send to the backend.
func (c *Client) Cookies() []SavedCookie {
	cookies := c.jar.Cookies(c.baseURL)
	out := make([]SavedCookie, 0, len(cookies))
	for _, ck := range cookies {
		out = append(out, SavedCookie{Name: ck.Name, Value: ck.Value})
	}
	return out
}

// RestoreCookies loads previously saved cookies into the jar.
func (c *Client) RestoreCookies(saved []SavedCookie) {
	if len(saved) == 0 {
		return
	}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, s := range saved {
		cookies = append(cookies, &http.Cookie{Name: s.Name, Value: s.Value, Path: "/"})
	}
	root := *c.baseURL
	root.Path = "/"
	c.jar.SetCookies(&root, cookies)
}

// ClearCookies expires every cookie held for the backend.
func (c *Client) ClearCookies() {
	existing := c.jar.Cookies(c.baseURL)
	if len(existing) == 0 {
		return
	}
	expired := make([]*http.Cookie, 0, len(existing))
	for _, ck := range existing {
		expired = append(expired, &http.Cookie{Name: ck.Name, Value: "", Path: "/", MaxAge: -1})
	}
	root := *c.baseURL
	root.Path = "/"
	c.jar.SetCookies(&root, expired)
}
