// Package session owns the per-browser login state: it decodes the backend
// token, persists it through a TokenStore and decides which route tree a
// request may see.
package session

import (
	"strconv"
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Tree is the route tree mounted for a session.
type Tree int

const (
	TreeLoggedOut Tree = iota
	TreeAdmin
	TreeUser
	TreeUnauthorized
)

func (t Tree) String() string {
	switch t {
	case TreeLoggedOut:
		return "LOGGED_OUT"
	case TreeAdmin:
		return "ADMIN"
	case TreeUser:
		return "USER"
	case TreeUnauthorized:
		return "UNAUTHORIZED"
	}
	return "Tree(" + strconv.Itoa(int(t)) + ")"
}

// Session is the login state of one browser context. The zero value is logged out.
type Session struct {
	Token     string
	WebUserID string
	Role      Role
	LoggedIn  bool
	ExpiresAt time.Time
}

// Tree resolves the route tree. A logged in session without a known role is unauthorized.
func (s Session) Tree() Tree {
	if !s.LoggedIn {
		return TreeLoggedOut
	}
	switch s.Role {
	case RoleAdmin:
		return TreeAdmin
	case RoleUser:
		return TreeUser
	}
	return TreeUnauthorized
}

// UserID is 0 when webUserId is not numeric.
func (s Session) UserID() int64 {
	id, err := strconv.ParseInt(s.WebUserID, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
