// Package auth carries the authenticated caller identity through core calls.
// Authentication itself happens upstream; this service only consumes the
// verified identity and never reads it from ambient state.
package auth

import "github.com/google/uuid"

type Context struct {
	UserID uuid.UUID
	Role   string
}

func (c Context) IsAdmin() bool { return c.Role == "admin" }
