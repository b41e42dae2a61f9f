package core

import (
	"context"
)

// Credentials is what a client presents to prove who it is. Password
// authenticators read Username and Password, bearer authenticators read Token.
type Credentials struct {
	Username string
	Password string
	Token    string
}

// Authenticator verifies credentials and returns the authenticated Principal
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (*Principal, error)
}

// RegisterInput contains the data needed to create an account
type RegisterInput struct {
	Username string `json:"Username" form:"Username"`
	Password string `json:"Password" form:"Password"`
	Email    string `json:"Email" form:"Email"`
	Birthday string `json:"Birthday" form:"Birthday"` // YYYY-MM-DD, optional
}

// UpdateInput contains the profile fields of an update. An empty Password
// keeps the current one.
type UpdateInput struct {
	Username string `json:"Username" form:"Username"`
	Password string `json:"Password" form:"Password"`
	Email    string `json:"Email" form:"Email"`
	Birthday string `json:"Birthday" form:"Birthday"`
}

// LoginInput contains the credentials for authentication
type LoginInput struct {
	Username string `json:"Username" form:"Username"`
	Password string `json:"Password" form:"Password"`
}

// LoginResult contains the authenticated account and its bearer token
type LoginResult struct {
	User  *Account `json:"user"`
	Token string   `json:"token"`
}

// Authorize allows the request iff the principal owns the resource.
// The comparison is exact and case-sensitive; there is no override.
func Authorize(p *Principal, username string) error {
	if p == nil || p.Username != username {
		return ErrPermissionDenied
	}
	return nil
}
