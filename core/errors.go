package core

import "errors"

// Token errors
var (
	ErrMissingAuthHeader = errors.New("missing authorization header")                             // 401
	ErrInvalidAuthHeader = errors.New("invalid authorization format, expected 'Bearer <token>'") // 401
	ErrTokenMalformed    = errors.New("malformed token")                                          // 401
	ErrBadSignature      = errors.New("invalid token signature")                                  // 401
	ErrTokenExpired      = errors.New("token expired")                                            // 401
	ErrUnknownSubject    = errors.New("token subject no longer exists")                           // 401
)

// Credential errors. ErrNoSuchUser and ErrBadPassword never leave the
// service layer; callers only ever see ErrInvalidCredentials.
var (
	ErrNoSuchUser         = errors.New("no such user")
	ErrBadPassword        = errors.New("wrong password")
	ErrInvalidCredentials = errors.New("invalid username or password") // 401
)

var (
	ErrPermissionDenied = errors.New("permission denied") // 403
)

// Data errors
var (
	ErrAccountNotFound  = errors.New("account not found")       // 404
	ErrMovieNotFound    = errors.New("movie not found")         // 404
	ErrAccountExists    = errors.New("username already exists") // 409
	ErrStoreUnavailable = errors.New("storage unavailable")     // 500
)

var (
	ErrValidation = errors.New("validation failed") // 422
)

// Config errors (server-side configuration)
var (
	ErrStorageRequired     = errors.New("storage adapter is required") // 500
	ErrHTTPAdapterRequired = errors.New("http adapter is required")    // 500
	ErrSecretRequired      = errors.New("secret is required")          // 500
	ErrSecretTooShort      = errors.New("secret too short")            // 500
)
